package config

import (
	"strings"
)

// ProxySettings describes how outbound HTTPS traffic reaches the API.
type ProxySettings struct {
	// Mode is one of "no-proxy" (default), "system", "basic", "ntlm".
	Mode     string
	Host     string
	Port     int
	User     string
	Password string

	// NoProxy is a comma-separated bypass list (hosts, domains, CIDRs).
	NoProxy string
}

// Active reports whether a proxy mode other than direct is configured.
func (p ProxySettings) Active() bool {
	switch strings.ToLower(p.Mode) {
	case "", "no-proxy":
		return false
	}
	return true
}
