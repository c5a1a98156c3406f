// Package http builds the HTTP transport used for all API calls,
// including proxy support (system, basic, NTLM) with a bypass list.
package http

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"golang.org/x/net/http/httpproxy"

	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/constants"
)

// ConfigureHTTPClient returns a client honoring the proxy settings, with
// the given overall request timeout. The timeout bounds each call as a
// whole; an elapsed timeout surfaces like any other transport failure.
func ConfigureHTTPClient(proxy config.ProxySettings, timeout time.Duration) (*nethttp.Client, error) {
	if timeout <= 0 {
		timeout = constants.HTTPRequestTimeout
	}

	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
	}

	switch strings.ToLower(proxy.Mode) {
	case "no-proxy", "":
		transport.Proxy = nil

	case "system":
		// Use system proxy settings from environment
		transport.Proxy = nethttp.ProxyFromEnvironment

	case "basic":
		if proxy.Host == "" {
			return nil, fmt.Errorf("proxy mode %q requires a proxy host", proxy.Mode)
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(proxy), proxy.NoProxy)

	case "ntlm":
		if proxy.Host == "" {
			return nil, fmt.Errorf("proxy mode %q requires a proxy host", proxy.Mode)
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(proxy), proxy.NoProxy)

		// NTLM negotiation wraps the transport
		return &nethttp.Client{
			Transport: ntlmssp.Negotiator{
				RoundTripper: transport,
			},
			Timeout: timeout,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", proxy.Mode)
	}

	return &nethttp.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// buildProxyURL constructs a proxy URL from the settings.
func buildProxyURL(proxy config.ProxySettings) *url.URL {
	port := proxy.Port
	if port == 0 {
		port = 8080 // Default proxy port
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", proxy.Host, port),
	}

	// Only embed credentials if both user AND password are provided.
	// Empty password in URL can cause auth failures with some proxies.
	if proxy.User != "" && proxy.Password != "" {
		proxyURL.User = url.UserPassword(proxy.User, proxy.Password)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the NoProxy
// bypass list. If noProxy is empty, behaves identically to
// nethttp.ProxyURL; otherwise golang.org/x/net/http/httpproxy matches
// hosts, domains and CIDRs.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
}
