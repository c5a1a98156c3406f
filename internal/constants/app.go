package constants

import (
	"time"
)

// Application identity
const (
	// AppName is the binary/product name used in logs and user messages.
	AppName = "insights-cli"

	// ConfigDir is the directory under the user config root
	// (~/.config on Unix) that holds the credentials file.
	ConfigDir = "insights"

	// CredsFileName is the credentials file name inside ConfigDir.
	CredsFileName = "creds"
)

// API defaults
const (
	// DefaultAPIBaseURL is the production Storage Insights API base.
	// Overridable via --api-url or INSIGHTS_API_URL for test doubles.
	DefaultAPIBaseURL = "https://insights.ibm.com"

	// DefaultTokenPath is the tenant-scoped token exchange path template.
	// "{tenant}" is replaced with the tenant UUID.
	DefaultTokenPath = "/restapi/v1/tenants/{tenant}/token"

	// DefaultStorageSystemsPath is the tenant-scoped listing path template.
	DefaultStorageSystemsPath = "/restapi/v1/tenants/{tenant}/storage-systems"
)

// HTTP client settings
const (
	// HTTPRequestTimeout bounds each API call. There is exactly one
	// attempt per call; a timeout surfaces like any transport failure.
	HTTPRequestTimeout = 30 * time.Second

	HTTPDialTimeout           = 10 * time.Second
	HTTPDialKeepAlive         = 30 * time.Second
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Environment variables consulted as the lowest-priority credential and
// endpoint sources.
const (
	EnvAPIKey   = "INSIGHTS_API_KEY"
	EnvTenantID = "INSIGHTS_TENANT_ID"
	EnvAPIURL   = "INSIGHTS_API_URL"
)
