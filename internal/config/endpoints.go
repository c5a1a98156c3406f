package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/siops/insights-cli/internal/constants"
)

// Endpoints carries the API base URL and the two tenant-scoped path
// templates. Injected rather than hard-coded so tests can point the
// client at a local server. "{tenant}" in a template is replaced with
// the (path-escaped) tenant UUID.
type Endpoints struct {
	BaseURL            string
	TokenPath          string
	StorageSystemsPath string
}

// DefaultEndpoints returns the production endpoints, with the base URL
// overridable through INSIGHTS_API_URL.
func DefaultEndpoints() Endpoints {
	base := os.Getenv(constants.EnvAPIURL)
	if base == "" {
		base = constants.DefaultAPIBaseURL
	}
	return Endpoints{
		BaseURL:            base,
		TokenPath:          constants.DefaultTokenPath,
		StorageSystemsPath: constants.DefaultStorageSystemsPath,
	}
}

// TokenURL returns the token exchange URL for a tenant.
func (e Endpoints) TokenURL(tenantID string) string {
	return e.expand(e.TokenPath, tenantID)
}

// StorageSystemsURL returns the listing URL for a tenant. A non-empty
// storageType is forwarded as the "storage-type" query parameter; the
// value is passed through as-is, not validated against a whitelist.
func (e Endpoints) StorageSystemsURL(tenantID, storageType string) string {
	u := e.expand(e.StorageSystemsPath, tenantID)
	if storageType != "" {
		params := url.Values{}
		params.Set("storage-type", storageType)
		u += "?" + params.Encode()
	}
	return u
}

func (e Endpoints) expand(pathTemplate, tenantID string) string {
	path := strings.ReplaceAll(pathTemplate, "{tenant}", url.PathEscape(tenantID))
	return strings.TrimSuffix(e.BaseURL, "/") + path
}
