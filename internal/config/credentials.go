// Package config provides credential and endpoint configuration for insights-cli.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/siops/insights-cli/internal/constants"
)

// Credentials is the API key / tenant pair scoping every API call.
// Created once per run and never mutated.
type Credentials struct {
	APIKey   string
	TenantID string
}

// Configuration errors. Both are fatal: the run cannot start without a
// complete credential pair.
var (
	ErrMissingAPIKey   = errors.New("credentials: apikey is required")
	ErrMissingTenantID = errors.New("credentials: tenantid is required")
)

// DefaultCredsPath returns the default credentials file location
// (~/.config/insights/creds on Unix, the platform config dir elsewhere).
func DefaultCredsPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return constants.CredsFileName
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, constants.ConfigDir, constants.CredsFileName)
}

// LoadCredentials parses a credentials file. The format is the historical
// one: lowercase "apikey: <value>" and "tenantid: <value>" lines, "#"
// comments and blank lines ignored. "=" is accepted as a delimiter too.
// Returns whatever keys were present; completeness is checked by the
// caller so flag/env values can fill the gaps.
func LoadCredentials(path string) (*Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("credential file not found: %s", path)
	}

	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}

	section := file.Section(ini.DefaultSection)
	return &Credentials{
		APIKey:   strings.TrimSpace(section.Key("apikey").String()),
		TenantID: strings.TrimSpace(section.Key("tenantid").String()),
	}, nil
}

// ResolveCredentials assembles the credential pair from the available
// sources in priority order:
//
//  1. Explicit values (from --api-key / --tenant-id flags)
//  2. The credentials file (path from --creds, default otherwise)
//  3. Environment (INSIGHTS_API_KEY / INSIGHTS_TENANT_ID)
//
// Either field still empty after all sources is a configuration error.
func ResolveCredentials(apiKey, tenantID, credsPath string) (*Credentials, error) {
	creds := &Credentials{APIKey: apiKey, TenantID: tenantID}

	if creds.APIKey == "" || creds.TenantID == "" {
		if credsPath == "" {
			credsPath = DefaultCredsPath()
		}
		if fileCreds, err := LoadCredentials(credsPath); err == nil {
			if creds.APIKey == "" {
				creds.APIKey = fileCreds.APIKey
			}
			if creds.TenantID == "" {
				creds.TenantID = fileCreds.TenantID
			}
		}
	}

	if creds.APIKey == "" {
		creds.APIKey = os.Getenv(constants.EnvAPIKey)
	}
	if creds.TenantID == "" {
		creds.TenantID = os.Getenv(constants.EnvTenantID)
	}

	if creds.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if creds.TenantID == "" {
		return nil, ErrMissingTenantID
	}

	return creds, nil
}

// SaveCredentials writes the credentials file in the historical colon
// format. Parent directories are created with owner-only permissions and
// the write is atomic (tmp file + rename); the API key is sensitive.
func SaveCredentials(creds *Credentials, path string) error {
	if path == "" {
		path = DefaultCredsPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf("# %s credentials\napikey: %s\ntenantid: %s\n",
		constants.AppName, creds.APIKey, creds.TenantID)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}
