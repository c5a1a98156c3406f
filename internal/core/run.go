// Package core sequences one CLI invocation: credentials are exchanged
// for a token, the listing is fetched, and requested artifacts are
// written. Fail-fast: the first error aborts the run, and later steps
// never execute.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/siops/insights-cli/internal/api"
	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/logging"
	"github.com/siops/insights-cli/internal/models"
	"github.com/siops/insights-cli/internal/render"
)

// Options carries the per-run settings collected by the CLI layer.
// Each optional artifact is gated independently by its path/flag.
type Options struct {
	// StorageType filters the listing when non-empty; forwarded as-is.
	StorageType string

	// JSONOut, TableOut and TokenOut are artifact paths; empty means
	// the artifact is not written.
	JSONOut  string
	TableOut string
	TokenOut string

	// PrintTable prints the rendered table to stdout.
	PrintTable bool

	// Limit caps rendered table rows; negative means no limit.
	Limit int
}

// Runner owns the run sequence. Stdout and WriteFile are injectable so
// tests can capture output and artifact writes; defaults are set by
// NewRunner.
type Runner struct {
	tokens  *api.TokenService
	systems *api.StorageSystemsService
	log     *logging.Logger

	Stdout    io.Writer
	WriteFile func(path string, data []byte) error
}

// NewRunner creates a runner over an API client and endpoint set.
func NewRunner(client *api.Client, endpoints config.Endpoints, log *logging.Logger) *Runner {
	return &Runner{
		tokens:  api.NewTokenService(client, endpoints),
		systems: api.NewStorageSystemsService(client, endpoints),
		log:     log,
		Stdout:  os.Stdout,
		WriteFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0644)
		},
	}
}

// Run executes one invocation. A failure in any mandatory step (token
// exchange, listing fetch) or in any requested artifact write aborts
// the run; artifact failures are deliberately not distinguished.
func (r *Runner) Run(ctx context.Context, creds *config.Credentials, opts Options) error {
	r.log.Infof("Using tenant: %s", creds.TenantID)

	token, err := r.tokens.ObtainToken(ctx, creds)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	if opts.TokenOut != "" {
		if err := r.writeArtifact(opts.TokenOut, []byte(token.Value)); err != nil {
			return err
		}
		r.log.Infof("Wrote token to %s", opts.TokenOut)
	}

	r.log.Infof("Token expiration (UTC): %s", render.FormatTimestamp(models.EpochMSOf(token.ExpirationMS)))

	payload, err := r.systems.FetchStorageSystems(ctx, creds.TenantID, token, opts.StorageType)
	if err != nil {
		return fmt.Errorf("storage systems fetch failed: %w", err)
	}

	summaryType := payload.StorageType
	if summaryType == "" {
		summaryType = opts.StorageType
	}
	if summaryType == "" {
		summaryType = "all"
	}
	r.log.Infof("Retrieved %d storage systems (storageType=%s)", len(payload.Data), summaryType)

	if opts.JSONOut != "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, payload.Raw, "", "  "); err != nil {
			return fmt.Errorf("failed to format JSON payload: %w", err)
		}
		if err := r.writeArtifact(opts.JSONOut, pretty.Bytes()); err != nil {
			return err
		}
		r.log.Infof("Wrote JSON payload to %s", opts.JSONOut)
	}

	if opts.PrintTable || opts.TableOut != "" {
		table := render.Table(payload.Data, opts.Limit)
		if opts.PrintTable {
			fmt.Fprintln(r.Stdout, table)
		}
		if opts.TableOut != "" {
			if err := r.writeArtifact(opts.TableOut, []byte(table)); err != nil {
				return err
			}
			r.log.Infof("Wrote table to %s", opts.TableOut)
		}
	}

	return nil
}

// writeArtifact writes data plus the trailing newline every persisted
// artifact carries.
func (r *Runner) writeArtifact(path string, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	if err := r.WriteFile(path, buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
