// Package cli provides storage systems commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/core"
)

// newStorageSystemsCmd creates the 'storage-systems' command group.
func newStorageSystemsCmd() *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage-systems",
		Short: "Storage systems monitored for the tenant",
		Long:  `Commands for the storage systems registered with Storage Insights for the tenant.`,
	}

	storageCmd.AddCommand(newStorageSystemsListCmd())

	return storageCmd
}

// newStorageSystemsListCmd creates the 'storage-systems list' command.
func newStorageSystemsListCmd() *cobra.Command {
	var (
		storageType string
		jsonOut     string
		printTable  bool
		tableOut    string
		tokenOut    string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the tenant's storage systems listing",
		Long: `Fetch the storage systems registered for the tenant.

Exchanges the API key for a bearer token, retrieves the listing, and
optionally writes the raw JSON payload, a summary table, and the token
itself to files. Each run performs exactly one token exchange.

Examples:
  # Summary table of block storage systems (the default filter)
  insights-cli storage-systems list --table

  # All storage types, raw payload to a file
  insights-cli storage-systems list --storage-type "" --json-out systems.json

  # First 10 filers, table to file and stdout
  insights-cli storage-systems list --storage-type filer --limit 10 --table --table-out systems.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()

			creds, err := config.ResolveCredentials(apiKey, tenantID, credsPath)
			if err != nil {
				return fmt.Errorf("failed to resolve credentials: %w", err)
			}

			client, err := newAPIClient()
			if err != nil {
				return fmt.Errorf("failed to create API client: %w", err)
			}

			runner := core.NewRunner(client, endpointsFromFlags(), GetLogger())
			return runner.Run(ctx, creds, core.Options{
				StorageType: storageType,
				JSONOut:     jsonOut,
				TableOut:    tableOut,
				TokenOut:    tokenOut,
				PrintTable:  printTable,
				Limit:       limit,
			})
		},
	}

	cmd.Flags().StringVar(&storageType, "storage-type", "block", "Storage type filter (block, filer, object). Use empty string for all")
	cmd.Flags().StringVar(&jsonOut, "json-out", "", "Path to write the raw storage systems JSON payload")
	cmd.Flags().BoolVar(&printTable, "table", false, "Print the storage systems summary table to stdout")
	cmd.Flags().StringVar(&tableOut, "table-out", "", "Path to write the summary table")
	cmd.Flags().StringVar(&tokenOut, "token-out", "", "Path to write the API token")
	cmd.Flags().IntVar(&limit, "limit", -1, "Limit the number of rows displayed in the table (-1 = no limit)")

	return cmd
}
