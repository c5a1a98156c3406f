// Package cli provides configuration management commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/siops/insights-cli/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage insights-cli credentials",
		Long: `Credential management commands for insights-cli.

Commands:
  init  - Interactive credentials setup
  show  - Display current credentials (API key masked)
  path  - Show credentials file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize credentials interactively",
		Long: `Interactive credentials setup for insights-cli.

The credentials are saved to ~/.config/insights/creds (or the path
given with --creds). The API key is read with echo disabled when run
in a terminal.

Use --force to overwrite existing credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := credsPath
			if path == "" {
				path = config.DefaultCredsPath()
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Printf("Credentials already exist at: %s\n", path)
					fmt.Println("Use --force to overwrite or run 'config show' to view them.")
					return nil
				}
			}

			fmt.Println("Storage Insights Credentials Setup")
			fmt.Println("==================================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)

			var tenantInput string
			for tenantInput == "" {
				fmt.Print("Tenant UUID (required): ")
				input, _ := reader.ReadString('\n')
				tenantInput = strings.TrimSpace(input)
				if tenantInput == "" {
					fmt.Println("  Error: tenant UUID is required")
				}
			}

			var apiKeyInput string
			for apiKeyInput == "" {
				apiKeyInput = strings.TrimSpace(readAPIKey(reader))
				if apiKeyInput == "" {
					fmt.Println("  Error: API key is required")
				}
			}

			creds := &config.Credentials{APIKey: apiKeyInput, TenantID: tenantInput}
			if err := config.SaveCredentials(creds, path); err != nil {
				return err
			}

			fmt.Printf("\nCredentials saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing credentials")

	return cmd
}

// readAPIKey reads the API key with echo disabled when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func readAPIKey(reader *bufio.Reader) string {
	fmt.Print("API Key (required): ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		key, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return string(key)
	}
	input, _ := reader.ReadString('\n')
	return input
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := credsPath
			if path == "" {
				path = config.DefaultCredsPath()
			}

			creds, err := config.LoadCredentials(path)
			if err != nil {
				return err
			}

			fmt.Printf("Credentials file: %s\n", path)
			fmt.Printf("Tenant UUID:      %s\n", valueOrUnset(creds.TenantID))
			fmt.Printf("API key:          %s\n", maskAPIKey(creds.APIKey))
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show credentials file path",
		Run: func(cmd *cobra.Command, args []string) {
			path := credsPath
			if path == "" {
				path = config.DefaultCredsPath()
			}
			fmt.Println(path)
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskAPIKey shows just enough of the key to recognize it.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + strings.Repeat("*", 8) + key[len(key)-4:]
}
