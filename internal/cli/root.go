// Package cli provides the command-line interface for insights-cli.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/siops/insights-cli/internal/api"
	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/logging"
	"github.com/siops/insights-cli/internal/version"
)

var (
	// Global flags
	credsPath  string
	apiKey     string
	tenantID   string
	apiBaseURL string
	timeoutSec int
	verbose    bool
	quiet      bool

	// Proxy flags
	proxyMode     string
	proxyHost     string
	proxyPort     int
	proxyUser     string
	proxyPassword string
	noProxyHosts  string

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "insights-cli",
		Short: "CLI for the IBM Storage Insights APIs",
		Long: `insights-cli ` + version.Version + ` - Built: ` + version.BuildTime + `
Client for the IBM Storage Insights monitoring APIs.

Authenticates with a tenant API key, exchanges it for a short-lived
bearer token, and retrieves the tenant's registered storage systems.
Credentials come from --api-key/--tenant-id flags, the credentials
file (--creds), or the INSIGHTS_API_KEY / INSIGHTS_TENANT_ID
environment, in that order.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger. --quiet wins over --verbose.
			logger = logging.NewDefaultCLILogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			if quiet {
				logging.SetGlobalLevel(zerolog.WarnLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&credsPath, "creds", "", "Path to credentials file containing apikey and tenantid (default: ~/.config/insights/creds)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Storage Insights API key (overrides all other sources)")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant-id", "", "Tenant UUID (overrides all other sources)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "API base URL (overrides INSIGHTS_API_URL and the default)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 30, "Per-request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential console output")

	// Proxy flags
	rootCmd.PersistentFlags().StringVar(&proxyMode, "proxy-mode", "no-proxy", "Proxy mode: no-proxy, system, basic, ntlm")
	rootCmd.PersistentFlags().StringVar(&proxyHost, "proxy-host", "", "Proxy host (basic/ntlm modes)")
	rootCmd.PersistentFlags().IntVar(&proxyPort, "proxy-port", 0, "Proxy port (default 8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUser, "proxy-user", "", "Proxy username")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password")
	rootCmd.PersistentFlags().StringVar(&noProxyHosts, "no-proxy-hosts", "", "Comma-separated proxy bypass list (hosts, domains, CIDRs)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newStorageSystemsCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context is cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		// Fallback to background context if called before Execute()
		return context.Background()
	}
	return rootContext
}

// endpointsFromFlags resolves the endpoint set, honoring --api-url.
func endpointsFromFlags() config.Endpoints {
	endpoints := config.DefaultEndpoints()
	if apiBaseURL != "" {
		endpoints.BaseURL = apiBaseURL
	}
	return endpoints
}

// proxyFromFlags collects the proxy settings from global flags.
func proxyFromFlags() config.ProxySettings {
	return config.ProxySettings{
		Mode:     proxyMode,
		Host:     proxyHost,
		Port:     proxyPort,
		User:     proxyUser,
		Password: proxyPassword,
		NoProxy:  noProxyHosts,
	}
}

// newAPIClient creates an API client from the global flags.
func newAPIClient() (*api.Client, error) {
	proxy := proxyFromFlags()
	if proxy.Active() {
		GetLogger().Debugf("Using proxy mode %s via %s", proxy.Mode, proxy.Host)
	}
	return api.NewClient(api.Options{
		Timeout: time.Duration(timeoutSec) * time.Second,
		Proxy:   proxy,
	})
}
