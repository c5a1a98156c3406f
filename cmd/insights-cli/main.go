// insights-cli - command-line client for the IBM Storage Insights APIs.
package main

import (
	"fmt"
	"os"

	"github.com/siops/insights-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
