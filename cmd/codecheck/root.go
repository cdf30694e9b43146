package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codecheck",
	Short: "Building code compliance validation engine",
	Long: `Codecheck validates building models against jurisdiction-specific
building code rule sets.

Rule sets are Model Code Program (MCP) files in JSON or YAML. Each rule
narrows the building's objects through conditions and then runs actions
that produce violations and engineering calculations. Applicable rule
sets can be auto-detected from the building's location metadata.`,
	Version: Version,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}
