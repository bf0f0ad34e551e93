// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bsc",
	Short: "bsc — static analysis for BrightScript source files and component descriptors",
	Long: `bsc analyzes BrightScript (".brs") source files and component descriptor
(".xml") files without running them, surfacing mistakes a compiler would
otherwise only catch on a physical device: calls to unknown functions,
mismatched argument counts, shadowed or duplicate function definitions,
class hierarchy errors, and broken script-import references.

Getting started:
  bsc analyze main.brs            Report diagnostics for one file
  bsc analyze --workspace ./src   Report diagnostics for a project tree
  bsc lint --workspace ./src      Same analysis, nonzero exit on findings

Configuration is layered flag > environment (BSC_-prefixed) > config file
(see --config), matching diagnosticSeverityOverrides and ignoreErrorCodes
keys to per-code behavior.

More information:
  Source code:     https://github.com/bsc-analyze/bsc`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML/JSON/TOML, see package config)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}
