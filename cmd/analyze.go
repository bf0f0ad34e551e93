// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsc-analyze/bsc/config"
	"github.com/bsc-analyze/bsc/parser"
)

// AnalyzeCommand creates the "analyze" cobra command: a read-only report
// of every diagnostic a set of files or a workspace produces. Unlike
// lint, it always exits 0 on a clean analysis run — editor and CI
// integrations that want a pass/fail signal should use lint instead.
func AnalyzeCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		jsonOut       bool
		workspaceRoot string
		supersetMode  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [flags] [files...]",
		Short: "Report every diagnostic for a set of files or a project workspace",
		Long: `Report every diagnostic a set of files or an entire project workspace
produces, without setting a process exit code for CI gating (use "lint"
for that).

With --workspace, the given directory is walked recursively for ".brs"
source files and ".xml" component descriptors; otherwise each positional
argument is analyzed as a single file.

Examples:
  bsc analyze main.brs                 Report diagnostics for one file
  bsc analyze --workspace ./src        Report diagnostics for a project tree
  bsc analyze --json --workspace ./src Report as JSON for tooling`,
		Args: cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			mode := parser.Baseline
			if supersetMode {
				mode = parser.Superset
			}

			expanded, err := expandArgs(args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				cfg.exit(2)
				return nil
			}

			p, err := buildProgram(expanded, workspaceRoot, mode)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				cfg.exit(2)
				return nil
			}

			cfgOpts, err := config.Load(cfgFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				cfg.exit(2)
				return nil
			}
			diags := applyConfig(p.Diagnostics(), cfgOpts)

			if jsonOut {
				if err := writeJSONDiagnostics(os.Stdout, diags); err != nil {
					fmt.Fprintln(os.Stderr, err)
					cfg.exit(2)
				}
				return nil
			}
			if len(diags) == 0 {
				fmt.Println("no diagnostics")
				return nil
			}
			if err := newRenderer().RenderAll(os.Stdout, diags); err != nil {
				fmt.Fprintln(os.Stderr, err)
				cfg.exit(2)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&workspaceRoot, "workspace", "",
		"Recursively scan a directory for source files and component descriptors instead of using positional args.")
	cmd.Flags().BoolVar(&supersetMode, "superset", false,
		"Parse with the superset grammar instead of the baseline dialect.")

	return cmd
}

func init() {
	rootCmd.AddCommand(AnalyzeCommand())
}
