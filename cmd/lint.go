// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsc-analyze/bsc/config"
	"github.com/bsc-analyze/bsc/parser"
)

// LintCommand creates the "lint" cobra command. Embedders can pass
// WithExit to capture the exit code instead of terminating the process,
// the same override lsp.Server.exitFn gives test code.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		jsonOut       bool
		excludes      []string
		workspaceRoot string
		supersetMode  bool
	)

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on source files and component descriptors",
		Long: `Run static analysis checks on source files and component descriptors.

The linter reports likely mistakes: calls to unknown functions, mismatched
argument counts, shadowed or duplicate function definitions, class hierarchy
errors, and broken script-import references. It does NOT report style
issues.

With --workspace, the given directory is walked recursively for ".brs"
source files and ".xml" component descriptors; otherwise each positional
argument is analyzed as a single file.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic on a line:
  doThing() 'bs:disable-line
  doThing() 'bs:disable-line: 1001

To suppress the line that follows:
  'bs:disable-next-line
  doThing()

Examples:
  bsc lint main.brs                         Lint a single file
  bsc lint --json main.brs other.brs        Output diagnostics as JSON
  bsc lint --workspace ./src                Lint an entire project tree
  bsc lint --exclude='generated_*' ./...    Exclude files by glob`,
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
			expanded = filterExcludes(expanded, excludes)

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
			if len(diags) == 0 {
				return nil
			}

			if jsonOut {
				if err := writeJSONDiagnostics(os.Stdout, diags); err != nil {
					fmt.Fprintln(os.Stderr, err)
					cfg.exit(2)
					return nil
				}
			} else if err := newRenderer().RenderAll(os.Stdout, diags); err != nil {
				fmt.Fprintln(os.Stderr, err)
				cfg.exit(2)
				return nil
			}
			cfg.exit(1)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob, base-name, or path-component pattern for files to exclude (may be repeated).")
	cmd.Flags().StringVar(&workspaceRoot, "workspace", "",
		"Recursively scan a directory for source files and component descriptors instead of using positional args.")
	cmd.Flags().BoolVar(&supersetMode, "superset", false,
		"Parse with the superset grammar instead of the baseline dialect.")

	return cmd
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
