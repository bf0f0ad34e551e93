// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/bsc-analyze/bsc/config"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/lexer"
	"github.com/bsc-analyze/bsc/program"
	"github.com/bsc-analyze/bsc/scope"
)

// acceptAll is the membership predicate a flat CLI invocation uses: every
// registered file belongs to the one scope lint and analyze validate
// against, the same predicate the language server's own tests use for a
// single-scope Program.
func acceptAll(scope.Member) bool { return true }

// buildProgram parses every file in paths (code files) and descriptor
// files (".xml"), registers them on a fresh Program under one flat scope,
// and optionally walks workspaceRoot first via program.ScanWorkspace.
func buildProgram(paths []string, workspaceRoot string, mode parser.Mode) (*program.Program, error) {
	p := program.New()
	p.AddScope("all", acceptAll)

	if workspaceRoot != "" {
		if err := program.ScanWorkspace(p, workspaceRoot, mode); err != nil {
			return nil, fmt.Errorf("scanning workspace %s: %w", workspaceRoot, err)
		}
	}

	for _, path := range paths {
		src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if isDescriptorPath(path) {
			if _, err := p.AddDescriptorFile(path, path, src); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		toks := lexer.New(path, string(src)).Tokenize()
		p.AddFile(path, path, mode, lexer.NewSource(toks))
	}
	return p, nil
}

func isDescriptorPath(path string) bool {
	return len(path) >= 4 && path[len(path)-4:] == ".xml"
}

// applyConfig narrows diags according to cfg's severity overrides and
// ignored codes (spec §6); a nil cfg is a no-op.
func applyConfig(diags []diagnostic.Diagnostic, cfg *config.Options) []diagnostic.Diagnostic {
	if cfg == nil {
		return diags
	}
	return diagnostic.ApplySeverityOverrides(diags, cfg.DiagnosticSeverityOverrides, cfg.IgnoreErrorCodes)
}
