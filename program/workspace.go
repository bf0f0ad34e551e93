// Copyright © 2024 The ELPS authors

package program

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/lexer"
	"github.com/bsc-analyze/bsc/parser/token"
)

// ScanWorkspace walks root, classifies every file as code (".brs") or
// descriptor (".xml") by extension, and feeds each into p via AddFile or
// AddDescriptorFile in a single batch — the batch boundary spec §5's
// "Suspension points" describes. Hidden directories and node_modules are
// skipped, matching the teacher's ScanWorkspaceFull.
//
// A file that fails to read is skipped; a file of neither extension is
// ignored. A corrupt descriptor root tag aborts the whole scan and
// returns its *token.LocationError rather than silently dropping that
// descriptor's component from the project.
func ScanWorkspace(p *Program, root string, mode parser.Mode) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return &token.LocationError{
			Err: os.ErrNotExist,
			Loc: &token.Location{File: root},
		}
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		pkgPath := filepath.ToSlash(rel)

		switch strings.ToLower(filepath.Ext(path)) {
		case ".brs":
			src, err := os.ReadFile(path) //nolint:gosec // workspace scan reads caller-specified project files
			if err != nil {
				return nil
			}
			toks := lexer.New(path, string(src)).Tokenize()
			p.AddFile(path, pkgPath, mode, lexer.NewSource(toks))
		case ".xml":
			src, err := os.ReadFile(path) //nolint:gosec // workspace scan reads caller-specified project files
			if err != nil {
				return nil
			}
			if _, err := p.AddDescriptorFile(path, pkgPath, src); err != nil {
				return err
			}
		}
		return nil
	})
}

// shouldSkipDir reports whether name should be excluded from a workspace
// walk: hidden directories and node_modules, but not "." or "..".
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}
