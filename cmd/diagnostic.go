// Copyright © 2024 The ELPS authors

package cmd

import (
	"encoding/json"
	"io"

	"github.com/bsc-analyze/bsc/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// jsonDiagnostic is the wire shape for --json output: the machine-readable
// schema spec §6 describes for programmatic/LSP-style consumers, distinct
// from the Rust-style annotated text the Renderer produces.
type jsonDiagnostic struct {
	Code     diagnostic.Code     `json:"code"`
	Kind     string              `json:"kind"`
	Severity string              `json:"severity"`
	Message  string              `json:"message"`
	File     string              `json:"file"`
	Line     int                 `json:"line"`
	Col      int                 `json:"col"`
	EndLine  int                 `json:"endLine"`
	EndCol   int                 `json:"endCol"`
}

func writeJSONDiagnostics(w io.Writer, diags []diagnostic.Diagnostic) error {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiagnostic{
			Code:     d.Code,
			Kind:     diagnostic.KindOf(d.Code).Name,
			Severity: d.Severity.String(),
			Message:  d.Message,
			File:     d.File,
			Line:     d.Range.Start.Line,
			Col:      d.Range.Start.Col,
			EndLine:  d.Range.End.Line,
			EndCol:   d.Range.End.Col,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
