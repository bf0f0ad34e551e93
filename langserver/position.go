// Copyright © 2024 The ELPS authors

// Package langserver provides the engine's editor-facing query surface
// (spec §1, §4.6): go-to-definition, completion, document symbols, and
// signature help, computed over a program.Program and returned as
// glsp/protocol_3_16 value types. No transport is wired here — RunStdio
// or RunTCP equivalents are an out-of-scope collaborator a caller supplies
// separately, the same separation the teacher's lsp.Server draws between
// request handlers and the jsonrpc2 server loop that dispatches to them.
package langserver

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bsc-analyze/bsc/parser/token"
)

// toPosition converts a 0-based LSP position to a 1-based source position.
func toPosition(pos protocol.Position) token.Position {
	return token.Position{Line: int(pos.Line) + 1, Col: int(pos.Character) + 1}
}

// fromPosition converts a 1-based source position to a 0-based LSP position.
func fromPosition(pos token.Position) protocol.Position {
	line := pos.Line
	col := pos.Col
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return protocol.Position{Line: safeUint(line), Character: safeUint(col)}
}

func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// fromRange converts a source range to an LSP range.
func fromRange(r token.Range) protocol.Range {
	return protocol.Range{Start: fromPosition(r.Start), End: fromPosition(r.End)}
}

// rangeContains reports whether pos falls within r, inclusive of both
// endpoints — a cursor resting immediately after the last character of a
// token is still considered "on" it, matching how an editor reports the
// cursor position after a completed word.
func rangeContains(r token.Range, pos token.Position) bool {
	return !pos.Less(r.Start) && !r.End.Less(pos)
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	const prefix = "file://"
	if len(uri) >= len(prefix) && uri[:len(prefix)] == prefix {
		return uri[len(prefix):]
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return "file://" + path
	}
	return path
}
