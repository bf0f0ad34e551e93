// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"strconv"
	"strings"

	"github.com/bsc-analyze/bsc/parser/token"
)

// FilterSuppressed drops diagnostics whose range intersects a line carrying
// a `'bs:disable-line [codes...]` comment, or the line following a
// `'bs:disable-next-line [codes...]` comment, restricted to the named codes
// when any are given (spec §7). comments is a file's collected COMMENT
// tokens; filtering happens at getDiagnostics read time, never by mutating
// the stored diagnostic list.
func FilterSuppressed(diags []Diagnostic, comments []*token.Token) []Diagnostic {
	suppressed := suppressedLines(comments)
	if len(suppressed) == 0 {
		return diags
	}
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if isSuppressed(d, suppressed) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// codeSet is nil for an unrestricted "suppress everything on this line"
// directive, and a non-nil membership set otherwise.
type codeSet map[Code]bool

func suppressedLines(comments []*token.Token) map[int]codeSet {
	lines := make(map[int]codeSet)
	for _, c := range comments {
		directive, codes, ok := parseDirective(c.Text)
		if !ok {
			continue
		}
		line := c.Range.Start.Line
		if directive == "next-line" {
			line++
		}
		if existing, seen := lines[line]; seen {
			lines[line] = mergeCodeSets(existing, codes)
		} else {
			lines[line] = codes
		}
	}
	return lines
}

func mergeCodeSets(existing codeSet, added codeSet) codeSet {
	if existing == nil && added == nil {
		return nil
	}
	if existing == nil || added == nil {
		return nil // an unrestricted directive on the line suppresses everything
	}
	merged := make(codeSet, len(existing)+len(added))
	for c := range existing {
		merged[c] = true
	}
	for c := range added {
		merged[c] = true
	}
	return merged
}

// parseDirective recognizes `'bs:disable-line` and `'bs:disable-next-line`,
// each optionally followed by a whitespace-separated list of numeric codes.
// A nil codeSet return means "suppress all codes on the affected line".
func parseDirective(commentText string) (directive string, codes codeSet, ok bool) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(commentText), "'"))
	const nextPrefix = "bs:disable-next-line"
	const linePrefix = "bs:disable-line"
	var rest string
	switch {
	case strings.HasPrefix(text, nextPrefix):
		directive = "next-line"
		rest = strings.TrimPrefix(text, nextPrefix)
	case strings.HasPrefix(text, linePrefix):
		directive = "line"
		rest = strings.TrimPrefix(text, linePrefix)
	default:
		return "", nil, false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return directive, nil, true
	}
	fields := strings.Fields(rest)
	codes = make(codeSet, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(f, ","))
		if err != nil {
			continue
		}
		codes[Code(n)] = true
	}
	return directive, codes, true
}

func isSuppressed(d Diagnostic, lines map[int]codeSet) bool {
	for line := d.Range.Start.Line; line <= d.Range.End.Line; line++ {
		set, ok := lines[line]
		if !ok {
			continue
		}
		if set == nil {
			return true
		}
		if set[d.Code] {
			return true
		}
	}
	return false
}
