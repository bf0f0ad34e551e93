// Copyright © 2024 The ELPS authors

// Package diagnostic provides the engine's diagnostic schema (spec §6) and
// Rust-style annotated rendering of it. It is intentionally independent of
// any one analysis package so parser, scope, and class-validator code can
// all produce Diagnostic values without an import cycle.
package diagnostic

import "github.com/bsc-analyze/bsc/parser/token"

// Severity is the 1-4 severity scale of the diagnostic schema (spec §6):
// hint is the mildest, error the strongest.
type Severity int

const (
	SeverityHint Severity = iota + 1
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityHint:
		return "hint"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Code is a stable numeric diagnostic identifier; each diagnostic kind has
// exactly one code (spec §6).
type Code int

const (
	CodeParseError Code = 1000 + iota

	CodeCallToUnknownFunction
	CodeMismatchArgumentCount
	CodeDuplicateFunctionImplementation
	CodeLocalFunctionShadowsStdlib
	CodeLocalFunctionShadowsScope
	CodeLocalVarShadowedByScopedFunction
	CodeScopeFunctionShadowedByBuiltin
	CodeOverridesAncestorFunction

	CodeScriptSrcCannotBeEmpty
	CodeReferencedFileDoesNotExist
	CodeScriptImportCaseMismatch
	CodeDuplicateAncestorScriptImport

	CodeClassUnknownParent
	CodeClassCyclicInheritance
	CodeClassIllegalOverride
	CodeClassDuplicateMember
	CodeClassMemberSignatureMismatch
	CodeClassFieldShadowsParent
)

// Kind is the taxonomy entry for a Code: its default severity and the
// component that produces it (spec §7).
type Kind struct {
	Code     Code
	Name     string
	Severity Severity
	Source   string
}

var kinds = map[Code]Kind{
	CodeParseError:                       {CodeParseError, "parse-error", SeverityError, "parser"},
	CodeCallToUnknownFunction:            {CodeCallToUnknownFunction, "call-to-unknown-function", SeverityError, "scope"},
	CodeMismatchArgumentCount:            {CodeMismatchArgumentCount, "mismatch-argument-count", SeverityError, "scope"},
	CodeDuplicateFunctionImplementation:  {CodeDuplicateFunctionImplementation, "duplicate-function-implementation", SeverityError, "scope"},
	CodeLocalFunctionShadowsStdlib:       {CodeLocalFunctionShadowsStdlib, "local-function-shadows-stdlib", SeverityWarning, "scope"},
	CodeLocalFunctionShadowsScope:        {CodeLocalFunctionShadowsScope, "local-function-shadows-scope", SeverityWarning, "scope"},
	CodeLocalVarShadowedByScopedFunction: {CodeLocalVarShadowedByScopedFunction, "local-var-shadowed-by-scoped-function", SeverityWarning, "scope"},
	CodeScopeFunctionShadowedByBuiltin:   {CodeScopeFunctionShadowedByBuiltin, "scope-function-shadowed-by-built-in", SeverityWarning, "scope"},
	CodeOverridesAncestorFunction:        {CodeOverridesAncestorFunction, "overrides-ancestor-function", SeverityInfo, "scope"},
	CodeScriptSrcCannotBeEmpty:           {CodeScriptSrcCannotBeEmpty, "script-src-cannot-be-empty", SeverityError, "descriptor scope"},
	CodeReferencedFileDoesNotExist:       {CodeReferencedFileDoesNotExist, "referenced-file-does-not-exist", SeverityError, "descriptor scope"},
	CodeScriptImportCaseMismatch:         {CodeScriptImportCaseMismatch, "script-import-case-mismatch", SeverityWarning, "descriptor scope"},
	CodeDuplicateAncestorScriptImport:    {CodeDuplicateAncestorScriptImport, "duplicate-ancestor-script-import", SeverityWarning, "descriptor scope"},
	CodeClassUnknownParent:               {CodeClassUnknownParent, "class-unknown-parent", SeverityError, "class validator"},
	CodeClassCyclicInheritance:           {CodeClassCyclicInheritance, "class-cyclic-inheritance", SeverityError, "class validator"},
	CodeClassIllegalOverride:             {CodeClassIllegalOverride, "class-illegal-override", SeverityError, "class validator"},
	CodeClassDuplicateMember:             {CodeClassDuplicateMember, "class-duplicate-member", SeverityError, "class validator"},
	CodeClassMemberSignatureMismatch:     {CodeClassMemberSignatureMismatch, "class-member-signature-mismatch", SeverityError, "class validator"},
	CodeClassFieldShadowsParent:          {CodeClassFieldShadowsParent, "class-field-shadows-parent", SeverityError, "class validator"},
}

// KindOf looks up the taxonomy entry for code. The zero Kind is returned
// for an unregistered code.
func KindOf(code Code) Kind {
	return kinds[code]
}

// Name returns the stable diagnostic-kind name for code, e.g.
// "call-to-unknown-function".
func (c Code) Name() string {
	return kinds[c].Name
}

// DefaultSeverity returns the taxonomy's default severity for code.
func (c Code) DefaultSeverity() Severity {
	return kinds[c].Severity
}

// Span identifies a region of source code to highlight in a rendered
// diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// RelatedInformation is a secondary location attached to a Diagnostic, used
// e.g. to point a duplicate-implementation diagnostic at an earlier
// occurrence of the same name.
type RelatedInformation struct {
	File    string
	Range   token.Range
	Message string
}

// Diagnostic is the engine's diagnostic schema (spec §6, §3): a numeric
// code, severity, message, source range, owning file, and optional related
// locations.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Range    token.Range
	File     string
	Related  []RelatedInformation
}

// New builds a Diagnostic using code's default severity.
func New(code Code, file string, rng token.Range, message string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: code.DefaultSeverity(),
		Message:  message,
		Range:    rng,
		File:     file,
	}
}

// WithRelated returns a copy of d with related appended.
func (d Diagnostic) WithRelated(related ...RelatedInformation) Diagnostic {
	d.Related = append(append([]RelatedInformation{}, d.Related...), related...)
	return d
}

// ApplySeverityOverrides remaps each diagnostic's severity per overrides
// (config §6 diagnosticSeverityOverrides) and drops every diagnostic whose
// code appears in ignore.
func ApplySeverityOverrides(diags []Diagnostic, overrides map[Code]Severity, ignore map[Code]bool) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if ignore[d.Code] {
			continue
		}
		if sev, ok := overrides[d.Code]; ok {
			d.Severity = sev
		}
		out = append(out, d)
	}
	return out
}
