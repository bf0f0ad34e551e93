// Copyright © 2024 The ELPS authors

// Package classvalidator checks the class hierarchy of a scope's combined
// class lookup (spec §4.5). It has a single entry point, Run, that walks a
// pre-built lookup table and reports through the same Diagnostic sink
// every other checker uses — the same one-Analyzer-one-Run shape the
// teacher's lint package uses for every other check, generalized here
// from a single file's AST to a cross-file class lookup. classvalidator
// never imports the scope package; scope owns building the Entry lookup
// and calling Run with it.
package classvalidator

import (
	"sort"
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/diagnostic"
)

// Entry is one class in the lookup, keyed by its lower-cased fully
// qualified name (namespace-prefixed) in the caller's map.
type Entry struct {
	Class *ast.ClassStatement
	File  string
}

// QualifiedName returns the lower-cased, namespace-qualified lookup key
// for e's class.
func (e *Entry) QualifiedName() string {
	parts := append(append([]string{}, e.Class.NamespacePath...), e.Class.Name)
	return strings.ToLower(strings.Join(parts, "."))
}

type resolved struct {
	entry  *Entry
	parent *resolved // nil at the root of a chain, or when the parent is unresolved
}

// Run validates every class in lookup and returns the diagnostics found:
// unknown parent, cyclic inheritance, member-signature mismatches, illegal
// override of a final member, field shadowing, and duplicate members
// (spec §4.5).
func Run(lookup map[string]*Entry) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	names := make([]string, 0, len(lookup))
	for name := range lookup {
		names = append(names, name)
	}
	sort.Strings(names)

	resolvedByName := make(map[string]*resolved, len(lookup))
	for _, name := range names {
		diags = append(diags, checkDuplicateMembers(lookup[name])...)
	}

	// DFS cycle detection with three-color marking; also resolves each
	// class's parent pointer (or flags an unknown parent) along the way.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(lookup))
	var visit func(name string) *resolved
	visit = func(name string) *resolved {
		if r, ok := resolvedByName[name]; ok {
			return r
		}
		e := lookup[name]
		if e == nil {
			return nil
		}
		color[name] = gray
		r := &resolved{entry: e}
		if len(e.Class.ParentName) > 0 {
			parentKey := resolveParentKey(e, lookup)
			if parentKey == "" {
				diags = append(diags, diagnostic.New(diagnostic.CodeClassUnknownParent, e.File, e.Class.ParentRange,
					"unknown parent class: "+strings.Join(e.Class.ParentName, ".")))
			} else if color[parentKey] == gray {
				diags = append(diags, diagnostic.New(diagnostic.CodeClassCyclicInheritance, e.File, e.Class.ParentRange,
					"cyclic inheritance involving class "+e.Class.Name))
			} else {
				r.parent = visit(parentKey)
			}
		}
		color[name] = black
		resolvedByName[name] = r
		return r
	}
	for _, name := range names {
		visit(name)
	}

	for _, name := range names {
		r := resolvedByName[name]
		if r == nil || r.parent == nil {
			continue
		}
		diags = append(diags, checkOverrides(r)...)
		diags = append(diags, checkFieldShadowing(r)...)
	}

	return diags
}

// resolveParentKey resolves e's declared parent name against lookup,
// first as a same-namespace-relative name, then as a fully qualified one.
func resolveParentKey(e *Entry, lookup map[string]*Entry) string {
	parentSimple := strings.ToLower(strings.Join(e.Class.ParentName, "."))
	if len(e.Class.NamespacePath) > 0 {
		relative := strings.ToLower(strings.Join(e.Class.NamespacePath, ".")) + "." + parentSimple
		if _, ok := lookup[relative]; ok {
			return relative
		}
	}
	if _, ok := lookup[parentSimple]; ok {
		return parentSimple
	}
	return ""
}

func checkDuplicateMembers(e *Entry) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	seen := map[string]bool{}
	for _, f := range e.Class.Fields {
		key := strings.ToLower(f.Name)
		if seen[key] {
			diags = append(diags, diagnostic.New(diagnostic.CodeClassDuplicateMember, e.File, f.NameRange,
				"duplicate member: "+f.Name))
		}
		seen[key] = true
	}
	for _, m := range e.Class.Methods {
		key := strings.ToLower(m.Name)
		if seen[key] {
			diags = append(diags, diagnostic.New(diagnostic.CodeClassDuplicateMember, e.File, m.NameRange,
				"duplicate member: "+m.Name))
		}
		seen[key] = true
	}
	return diags
}

// ancestorMethod looks up name in r's ancestor chain (not r itself).
func ancestorMethod(r *resolved, name string) (*ast.FunctionStatement, *Entry) {
	for anc := r.parent; anc != nil; anc = anc.parent {
		for _, m := range anc.entry.Class.Methods {
			if strings.EqualFold(m.Name, name) {
				return m, anc.entry
			}
		}
	}
	return nil, nil
}

// ancestorField looks up name among r's ancestors' fields.
func ancestorField(r *resolved, name string) (*ast.ClassField, *Entry) {
	for anc := r.parent; anc != nil; anc = anc.parent {
		for _, f := range anc.entry.Class.Fields {
			if strings.EqualFold(f.Name, name) {
				return f, anc.entry
			}
		}
	}
	return nil, nil
}

func checkOverrides(r *resolved) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, m := range r.entry.Class.Methods {
		anc, ancEntry := ancestorMethod(r, m.Name)
		if anc == nil {
			continue
		}
		if anc.IsFinal {
			diags = append(diags, diagnostic.New(diagnostic.CodeClassIllegalOverride, r.entry.File, m.NameRange,
				"cannot override final member "+anc.Name+" from "+ancEntry.Class.Name).WithRelated(
				diagnostic.RelatedInformation{File: ancEntry.File, Range: anc.NameRange, Message: "final member declared here"}))
			continue
		}
		if anc.Signature.MinArity() != m.Signature.MinArity() || anc.Signature.MaxArity() != m.Signature.MaxArity() || anc.Access != m.Access {
			diags = append(diags, diagnostic.New(diagnostic.CodeClassMemberSignatureMismatch, r.entry.File, m.NameRange,
				"signature of "+m.Name+" does not match overridden member in "+ancEntry.Class.Name).WithRelated(
				diagnostic.RelatedInformation{File: ancEntry.File, Range: anc.NameRange, Message: "overridden member declared here"}))
		}
	}
	return diags
}

func checkFieldShadowing(r *resolved) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, f := range r.entry.Class.Fields {
		if ancF, ancEntry := ancestorField(r, f.Name); ancF != nil {
			diags = append(diags, diagnostic.New(diagnostic.CodeClassFieldShadowsParent, r.entry.File, f.NameRange,
				"field "+f.Name+" shadows a field declared in "+ancEntry.Class.Name).WithRelated(
				diagnostic.RelatedInformation{File: ancEntry.File, Range: ancF.NameRange, Message: "parent field declared here"}))
		}
	}
	return diags
}
