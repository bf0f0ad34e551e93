// Copyright © 2024 The ELPS authors

package scope

import (
	"strings"

	"github.com/bsc-analyze/bsc/descriptor"
	"github.com/bsc-analyze/bsc/diagnostic"
)

// PackageResolver answers whether a project-relative package path names a
// known file, returning that file's canonically-cased path — used by
// DescriptorScope to validate <script> imports without this package
// depending on a global file registry (spec §4.6).
type PackageResolver interface {
	ResolvePackagePath(pkgPath string) (canonical string, ok bool)
}

// DescriptorScope specializes Scope for a single component descriptor
// file (spec §4.6): beyond the base validation pipeline, it checks the
// descriptor's own <script> imports for an empty uri, a missing target
// file, a casing mismatch against the resolved file, and redundant
// imports already supplied by an ancestor component.
type DescriptorScope struct {
	*Scope
	File     *descriptor.DescriptorFile
	Resolver PackageResolver
}

// NewDescriptorScope builds the DescriptorScope for df. resolver answers
// script-import existence checks; events, if non-nil, wires file-added
// and file-removed notifications the same way a base Scope would.
func NewDescriptorScope(df *descriptor.DescriptorFile, resolver PackageResolver, events EventSource) *DescriptorScope {
	base := New("descriptor:"+df.PkgPath, func(m Member) bool { return df.DoesReferenceFile(memberFile(m)) }, events)
	ds := &DescriptorScope{Scope: base, File: df, Resolver: resolver}
	base.onValidateExtra = ds.checkScriptImports
	return ds
}

// memberFile returns m's underlying code or descriptor file as a
// descriptor.File, for membership predicates built over DoesReferenceFile.
func memberFile(m Member) descriptor.File {
	if m.Code != nil {
		return m.Code
	}
	return m.Descriptor
}

// AttachParentDescriptor links both halves of the parent relationship in
// one call: the descriptor file's own parent pointer (spec §4.2's
// attach-parent event) and this scope's parent scope (spec §4.4's
// validate-parent-first ordering) — kept as two calls into two
// independently owned emitters rather than a shared one (spec §9 Design
// Note: "Event-driven parent linkage → explicit signal graph").
func (ds *DescriptorScope) AttachParentDescriptor(parentFile *descriptor.DescriptorFile, parentScope *Scope) {
	ds.File.AttachParent(parentFile)
	ds.AttachParentScope(parentScope)
}

// DetachParentDescriptor tears down both halves symmetrically.
func (ds *DescriptorScope) DetachParentDescriptor() {
	ds.File.DetachParent()
	ds.DetachParent()
}

func (ds *DescriptorScope) checkScriptImports() []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	df := ds.File

	ancestorByPkg := map[string]*descriptor.DescriptorFile{}
	for _, a := range df.GetAncestorScriptTagImports() {
		ancestorByPkg[strings.ToLower(a.PkgPath)] = a.Source
	}

	for _, imp := range df.ScriptTagImports {
		if imp.PkgPath == "" {
			diags = append(diags, diagnostic.New(diagnostic.CodeScriptSrcCannotBeEmpty, df.AbsolutePath, imp.FilePathRange,
				"script import uri cannot be empty"))
			continue
		}
		if ds.Resolver != nil {
			canonical, ok := ds.Resolver.ResolvePackagePath(imp.PkgPath)
			if !ok {
				diags = append(diags, diagnostic.New(diagnostic.CodeReferencedFileDoesNotExist, df.AbsolutePath, imp.FilePathRange,
					"referenced file does not exist: "+imp.PkgPath))
				continue
			}
			if canonical != imp.PkgPath {
				diags = append(diags, diagnostic.New(diagnostic.CodeScriptImportCaseMismatch, df.AbsolutePath, imp.FilePathRange,
					"script import path "+imp.PkgPath+" does not match the file's casing: "+canonical))
			}
		}
		if ancestor, ok := ancestorByPkg[strings.ToLower(imp.PkgPath)]; ok {
			diags = append(diags, diagnostic.New(diagnostic.CodeDuplicateAncestorScriptImport, df.AbsolutePath, imp.FilePathRange,
				"script "+imp.PkgPath+" is already imported by ancestor component "+ancestor.ComponentName))
		}
	}
	return diags
}
