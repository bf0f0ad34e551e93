// Copyright © 2024 The ELPS authors

// Package program is the top-level analysis coordinator (spec §4.7/§5): a
// registry of files and scopes rooted at one platform scope, a dependency
// graph for cross-file invalidation, and an event emitter other packages
// (scope.EventSource, langserver) subscribe to. It plays the role the
// teacher's lsp.Server plays for a live editor session, generalized from
// one open-document store to a whole-project file/scope registry, and
// borrows lint.Linter's parse-then-analyze pipeline shape for AddFile.
package program

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bsc-analyze/bsc/codefile"
	"github.com/bsc-analyze/bsc/depgraph"
	"github.com/bsc-analyze/bsc/descriptor"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/token"
	"github.com/bsc-analyze/bsc/scope"
	"github.com/bsc-analyze/bsc/telemetry"
)

// Program owns every file and scope in a project and keeps them
// consistent as files are added, removed, or changed.
type Program struct {
	mu               sync.Mutex
	platform         *scope.Scope
	files            map[string]scope.Member          // keyed by absolute path
	scopes           map[string]*scope.Scope          // keyed by scope name
	descriptorScopes map[string]*scope.DescriptorScope // keyed by pkgPath
	graph            *depgraph.Graph
	emitter          *emitter
}

// New constructs an empty Program with just its platform scope.
func New() *Program {
	return &Program{
		platform:         scope.NewPlatformScope(),
		files:            map[string]scope.Member{},
		scopes:           map[string]*scope.Scope{},
		descriptorScopes: map[string]*scope.DescriptorScope{},
		graph:            depgraph.New(),
		emitter:          newEmitter(),
	}
}

// PlatformScope returns the root scope every other scope ultimately
// descends from.
func (p *Program) PlatformScope() *scope.Scope { return p.platform }

// OnFileAdded/OnFileRemoved implement scope.EventSource so a Scope
// constructed with program as its EventSource tracks membership
// automatically as files come and go.
func (p *Program) OnFileAdded(fn func(scope.Member)) scope.Unsubscribe {
	return scope.Unsubscribe(p.emitter.on(eventFileAdded, func(v any) { fn(v.(scope.Member)) }))
}

func (p *Program) OnFileRemoved(fn func(scope.Member)) scope.Unsubscribe {
	return scope.Unsubscribe(p.emitter.on(eventFileRemoved, func(v any) { fn(v.(scope.Member)) }))
}

// OnScopeAdded/OnScopeRemoved notify callers (principally the langserver
// package, for symbol-search scope selection) as named scopes are
// registered and unregistered.
func (p *Program) OnScopeAdded(fn func(*scope.Scope)) Unsubscribe {
	return p.emitter.on(eventScopeAdded, func(v any) { fn(v.(*scope.Scope)) })
}

func (p *Program) OnScopeRemoved(fn func(*scope.Scope)) Unsubscribe {
	return p.emitter.on(eventScopeRemoved, func(v any) { fn(v.(*scope.Scope)) })
}

// AddScope registers a new named scope whose membership is decided by
// predicate, parented to the platform scope by default. Callers needing a
// different parent (e.g. a per-component scope parented to another
// component's scope) should call Scope.AttachParentScope afterward.
func (p *Program) AddScope(name string, predicate scope.MembershipPredicate) *scope.Scope {
	s := scope.New(name, predicate, p)
	s.AttachParentScope(p.platform)

	p.mu.Lock()
	p.scopes[name] = s
	existing := p.snapshotFilesLocked()
	p.mu.Unlock()

	for _, m := range existing {
		if predicate(m) {
			s.AddMember(m)
		}
	}

	p.emitter.emit(eventScopeAdded, s)
	return s
}

// RemoveScope unregisters and disposes the named scope.
func (p *Program) RemoveScope(name string) {
	p.mu.Lock()
	s, ok := p.scopes[name]
	if ok {
		delete(p.scopes, name)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	s.Dispose()
	p.emitter.emit(eventScopeRemoved, s)
}

// Scopes returns every registered scope, keyed by name.
func (p *Program) Scopes() map[string]*scope.Scope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]*scope.Scope, len(p.scopes))
	for k, v := range p.scopes {
		out[k] = v
	}
	return out
}

// GetScopesForFile returns every scope absPath currently belongs to.
func (p *Program) GetScopesForFile(absPath string) []*scope.Scope {
	p.mu.Lock()
	scopes := make([]*scope.Scope, 0, len(p.scopes))
	for _, s := range p.scopes {
		scopes = append(scopes, s)
	}
	p.mu.Unlock()

	var out []*scope.Scope
	for _, s := range scopes {
		if s.HasMember(absPath) {
			out = append(out, s)
		}
	}
	return out
}

// File returns the registered member at absPath, if any.
func (p *Program) File(absPath string) (scope.Member, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.files[absPath]
	return m, ok
}

func (p *Program) snapshotFilesLocked() []scope.Member {
	out := make([]scope.Member, 0, len(p.files))
	for _, m := range p.files {
		out = append(out, m)
	}
	return out
}

// AddFile parses src as a code file, registers it, and notifies every
// scope and dependency-graph subscriber (spec §4.7's add-file pipeline,
// modeled on lint.Linter's parse-then-analyze orchestration).
func (p *Program) AddFile(absPath, pkgPath string, mode parser.Mode, src token.Source) *codefile.CodeFile {
	ctx, end := telemetry.StartOperation(context.Background(), "AddFile", pkgPath)
	defer end()

	cf := codefile.New(absPath, pkgPath, mode, src)
	m := scope.Member{Code: cf}

	p.mu.Lock()
	p.files[absPath] = m
	p.graph.AddNode(pkgPath)
	p.mu.Unlock()

	p.emitter.emit(eventFileAdded, m)
	p.graph.Notify(pkgPath)
	telemetry.RecordDiagnosticCount(ctx, len(cf.Diagnostics))
	return cf
}

// AddDescriptorFile parses src as a component descriptor, instantiates
// its DescriptorScope, and resolves the <extends> parent-linkage
// protocol in both directions (spec §4.6, §4.7): against components
// already registered, and by re-resolving any already-registered
// component whose <extends> names this one. A malformed root element is
// unrecoverable (spec §7) and returned as an error rather than
// registered.
func (p *Program) AddDescriptorFile(absPath, pkgPath string, src []byte) (*descriptor.DescriptorFile, error) {
	_, end := telemetry.StartOperation(context.Background(), "AddDescriptorFile", pkgPath)
	defer end()

	df, err := descriptor.Parse(absPath, pkgPath, src)
	if err != nil {
		return nil, err
	}
	m := scope.Member{Descriptor: df}
	ds := scope.NewDescriptorScope(df, p, p)

	p.mu.Lock()
	p.files[absPath] = m
	p.graph.AddNode(pkgPath)
	for _, imp := range df.ScriptTagImports {
		p.graph.AddEdge(pkgPath, imp.PkgPath)
	}
	p.descriptorScopes[pkgPath] = ds
	p.scopes[pkgPath] = ds.Scope
	existing := p.snapshotFilesLocked()
	p.mu.Unlock()

	for _, member := range existing {
		if ds.Predicate(member) {
			ds.AddMember(member)
		}
	}

	p.linkDescriptorParent(ds)
	p.relinkDescriptorChildren(ds)

	p.emitter.emit(eventScopeAdded, ds.Scope)
	p.emitter.emit(eventFileAdded, m)
	p.graph.Notify(pkgPath)
	return df, nil
}

// linkDescriptorParent resolves ds's <extends> attribute against
// already-registered components by ComponentName and attaches it as the
// parent descriptor and parent scope in one step. A component with no
// <extends>, or whose named parent hasn't been added yet, falls back to
// the platform scope — relinkDescriptorChildren re-resolves it later if
// that parent arrives after.
func (p *Program) linkDescriptorParent(ds *scope.DescriptorScope) {
	if ds.File.ParentName != "" {
		if parent := p.findDescriptorByComponentName(ds.File.ParentName); parent != nil && parent != ds {
			ds.AttachParentDescriptor(parent.File, parent.Scope)
			return
		}
	}
	ds.AttachParentScope(p.platform)
}

// relinkDescriptorChildren re-resolves every already-registered
// descriptor whose unresolved <extends> names newParent's component —
// components can be added to a Program in any order, so a child may
// have been registered before the parent it names.
func (p *Program) relinkDescriptorChildren(newParent *scope.DescriptorScope) {
	p.mu.Lock()
	var children []*scope.DescriptorScope
	for _, child := range p.descriptorScopes {
		if child == newParent || child.File.Parent() != nil {
			continue
		}
		if strings.EqualFold(child.File.ParentName, newParent.File.ComponentName) {
			children = append(children, child)
		}
	}
	p.mu.Unlock()

	for _, child := range children {
		child.AttachParentDescriptor(newParent.File, newParent.Scope)
	}
}

// findDescriptorByComponentName looks up a registered DescriptorScope by
// its descriptor's ComponentName, case-insensitively.
func (p *Program) findDescriptorByComponentName(name string) *scope.DescriptorScope {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ds := range p.descriptorScopes {
		if strings.EqualFold(ds.File.ComponentName, name) {
			return ds
		}
	}
	return nil
}

// RemoveFile unregisters the file at absPath, notifying dependents of
// pkgPath before dropping it from the graph. A descriptor file's own
// DescriptorScope is torn down symmetrically with AddDescriptorFile's
// registration, and any child component parented to it falls back to
// the platform scope (spec §4.6).
func (p *Program) RemoveFile(absPath string) {
	p.mu.Lock()
	m, ok := p.files[absPath]
	if ok {
		delete(p.files, absPath)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	pkgPath := m.PkgPath()
	p.graph.Notify(pkgPath)

	p.mu.Lock()
	p.graph.RemoveNode(pkgPath)
	p.mu.Unlock()

	if m.Descriptor != nil {
		p.removeDescriptorScope(pkgPath, m.Descriptor)
	}

	p.emitter.emit(eventFileRemoved, m)
}

// removeDescriptorScope unregisters the DescriptorScope owned by pkgPath
// and detaches any child component still parented to it, falling each
// back to the platform scope.
func (p *Program) removeDescriptorScope(pkgPath string, df *descriptor.DescriptorFile) {
	p.mu.Lock()
	ds, ok := p.descriptorScopes[pkgPath]
	if ok {
		delete(p.descriptorScopes, pkgPath)
		delete(p.scopes, pkgPath)
	}
	var children []*scope.DescriptorScope
	for _, child := range p.descriptorScopes {
		if child.File.Parent() == df {
			children = append(children, child)
		}
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	for _, child := range children {
		child.DetachParentDescriptor()
		child.AttachParentScope(p.platform)
	}

	ds.Dispose()
	p.emitter.emit(eventScopeRemoved, ds.Scope)
}

// ChangeFile replaces the code file at absPath with a freshly parsed
// version — RemoveFile followed by AddFile — so every subscriber sees a
// clean add/remove pair rather than an in-place mutation (spec §4.7).
// Callers editing a descriptor (.xml) file use ChangeDescriptorFile
// instead; AddDescriptorFile's signature (raw bytes, no parser.Mode)
// doesn't fit this one.
func (p *Program) ChangeFile(absPath, pkgPath string, mode parser.Mode, src token.Source) *codefile.CodeFile {
	p.RemoveFile(absPath)
	return p.AddFile(absPath, pkgPath, mode, src)
}

// ChangeDescriptorFile replaces the descriptor file at absPath with a
// freshly parsed version — RemoveFile followed by AddDescriptorFile, so
// the old DescriptorScope is torn down (and any child re-parented to the
// platform scope) before the new one is built and the parent-linkage
// protocol re-resolved (spec §4.6/§4.7).
func (p *Program) ChangeDescriptorFile(absPath, pkgPath string, src []byte) (*descriptor.DescriptorFile, error) {
	p.RemoveFile(absPath)
	return p.AddDescriptorFile(absPath, pkgPath, src)
}

// ResolvePackagePath implements scope.PackageResolver: it answers whether
// a project-relative package path names a registered file, returning that
// file's canonical casing.
func (p *Program) ResolvePackagePath(pkgPath string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	lpkg := strings.ToLower(pkgPath)
	for _, m := range p.files {
		if strings.ToLower(m.PkgPath()) == lpkg {
			return m.PkgPath(), true
		}
	}
	return "", false
}

// Diagnostics merges every registered scope's diagnostics, plus parse
// diagnostics for files that belong to no scope at all, deduplicating by
// (file, code, range start) and dropping any diagnostic its owning file
// suppresses via a 'bs:disable-line or 'bs:disable-next-line comment
// (spec §7).
func (p *Program) Diagnostics() []diagnostic.Diagnostic {
	p.mu.Lock()
	scopes := make([]*scope.Scope, 0, len(p.scopes))
	for _, s := range p.scopes {
		scopes = append(scopes, s)
	}
	files := p.snapshotFilesLocked()
	p.mu.Unlock()

	seen := map[string]bool{}
	var out []diagnostic.Diagnostic
	add := func(d diagnostic.Diagnostic) {
		key := fmt.Sprintf("%s|%d|%d:%d", d.File, d.Code, d.Range.Start.Line, d.Range.Start.Col)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, d)
	}

	for _, s := range scopes {
		for _, d := range s.GetDiagnostics() {
			add(d)
		}
	}
	for _, m := range files {
		for _, d := range m.Diagnostics() {
			add(d)
		}
	}

	byFile := map[string][]diagnostic.Diagnostic{}
	var order []string
	for _, d := range out {
		if _, ok := byFile[d.File]; !ok {
			order = append(order, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}

	members := make(map[string]scope.Member, len(files))
	for _, m := range files {
		members[m.AbsolutePath()] = m
	}

	filtered := make([]diagnostic.Diagnostic, 0, len(out))
	for _, f := range order {
		group := byFile[f]
		if m, ok := members[f]; ok && m.Code != nil && len(m.Code.Comments) > 0 {
			group = diagnostic.FilterSuppressed(group, m.Code.Comments)
		}
		filtered = append(filtered, group...)
	}
	return filtered
}
