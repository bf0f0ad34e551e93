// Copyright © 2024 The ELPS authors

// Package scope implements the analysis-context graph the spec calls
// Scope (§4.4): a named, composable view over a subset of project files,
// linked into a tree rooted at the platform scope, that lazily computes
// namespace/class lookups and orchestrates cross-file validation.
package scope

import (
	"strings"
	"sync"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/classvalidator"
	"github.com/bsc-analyze/bsc/codefile"
	"github.com/bsc-analyze/bsc/descriptor"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/parser"
	"github.com/bsc-analyze/bsc/parser/token"
	"github.com/bsc-analyze/bsc/platform"
)

// Member is the capability set a Scope needs from a file regardless of
// whether it's a code file or a descriptor file (spec §9 Design Note:
// "Polymorphic file type → capability set"). Exactly one of Code or
// Descriptor is non-nil.
type Member struct {
	Code       *codefile.CodeFile
	Descriptor *descriptor.DescriptorFile
}

func (m Member) AbsolutePath() string {
	if m.Code != nil {
		return m.Code.AbsolutePath
	}
	return m.Descriptor.AbsolutePath
}

func (m Member) PkgPath() string {
	if m.Code != nil {
		return m.Code.PkgPath
	}
	return m.Descriptor.PkgPath
}

func (m Member) Diagnostics() []diagnostic.Diagnostic {
	if m.Code != nil {
		return m.Code.Diagnostics
	}
	return nil
}

func (m Member) Callables() []*codefile.Callable {
	if m.Code != nil {
		return m.Code.Callables
	}
	return nil
}

// CallableContainer is a callable plus the scope that owns it, the
// transient view duplicate/override/shadow checking is built around
// (spec §3 data model).
type CallableContainer struct {
	Name          string
	NameRange     token.Range
	MinArity      int
	MaxArity      int
	File          string
	OwningScope   *Scope
	IsPlatform    bool
	FuncStatement *ast.FunctionStatement // nil for platform builtins
}

func containerFromCallable(c *codefile.Callable, owner *Scope) *CallableContainer {
	return &CallableContainer{
		Name:          c.Name,
		NameRange:     c.NameRange,
		MinArity:      c.Signature.MinArity(),
		MaxArity:      c.Signature.MaxArity(),
		File:          c.File,
		OwningScope:   owner,
		FuncStatement: c.FunctionStatement,
	}
}

func containerFromPlatform(p platform.Callable, owner *Scope) *CallableContainer {
	return &CallableContainer{Name: p.Name, MinArity: p.MinArity, MaxArity: p.MaxArity, OwningScope: owner, IsPlatform: true}
}

// MembershipPredicate decides whether a Member belongs to a Scope.
type MembershipPredicate func(Member) bool

// EventSource is the subset of Program a Scope subscribes to (spec §4.4
// "Subscribes to the owning Program's file-added and file-removed
// events"), kept as an interface so this package never imports program.
type EventSource interface {
	OnFileAdded(fn func(Member)) Unsubscribe
	OnFileRemoved(fn func(Member)) Unsubscribe
}

// Scope is a named analysis context over a subset of project files (spec
// §4.4 data model row).
type Scope struct {
	Name       string
	Predicate  MembershipPredicate
	IsPlatform bool

	mu      sync.Mutex
	members map[string]Member // keyed by absolute path

	parent      *Scope
	parentUnsub Unsubscribe

	diagnostics []diagnostic.Diagnostic
	isValidated bool

	namespaceLookup map[string]*namespaceNode
	classLookup     map[string]*classvalidator.Entry

	emitter      *emitter
	sourceUnsubs []Unsubscribe

	// onValidateExtra lets a specialization (DescriptorScope) hook extra
	// checks into the base validation pipeline without re-flipping
	// isValidated, per spec §9's open question about the base's fragile
	// stateful re-validation ordering.
	onValidateExtra func() []diagnostic.Diagnostic
}

// New constructs a Scope named name whose membership is decided by
// predicate. If events is non-nil, the scope subscribes to its
// file-added/file-removed notifications for the scope's lifetime.
func New(name string, predicate MembershipPredicate, events EventSource) *Scope {
	s := &Scope{
		Name:            name,
		Predicate:       predicate,
		members:         make(map[string]Member),
		emitter:         newEmitter(),
	}
	if events != nil {
		s.sourceUnsubs = append(s.sourceUnsubs,
			events.OnFileAdded(s.handleFileAdded),
			events.OnFileRemoved(s.handleFileRemoved),
		)
	}
	return s
}

// AddMember adds m to this scope directly, bypassing the predicate and
// any attached EventSource — used by the platform scope's callers and by
// scopes built without a live Program (e.g. one-off analysis of a single
// file).
func (s *Scope) AddMember(m Member) {
	s.mu.Lock()
	s.members[m.AbsolutePath()] = m
	s.mu.Unlock()
	s.Invalidate()
}

// RemoveMember removes the member at absPath, if present.
func (s *Scope) RemoveMember(absPath string) {
	s.mu.Lock()
	_, present := s.members[absPath]
	if present {
		delete(s.members, absPath)
	}
	s.mu.Unlock()
	if present {
		s.Invalidate()
	}
}

func (s *Scope) handleFileAdded(m Member) {
	if !s.Predicate(m) {
		return
	}
	s.mu.Lock()
	s.members[m.AbsolutePath()] = m
	s.mu.Unlock()
	s.Invalidate()
}

func (s *Scope) handleFileRemoved(m Member) {
	s.mu.Lock()
	_, present := s.members[m.AbsolutePath()]
	if present {
		delete(s.members, m.AbsolutePath())
	}
	s.mu.Unlock()
	if present {
		s.Invalidate()
	}
}

// Dispose tears down this scope's subscriptions in reverse order, then
// detaches from its parent — resource release must be safe to call even
// from a partially constructed scope (spec §5 "exception-safe" release).
func (s *Scope) Dispose() {
	for i := len(s.sourceUnsubs) - 1; i >= 0; i-- {
		s.sourceUnsubs[i]()
	}
	s.sourceUnsubs = nil
	s.DetachParent()
}

// AttachParentScope links parent as this scope's parent, subscribes to
// its "invalidated" signal, and immediately invalidates self if parent is
// not currently validated (spec §4.4).
func (s *Scope) AttachParentScope(parent *Scope) {
	s.DetachParent()
	s.parent = parent
	s.parentUnsub = parent.OnInvalidated(func() { s.Invalidate() })
	if !parent.isValidated {
		s.Invalidate()
	}
}

// DetachParent tears down the parent subscription and clears the parent
// link, leaving the scope with no parent; it does not attach the platform
// scope in its place.
func (s *Scope) DetachParent() {
	if s.parentUnsub != nil {
		s.parentUnsub()
		s.parentUnsub = nil
	}
	s.parent = nil
}

// Parent returns this scope's current parent, or nil (only the platform
// scope has no parent once the tree is wired).
func (s *Scope) Parent() *Scope { return s.parent }

// OnInvalidated subscribes to this scope's "invalidated" event.
func (s *Scope) OnInvalidated(fn func()) Unsubscribe {
	return s.emitter.on(eventInvalidated, fn)
}

// Invalidate clears the validation cache, purges the derived lookups, and
// emits "invalidated" — parents invalidating propagates to every attached
// child (spec §9 "push" signal graph).
func (s *Scope) Invalidate() {
	s.isValidated = false
	s.namespaceLookup = nil
	s.classLookup = nil
	s.emitter.emit(eventInvalidated)
}

// IsValidated reports whether the last Validate call's diagnostics are
// still current.
func (s *Scope) IsValidated() bool { return s.isValidated }

// HasMember reports whether absPath is currently a member of this scope.
func (s *Scope) HasMember(absPath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[absPath]
	return ok
}

// Members returns this scope's own member files, sorted by absolute path.
func (s *Scope) Members() []Member {
	return s.sortedMembers()
}

func (s *Scope) sortedMembers() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sortMembersByPath(out)
	return out
}

// GetOwnCallables flattens the callables declared by this scope's own
// member files (or, for the platform scope, the static builtin catalog).
func (s *Scope) GetOwnCallables() []*CallableContainer {
	if s.IsPlatform {
		out := make([]*CallableContainer, 0, len(platform.Callables()))
		for _, p := range platform.Callables() {
			out = append(out, containerFromPlatform(p, s))
		}
		return out
	}
	var out []*CallableContainer
	for _, m := range s.sortedMembers() {
		for _, c := range m.Callables() {
			out = append(out, containerFromCallable(c, s))
		}
	}
	return out
}

// GetAllCallables concatenates own callables with the parent's, own
// first (spec §4.4: "parent callables appear after own").
func (s *Scope) GetAllCallables() []*CallableContainer {
	own := s.GetOwnCallables()
	if s.parent == nil {
		return own
	}
	return append(own, s.parent.GetAllCallables()...)
}

// GetCallableByName resolves name case-insensitively, nearest scope wins.
func (s *Scope) GetCallableByName(name string) *CallableContainer {
	lname := strings.ToLower(name)
	for _, c := range s.GetAllCallables() {
		if strings.ToLower(c.Name) == lname {
			return c
		}
	}
	return nil
}

// GetCallablesAsCompletions returns GetAllCallables, filtering out
// namespace-declared callables in superset mode — those are reached
// through namespace-qualified completion elsewhere (spec §4.4).
func (s *Scope) GetCallablesAsCompletions(mode parser.Mode) []*CallableContainer {
	all := s.GetAllCallables()
	if mode != parser.Superset {
		return all
	}
	out := make([]*CallableContainer, 0, len(all))
	for _, c := range all {
		if c.FuncStatement != nil && len(c.FuncStatement.NamespacePath) > 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// GetDiagnostics triggers validation (if stale) and returns the merged
// diagnostics for this scope's own member files plus its own findings.
func (s *Scope) GetDiagnostics() []diagnostic.Diagnostic {
	s.Validate(false)
	var out []diagnostic.Diagnostic
	for _, m := range s.sortedMembers() {
		out = append(out, m.Diagnostics()...)
	}
	out = append(out, s.diagnostics...)
	return out
}
