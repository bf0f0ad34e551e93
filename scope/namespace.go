// Copyright © 2024 The ELPS authors

package scope

import (
	"sort"
	"strings"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/classvalidator"
)

func sortMembersByPath(members []Member) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].AbsolutePath() < members[j].AbsolutePath()
	})
}

// namespaceNode is one entry of the namespace tree spec §3 describes: for
// a declaration "A.B.C", three nodes exist — a, a.b, a.b.c — each linked
// to its parent and children.
type namespaceNode struct {
	Name     string // lower-cased dotted path at this node
	Parent   *namespaceNode
	Children map[string]*namespaceNode
}

func (s *Scope) getNamespaceLookup() map[string]*namespaceNode {
	if s.namespaceLookup != nil {
		return s.namespaceLookup
	}
	lookup := map[string]*namespaceNode{}
	var register func(path []string)
	register = func(path []string) {
		var parent *namespaceNode
		for i := range path {
			key := strings.ToLower(strings.Join(path[:i+1], "."))
			node, ok := lookup[key]
			if !ok {
				node = &namespaceNode{Name: key, Parent: parent, Children: map[string]*namespaceNode{}}
				lookup[key] = node
				if parent != nil {
					parent.Children[key] = node
				}
			}
			parent = node
		}
	}
	var walk func(stmts []ast.Statement)
	walk = func(stmts []ast.Statement) {
		for _, st := range stmts {
			ns, ok := st.(*ast.NamespaceStatement)
			if !ok {
				continue
			}
			register(ns.NamePath)
			walk(ns.Body)
		}
	}
	for _, m := range s.sortedMembers() {
		if m.Code == nil {
			continue
		}
		for _, ns := range m.Code.NamespaceStatements {
			register(ns.NamePath)
		}
		walk(m.Code.Statements)
	}
	s.namespaceLookup = lookup
	return lookup
}

// IsKnownNamespace reports whether name (dotted, case-insensitive) names a
// namespace declared by a member of this scope, or the parent chain
// thereof — spec §4.4's lazy namespace lookup.
func (s *Scope) IsKnownNamespace(name string) bool {
	lname := strings.ToLower(name)
	if _, ok := s.getNamespaceLookup()[lname]; ok {
		return true
	}
	for key := range s.getNamespaceLookup() {
		if strings.HasPrefix(key, lname+".") {
			return true
		}
	}
	if s.parent != nil {
		return s.parent.IsKnownNamespace(name)
	}
	return false
}

// getClassLookup builds the qualified-name → Entry table classvalidator.Run
// needs, from every class declared by this scope's own member files plus
// its parent's — spec §4.5.
func (s *Scope) getClassLookup() map[string]*classvalidator.Entry {
	if s.classLookup != nil {
		return s.classLookup
	}
	lookup := map[string]*classvalidator.Entry{}
	if s.parent != nil {
		for k, v := range s.parent.getClassLookup() {
			lookup[k] = v
		}
	}
	for _, m := range s.sortedMembers() {
		if m.Code == nil {
			continue
		}
		for _, cls := range m.Code.ClassStatements {
			e := &classvalidator.Entry{Class: cls, File: m.Code.AbsolutePath}
			lookup[e.QualifiedName()] = e
		}
	}
	s.classLookup = lookup
	return lookup
}

// LookupClass resolves a dotted class name path against this scope's class
// table, falling through to the parent chain (getClassLookup already merges
// ancestor entries, so this is a single map lookup).
func (s *Scope) LookupClass(namePath []string) *classvalidator.Entry {
	key := strings.ToLower(strings.Join(namePath, "."))
	return s.getClassLookup()[key]
}
