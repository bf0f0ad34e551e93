// Copyright © 2024 The ELPS authors

package scope

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bsc-analyze/bsc/classvalidator"
	"github.com/bsc-analyze/bsc/diagnostic"
	"github.com/bsc-analyze/bsc/platform"
)

// Validate recomputes this scope's own diagnostics if stale (or force is
// set), validating the parent first (spec §4.4: "parent validates before
// its children"). It does not include member files' own parse diagnostics
// — callers use GetDiagnostics for the merged view.
func (s *Scope) Validate(force bool) {
	if s.isValidated && !force {
		return
	}
	if s.parent != nil {
		s.parent.Validate(force)
	}

	all := s.GetAllCallables()
	buckets := bucketByName(all)

	var diags []diagnostic.Diagnostic
	diags = append(diags, s.checkDuplicatesAndOverrides(buckets)...)
	diags = append(diags, classvalidator.Run(s.getClassLookup())...)
	for _, m := range s.sortedMembers() {
		if m.Code == nil {
			continue
		}
		diags = append(diags, s.checkUnknownCalls(m, buckets)...)
		diags = append(diags, s.checkArgCounts(m, buckets)...)
		diags = append(diags, s.checkShadowedLocals(m, buckets)...)
		diags = append(diags, s.checkStdlibCollision(m)...)
	}
	if s.onValidateExtra != nil {
		diags = append(diags, s.onValidateExtra()...)
	}

	s.diagnostics = diags
	s.isValidated = true
}

// bucketByName groups callables by lower-cased name, each bucket sorted by
// (file, name) so diagnostic order is deterministic. The sort does not keep
// own-before-parent order; platform builtins (empty File) sort first.
func bucketByName(all []*CallableContainer) map[string][]*CallableContainer {
	buckets := map[string][]*CallableContainer{}
	for _, c := range all {
		buckets[strings.ToLower(c.Name)] = append(buckets[strings.ToLower(c.Name)], c)
	}
	for _, list := range buckets {
		sort.Slice(list, func(i, j int) bool {
			if list[i].File != list[j].File {
				return list[i].File < list[j].File
			}
			return list[i].Name < list[j].Name
		})
	}
	return buckets
}

// checkDuplicatesAndOverrides implements spec §4.4.1: two or more own
// declarations of the same name is a duplicate-implementation error; an
// own declaration shadowing a parent-scope declaration of the same name
// is an override (except "init", which every scope may redeclare freely).
func (s *Scope) checkDuplicatesAndOverrides(buckets map[string][]*CallableContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, list := range buckets {
		var own, ancestorNonPlatform []*CallableContainer
		for _, c := range list {
			switch {
			case c.IsPlatform:
				continue
			case c.OwningScope == s:
				own = append(own, c)
			default:
				ancestorNonPlatform = append(ancestorNonPlatform, c)
			}
		}
		if len(own) == 0 {
			continue
		}
		if len(own) > 1 {
			for _, c := range own {
				diags = append(diags, diagnostic.New(diagnostic.CodeDuplicateFunctionImplementation, c.File, c.NameRange,
					"duplicate implementation of "+c.Name))
			}
		}
		if len(ancestorNonPlatform) > 0 && !strings.EqualFold(own[0].Name, "init") {
			nearest := ancestorNonPlatform[len(ancestorNonPlatform)-1]
			for _, c := range own {
				diags = append(diags, diagnostic.New(diagnostic.CodeOverridesAncestorFunction, c.File, c.NameRange,
					"overrides "+nearest.Name+" declared in an ancestor scope").WithRelated(
					diagnostic.RelatedInformation{File: nearest.File, Range: nearest.NameRange, Message: "ancestor declaration"}))
			}
		}
	}
	return diags
}

// checkUnknownCalls implements spec §4.4.2: a call site whose callee name
// resolves to neither a local variable in scope at that position nor any
// callable visible from this scope is flagged. Dotted (receiver) calls are
// resolved through class member lookup, not here.
func (s *Scope) checkUnknownCalls(m Member, buckets map[string][]*CallableContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, call := range m.Code.FunctionCalls {
		if call.Receiver != nil {
			continue
		}
		fs := m.Code.FunctionScopeAt(call.CalleeRange.Start)
		if fs.Lookup(call.CalleeName) != nil {
			continue
		}
		if len(buckets[strings.ToLower(call.CalleeName)]) > 0 {
			continue
		}
		diags = append(diags, diagnostic.New(diagnostic.CodeCallToUnknownFunction, m.Code.AbsolutePath, call.CalleeRange,
			"call to unknown function: "+call.CalleeName))
	}
	return diags
}

// checkArgCounts implements spec §4.4.3: a resolved call's argument count
// must fall within the resolved callable's [MinArity, MaxArity] (MaxArity
// -1 meaning unbounded, for the platform's variadic builtins).
func (s *Scope) checkArgCounts(m Member, buckets map[string][]*CallableContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, call := range m.Code.FunctionCalls {
		if call.Receiver != nil {
			continue
		}
		list := buckets[strings.ToLower(call.CalleeName)]
		if len(list) == 0 {
			continue
		}
		callee := list[0]
		n := len(call.Args)
		if n < callee.MinArity || (callee.MaxArity >= 0 && n > callee.MaxArity) {
			diags = append(diags, diagnostic.New(diagnostic.CodeMismatchArgumentCount, m.Code.AbsolutePath, call.CalleeRange,
				fmt.Sprintf("%s expects %s argument(s), got %d", call.CalleeName, arityDescription(callee.MinArity, callee.MaxArity), n)))
		}
	}
	return diags
}

func arityDescription(min, max int) string {
	if max < 0 {
		return "at least " + strconv.Itoa(min)
	}
	if min == max {
		return strconv.Itoa(min)
	}
	return fmt.Sprintf("%d-%d", min, max)
}

// checkShadowedLocals implements spec §4.4.4: a function-typed local whose
// name collides with a platform builtin or a scope-visible function is
// flagged, and so is a plain variable whose name collides with a
// scope-visible function that is not a builtin; the two cases carry
// distinct codes.
func (s *Scope) checkShadowedLocals(m Member, buckets map[string][]*CallableContainer) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, fs := range m.Code.FunctionScopes {
		for _, decl := range fs.Declarations {
			lname := strings.ToLower(decl.Name)
			_, isBuiltin := platform.Lookup(decl.Name)
			hasScopeFn := len(buckets[lname]) > 0
			switch {
			case decl.IsFunctionType() && isBuiltin:
				diags = append(diags, diagnostic.New(diagnostic.CodeLocalFunctionShadowsStdlib, m.Code.AbsolutePath, decl.NameRange,
					"local function "+decl.Name+" shadows a built-in function of the same name"))
			case decl.IsFunctionType() && hasScopeFn:
				diags = append(diags, diagnostic.New(diagnostic.CodeLocalFunctionShadowsScope, m.Code.AbsolutePath, decl.NameRange,
					"local function "+decl.Name+" shadows a declared function of the same name"))
			case !decl.IsFunctionType() && hasScopeFn && !isBuiltin:
				diags = append(diags, diagnostic.New(diagnostic.CodeLocalVarShadowedByScopedFunction, m.Code.AbsolutePath, decl.NameRange,
					"local variable "+decl.Name+" is shadowed by a declared function of the same name"))
			}
		}
	}
	return diags
}

// checkStdlibCollision implements spec §4.4.5: a scope-level declaration
// whose name matches a platform builtin is flagged (the builtin still
// wins at call sites nearer scopes don't override, but the declaration
// itself is dead code and worth a warning).
func (s *Scope) checkStdlibCollision(m Member) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, c := range m.Code.Callables {
		if _, ok := platform.Lookup(c.Name); ok {
			diags = append(diags, diagnostic.New(diagnostic.CodeScopeFunctionShadowedByBuiltin, m.Code.AbsolutePath, c.NameRange,
				"function "+c.Name+" has the same name as a built-in function"))
		}
	}
	return diags
}
