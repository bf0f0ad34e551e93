// Copyright © 2024 The ELPS authors

package langserver

import (
	"github.com/bsc-analyze/bsc/classvalidator"
	"github.com/bsc-analyze/bsc/program"
	"github.com/bsc-analyze/bsc/scope"
)

// scopeForFile returns the scope absPath should resolve names against: its
// first registered named scope, or the platform scope when it belongs to
// none (spec §4.4's every-file-reaches-the-platform-scope guarantee).
func scopeForFile(p *program.Program, absPath string) *scope.Scope {
	if scopes := p.GetScopesForFile(absPath); len(scopes) > 0 {
		return scopes[0]
	}
	return p.PlatformScope()
}

func resolveCallable(p *program.Program, absPath, name string) *scope.CallableContainer {
	return scopeForFile(p, absPath).GetCallableByName(name)
}

func resolveClass(p *program.Program, absPath string, namePath []string) *classvalidator.Entry {
	return scopeForFile(p, absPath).LookupClass(namePath)
}
