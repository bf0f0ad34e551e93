// Copyright © 2024 The ELPS authors

package classvalidator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/ast"
	"github.com/bsc-analyze/bsc/classvalidator"
	"github.com/bsc-analyze/bsc/diagnostic"
)

func entry(file string, cls *ast.ClassStatement) *classvalidator.Entry {
	return &classvalidator.Entry{Class: cls, File: file}
}

func codeSet(diags []diagnostic.Diagnostic) map[diagnostic.Code]int {
	m := map[diagnostic.Code]int{}
	for _, d := range diags {
		m[d.Code]++
	}
	return m
}

func TestUnknownParentClass(t *testing.T) {
	dog := &ast.ClassStatement{Name: "Dog", ParentName: []string{"Ghost"}}
	lookup := map[string]*classvalidator.Entry{"dog": entry("dog.brs", dog)}

	diags := classvalidator.Run(lookup)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeClassUnknownParent, diags[0].Code)
}

func TestCyclicInheritanceIsDetected(t *testing.T) {
	a := &ast.ClassStatement{Name: "A", ParentName: []string{"B"}}
	b := &ast.ClassStatement{Name: "B", ParentName: []string{"A"}}
	lookup := map[string]*classvalidator.Entry{
		"a": entry("a.brs", a),
		"b": entry("b.brs", b),
	}

	diags := classvalidator.Run(lookup)
	counts := codeSet(diags)
	assert.Equal(t, 1, counts[diagnostic.CodeClassCyclicInheritance])
}

func TestDuplicateMemberInSameClass(t *testing.T) {
	dog := &ast.ClassStatement{
		Name: "Dog",
		Fields: []*ast.ClassField{
			{Name: "name"},
			{Name: "name"},
		},
	}
	lookup := map[string]*classvalidator.Entry{"dog": entry("dog.brs", dog)}

	diags := classvalidator.Run(lookup)
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.CodeClassDuplicateMember, diags[0].Code)
}

func TestIllegalOverrideOfFinalMember(t *testing.T) {
	animal := &ast.ClassStatement{
		Name:    "Animal",
		Methods: []*ast.FunctionStatement{{Name: "speak", IsFinal: true}},
	}
	dog := &ast.ClassStatement{
		Name:       "Dog",
		ParentName: []string{"Animal"},
		Methods:    []*ast.FunctionStatement{{Name: "speak"}},
	}
	lookup := map[string]*classvalidator.Entry{
		"animal": entry("animal.brs", animal),
		"dog":    entry("dog.brs", dog),
	}

	diags := classvalidator.Run(lookup)
	counts := codeSet(diags)
	assert.Equal(t, 1, counts[diagnostic.CodeClassIllegalOverride])
}

func TestMemberSignatureMismatch(t *testing.T) {
	animal := &ast.ClassStatement{
		Name:    "Animal",
		Methods: []*ast.FunctionStatement{{Name: "speak", Signature: ast.Signature{Params: []ast.Param{{Name: "volume"}}}}},
	}
	dog := &ast.ClassStatement{
		Name:       "Dog",
		ParentName: []string{"Animal"},
		Methods:    []*ast.FunctionStatement{{Name: "speak"}}, // arity 0 vs 1
	}
	lookup := map[string]*classvalidator.Entry{
		"animal": entry("animal.brs", animal),
		"dog":    entry("dog.brs", dog),
	}

	diags := classvalidator.Run(lookup)
	counts := codeSet(diags)
	assert.Equal(t, 1, counts[diagnostic.CodeClassMemberSignatureMismatch])
}

func TestFieldShadowsParentField(t *testing.T) {
	animal := &ast.ClassStatement{
		Name:   "Animal",
		Fields: []*ast.ClassField{{Name: "name"}},
	}
	dog := &ast.ClassStatement{
		Name:       "Dog",
		ParentName: []string{"Animal"},
		Fields:     []*ast.ClassField{{Name: "name"}},
	}
	lookup := map[string]*classvalidator.Entry{
		"animal": entry("animal.brs", animal),
		"dog":    entry("dog.brs", dog),
	}

	diags := classvalidator.Run(lookup)
	counts := codeSet(diags)
	assert.Equal(t, 1, counts[diagnostic.CodeClassFieldShadowsParent])
}

func TestCompatibleOverrideIsClean(t *testing.T) {
	animal := &ast.ClassStatement{
		Name:    "Animal",
		Methods: []*ast.FunctionStatement{{Name: "speak"}},
	}
	dog := &ast.ClassStatement{
		Name:       "Dog",
		ParentName: []string{"Animal"},
		Methods:    []*ast.FunctionStatement{{Name: "speak"}},
	}
	lookup := map[string]*classvalidator.Entry{
		"animal": entry("animal.brs", animal),
		"dog":    entry("dog.brs", dog),
	}

	diags := classvalidator.Run(lookup)
	assert.Empty(t, diags)
}
