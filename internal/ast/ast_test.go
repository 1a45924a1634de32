package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralPoolInterns(t *testing.T) {
	p := NewPool()
	a := p.Intern("hello")
	b := p.Intern("hello")
	assert.Same(t, a, b)
	assert.Equal(t, 1, p.Len())
}

func TestScopeDeclareAndLookup(t *testing.T) {
	global := NewGlobalScope()
	fn := NewChildScope(global, ScopeFunction)
	fn.Declare("x", SymbolVariable, Expr{})

	decl, owner := fn.Lookup("x")
	assert.NotNil(t, decl)
	assert.Same(t, fn, owner)

	// Lookup from a nested block scope walks up to the function scope.
	block := NewChildScope(fn, ScopeBlock)
	decl2, owner2 := block.Lookup("x")
	assert.Same(t, decl, decl2)
	assert.Same(t, fn, owner2)

	assert.Same(t, global, fn.Global)
	assert.Same(t, global, block.Global)
}

func TestScopeLookupMiss(t *testing.T) {
	global := NewGlobalScope()
	decl, owner := global.Lookup("missing")
	assert.Nil(t, decl)
	assert.Nil(t, owner)
}
