package parser

import (
	"testing"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/stretchr/testify/assert"
)

// ---- getter/setter shape (ambiguity rule 8) ----

func TestGetterWithParametersIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { get p(x) { return x; } }")
	assert.True(t, log.HasErrors())
}

func TestGetterReturningVoidIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { get p(): void {} }")
	assert.True(t, log.HasErrors())
}

func TestWellFormedGetterIsAllowed(t *testing.T) {
	_, log := parseES6(t, "class C { get p(): number { return 1; } }")
	assert.False(t, log.HasErrors())
}

func TestSetterWithoutExactlyOneParameterIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { set p() {} }")
	assert.True(t, log.HasErrors())
}

func TestSetterReturningAValueIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { set p(v): number { return v; } }")
	assert.True(t, log.HasErrors())
}

func TestWellFormedSetterIsAllowed(t *testing.T) {
	_, log := parseES6(t, "class C { set p(v) { this.v = v; } }")
	assert.False(t, log.HasErrors())
}

// ---- overload sets (ambiguity rule 8) ----

func TestOverloadsSharingNameAndModifiersAreAllowed(t *testing.T) {
	body, log := parseES6(t, "class C { constructor(); constructor(x); constructor(x) {} }")
	assert.False(t, log.HasErrors())
	cls := body[0].Data.(*ast.SClass).Class
	if assert.Len(t, cls.Members, 1) {
		assert.Len(t, cls.Members[0].Overloads, 2)
	}
}

func TestOverloadWithDifferentModifiersIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { private f(); f() {} }")
	assert.True(t, log.HasErrors())
}

func TestOverloadMixingGeneratorWithNonGeneratorIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { *f(); f() {} }")
	assert.True(t, log.HasErrors())
}

func TestOverloadWithNoImplementationIsAnError(t *testing.T) {
	_, log := parseES6(t, "class C { f(); f(x); }")
	assert.True(t, log.HasErrors())
}
