package parser

import (
	"testing"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/stretchr/testify/assert"
)

// ---- Ambiguity rule 4: labelled statement vs expression statement ----

func TestLabelledStatement(t *testing.T) {
	body, log := parseES6(t, "outer: while (true) { break outer; }")
	assert.False(t, log.HasErrors())
	lbl, ok := body[0].Data.(*ast.SLabelled)
	if assert.True(t, ok) {
		assert.Equal(t, "outer", lbl.Label)
		_, isWhile := lbl.Body.Data.(*ast.SWhile)
		assert.True(t, isWhile)
	}
}

func TestIdentifierFollowedByColonIsNotMistakenForTernary(t *testing.T) {
	body, log := parseES6(t, "foo: 1;")
	assert.False(t, log.HasErrors())
	_, ok := body[0].Data.(*ast.SLabelled)
	assert.True(t, ok)
}

func TestPlainExpressionStatementWithoutColon(t *testing.T) {
	body, log := parseES6(t, "foo;")
	assert.False(t, log.HasErrors())
	_, ok := body[0].Data.(*ast.SExpr)
	assert.True(t, ok)
}

// ---- Ambiguity rule 6: automatic semicolon insertion (statement level) ----

func TestReturnWithLineBreakBeforeValueGetsNoArg(t *testing.T) {
	body, log := parseES6(t, "function f() {\nreturn\n1;\n}")
	assert.False(t, log.HasErrors())
	fn := body[0].Data.(*ast.SFunction)
	ret, ok := fn.Body.Body[0].Data.(*ast.SReturn)
	if assert.True(t, ok) {
		assert.Nil(t, ret.Arg)
	}
	assert.Len(t, fn.Body.Body, 2)
}

// ---- Ambiguity rule 10: for vs for-in vs for-of ----

func TestOrdinaryForStatement(t *testing.T) {
	body, log := parseES6(t, "for (var i = 0; i < 10; i++) {}")
	assert.False(t, log.HasErrors())
	f, ok := body[0].Data.(*ast.SFor)
	if assert.True(t, ok) {
		assert.NotNil(t, f.Test)
		assert.NotNil(t, f.Update)
	}
}

func TestForInStatement(t *testing.T) {
	body, log := parseES6(t, "for (var k in obj) {}")
	assert.False(t, log.HasErrors())
	_, ok := body[0].Data.(*ast.SForIn)
	assert.True(t, ok)
}

func TestForOfStatementInES6Mode(t *testing.T) {
	body, log := parseES6(t, "for (var x of items) {}")
	assert.False(t, log.HasErrors())
	forOf, ok := body[0].Data.(*ast.SForOf)
	if assert.True(t, ok) {
		assert.False(t, forOf.Await)
	}
}

func TestForOfRejectedOutsideES6Mode(t *testing.T) {
	_, log := parseSource(t, "for (var x of items) {}", Options{Mode: 0})
	assert.True(t, log.HasErrors())
}

func TestForHeaderUsesNoInContext(t *testing.T) {
	// Without the NoIn context the "in" here would be misparsed as the
	// binary "in" operator inside the init expression.
	body, log := parseES6(t, "for (var k in obj) { k; }")
	assert.False(t, log.HasErrors())
	forIn, ok := body[0].Data.(*ast.SForIn)
	if assert.True(t, ok) {
		_, isObjName := forIn.Object.Data.(*ast.EName)
		assert.True(t, isObjName)
	}
}

// ---- spec.md open question: "module X from \"path\"" disambiguation ----

func TestModuleFromShorthandPreferredInES6Mode(t *testing.T) {
	body, log := parseES6(t, `module foo from "./foo";`)
	assert.False(t, log.HasErrors())
	imp, ok := body[0].Data.(*ast.SImport)
	if assert.True(t, ok) {
		assert.True(t, imp.Import.IsModuleFromShorthand)
		assert.Equal(t, "foo", imp.Import.Default)
		assert.Equal(t, "./foo", imp.Import.FromPath)
	}
}

func TestOrdinaryNamespaceModuleStillParses(t *testing.T) {
	body, log := parseES6(t, `module foo { var x = 1; }`)
	assert.False(t, log.HasErrors())
	mod, ok := body[0].Data.(*ast.SModule)
	if assert.True(t, ok) {
		assert.Equal(t, "foo", mod.Module.Name)
		assert.False(t, mod.Module.IsExternal)
	}
}

func TestModuleShorthandFallsBackOutsideES6(t *testing.T) {
	body, log := parseSource(t, `module foo { var x = 1; }`, Options{Mode: 0})
	assert.False(t, log.HasErrors())
	_, ok := body[0].Data.(*ast.SModule)
	assert.True(t, ok)
}

// ---- blocks / scoping ----

func TestBlockWithLexicalDeclGetsOwnScope(t *testing.T) {
	body, log := parseES6(t, "{ let x = 1; }")
	assert.False(t, log.HasErrors())
	block := body[0].Data.(*ast.SBlock).Block
	assert.NotNil(t, block.Scope)
}

func TestSwitchCaseBlockContext(t *testing.T) {
	body, log := parseES6(t, "switch (x) { case 1: break; default: break; }")
	assert.False(t, log.HasErrors())
	sw, ok := body[0].Data.(*ast.SSwitch)
	if assert.True(t, ok) {
		assert.Len(t, sw.Cases, 2)
		assert.Nil(t, sw.Cases[1].Test)
	}
}
