package parser

import (
	"testing"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/stretchr/testify/assert"
)

// ---- Ambiguity rule 1: arrow-function params vs parenthesized expr ----

func TestArrowFunctionBareIdentifierParam(t *testing.T) {
	body, log := parseES6(t, "var f = x => x + 1;")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	arrow, ok := decl.Init.Data.(*ast.EArrowFunction)
	if assert.True(t, ok) {
		assert.Len(t, arrow.Signature.Params.Params, 1)
		assert.NotNil(t, arrow.ExprBody)
	}
}

func TestArrowFunctionParenParamList(t *testing.T) {
	body, log := parseES6(t, "var f = (a, b) => { return a + b; };")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	arrow, ok := decl.Init.Data.(*ast.EArrowFunction)
	if assert.True(t, ok) {
		assert.Len(t, arrow.Signature.Params.Params, 2)
		assert.NotNil(t, arrow.Body)
	}
}

func TestParenthesizedExpressionIsNotArrow(t *testing.T) {
	body, log := parseES6(t, "var f = (a, b);")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	bin, ok := decl.Init.Data.(*ast.EBinary)
	if assert.True(t, ok) {
		assert.Equal(t, ast.BinComma, bin.Op)
	}
}

// ---- Ambiguity rule 2: assignment pattern vs array/object literal ----

func TestArrayLiteralReinterpretedAsAssignmentTarget(t *testing.T) {
	body, log := parseES6(t, "[a, b] = [1, 2];")
	assert.False(t, log.HasErrors())
	assign := firstExpr(t, body).Data.(*ast.EAssignment)
	pat, ok := assign.Target.Data.(*ast.EAssignmentPattern)
	if assert.True(t, ok) {
		assert.True(t, pat.IsArray)
		assert.Len(t, pat.Elements, 2)
	}
}

func TestObjectLiteralReinterpretedAsAssignmentTarget(t *testing.T) {
	body, log := parseES6(t, "({a: x, b: y} = obj);")
	assert.False(t, log.HasErrors())
	assign := firstExpr(t, body).Data.(*ast.EAssignment)
	pat, ok := assign.Target.Data.(*ast.EAssignmentPattern)
	if assert.True(t, ok) {
		assert.False(t, pat.IsArray)
		assert.Len(t, pat.Properties, 2)
	}
}

// ---- Ambiguity rule 3: generic call vs less-than comparison ----

func TestGenericCallTypeArguments(t *testing.T) {
	body, log := parseES6(t, "foo<number>(1);")
	assert.False(t, log.HasErrors())
	call, ok := firstExpr(t, body).Data.(*ast.ECall)
	if assert.True(t, ok) {
		assert.Len(t, call.TypeArguments, 1)
		assert.Len(t, call.Args, 1)
	}
}

func TestLessThanComparisonIsNotGenericCall(t *testing.T) {
	body, log := parseES6(t, "a < b;")
	assert.False(t, log.HasErrors())
	bin, ok := firstExpr(t, body).Data.(*ast.EBinary)
	if assert.True(t, ok) {
		assert.Equal(t, ast.BinLt, bin.Op)
	}
}

// ---- Ambiguity rule 5: regexp vs division ----

func TestRegExpLiteralAtExpressionStart(t *testing.T) {
	body, log := parseES6(t, "var r = /ab+c/gi;")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	re, ok := decl.Init.Data.(*ast.ERegExpr)
	if assert.True(t, ok) {
		assert.Equal(t, "ab+c", re.Pattern)
		assert.Equal(t, "gi", re.Flags)
	}
}

func TestDivisionAfterIdentifierIsNotRegExp(t *testing.T) {
	body, log := parseES6(t, "var r = a / b;")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	bin, ok := decl.Init.Data.(*ast.EBinary)
	if assert.True(t, ok) {
		assert.Equal(t, ast.BinDiv, bin.Op)
	}
}

// ---- Template literals ----

func TestTemplateLiteralWithSubstitution(t *testing.T) {
	body, log := parseES6(t, "var s = `a${x}b${y}c`;")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	tmpl, ok := decl.Init.Data.(*ast.ETemplateLiteral)
	if assert.True(t, ok) {
		assert.Equal(t, []string{"a", "b", "c"}, tmpl.Strings)
		assert.Len(t, tmpl.Exprs, 2)
	}
}

// ---- ES3 type-assertion cast form ----

func TestTypeAssertionCast(t *testing.T) {
	body, log := parseES6(t, "var x = <number>y;")
	assert.False(t, log.HasErrors())
	decl := body[0].Data.(*ast.SVariable).Decls[0]
	_, ok := decl.Init.Data.(*ast.ETypeAssertion)
	assert.True(t, ok)
}
