package parser

import (
	"testing"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
	"github.com/stretchr/testify/assert"
)

// parseSource is this package's scanAll: parse src in ES6 mode and hand
// back both the resulting body and the log so callers can assert on
// either the tree shape or the diagnostics.
func parseSource(t *testing.T, src string, opts Options) ([]Stmt, *logger.Log) {
	t.Helper()
	log := logger.NewLog()
	p := New("test.ts", []byte(src), log, opts)
	fs := p.Parse()
	return fs.Body, log
}

func parseES6(t *testing.T, src string) ([]Stmt, *logger.Log) {
	return parseSource(t, src, Options{Mode: lexer.ES6})
}

func firstExpr(t *testing.T, stmts []Stmt) Expr {
	t.Helper()
	se, ok := stmts[0].Data.(*ast.SExpr)
	if !ok {
		t.Fatalf("first statement is %T, not *ast.SExpr", stmts[0].Data)
	}
	return se.Expr
}

func TestParseEmptyModule(t *testing.T) {
	body, log := parseES6(t, "")
	assert.False(t, log.HasErrors())
	assert.Empty(t, body)
}

func TestParseVarDeclRecordsScope(t *testing.T) {
	log := logger.NewLog()
	p := New("test.ts", []byte("var x = 1;"), log, Options{Mode: lexer.ES6})
	fs := p.Parse()
	assert.False(t, log.HasErrors())
	decl, _ := fs.Scope.Lookup("x")
	if assert.NotNil(t, decl) {
		assert.Equal(t, ast.SymbolVariable, decl.Kind)
	}
}

func TestASIInsertsSemicolonOnLineBreak(t *testing.T) {
	body, log := parseES6(t, "var x = 1\nvar y = 2\n")
	assert.False(t, log.HasErrors())
	assert.Len(t, body, 2)
}

func TestASIInsertsSemicolonBeforeCloseBrace(t *testing.T) {
	body, log := parseES6(t, "function f() { return 1 }")
	assert.False(t, log.HasErrors())
	assert.Len(t, body, 1)
}

func TestMissingSemicolonWithoutLineBreakIsAnError(t *testing.T) {
	_, log := parseES6(t, "var x = 1 var y = 2")
	assert.True(t, log.HasErrors())
}

func TestDeclarationFileRejectsOrdinaryStatement(t *testing.T) {
	_, log := parseSource(t, "var x = 1;", Options{Mode: lexer.ES6, IsDeclarationFile: true})
	assert.True(t, log.HasErrors())
}

func TestDeclarationFileAcceptsAmbientAndInterface(t *testing.T) {
	body, log := parseSource(t, "declare var x: number;\ninterface Foo { bar: string; }", Options{
		Mode: lexer.ES6, IsDeclarationFile: true,
	})
	assert.False(t, log.HasErrors())
	assert.Len(t, body, 2)
}

func TestModuleFoundCallbackFiresForRelativeImport(t *testing.T) {
	log := logger.NewLog()
	p := New("test.ts", []byte(`import foo = require("./foo");`), log, Options{Mode: lexer.ES6})
	var got string
	p.SetModuleFoundCallback(func(path string) { got = path })
	p.Parse()
	assert.False(t, log.HasErrors())
	assert.Equal(t, "./foo", got)
}
