package lexer

import (
	"testing"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
	"github.com/stretchr/testify/assert"
)

func scanAll(t *testing.T, src string, mode LanguageMode) ([]ast.Token, *logger.Log) {
	t.Helper()
	log := logger.NewLog()
	pool := ast.NewPool()
	s := New("test.ts", []byte(src), pool, log, mode)
	var toks []ast.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == ast.TEOF {
			break
		}
	}
	return toks, log
}

func TestKeywordGatingByMode(t *testing.T) {
	toks, _ := scanAll(t, "let", ES3)
	assert.Equal(t, ast.TIdentifier, toks[0].Kind, "let is a plain identifier outside ES6")

	toks, _ = scanAll(t, "let", ES6)
	assert.Equal(t, ast.TLet, toks[0].Kind)
}

func TestContextualKeywordsAreIdentifiers(t *testing.T) {
	for _, word := range []string{"declare", "constructor", "from", "as", "of", "get", "set", "require"} {
		toks, _ := scanAll(t, word, ES6)
		assert.Equal(t, ast.TIdentifier, toks[0].Kind, word)
		assert.True(t, ast.IsContextualKeyword(word))
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]float64{
		"100":    100,
		"1.5":    1.5,
		"1e10":   1e10,
		"0x1F":   31,
		"0o17":   15,
		"1.5e+2": 150,
	}
	for src, want := range cases {
		toks, log := scanAll(t, src, ES6)
		assert.False(t, log.HasErrors(), src)
		assert.Equal(t, ast.TNumericLiteral, toks[0].Kind, src)
		assert.InDelta(t, want, toks[0].NumericValue, 0.0001, src)
	}
}

func TestBinaryLiteralRequiresES6(t *testing.T) {
	_, log := scanAll(t, "0b101", ES3)
	assert.True(t, log.HasErrors())
}

func TestMalformedNumbersAreIllegal(t *testing.T) {
	for _, src := range []string{"1.3e+", "1.3ee", "1349.07.5"} {
		toks, log := scanAll(t, src, ES6)
		assert.True(t, log.HasErrors(), src)
		assert.Equal(t, ast.TIllegal, toks[0].Kind, src)
	}
}

func TestStringEscapes(t *testing.T) {
	toks, log := scanAll(t, `"a\nb\tA"`, ES6)
	assert.False(t, log.HasErrors())
	assert.Equal(t, "a\nb\tA", toks[0].Value.UTF8)
}

func TestUnterminatedStringIsReported(t *testing.T) {
	_, log := scanAll(t, `"abc`, ES6)
	assert.True(t, log.HasErrors())
}

func TestTemplateLiteralNoSubstitution(t *testing.T) {
	toks, _ := scanAll(t, "`hello`", ES6)
	assert.Equal(t, ast.TNoSubstitutionTemplate, toks[0].Kind)
	assert.Equal(t, "hello", toks[0].Value.UTF8)
}

func TestTemplateLiteralHead(t *testing.T) {
	toks, _ := scanAll(t, "`a${", ES6)
	assert.Equal(t, ast.TTemplateHead, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Value.UTF8)
}

func TestGenericTypeScanSuppressesShiftMerge(t *testing.T) {
	log := logger.NewLog()
	pool := ast.NewPool()
	s := New("t.ts", []byte(">>>="), pool, log, ES6)

	s.EnableGenericTypeScan()
	tok := s.Next()
	assert.Equal(t, ast.TGreaterThan, tok.Kind)
	tok = s.Next()
	assert.Equal(t, ast.TGreaterThan, tok.Kind)
	tok = s.Next()
	assert.Equal(t, ast.TGreaterThan, tok.Kind)
	tok = s.Next()
	assert.Equal(t, ast.TEquals, tok.Kind)
	s.DisableGenericTypeScan()
}

func TestGreaterThanMergesOutsideGenericScan(t *testing.T) {
	log := logger.NewLog()
	pool := ast.NewPool()
	s := New("t.ts", []byte(">>>="), pool, log, ES6)
	tok := s.Next()
	assert.Equal(t, ast.TGreaterThanGreaterThanGreaterThanEquals, tok.Kind)
}

func TestCheckRegularExpressionRescansSlash(t *testing.T) {
	log := logger.NewLog()
	pool := ast.NewPool()
	s := New("t.ts", []byte("/ab+c/gi"), pool, log, ES6)
	slash := s.Next()
	assert.Equal(t, ast.TSlash, slash.Kind)
	re := s.CheckRegularExpression(slash)
	assert.Equal(t, ast.TRegExpLiteral, re.Kind)
	assert.Equal(t, "ab+c", re.RegexPattern)
	assert.Equal(t, "gi", re.RegexFlags)
}

func TestReferencePathDirectiveCallback(t *testing.T) {
	log := logger.NewLog()
	pool := ast.NewPool()
	var got string
	s := New("t.ts", []byte("/// <reference path=\"./foo.ts\" />\nlet x"), pool, log, ES6)
	s.SetReferencePathCallback(func(p string) { got = p })
	s.Next()
	assert.Equal(t, "./foo.ts", got)
}

func TestLineBreakBeforeNextFlag(t *testing.T) {
	toks, _ := scanAll(t, "a\nb", ES6)
	assert.True(t, toks[0].LineBreakBeforeNext)
}

func TestSemicolonBeforeNextFlag(t *testing.T) {
	toks, _ := scanAll(t, "a;", ES6)
	assert.True(t, toks[0].SemicolonBeforeNext)
}

func TestBOMAndShebangSkipped(t *testing.T) {
	toks, _ := scanAll(t, "\xEF\xBB\xBF#!/usr/bin/env node\nlet x", ES6)
	assert.Equal(t, ast.TLet, toks[0].Kind)
}
