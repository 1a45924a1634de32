package lexer

import "github.com/brn/yatsc-sub000/internal/ast"

// LanguageMode gates the keyword set (spec.md §4.2 "Scanning rules"):
// const/let/yield are only keywords in ES6. "module" is never a keyword; it
// always scans as an identifier.
type LanguageMode uint8

const (
	ES3 LanguageMode = iota
	ES5
	ES6
)

// reservedAlways are keywords in every language mode esbuild/TS1.x support.
var reservedAlways = map[string]ast.Kind{
	"break": ast.TBreak, "case": ast.TCase, "catch": ast.TCatch,
	"class": ast.TClass, "continue": ast.TContinue, "debugger": ast.TDebugger,
	"default": ast.TDefault, "delete": ast.TDelete, "do": ast.TDo,
	"else": ast.TElse, "enum": ast.TEnum, "export": ast.TExport,
	"extends": ast.TExtends, "false": ast.TFalse, "finally": ast.TFinally,
	"for": ast.TFor, "function": ast.TFunction, "if": ast.TIf,
	"implements": ast.TImplements, "import": ast.TImport, "in": ast.TIn,
	"instanceof": ast.TInstanceOf, "interface": ast.TInterface,
	"new": ast.TNew, "null": ast.TNull, "package": ast.TPackage,
	"private": ast.TPrivate, "protected": ast.TProtected, "public": ast.TPublic,
	"return": ast.TReturn, "static": ast.TStatic, "super": ast.TSuper,
	"switch": ast.TSwitch, "this": ast.TThis, "throw": ast.TThrow,
	"true": ast.TTrue, "try": ast.TTry, "typeof": ast.TTypeOf,
	"var": ast.TVar, "void": ast.TVoid, "while": ast.TWhile,
	"with": ast.TWith,
}

// reservedES6Only are keywords gated to ES6 mode; outside ES6 they scan as
// plain identifiers (spec.md §4.2).
var reservedES6Only = map[string]ast.Kind{
	"const": ast.TConst,
	"let":   ast.TLet,
	"yield": ast.TYield,
}

// lookupKeyword returns the keyword token for text under mode, or
// (TIdentifier, false) if text is not reserved under that mode.
func lookupKeyword(text string, mode LanguageMode) (ast.Kind, bool) {
	if k, ok := reservedAlways[text]; ok {
		return k, true
	}
	if mode == ES6 {
		if k, ok := reservedES6Only[text]; ok {
			return k, true
		}
	}
	return ast.TIdentifier, false
}
