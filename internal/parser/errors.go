package parser

import (
	"fmt"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
)

// errorHere records a diagnostic at the current token and marks the parser
// as being in error recovery (spec.md §4.3/§9's skip-to-synchronization-
// point scheme), grounded on evanw-esbuild's js_parser error-then-continue
// style rather than aborting the whole parse on the first mistake.
func (p *Parser) errorHere(kind logger.Kind, format string, args ...interface{}) {
	p.errorCount++
	p.ctx().InErrorRecovery = true
	p.log.AddError(&logger.MsgLocation{
		File:        p.file,
		StartOffset: p.tok.Range.Loc.Start,
		EndOffset:   p.tok.Range.End(),
		StartLine:   p.tok.StartLine,
		EndLine:     p.tok.EndLine,
		Column:      0,
	}, kind, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(k ast.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	p.errorHere(logger.Syntax, "expected %s but found %s", k.String(), p.tok.Kind.String())
	return false
}

// expectSemicolon implements automatic semicolon insertion (ambiguity rule
// 6): a semicolon is present, implied by a line break before the next
// token, implied by end-of-file, or implied immediately before "}".
func (p *Parser) expectSemicolon() bool {
	if p.at(ast.TSemicolon) {
		p.advance()
		return true
	}
	if p.at(ast.TCloseBrace) || p.at(ast.TEOF) {
		return true
	}
	if p.prev.LineBreakBeforeNext {
		return true
	}
	p.errorHere(logger.Syntax, "expected ';'")
	return false
}

// syncSet builds a token-kind membership test for skipTokensUntil.
func syncSet(kinds ...ast.Kind) func(ast.Kind) bool {
	return func(k ast.Kind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// skipTokensUntil implements spec.md §9's SKIP_TOKEN_OR recovery policy:
// advance until a token in the synchronization set (or EOF) is reached. If
// consume is true the synchronizing token itself is also consumed (used
// when the sync token is a statement terminator like ';').
func (p *Parser) skipTokensUntil(isSync func(ast.Kind) bool, consume bool) {
	for !p.at(ast.TEOF) && !isSync(p.tok.Kind) {
		p.advance()
	}
	if consume && isSync(p.tok.Kind) {
		p.advance()
	}
	p.ctx().InErrorRecovery = false
}
