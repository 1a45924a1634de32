package parser

import (
	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
)

// parseTopLevelStmt is parseStmt with no further restriction; spec.md's
// module body and function/namespace bodies all accept the same statement
// grammar, so there is nothing top-level-only to special-case beyond what
// Parse()'s declaration-file branch already filters.
func (p *Parser) parseTopLevelStmt() (Stmt, bool) {
	return p.parseStmt()
}

// parseStmt is the statement dispatcher (spec.md §3's Stmt variants). It
// resolves ambiguity rule 4 (labelled statement vs expression statement)
// by speculatively checking for "identifier :" before falling through to
// parseExprStmt.
func (p *Parser) parseStmt() (Stmt, bool) {
	start := p.tok.Range
	switch {
	case p.at(ast.TOpenBrace):
		return p.parseBlockStmt(start), true
	case p.at(ast.TSemicolon):
		p.advance()
		return Stmt{Range: p.spanFrom(start), Data: &ast.SEmpty{}}, true
	case p.at(ast.TVar):
		return p.parseVarStmt(start), true
	case p.at(ast.TLet), p.at(ast.TConst):
		return p.parseLexicalStmt(start), true
	case p.at(ast.TIf):
		return p.parseIfStmt(start), true
	case p.at(ast.TWhile):
		return p.parseWhileStmt(start), true
	case p.at(ast.TDo):
		return p.parseDoWhileStmt(start), true
	case p.at(ast.TFor):
		return p.parseForStmt(start)
	case p.at(ast.TSwitch):
		return p.parseSwitchStmt(start), true
	case p.at(ast.TTry):
		return p.parseTryStmt(start), true
	case p.at(ast.TThrow):
		return p.parseThrowStmt(start), true
	case p.at(ast.TReturn):
		return p.parseReturnStmt(start), true
	case p.at(ast.TContinue):
		return p.parseContinueStmt(start), true
	case p.at(ast.TBreak):
		return p.parseBreakStmt(start), true
	case p.at(ast.TWith):
		return p.parseWithStmt(start), true
	case p.at(ast.TDebugger):
		p.advance()
		p.expectSemicolon()
		return Stmt{Range: p.spanFrom(start), Data: &ast.SDebugger{}}, true
	case p.at(ast.TFunction):
		return p.parseFunctionDecl(start, false), true
	case p.at(ast.TClass):
		return p.parseClassDecl(start, false), true
	case p.at(ast.TInterface):
		return p.parseInterfaceDecl(start), true
	case p.at(ast.TEnum):
		return p.parseEnumDecl(start, false), true
	case p.at(ast.TImport):
		return p.parseImportDecl(start), true
	case p.at(ast.TExport):
		return p.parseExportDecl(start), true
	case p.atContextual("declare"):
		return p.parseAmbientDecl(start), true
	case p.atContextual("module") || p.atContextual("namespace"):
		return p.parseModuleOrFromShorthand(start), true
	default:
		if lbl, ok := p.tryParseLabelledStmt(start); ok {
			return lbl, true
		}
		return p.parseExprStmt(start)
	}
}

func (p *Parser) parseBlockStmt(start logger.Range) Stmt {
	block := p.parseBlock()
	return Stmt{Range: block.Range, Data: &ast.SBlock{Block: block}}
}

func (p *Parser) parseBlock() ast.Block {
	start := p.tok.Range
	p.expect(ast.TOpenBrace)
	p.openBracket(BracketBrace)
	var body []Stmt
	var blockScope *ast.Scope
	for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
		if blockScope == nil && (p.at(ast.TLet) || p.at(ast.TConst)) {
			blockScope = p.pushScope(ast.ScopeBlock)
		}
		if s, ok := p.parseStmt(); ok {
			body = append(body, s)
		} else {
			p.skipTokensUntil(syncSet(ast.TSemicolon, ast.TCloseBrace), true)
		}
	}
	if blockScope != nil {
		p.popScope()
	}
	p.closeBracket(BracketBrace)
	p.expect(ast.TCloseBrace)
	return ast.Block{Range: p.spanFrom(start), Body: body, Scope: blockScope}
}

func (p *Parser) parseVarStmt(start logger.Range) Stmt {
	p.advance() // 'var'
	decls := p.parseDeclaratorList()
	p.expectSemicolon()
	for _, d := range decls {
		p.scope.Declare(declaratorName(d), ast.SymbolVariable, d)
	}
	return Stmt{Range: p.spanFrom(start), Data: &ast.SVariable{Decls: decls}}
}

func (p *Parser) parseLexicalStmt(start logger.Range) Stmt {
	kind := ast.VarLet
	if p.at(ast.TConst) {
		kind = ast.VarConst
	}
	p.advance()
	decls := p.parseDeclaratorList()
	p.expectSemicolon()
	if kind == ast.VarConst {
		for _, d := range decls {
			if d.Init == nil {
				p.errorHere(logger.Context, "const without initializer")
			}
		}
	}
	for _, d := range decls {
		p.scope.Declare(declaratorName(d), ast.SymbolVariable, d)
	}
	return Stmt{Range: p.spanFrom(start), Data: &ast.SLexicalDecl{Kind: kind, Decls: decls}}
}

func declaratorName(d ast.Declarator) string {
	if d.Target.Kind == ast.BindingIdentifier && d.Target.Name != nil {
		return d.Target.Name.UTF8
	}
	return ""
}

func (p *Parser) parseDeclaratorList() []ast.Declarator {
	var decls []ast.Declarator
	for {
		start := p.tok.Range
		target := p.parseBindingTarget()
		var ty ast.TypeExpr
		if p.at(ast.TColon) {
			p.advance()
			ty = p.parseType()
		}
		var init *Expr
		if p.at(ast.TEquals) {
			p.advance()
			e := p.parseAssignExpr()
			init = &e
		}
		decls = append(decls, ast.Declarator{Range: p.spanFrom(start), Target: target, Type: ty, Init: init})
		if p.at(ast.TComma) {
			p.advance()
			continue
		}
		break
	}
	return decls
}

func (p *Parser) parseIfStmt(start logger.Range) Stmt {
	p.advance()
	p.expect(ast.TOpenParen)
	test := p.parseExpr()
	p.expect(ast.TCloseParen)
	then, _ := p.parseStmt()
	var els Stmt
	if p.at(ast.TElse) {
		p.advance()
		els, _ = p.parseStmt()
	}
	return Stmt{Range: p.spanFrom(start), Data: &ast.SIf{Test: test, Then: then, Else: els}}
}

func (p *Parser) parseWhileStmt(start logger.Range) Stmt {
	p.advance()
	p.expect(ast.TOpenParen)
	test := p.parseExpr()
	p.expect(ast.TCloseParen)
	body, _ := p.parseLoopBody()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SWhile{Test: test, Body: body}}
}

// parseLoopBody runs the body statement with InIteration set, so break/
// continue validation in parseBreakStmt/parseContinueStmt below sees the
// right nesting.
func (p *Parser) parseLoopBody() (Stmt, bool) {
	var body Stmt
	var ok bool
	p.withContext(func(c *Context) { c.InIteration = true }, func() {
		body, ok = p.parseStmt()
	})
	return body, ok
}

func (p *Parser) parseDoWhileStmt(start logger.Range) Stmt {
	p.advance() // 'do'
	body, _ := p.parseLoopBody()
	p.expect(ast.TWhile)
	p.expect(ast.TOpenParen)
	test := p.parseExpr()
	p.expect(ast.TCloseParen)
	p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SDoWhile{Body: body, Test: test}}
}

// parseForStmt resolves ambiguity rule 10 (for vs for-in vs for-of): it
// parses the init clause, then dispatches on whether "in"/"of" follows.
func (p *Parser) parseForStmt(start logger.Range) (Stmt, bool) {
	p.advance() // 'for'
	p.expect(ast.TOpenParen)
	p.openBracket(BracketParen)

	var init Stmt
	switch {
	case p.at(ast.TSemicolon):
		// no init
	case p.at(ast.TVar):
		init = p.parseForHeaderVarOrLexical(true)
	case p.at(ast.TLet), p.at(ast.TConst):
		init = p.parseForHeaderVarOrLexical(false)
	default:
		init = p.parseForHeaderExpr()
	}

	if p.atContextual("of") {
		return p.finishForOf(start, init), true
	}
	if p.at(ast.TIn) {
		return p.finishForIn(start, init), true
	}

	p.expect(ast.TSemicolon)
	var test, update *Expr
	if !p.at(ast.TSemicolon) {
		e := p.parseExpr()
		test = &e
	}
	p.expect(ast.TSemicolon)
	if !p.at(ast.TCloseParen) {
		e := p.parseExpr()
		update = &e
	}
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	body, _ := p.parseLoopBody()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SFor{Init: init, Test: test, Update: update, Body: body}}, true
}

// parseForHeaderVarOrLexical parses "var"/"let"/"const" in a for-header
// position, where "in" must not be consumed by the declarator's initializer
// expression (the NoIn context, spec.md §9's for-in/for-of disambiguation).
func (p *Parser) parseForHeaderVarOrLexical(isVar bool) Stmt {
	start := p.tok.Range
	kind := ast.VarVar
	if !isVar {
		kind = ast.VarLet
		if p.at(ast.TConst) {
			kind = ast.VarConst
		}
	}
	p.advance()
	var decls []ast.Declarator
	p.withContext(func(c *Context) { c.NoIn = true }, func() {
		decls = p.parseDeclaratorList()
	})
	for _, d := range decls {
		p.scope.Declare(declaratorName(d), ast.SymbolVariable, d)
	}
	if isVar {
		return Stmt{Range: p.spanFrom(start), Data: &ast.SVariable{Decls: decls}}
	}
	return Stmt{Range: p.spanFrom(start), Data: &ast.SLexicalDecl{Kind: kind, Decls: decls}}
}

func (p *Parser) parseForHeaderExpr() Stmt {
	start := p.tok.Range
	var e Expr
	p.withContext(func(c *Context) { c.NoIn = true }, func() {
		e = p.parseExpr()
	})
	return Stmt{Range: p.spanFrom(start), Data: &ast.SExpr{Expr: e}}
}

func (p *Parser) finishForIn(start logger.Range, decl Stmt) Stmt {
	p.advance() // 'in'
	object := p.parseExpr()
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	body, _ := p.parseLoopBody()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SForIn{Decl: decl, Object: object, Body: body}}
}

// finishForOf requires ES6 mode (ambiguity rule 10, spec.md §4.2/§9).
// "of" scans as an identifier in every mode, so parseForStmt reaches here
// whenever "of" follows the for-header binding; outside ES6 mode the
// statement is reported as an error and still parsed as a for-of.
func (p *Parser) finishForOf(start logger.Range, decl Stmt) Stmt {
	if p.mode != lexer.ES6 {
		p.errorHere(logger.Context, "for-of statements require ES6")
	}
	p.advance() // 'of'
	iter := p.parseAssignExpr()
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	body, _ := p.parseLoopBody()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SForOf{Decl: decl, Iter: iter, Body: body}}
}

func (p *Parser) parseSwitchStmt(start logger.Range) Stmt {
	p.advance()
	p.expect(ast.TOpenParen)
	disc := p.parseExpr()
	p.expect(ast.TCloseParen)
	p.expect(ast.TOpenBrace)
	var cases []ast.CaseClause
	p.withContext(func(c *Context) { c.InCaseBlock = true }, func() {
		for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
			caseStart := p.tok.Range
			var test *Expr
			if p.at(ast.TCase) {
				p.advance()
				e := p.parseExpr()
				test = &e
			} else {
				p.expect(ast.TDefault)
			}
			p.expect(ast.TColon)
			var body []Stmt
			for !p.at(ast.TCase) && !p.at(ast.TDefault) && !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
				if s, ok := p.parseStmt(); ok {
					body = append(body, s)
				} else {
					p.skipTokensUntil(syncSet(ast.TSemicolon, ast.TCase, ast.TDefault, ast.TCloseBrace), false)
				}
			}
			cases = append(cases, ast.CaseClause{Range: p.spanFrom(caseStart), Test: test, Body: body})
		}
	})
	p.expect(ast.TCloseBrace)
	return Stmt{Range: p.spanFrom(start), Data: &ast.SSwitch{Disc: disc, Cases: cases}}
}

func (p *Parser) parseTryStmt(start logger.Range) Stmt {
	p.advance()
	body := p.parseBlock()
	var catch *ast.CatchClause
	if p.at(ast.TCatch) {
		catchStart := p.tok.Range
		p.advance()
		p.expect(ast.TOpenParen)
		param := p.parseBindingTarget()
		var ty ast.TypeExpr
		if p.at(ast.TColon) {
			p.advance()
			ty = p.parseType()
		}
		p.expect(ast.TCloseParen)
		catchBody := p.parseBlock()
		catch = &ast.CatchClause{Range: p.spanFrom(catchStart), Param: &param, Type: ty, Body: catchBody}
	}
	var finally *ast.Block
	if p.at(ast.TFinally) {
		p.advance()
		b := p.parseBlock()
		finally = &b
	}
	return Stmt{Range: p.spanFrom(start), Data: &ast.STry{Body: body, Catch: catch, Finally: finally}}
}

func (p *Parser) parseThrowStmt(start logger.Range) Stmt {
	p.advance()
	arg := p.parseExpr()
	p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SThrow{Arg: arg}}
}

func (p *Parser) parseReturnStmt(start logger.Range) Stmt {
	if !p.ctx().InFunction {
		p.errorHere(logger.Context, "return not allowed here")
	}
	p.advance()
	var arg *Expr
	if !p.atExprTerminator() {
		e := p.parseExpr()
		arg = &e
	}
	p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SReturn{Arg: arg}}
}

func (p *Parser) parseContinueStmt(start logger.Range) Stmt {
	if !p.ctx().InIteration {
		p.errorHere(logger.Context, "continue not allowed here")
	}
	p.advance()
	label := ""
	if p.at(ast.TIdentifier) && !p.prev.LineBreakBeforeNext {
		label = p.tok.Value.UTF8
		p.advance()
	}
	p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SContinue{Label: label}}
}

func (p *Parser) parseBreakStmt(start logger.Range) Stmt {
	if !p.ctx().InIteration && !p.ctx().InCaseBlock {
		p.errorHere(logger.Context, "break not allowed here")
	}
	p.advance()
	label := ""
	if p.at(ast.TIdentifier) && !p.prev.LineBreakBeforeNext {
		label = p.tok.Value.UTF8
		p.advance()
	}
	p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SBreak{Label: label}}
}

func (p *Parser) parseWithStmt(start logger.Range) Stmt {
	p.advance()
	p.expect(ast.TOpenParen)
	obj := p.parseExpr()
	p.expect(ast.TCloseParen)
	body, _ := p.parseStmt()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SWith{Object: obj, Body: body}}
}

// tryParseLabelledStmt implements ambiguity rule 4: "identifier :" at
// statement-start position is a label; any other token after the
// identifier means it was really the start of an expression statement.
func (p *Parser) tryParseLabelledStmt(start logger.Range) (Stmt, bool) {
	if !p.at(ast.TIdentifier) {
		return Stmt{}, false
	}
	var label string
	var body Stmt
	// On success speculate leaves the parser positioned with the identifier
	// already consumed and p.tok sitting on the ':' (speculate only rolls
	// state back on failure), so only the colon itself remains to consume.
	ok := p.speculate(func() bool {
		label = p.tok.Value.UTF8
		p.advance()
		return p.at(ast.TColon)
	})
	if !ok {
		return Stmt{}, false
	}
	p.advance() // ':'
	p.scope.Declare(label, ast.SymbolLabel, nil)
	body, _ = p.parseStmt()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SLabelled{Label: label, Body: body}}, true
}

func (p *Parser) parseExprStmt(start logger.Range) (Stmt, bool) {
	e := p.parseExpr()
	ok := p.expectSemicolon()
	return Stmt{Range: p.spanFrom(start), Data: &ast.SExpr{Expr: e}}, ok || true
}
