package parser

import (
	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
)

// binInfo is one row of the binary-operator precedence table used by
// parseBinaryExpr's precedence-climbing loop (spec.md §3's BinaryOp list,
// precedence following the ECMA-262/TypeScript 1.x table — grounded on
// evanw-esbuild's js_ast.OpTable, adapted from its L* level constants to
// plain integers since this core has no printer that needs the full
// associativity metadata esbuild's table carries).
type binInfo struct {
	op   ast.BinaryOp
	prec int
}

var binaryOps = map[ast.Kind]binInfo{
	ast.TBarBar:                             {ast.BinLogicalOr, 1},
	ast.TAmpersandAmpersand:                 {ast.BinLogicalAnd, 2},
	ast.TBar:                                {ast.BinBitOr, 3},
	ast.TCaret:                              {ast.BinBitXor, 4},
	ast.TAmpersand:                          {ast.BinBitAnd, 5},
	ast.TEqualsEquals:                       {ast.BinEqEq, 6},
	ast.TExclamationEquals:                  {ast.BinNotEq, 6},
	ast.TEqualsEqualsEquals:                 {ast.BinEqEqEq, 6},
	ast.TExclamationEqualsEquals:            {ast.BinNotEqEq, 6},
	ast.TLessThan:                           {ast.BinLt, 7},
	ast.TLessThanEquals:                     {ast.BinLtEq, 7},
	ast.TGreaterThan:                        {ast.BinGt, 7},
	ast.TGreaterThanEquals:                  {ast.BinGtEq, 7},
	ast.TInstanceOf:                         {ast.BinInstanceOf, 7},
	ast.TIn:                                 {ast.BinIn, 7},
	ast.TLessThanLessThan:                   {ast.BinShl, 8},
	ast.TGreaterThanGreaterThan:             {ast.BinShr, 8},
	ast.TGreaterThanGreaterThanGreaterThan:  {ast.BinUShr, 8},
	ast.TPlus:                               {ast.BinAdd, 9},
	ast.TMinus:                              {ast.BinSub, 9},
	ast.TAsterisk:                           {ast.BinMul, 10},
	ast.TSlash:                              {ast.BinDiv, 10},
	ast.TPercent:                            {ast.BinMod, 10},
}

var assignOps = map[ast.Kind]ast.AssignOp{
	ast.TEquals:                         ast.AssignEq,
	ast.TPlusEquals:                     ast.AssignAdd,
	ast.TMinusEquals:                    ast.AssignSub,
	ast.TAsteriskEquals:                 ast.AssignMul,
	ast.TSlashEquals:                    ast.AssignDiv,
	ast.TPercentEquals:                  ast.AssignMod,
	ast.TLessThanLessThanEquals:         ast.AssignShl,
	ast.TGreaterThanGreaterThanEquals:   ast.AssignShr,
	ast.TGreaterThanGreaterThanGreaterThanEquals: ast.AssignUShr,
	ast.TAmpersandEquals:                ast.AssignBitAnd,
	ast.TBarEquals:                      ast.AssignBitOr,
	ast.TCaretEquals:                    ast.AssignBitXor,
}

func mk(start logger.Range, end logger.Range, data ast.E) Expr {
	return Expr{Range: logger.Range{Loc: start.Loc, Len: end.End() - start.Loc.Start}, Data: data}
}

// parseExpr parses a comma expression (spec.md's "Expression" production).
// For-statement headers call it with the NoIn context set, which
// parseBinaryExpr honours by not treating "in" as an operator.
func (p *Parser) parseExpr() Expr {
	start := p.tok.Range
	e := p.parseAssignExpr()
	for p.at(ast.TComma) {
		p.advance()
		rhs := p.parseAssignExpr()
		e = mk(start, p.prev.Range, &ast.EBinary{Op: ast.BinComma, Left: e, Right: rhs})
	}
	return e
}

// parseAssignExpr resolves ambiguity rule 2 (assignment pattern vs array/
// object literal): it parses a conditional expression, and if an '='
// follows immediately while the left side is an array/object literal, it
// converts that literal to a binding pattern via reinterpretAsAssignmentTarget
// instead of treating it as an ordinary expression (spec.md §4.3
// "has_array_literal_view"/"has_object_literal_view").
func (p *Parser) parseAssignExpr() Expr {
	if p.at(ast.TYield) {
		return p.parseYieldExpr()
	}
	if arrow, ok := p.tryParseArrowFunction(); ok {
		return arrow
	}

	start := p.tok.Range
	left := p.parseConditionalExpr()

	if op, ok := assignOps[p.tok.Kind]; ok {
		p.advance()
		target := left
		if op == ast.AssignEq {
			target = p.reinterpretAsAssignmentTarget(left)
		}
		rhs := p.parseAssignExpr()
		return mk(start, p.prev.Range, &ast.EAssignment{Op: op, Target: target, Value: rhs, IsValidLHS: true})
	}
	return left
}

// reinterpretAsAssignmentTarget implements ambiguity rule 2: an array or
// object literal directly to the left of "=" is reparsed as a destructuring
// pattern (ast.EAssignmentPattern); anything else is left as an ordinary
// expression target.
func (p *Parser) reinterpretAsAssignmentTarget(e Expr) Expr {
	switch d := e.Data.(type) {
	case *ast.EArrayLiteral:
		pattern := &ast.EAssignmentPattern{IsArray: true, Elements: arrayLiteralToBindingElements(d)}
		return Expr{Range: e.Range, Data: pattern}
	case *ast.EObjectLiteral:
		pattern := &ast.EAssignmentPattern{IsArray: false, Properties: objectLiteralToBindingProps(d)}
		return Expr{Range: e.Range, Data: pattern}
	default:
		return e
	}
}

func arrayLiteralToBindingElements(lit *ast.EArrayLiteral) []ast.BindingElement {
	elems := make([]ast.BindingElement, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		if el.Data == nil {
			elems = append(elems, ast.BindingElement{Omitted: true})
			continue
		}
		if spread, ok := el.Data.(*ast.ESpread); ok {
			elems = append(elems, ast.BindingElement{
				Range: el.Range, IsRest: true, Target: exprToBinding(spread.Arg),
			})
			continue
		}
		if asn, ok := el.Data.(*ast.EAssignment); ok && asn.Op == ast.AssignEq {
			def := asn.Value
			elems = append(elems, ast.BindingElement{Range: el.Range, Target: exprToBinding(asn.Target), Default: &def})
			continue
		}
		elems = append(elems, ast.BindingElement{Range: el.Range, Target: exprToBinding(el)})
	}
	return elems
}

func objectLiteralToBindingProps(lit *ast.EObjectLiteral) []ast.BindingPropElement {
	props := make([]ast.BindingPropElement, 0, len(lit.Properties))
	for _, prop := range lit.Properties {
		value := prop.Value
		var def *Expr
		if asn, ok := value.Data.(*ast.EAssignment); ok && asn.Op == ast.AssignEq {
			d := asn.Value
			value = asn.Target
			def = &d
		}
		keyName, computed := propertyKeyName(prop)
		props = append(props, ast.BindingPropElement{
			KeyName: keyName, Computed: computed, KeyExpr: keyExprIfComputed(prop, computed),
			Target: exprToBinding(value), Default: def, Shorthand: prop.Shorthand,
		})
	}
	return props
}

func propertyKeyName(prop ast.ObjectProperty) (string, bool) {
	if prop.Computed {
		return "", true
	}
	switch k := prop.Key.Data.(type) {
	case *ast.EName:
		return k.Value.UTF8, false
	case *ast.EString:
		return k.Value.UTF8, false
	default:
		return "", true
	}
}

func keyExprIfComputed(prop ast.ObjectProperty, computed bool) *Expr {
	if !computed {
		return nil
	}
	k := prop.Key
	return &k
}

// exprToBinding converts a simple name expression into an identifier
// binding; nested destructuring is handled by recursing through
// reinterpretAsAssignmentTarget's siblings, since by the time this runs the
// literal-vs-pattern decision has already been made for every nesting level.
func exprToBinding(e Expr) ast.Binding {
	switch d := e.Data.(type) {
	case *ast.EName:
		return ast.Binding{Range: e.Range, Kind: ast.BindingIdentifier, Name: d.Value}
	case *ast.EAssignmentPattern:
		if d.IsArray {
			return ast.Binding{Range: e.Range, Kind: ast.BindingArray, Elements: d.Elements}
		}
		return ast.Binding{Range: e.Range, Kind: ast.BindingObject, Properties: d.Properties}
	case *ast.EArrayLiteral:
		return ast.Binding{Range: e.Range, Kind: ast.BindingArray, Elements: arrayLiteralToBindingElements(d)}
	case *ast.EObjectLiteral:
		return ast.Binding{Range: e.Range, Kind: ast.BindingObject, Properties: objectLiteralToBindingProps(d)}
	default:
		return ast.Binding{Range: e.Range, Kind: ast.BindingIdentifier}
	}
}

func (p *Parser) parseYieldExpr() Expr {
	start := p.tok.Range
	if !p.ctx().InGenerator {
		p.errorHere(logger.Context, "yield not allowed here")
	}
	p.advance()
	delegate := false
	if p.at(ast.TAsterisk) {
		delegate = true
		p.advance()
	}
	var arg *Expr
	if !p.atExprTerminator() {
		e := p.parseAssignExpr()
		arg = &e
	}
	return mk(start, p.prev.Range, &ast.EYield{Arg: arg, Delegate: delegate})
}

func (p *Parser) atExprTerminator() bool {
	return p.at(ast.TSemicolon) || p.at(ast.TCloseBrace) || p.at(ast.TCloseParen) ||
		p.at(ast.TCloseBracket) || p.at(ast.TComma) || p.at(ast.TColon) || p.at(ast.TEOF) ||
		p.prev.LineBreakBeforeNext
}

func (p *Parser) parseConditionalExpr() Expr {
	start := p.tok.Range
	test := p.parseBinaryExpr(0)
	if !p.at(ast.TQuestion) {
		return test
	}
	p.advance()
	yes := p.parseAssignExpr()
	p.expect(ast.TColon)
	no := p.parseAssignExpr()
	return mk(start, p.prev.Range, &ast.ETernary{Test: test, Yes: yes, No: no})
}

// parseBinaryExpr is precedence climbing over the table above, with
// ambiguity rule 3 spliced in at the "<" token: before treating "<" as the
// less-than operator it speculatively tries a generic call/new type
// argument list.
func (p *Parser) parseBinaryExpr(minPrec int) Expr {
	start := p.tok.Range
	left := p.parseUnaryExpr()

	for {
		if p.ctx().NoIn && p.at(ast.TIn) {
			break
		}
		info, ok := binaryOps[p.tok.Kind]
		if !ok || info.prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinaryExpr(info.prec + 1)
		left = mk(start, p.prev.Range, &ast.EBinary{Op: info.op, Left: left, Right: right})
	}
	return left
}

func (p *Parser) parseUnaryExpr() Expr {
	start := p.tok.Range
	switch p.tok.Kind {
	case ast.TPlus:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryPlus, Arg: p.parseUnaryExpr()})
	case ast.TMinus:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryMinus, Arg: p.parseUnaryExpr()})
	case ast.TExclamation:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryNot, Arg: p.parseUnaryExpr()})
	case ast.TTilde:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryBitNot, Arg: p.parseUnaryExpr()})
	case ast.TTypeOf:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryTypeOf, Arg: p.parseUnaryExpr()})
	case ast.TVoid:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryVoid, Arg: p.parseUnaryExpr()})
	case ast.TDelete:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryDelete, Arg: p.parseUnaryExpr()})
	case ast.TPlusPlus:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryPreIncrement, Arg: p.parseUnaryExpr()})
	case ast.TMinusMinus:
		p.advance()
		return mk(start, p.prev.Range, &ast.EUnary{Op: ast.UnaryPreDecrement, Arg: p.parseUnaryExpr()})
	case ast.TLessThan:
		// ES3/TS cast form "<T>expr" (only when it isn't a JSX-less context;
		// this core has no JSX, so "<" at expression-prefix position is
		// always the cast form, spec.md's ETypeAssertion).
		return p.parseTypeAssertion(start)
	default:
		return p.parsePostfixExpr()
	}
}

func (p *Parser) parseTypeAssertion(start logger.Range) Expr {
	p.scanner.EnableGenericTypeScan()
	p.advance() // '<'
	ty := p.parseType()
	p.scanner.DisableGenericTypeScan()
	p.expect(ast.TGreaterThan)
	e := p.parseUnaryExpr()
	return mk(start, p.prev.Range, &ast.ETypeAssertion{Type: ty, Expr: e})
}

func (p *Parser) parsePostfixExpr() Expr {
	start := p.tok.Range
	e := p.parseLeftHandSideExpr()
	if !p.prev.LineBreakBeforeNext && (p.at(ast.TPlusPlus) || p.at(ast.TMinusMinus)) {
		op := ast.PostfixIncrement
		if p.at(ast.TMinusMinus) {
			op = ast.PostfixDecrement
		}
		p.advance()
		e = mk(start, p.prev.Range, &ast.EPostfix{Op: op, Arg: e})
	}
	return e
}

// parseLeftHandSideExpr parses new/call expressions and their member/call/
// index suffix chain, including ambiguity rule 3's generic-call form
// "f<T>(...)".
func (p *Parser) parseLeftHandSideExpr() Expr {
	start := p.tok.Range
	var e Expr
	if p.at(ast.TNew) {
		e = p.parseNewExpr(start)
	} else {
		e = p.parsePrimaryExpr()
	}
	return p.parseCallTail(start, e)
}

func (p *Parser) parseNewExpr(start logger.Range) Expr {
	p.advance() // 'new'
	if p.at(ast.TDot) {
		// new.target — represent as a plain name; target-meta-property is
		// out of scope for this core (no generator/async desugaring).
		p.advance()
		p.advance()
		return mk(start, p.prev.Range, &ast.EName{Value: nil})
	}
	calleeStart := p.tok.Range
	var callee Expr
	if p.at(ast.TNew) {
		callee = p.parseNewExpr(calleeStart)
	} else {
		callee = p.parsePrimaryExpr()
	}
	callee = p.parseMemberTail(calleeStart, callee)

	var typeArgs []ast.TypeExpr
	if args, ok := p.tryParseTypeArgumentListForCall(); ok {
		typeArgs = args
	}
	var args []ast.Arg
	if p.at(ast.TOpenParen) {
		args = p.parseArguments()
	}
	return mk(start, p.prev.Range, &ast.ENew{Callee: callee, Args: args, TypeArguments: typeArgs})
}

// parseMemberTail parses only "." and "[" suffixes (no calls) — used for
// "new" callee parsing, where a "(" belongs to the new-expression's own
// argument list rather than to the callee.
func (p *Parser) parseMemberTail(start logger.Range, e Expr) Expr {
	for {
		switch {
		case p.at(ast.TDot):
			p.advance()
			name := p.propertyNameText()
			p.advance()
			e = mk(start, p.prev.Range, &ast.EGetProp{Target: e, Name: name})
		case p.at(ast.TOpenBracket):
			p.advance()
			idx := p.parseExpr()
			p.expect(ast.TCloseBracket)
			e = mk(start, p.prev.Range, &ast.EGetElem{Target: e, Index: idx})
		default:
			return e
		}
	}
}

// parseCallTail extends parseMemberTail with "(" call suffixes and the
// generic-call form (ambiguity rule 3).
func (p *Parser) parseCallTail(start logger.Range, e Expr) Expr {
	for {
		switch {
		case p.at(ast.TDot):
			p.advance()
			name := p.propertyNameText()
			p.advance()
			e = mk(start, p.prev.Range, &ast.EGetProp{Target: e, Name: name})
		case p.at(ast.TOpenBracket):
			p.advance()
			idx := p.parseExpr()
			p.expect(ast.TCloseBracket)
			e = mk(start, p.prev.Range, &ast.EGetElem{Target: e, Index: idx})
		case p.at(ast.TOpenParen):
			args := p.parseArguments()
			e = mk(start, p.prev.Range, &ast.ECall{Callee: e, Args: args})
		case p.at(ast.TLessThan):
			if typeArgs, ok := p.tryParseTypeArgumentListForCall(); ok {
				args := p.parseArguments()
				e = mk(start, p.prev.Range, &ast.ECall{Callee: e, Args: args, TypeArguments: typeArgs})
				continue
			}
			return e
		case p.at(ast.TNoSubstitutionTemplate), p.at(ast.TTemplateHead):
			// Tagged templates aren't part of spec.md's surface; treat the
			// template as a separate following expression instead of
			// merging it into a tagged-template node.
			return e
		default:
			return e
		}
	}
}

func (p *Parser) parseArguments() []ast.Arg {
	p.expect(ast.TOpenParen)
	p.openBracket(BracketParen)
	var args []ast.Arg
	for !p.at(ast.TCloseParen) && !p.at(ast.TEOF) {
		if p.at(ast.TDotDotDot) {
			p.advance()
			args = append(args, ast.Arg{Value: p.parseAssignExpr(), Spread: true})
		} else {
			args = append(args, ast.Arg{Value: p.parseAssignExpr()})
		}
		if p.at(ast.TComma) {
			p.advance()
			continue
		}
		break
	}
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	return args
}

func (p *Parser) parsePrimaryExpr() Expr {
	start := p.tok.Range
	switch {
	case p.at(ast.TNumericLiteral):
		v := p.tok.NumericValue
		p.advance()
		return mk(start, p.prev.Range, &ast.ENumber{Value: v})
	case p.at(ast.TStringLiteral):
		v := p.tok.Value
		p.advance()
		return mk(start, p.prev.Range, &ast.EString{Value: v})
	case p.at(ast.TNoSubstitutionTemplate):
		text := p.tok.Value.UTF8
		p.advance()
		return mk(start, p.prev.Range, &ast.ETemplateLiteral{Strings: []string{text}})
	case p.at(ast.TTemplateHead):
		return p.parseTemplateLiteral(start)
	case p.at(ast.TSlash) || p.at(ast.TSlashEquals):
		p.rescanAsRegExp()
		pattern, flags := p.tok.RegexPattern, p.tok.RegexFlags
		p.advance()
		return mk(start, p.prev.Range, &ast.ERegExpr{Pattern: pattern, Flags: flags})
	case p.at(ast.TTrue):
		p.advance()
		return mk(start, p.prev.Range, &ast.EBoolean{Value: true})
	case p.at(ast.TFalse):
		p.advance()
		return mk(start, p.prev.Range, &ast.EBoolean{Value: false})
	case p.at(ast.TNull):
		p.advance()
		return mk(start, p.prev.Range, &ast.ENull{})
	case p.at(ast.TThis):
		p.advance()
		return mk(start, p.prev.Range, &ast.EThis{})
	case p.at(ast.TSuper):
		p.advance()
		return mk(start, p.prev.Range, &ast.ESuper{})
	case p.at(ast.TFunction):
		return p.parseFunctionExpr(start)
	case p.at(ast.TClass):
		return p.parseClassExpr(start)
	case p.at(ast.TOpenBracket):
		return p.parseArrayLiteral(start)
	case p.at(ast.TOpenBrace):
		return p.parseObjectLiteral(start)
	case p.at(ast.TOpenParen):
		return p.parseParenExpr(start)
	case p.atContextual("undefined"):
		p.advance()
		return mk(start, p.prev.Range, &ast.EUndefined{})
	case p.atContextual("NaN"):
		p.advance()
		return mk(start, p.prev.Range, &ast.ENaN{})
	case p.at(ast.TIdentifier):
		v := p.tok.Value
		p.advance()
		return mk(start, p.prev.Range, &ast.EName{Value: v})
	default:
		p.errorHere(logger.Syntax, "expected an expression but found %s", p.tok.Kind.String())
		p.advance()
		return mk(start, p.prev.Range, &ast.EUndefined{})
	}
}

// parseTemplateLiteral stitches TTemplateHead/TTemplateMiddle/TTemplateTail
// tokens into one node: each "${...}" hole is parsed as an ordinary
// expression, then scanner.ContinueTemplate resumes lexing the literal text
// from the matching '}' (spec.md §4.2, §3 ETemplateLiteral).
func (p *Parser) parseTemplateLiteral(start logger.Range) Expr {
	var strs []string
	var exprs []Expr
	strs = append(strs, p.tok.Value.UTF8)
	// Advance past the head so the next token scanned is inside the hole.
	p.prev = p.tok
	p.tok = p.scanner.Next()
	for {
		exprs = append(exprs, p.parseExpr())
		cont := p.scanner.ContinueTemplate()
		strs = append(strs, cont.Value.UTF8)
		if cont.Kind == ast.TTemplateTail {
			p.prev = cont
			p.tok = p.scanner.Next()
			break
		}
		p.prev = cont
		p.tok = p.scanner.Next()
	}
	return mk(start, p.prev.Range, &ast.ETemplateLiteral{Strings: strs, Exprs: exprs})
}

func (p *Parser) parseFunctionExpr(start logger.Range) Expr {
	p.advance() // 'function'
	isGen := false
	if p.at(ast.TAsterisk) {
		isGen = true
		p.advance()
	}
	name := ""
	if p.at(ast.TIdentifier) {
		name = p.tok.Value.UTF8
		p.advance()
	}
	p.pushScope(ast.ScopeFunction)
	defer p.popScope()
	sig := p.parseCallSignature()
	var body *ast.Block
	p.withContext(func(c *Context) { c.InFunction = true; c.InGenerator = isGen }, func() {
		body = p.parseFunctionBody()
	})
	return mk(start, p.prev.Range, &ast.EFunctionExpr{Name: name, Signature: sig, Body: body, IsGenerator: isGen})
}

func (p *Parser) parseClassExpr(start logger.Range) Expr {
	cls := p.parseClassBody("")
	return mk(start, p.prev.Range, &ast.EClassExpr{Class: cls})
}

func (p *Parser) parseArrayLiteral(start logger.Range) Expr {
	p.advance() // '['
	p.openBracket(BracketBracket)
	var elems []Expr
	for !p.at(ast.TCloseBracket) && !p.at(ast.TEOF) {
		if p.at(ast.TComma) {
			elems = append(elems, Expr{}) // elision
			p.advance()
			continue
		}
		if p.at(ast.TDotDotDot) {
			spreadStart := p.tok.Range
			p.advance()
			arg := p.parseAssignExpr()
			elems = append(elems, mk(spreadStart, p.prev.Range, &ast.ESpread{Arg: arg}))
		} else {
			elems = append(elems, p.parseAssignExpr())
		}
		if p.at(ast.TComma) {
			p.advance()
		} else {
			break
		}
	}
	p.closeBracket(BracketBracket)
	p.expect(ast.TCloseBracket)
	return mk(start, p.prev.Range, &ast.EArrayLiteral{Elements: elems, HasArrayLiteralView: true})
}

func (p *Parser) parseObjectLiteral(start logger.Range) Expr {
	p.advance() // '{'
	p.openBracket(BracketBrace)
	var props []ast.ObjectProperty
	for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
		props = append(props, p.parseObjectProperty())
		if p.at(ast.TComma) {
			p.advance()
		} else {
			break
		}
	}
	p.closeBracket(BracketBrace)
	p.expect(ast.TCloseBrace)
	return mk(start, p.prev.Range, &ast.EObjectLiteral{Properties: props, HasObjectLiteralView: true})
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	keyStart := p.tok.Range
	computed := false
	var key Expr

	if p.at(ast.TOpenBracket) {
		computed = true
		p.advance()
		key = p.parseAssignExpr()
		p.expect(ast.TCloseBracket)
	} else if p.at(ast.TStringLiteral) {
		v := p.tok.Value
		p.advance()
		key = mk(keyStart, p.prev.Range, &ast.EString{Value: v})
	} else if p.at(ast.TNumericLiteral) {
		v := p.tok.NumericValue
		p.advance()
		key = mk(keyStart, p.prev.Range, &ast.ENumber{Value: v})
	} else {
		name := p.propertyNameText()
		v := p.tok.Value
		p.advance()
		if (name == "get" || name == "set") && !p.at(ast.TColon) && !p.at(ast.TComma) && !p.at(ast.TCloseBrace) && !p.at(ast.TOpenParen) {
			return p.parseAccessorProperty(keyStart, name == "get")
		}
		key = mk(keyStart, p.prev.Range, &ast.EName{Value: v})
	}

	if p.at(ast.TOpenParen) || p.at(ast.TLessThan) {
		// Shorthand method: { foo(a) { ... } }.
		p.pushScope(ast.ScopeFunction)
		sig := p.parseCallSignature()
		var body *ast.Block
		p.withContext(func(c *Context) { c.InFunction = true; c.InGenerator = false }, func() {
			body = p.parseFunctionBody()
		})
		p.popScope()
		fn := mk(keyStart, p.prev.Range, &ast.EFunctionExpr{Signature: sig, Body: body})
		return ast.ObjectProperty{Key: key, Value: fn, Computed: computed}
	}

	if p.at(ast.TColon) {
		p.advance()
		value := p.parseAssignExpr()
		return ast.ObjectProperty{Key: key, Value: value, Computed: computed}
	}

	// Shorthand property: { x } or { x = default } (only valid once
	// reinterpreted as a binding pattern, ambiguity rule 2).
	value := key
	if p.at(ast.TEquals) {
		p.advance()
		def := p.parseAssignExpr()
		value = mk(keyStart, p.prev.Range, &ast.EAssignment{Op: ast.AssignEq, Target: key, Value: def})
	}
	return ast.ObjectProperty{Key: key, Value: value, Shorthand: true}
}

func (p *Parser) parseAccessorProperty(start logger.Range, isGetter bool) ast.ObjectProperty {
	nameStart := p.tok.Range
	name := p.propertyNameText()
	p.advance()
	p.pushScope(ast.ScopeFunction)
	sig := p.parseCallSignature()
	var body *ast.Block
	p.withContext(func(c *Context) { c.InFunction = true; c.InGenerator = false }, func() {
		body = p.parseFunctionBody()
	})
	p.popScope()
	key := mk(nameStart, nameStart, &ast.EName{})
	_ = isGetter
	fn := mk(start, p.prev.Range, &ast.EFunctionExpr{Name: name, Signature: sig, Body: body})
	return ast.ObjectProperty{Key: key, Value: fn}
}

func (p *Parser) parseFunctionBody() *ast.Block {
	bodyStart := p.tok.Range
	p.expect(ast.TOpenBrace)
	p.openBracket(BracketBrace)
	var body []Stmt
	for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
		if s, ok := p.parseStmt(); ok {
			body = append(body, s)
		} else {
			p.skipTokensUntil(syncSet(ast.TSemicolon, ast.TCloseBrace), true)
		}
	}
	p.closeBracket(BracketBrace)
	p.expect(ast.TCloseBrace)
	return &ast.Block{Range: p.spanFrom(bodyStart), Body: body}
}

// parseParenExpr resolves ambiguity rule 1 (arrow-function parameter list
// vs parenthesized expression): by the time control reaches here,
// tryParseArrowFunction has already failed to commit to the arrow reading,
// so this is always an ordinary parenthesized expression.
func (p *Parser) parseParenExpr(start logger.Range) Expr {
	p.advance() // '('
	p.openBracket(BracketParen)
	e := p.parseExpr()
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	return e
}

// tryParseArrowFunction implements ambiguity rule 1. It speculatively
// parses a parameter list (either a bare identifier or a parenthesized,
// possibly-typed parameter list) followed by an optional return type and
// requires "=>" to commit; on any mismatch the attempt rolls back via the
// memoization table and the caller falls through to ordinary expression
// parsing (parseParenExpr / a bare identifier primary expression).
func (p *Parser) tryParseArrowFunction() (Expr, bool) {
	if !p.at(ast.TOpenParen) && !p.at(ast.TIdentifier) && !p.at(ast.TLessThan) {
		return Expr{}, false
	}
	start := p.tok.Range
	var sig ast.CallSignature
	var bodyIsExpr bool
	var exprBody Expr
	var block *ast.Block

	ok := p.memoized(memoArrowParams, func() bool {
		if p.at(ast.TLessThan) {
			sig.TypeParams = p.parseTypeParameterList()
			if !p.at(ast.TOpenParen) {
				return false
			}
		}
		if p.at(ast.TIdentifier) {
			name := p.tok.Value
			nameRange := p.tok.Range
			p.advance()
			if !p.at(ast.TEqualsGreaterThan) {
				return false
			}
			sig.Params = ast.ParamList{Params: []ast.Parameter{{
				Range: nameRange, Binding: ast.Binding{Range: nameRange, Kind: ast.BindingIdentifier, Name: name},
			}}}
		} else if p.at(ast.TOpenParen) {
			sig.Params = p.parseParamList()
			if p.at(ast.TColon) {
				p.advance()
				sig.ReturnType = p.parseType()
			}
			if !p.at(ast.TEqualsGreaterThan) {
				return false
			}
		} else {
			return false
		}
		return true
	})
	if !ok {
		return Expr{}, false
	}

	p.advance() // '=>'
	p.pushScope(ast.ScopeFunction)
	// Arrow bodies push InFunction (so a bare "return" inside one is valid)
	// but never InGenerator: arrow functions cannot themselves be generators,
	// so a "yield" textually inside an arrow body is never allowed here
	// either, regardless of whether the enclosing function is a generator.
	p.withContext(func(c *Context) { c.InFunction = true; c.InGenerator = false }, func() {
		if p.at(ast.TOpenBrace) {
			block = p.parseFunctionBody()
		} else {
			bodyIsExpr = true
			exprBody = p.parseAssignExpr()
		}
	})
	p.popScope()

	arrow := &ast.EArrowFunction{Signature: sig, Body: block}
	if bodyIsExpr {
		arrow.ExprBody = &exprBody
	}
	return mk(start, p.prev.Range, arrow), true
}

func (p *Parser) parseBindingTarget() ast.Binding {
	start := p.tok.Range
	switch {
	case p.at(ast.TOpenBracket):
		return p.parseArrayBindingPattern(start)
	case p.at(ast.TOpenBrace):
		return p.parseObjectBindingPattern(start)
	default:
		name := p.tok.Value
		p.advance()
		return ast.Binding{Range: p.spanFrom(start), Kind: ast.BindingIdentifier, Name: name}
	}
}

func (p *Parser) parseArrayBindingPattern(start logger.Range) ast.Binding {
	p.advance() // '['
	var elems []ast.BindingElement
	for !p.at(ast.TCloseBracket) && !p.at(ast.TEOF) {
		elemStart := p.tok.Range
		if p.at(ast.TComma) {
			elems = append(elems, ast.BindingElement{Omitted: true})
			p.advance()
			continue
		}
		if p.at(ast.TDotDotDot) {
			p.advance()
			target := p.parseBindingTarget()
			elems = append(elems, ast.BindingElement{Range: p.spanFrom(elemStart), Target: target, IsRest: true})
			break
		}
		target := p.parseBindingTarget()
		var def *Expr
		if p.at(ast.TEquals) {
			p.advance()
			e := p.parseAssignExpr()
			def = &e
		}
		elems = append(elems, ast.BindingElement{Range: p.spanFrom(elemStart), Target: target, Default: def})
		if p.at(ast.TComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(ast.TCloseBracket)
	return ast.Binding{Range: p.spanFrom(start), Kind: ast.BindingArray, Elements: elems}
}

func (p *Parser) parseObjectBindingPattern(start logger.Range) ast.Binding {
	p.advance() // '{'
	var props []ast.BindingPropElement
	for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
		propStart := p.tok.Range
		if p.at(ast.TDotDotDot) {
			p.advance()
			target := p.parseBindingTarget()
			props = append(props, ast.BindingPropElement{Range: p.spanFrom(propStart), Target: target, IsRest: true})
			break
		}
		computed := false
		var keyExpr *Expr
		keyName := ""
		if p.at(ast.TOpenBracket) {
			computed = true
			p.advance()
			e := p.parseAssignExpr()
			keyExpr = &e
			p.expect(ast.TCloseBracket)
		} else {
			keyName = p.propertyNameText()
			p.advance()
		}
		var target ast.Binding
		shorthand := true
		if p.at(ast.TColon) {
			shorthand = false
			p.advance()
			target = p.parseBindingTarget()
		} else {
			target = ast.Binding{Range: propStart, Kind: ast.BindingIdentifier, Name: p.pool.Intern(keyName)}
		}
		var def *Expr
		if p.at(ast.TEquals) {
			p.advance()
			e := p.parseAssignExpr()
			def = &e
		}
		props = append(props, ast.BindingPropElement{
			Range: p.spanFrom(propStart), KeyName: keyName, Computed: computed, KeyExpr: keyExpr,
			Target: target, Default: def, Shorthand: shorthand,
		})
		if p.at(ast.TComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(ast.TCloseBrace)
	return ast.Binding{Range: p.spanFrom(start), Kind: ast.BindingObject, Properties: props}
}
