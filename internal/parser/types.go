package parser

import (
	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
)

// parseType parses a type annotation (spec.md's TypeExpr cluster). Grounded
// on _examples/original_source/src/parser/parser.h's type-parsing entry
// points, since evanw-esbuild has no type-annotation grammar to mirror —
// the shape (primary type, then postfix "[]" and infix "|") follows the
// same primary/suffix split the rest of this parser uses for expressions.
func (p *Parser) parseType() ast.TypeExpr {
	t := p.parseUnionType()
	return t
}

func (p *Parser) parseUnionType() ast.TypeExpr {
	start := p.tok.Range
	first := p.parsePostfixType()
	if !p.at(ast.TBar) {
		return first
	}
	members := []ast.TypeExpr{first}
	for p.at(ast.TBar) {
		p.advance()
		members = append(members, p.parsePostfixType())
	}
	return ast.TypeExpr{
		Range: p.spanFrom(start),
		Data:  &ast.TUnion{Members: members},
	}
}

// parsePostfixType handles "T[]" repeated any number of times.
func (p *Parser) parsePostfixType() ast.TypeExpr {
	start := p.tok.Range
	t := p.parsePrimaryType()
	for p.at(ast.TOpenBracket) {
		p.advance()
		if !p.expect(ast.TCloseBracket) {
			break
		}
		t = ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TArray{Element: t}}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.TypeExpr {
	start := p.tok.Range

	switch {
	case p.at(ast.TOpenParen):
		return p.parseFunctionType(start)
	case p.at(ast.TOpenBracket):
		return p.parseTupleType(start)
	case p.at(ast.TOpenBrace):
		return p.parseObjectType(start)
	case p.atContextual("typeof"):
		p.advance()
		e := p.parseLeftHandSideExpr()
		return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TQuery{Expr: e}}
	case p.at(ast.TIdentifier) || p.isTypeKeyword():
		return p.parseNameOrGenericType(start)
	default:
		p.errorHere(logger.Syntax, "expected a type")
		p.advance()
		return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TSimple{Name: "any"}}
	}
}

// isTypeKeyword allows reserved words that double as predefined type names
// (spec.md: any/number/boolean/string/void/Object are ordinary identifiers
// lexically, but "void" is a keyword).
func (p *Parser) isTypeKeyword() bool {
	return p.at(ast.TVoid) || p.at(ast.TThis)
}

func (p *Parser) parseNameOrGenericType(start logger.Range) ast.TypeExpr {
	name := p.typeNameText()
	p.advance()
	for p.at(ast.TDot) {
		p.advance()
		name = name + "." + p.typeNameText()
		p.advance()
	}
	if !p.at(ast.TLessThan) {
		return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TSimple{Name: name}}
	}
	args := p.parseTypeArgumentList()
	return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TGeneric{Name: name, Args: args}}
}

func (p *Parser) typeNameText() string {
	if p.at(ast.TVoid) {
		return "void"
	}
	if p.at(ast.TThis) {
		return "this"
	}
	if p.tok.Value != nil {
		return p.tok.Value.UTF8
	}
	return p.tok.Kind.String()
}

// parseTypeArgumentList parses "<T, U>" using generic-type-scan mode so the
// scanner never merges a closing ">>" (ambiguity rule 3, spec.md §4.2).
func (p *Parser) parseTypeArgumentList() []ast.TypeExpr {
	p.scanner.EnableGenericTypeScan()
	defer p.scanner.DisableGenericTypeScan()

	p.advance() // '<'
	var args []ast.TypeExpr
	if !p.at(ast.TGreaterThan) {
		args = append(args, p.parseType())
		for p.at(ast.TComma) {
			p.advance()
			args = append(args, p.parseType())
		}
	}
	p.expect(ast.TGreaterThan)
	return args
}

// tryParseTypeArgumentListForCall implements ambiguity rule 3: "a < b"
// could be a less-than comparison or the start of "a<T>(...)" generic
// call. It speculatively parses a type-argument list and requires it to be
// immediately followed by "(" to commit, otherwise the attempt is rolled
// back and the caller falls through to ordinary binary-operator parsing.
func (p *Parser) tryParseTypeArgumentListForCall() ([]ast.TypeExpr, bool) {
	var args []ast.TypeExpr
	ok := p.memoized(memoTypeArgs, func() bool {
		if !p.at(ast.TLessThan) {
			return false
		}
		args = p.parseTypeArgumentList()
		return p.at(ast.TOpenParen)
	})
	if !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseTupleType(start logger.Range) ast.TypeExpr {
	p.advance() // '['
	var elems []ast.TypeExpr
	if !p.at(ast.TCloseBracket) {
		elems = append(elems, p.parseType())
		for p.at(ast.TComma) {
			p.advance()
			elems = append(elems, p.parseType())
		}
	}
	p.expect(ast.TCloseBracket)
	return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TTuple{Elements: elems}}
}

func (p *Parser) parseFunctionType(start logger.Range) ast.TypeExpr {
	params := p.parseParamList()
	p.expect(ast.TEqualsGreaterThan)
	ret := p.parseType()
	sig := ast.CallSignature{Params: params, ReturnType: ret}
	return ast.TypeExpr{Range: p.spanFrom(start), Data: &ast.TFunction{Signature: sig}}
}

// parseObjectType parses an inline object-type literal, shared with
// interface bodies (ast.TObject backs both).
func (p *Parser) parseObjectType(start logger.Range) ast.TypeExpr {
	body := p.parseObjectTypeBody()
	return ast.TypeExpr{Range: p.spanFrom(start), Data: &body}
}

func (p *Parser) parseObjectTypeBody() ast.TObject {
	p.advance() // '{'
	var obj ast.TObject
	for !p.at(ast.TCloseBrace) && !p.at(ast.TEOF) {
		memberStart := p.tok.Range

		if p.at(ast.TOpenBracket) {
			obj.Indexers = append(obj.Indexers, p.parseIndexSignature(memberStart))
			p.consumeMemberSeparator()
			continue
		}
		if p.at(ast.TOpenParen) || p.at(ast.TLessThan) {
			sig := p.parseCallSignature()
			obj.Calls = append(obj.Calls, sig)
			p.consumeMemberSeparator()
			continue
		}

		name := p.propertyNameText()
		p.advance()
		optional := false
		if p.at(ast.TQuestion) {
			optional = true
			p.advance()
		}
		if p.at(ast.TOpenParen) || p.at(ast.TLessThan) {
			sig := p.parseCallSignature()
			obj.Methods = append(obj.Methods, ast.MethodSignature{
				Range: p.spanFrom(memberStart), Name: name, Optional: optional, Signature: sig,
			})
		} else {
			var ty ast.TypeExpr
			if p.at(ast.TColon) {
				p.advance()
				ty = p.parseType()
			}
			obj.Properties = append(obj.Properties, ast.PropertySignature{
				Range: p.spanFrom(memberStart), Name: name, Optional: optional, Type: ty,
			})
		}
		p.consumeMemberSeparator()
	}
	p.expect(ast.TCloseBrace)
	return obj
}

func (p *Parser) consumeMemberSeparator() {
	if p.at(ast.TSemicolon) || p.at(ast.TComma) {
		p.advance()
	}
}

func (p *Parser) parseIndexSignature(start logger.Range) ast.IndexSignature {
	p.advance() // '['
	keyName := p.propertyNameText()
	p.advance()
	p.expect(ast.TColon)
	keyType := p.parseType()
	p.expect(ast.TCloseBracket)
	p.expect(ast.TColon)
	valueType := p.parseType()
	return ast.IndexSignature{Range: p.spanFrom(start), KeyName: keyName, KeyType: keyType, ValueType: valueType}
}

func (p *Parser) propertyNameText() string {
	if p.tok.Value != nil {
		return p.tok.Value.UTF8
	}
	if p.tok.Kind == ast.TStringLiteral || p.tok.Kind == ast.TNumericLiteral {
		return p.tok.Value.UTF8
	}
	return p.tok.Kind.String()
}

// parseCallSignature parses "<T>(params): Return", shared by function
// types, methods, constructors, and call/construct signatures.
func (p *Parser) parseCallSignature() ast.CallSignature {
	var typeParams []ast.TypeParameter
	if p.at(ast.TLessThan) {
		typeParams = p.parseTypeParameterList()
	}
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.at(ast.TColon) {
		p.advance()
		ret = p.parseType()
	}
	return ast.CallSignature{TypeParams: typeParams, Params: params, ReturnType: ret}
}

func (p *Parser) parseTypeParameterList() []ast.TypeParameter {
	p.scanner.EnableGenericTypeScan()
	defer p.scanner.DisableGenericTypeScan()

	p.advance() // '<'
	var params []ast.TypeParameter
	for {
		name := p.typeNameText()
		p.advance()
		var constraint ast.TypeExpr
		if p.atContextual("extends") || p.at(ast.TExtends) {
			p.advance()
			constraint = p.parseType()
		}
		params = append(params, ast.TypeParameter{Name: name, Constraint: constraint})
		if p.at(ast.TComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(ast.TGreaterThan)
	return params
}

// parseParamList parses "(a: T, b?: U, ...rest: V[])" (spec.md §3
// ParamList/RestParameter), including constructor parameter-property
// modifiers (public/private/protected before a constructor parameter
// promotes it to a field, ambiguity rule 7 extended to parameters).
func (p *Parser) parseParamList() ast.ParamList {
	p.expect(ast.TOpenParen)
	p.openBracket(BracketParen)
	var list ast.ParamList
	for !p.at(ast.TCloseParen) && !p.at(ast.TEOF) {
		start := p.tok.Range
		access := ast.Public
		if p.at(ast.TPublic) {
			access = ast.Public
			p.advance()
		} else if p.at(ast.TPrivate) {
			access = ast.Private
			p.advance()
		} else if p.at(ast.TProtected) {
			access = ast.Protected
			p.advance()
		}

		if p.at(ast.TDotDotDot) {
			p.advance()
			target := p.parseBindingTarget()
			var ty ast.TypeExpr
			if p.at(ast.TColon) {
				p.advance()
				ty = p.parseType()
			}
			list.Rest = &ast.RestParameter{Range: p.spanFrom(start), Binding: target, Type: ty}
			break
		}

		target := p.parseBindingTarget()
		optional := false
		if p.at(ast.TQuestion) {
			optional = true
			p.advance()
		}
		var ty ast.TypeExpr
		if p.at(ast.TColon) {
			p.advance()
			ty = p.parseType()
		}
		var def *Expr
		if p.at(ast.TEquals) {
			p.advance()
			e := p.parseAssignExpr()
			def = &e
		}
		list.Params = append(list.Params, ast.Parameter{
			Range: p.spanFrom(start), Binding: target, Type: ty, Default: def,
			Optional: optional, AccessLevel: access,
		})

		if p.at(ast.TComma) {
			p.advance()
			continue
		}
		break
	}
	p.closeBracket(BracketParen)
	p.expect(ast.TCloseParen)
	return list
}
