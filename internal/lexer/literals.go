package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
	"github.com/brn/yatsc-sub000/internal/runeio"
)

// scanNumber implements spec.md §4.2's number grammar: decimal, fractional,
// exponent, hex (0x/0X), octal (0\d+, ES3 only), binary (0b/0B, ES6 only),
// 0o/0O, plus the malformed-number diagnostics ("1.3e+", "1.3ee",
// "1349.07.5").
func (s *Scanner) scanNumber() ast.Token {
	start := s.adapter.Position()
	var sb strings.Builder

	readDigits := func(isDigit func(rune) bool) {
		for {
			r, _ := s.adapter.Peek()
			if !isDigit(r) {
				break
			}
			sb.WriteRune(r)
			s.adapter.Advance()
		}
	}

	r, _ := s.adapter.Peek()
	if r == '0' {
		sb.WriteRune(r)
		s.adapter.Advance()
		next, _ := s.adapter.Peek()
		switch next {
		case 'x', 'X':
			sb.WriteRune(next)
			s.adapter.Advance()
			readDigits(runeio.IsHexDigit)
			return s.finishIntegerLiteral(start, sb.String(), 16, 2)
		case 'b', 'B':
			if s.mode != ES6 {
				s.errorAt(start, logger.Lexical, "binary literals require ES6")
			}
			sb.WriteRune(next)
			s.adapter.Advance()
			readDigits(func(r rune) bool { return r == '0' || r == '1' })
			return s.finishIntegerLiteral(start, sb.String(), 2, 2)
		case 'o', 'O':
			sb.WriteRune(next)
			s.adapter.Advance()
			readDigits(func(r rune) bool { return r >= '0' && r <= '7' })
			return s.finishIntegerLiteral(start, sb.String(), 8, 2)
		}
		if runeio.IsDigit(next) {
			if s.mode != ES3 {
				s.errorAt(start, logger.Lexical, "octal literals require ES3 mode")
			}
			readDigits(func(r rune) bool { return r >= '0' && r <= '7' })
			return s.finishIntegerLiteral(start, sb.String(), 8, 1)
		}
	} else {
		readDigits(runeio.IsDigit)
	}

	isFloat := false
	if r, _ := s.adapter.Peek(); r == '.' {
		isFloat = true
		sb.WriteRune('.')
		s.adapter.Advance()
		readDigits(runeio.IsDigit)
		// "1349.07.5" — a second decimal point is malformed.
		if r2, _ := s.adapter.Peek(); r2 == '.' {
			sb.WriteRune('.')
			s.adapter.Advance()
			readDigits(runeio.IsDigit)
			s.errorAt(start, logger.Lexical, "invalid number: more than one decimal point")
			return s.illegalToken(start)
		}
	}

	if r, _ := s.adapter.Peek(); r == 'e' || r == 'E' {
		isFloat = true
		expStart := s.adapter.Position()
		sb.WriteRune(r)
		s.adapter.Advance()
		if r2, _ := s.adapter.Peek(); r2 == '+' || r2 == '-' {
			sb.WriteRune(r2)
			s.adapter.Advance()
		}
		digitsBefore := sb.Len()
		readDigits(runeio.IsDigit)
		if sb.Len() == digitsBefore {
			// "1.3e+" with no exponent digits.
			s.errorAt(expStart, logger.Lexical, "invalid number: missing exponent digits")
			return s.illegalToken(start)
		}
		// "1.3e5e" — another 'e' right after the exponent digits is
		// malformed. ("1.3ee" is caught above: no exponent digits.)
		if r3, _ := s.adapter.Peek(); r3 == 'e' || r3 == 'E' {
			s.adapter.Advance()
			s.errorAt(start, logger.Lexical, "invalid number: malformed exponent")
			return s.illegalToken(start)
		}
	}

	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		s.errorAt(start, logger.Lexical, "invalid number")
		return s.illegalToken(start)
	}
	_ = isFloat
	return ast.Token{Kind: ast.TNumericLiteral, Value: &ast.Literal{UTF8: sb.String()}, NumericValue: v}
}

func (s *Scanner) finishIntegerLiteral(start runeio.Position, raw string, base int, prefixLen int) ast.Token {
	digits := raw[prefixLen:]
	if digits == "" {
		s.errorAt(start, logger.Lexical, "invalid number: missing digits")
		return s.illegalToken(start)
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		s.errorAt(start, logger.Lexical, "invalid number")
		return s.illegalToken(start)
	}
	return ast.Token{Kind: ast.TNumericLiteral, Value: &ast.Literal{UTF8: raw}, NumericValue: float64(v)}
}

func (s *Scanner) illegalToken(start runeio.Position) ast.Token {
	_ = start
	return ast.Token{Kind: ast.TIllegal}
}

// scanString implements single/double quoted strings with escapes
// (spec.md §4.2): \n \r \t \' \" \\ \b \f \v \0, \xHH, \uHHHH, \u{H...}.
func (s *Scanner) scanString(quote byte) ast.Token {
	start := s.adapter.Position()
	s.adapter.Advance() // opening quote
	var runes []rune
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF || runeio.IsLineBreak(r) {
			s.errorAt(start, logger.Lexical, "unterminated string literal")
			break
		}
		if r == rune(quote) {
			s.adapter.Advance()
			break
		}
		if r == '\\' {
			s.adapter.Advance()
			esc, ok := s.scanEscapeSequence()
			if ok {
				runes = append(runes, esc)
			}
			continue
		}
		runes = append(runes, r)
		s.adapter.Advance()
	}
	text := string(runes)
	return ast.Token{Kind: ast.TStringLiteral, Value: &ast.Literal{UTF8: text, UTF16: utf16.Encode(runes)}}
}

func (s *Scanner) scanEscapeSequence() (rune, bool) {
	r, _ := s.adapter.Peek()
	switch r {
	case 'n':
		s.adapter.Advance()
		return '\n', true
	case 'r':
		s.adapter.Advance()
		return '\r', true
	case 't':
		s.adapter.Advance()
		return '\t', true
	case 'b':
		s.adapter.Advance()
		return '\b', true
	case 'f':
		s.adapter.Advance()
		return '\f', true
	case 'v':
		s.adapter.Advance()
		return '\v', true
	case '0':
		s.adapter.Advance()
		return 0, true
	case '\'', '"', '\\':
		s.adapter.Advance()
		return r, true
	case 'x':
		start := s.adapter.Position()
		s.adapter.Advance()
		var hex strings.Builder
		for i := 0; i < 2; i++ {
			d, _ := s.adapter.Peek()
			if !runeio.IsHexDigit(d) {
				s.errorAt(start, logger.Lexical, "invalid hex escape sequence")
				return 0, false
			}
			hex.WriteRune(d)
			s.adapter.Advance()
		}
		v, _ := strconv.ParseInt(hex.String(), 16, 32)
		return rune(v), true
	case 'u':
		return s.scanUnicodeEscape()
	default:
		if runeio.IsLineBreak(r) {
			s.adapter.Advance()
			return 0, false // line continuation: contributes no character
		}
		s.adapter.Advance()
		return r, true
	}
}

// scanTemplate scans a backtick template literal. With no substitutions it
// returns TNoSubstitutionTemplate carrying the full raw text; otherwise it
// returns TTemplateHead ending at the first "${" (spec.md §4.2).
func (s *Scanner) scanTemplate() ast.Token {
	start := s.adapter.Position()
	s.adapter.Advance() // opening backtick
	return s.scanTemplatePart(start, ast.TNoSubstitutionTemplate, ast.TTemplateHead)
}

// ContinueTemplate resumes scanning a template's literal text. The caller
// (the parser) has already consumed the substitution's closing '}' as an
// ordinary TCloseBrace token via Next(), so the scanner is already
// positioned just past it; this only scans the run of template text up to
// the next "${" or the closing backtick.
func (s *Scanner) ContinueTemplate() ast.Token {
	start := s.adapter.Position()
	return s.scanTemplatePart(start, ast.TTemplateTail, ast.TTemplateMiddle)
}

func (s *Scanner) scanTemplatePart(start runeio.Position, endKind, midKind ast.Kind) ast.Token {
	var runes []rune
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF {
			s.errorAt(start, logger.Lexical, "unterminated template literal")
			break
		}
		if r == '`' {
			s.adapter.Advance()
			return ast.Token{Kind: endKind, Value: &ast.Literal{UTF8: string(runes), UTF16: utf16.Encode(runes)}}
		}
		if r == '$' && s.adapter.PeekAt(1) == '{' {
			s.adapter.Advance()
			s.adapter.Advance()
			return ast.Token{Kind: midKind, Value: &ast.Literal{UTF8: string(runes), UTF16: utf16.Encode(runes)}}
		}
		if r == '\\' {
			s.adapter.Advance()
			if esc, ok := s.scanEscapeSequence(); ok {
				runes = append(runes, esc)
			}
			continue
		}
		runes = append(runes, r)
		s.adapter.Advance()
	}
	return ast.Token{Kind: endKind, Value: &ast.Literal{UTF8: string(runes), UTF16: utf16.Encode(runes)}}
}

// CheckRegularExpression is called by the parser at positions where a
// regexp literal is grammatically possible (spec.md §4.2, ambiguity rule
// 5). If candidate isn't "/" or "/=" it is returned unchanged.
func (s *Scanner) CheckRegularExpression(candidate ast.Token) ast.Token {
	if candidate.Kind != ast.TSlash && candidate.Kind != ast.TSlashEquals {
		return candidate
	}
	start := runeio.Position{Offset: int(candidate.Range.Loc.Start), Line: candidate.StartLine}
	s.adapter.Restore(start)
	begin := s.adapter.Position()
	s.adapter.Advance() // '/'
	inClass := false
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF || runeio.IsLineBreak(r) {
			s.errorAt(begin, logger.Lexical, "unterminated regular expression literal")
			break
		}
		if r == '\\' {
			s.adapter.Advance()
			s.adapter.Advance()
			continue
		}
		if r == '[' {
			inClass = true
		} else if r == ']' {
			inClass = false
		} else if r == '/' && !inClass {
			s.adapter.Advance()
			break
		}
		s.adapter.Advance()
	}
	patternEnd := s.adapter.Position()
	for {
		r, _ := s.adapter.Peek()
		if r == 'g' || r == 'i' || r == 'm' {
			s.adapter.Advance()
			continue
		}
		break
	}
	raw := string(s.source[begin.Offset:s.adapter.Position().Offset])
	pattern := string(s.source[begin.Offset+1 : patternEnd.Offset-1])
	flags := string(s.source[patternEnd.Offset:s.adapter.Position().Offset])
	tok := ast.Token{Kind: ast.TRegExpLiteral, Value: &ast.Literal{UTF8: raw}, RegexPattern: pattern, RegexFlags: flags}
	tok.Range = s.rng(begin)
	return tok
}
