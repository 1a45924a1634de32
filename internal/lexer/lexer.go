// Package lexer is the scanner from spec.md §4.2: it turns the scalar
// stream from internal/runeio into a token stream, handling the three
// context switches the parser forces on it (regexp vs division, generic
// `<...>` vs less-than, and labelled-statement colon lookahead is left to
// the parser since it only needs one token of lookahead).
//
// Grounded on evanw-esbuild/internal/js_lexer/js_lexer.go (overall Next()
// shape, longest-match punctuator scanning, string/template decoding) and
// on _examples/original_source/src/parser/scanner.h /
// scanner-inl.h (the generic-type-scan nesting counter and the
// reference-path callback, which esbuild has no equivalent of since it
// doesn't support triple-slash directives).
package lexer

import (
	"strconv"
	"strings"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/logger"
	"github.com/brn/yatsc-sub000/internal/runeio"
)

// ReferencePathCallback is invoked once per recognized
// `///<reference path="..."/>` comment (spec.md §4.2, §6).
type ReferencePathCallback func(path string)

// State is a scanner snapshot used by the parser's memoization/backtracking
// machinery (spec.md §4.3 "parser_state()"); replaying from a restored
// State reproduces the same token stream.
type State struct {
	pos          runeio.Position
	genericDepth int
}

type Scanner struct {
	adapter *runeio.Adapter
	pool    *ast.Pool
	log     *logger.Log
	file    string
	mode    LanguageMode
	source  []byte

	genericDepth int
	onReference  ReferencePathCallback

	// pendingComment is the most recent multi-line comment text, attached
	// to the next produced token for doc-comment purposes (spec.md §4.2).
	pendingComment string
}

func New(file string, source []byte, pool *ast.Pool, log *logger.Log, mode LanguageMode) *Scanner {
	s := &Scanner{
		adapter: runeio.New(source),
		pool:    pool,
		log:     log,
		file:    file,
		mode:    mode,
		source:  source,
	}
	s.skipSignature()
	return s
}

// skipSignature resolves the open question in spec.md §9: after the BOM
// (already stripped by runeio.New), skip a leading "#!" shebang line up to
// (not including) the first line terminator.
func (s *Scanner) skipSignature() {
	if r, _ := s.adapter.Peek(); r != '#' || s.adapter.PeekAt(1) != '!' {
		return
	}
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF || runeio.IsLineBreak(r) {
			return
		}
		s.adapter.Advance()
	}
}

func (s *Scanner) SetReferencePathCallback(cb ReferencePathCallback) { s.onReference = cb }

// EnableGenericTypeScan / DisableGenericTypeScan must be called in balanced
// pairs (spec.md §4.2); nested calls compose so independent type-argument
// lists inside one another both suppress ">>"-style merging.
func (s *Scanner) EnableGenericTypeScan()  { s.genericDepth++ }
func (s *Scanner) DisableGenericTypeScan() {
	if s.genericDepth > 0 {
		s.genericDepth--
	}
}

func (s *Scanner) Mode() LanguageMode { return s.mode }

// Save captures scanner state for later Restore (spec.md §4.3).
func (s *Scanner) Save() State {
	return State{pos: s.adapter.Position(), genericDepth: s.genericDepth}
}

func (s *Scanner) Restore(st State) {
	s.adapter.Restore(st.pos)
	s.genericDepth = st.genericDepth
}

func (s *Scanner) rng(start runeio.Position) logger.Range {
	end := s.adapter.Position()
	return logger.Range{Loc: logger.Loc{Start: int32(start.Offset)}, Len: int32(end.Offset - start.Offset)}
}

func (s *Scanner) errorAt(pos runeio.Position, kind logger.Kind, text string) {
	s.log.AddError(&logger.MsgLocation{
		File: s.file, StartOffset: int32(pos.Offset), StartLine: pos.Line, EndLine: pos.Line,
		LineText: s.lineTextAt(pos), Column: pos.Column,
	}, kind, text)
}

func (s *Scanner) lineTextAt(pos runeio.Position) string {
	start := pos.Offset - pos.Column
	if start < 0 {
		start = 0
	}
	end := start
	for end < len(s.source) && s.source[end] != '\n' && s.source[end] != '\r' {
		end++
	}
	if start > end || start > len(s.source) {
		return ""
	}
	if end > len(s.source) {
		end = len(s.source)
	}
	return string(s.source[start:end])
}

// skipTrivia advances past whitespace, line breaks, and comments. When
// fireSideEffects is true it fires the reference-path callback and records
// doc comments for attachment; callers use a side-effect-free pass purely
// to compute a token's trailing trivia flags without double-firing.
func (s *Scanner) skipTrivia(fireSideEffects bool) (sawLineBreak bool) {
	for {
		r, _ := s.adapter.Peek()
		switch {
		case r == runeio.EOF:
			return
		case runeio.IsLineBreak(r):
			sawLineBreak = true
			s.adapter.Advance()
		case runeio.IsWhitespace(r):
			s.adapter.Advance()
		case r == '/' && s.adapter.PeekAt(1) == '/':
			s.scanLineComment(fireSideEffects)
		case r == '/' && s.adapter.PeekAt(1) == '*':
			if s.scanBlockComment(fireSideEffects) {
				sawLineBreak = true
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanLineComment(fireSideEffects bool) {
	s.adapter.Advance() // '/'
	s.adapter.Advance() // '/'
	isTripleSlash := false
	if r, _ := s.adapter.Peek(); r == '/' {
		isTripleSlash = true
		s.adapter.Advance()
	}
	textStart := s.adapter.Position()
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF || runeio.IsLineBreak(r) {
			break
		}
		s.adapter.Advance()
	}
	if !fireSideEffects || !isTripleSlash || s.onReference == nil {
		return
	}
	text := string(s.source[textStart.Offset:s.adapter.Position().Offset])
	if path, ok := parseReferencePathDirective(text); ok {
		s.onReference(path)
	}
}

// parseReferencePathDirective recognizes `<reference path="..."/>`,
// whitespace-insensitive around tokens (spec.md §6).
func parseReferencePathDirective(text string) (string, bool) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "<reference") {
		return "", false
	}
	i := strings.Index(t, "path")
	if i < 0 {
		return "", false
	}
	rest := t[i+len("path"):]
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "=") {
		return "", false
	}
	rest = strings.TrimSpace(rest[1:])
	if len(rest) < 2 {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}

// scanBlockComment returns true if the comment spanned a line break.
func (s *Scanner) scanBlockComment(fireSideEffects bool) bool {
	start := s.adapter.Position()
	s.adapter.Advance() // '/'
	s.adapter.Advance() // '*'
	spannedLine := false
	for {
		r, _ := s.adapter.Peek()
		if r == runeio.EOF {
			s.errorAt(start, logger.Lexical, "unterminated comment")
			break
		}
		if runeio.IsLineBreak(r) {
			spannedLine = true
		}
		if r == '*' && s.adapter.PeekAt(1) == '/' {
			s.adapter.Advance()
			s.adapter.Advance()
			break
		}
		s.adapter.Advance()
	}
	if fireSideEffects {
		s.pendingComment = string(s.source[start.Offset:s.adapter.Position().Offset])
	}
	return spannedLine
}

// Next scans and returns the next token, with its trailing-trivia flags
// already computed (spec.md §4.2 "scan()").
func (s *Scanner) Next() ast.Token {
	s.skipTrivia(true)

	start := s.adapter.Position()
	r, _ := s.adapter.Peek()

	var tok ast.Token
	switch {
	case r == runeio.EOF:
		tok = ast.Token{Kind: ast.TEOF}
	case runeio.IsDigit(r), r == '.' && runeio.IsDigit(s.adapter.PeekAt(1)):
		tok = s.scanNumber()
	case r == '"' || r == '\'':
		tok = s.scanString(byte(r))
	case r == '`':
		tok = s.scanTemplate()
	case runeio.IsIdentifierStart(r) || r == '\\':
		tok = s.scanIdentifier()
	case r == '#':
		tok = s.scanPrivateIdentifier()
	default:
		tok = s.scanPunctuator()
	}
	tok.Range = s.rng(start)
	tok.StartLine, tok.EndLine = start.Line, s.adapter.Position().Line
	if tok.Kind != ast.TEOF {
		tok.PrecedingComment = s.pendingComment
	}
	s.pendingComment = ""

	// Compute trailing trivia flags without consuming them yet.
	snap := s.adapter.Position()
	sawBreak := s.skipTrivia(false)
	nextR, _ := s.adapter.Peek()
	s.adapter.Restore(snap)

	tok.LineBreakBeforeNext = sawBreak
	tok.LineTerminatorBeforeNext = sawBreak
	tok.SemicolonBeforeNext = nextR == ';'
	return tok
}

func (s *Scanner) scanIdentifier() ast.Token {
	var sb strings.Builder
	for {
		r, _ := s.adapter.Peek()
		if r == '\\' && s.adapter.PeekAt(1) == 'u' {
			decoded, ok := s.scanUnicodeEscape()
			if !ok {
				break
			}
			sb.WriteRune(decoded)
			continue
		}
		if sb.Len() == 0 {
			if !runeio.IsIdentifierStart(r) {
				break
			}
		} else if !runeio.IsIdentifierPart(r) {
			break
		}
		sb.WriteRune(r)
		s.adapter.Advance()
	}
	text := sb.String()
	kind, isKeyword := lookupKeyword(text, s.mode)
	if !isKeyword {
		kind = ast.TIdentifier
	}
	return ast.Token{Kind: kind, Value: s.pool.Intern(text)}
}

// scanUnicodeEscape consumes "\uXXXX" or "\u{X...}" and returns the
// decoded scalar.
func (s *Scanner) scanUnicodeEscape() (rune, bool) {
	start := s.adapter.Position()
	s.adapter.Advance() // backslash
	s.adapter.Advance() // u
	var hex strings.Builder
	if r, _ := s.adapter.Peek(); r == '{' {
		s.adapter.Advance()
		for {
			r2, _ := s.adapter.Peek()
			if r2 == '}' {
				s.adapter.Advance()
				break
			}
			if !runeio.IsHexDigit(r2) {
				s.errorAt(start, logger.Lexical, "invalid unicode escape sequence")
				return 0, false
			}
			hex.WriteRune(r2)
			s.adapter.Advance()
		}
	} else {
		for i := 0; i < 4; i++ {
			r2, _ := s.adapter.Peek()
			if !runeio.IsHexDigit(r2) {
				s.errorAt(start, logger.Lexical, "invalid unicode escape sequence")
				return 0, false
			}
			hex.WriteRune(r2)
			s.adapter.Advance()
		}
	}
	v, err := strconv.ParseInt(hex.String(), 16, 32)
	if err != nil || v > 0x10FFFF {
		s.errorAt(start, logger.Lexical, "invalid unicode escape sequence")
		return 0, false
	}
	return rune(v), true
}

func (s *Scanner) scanPrivateIdentifier() ast.Token {
	s.adapter.Advance() // '#'
	id := s.scanIdentifier()
	text := "#" + id.Value.UTF8
	return ast.Token{Kind: ast.TPrivateIdentifier, Value: s.pool.Intern(text)}
}
