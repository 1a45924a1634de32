package runeio

import "unicode/utf8"

// Position is a snapshot of the adapter's cursor: byte offset plus the
// 1-based line and 0-based column it corresponds to (spec.md §3 "Source
// position").
type Position struct {
	Offset int
	Line   int
	Column int
}

// Adapter walks a UTF-8 byte buffer one Unicode scalar at a time. It is the
// capability esbuild's lexer inlines (codePointAt/step over a string) and
// that original_source factors out as UnicodeIteratorAdapter; here it is a
// standalone type so the scanner can be polymorphic over any byte source
// (file-backed or in-memory) per the "no copying" requirement in spec.md §9.
type Adapter struct {
	src    []byte
	offset int
	line   int
	column int

	// sawInvalid records the most recent decode failure so the scanner can
	// surface a single diagnostic per bad sequence instead of looping.
	sawInvalid bool
}

// New constructs an adapter over src, skipping a single leading BOM per
// spec.md §6 and the SkipSignature resolution in spec.md §9.
func New(src []byte) *Adapter {
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		src = src[3:]
	}
	return &Adapter{src: src, line: 1, column: 0}
}

func (a *Adapter) Position() Position {
	return Position{Offset: a.offset, Line: a.line, Column: a.column}
}

// Restore rewinds the adapter to a previously captured position. Because
// Position carries line/column, no re-scanning from the start is needed.
func (a *Adapter) Restore(p Position) {
	a.offset, a.line, a.column = p.Offset, p.Line, p.Column
	a.sawInvalid = false
}

func (a *Adapter) AtEnd() bool { return a.offset >= len(a.src) }

// Peek returns the scalar at the cursor (or EOF) without consuming it,
// along with the number of bytes it occupies.
func (a *Adapter) Peek() (rune, int) {
	if a.AtEnd() {
		return EOF, 0
	}
	r, size := utf8.DecodeRune(a.src[a.offset:])
	if r == utf8.RuneError && size <= 1 {
		a.sawInvalid = true
		return Invalid, 1
	}
	if isSurrogateHalf(r) || r > 0x10FFFF {
		a.sawInvalid = true
		return Invalid, size
	}
	return r, size
}

// PeekAt looks ahead n scalars without consuming any of them. It is used by
// the scanner for multi-character lookahead (e.g. "///" reference-path
// comments, "=>" vs "=").
func (a *Adapter) PeekAt(n int) rune {
	snap := a.Position()
	defer a.Restore(snap)
	var r rune = EOF
	for i := 0; i <= n; i++ {
		r, _ = a.Peek()
		if r == EOF {
			return EOF
		}
		a.Advance()
	}
	return r
}

// PeekString returns the next n scalars as a string without consuming them.
func (a *Adapter) PeekString(n int) string {
	snap := a.Position()
	defer a.Restore(snap)
	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		r, _ := a.Peek()
		if r == EOF {
			break
		}
		out = append(out, r)
		a.Advance()
	}
	return string(out)
}

// Advance consumes and returns the current scalar, updating line/column.
func (a *Adapter) Advance() rune {
	r, size := a.Peek()
	if r == EOF {
		return EOF
	}
	if r == carriageReturn {
		// CRLF counts as a single line break (spec.md §4.1).
		if a.offset+size < len(a.src) && a.src[a.offset+size] == '\n' {
			size++
		}
		a.line++
		a.column = 0
	} else if IsLineBreak(r) {
		a.line++
		a.column = 0
	} else {
		a.column++
	}
	a.offset += size
	return r
}

// HadInvalidScalar reports (and clears) whether the last Peek/Advance
// touched an undecodable or out-of-range byte sequence.
func (a *Adapter) HadInvalidScalar() bool {
	v := a.sawInvalid
	a.sawInvalid = false
	return v
}

func isSurrogateHalf(r rune) bool { return r >= 0xD800 && r <= 0xDFFF }
