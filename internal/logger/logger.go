// Package logger is the diagnostic reporter shared by the scanner, the
// parser, and the driver. It follows esbuild's logger design: a Log (a
// mutex-guarded message slice) collects messages as they are produced instead of
// returning an error slice from every call, so a single parse can surface
// many errors at once (spec.md §7: "every recorded error is printed").
package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Kind distinguishes the error taxonomy from spec.md §7. The scanner and
// parser emit Lexical, Syntax, Context and Overload. Fatal is defined but
// neither the scanner nor the parser emits it. Semantic is reserved for the
// (out of scope) later phases, matching the external wire format in
// spec.md §6.
type Kind uint8

const (
	Lexical Kind = iota
	Syntax
	Context
	Overload
	Fatal
	Semantic
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case Context:
		return "context error"
	case Overload:
		return "overload error"
	case Fatal:
		return "fatal error"
	case Semantic:
		return "semantic error"
	default:
		return "error"
	}
}

// Loc is a zero-based byte offset into a source file.
type Loc struct {
	Start int32
}

// Range is a half-open byte span, used both by tokens and AST nodes.
type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 { return r.Loc.Start + r.Len }

// MsgLocation is the wire format described in spec.md §6: offsets, the
// 1-based start/end line, free text, and an optional source line + caret.
type MsgLocation struct {
	File        string
	StartOffset int32
	EndOffset   int32
	StartLine   int
	EndLine     int
	LineText    string
	Column      int // 0-based column of StartOffset within LineText, in runes
}

type Msg struct {
	Kind     Kind
	Text     string
	Location *MsgLocation
}

// Log accumulates messages from many goroutines (one per driver job) and
// exposes a locked snapshot, mirroring evanw-esbuild/internal/logger.Log.
type Log struct {
	mu   sync.Mutex
	msgs []Msg
}

func NewLog() *Log { return &Log{} }

func (l *Log) AddMsg(msg Msg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *Log) AddError(loc *MsgLocation, kind Kind, text string) {
	l.AddMsg(Msg{Kind: kind, Text: text, Location: loc})
}

func (l *Log) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs) > 0
}

// Reset clears every recorded message, letting a Log be reused across
// repeated runs (the driver's --watch mode recompiles on the same Log
// instance rather than allocating a fresh one per rebuild).
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = nil
}

// Done returns all recorded messages sorted by file, then by start offset,
// matching evanw-esbuild's SortableMsgs ordering.
func (l *Log) Done() []Msg {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Msg, len(l.msgs))
	copy(out, l.msgs)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Location, out[j].Location
		if ai == nil || aj == nil {
			return aj != nil
		}
		if ai.File != aj.File {
			return ai.File < aj.File
		}
		return ai.StartOffset < aj.StartOffset
	})
	return out
}

// Reporter renders messages to a terminal, colorizing when the output is a
// TTY. Colorization uses lipgloss instead of hand-rolled ANSI escapes.
type Reporter struct {
	color bool
	errSt lipgloss.Style
	locSt lipgloss.Style
	caret lipgloss.Style
}

// NewReporter auto-detects color support from the given fd the way
// go-isatty is used across the pack's CLI tools.
func NewReporter(fd uintptr) *Reporter {
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &Reporter{
		color: color,
		errSt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		locSt: lipgloss.NewStyle().Bold(true),
		caret: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (r *Reporter) Render(msgs []Msg) string {
	var b strings.Builder
	for _, m := range msgs {
		kind := m.Kind.String()
		if r.color {
			kind = r.errSt.Render(kind)
		}
		if m.Location == nil {
			fmt.Fprintf(&b, "%s: %s\n", kind, m.Text)
			continue
		}
		loc := fmt.Sprintf("%s:%d:%d", m.Location.File, m.Location.StartLine, m.Location.Column+1)
		if r.color {
			loc = r.locSt.Render(loc)
		}
		fmt.Fprintf(&b, "%s: %s: %s\n", loc, kind, m.Text)
		if m.Location.LineText != "" {
			fmt.Fprintf(&b, "  %s\n", m.Location.LineText)
			caret := "  " + strings.Repeat(" ", m.Location.Column) + "^"
			if r.color {
				caret = r.caret.Render(caret)
			}
			fmt.Fprintf(&b, "%s\n", caret)
		}
	}
	return b.String()
}
