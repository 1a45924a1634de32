package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogOrdersByFileThenOffset(t *testing.T) {
	log := NewLog()
	log.AddError(&MsgLocation{File: "b.ts", StartOffset: 5, StartLine: 1}, Syntax, "second")
	log.AddError(&MsgLocation{File: "a.ts", StartOffset: 10, StartLine: 2}, Syntax, "third")
	log.AddError(&MsgLocation{File: "a.ts", StartOffset: 1, StartLine: 1}, Syntax, "first")

	msgs := log.Done()
	assert.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "third", msgs[1].Text)
	assert.Equal(t, "second", msgs[2].Text)
}

func TestLogResetClearsMessages(t *testing.T) {
	log := NewLog()
	log.AddError(nil, Fatal, "boom")
	assert.True(t, log.HasErrors())
	log.Reset()
	assert.False(t, log.HasErrors())
	assert.Empty(t, log.Done())
}

func TestHasErrors(t *testing.T) {
	log := NewLog()
	assert.False(t, log.HasErrors())
	log.AddError(nil, Fatal, "boom")
	assert.True(t, log.HasErrors())
}

func TestReporterRendersCaret(t *testing.T) {
	r := NewReporter(^uintptr(0))
	out := r.Render([]Msg{{
		Kind: Syntax,
		Text: "expected ';'",
		Location: &MsgLocation{
			File: "x.ts", StartLine: 1, Column: 3, LineText: "let x",
		},
	}})
	assert.Contains(t, out, "expected ';'")
	assert.Contains(t, out, "let x")
}
