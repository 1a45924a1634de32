package driver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
)

func TestWatcherRecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "a.ts", "let x = 1;")

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)

	results := make(chan []*ast.CompilationUnit, 4)
	w, err := NewWatcher(d, func(units []*ast.CompilationUnit) {
		results <- units
	}, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	initial, err := w.Watch([]string{entry})
	require.NoError(t, err)
	require.Len(t, initial, 1)

	require.NoError(t, os.WriteFile(entry, []byte("let x = 2;"), 0o644))

	select {
	case units := <-results:
		require.Len(t, units, 1)
		assert.Equal(t, filepath.Base(entry), filepath.Base(units[0].Module.AbsolutePath))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watcher to recompile after file change")
	}
}
