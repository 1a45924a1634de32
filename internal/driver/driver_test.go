package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileSingleFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "a.ts", "let x: number = 1;")

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{entry})

	require.Len(t, units, 1)
	assert.False(t, units[0].HasError())
	assert.False(t, log.HasErrors())
	assert.NotNil(t, units[0].Root)
}

func TestCompileFollowsReferencePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ts", "export var y = 2;")
	entry := writeFile(t, dir, "a.ts", "/// <reference path=\"./b.ts\" />\nlet x = 1;")

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{entry})

	require.Len(t, units, 2)
	paths := map[string]bool{}
	for _, u := range units {
		paths[filepath.Base(u.Module.AbsolutePath)] = true
	}
	assert.True(t, paths["a.ts"])
	assert.True(t, paths["b.ts"])
}

func TestCompileFollowsRequireImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.ts", "export var z = 3;")
	entry := writeFile(t, dir, "main.ts", `import util = require("./util");`)

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{entry})

	require.Len(t, units, 2)
}

func TestCompileDedupesSharedReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.ts", "export var s = 1;")
	a := writeFile(t, dir, "a.ts", "/// <reference path=\"./shared.ts\" />\nvar x = 1;")
	b := writeFile(t, dir, "b.ts", "/// <reference path=\"./shared.ts\" />\nvar y = 2;")

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{a, b})

	require.Len(t, units, 3)
}

func TestCompileMissingFileProducesFailedUnit(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{filepath.Join(dir, "missing.ts")})

	require.Len(t, units, 1)
	assert.True(t, units[0].HasError())
}

func TestCompileDeclarationFileExtensionSetsFlag(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "types.d.ts", "declare var g: number;")

	log := logger.NewLog()
	d := New(Options{Mode: lexer.ES6}, log)
	units := d.Compile([]string{entry})

	require.Len(t, units, 1)
	assert.True(t, units[0].Module.IsDeclarationFile)
}

func TestQueueReleaseDrainsWorkers(t *testing.T) {
	q := newQueue()
	q.push(job{id: "1", path: "a"})
	j, ok := q.pop()
	assert.True(t, ok)
	assert.Equal(t, "a", j.path)
	q.release()

	done := make(chan struct{})
	go func() {
		_, ok := q.pop()
		assert.False(t, ok)
		close(done)
	}()
	<-done
}
