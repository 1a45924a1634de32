package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
	"github.com/brn/yatsc-sub000/internal/parser"
)

// Options configures a Driver run, threaded down to every per-file Parser
// (spec.md §6's --target/--module CLI surface).
type Options struct {
	Mode            lexer.LanguageMode
	ModuleIsKeyword bool

	// Workers overrides the pool size; zero means runtime.NumCPU() (spec.md
	// §4.4 "a fixed-size worker pool sized from CPU count").
	Workers int
}

// Driver is spec.md §4.4's compilation driver: it schedules a parse job per
// file, resolving reference-path directives and relative import/require
// specifiers into follow-up jobs, until the pending-job counter drains.
type Driver struct {
	opts Options
	log  *logger.Log

	q *queue

	mu        sync.Mutex
	results   []*ast.CompilationUnit
	scheduled map[string]bool
}

// New constructs a Driver that reports diagnostics onto log.
func New(opts Options, log *logger.Log) *Driver {
	return &Driver{
		opts:      opts,
		log:       log,
		q:         newQueue(),
		scheduled: make(map[string]bool),
	}
}

// Compile runs every entry path to completion (spec.md §4.4/§5) and returns
// the accumulated compilation units. Order is unspecified (spec.md §5 "no
// order guarantee across compilation units").
func (d *Driver) Compile(entryPaths []string) []*ast.CompilationUnit {
	workers := d.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	// Reset per-run state so a Driver can be reused across recompiles
	// (the Watcher in watch.go calls Compile repeatedly on file changes).
	d.mu.Lock()
	d.results = nil
	d.scheduled = make(map[string]bool)
	d.mu.Unlock()
	d.q = newQueue()
	d.log.Reset()

	for _, p := range entryPaths {
		d.scheduleJob(p)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			d.runWorker()
		}()
	}
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.results
}

// Shutdown requests that idle workers stop picking up new jobs (spec.md §5
// cancellation: "workers check it between jobs; in-progress jobs run to
// completion").
func (d *Driver) Shutdown() { d.q.shutdown() }

func (d *Driver) runWorker() {
	for {
		j, ok := d.q.pop()
		if !ok {
			return
		}
		d.runJob(j)
	}
}

// scheduleJob dedups by resolved absolute path (spec.md §4.4 step 3
// "idempotent — deduplicate by resolved path") and enqueues a new job.
func (d *Driver) scheduleJob(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d.mu.Lock()
	if d.scheduled[abs] {
		d.mu.Unlock()
		return
	}
	d.scheduled[abs] = true
	d.mu.Unlock()

	d.q.push(job{id: uuid.NewString(), path: abs})
}

func (d *Driver) addResult(u *ast.CompilationUnit) {
	d.mu.Lock()
	d.results = append(d.results, u)
	d.mu.Unlock()
}

// runJob is spec.md §4.4's per-job algorithm, steps 1-6 (step 6's counter
// decrement is queue.release(), called last so followup jobs are already
// pending before this one is marked done).
func (d *Driver) runJob(j job) {
	defer d.q.release()

	source, err := readSource(j.path)
	if err != nil {
		d.addResult(ast.FailedUnit(j.path, err))
		return
	}

	isDecl := strings.HasSuffix(j.path, ".d.ts")
	p := parser.New(j.path, source, d.log, parser.Options{
		Mode:              d.opts.Mode,
		ModuleIsKeyword:   d.opts.ModuleIsKeyword,
		IsDeclarationFile: isDecl,
	})

	dir := filepath.Dir(j.path)
	var referenced []string
	onFound := func(rel string) {
		if !isRelativeModule(rel) {
			return
		}
		resolved := resolveModulePath(dir, rel)
		referenced = append(referenced, resolved)
		d.scheduleJob(resolved)
	}
	p.SetReferencePathCallback(onFound)
	p.SetModuleFoundCallback(onFound)

	root := p.Parse()

	d.addResult(&ast.CompilationUnit{
		Module: &ast.ModuleInfo{
			AbsolutePath:      j.path,
			IsDeclarationFile: isDecl,
			Pool:              p.Pool(),
		},
		Root:            root,
		ReferencedPaths: referenced,
	})
}

// isRelativeModule matches spec.md §4.4 step 4: only "./..." and "../..."
// specifiers are inter-file edges the driver schedules; bare specifiers
// ("fs", "lodash") resolve to packages outside this core's scope.
func isRelativeModule(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveModulePath resolves a relative reference-path or import specifier
// against the directory of the file that named it, appending ".ts" when
// the specifier has no extension (the TypeScript 1.x module-resolution
// convention this core's compilation driver follows).
func resolveModulePath(fromDir, spec string) string {
	joined := filepath.Join(fromDir, filepath.FromSlash(spec))
	if filepath.Ext(joined) == "" {
		return joined + ".ts"
	}
	return joined
}

// readSource is spec.md §4.4 step 1: "open and memory-map (or buffer) the
// file as UTF-8 bytes". Grounded on
// _examples/gnana997-uispec/pkg/util/filecache.go's loadFile: mmap first,
// falling back to a plain read when mmap itself fails (e.g. the file lives
// on a filesystem that doesn't support it). An empty file is returned as a
// nil buffer without being mapped or read (mmap rejects zero-length
// mappings).
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, fmt.Errorf("mmap failed (%v) and fallback read failed: %w", err, rerr)
		}
		return data, nil
	}
	return []byte(m), nil
}
