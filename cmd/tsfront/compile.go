package main

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/brn/yatsc-sub000/internal/ast"
	"github.com/brn/yatsc-sub000/internal/driver"
	"github.com/brn/yatsc-sub000/internal/lexer"
	"github.com/brn/yatsc-sub000/internal/logger"
)

// compileFlags mirrors spec.md §6's CLI surface ("--target es3|es5|es6",
// "--module typescript|es6"). Validated with go-playground/validator's
// "oneof" tag instead of a hand-rolled switch, the same pattern
// jinterlante1206-AleutianLocal uses for its request DTOs.
type compileFlags struct {
	Target string `validate:"oneof=es3 es5 es6"`
	Module string `validate:"oneof=typescript es6"`
}

var flags compileFlags
var watchMode bool

var compileCmd = &cobra.Command{
	Use:   "compile [paths...]",
	Short: "Parse the given files (glob patterns accepted) and report syntax errors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&flags.Target, "target", "es6", "language mode: es3|es5|es6")
	compileCmd.Flags().StringVar(&flags.Module, "module", "es6", "module keyword mode: typescript|es6")
	compileCmd.Flags().BoolVar(&watchMode, "watch", false, "re-parse affected files on change")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if err := validator.New().Struct(&flags); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	paths, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files matched")
	}

	opts := driver.Options{
		Mode:            modeFromTarget(flags.Target),
		ModuleIsKeyword: flags.Module == "typescript",
	}
	log := logger.NewLog()
	d := driver.New(opts, log)

	if watchMode {
		return runWatch(d, paths, log)
	}

	units := d.Compile(paths)
	if report(units, log) {
		os.Exit(1)
	}
	return nil
}

// runWatch wires driver.Watcher to the same reporting path used for a
// one-shot compile, printing a fresh report after every debounced rebuild
// and blocking until the process is interrupted.
func runWatch(d *driver.Driver, paths []string, log *logger.Log) error {
	w, err := driver.NewWatcher(d, func(units []*ast.CompilationUnit) {
		report(units, log)
	}, 0)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	units, err := w.Watch(paths)
	if err != nil {
		return fmt.Errorf("initial watch compile: %w", err)
	}
	report(units, log)

	select {}
}

// expandGlobs resolves spec.md §6's positional "one or more input file
// paths" against doublestar so users can pass "src/**/*.ts" the way
// gnana997-uispec/pkg/scanner/discovery.go expands include patterns.
func expandGlobs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if !doublestar.ValidatePattern(a) {
			out = append(out, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", a, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(a); statErr == nil {
				out = append(out, a)
			}
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

func modeFromTarget(target string) lexer.LanguageMode {
	switch target {
	case "es3":
		return lexer.ES3
	case "es5":
		return lexer.ES5
	default:
		return lexer.ES6
	}
}

// report renders every accumulated diagnostic through logger.Reporter and
// returns whether any compilation unit or log message carried an error
// (spec.md §6: "exit code 0 on success, nonzero if any compilation unit
// carries an error"). The caller decides whether that should end the
// process — a one-shot compile exits, a --watch rebuild just reports and
// keeps watching.
func report(units []*ast.CompilationUnit, log *logger.Log) bool {
	reporter := logger.NewReporter(os.Stderr.Fd())
	msgs := log.Done()
	if len(msgs) > 0 {
		fmt.Fprint(os.Stderr, reporter.Render(msgs))
	}

	hadErr := len(msgs) > 0
	for _, u := range units {
		if u.HasError() {
			hadErr = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", u.Module.AbsolutePath, u.Err)
		}
	}
	if !hadErr {
		fmt.Fprintf(os.Stdout, "parsed %d file(s), no errors\n", len(units))
	}
	return hadErr
}
