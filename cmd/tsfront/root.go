// Command tsfront is the CLI surface spec.md §6 describes for the core:
// one or more input file paths (glob patterns included), --target and
// --module flags, and a process exit code that reflects whether any
// compilation unit carries an error.
//
// Grounded on _examples/CWBudde-go-dws/cmd/dwscript/cmd's cobra root/
// subcommand split and _examples/jinterlante1206-AleutianLocal's use of
// go-playground/validator for flag/struct validation instead of hand
// rolled switch statements.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tsfront",
	Short: "Scan, parse, and report syntax errors for TypeScript 1.x sources",
	Long: `tsfront is the scanner/parser front end for a TypeScript 1.x compiler.

It turns one or more .ts/.d.ts source files into an annotated syntax tree,
following triple-slash <reference path> directives and relative
import/require specifiers, and reports syntax errors with source
positions.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
