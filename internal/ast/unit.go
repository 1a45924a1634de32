package ast

// ModuleInfo is spec.md §3's module-info record.
type ModuleInfo struct {
	// AbsolutePath is the resolved file path used as the module's identity.
	AbsolutePath string

	// IsDeclarationFile is true for a ".d.ts" input (spec.md §4.3 "parse()"
	// dispatches on this).
	IsDeclarationFile bool

	Pool *Pool
}

// CompilationUnit is spec.md §3's {root AST, module info, literal pool} or
// {module info, error message} sum, collapsed onto one struct with an Err
// field instead of a Go sum type — a driver result is always eventually
// inspected for Err first, so the extra nil check costs nothing and avoids
// forcing every caller through a type switch.
type CompilationUnit struct {
	Module *ModuleInfo
	Root   *FileScope
	Err    error

	// ReferencedPaths are every relative path this unit pulled in via
	// "<reference path>" or a relative import/require, in source order
	// (spec.md §4.4 steps 3-4). The driver uses this to schedule follow-up
	// jobs and, in watch mode, to know which units depend on which files.
	ReferencedPaths []string
}

func (u *CompilationUnit) HasError() bool { return u.Err != nil }

// FailedUnit is a convenience constructor used by the driver when a source
// file can't even be opened (spec.md §4.4 step 1).
func FailedUnit(path string, err error) *CompilationUnit {
	return &CompilationUnit{
		Module: &ModuleInfo{AbsolutePath: path},
		Err:    err,
	}
}
