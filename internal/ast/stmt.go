package ast

import "github.com/brn/yatsc-sub000/internal/logger"

// Stmt wraps every statement variant, mirroring Expr's Loc+Data split.
type Stmt struct {
	Range logger.Range
	Data  S
}

func (s Stmt) Pos() logger.Range { return s.Range }

type S interface{ isStmt() }

func (*SBlock) isStmt()       {}
func (*SExpr) isStmt()        {}
func (*SEmpty) isStmt()       {}
func (*SVariable) isStmt()    {}
func (*SLexicalDecl) isStmt() {}
func (*SIf) isStmt()          {}
func (*SWhile) isStmt()       {}
func (*SDoWhile) isStmt()     {}
func (*SFor) isStmt()         {}
func (*SForIn) isStmt()       {}
func (*SForOf) isStmt()       {}
func (*SSwitch) isStmt()      {}
func (*STry) isStmt()         {}
func (*SThrow) isStmt()       {}
func (*SReturn) isStmt()      {}
func (*SContinue) isStmt()    {}
func (*SBreak) isStmt()       {}
func (*SLabelled) isStmt()    {}
func (*SWith) isStmt()        {}
func (*SDebugger) isStmt()    {}
func (*SFunction) isStmt()    {}
func (*SClass) isStmt()       {}
func (*SInterface) isStmt()   {}
func (*SEnum) isStmt()        {}
func (*SModule) isStmt()      {}
func (*SImport) isStmt()      {}
func (*SExport) isStmt()      {}

// Block is both a statement-list container and the function/class/module
// body type used throughout the tree (spec.md doesn't name it separately
// because every {...} body shares it).
type Block struct {
	Range logger.Range
	Body  []Stmt
	Scope *Scope // non-nil only when lexical declarations appear (spec.md §3 "Scope")
}

func (b Block) Pos() logger.Range { return b.Range }

type SBlock struct{ Block Block }

type SExpr struct{ Expr Expr }

type SEmpty struct{}

type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

type Declarator struct {
	Range   logger.Range
	Target  Binding
	Type    TypeExpr
	Init    *Expr
}

func (d Declarator) Pos() logger.Range { return d.Range }

// SVariable is a "var" declaration (function/global scoped).
type SVariable struct {
	Decls []Declarator
}

// SLexicalDecl is a "let"/"const" declaration (block scoped, ES6-only).
type SLexicalDecl struct {
	Kind  VarKind
	Decls []Declarator
}

type SIf struct {
	Test     Expr
	Then     Stmt
	Else     Stmt // nil if absent
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

// SFor is the C-style "for (init; test; update)"; Init may be nil, an
// SVariable/SLexicalDecl, or an expression statement.
type SFor struct {
	Init   Stmt
	Test   *Expr
	Update *Expr
	Body   Stmt
}

type SForIn struct {
	Decl   Stmt // SVariable/SLexicalDecl with exactly one declarator, or an expr target
	Object Expr
	Body   Stmt
}

// SForOf is ES6-only (spec.md ambiguity rule 10); Await is reserved for a
// future "for await" form and is always false in this core.
type SForOf struct {
	Decl  Stmt
	Iter  Expr
	Body  Stmt
	Await bool
}

type CaseClause struct {
	Range logger.Range
	Test  *Expr // nil for "default"
	Body  []Stmt
}

type SSwitch struct {
	Disc  Expr
	Cases []CaseClause
}

type CatchClause struct {
	Range   logger.Range
	Param   *Binding
	Type    TypeExpr
	Body    Block
}

type STry struct {
	Body    Block
	Catch   *CatchClause
	Finally *Block
}

type SThrow struct{ Arg Expr }

type SReturn struct{ Arg *Expr }

type SContinue struct{ Label string }

type SBreak struct{ Label string }

type SLabelled struct {
	Label string
	Body  Stmt
}

type SWith struct {
	Object Expr
	Body   Stmt
}

type SDebugger struct{}

// SFunction is a top-level/nested function declaration. The parser does not
// group function overloads: each body-less "function f(...);" is its own
// SFunction with IsAmbient set, and Overloads is always empty.
type SFunction struct {
	Name        string
	Signature   CallSignature
	Body        *Block
	Overloads   []FunctionOverload
	IsGenerator bool
	IsAmbient   bool
}

type SClass struct{ Class Class }

type SInterface struct{ Interface Interface }

type SEnum struct{ Enum Enum }

type SModule struct{ Module Module }

type SImport struct{ Import Import }

type SExport struct{ Export Export }

// FileScope is the parser's top-level result (spec.md §4.3 "parse()").
type FileScope struct {
	Range logger.Range
	Body  []Stmt
	Scope *Scope
}

func (f FileScope) Pos() logger.Range { return f.Range }
