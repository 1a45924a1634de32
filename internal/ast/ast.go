package ast

import "github.com/brn/yatsc-sub000/internal/logger"

// Node is implemented by every AST variant so generic tree walkers (used
// by the driver's reference resolution and by tests) can fetch a
// variant's source position without a type switch on every call site.
type Node interface {
	Pos() logger.Range
}

type base struct{ Range logger.Range }

func (b base) Pos() logger.Range { return b.Range }

// ---- Expressions -----------------------------------------------------

// Expr wraps every expression variant behind one stable type, mirroring
// evanw-esbuild's Expr{Loc, Data E} split (internal/js_ast/js_ast.go).
type Expr struct {
	Range logger.Range
	Data  E
}

func (e Expr) Pos() logger.Range { return e.Range }

// E is the expression marker interface. Concrete types below correspond to
// spec.md §3's expression variants (Name, Number, String, True/False/
// Null/Undefined/NaN, RegExpr, TemplateLiteral, Array/ObjectLiteral,
// Binary/Unary/Postfix/Ternary, Assignment, Call/New/GetProp/GetElem/
// Super/This, ArrowFunction, Function, Class, Comprehension/Yield).
type E interface{ isExpr() }

func (*EName) isExpr()             {}
func (*ENumber) isExpr()           {}
func (*EString) isExpr()           {}
func (*EBoolean) isExpr()          {}
func (*ENull) isExpr()             {}
func (*EUndefined) isExpr()        {}
func (*ENaN) isExpr()              {}
func (*ERegExpr) isExpr()          {}
func (*ETemplateLiteral) isExpr()  {}
func (*EArrayLiteral) isExpr()     {}
func (*EObjectLiteral) isExpr()    {}
func (*EBinary) isExpr()           {}
func (*EUnary) isExpr()            {}
func (*EPostfix) isExpr()          {}
func (*ETernary) isExpr()          {}
func (*EAssignment) isExpr()       {}
func (*ECall) isExpr()             {}
func (*ENew) isExpr()              {}
func (*EGetProp) isExpr()          {}
func (*EGetElem) isExpr()          {}
func (*ESuper) isExpr()            {}
func (*EThis) isExpr()             {}
func (*EArrowFunction) isExpr()    {}
func (*EFunctionExpr) isExpr()     {}
func (*EClassExpr) isExpr()        {}
func (*ESpread) isExpr()           {}
func (*EYield) isExpr()            {}
func (*EComprehension) isExpr()    {}
func (*ETypeAssertion) isExpr()    {} // "<T>expr"
func (*EAssignmentPattern) isExpr() {}

// EName is spec.md's "Name" variant: a bare identifier reference.
type EName struct {
	Value *Literal
}

type ENumber struct{ Value float64 }

type EString struct{ Value *Literal }

type EBoolean struct{ Value bool }

type ENull struct{}
type EUndefined struct{}
type ENaN struct{}
type ESuper struct{}
type EThis struct{}

// ERegExpr carries the raw source text (pattern + flags) since regexp
// semantics are a downstream concern.
type ERegExpr struct{ Pattern, Flags string }

// ETemplateLiteral holds a template literal's literal runs; Exprs[i] is the
// substitution that follows Strings[i] (spec.md: head/middle/tail markers
// stitched by the parser into one node).
type ETemplateLiteral struct {
	Strings []string
	Exprs   []Expr
}

type EArrayLiteral struct {
	Elements []Expr // nil entries are elisions
	// HasArrayLiteralView mirrors spec.md's "has_array_literal_view" flag:
	// true while this node is still eligible to be reinterpreted as a
	// binding array during assignment-pattern disambiguation (rule 2).
	HasArrayLiteralView bool
}

type ObjectProperty struct {
	Key      Expr
	Value    Expr
	Computed bool
	Shorthand bool
}

type EObjectLiteral struct {
	Properties []ObjectProperty
	// HasObjectLiteralView mirrors spec.md's "has_object_literal_view" flag.
	HasObjectLiteralView bool
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinShl
	BinShr
	BinUShr
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	BinEqEq
	BinNotEq
	BinEqEqEq
	BinNotEqEq
	BinBitAnd
	BinBitOr
	BinBitXor
	BinLogicalAnd
	BinLogicalOr
	BinIn
	BinInstanceOf
	BinComma
)

type EBinary struct {
	Op          BinaryOp
	Left, Right Expr
}

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryBitNot
	UnaryTypeOf
	UnaryVoid
	UnaryDelete
	UnaryPreIncrement
	UnaryPreDecrement
)

type EUnary struct {
	Op  UnaryOp
	Arg Expr
}

type PostfixOp uint8

const (
	PostfixIncrement PostfixOp = iota
	PostfixDecrement
)

type EPostfix struct {
	Op  PostfixOp
	Arg Expr
}

type ETernary struct {
	Test, Yes, No Expr
}

type AssignOp uint8

const (
	AssignEq AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignPow
	AssignShl
	AssignShr
	AssignUShr
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignLogicalAnd
	AssignLogicalOr
)

// EAssignment covers both ordinary assignment and (when Target.Data is an
// *EAssignmentPattern produced by ambiguity-resolution rule 2) destructuring
// assignment.
type EAssignment struct {
	Op            AssignOp
	Target, Value Expr
	// IsValidLHS mirrors spec.md's "is_valid_lhs" flag, set once the parser
	// has confirmed Target is assignable.
	IsValidLHS bool
}

// EAssignmentPattern is the reparsed form of an EArrayLiteral/EObjectLiteral
// once ambiguity rule 2 determines the left side is a destructuring target.
type EAssignmentPattern struct {
	IsArray    bool
	Elements   []BindingElement // used when IsArray
	Properties []BindingPropElement
}

type Arg struct {
	Value   Expr
	Spread  bool
}

type ECall struct {
	Callee        Expr
	Args          []Arg
	TypeArguments []TypeExpr
	OptionalChain bool
}

type ENew struct {
	Callee        Expr
	Args          []Arg
	TypeArguments []TypeExpr
}

type EGetProp struct {
	Target Expr
	Name   string
}

type EGetElem struct {
	Target, Index Expr
}

type ESpread struct{ Arg Expr }

// EYield is spec.md's Yield expression/statement form; Delegate is true for
// "yield*".
type EYield struct {
	Arg      *Expr
	Delegate bool
}

// EComprehension is retained from the original design notes as a hook for
// array-comprehension-shaped constructs; TypeScript 1.x parses only the
// for-of statement form, so this variant is unused by the parser today and
// exists solely so downstream consumers pattern-matching on E get an
// exhaustive switch. See DESIGN.md.
type EComprehension struct {
	For  []ComprehensionFor
	Ifs  []Expr
	Body Expr
}

type ComprehensionFor struct {
	Binding Binding
	Iter    Expr
}

// ETypeAssertion is the ES3/TS "<T>expr" cast form (ambiguity rule 3 only
// applies when it's a call; the bare cast form is this node).
type ETypeAssertion struct {
	Type TypeExpr
	Expr Expr
}

// ---- Functions ---------------------------------------------------------

type Parameter struct {
	Range       logger.Range
	Binding     Binding
	Type        TypeExpr
	Default     *Expr
	Optional    bool
	AccessLevel AccessLevel // non-None for constructor parameter properties
}

type RestParameter struct {
	Range   logger.Range
	Binding Binding
	Type    TypeExpr
}

type ParamList struct {
	Params []Parameter
	Rest   *RestParameter
}

type TypeParameter struct {
	Name       string
	Constraint TypeExpr // nil if absent
}

// CallSignature is the shared shape of function declarations, methods,
// constructors, and arrow functions (GLOSSARY "Call signature").
type CallSignature struct {
	TypeParams []TypeParameter
	Params     ParamList
	ReturnType TypeExpr // nil if absent/void
}

// FunctionOverload is one signature-only entry in an overload set
// (ambiguity rule 8). It has no body; the body belongs to the
// implementation member whose Overloads slice holds these entries.
type FunctionOverload struct {
	Range       logger.Range
	Signature   CallSignature
	IsGenerator bool
	Modifiers   FieldModifiers
}

type EArrowFunction struct {
	Signature CallSignature
	Body      *Block
	// ExprBody is set instead of Body for the concise "(x) => x" form.
	ExprBody *Expr
}

type EFunctionExpr struct {
	Name       string // empty for anonymous function expressions
	Signature  CallSignature
	Body       *Block
	IsGenerator bool
}

type EClassExpr struct {
	Class *Class
}
