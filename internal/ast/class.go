package ast

import "github.com/brn/yatsc-sub000/internal/logger"

// AccessLevel is spec.md's ClassFieldAccessLevel; a member with no explicit
// keyword is Public (ambiguity rule 7).
type AccessLevel uint8

const (
	Public AccessLevel = iota
	Private
	Protected
)

// FieldModifiers collapses spec.md's ClassFieldModifiers/
// ClassFieldAccessLevel pair onto one struct (ambiguity rule 7: "static"
// and an access keyword, each at most once, in any order).
type FieldModifiers struct {
	Access AccessLevel
	Static bool
}

type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberField
	MemberIndexSignature
	MemberConstructor
)

// ClassMember collapses spec.md's MemberFunction/MemberFunctionOverload/
// MemberFunctionOverloads/MemberVariable/IndexSignature cluster. Overloads
// is non-empty only for a method/constructor that had preceding
// signature-only declarations (ambiguity rule 8); Body is nil for an
// ambient member (ambiguity rule 9).
type ClassMember struct {
	Range      logger.Range
	Kind       MemberKind
	Name       string
	Modifiers  FieldModifiers
	Signature  CallSignature // methods/constructors/getters/setters
	Overloads  []FunctionOverload
	Body       *Block
	IsGenerator bool

	// MemberField
	Type    TypeExpr
	Default *Expr

	// MemberIndexSignature
	Index *IndexSignature

	// IsAmbient marks a member with no body, declared inside a `declare
	// class` (spec.md's AmbientMemberFunction/AmbientMemberVariable).
	IsAmbient bool
}

// HeritageClause collapses ClassBases/ClassHeritage/ClassImpls: the
// optional "extends" and zero-or-more "implements" entries.
type HeritageClause struct {
	Extends    *TypeExpr
	Implements []TypeExpr
}

type Class struct {
	Range      logger.Range
	Name       string
	TypeParams []TypeParameter
	Heritage   HeritageClause
	Members    []ClassMember
	IsAmbient  bool // spec.md's AmbientClass
	IsAbstract bool
}

// Interface is an interface declaration; Extends is its heritage list
// (GLOSSARY "InterfaceExtends").
type Interface struct {
	Range      logger.Range
	Name       string
	TypeParams []TypeParameter
	Extends    []TypeExpr
	Body       TObject
}

type EnumField struct {
	Range logger.Range
	Name  string
	Value *Expr
}

// Enum collapses EnumBody into a field slice; IsAmbient marks
// AmbientEnum/AmbientEnumBody/AmbientEnumField (ambient enum members never
// carry initializers, which the parser enforces rather than the type).
type Enum struct {
	Range     logger.Range
	Name      string
	IsConst   bool
	Fields    []EnumField
	IsAmbient bool
}

// ---- Modules / imports / exports --------------------------------------

// Module collapses Module/ModuleDecl/AmbientModule/AmbientModuleBody: an
// internal ("namespace") module when Name has no quotes, an ambient
// external module declaration when it does.
type Module struct {
	Range     logger.Range
	Name      string
	IsExternal bool // `declare module "foo" { ... }`
	IsAmbient bool
	Body      []Stmt
}

// ExternalModuleReference is "require(\"path\")" used on the right side of
// an import-equals declaration.
type ExternalModuleReference struct {
	Path string
}

// Import collapses Import/ImportList/NamedImport/NamedImportList and the
// ES6 "module X from \"...\"" shorthand (spec.md §9 open question: prefer
// the ES6 reading when both are grammatically valid and the mode is ES6).
type Import struct {
	Range logger.Range

	// import x = require("path")  — IsEquals
	IsEquals    bool
	EqualsName  string
	ModuleRef   *ExternalModuleReference
	InternalRef string // import x = Foo.Bar

	// import Default, { a, b as c } from "path"
	Default       string
	NamedImports  []NamedImport
	NamespaceName string // import * as NS from "path"
	FromPath      string

	// module x from "path"  (ES6 shorthand, contextual "module")
	IsModuleFromShorthand bool
}

type NamedImport struct {
	Name  string
	Alias string // empty if no "as"
}

// Export collapses Export/NamedExport/NamedExportList/FromClause.
type Export struct {
	Range logger.Range

	IsDefault  bool
	Decl       Stmt // non-nil for "export <decl>" / "export default <decl>"
	Named      []NamedExport
	FromPath   string // non-empty for "export { a } from \"path\""
	IsEquals   bool   // "export = expr" (TS1.x external module export form)
	EqualsExpr *Expr
}

type NamedExport struct {
	Name  string
	Alias string
}

// ---- Ambient declarations ----------------------------------------------

// AmbientFunction/AmbientVariable/AmbientClass/AmbientEnum collapse onto
// the ordinary Function/Variable/Class/Enum statement nodes with an
// IsAmbient flag, since a declaration file's shape differs only in that
// every body is omitted (ambiguity rule 9) — the parser enforces the
// "no body" constraint, so a separate Go type would only duplicate fields.
// AmbientConstructor is represented as a ClassMember with Kind
// MemberConstructor and IsAmbient set.
