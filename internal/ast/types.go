package ast

import "github.com/brn/yatsc-sub000/internal/logger"

// TypeExpr wraps every type-annotation variant (spec.md: SimpleTypeExpr,
// GenericTypeExpr, ArrayTypeExpr, UnionTypeExpr, FunctionTypeExpr,
// TypeQuery, ObjectTypeExpr and its Property/MethodSignature members).
type TypeExpr struct {
	Range logger.Range
	Data  T
}

func (t TypeExpr) Pos() logger.Range { return t.Range }

type T interface{ isType() }

func (*TSimple) isType()   {}
func (*TGeneric) isType()  {}
func (*TArray) isType()    {}
func (*TUnion) isType()    {}
func (*TFunction) isType() {}
func (*TQuery) isType()    {}
func (*TObject) isType()   {}
func (*TTuple) isType()    {}

// TSimple is a bare named type reference such as "number" or "Foo".
type TSimple struct {
	Name string
}

// TGeneric is "Name<Args...>" (the hardest case for the scanner's
// generic-type-scan mode, spec.md §4.2).
type TGeneric struct {
	Name string
	Args []TypeExpr
}

// TArray is "T[]".
type TArray struct {
	Element TypeExpr
}

// TTuple is "[T, U, ...]".
type TTuple struct {
	Elements []TypeExpr
}

// TUnion is "A | B | ...".
type TUnion struct {
	Members []TypeExpr
}

// TFunction is a function-type literal: "(a: T, ...r: U[]) => R".
type TFunction struct {
	Signature CallSignature
}

// TQuery is "typeof expr".
type TQuery struct {
	Expr Expr
}

type PropertySignature struct {
	Range    logger.Range
	Name     string
	Optional bool
	Type     TypeExpr
}

type MethodSignature struct {
	Range     logger.Range
	Name      string
	Optional  bool
	Signature CallSignature
}

// IndexSignature is "[key: string]: T".
type IndexSignature struct {
	Range     logger.Range
	KeyName   string
	KeyType   TypeExpr // "string" or "number"
	ValueType TypeExpr
}

// TObject is an inline object-type literal; Interface bodies reuse the same
// shape (spec.md's ObjectTypeExpr is shared by interfaces).
type TObject struct {
	Properties []PropertySignature
	Methods    []MethodSignature
	Indexers   []IndexSignature
	Calls      []CallSignature
}
