package ast

import "github.com/brn/yatsc-sub000/internal/logger"

// Binding is a destructuring/identifier binding target, used by
// variable declarators, parameters, and catch clauses. It mirrors
// spec.md's BindingArray/BindingPropList/BindingElement cluster, collapsed
// onto one discriminated struct (see DESIGN.md) instead of three Go types,
// since all three only ever appear as a Binding's Kind-selected payload.
type Binding struct {
	Range logger.Range
	Kind  BindingKind

	// BindingIdentifier
	Name *Literal

	// BindingArray
	Elements []BindingElement

	// BindingPropList (object pattern)
	Properties []BindingPropElement
}

type BindingKind uint8

const (
	BindingIdentifier BindingKind = iota
	BindingArray
	BindingObject
)

// BindingElement is one slot of an array destructuring pattern; Omitted is
// true for elisions ("[, , x]").
type BindingElement struct {
	Range    logger.Range
	Target   Binding
	Default  *Expr
	Omitted  bool
	IsRest   bool
}

// BindingPropElement is one slot of an object destructuring pattern.
type BindingPropElement struct {
	Range     logger.Range
	KeyName   string
	Computed  bool
	KeyExpr   *Expr // set when Computed
	Target    Binding
	Default   *Expr
	IsRest    bool
	Shorthand bool
}
