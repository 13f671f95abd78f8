package syntax

import "duo-compiler/internal/pkg/ast"

// TypeUniv is the universe `Type`. The theory is type-in-type.
type TypeUniv struct {
	ast.Location
	Type Expression
}

func NewTypeUniv(loc ast.Location) *TypeUniv {
	return &TypeUniv{Location: loc}
}

func (*TypeUniv) _expression() {}

func (e *TypeUniv) String() string {
	return "Type"
}

func (e *TypeUniv) GetLocation() ast.Location {
	return e.Location
}

func (e *TypeUniv) GetType() Expression {
	return e.Type
}

func (e *TypeUniv) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}

type Literal struct {
	ast.Location
	Type  Expression
	Value ast.ConstValue
}

func NewLiteral(loc ast.Location, value ast.ConstValue) *Literal {
	return &Literal{Location: loc, Value: value}
}

func (*Literal) _expression() {}

func (e *Literal) String() string {
	return e.Value.String()
}

func (e *Literal) GetLocation() ast.Location {
	return e.Location
}

func (e *Literal) GetType() Expression {
	return e.Type
}

func (e *Literal) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
