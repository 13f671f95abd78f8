package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
)

type Anno struct {
	ast.Location
	Type       Expression
	Exp        Expression
	Annotation Expression
}

func NewAnno(loc ast.Location, exp Expression, annotation Expression) *Anno {
	return &Anno{Location: loc, Exp: exp, Annotation: annotation}
}

func (*Anno) _expression() {}

func (e *Anno) String() string {
	return fmt.Sprintf("(%s : %s)", e.Exp, e.Annotation)
}

func (e *Anno) GetLocation() ast.Location {
	return e.Location
}

func (e *Anno) GetType() Expression {
	return e.Type
}

func (e *Anno) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
