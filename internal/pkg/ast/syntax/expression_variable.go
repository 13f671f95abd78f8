package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
)

type Variable struct {
	ast.Location
	Type Expression
	Name ast.Identifier
	Idx  ast.Idx
}

func NewVariable(loc ast.Location, name ast.Identifier, idx ast.Idx) *Variable {
	return &Variable{Location: loc, Name: name, Idx: idx}
}

func (*Variable) _expression() {}

func (e *Variable) String() string {
	if e.Name == "" {
		return fmt.Sprintf("@%s", e.Idx)
	}
	return string(e.Name)
}

func (e *Variable) GetLocation() ast.Location {
	return e.Location
}

func (e *Variable) GetType() Expression {
	return e.Type
}

func (e *Variable) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
