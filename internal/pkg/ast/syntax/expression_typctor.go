package syntax

import "duo-compiler/internal/pkg/ast"

// TypCtor is a fully applied data or codata type, e.g. `Vec(n)`.
type TypCtor struct {
	ast.Location
	Type Expression
	Name ast.Identifier
	Args []Expression
}

func NewTypCtor(loc ast.Location, name ast.Identifier, args ...Expression) *TypCtor {
	return &TypCtor{Location: loc, Name: name, Args: args}
}

func (*TypCtor) _expression() {}

func (e *TypCtor) String() string {
	return string(e.Name) + codeArgs(e.Args)
}

func (e *TypCtor) GetLocation() ast.Location {
	return e.Location
}

func (e *TypCtor) GetType() Expression {
	return e.Type
}

func (e *TypCtor) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
