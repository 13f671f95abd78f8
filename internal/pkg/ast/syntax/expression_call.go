package syntax

import "duo-compiler/internal/pkg/ast"

// Call introduces a value: a constructor, a codefinition or a let binding
// applied to its arguments.
type Call struct {
	ast.Location
	Type Expression
	Kind CallKind
	Name ast.Identifier
	Args []Expression
}

func NewCall(loc ast.Location, kind CallKind, name ast.Identifier, args ...Expression) *Call {
	return &Call{Location: loc, Kind: kind, Name: name, Args: args}
}

func (*Call) _expression() {}

func (e *Call) String() string {
	return string(e.Name) + codeArgs(e.Args)
}

func (e *Call) GetLocation() ast.Location {
	return e.Location
}

func (e *Call) GetType() Expression {
	return e.Type
}

func (e *Call) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
