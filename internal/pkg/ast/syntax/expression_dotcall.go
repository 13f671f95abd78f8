package syntax

import "duo-compiler/internal/pkg/ast"

// DotCall eliminates Exp with a destructor or a definition: `e.name(args)`.
type DotCall struct {
	ast.Location
	Type Expression
	Kind DotCallKind
	Exp  Expression
	Name ast.Identifier
	Args []Expression
}

func NewDotCall(loc ast.Location, kind DotCallKind, exp Expression, name ast.Identifier, args ...Expression) *DotCall {
	return &DotCall{Location: loc, Kind: kind, Exp: exp, Name: name, Args: args}
}

func (*DotCall) _expression() {}

func (e *DotCall) String() string {
	return e.Exp.String() + "." + string(e.Name) + codeArgs(e.Args)
}

func (e *DotCall) GetLocation() ast.Location {
	return e.Location
}

func (e *DotCall) GetType() Expression {
	return e.Type
}

func (e *DotCall) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
