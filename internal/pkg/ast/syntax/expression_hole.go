package syntax

import "duo-compiler/internal/pkg/ast"

// Hole is a metavariable placeholder. Args are the variables of the context
// the hole was created in, one slice per telescope from the outermost, so a
// solution can be abstracted over them.
type Hole struct {
	ast.Location
	Type    Expression
	Metavar ast.MetaID
	Args    [][]Expression
}

func NewHole(loc ast.Location) *Hole {
	return &Hole{Location: loc}
}

func (*Hole) _expression() {}

func (e *Hole) String() string {
	if e.Metavar == ast.NoMeta {
		return "_"
	}
	return e.Metavar.String()
}

func (e *Hole) GetLocation() ast.Location {
	return e.Location
}

func (e *Hole) GetType() Expression {
	return e.Type
}

func (e *Hole) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
