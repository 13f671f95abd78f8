package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
	"strings"
)

// Pattern is the left-hand side of a case: `C(x, y)` for a constructor or
// `.d(x, y)` for a destructor.
type Pattern struct {
	ast.Location
	IsCopattern bool
	Name        ast.Identifier
	Params      []*ParamInst
}

func (p Pattern) String() string {
	sb := strings.Builder{}
	if p.IsCopattern {
		sb.WriteString(".")
	}
	sb.WriteString(string(p.Name))
	if len(p.Params) > 0 {
		sb.WriteString("(")
		for i, x := range p.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(string(x.Name))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Case binds one telescope, the pattern parameters, around Body.
// A nil Body marks an absurd case.
type Case struct {
	ast.Location
	Pattern Pattern
	Body    Expression
}

func (c *Case) IsAbsurd() bool {
	return c.Body == nil
}

func (c *Case) String() string {
	if c.Body == nil {
		return c.Pattern.String() + " absurd"
	}
	return fmt.Sprintf("%s => %s", c.Pattern, c.Body)
}

func codeCases(cases []*Case) string {
	sb := strings.Builder{}
	sb.WriteString("{ ")
	for i, c := range cases {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

type LocalMatch struct {
	ast.Location
	Type  Expression
	Label ast.Identifier
	OnExp Expression
	Cases []*Case
}

func NewLocalMatch(loc ast.Location, label ast.Identifier, onExp Expression, cases ...*Case) *LocalMatch {
	return &LocalMatch{Location: loc, Label: label, OnExp: onExp, Cases: cases}
}

func (*LocalMatch) _expression() {}

func (e *LocalMatch) String() string {
	label := ""
	if e.Label != "" {
		label = " " + string(e.Label)
	}
	return fmt.Sprintf("%s.match%s %s", e.OnExp, label, codeCases(e.Cases))
}

func (e *LocalMatch) GetLocation() ast.Location {
	return e.Location
}

func (e *LocalMatch) GetType() Expression {
	return e.Type
}

func (e *LocalMatch) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}

type LocalComatch struct {
	ast.Location
	Type  Expression
	Label ast.Identifier
	Cases []*Case
}

func NewLocalComatch(loc ast.Location, label ast.Identifier, cases ...*Case) *LocalComatch {
	return &LocalComatch{Location: loc, Label: label, Cases: cases}
}

func (*LocalComatch) _expression() {}

func (e *LocalComatch) String() string {
	label := ""
	if e.Label != "" {
		label = " " + string(e.Label)
	}
	return fmt.Sprintf("comatch%s %s", label, codeCases(e.Cases))
}

func (e *LocalComatch) GetLocation() ast.Location {
	return e.Location
}

func (e *LocalComatch) GetType() Expression {
	return e.Type
}

func (e *LocalComatch) WithType(t Expression) Expression {
	c := *e
	c.Type = t
	return &c
}
