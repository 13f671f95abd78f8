package normalizer

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"fmt"
	"strings"
)

// Value is the result of evaluation. Values are either introductions
// (type constructors, calls, literals, closures) or neutral terms stuck on a
// variable, a hole or a declaration that may not be unfolded yet.
type Value interface {
	fmt.Stringer
	_value()
}

// Lvl addresses a bound variable from the outermost telescope, so values
// need no shifting when the context grows.
type Lvl struct {
	Fst int
	Snd int
}

func (l Lvl) String() string {
	return fmt.Sprintf("#%d.%d", l.Fst, l.Snd)
}

type VTypCtor struct {
	Name ast.Identifier
	Args []Value
}

func (*VTypCtor) _value() {}

func (v *VTypCtor) String() string {
	return string(v.Name) + codeValues(v.Args)
}

type VCall struct {
	Kind syntax.CallKind
	Name ast.Identifier
	Args []Value
}

func (*VCall) _value() {}

func (v *VCall) String() string {
	return string(v.Name) + codeValues(v.Args)
}

type VTypeUniv struct{}

func (*VTypeUniv) _value() {}

func (*VTypeUniv) String() string {
	return "Type"
}

type VLiteral struct {
	Value ast.ConstValue
}

func (*VLiteral) _value() {}

func (v *VLiteral) String() string {
	return v.Value.String()
}

// VLocalComatch is a closure: the cases are evaluated only when a destructor
// is applied.
type VLocalComatch struct {
	Label ast.Identifier
	Cases []*syntax.Case
	Env   Env
}

func (*VLocalComatch) _value() {}

func (v *VLocalComatch) String() string {
	return fmt.Sprintf("<comatch %s>", v.Label)
}

type NVariable struct {
	Name ast.Identifier
	Lvl  Lvl
}

func (*NVariable) _value() {}

func (v *NVariable) String() string {
	if v.Name == "" {
		return v.Lvl.String()
	}
	return string(v.Name)
}

// NDotCall is a destructor or definition that cannot fire: its receiver is
// neutral or the definition may not be unfolded yet.
type NDotCall struct {
	Kind syntax.DotCallKind
	Exp  Value
	Name ast.Identifier
	Args []Value
}

func (*NDotCall) _value() {}

func (v *NDotCall) String() string {
	return fmt.Sprintf("%s.%s%s", v.Exp, v.Name, codeValues(v.Args))
}

type NLocalMatch struct {
	Label ast.Identifier
	On    Value
	Cases []*syntax.Case
	Env   Env
}

func (*NLocalMatch) _value() {}

func (v *NLocalMatch) String() string {
	return fmt.Sprintf("%s.match %s", v.On, v.Label)
}

type NHole struct {
	Metavar ast.MetaID
	Args    [][]Value
}

func (*NHole) _value() {}

func (v *NHole) String() string {
	return v.Metavar.String()
}

func codeValues(vs []Value) string {
	if len(vs) == 0 {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString(")")
	return sb.String()
}
