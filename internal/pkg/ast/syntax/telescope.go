package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
	"strings"
)

// Param is a declared, typed binder. Its type may refer to the earlier
// params of the same telescope with Fst 0.
type Param struct {
	ast.Location
	Name ast.Identifier
	Type Expression
}

func (p *Param) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

type Telescope []*Param

func (t Telescope) String() string {
	if len(t) == 0 {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, p := range t {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (t Telescope) Names() []ast.Identifier {
	names := make([]ast.Identifier, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

// Instantiate turns the telescope into pattern parameters carrying the
// declared types.
func (t Telescope) Instantiate(loc ast.Location) []*ParamInst {
	params := make([]*ParamInst, len(t))
	for i, p := range t {
		params[i] = &ParamInst{Location: loc, Name: p.Name, Type: p.Type}
	}
	return params
}

// ParamInst is a binder introduced by a pattern. Type is nil until checked.
type ParamInst struct {
	ast.Location
	Name ast.Identifier
	Type Expression
}

// SelfParam is the receiver of a destructor or definition: `(self: T(args))`.
// Its type lives in the context of the declaration's params.
type SelfParam struct {
	ast.Location
	Name ast.Identifier
	Type *TypCtor
}

func (s SelfParam) String() string {
	if s.Name == "" {
		return s.Type.String()
	}
	return fmt.Sprintf("(%s: %s)", s.Name, s.Type)
}

// Vars returns variables referring to every param of the telescope as seen
// from fst telescopes further in.
func Vars(loc ast.Location, names []ast.Identifier, fst int) []Expression {
	vars := make([]Expression, len(names))
	for i, n := range names {
		vars[i] = NewVariable(loc, n, ast.Idx{Fst: fst, Snd: i})
	}
	return vars
}

func ParamInstNames(params []*ParamInst) []ast.Identifier {
	names := make([]ast.Identifier, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
