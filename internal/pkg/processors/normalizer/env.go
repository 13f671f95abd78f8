package normalizer

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
)

// Env holds one value per bound variable, telescopes from the outermost.
// It mirrors the shape of the context the evaluated expression lives in.
type Env [][]Value

func (e Env) Push(values []Value) Env {
	r := make(Env, len(e), len(e)+1)
	copy(r, e)
	return append(r, values)
}

func (e Env) Lookup(idx ast.Idx) (Value, bool) {
	i := len(e) - 1 - idx.Fst
	if idx.Fst < 0 || i < 0 || idx.Snd < 0 || idx.Snd >= len(e[i]) {
		return nil, false
	}
	return e[i][idx.Snd], true
}

func (e Env) Shape() []int {
	shape := make([]int, len(e))
	for i, tel := range e {
		shape[i] = len(tel)
	}
	return shape
}

// EnvFromCtx binds every variable of ctx to itself.
func EnvFromCtx(ctx *syntax.Ctx) Env {
	vars := ctx.Vars(ast.Location{})
	env := make(Env, len(vars))
	for i, tel := range vars {
		values := make([]Value, len(tel))
		for j, v := range tel {
			values[j] = &NVariable{Name: v.(*syntax.Variable).Name, Lvl: Lvl{Fst: i, Snd: j}}
		}
		env[i] = values
	}
	return env
}

func fresh(depth int, params []*syntax.ParamInst) []Value {
	values := make([]Value, len(params))
	for j, p := range params {
		values[j] = &NVariable{Name: p.Name, Lvl: Lvl{Fst: depth, Snd: j}}
	}
	return values
}
