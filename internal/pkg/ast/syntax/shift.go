package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/common"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Shift adds delta to the Fst of every variable bound at or beyond cutoff.
func Shift(e Expression, cutoff, delta int) Expression {
	if delta == 0 || e == nil {
		return e
	}
	return Rewrite(e, 0, func(x Expression, depth int) Expression {
		if v, ok := x.(*Variable); ok && v.Idx.Fst >= cutoff+depth {
			c := *v
			c.Idx.Fst += delta
			return &c
		}
		return x
	})
}

func ShiftAll(es []Expression, cutoff, delta int) []Expression {
	result := make([]Expression, len(es))
	for i, e := range es {
		result[i] = Shift(e, cutoff, delta)
	}
	return result
}

// Instantiate replaces the len(args) innermost telescopes of e by args,
// given from the outermost telescope. Variables bound further out move in
// by len(args).
func Instantiate(e Expression, args [][]Expression) Expression {
	n := len(args)
	if n == 0 || e == nil {
		return e
	}
	return Rewrite(e, 0, func(x Expression, depth int) Expression {
		v, ok := x.(*Variable)
		if !ok {
			return x
		}
		j := v.Idx.Fst - depth
		if j < 0 {
			return x
		}
		if j < n {
			tel := args[n-1-j]
			if v.Idx.Snd >= len(tel) {
				panic(common.NewImpossibleError(v.Location, "variable %s has no argument to instantiate it with", v.Idx))
			}
			return Shift(tel[v.Idx.Snd], 0, depth)
		}
		c := *v
		c.Idx.Fst -= n
		return &c
	})
}

// Substitution maps variables of a context to expressions living in the
// same context. It is kept idempotent: no replacement mentions a key.
type Substitution map[ast.Idx]Expression

// Apply substitutes s in e. Hole arguments are left alone: they name the
// context a solution abstracts over, not terms to be refined.
func (s Substitution) Apply(e Expression) Expression {
	if len(s) == 0 || e == nil {
		return e
	}
	return RewriteKeepingHoleArgs(e, 0, func(x Expression, depth int) Expression {
		v, ok := x.(*Variable)
		if !ok || v.Idx.Fst < depth {
			return x
		}
		if r, ok := s[ast.Idx{Fst: v.Idx.Fst - depth, Snd: v.Idx.Snd}]; ok {
			return Shift(r, 0, depth)
		}
		return x
	})
}

func (s Substitution) ApplyAll(es []Expression) []Expression {
	result := make([]Expression, len(es))
	for i, e := range es {
		result[i] = s.Apply(e)
	}
	return result
}

// Extend returns s composed with idx := e. e must not mention idx.
func (s Substitution) Extend(idx ast.Idx, e Expression) Substitution {
	e = s.Apply(e)
	if v, ok := e.(*Variable); ok && v.Idx == idx {
		return s
	}
	single := Substitution{idx: e}
	result := make(Substitution, len(s)+1)
	for k, v := range s {
		result[k] = single.Apply(v)
	}
	result[idx] = e
	return result
}

// Shift moves the substitution under delta new telescopes.
func (s Substitution) Shift(delta int) Substitution {
	if len(s) == 0 {
		return s
	}
	result := make(Substitution, len(s))
	for k, v := range s {
		result[ast.Idx{Fst: k.Fst + delta, Snd: k.Snd}] = Shift(v, 0, delta)
	}
	return result
}

// Keys returns the substituted variables, outermost first.
func (s Substitution) Keys() []ast.Idx {
	keys := maps.Keys(s)
	slices.SortFunc(keys, func(a, b ast.Idx) int {
		if a.Fst != b.Fst {
			return b.Fst - a.Fst
		}
		return a.Snd - b.Snd
	})
	return keys
}
