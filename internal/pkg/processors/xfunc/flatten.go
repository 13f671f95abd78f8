package xfunc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
)

// flattener moves expressions from a context of several telescopes into a
// context holding all of its variables in a single telescope.
type flattener struct {
	shape   []int
	offsets []int
}

func newFlattener(shape []int) flattener {
	offsets := make([]int, len(shape))
	n := 0
	for i, s := range shape {
		offsets[i] = n
		n += s
	}
	return flattener{shape: shape, offsets: offsets}
}

// flatten rewrites e found under extra telescopes of its own.
func (f flattener) flatten(e syntax.Expression, under int) syntax.Expression {
	k := len(f.shape)
	return syntax.Rewrite(e, under, func(x syntax.Expression, depth int) syntax.Expression {
		v, ok := x.(*syntax.Variable)
		if !ok || v.Idx.Fst < depth {
			return x
		}
		i := k - 1 - (v.Idx.Fst - depth)
		if i < 0 {
			return x
		}
		c := *v
		c.Idx = ast.Idx{Fst: depth, Snd: f.offsets[i] + v.Idx.Snd}
		return &c
	})
}

// prefix returns the flattener for the type of the binder at telescope i,
// position j.
func (f flattener) prefix(i, j int) flattener {
	shape := append(append([]int(nil), f.shape[:i]...), j)
	return newFlattener(shape)
}

// params returns the flat telescope of every binder of ctx.
func flatParams(loc ast.Location, ctx *syntax.Ctx) syntax.Telescope {
	f := newFlattener(ctx.Shape())
	var params syntax.Telescope
	for i, tel := range ctx.Telescopes() {
		for j, b := range tel {
			params = append(params, &syntax.Param{
				Location: loc,
				Name:     b.Name,
				Type:     f.prefix(i, j).flatten(b.Type, 0),
			})
		}
	}
	return params
}

// flatArgs returns every variable of ctx, outermost first.
func flatArgs(loc ast.Location, ctx *syntax.Ctx) []syntax.Expression {
	var args []syntax.Expression
	for _, tel := range ctx.Vars(loc) {
		args = append(args, tel...)
	}
	return args
}

func (f flattener) cases(cases []*syntax.Case) []*syntax.Case {
	result := make([]*syntax.Case, len(cases))
	for i, c := range cases {
		x := *c
		x.Pattern.Params = make([]*syntax.ParamInst, len(c.Pattern.Params))
		for j, p := range c.Pattern.Params {
			q := *p
			q.Type = f.flatten(p.Type, 1)
			x.Pattern.Params[j] = &q
		}
		x.Body = f.flatten(c.Body, 1)
		result[i] = &x
	}
	return result
}
