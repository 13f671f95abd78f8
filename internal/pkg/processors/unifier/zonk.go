package unifier

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

// Zonk replaces every hole of e by its solution. It fails on the first
// unsolved metavariable.
func Zonk(metas *MetaVars, e syntax.Expression) (syntax.Expression, error) {
	z := zonker{metas: metas}
	r := syntax.Rewrite(e, 0, z.hole)
	if z.err != nil {
		return nil, z.err
	}
	return r, nil
}

func ZonkDecl(metas *MetaVars, decl syntax.Declaration) (syntax.Declaration, error) {
	z := zonker{metas: metas}
	r := syntax.RewriteDecl(decl, z.hole)
	if z.err != nil {
		return nil, z.err
	}
	return r, nil
}

type zonker struct {
	metas *MetaVars
	err   error
}

func (z *zonker) hole(e syntax.Expression, _ int) syntax.Expression {
	h, ok := e.(*syntax.Hole)
	if !ok || z.err != nil {
		return e
	}
	solution, ok := z.metas.Solution(h.Metavar)
	if !ok {
		z.err = common.NewTypeError(h.Location, nil, "unbound metavariable %s", h.Metavar)
		return e
	}
	r := syntax.Rewrite(syntax.Instantiate(solution, h.Args), 0, z.hole)
	if z.err != nil {
		return e
	}
	return relocate(r, h.Location).WithType(h.Type)
}

// relocate moves the root of a solution to the span of the hole it fills.
func relocate(e syntax.Expression, loc ast.Location) syntax.Expression {
	switch e.(type) {
	case *syntax.Variable:
		x := *e.(*syntax.Variable)
		x.Location = loc
		return &x
	case *syntax.TypCtor:
		x := *e.(*syntax.TypCtor)
		x.Location = loc
		return &x
	case *syntax.Call:
		x := *e.(*syntax.Call)
		x.Location = loc
		return &x
	case *syntax.DotCall:
		x := *e.(*syntax.DotCall)
		x.Location = loc
		return &x
	case *syntax.TypeUniv:
		x := *e.(*syntax.TypeUniv)
		x.Location = loc
		return &x
	case *syntax.Literal:
		x := *e.(*syntax.Literal)
		x.Location = loc
		return &x
	}
	return e
}
