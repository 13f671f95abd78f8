package normalizer

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
)

const DefaultFuel = 100000

// MetaSolutions gives access to solved metavariables. A solution lives in
// the context shaped like the arguments of the hole it fills.
type MetaSolutions interface {
	Solution(id ast.MetaID) (syntax.Expression, bool)
}

type Option func(*Normalizer)

func WithFuel(fuel int) Option {
	return func(n *Normalizer) {
		if fuel > 0 {
			n.fuel = fuel
		}
	}
}

func WithMetas(metas MetaSolutions) Option {
	return func(n *Normalizer) {
		n.metas = metas
	}
}

// Normalizer evaluates expressions against the declarations of a table.
// Declarations that are not yet checked are never unfolded.
type Normalizer struct {
	table *typed.Table
	metas MetaSolutions
	fuel  int
}

func New(table *typed.Table, opts ...Option) *Normalizer {
	n := &Normalizer{table: table, fuel: DefaultFuel}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type run struct {
	*Normalizer
	steps int
	loc   ast.Location
}

func (n *Normalizer) newRun(loc ast.Location) *run {
	return &run{Normalizer: n, steps: n.fuel, loc: loc}
}

func (r *run) tick() error {
	r.steps--
	if r.steps < 0 {
		return common.NewTypeError(r.loc, nil, "normalization did not finish within %d steps", r.fuel)
	}
	return nil
}

// Eval evaluates e under env.
func (n *Normalizer) Eval(env Env, e syntax.Expression) (Value, error) {
	return n.newRun(e.GetLocation()).eval(env, e)
}

// ReadBack quotes a value at the given context depth.
func (n *Normalizer) ReadBack(depth int, v Value) (syntax.Expression, error) {
	return n.newRun(ast.Location{}).readBack(depth, v)
}

// Whnf evaluates e in ctx far enough to expose its head.
func (n *Normalizer) Whnf(ctx *syntax.Ctx, e syntax.Expression) (Value, error) {
	return n.newRun(e.GetLocation()).eval(EnvFromCtx(ctx), ctx.ApplyEqs(e))
}

// Normalize returns the normal form of e in ctx, index equations of ctx
// applied.
func (n *Normalizer) Normalize(ctx *syntax.Ctx, e syntax.Expression) (syntax.Expression, error) {
	r := n.newRun(e.GetLocation())
	v, err := r.eval(EnvFromCtx(ctx), ctx.ApplyEqs(e))
	if err != nil {
		return nil, err
	}
	return r.readBack(ctx.Len(), v)
}

func (n *Normalizer) NormalizeClosed(e syntax.Expression) (syntax.Expression, error) {
	return n.Normalize(syntax.NewCtx(), e)
}

// Equal decides definitional equality of a and b in ctx.
func (n *Normalizer) Equal(ctx *syntax.Ctx, a, b syntax.Expression) (bool, error) {
	na, err := n.Normalize(ctx, a)
	if err != nil {
		return false, err
	}
	nb, err := n.Normalize(ctx, b)
	if err != nil {
		return false, err
	}
	return syntax.Equal(na, nb), nil
}

func (n *Normalizer) unfoldable(name ast.Identifier) bool {
	status, ok := n.table.Status(name)
	return ok && status == typed.Checked
}
