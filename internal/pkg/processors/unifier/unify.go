package unifier

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/normalizer"

	"github.com/hashicorp/go-set/v3"
)

type outcome int

const (
	solved outcome = iota
	failed
	blocked
)

// Unifier decides equality constraints of one elaboration run. Constraints
// on metavariables applied to something other than distinct variables are
// deferred and retried once one of their metavariables gets solved.
type Unifier struct {
	table    *typed.Table
	metas    *MetaVars
	norm     *normalizer.Normalizer
	tracer   common.Tracer
	deferred []deferred
	failures []error
}

func New(table *typed.Table, metas *MetaVars, tracer common.Tracer, fuel int) *Unifier {
	if tracer == nil {
		tracer = common.NopTracer{}
	}
	return &Unifier{
		table:  table,
		metas:  metas,
		norm:   normalizer.New(table, normalizer.WithMetas(metas), normalizer.WithFuel(fuel)),
		tracer: tracer,
	}
}

func (u *Unifier) Metas() *MetaVars {
	return u.metas
}

func (u *Unifier) Normalizer() *normalizer.Normalizer {
	return u.norm
}

// Solve decides c up to reduction. A constraint that cannot be decided yet
// is deferred and reported as Yes.
func (u *Unifier) Solve(c Constraint) (Decision, error) {
	lhs, err := u.norm.Normalize(c.Ctx, c.Lhs)
	if err != nil {
		return No, err
	}
	rhs, err := u.norm.Normalize(c.Ctx, c.Rhs)
	if err != nil {
		return No, err
	}
	out, blockers, err := u.unify(lhs, rhs)
	if err != nil {
		return No, err
	}
	switch out {
	case solved:
		return Yes(nil), nil
	case blocked:
		u.tracer.Trace("deferred %s", c)
		u.deferred = append(u.deferred, deferred{constraint: c, blockers: blockers})
		return Yes(nil), nil
	}
	return No, nil
}

func (u *Unifier) unify(a, b syntax.Expression) (outcome, *set.Set[ast.MetaID], error) {
	if syntax.Equal(a, b) {
		return solved, nil, nil
	}
	if h, ok := a.(*syntax.Hole); ok {
		return u.solveMeta(h, b)
	}
	if h, ok := b.(*syntax.Hole); ok {
		return u.solveMeta(h, a)
	}

	switch a.(type) {
	case *syntax.Variable:
		break
	case *syntax.TypCtor:
		{
			x := a.(*syntax.TypCtor)
			if y, ok := b.(*syntax.TypCtor); ok && x.Name == y.Name {
				return u.unifyArgs(x.Args, y.Args)
			}
		}
	case *syntax.Call:
		{
			x := a.(*syntax.Call)
			if y, ok := b.(*syntax.Call); ok && x.Name == y.Name {
				return u.unifyArgs(x.Args, y.Args)
			}
		}
	case *syntax.DotCall:
		{
			x := a.(*syntax.DotCall)
			if y, ok := b.(*syntax.DotCall); ok && x.Name == y.Name {
				return u.unifyArgs(append([]syntax.Expression{x.Exp}, x.Args...), append([]syntax.Expression{y.Exp}, y.Args...))
			}
		}
	case *syntax.TypeUniv, *syntax.Literal:
		break
	case *syntax.LocalMatch:
		{
			x := a.(*syntax.LocalMatch)
			if y, ok := b.(*syntax.LocalMatch); ok {
				out, blockers, err := u.unify(x.OnExp, y.OnExp)
				if err != nil || out == failed {
					return out, blockers, err
				}
				return u.unifyCases(x.Cases, y.Cases, out, blockers)
			}
		}
	case *syntax.LocalComatch:
		{
			x := a.(*syntax.LocalComatch)
			if y, ok := b.(*syntax.LocalComatch); ok {
				return u.unifyCases(x.Cases, y.Cases, solved, nil)
			}
		}
	default:
		return failed, nil, common.NewInvalidCaseError(a.GetLocation(), a)
	}
	return failed, nil, nil
}

func (u *Unifier) unifyArgs(xs, ys []syntax.Expression) (outcome, *set.Set[ast.MetaID], error) {
	if len(xs) != len(ys) {
		return failed, nil, nil
	}
	result := solved
	var blockers *set.Set[ast.MetaID]
	for i := range xs {
		out, bs, err := u.unify(xs[i], ys[i])
		if err != nil || out == failed {
			return out, nil, err
		}
		result, blockers = merge(result, blockers, out, bs)
	}
	return result, blockers, nil
}

func (u *Unifier) unifyCases(xs, ys []*syntax.Case, result outcome, blockers *set.Set[ast.MetaID]) (outcome, *set.Set[ast.MetaID], error) {
	if len(xs) != len(ys) {
		return failed, nil, nil
	}
	for i := range xs {
		x, y := xs[i], ys[i]
		if x.Pattern.Name != y.Pattern.Name || len(x.Pattern.Params) != len(y.Pattern.Params) {
			return failed, nil, nil
		}
		if x.Body == nil || y.Body == nil {
			if x.Body != y.Body {
				return failed, nil, nil
			}
			continue
		}
		out, bs, err := u.unify(x.Body, y.Body)
		if err != nil || out == failed {
			return out, nil, err
		}
		result, blockers = merge(result, blockers, out, bs)
	}
	return result, blockers, nil
}

func merge(a outcome, as *set.Set[ast.MetaID], b outcome, bs *set.Set[ast.MetaID]) (outcome, *set.Set[ast.MetaID]) {
	if b != blocked {
		return a, as
	}
	if as == nil {
		as = set.New[ast.MetaID](bs.Size())
	}
	as.InsertSet(bs)
	return blocked, as
}

// solveMeta solves h := t when the arguments of h are distinct variables.
// The solution is t with every variable renamed to the argument position
// holding it.
func (u *Unifier) solveMeta(h *syntax.Hole, t syntax.Expression) (outcome, *set.Set[ast.MetaID], error) {
	if h.Metavar == ast.NoMeta {
		return failed, nil, common.NewImpossibleError(h.Location, "hole without a metavariable")
	}
	if solution, ok := u.metas.Solution(h.Metavar); ok {
		// solved by an earlier argument of the same constraint
		return u.unify(syntax.Instantiate(solution, h.Args), t)
	}
	positions := map[ast.Idx]ast.Idx{}
	n := len(h.Args)
	for i, tel := range h.Args {
		for j, arg := range tel {
			v, ok := arg.(*syntax.Variable)
			if !ok {
				return u.block(h, t)
			}
			if _, dup := positions[v.Idx]; dup {
				return u.block(h, t)
			}
			positions[v.Idx] = ast.Idx{Fst: n - 1 - i, Snd: j}
		}
	}
	if syntax.Metas(t).Contains(h.Metavar) {
		u.tracer.Trace("occurs check: %s in %s", h.Metavar, t)
		return failed, nil, nil
	}
	escaped := false
	solution := syntax.Rewrite(t, 0, func(x syntax.Expression, depth int) syntax.Expression {
		v, ok := x.(*syntax.Variable)
		if !ok || v.Idx.Fst < depth {
			return x
		}
		p, ok := positions[ast.Idx{Fst: v.Idx.Fst - depth, Snd: v.Idx.Snd}]
		if !ok {
			escaped = true
			return x
		}
		c := *v
		c.Idx = ast.Idx{Fst: p.Fst + depth, Snd: p.Snd}
		return &c
	})
	if escaped {
		u.tracer.Trace("scope escape: %s := %s", h.Metavar, t)
		return failed, nil, nil
	}
	if err := u.metas.Solve(h.Metavar, solution); err != nil {
		return failed, nil, err
	}
	u.tracer.Trace("solved %s := %s", h.Metavar, solution)
	if err := u.retry(h.Metavar); err != nil {
		return failed, nil, err
	}
	return solved, nil, nil
}

func (u *Unifier) block(h *syntax.Hole, t syntax.Expression) (outcome, *set.Set[ast.MetaID], error) {
	blockers := syntax.Metas(t)
	blockers.Insert(h.Metavar)
	for _, tel := range h.Args {
		for _, arg := range tel {
			blockers.InsertSet(syntax.Metas(arg))
		}
	}
	return blocked, blockers, nil
}

// retry re-solves the deferred constraints blocked on id.
func (u *Unifier) retry(id ast.MetaID) error {
	var ready []Constraint
	kept := u.deferred[:0]
	for _, d := range u.deferred {
		if d.blockers.Contains(id) {
			ready = append(ready, d.constraint)
		} else {
			kept = append(kept, d)
		}
	}
	u.deferred = kept
	for _, c := range ready {
		u.tracer.Trace("retrying %s", c)
		decision, err := u.Solve(c)
		if err != nil {
			return err
		}
		if !decision.Yes {
			u.failures = append(u.failures, Mismatch(c))
		}
	}
	return nil
}

// Finish retries every deferred constraint once more and reports the
// constraints that still cannot be decided.
func (u *Unifier) Finish() []error {
	var errs []error
	for progress := true; progress && len(u.deferred) > 0; {
		pending := u.deferred
		u.deferred = nil
		progress = false
		for _, d := range pending {
			before := len(u.deferred)
			decision, err := u.Solve(d.constraint)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !decision.Yes {
				errs = append(errs, Mismatch(d.constraint))
				continue
			}
			if len(u.deferred) == before {
				progress = true
			}
		}
	}
	errs = append(u.failures, errs...)
	for _, d := range u.deferred {
		errs = append(errs, Mismatch(d.constraint))
	}
	u.failures = nil
	u.deferred = nil
	return errs
}

func (u *Unifier) HasDeferred() bool {
	return len(u.deferred) > 0
}

// Mismatch builds the type error reported for a rejected constraint.
func Mismatch(c Constraint) error {
	return common.NewTypeError(c.Location,
		[]ast.Location{c.Lhs.GetLocation(), c.Rhs.GetLocation()},
		"cannot unify `%s` with `%s`", c.Lhs, c.Rhs)
}
