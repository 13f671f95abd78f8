package unifier

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

// UnifyIndices unifies the indices of a scrutinee type with those of a
// constructor during dependent pattern matching. Variables are flexible:
// the result is the substitution under which both sides agree. No means the
// case is impossible. Pairs whose equality cannot be decided are an error
// rather than No, so a case is never declared absurd by accident.
func (u *Unifier) UnifyIndices(loc ast.Location, ctx *syntax.Ctx, lhs, rhs []syntax.Expression) (Decision, error) {
	if len(lhs) != len(rhs) {
		return No, common.NewImpossibleError(loc, "index lists of different length %d and %d", len(lhs), len(rhs))
	}
	type pair struct{ a, b syntax.Expression }
	var work []pair
	for i := range lhs {
		a, err := u.norm.Normalize(ctx, lhs[i])
		if err != nil {
			return No, err
		}
		b, err := u.norm.Normalize(ctx, rhs[i])
		if err != nil {
			return No, err
		}
		work = append(work, pair{a, b})
	}

	subst := syntax.Substitution{}
	for len(work) > 0 {
		p := work[0]
		work = work[1:]
		a, b := subst.Apply(p.a), subst.Apply(p.b)
		if syntax.Equal(a, b) {
			continue
		}
		va, aIsVar := a.(*syntax.Variable)
		vb, bIsVar := b.(*syntax.Variable)
		switch {
		case aIsVar && bIsVar:
			if va.Idx.IsInnerTo(vb.Idx) {
				subst = subst.Extend(va.Idx, vb)
			} else {
				subst = subst.Extend(vb.Idx, va)
			}
			continue
		case aIsVar:
			if syntax.Mentions(b, va.Idx) {
				return occurs(loc, va, b)
			}
			subst = subst.Extend(va.Idx, b)
			continue
		case bIsVar:
			if syntax.Mentions(a, vb.Idx) {
				return occurs(loc, vb, a)
			}
			subst = subst.Extend(vb.Idx, a)
			continue
		}

		switch a.(type) {
		case *syntax.Call:
			{
				x := a.(*syntax.Call)
				y, ok := b.(*syntax.Call)
				if ok && x.Kind == syntax.CallConstructor && y.Kind == syntax.CallConstructor {
					if x.Name != y.Name || len(x.Args) != len(y.Args) {
						return No, nil
					}
					for i := range x.Args {
						work = append(work, pair{x.Args[i], y.Args[i]})
					}
					continue
				}
			}
		case *syntax.TypCtor:
			{
				x := a.(*syntax.TypCtor)
				if y, ok := b.(*syntax.TypCtor); ok {
					if x.Name != y.Name || len(x.Args) != len(y.Args) {
						return No, nil
					}
					for i := range x.Args {
						work = append(work, pair{x.Args[i], y.Args[i]})
					}
					continue
				}
			}
		case *syntax.Literal:
			if _, ok := b.(*syntax.Literal); ok {
				return No, nil
			}
		case *syntax.TypeUniv:
			if _, ok := b.(*syntax.TypeUniv); ok {
				continue
			}
		}
		if rigid(a) && rigid(b) {
			return No, nil
		}
		return No, common.NewTypeError(loc, []ast.Location{p.a.GetLocation(), p.b.GetLocation()},
			"cannot decide whether `%s` and `%s` are equal while matching", a, b)
	}
	u.tracer.Trace("index unification: %d equations", len(subst))
	return Yes(subst), nil
}

// rigid reports whether e is headed by a constructor, a literal, a type
// constructor or the universe, so that two different rigid heads are never
// equal.
func rigid(e syntax.Expression) bool {
	switch e.(type) {
	case *syntax.Call:
		return e.(*syntax.Call).Kind == syntax.CallConstructor
	case *syntax.TypCtor, *syntax.Literal, *syntax.TypeUniv:
		return true
	}
	return false
}

func occurs(loc ast.Location, v *syntax.Variable, t syntax.Expression) (Decision, error) {
	if rigid(t) {
		return No, nil
	}
	return No, common.NewTypeError(loc, []ast.Location{v.Location, t.GetLocation()},
		"cannot decide whether `%s` and `%s` are equal while matching", v, t)
}
