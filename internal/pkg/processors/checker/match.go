package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
	"errors"
)

// xtor is the constructor or destructor a case is checked against.
type xtor struct {
	name    ast.Identifier
	params  syntax.Telescope
	indices []syntax.Expression
}

// checkCase checks one case in ctx. indices are the arguments of the matched
// type in ctx, expected computes the body type in the context extended by
// the pattern parameters.
func (c *checker) checkCase(ctx *syntax.Ctx, cs *syntax.Case, x xtor, indices []syntax.Expression, expected func() syntax.Expression) (*syntax.Case, error) {
	if len(cs.Pattern.Params) != len(x.params) {
		return nil, common.NewTypeError(cs.Pattern.Location, nil,
			"`%s` has %d parameter(s), the pattern binds %d", x.name, len(x.params), len(cs.Pattern.Params))
	}
	params, inner := checkPatternParams(ctx, cs.Pattern, x.params)

	decision, err := c.unifier.UnifyIndices(cs.Location, inner, syntax.ShiftAll(indices, 0, 1), x.indices)
	if err != nil {
		return nil, err
	}
	r := *cs
	r.Pattern.Params = params
	switch {
	case !decision.Yes && cs.IsAbsurd():
		return &r, nil
	case !decision.Yes:
		return nil, common.NewTypeError(cs.Location, nil, "case `%s` can never match, mark it absurd", x.name)
	case cs.IsAbsurd():
		return nil, common.NewTypeError(cs.Location, nil, "case `%s` is not absurd", x.name)
	}

	body, err := c.check(inner.WithEqs(decision.Subst), cs.Body, expected())
	if err != nil {
		return nil, err
	}
	r.Body = body
	return &r, nil
}

// checkCases checks coverage, then every case. Errors of different cases
// are all reported.
func (c *checker) checkCases(
	ctx *syntax.Ctx, loc ast.Location, owner ast.Identifier, copattern bool,
	xtors []xtor, cases []*syntax.Case, indices []syntax.Expression,
	expected func(x xtor) syntax.Expression,
) ([]*syntax.Case, []error) {
	names := common.Map(func(x xtor) ast.Identifier { return x.name }, xtors)
	useful, errs := coverage(loc, owner, copattern, names, cases)
	result := make([]*syntax.Case, 0, len(useful))
	for _, cs := range useful {
		x, _ := common.Find(func(x xtor) bool { return x.name == cs.Pattern.Name }, xtors)
		checked, err := c.checkCase(ctx, cs, x, indices, func() syntax.Expression { return expected(x) })
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, checked)
	}
	return result, errs
}

func ctorXtors(data *syntax.Data) []xtor {
	return common.Map(func(ctor *syntax.Ctor) xtor {
		return xtor{name: ctor.Name, params: ctor.Params, indices: ctor.Typ.Args}
	}, data.Ctors)
}

func dtorXtors(codata *syntax.Codata) []xtor {
	return common.Map(func(dtor *syntax.Dtor) xtor {
		return xtor{name: dtor.Name, params: dtor.Params, indices: dtor.Self.Type.Args}
	}, codata.Dtors)
}

// ctorCall is the value a pattern stands for, in the context extended by
// its parameters.
func ctorCall(loc ast.Location, data *syntax.Data, name ast.Identifier) syntax.Expression {
	ctor, _ := data.Ctor(name)
	call := syntax.NewCall(loc, syntax.CallConstructor, name, syntax.Vars(loc, ctor.Params.Names(), 0)...)
	return call.WithType(ctor.Typ)
}

func (c *checker) checkLocalMatch(ctx *syntax.Ctx, e *syntax.LocalMatch, expected syntax.Expression) (syntax.Expression, error) {
	on, err := c.infer(ctx, e.OnExp)
	if err != nil {
		return nil, err
	}
	typ, err := c.whnfTypCtor(ctx, e.OnExp.GetLocation(), on.GetType())
	if err != nil {
		return nil, err
	}
	data, err := c.table.LookupData(e.OnExp.GetLocation(), typ.Name)
	if err != nil {
		return nil, err
	}
	body := syntax.Shift(expected, 0, 1)
	cases, errs := c.checkCases(ctx, e.Location, labelOr(e.Label, typ.Name), false,
		ctorXtors(data), e.Cases, typ.Args, func(xtor) syntax.Expression { return body })
	if len(errs) > 0 {
		return nil, joinCaseErrors(errs)
	}
	r := *e
	r.OnExp = on
	r.Cases = cases
	r.Type = expected
	return &r, nil
}

func (c *checker) checkLocalComatch(ctx *syntax.Ctx, e *syntax.LocalComatch, expected syntax.Expression) (syntax.Expression, error) {
	typ, err := c.whnfTypCtor(ctx, e.Location, expected)
	if err != nil {
		return nil, err
	}
	codata, err := c.table.LookupCodata(e.Location, typ.Name)
	if err != nil {
		return nil, err
	}
	self := syntax.Shift(e.WithType(expected), 0, 1)
	cases, errs := c.checkCases(ctx, e.Location, labelOr(e.Label, typ.Name), true,
		dtorXtors(codata), e.Cases, typ.Args, func(x xtor) syntax.Expression {
			dtor, _ := codata.Dtor(x.name)
			return syntax.Instantiate(dtor.RetTyp, [][]syntax.Expression{{self}})
		})
	if len(errs) > 0 {
		return nil, joinCaseErrors(errs)
	}
	r := *e
	r.Cases = cases
	r.Type = expected
	return &r, nil
}

func labelOr(label, name ast.Identifier) ast.Identifier {
	if label != "" {
		return label
	}
	return name
}

func joinCaseErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
