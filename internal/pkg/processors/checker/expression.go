package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/normalizer"
	"duo-compiler/internal/pkg/processors/unifier"
)

// check elaborates e against the expected type.
func (c *checker) check(ctx *syntax.Ctx, e syntax.Expression, expected syntax.Expression) (syntax.Expression, error) {
	switch e.(type) {
	case *syntax.Hole:
		return c.hole(ctx, e.(*syntax.Hole), expected), nil
	case *syntax.LocalMatch:
		return c.checkLocalMatch(ctx, e.(*syntax.LocalMatch), expected)
	case *syntax.LocalComatch:
		return c.checkLocalComatch(ctx, e.(*syntax.LocalComatch), expected)
	}
	inferred, err := c.infer(ctx, e)
	if err != nil {
		return nil, err
	}
	if err := c.convert(ctx, inferred, expected, inferred.GetType()); err != nil {
		return nil, err
	}
	return inferred, nil
}

// convert asserts that the type of e is the expected one.
func (c *checker) convert(ctx *syntax.Ctx, e syntax.Expression, expected, actual syntax.Expression) error {
	constraint := unifier.Constraint{Location: e.GetLocation(), Ctx: ctx, Lhs: expected, Rhs: actual}
	decision, err := c.unifier.Solve(constraint)
	if err != nil {
		return err
	}
	if !decision.Yes {
		return unifier.Mismatch(constraint)
	}
	return nil
}

func (c *checker) hole(ctx *syntax.Ctx, h *syntax.Hole, expected syntax.Expression) syntax.Expression {
	x := *h
	x.Metavar = c.metas.Fresh(h.Location, ctx, expected)
	x.Args = ctx.Vars(h.Location)
	x.Type = expected
	return &x
}

// infer elaborates e without an expected type. The result carries its type.
func (c *checker) infer(ctx *syntax.Ctx, e syntax.Expression) (syntax.Expression, error) {
	switch e.(type) {
	case *syntax.Variable:
		x := e.(*syntax.Variable)
		b, ok := ctx.Lookup(x.Idx)
		if !ok {
			return nil, common.NewImpossibleError(x.Location, "variable %s is not bound in a context of shape %v", x.Idx, ctx.Shape())
		}
		r := *x
		if r.Name == "" {
			r.Name = b.Name
		}
		r.Type = b.Type
		return &r, nil
	case *syntax.TypCtor:
		x := e.(*syntax.TypCtor)
		params, err := c.table.LookupTypeParams(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		args, err := c.checkArgs(ctx, x.Location, x.Name, params, x.Args)
		if err != nil {
			return nil, err
		}
		r := *x
		r.Args = args
		r.Type = syntax.NewTypeUniv(x.Location)
		return &r, nil
	case *syntax.Call:
		return c.inferCall(ctx, e.(*syntax.Call))
	case *syntax.DotCall:
		return c.inferDotCall(ctx, e.(*syntax.DotCall))
	case *syntax.Anno:
		x := e.(*syntax.Anno)
		annotation, err := c.checkType(ctx, x.Annotation)
		if err != nil {
			return nil, err
		}
		exp, err := c.check(ctx, x.Exp, annotation)
		if err != nil {
			return nil, err
		}
		r := *x
		r.Exp = exp
		r.Annotation = annotation
		r.Type = annotation
		return &r, nil
	case *syntax.TypeUniv:
		x := *e.(*syntax.TypeUniv)
		x.Type = syntax.NewTypeUniv(x.Location)
		return &x, nil
	case *syntax.Literal:
		x := *e.(*syntax.Literal)
		x.Type = syntax.NewTypCtor(x.Location, x.Value.TypeName()).WithType(syntax.NewTypeUniv(x.Location))
		return &x, nil
	case *syntax.Hole:
		x := e.(*syntax.Hole)
		univ := syntax.NewTypeUniv(x.Location)
		typ := c.hole(ctx, syntax.NewHole(x.Location), univ)
		return c.hole(ctx, x, typ), nil
	case *syntax.LocalMatch:
		x := e.(*syntax.LocalMatch)
		univ := syntax.NewTypeUniv(x.Location)
		return c.checkLocalMatch(ctx, x, c.hole(ctx, syntax.NewHole(x.Location), univ))
	case *syntax.LocalComatch:
		x := e.(*syntax.LocalComatch)
		return nil, common.NewTypeError(x.Location, nil, "cannot infer the type of a comatch, annotate it")
	}
	return nil, common.NewInvalidCaseError(e.GetLocation(), e)
}

func (c *checker) inferCall(ctx *syntax.Ctx, x *syntax.Call) (syntax.Expression, error) {
	var params syntax.Telescope
	var typ syntax.Expression
	switch x.Kind {
	case syntax.CallConstructor:
		_, ctor, err := c.table.LookupCtor(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		params, typ = ctor.Params, ctor.Typ
	case syntax.CallCodefinition:
		codef, err := c.table.LookupCodef(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		params, typ = codef.Params, codef.Typ
	case syntax.CallLet:
		let, err := c.table.LookupLet(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		params, typ = let.Params, let.Typ
	default:
		return nil, common.NewInvalidCaseError(x.Location, x)
	}
	args, err := c.checkArgs(ctx, x.Location, x.Name, params, x.Args)
	if err != nil {
		return nil, err
	}
	r := *x
	r.Args = args
	r.Type = syntax.Instantiate(typ, [][]syntax.Expression{args})
	return &r, nil
}

func (c *checker) inferDotCall(ctx *syntax.Ctx, x *syntax.DotCall) (syntax.Expression, error) {
	var params syntax.Telescope
	var self *syntax.TypCtor
	var retTyp syntax.Expression
	switch x.Kind {
	case syntax.DotCallDestructor:
		_, dtor, err := c.table.LookupDtor(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		params, self, retTyp = dtor.Params, dtor.Self.Type, dtor.RetTyp
	case syntax.DotCallDefinition:
		def, err := c.table.LookupDef(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		params, self, retTyp = def.Params, def.Self.Type, def.RetTyp
	default:
		return nil, common.NewInvalidCaseError(x.Location, x)
	}
	args, err := c.checkArgs(ctx, x.Location, x.Name, params, x.Args)
	if err != nil {
		return nil, err
	}
	exp, err := c.check(ctx, x.Exp, syntax.Instantiate(self, [][]syntax.Expression{args}))
	if err != nil {
		return nil, err
	}
	r := *x
	r.Exp = exp
	r.Args = args
	r.Type = syntax.Instantiate(retTyp, [][]syntax.Expression{args, {exp}})
	return &r, nil
}

// whnfTypCtor exposes the type constructor a type reduces to.
func (c *checker) whnfTypCtor(ctx *syntax.Ctx, loc ast.Location, typ syntax.Expression) (*syntax.TypCtor, error) {
	norm := c.unifier.Normalizer()
	v, err := norm.Whnf(ctx, typ)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*normalizer.VTypCtor)
	if !ok {
		n, err := norm.ReadBack(ctx.Len(), v)
		if err != nil {
			return nil, err
		}
		return nil, common.NewTypeError(loc, []ast.Location{typ.GetLocation()},
			"expected a data or codata type, found `%s`", n)
	}
	args := make([]syntax.Expression, len(t.Args))
	for i, arg := range t.Args {
		if args[i], err = norm.ReadBack(ctx.Len(), arg); err != nil {
			return nil, err
		}
	}
	return syntax.NewTypCtor(ast.Location{}, t.Name, args...), nil
}
