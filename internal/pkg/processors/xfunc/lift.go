package xfunc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/normalizer"
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// Lift turns every local match on typ into a top-level definition and every
// local comatch of typ into a top-level codefinition, abstracted over the
// variables in scope. Lifted declarations follow the declaration they come
// from. Nested matches are lifted first.
func Lift(mod *typed.Module, typ ast.Identifier) ([]syntax.Declaration, error) {
	taken := set.New[ast.Identifier](len(mod.Decls))
	for _, name := range mod.Table.Names() {
		taken.Insert(name)
	}
	for _, d := range mod.Decls {
		taken.Insert(d.GetName())
	}
	l := &lifter{
		norm:  normalizer.New(mod.Table),
		typ:   typ,
		taken: taken,
	}

	var result []syntax.Declaration
	for _, d := range mod.Decls {
		l.lifted = nil
		l.decl = d.GetName()
		lifted, err := l.declaration(d)
		if err != nil {
			return nil, err
		}
		result = append(result, lifted)
		result = append(result, l.lifted...)
	}
	return result, nil
}

type lifter struct {
	norm    *normalizer.Normalizer
	typ     ast.Identifier
	decl    ast.Identifier
	taken   *set.Set[ast.Identifier]
	counter int
	lifted  []syntax.Declaration
}

func (l *lifter) declaration(decl syntax.Declaration) (syntax.Declaration, error) {
	switch decl.(type) {
	case *syntax.Def:
		d := *decl.(*syntax.Def)
		cases, err := l.cases(syntax.NewCtx().PushParams(d.Params), d.Cases)
		if err != nil {
			return nil, err
		}
		d.Cases = cases
		return &d, nil
	case *syntax.Codef:
		d := *decl.(*syntax.Codef)
		cases, err := l.cases(syntax.NewCtx().PushParams(d.Params), d.Cases)
		if err != nil {
			return nil, err
		}
		d.Cases = cases
		return &d, nil
	case *syntax.Let:
		d := *decl.(*syntax.Let)
		body, err := l.expr(syntax.NewCtx().PushParams(d.Params), d.Body)
		if err != nil {
			return nil, err
		}
		d.Body = body
		return &d, nil
	}
	return decl, nil
}

func (l *lifter) cases(ctx *syntax.Ctx, cases []*syntax.Case) ([]*syntax.Case, error) {
	result := make([]*syntax.Case, len(cases))
	for i, c := range cases {
		x := *c
		if c.Body != nil {
			inner := ctx.PushTelescope(common.Map(func(p *syntax.ParamInst) syntax.Binder {
				return syntax.Binder{Name: p.Name, Type: p.Type}
			}, c.Pattern.Params))
			body, err := l.expr(inner, c.Body)
			if err != nil {
				return nil, err
			}
			x.Body = body
		}
		result[i] = &x
	}
	return result, nil
}

func (l *lifter) args(ctx *syntax.Ctx, args []syntax.Expression) ([]syntax.Expression, error) {
	return common.MapErr(func(a syntax.Expression) (syntax.Expression, error) { return l.expr(ctx, a) }, args)
}

func (l *lifter) expr(ctx *syntax.Ctx, e syntax.Expression) (syntax.Expression, error) {
	switch e.(type) {
	case *syntax.Variable, *syntax.TypeUniv, *syntax.Literal, *syntax.Hole:
		return e, nil
	case *syntax.TypCtor:
		x := *e.(*syntax.TypCtor)
		args, err := l.args(ctx, x.Args)
		if err != nil {
			return nil, err
		}
		x.Args = args
		return &x, nil
	case *syntax.Call:
		x := *e.(*syntax.Call)
		args, err := l.args(ctx, x.Args)
		if err != nil {
			return nil, err
		}
		x.Args = args
		return &x, nil
	case *syntax.DotCall:
		x := *e.(*syntax.DotCall)
		exp, err := l.expr(ctx, x.Exp)
		if err != nil {
			return nil, err
		}
		args, err := l.args(ctx, x.Args)
		if err != nil {
			return nil, err
		}
		x.Exp, x.Args = exp, args
		return &x, nil
	case *syntax.Anno:
		x := *e.(*syntax.Anno)
		exp, err := l.expr(ctx, x.Exp)
		if err != nil {
			return nil, err
		}
		x.Exp = exp
		return &x, nil
	case *syntax.LocalMatch:
		x := *e.(*syntax.LocalMatch)
		on, err := l.expr(ctx, x.OnExp)
		if err != nil {
			return nil, err
		}
		cases, err := l.cases(ctx, x.Cases)
		if err != nil {
			return nil, err
		}
		x.OnExp, x.Cases = on, cases
		return l.liftMatch(ctx, &x)
	case *syntax.LocalComatch:
		x := *e.(*syntax.LocalComatch)
		cases, err := l.cases(ctx, x.Cases)
		if err != nil {
			return nil, err
		}
		x.Cases = cases
		return l.liftComatch(ctx, &x)
	}
	return nil, common.NewInvalidCaseError(e.GetLocation(), e)
}

func (l *lifter) typCtorOf(ctx *syntax.Ctx, loc ast.Location, typ syntax.Expression) (*syntax.TypCtor, error) {
	if typ == nil {
		return nil, common.NewImpossibleError(loc, "lifting an expression without a type")
	}
	n, err := l.norm.Normalize(ctx, typ)
	if err != nil {
		return nil, err
	}
	t, ok := n.(*syntax.TypCtor)
	if !ok {
		return nil, common.NewImpossibleError(loc, "a checked (co)match has type `%s`", n)
	}
	return t, nil
}

func (l *lifter) liftMatch(ctx *syntax.Ctx, x *syntax.LocalMatch) (syntax.Expression, error) {
	onType, err := l.typCtorOf(ctx, x.Location, x.OnExp.GetType())
	if err != nil {
		return nil, err
	}
	if onType.Name != l.typ {
		return x, nil
	}
	name := l.fresh(x.Label, "match")
	f := newFlattener(ctx.Shape())
	self, _ := f.flatten(onType, 0).(*syntax.TypCtor)
	self.Location = x.OnExp.GetLocation()
	l.lifted = append(l.lifted, &syntax.Def{
		Location: x.Location,
		Name:     name,
		Params:   flatParams(x.Location, ctx),
		Self:     syntax.SelfParam{Location: x.OnExp.GetLocation(), Type: self},
		RetTyp:   syntax.Shift(f.flatten(x.Type, 0), 0, 1),
		Cases:    f.cases(x.Cases),
	})
	return syntax.NewDotCall(x.Location, syntax.DotCallDefinition, x.OnExp, name, flatArgs(x.Location, ctx)...).WithType(x.Type), nil
}

func (l *lifter) liftComatch(ctx *syntax.Ctx, x *syntax.LocalComatch) (syntax.Expression, error) {
	typ, err := l.typCtorOf(ctx, x.Location, x.Type)
	if err != nil {
		return nil, err
	}
	if typ.Name != l.typ {
		return x, nil
	}
	name := l.fresh(x.Label, "comatch")
	f := newFlattener(ctx.Shape())
	flatTyp, _ := f.flatten(typ, 0).(*syntax.TypCtor)
	flatTyp.Location = x.Location
	l.lifted = append(l.lifted, &syntax.Codef{
		Location: x.Location,
		Name:     name,
		Params:   flatParams(x.Location, ctx),
		Typ:      flatTyp,
		Cases:    f.cases(x.Cases),
	})
	return syntax.NewCall(x.Location, syntax.CallCodefinition, name, flatArgs(x.Location, ctx)...).WithType(x.Type), nil
}

// fresh picks the label of a (co)match or generates a name after the
// declaration it occurs in.
func (l *lifter) fresh(label ast.Identifier, kind string) ast.Identifier {
	if label != "" && !l.taken.Contains(label) {
		l.taken.Insert(label)
		return label
	}
	for {
		l.counter++
		name := ast.Identifier(fmt.Sprintf("%s_%s%d", l.decl, kind, l.counter))
		if !l.taken.Contains(name) {
			l.taken.Insert(name)
			return name
		}
	}
}
