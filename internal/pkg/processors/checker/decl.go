package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

const defaultSelfName ast.Identifier = "self"

// checkTypeParams checks the parameters of data and codata types, which
// every other signature of the group may refer to.
func (c *checker) checkTypeParams(decl syntax.Declaration) (syntax.Declaration, error) {
	switch decl.(type) {
	case *syntax.Data:
		d := *decl.(*syntax.Data)
		params, _, err := c.checkTelescope(syntax.NewCtx(), d.Params)
		if err != nil {
			return nil, err
		}
		d.Params = params
		return &d, nil
	case *syntax.Codata:
		d := *decl.(*syntax.Codata)
		params, _, err := c.checkTelescope(syntax.NewCtx(), d.Params)
		if err != nil {
			return nil, err
		}
		d.Params = params
		return &d, nil
	}
	return decl, nil
}

func (c *checker) checkSignature(decl syntax.Declaration) (syntax.Declaration, error) {
	switch decl.(type) {
	case *syntax.Data:
		d := *decl.(*syntax.Data)
		ctors, err := common.MapErr(func(ctor *syntax.Ctor) (*syntax.Ctor, error) { return c.checkCtor(&d, ctor) }, d.Ctors)
		if err != nil {
			return nil, err
		}
		d.Ctors = ctors
		return &d, nil
	case *syntax.Codata:
		d := *decl.(*syntax.Codata)
		dtors, err := common.MapErr(func(dtor *syntax.Dtor) (*syntax.Dtor, error) { return c.checkDtor(&d, dtor) }, d.Dtors)
		if err != nil {
			return nil, err
		}
		d.Dtors = dtors
		return &d, nil
	case *syntax.Def:
		d := *decl.(*syntax.Def)
		params, ctx, err := c.checkTelescope(syntax.NewCtx(), d.Params)
		if err != nil {
			return nil, err
		}
		self, retTyp, err := c.checkSelfAndReturn(ctx, d.Self, d.RetTyp, func(name ast.Identifier) error {
			_, err := c.table.LookupData(d.Self.Location, name)
			return err
		})
		if err != nil {
			return nil, err
		}
		d.Params, d.Self, d.RetTyp = params, self, retTyp
		return &d, nil
	case *syntax.Codef:
		d := *decl.(*syntax.Codef)
		params, ctx, err := c.checkTelescope(syntax.NewCtx(), d.Params)
		if err != nil {
			return nil, err
		}
		typ, err := c.checkTypCtor(ctx, d.Typ)
		if err != nil {
			return nil, err
		}
		if _, err := c.table.LookupCodata(d.Typ.Location, typ.Name); err != nil {
			return nil, err
		}
		d.Params, d.Typ = params, typ
		return &d, nil
	case *syntax.Let:
		d := *decl.(*syntax.Let)
		params, ctx, err := c.checkTelescope(syntax.NewCtx(), d.Params)
		if err != nil {
			return nil, err
		}
		typ, err := c.checkType(ctx, d.Typ)
		if err != nil {
			return nil, err
		}
		d.Params, d.Typ = params, typ
		return &d, nil
	case *syntax.Infix:
		d := decl.(*syntax.Infix)
		if _, ok := c.table.Lookup(d.Target); ok {
			return d, nil
		}
		if _, ok := c.table.Owner(d.Target); ok {
			return d, nil
		}
		return nil, common.NewLookupError(d.Location, "infix operator `%s` refers to unknown `%s`", d.Operator, d.Target)
	case *syntax.Note:
		return decl, nil
	}
	return nil, common.NewInvalidCaseError(decl.GetLocation(), decl)
}

func (c *checker) checkCtor(data *syntax.Data, ctor *syntax.Ctor) (*syntax.Ctor, error) {
	params, ctx, err := c.checkTelescope(syntax.NewCtx(), ctor.Params)
	if err != nil {
		return nil, err
	}
	typ, err := c.checkTypCtor(ctx, ctor.Typ)
	if err != nil {
		return nil, err
	}
	if typ.Name != data.Name {
		return nil, common.NewTypeError(ctor.Typ.Location, []ast.Location{data.Location},
			"constructor `%s` must build `%s`, not `%s`", ctor.Name, data.Name, typ.Name)
	}
	r := *ctor
	r.Params, r.Typ = params, typ
	return &r, nil
}

func (c *checker) checkDtor(codata *syntax.Codata, dtor *syntax.Dtor) (*syntax.Dtor, error) {
	params, ctx, err := c.checkTelescope(syntax.NewCtx(), dtor.Params)
	if err != nil {
		return nil, err
	}
	self, retTyp, err := c.checkSelfAndReturn(ctx, dtor.Self, dtor.RetTyp, func(name ast.Identifier) error {
		if name != codata.Name {
			return common.NewTypeError(dtor.Self.Location, []ast.Location{codata.Location},
				"destructor `%s` must observe `%s`, not `%s`", dtor.Name, codata.Name, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r := *dtor
	r.Params, r.Self, r.RetTyp = params, self, retTyp
	return &r, nil
}

// checkSelfAndReturn checks a self parameter in ctx and the return type in
// ctx extended by self.
func (c *checker) checkSelfAndReturn(ctx *syntax.Ctx, self syntax.SelfParam, retTyp syntax.Expression, validate func(ast.Identifier) error) (syntax.SelfParam, syntax.Expression, error) {
	typ, err := c.checkTypCtor(ctx, self.Type)
	if err != nil {
		return self, nil, err
	}
	if err := validate(typ.Name); err != nil {
		return self, nil, err
	}
	name := self.Name
	if name == "" {
		name = defaultSelfName
	}
	inner := ctx.PushTelescope(nil).Bind(name, syntax.Shift(typ, 0, 1))
	ret, err := c.checkType(inner, retTyp)
	if err != nil {
		return self, nil, err
	}
	self.Type = typ
	return self, ret, nil
}

func (c *checker) checkTypCtor(ctx *syntax.Ctx, t *syntax.TypCtor) (*syntax.TypCtor, error) {
	if t == nil {
		return nil, common.NewImpossibleError(ast.Location{}, "missing type constructor")
	}
	checked, err := c.checkType(ctx, t)
	if err != nil {
		return nil, err
	}
	r, ok := checked.(*syntax.TypCtor)
	if !ok {
		return nil, common.NewInvalidCaseError(t.Location, checked)
	}
	return r, nil
}

// checkBody checks the cases of definitions and the body of let bindings
// against their checked signatures.
func (c *checker) checkBody(decl syntax.Declaration) (syntax.Declaration, []error) {
	switch decl.(type) {
	case *syntax.Def:
		return c.checkDef(decl.(*syntax.Def))
	case *syntax.Codef:
		return c.checkCodef(decl.(*syntax.Codef))
	case *syntax.Let:
		d := *decl.(*syntax.Let)
		ctx := syntax.NewCtx().PushParams(d.Params)
		body, err := c.check(ctx, d.Body, d.Typ)
		if err != nil {
			return nil, []error{err}
		}
		d.Body = body
		return &d, nil
	}
	return decl, nil
}

func (c *checker) checkDef(def *syntax.Def) (syntax.Declaration, []error) {
	data, err := c.table.LookupData(def.Self.Location, def.Self.Type.Name)
	if err != nil {
		return nil, []error{err}
	}
	ctx := syntax.NewCtx().PushParams(def.Params)
	retTyp := syntax.Shift(def.RetTyp, 1, 1)
	cases, errs := c.checkCases(ctx, def.Location, def.Name, false, ctorXtors(data), def.Cases, def.Self.Type.Args,
		func(x xtor) syntax.Expression {
			self := ctorCall(def.Location, data, x.name)
			return syntax.Instantiate(retTyp, [][]syntax.Expression{{self}})
		})
	if len(errs) > 0 {
		return nil, errs
	}
	d := *def
	d.Cases = cases
	return &d, nil
}

func (c *checker) checkCodef(codef *syntax.Codef) (syntax.Declaration, []error) {
	codata, err := c.table.LookupCodata(codef.Typ.Location, codef.Typ.Name)
	if err != nil {
		return nil, []error{err}
	}
	ctx := syntax.NewCtx().PushParams(codef.Params)
	self := syntax.NewCall(codef.Location, syntax.CallCodefinition, codef.Name, syntax.Vars(codef.Location, codef.Params.Names(), 1)...).
		WithType(syntax.Shift(codef.Typ, 0, 1))
	cases, errs := c.checkCases(ctx, codef.Location, codef.Name, true, dtorXtors(codata), codef.Cases, codef.Typ.Args,
		func(x xtor) syntax.Expression {
			dtor, _ := codata.Dtor(x.name)
			return syntax.Instantiate(dtor.RetTyp, [][]syntax.Expression{{self}})
		})
	if len(errs) > 0 {
		return nil, errs
	}
	d := *codef
	d.Cases = cases
	return &d, nil
}
