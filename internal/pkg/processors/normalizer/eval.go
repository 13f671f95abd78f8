package normalizer

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

func (r *run) eval(env Env, e syntax.Expression) (Value, error) {
	switch e.(type) {
	case *syntax.Variable:
		x := e.(*syntax.Variable)
		v, ok := env.Lookup(x.Idx)
		if !ok {
			return nil, common.NewImpossibleError(x.Location,
				"variable %s does not fit an environment of shape %v", x.Idx, env.Shape())
		}
		return v, nil
	case *syntax.TypCtor:
		x := e.(*syntax.TypCtor)
		args, err := r.evalArgs(env, x.Args)
		if err != nil {
			return nil, err
		}
		return &VTypCtor{Name: x.Name, Args: args}, nil
	case *syntax.Call:
		return r.evalCall(env, e.(*syntax.Call))
	case *syntax.DotCall:
		x := e.(*syntax.DotCall)
		exp, err := r.eval(env, x.Exp)
		if err != nil {
			return nil, err
		}
		args, err := r.evalArgs(env, x.Args)
		if err != nil {
			return nil, err
		}
		return r.dotCall(x.Location, x.Kind, exp, x.Name, args)
	case *syntax.Anno:
		return r.eval(env, e.(*syntax.Anno).Exp)
	case *syntax.TypeUniv:
		return &VTypeUniv{}, nil
	case *syntax.Literal:
		return &VLiteral{Value: e.(*syntax.Literal).Value}, nil
	case *syntax.LocalMatch:
		x := e.(*syntax.LocalMatch)
		on, err := r.eval(env, x.OnExp)
		if err != nil {
			return nil, err
		}
		return r.match(x.Location, x.Label, on, x.Cases, env)
	case *syntax.LocalComatch:
		x := e.(*syntax.LocalComatch)
		return &VLocalComatch{Label: x.Label, Cases: x.Cases, Env: env}, nil
	case *syntax.Hole:
		return r.evalHole(env, e.(*syntax.Hole))
	}
	return nil, common.NewInvalidCaseError(e.GetLocation(), e)
}

func (r *run) evalArgs(env Env, args []syntax.Expression) ([]Value, error) {
	return common.MapErr(func(a syntax.Expression) (Value, error) { return r.eval(env, a) }, args)
}

func (r *run) evalCall(env Env, x *syntax.Call) (Value, error) {
	args, err := r.evalArgs(env, x.Args)
	if err != nil {
		return nil, err
	}
	if x.Kind == syntax.CallLet && r.unfoldable(x.Name) {
		let, err := r.table.LookupLet(x.Location, x.Name)
		if err != nil {
			return nil, err
		}
		if err := r.tick(); err != nil {
			return nil, err
		}
		return r.eval(Env{args}, let.Body)
	}
	return &VCall{Kind: x.Kind, Name: x.Name, Args: args}, nil
}

func (r *run) dotCall(loc ast.Location, kind syntax.DotCallKind, exp Value, name ast.Identifier, args []Value) (Value, error) {
	stuck := &NDotCall{Kind: kind, Exp: exp, Name: name, Args: args}
	switch kind {
	case syntax.DotCallDestructor:
		switch exp.(type) {
		case *VCall:
			call := exp.(*VCall)
			if call.Kind != syntax.CallCodefinition || !r.unfoldable(call.Name) {
				return stuck, nil
			}
			codef, err := r.table.LookupCodef(loc, call.Name)
			if err != nil {
				return nil, err
			}
			c, err := findCase(loc, codef.Name, codef.Cases, name)
			if err != nil {
				return nil, err
			}
			if err := r.tick(); err != nil {
				return nil, err
			}
			return r.eval(Env{call.Args, args}, c.Body)
		case *VLocalComatch:
			comatch := exp.(*VLocalComatch)
			c, err := findCase(loc, comatch.Label, comatch.Cases, name)
			if err != nil {
				return nil, err
			}
			if err := r.tick(); err != nil {
				return nil, err
			}
			return r.eval(comatch.Env.Push(args), c.Body)
		}
		return stuck, nil
	case syntax.DotCallDefinition:
		call, ok := exp.(*VCall)
		if !ok || call.Kind != syntax.CallConstructor || !r.unfoldable(name) {
			return stuck, nil
		}
		def, err := r.table.LookupDef(loc, name)
		if err != nil {
			return nil, err
		}
		c, err := findCase(loc, def.Name, def.Cases, call.Name)
		if err != nil {
			return nil, err
		}
		if err := r.tick(); err != nil {
			return nil, err
		}
		return r.eval(Env{args, call.Args}, c.Body)
	}
	return nil, common.NewInvalidCaseError(loc, kind)
}

func (r *run) match(loc ast.Location, label ast.Identifier, on Value, cases []*syntax.Case, env Env) (Value, error) {
	call, ok := on.(*VCall)
	if !ok || call.Kind != syntax.CallConstructor {
		return &NLocalMatch{Label: label, On: on, Cases: cases, Env: env}, nil
	}
	c, err := findCase(loc, label, cases, call.Name)
	if err != nil {
		return nil, err
	}
	if err := r.tick(); err != nil {
		return nil, err
	}
	return r.eval(env.Push(call.Args), c.Body)
}

func findCase(loc ast.Location, owner ast.Identifier, cases []*syntax.Case, name ast.Identifier) (*syntax.Case, error) {
	c, ok := common.Find(func(c *syntax.Case) bool { return c.Pattern.Name == name }, cases)
	if !ok {
		return nil, common.NewLookupError(loc, "`%s` has no case for `%s`", owner, name)
	}
	if c.IsAbsurd() {
		return nil, common.NewLookupError(c.Location, "evaluation reached the absurd case `%s` of `%s`", name, owner)
	}
	return c, nil
}

func (r *run) evalHole(env Env, x *syntax.Hole) (Value, error) {
	args := make([][]Value, len(x.Args))
	for i, tel := range x.Args {
		values, err := r.evalArgs(env, tel)
		if err != nil {
			return nil, err
		}
		args[i] = values
	}
	if r.metas != nil && x.Metavar != ast.NoMeta {
		if solution, ok := r.metas.Solution(x.Metavar); ok {
			return r.eval(args, solution)
		}
	}
	return &NHole{Metavar: x.Metavar, Args: args}, nil
}
