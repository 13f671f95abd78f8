package normalizer

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

func (r *run) readBack(depth int, v Value) (syntax.Expression, error) {
	loc := ast.Location{}
	switch v.(type) {
	case *VTypCtor:
		x := v.(*VTypCtor)
		args, err := r.readBackArgs(depth, x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewTypCtor(loc, x.Name, args...), nil
	case *VCall:
		x := v.(*VCall)
		args, err := r.readBackArgs(depth, x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewCall(loc, x.Kind, x.Name, args...), nil
	case *VTypeUniv:
		return syntax.NewTypeUniv(loc), nil
	case *VLiteral:
		return syntax.NewLiteral(loc, v.(*VLiteral).Value), nil
	case *VLocalComatch:
		x := v.(*VLocalComatch)
		cases, err := r.readBackCases(depth, x.Cases, x.Env)
		if err != nil {
			return nil, err
		}
		return syntax.NewLocalComatch(loc, x.Label, cases...), nil
	case *NVariable:
		x := v.(*NVariable)
		if x.Lvl.Fst >= depth {
			return nil, common.NewImpossibleError(loc, "variable %s escapes a context of depth %d", x.Lvl, depth)
		}
		return syntax.NewVariable(loc, x.Name, ast.Idx{Fst: depth - 1 - x.Lvl.Fst, Snd: x.Lvl.Snd}), nil
	case *NDotCall:
		x := v.(*NDotCall)
		exp, err := r.readBack(depth, x.Exp)
		if err != nil {
			return nil, err
		}
		args, err := r.readBackArgs(depth, x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewDotCall(loc, x.Kind, exp, x.Name, args...), nil
	case *NLocalMatch:
		x := v.(*NLocalMatch)
		on, err := r.readBack(depth, x.On)
		if err != nil {
			return nil, err
		}
		cases, err := r.readBackCases(depth, x.Cases, x.Env)
		if err != nil {
			return nil, err
		}
		return syntax.NewLocalMatch(loc, x.Label, on, cases...), nil
	case *NHole:
		x := v.(*NHole)
		h := syntax.NewHole(loc)
		h.Metavar = x.Metavar
		h.Args = make([][]syntax.Expression, len(x.Args))
		for i, tel := range x.Args {
			args, err := r.readBackArgs(depth, tel)
			if err != nil {
				return nil, err
			}
			h.Args[i] = args
		}
		return h, nil
	}
	return nil, common.NewInvalidCaseError(loc, v)
}

func (r *run) readBackArgs(depth int, vs []Value) ([]syntax.Expression, error) {
	return common.MapErr(func(v Value) (syntax.Expression, error) { return r.readBack(depth, v) }, vs)
}

// readBackCases normalizes case bodies under fresh variables.
func (r *run) readBackCases(depth int, cases []*syntax.Case, env Env) ([]*syntax.Case, error) {
	result := make([]*syntax.Case, len(cases))
	for i, c := range cases {
		x := *c
		x.Pattern.Params = common.Map(func(p *syntax.ParamInst) *syntax.ParamInst {
			return &syntax.ParamInst{Location: p.Location, Name: p.Name}
		}, c.Pattern.Params)
		if c.Body != nil {
			v, err := r.eval(env.Push(fresh(depth, c.Pattern.Params)), c.Body)
			if err != nil {
				return nil, err
			}
			body, err := r.readBack(depth+1, v)
			if err != nil {
				return nil, err
			}
			x.Body = body
		}
		result[i] = &x
	}
	return result, nil
}
