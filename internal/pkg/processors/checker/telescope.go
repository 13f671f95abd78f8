package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

// checkTelescope checks declared parameters left to right. It returns the
// annotated telescope and ctx extended by it.
func (c *checker) checkTelescope(ctx *syntax.Ctx, params syntax.Telescope) (syntax.Telescope, *syntax.Ctx, error) {
	inner := ctx.PushTelescope(nil)
	result := make(syntax.Telescope, len(params))
	for i, p := range params {
		typ, err := c.checkType(inner, p.Type)
		if err != nil {
			return nil, nil, err
		}
		result[i] = &syntax.Param{Location: p.Location, Name: p.Name, Type: typ}
		inner = inner.Bind(p.Name, typ)
	}
	return result, inner, nil
}

func (c *checker) checkType(ctx *syntax.Ctx, e syntax.Expression) (syntax.Expression, error) {
	return c.check(ctx, e, syntax.NewTypeUniv(e.GetLocation()))
}

// checkArgs checks args against the parameters of name. A parameter type
// sees the earlier arguments.
func (c *checker) checkArgs(ctx *syntax.Ctx, loc ast.Location, name ast.Identifier, params syntax.Telescope, args []syntax.Expression) ([]syntax.Expression, error) {
	if len(params) != len(args) {
		return nil, common.NewTypeError(loc, nil,
			"`%s` expects %d argument(s), got %d", name, len(params), len(args))
	}
	result := make([]syntax.Expression, len(args))
	for i, arg := range args {
		expected := syntax.Instantiate(params[i].Type, [][]syntax.Expression{result[:i]})
		checked, err := c.check(ctx, arg, expected)
		if err != nil {
			return nil, err
		}
		result[i] = checked
	}
	return result, nil
}

// checkPatternParams binds the parameters of a pattern with the types of the
// constructor or destructor parameters it matches.
func checkPatternParams(ctx *syntax.Ctx, pattern syntax.Pattern, params syntax.Telescope) ([]*syntax.ParamInst, *syntax.Ctx) {
	inner := ctx.PushTelescope(nil)
	result := make([]*syntax.ParamInst, len(params))
	for i, p := range params {
		result[i] = &syntax.ParamInst{
			Location: pattern.Params[i].Location,
			Name:     pattern.Params[i].Name,
			Type:     p.Type,
		}
		inner = inner.Bind(pattern.Params[i].Name, p.Type)
	}
	return result, inner
}
