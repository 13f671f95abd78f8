package duoc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"
	"duo-compiler/internal/pkg/processors/loader"
	"duo-compiler/internal/pkg/processors/normalizer"
	"duo-compiler/internal/pkg/processors/xfunc"
)

const Version = "0.1.0"

// Check elaborates mod and reports its errors to log. The result holds the
// declarations that checked even when others failed.
func Check(mod *syntax.Module, opts checker.Options, log *common.LogWriter) *typed.Module {
	checked, errs := checker.CheckModule(mod, opts)
	log.Err(errs...)
	return checked
}

// CheckFile loads a lowered module from path and checks it. A module that
// cannot be loaded yields nil.
func CheckFile(path string, opts checker.Options, log *common.LogWriter) *typed.Module {
	mod, err := loader.LoadFile(path)
	if err != nil {
		log.Err(err)
		return nil
	}
	return Check(mod, opts, log)
}

// Normalize computes the normal form of the parameterless let binding name
// together with its type.
func Normalize(mod *typed.Module, name ast.Identifier, opts checker.Options) (syntax.Expression, syntax.Expression, error) {
	decl, ok := mod.Lookup(name)
	if !ok {
		return nil, nil, common.NewLookupError(ast.Location{}, "no checked declaration `%s`", name)
	}
	let, ok := decl.(*syntax.Let)
	if !ok {
		return nil, nil, common.NewTypeError(decl.GetLocation(), nil, "`%s` is not a let binding", name)
	}
	if len(let.Params) > 0 {
		return nil, nil, common.NewTypeError(let.Location, nil, "`%s` expects %d argument(s), got 0", name, len(let.Params))
	}
	return NormalizeExpr(mod.Table, syntax.NewCall(let.Location, syntax.CallLet, name), opts)
}

// NormalizeExpr checks the closed expression e against table and
// normalizes it. The type is returned in normal form too.
func NormalizeExpr(table *typed.Table, e syntax.Expression, opts checker.Options) (syntax.Expression, syntax.Expression, error) {
	exp, typ, err := checker.InferExpr(table, e, opts)
	if err != nil {
		return nil, nil, err
	}
	n := normalizer.New(table, normalizer.WithFuel(opts.Fuel))
	nf, err := n.NormalizeClosed(exp)
	if err != nil {
		return nil, nil, err
	}
	nt, err := n.NormalizeClosed(typ)
	if err != nil {
		return nil, nil, err
	}
	return nf, nt, nil
}

// Xfunc replaces typ in mod by its dual and checks the outcome. Errors of
// the transformed module are reported to log.
func Xfunc(mod *typed.Module, typ ast.Identifier, opts checker.Options, log *common.LogWriter) *xfunc.Result {
	result, errs := xfunc.Run(mod, typ, opts)
	log.Err(errs...)
	return result
}
