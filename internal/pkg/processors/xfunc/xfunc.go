package xfunc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"

	"github.com/hashicorp/go-set/v3"
)

type Direction int

const (
	// Refunctionalization turns a data type into a codata type.
	Refunctionalization Direction = iota
	// Defunctionalization turns a codata type into a data type.
	Defunctionalization
)

func (d Direction) String() string {
	switch d {
	case Refunctionalization:
		return "refunctionalization"
	case Defunctionalization:
		return "defunctionalization"
	}
	return "unknown"
}

// Result is a module in which one type was replaced by its dual.
type Result struct {
	Module    *typed.Module
	Type      ast.Identifier
	Direction Direction
	producers *set.Set[ast.Identifier]
	consumers *set.Set[ast.Identifier]
}

// Run transforms typ in the checked module mod into its dual and checks the
// transformed module again. The direction follows the kind of typ. Errors of
// the second check are returned as they are; Result.Module then holds the
// declarations that did check.
func Run(mod *typed.Module, typ ast.Identifier, opts checker.Options) (result *Result, errs []error) {
	defer common.RecoverImpossible(func(err error) {
		result, errs = nil, []error{err}
	})
	tracer := opts.Tracer
	if tracer == nil {
		tracer = common.NopTracer{}
	}

	decl, ok := mod.Lookup(typ)
	if !ok {
		return nil, []error{common.NewLookupError(ast.Location{}, "no checked type `%s` to transform", typ)}
	}

	decls, err := Lift(mod, typ)
	if err != nil {
		return nil, []error{err}
	}
	tracer.Trace("xfunc %s: lifted %d local (co)matches", typ, len(decls)-len(mod.Decls))

	r := &Result{Type: typ}
	var m *Matrix
	switch decl.(type) {
	case *syntax.Data:
		r.Direction = Refunctionalization
		m, err = fromData(decl.(*syntax.Data), decls)
	case *syntax.Codata:
		r.Direction = Defunctionalization
		m, err = fromCodata(decl.(*syntax.Codata), decls)
	default:
		return nil, []error{common.NewTypeError(decl.GetLocation(), nil, "`%s` is neither a data nor a codata type", typ)}
	}
	if err != nil {
		return nil, []error{err}
	}
	tracer.Trace("xfunc %s: %s of %d producer(s) and %d consumer(s)",
		typ, r.Direction, len(m.Producers), len(m.Consumers))

	r.producers = set.From(common.Map(func(p *Producer) ast.Identifier { return p.Name }, m.Producers))
	r.consumers = set.From(common.Map(func(c *Consumer) ast.Identifier { return c.Name }, m.Consumers))

	var dual syntax.Declaration
	var rest []syntax.Declaration
	if r.Direction == Refunctionalization {
		dual, rest = Refunctionalize(m)
	} else {
		dual, rest = Defunctionalize(m)
	}

	var out []syntax.Declaration
	for _, d := range decls {
		switch {
		case d.GetName() == typ:
			out = append(out, dual)
			out = append(out, rest...)
		case r.isXtorDecl(d):
		default:
			out = append(out, d)
		}
	}
	for i, d := range out {
		out[i] = syntax.StripDeclTypes(syntax.RewriteDecl(d, r.flip))
	}

	checked, errs := checker.CheckModule(&syntax.Module{Name: mod.Name, Decls: out}, opts)
	tracer.Trace("xfunc %s: re-checked with %d error(s)", typ, len(errs))
	r.Module = checked
	return r, errs
}

// isXtorDecl reports whether decl is a definition on, or a codefinition
// of, the transformed type.
func (r *Result) isXtorDecl(decl syntax.Declaration) bool {
	switch decl.(type) {
	case *syntax.Def:
		return decl.(*syntax.Def).Self.Type.Name == r.Type
	case *syntax.Codef:
		return decl.(*syntax.Codef).Typ.Name == r.Type
	}
	return false
}

func (r *Result) flip(x syntax.Expression, _ int) syntax.Expression {
	switch x.(type) {
	case *syntax.Call:
		c := *x.(*syntax.Call)
		if c.Kind == syntax.CallLet || !r.producers.Contains(c.Name) {
			return x
		}
		c.Kind = syntax.CallConstructor
		if r.Direction == Refunctionalization {
			c.Kind = syntax.CallCodefinition
		}
		return &c
	case *syntax.DotCall:
		c := *x.(*syntax.DotCall)
		if !r.consumers.Contains(c.Name) {
			return x
		}
		c.Kind = syntax.DotCallDefinition
		if r.Direction == Refunctionalization {
			c.Kind = syntax.DotCallDestructor
		}
		return &c
	}
	return x
}

// Rewrite adapts an expression written against the original module to the
// transformed one: calls of producers and consumers of the type switch
// kind, and annotations are stripped so it can be checked again. Local
// (co)matches of the type are not lifted.
func (r *Result) Rewrite(e syntax.Expression) syntax.Expression {
	return syntax.StripTypes(syntax.Rewrite(e, 0, r.flip))
}
