package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/normalizer"
	"duo-compiler/internal/pkg/processors/unifier"
	"errors"
)

type Options struct {
	// Tracer receives debug events, nil means none.
	Tracer common.Tracer
	// Fuel bounds the reduction steps of one normalization, zero means
	// normalizer.DefaultFuel.
	Fuel int
}

func (o Options) tracer() common.Tracer {
	if o.Tracer == nil {
		return common.NopTracer{}
	}
	return o.Tracer
}

func (o Options) fuel() int {
	if o.Fuel <= 0 {
		return normalizer.DefaultFuel
	}
	return o.Fuel
}

type checker struct {
	table   *typed.Table
	metas   *unifier.MetaVars
	unifier *unifier.Unifier
	tracer  common.Tracer
	fuel    int
}

func newChecker(table *typed.Table, opts Options) *checker {
	c := &checker{table: table, tracer: opts.tracer(), fuel: opts.fuel()}
	c.reset()
	return c
}

// reset starts a new elaboration run with an empty metavariable table.
func (c *checker) reset() {
	c.metas = unifier.NewMetaVars()
	c.unifier = unifier.New(c.table, c.metas, c.tracer, c.fuel)
}

// CheckModule checks every declaration of mod, group by group. Declarations
// that fail are reported and left out of the result; declarations depending
// on them fail silently.
func CheckModule(mod *syntax.Module, opts Options) (result *typed.Module, errs []error) {
	defer common.RecoverImpossible(func(err error) {
		result = &typed.Module{Name: mod.Name, Table: typed.NewTable().Freeze()}
		errs = append(errs, err)
	})
	c := newChecker(typed.NewTable(), opts)
	checked := map[ast.Identifier]syntax.Declaration{}

	for _, group := range groups(mod.Decls) {
		for name, decl := range c.checkGroup(group, &errs) {
			checked[name] = decl
		}
	}

	result = &typed.Module{Name: mod.Name, Table: c.table.Freeze()}
	for _, d := range mod.Decls {
		if decl, ok := checked[d.GetName()]; ok {
			result.Decls = append(result.Decls, decl)
		}
	}
	return result, errs
}

type groupState struct {
	decls  []syntax.Declaration
	failed map[ast.Identifier]bool
}

func (g *groupState) fail(name ast.Identifier, report *[]error, errs ...error) {
	g.failed[name] = true
	for _, err := range common.Flatten(errs...) {
		if !common.IsSwallowed(err) {
			*report = append(*report, err)
		}
	}
}

// owner returns the declaration of the group whose span contains loc.
func (g *groupState) owner(loc ast.Location) (ast.Identifier, bool) {
	for _, d := range g.decls {
		if d.GetLocation().Contains(loc) {
			return d.GetName(), true
		}
	}
	return "", false
}

func (g *groupState) failAt(loc ast.Location, report *[]error, err error) {
	if name, ok := g.owner(loc); ok {
		g.fail(name, report, err)
		return
	}
	for i, d := range g.decls {
		if i == 0 {
			g.fail(d.GetName(), report, err)
		} else {
			g.fail(d.GetName(), report)
		}
	}
}

func (c *checker) checkGroup(group []syntax.Declaration, report *[]error) map[ast.Identifier]syntax.Declaration {
	c.reset()
	c.tracer.Trace("group %s", common.Join(common.Map(func(d syntax.Declaration) quoted { return quote(d.GetName()) }, group), ", "))

	g := &groupState{failed: map[ast.Identifier]bool{}}
	for _, d := range group {
		if err := c.table.Register(d, typed.Pending); err != nil {
			*report = append(*report, err)
			continue
		}
		g.decls = append(g.decls, d)
	}

	decls := map[ast.Identifier]syntax.Declaration{}
	for _, d := range g.decls {
		decls[d.GetName()] = d
	}

	// Type parameters first, every other signature may mention the types.
	for _, d := range g.decls {
		checked, err := c.checkTypeParams(d)
		if err != nil {
			g.fail(d.GetName(), report, err)
			continue
		}
		decls[d.GetName()] = checked
		c.table.Update(checked)
	}
	for _, d := range typesFirst(g.decls) {
		if g.failed[d.GetName()] {
			continue
		}
		checked, err := c.checkSignature(decls[d.GetName()])
		if err != nil {
			g.fail(d.GetName(), report, err)
			continue
		}
		decls[d.GetName()] = checked
		c.table.Update(checked)
	}
	for _, d := range g.decls {
		if g.failed[d.GetName()] {
			continue
		}
		checked, errs := c.checkBody(decls[d.GetName()])
		if len(errs) > 0 {
			g.fail(d.GetName(), report, errs...)
			continue
		}
		decls[d.GetName()] = checked
	}

	for _, err := range c.unifier.Finish() {
		g.failAt(common.LocationOf(err), report, err)
	}
	unsolved := c.metas.Unsolved()
	for _, id := range unsolved {
		loc := c.metas.Location(id)
		g.failAt(loc, report, common.NewTypeError(loc, nil, "cannot infer a value for metavariable %s", id))
	}

	result := map[ast.Identifier]syntax.Declaration{}
	for _, d := range g.decls {
		name := d.GetName()
		if g.failed[name] {
			c.table.Fail(name)
			continue
		}
		zonked, err := unifier.ZonkDecl(c.metas, decls[name])
		if err != nil {
			if len(unsolved) > 0 {
				err = common.ErrSwallowed
			} else {
				err = common.NewImpossibleError(d.GetLocation(), "zonking a checked declaration: %v", err)
			}
			g.fail(name, report, err)
			c.table.Fail(name)
			continue
		}
		c.table.Publish(zonked)
		result[name] = zonked
	}
	c.tracer.Trace("group done, %d of %d declarations checked", len(result), len(group))
	return result
}

func typesFirst(decls []syntax.Declaration) []syntax.Declaration {
	isType := func(d syntax.Declaration) bool {
		switch d.(type) {
		case *syntax.Data, *syntax.Codata:
			return true
		}
		return false
	}
	var types, others []syntax.Declaration
	for _, d := range decls {
		if isType(d) {
			types = append(types, d)
		} else {
			others = append(others, d)
		}
	}
	return append(types, others...)
}

// InferExpr checks a closed expression against the declarations of table.
// It returns the annotated expression and its type.
func InferExpr(table *typed.Table, e syntax.Expression, opts Options) (_ syntax.Expression, _ syntax.Expression, err error) {
	defer common.RecoverImpossible(func(impossible error) { err = impossible })
	c := newChecker(table.Thaw(), opts)
	ctx := syntax.NewCtx()
	inferred, err := c.infer(ctx, e)
	if err != nil {
		return nil, nil, err
	}
	var errs []error
	errs = append(errs, c.unifier.Finish()...)
	for _, id := range c.metas.Unsolved() {
		errs = append(errs, common.NewTypeError(c.metas.Location(id), nil, "cannot infer a value for metavariable %s", id))
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	zonked, err := unifier.Zonk(c.metas, inferred)
	if err != nil {
		return nil, nil, err
	}
	return zonked, zonked.GetType(), nil
}
