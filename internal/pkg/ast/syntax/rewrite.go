package syntax

import "duo-compiler/internal/pkg/common"

// Rewriter is called on every node after its children were rewritten. depth
// is the number of telescopes bound between the root of the traversal and
// the node.
type Rewriter func(e Expression, depth int) Expression

// Rewrite rebuilds e bottom-up, passing every node through f. Type
// annotations, pattern parameter types and hole arguments are rewritten as
// well.
func Rewrite(e Expression, depth int, f Rewriter) Expression {
	return rewriter{f: f, holeArgs: true}.rewrite(e, depth)
}

// RewriteKeepingHoleArgs is Rewrite without descending into hole arguments.
func RewriteKeepingHoleArgs(e Expression, depth int, f Rewriter) Expression {
	return rewriter{f: f}.rewrite(e, depth)
}

type rewriter struct {
	f        Rewriter
	holeArgs bool
}

func (w rewriter) rewrite(e Expression, depth int) Expression {
	if e == nil {
		return nil
	}
	var r Expression
	switch e.(type) {
	case *Variable:
		x := *e.(*Variable)
		x.Type = w.rewrite(x.Type, depth)
		r = &x
	case *TypCtor:
		x := *e.(*TypCtor)
		x.Type = w.rewrite(x.Type, depth)
		x.Args = w.args(x.Args, depth)
		r = &x
	case *Call:
		x := *e.(*Call)
		x.Type = w.rewrite(x.Type, depth)
		x.Args = w.args(x.Args, depth)
		r = &x
	case *DotCall:
		x := *e.(*DotCall)
		x.Type = w.rewrite(x.Type, depth)
		x.Exp = w.rewrite(x.Exp, depth)
		x.Args = w.args(x.Args, depth)
		r = &x
	case *Anno:
		x := *e.(*Anno)
		x.Type = w.rewrite(x.Type, depth)
		x.Exp = w.rewrite(x.Exp, depth)
		x.Annotation = w.rewrite(x.Annotation, depth)
		r = &x
	case *TypeUniv:
		x := *e.(*TypeUniv)
		x.Type = w.rewrite(x.Type, depth)
		r = &x
	case *Literal:
		x := *e.(*Literal)
		x.Type = w.rewrite(x.Type, depth)
		r = &x
	case *Hole:
		x := *e.(*Hole)
		x.Type = w.rewrite(x.Type, depth)
		if w.holeArgs && x.Args != nil {
			args := make([][]Expression, len(x.Args))
			for i, tel := range x.Args {
				args[i] = w.args(tel, depth)
			}
			x.Args = args
		}
		r = &x
	case *LocalMatch:
		x := *e.(*LocalMatch)
		x.Type = w.rewrite(x.Type, depth)
		x.OnExp = w.rewrite(x.OnExp, depth)
		x.Cases = w.cases(x.Cases, depth)
		r = &x
	case *LocalComatch:
		x := *e.(*LocalComatch)
		x.Type = w.rewrite(x.Type, depth)
		x.Cases = w.cases(x.Cases, depth)
		r = &x
	default:
		panic(common.NewInvalidCaseError(e.GetLocation(), e))
	}
	return w.f(r, depth)
}

func (w rewriter) args(args []Expression, depth int) []Expression {
	if args == nil {
		return nil
	}
	result := make([]Expression, len(args))
	for i, a := range args {
		result[i] = w.rewrite(a, depth)
	}
	return result
}

// RewriteCases rewrites cases found at depth. Each case binds one telescope.
func RewriteCases(cases []*Case, depth int, f Rewriter) []*Case {
	return rewriter{f: f, holeArgs: true}.cases(cases, depth)
}

func (w rewriter) cases(cases []*Case, depth int) []*Case {
	if cases == nil {
		return nil
	}
	result := make([]*Case, len(cases))
	for i, c := range cases {
		x := *c
		x.Pattern.Params = w.paramInsts(c.Pattern.Params, depth+1)
		x.Body = w.rewrite(c.Body, depth+1)
		result[i] = &x
	}
	return result
}

func (w rewriter) paramInsts(params []*ParamInst, depth int) []*ParamInst {
	if params == nil {
		return nil
	}
	result := make([]*ParamInst, len(params))
	for i, p := range params {
		x := *p
		x.Type = w.rewrite(p.Type, depth)
		result[i] = &x
	}
	return result
}

func rewriteTelescope(params Telescope, depth int, f Rewriter) Telescope {
	if params == nil {
		return nil
	}
	result := make(Telescope, len(params))
	for i, p := range params {
		x := *p
		x.Type = Rewrite(p.Type, depth, f)
		result[i] = &x
	}
	return result
}

func rewriteTypCtor(t *TypCtor, depth int, f Rewriter) *TypCtor {
	if t == nil {
		return nil
	}
	r, ok := Rewrite(t, depth, f).(*TypCtor)
	if !ok {
		panic(common.NewInvalidCaseError(t.GetLocation(), t))
	}
	return r
}

// RewriteDecl rewrites every expression of a declaration. Declarations are
// closed; their parameters form the first telescope, a self parameter the
// second.
func RewriteDecl(decl Declaration, f Rewriter) Declaration {
	switch decl.(type) {
	case *Data:
		d := *decl.(*Data)
		d.Params = rewriteTelescope(d.Params, 1, f)
		ctors := make([]*Ctor, len(d.Ctors))
		for i, c := range d.Ctors {
			x := *c
			x.Params = rewriteTelescope(c.Params, 1, f)
			x.Typ = rewriteTypCtor(c.Typ, 1, f)
			ctors[i] = &x
		}
		d.Ctors = ctors
		return &d
	case *Codata:
		d := *decl.(*Codata)
		d.Params = rewriteTelescope(d.Params, 1, f)
		dtors := make([]*Dtor, len(d.Dtors))
		for i, c := range d.Dtors {
			x := *c
			x.Params = rewriteTelescope(c.Params, 1, f)
			x.Self.Type = rewriteTypCtor(c.Self.Type, 1, f)
			x.RetTyp = Rewrite(c.RetTyp, 2, f)
			dtors[i] = &x
		}
		d.Dtors = dtors
		return &d
	case *Def:
		d := *decl.(*Def)
		d.Params = rewriteTelescope(d.Params, 1, f)
		d.Self.Type = rewriteTypCtor(d.Self.Type, 1, f)
		d.RetTyp = Rewrite(d.RetTyp, 2, f)
		d.Cases = RewriteCases(d.Cases, 1, f)
		return &d
	case *Codef:
		d := *decl.(*Codef)
		d.Params = rewriteTelescope(d.Params, 1, f)
		d.Typ = rewriteTypCtor(d.Typ, 1, f)
		d.Cases = RewriteCases(d.Cases, 1, f)
		return &d
	case *Let:
		d := *decl.(*Let)
		d.Params = rewriteTelescope(d.Params, 1, f)
		d.Typ = Rewrite(d.Typ, 1, f)
		d.Body = Rewrite(d.Body, 1, f)
		return &d
	case *Infix:
		return decl
	case *Note:
		return decl
	}
	panic(common.NewInvalidCaseError(decl.GetLocation(), decl))
}

// Walk visits e pre-order. Returning false from f skips the children of the
// node. Types are not visited.
func Walk(e Expression, depth int, f func(e Expression, depth int) bool) {
	if e == nil || !f(e, depth) {
		return
	}
	switch e.(type) {
	case *Variable, *TypeUniv, *Literal:
	case *TypCtor:
		walkArgs(e.(*TypCtor).Args, depth, f)
	case *Call:
		walkArgs(e.(*Call).Args, depth, f)
	case *DotCall:
		x := e.(*DotCall)
		Walk(x.Exp, depth, f)
		walkArgs(x.Args, depth, f)
	case *Anno:
		x := e.(*Anno)
		Walk(x.Exp, depth, f)
		Walk(x.Annotation, depth, f)
	case *Hole:
		for _, tel := range e.(*Hole).Args {
			walkArgs(tel, depth, f)
		}
	case *LocalMatch:
		x := e.(*LocalMatch)
		Walk(x.OnExp, depth, f)
		for _, c := range x.Cases {
			Walk(c.Body, depth+1, f)
		}
	case *LocalComatch:
		for _, c := range e.(*LocalComatch).Cases {
			Walk(c.Body, depth+1, f)
		}
	default:
		panic(common.NewInvalidCaseError(e.GetLocation(), e))
	}
}

func walkArgs(args []Expression, depth int, f func(Expression, int) bool) {
	for _, a := range args {
		Walk(a, depth, f)
	}
}
