package testprogs

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
)

// Program is a module plus expressions to evaluate against it.
type Program struct {
	Module *syntax.Module
	Exprs  map[string]syntax.Expression
	b      *builder
}

func newProgram(name ast.QualifiedIdentifier) *Program {
	return &Program{
		Module: &syntax.Module{Name: name},
		Exprs:  map[string]syntax.Expression{},
		b:      &builder{},
	}
}

func (p *Program) add(decl syntax.Declaration) {
	p.Module.Decls = append(p.Module.Decls, decl)
}

// natDecls declares
//
//	data Nat { Zero, Suc(n: Nat) }
//	def Nat.pred: Nat { Zero => Zero, Suc(n) => n }
func (p *Program) natDecls() {
	b := p.b
	loc := b.decl()
	p.add(&syntax.Data{
		Location: loc,
		Doc:      "Natural numbers",
		Name:     "Nat",
		Ctors: []*syntax.Ctor{
			{Location: b.loc(), Name: "Zero", Typ: b.typ("Nat")},
			{Location: b.loc(), Name: "Suc", Params: syntax.Telescope{b.param("n", b.typ("Nat"))}, Typ: b.typ("Nat")},
		},
	})

	loc = b.decl()
	p.add(&syntax.Def{
		Location: loc,
		Name:     "pred",
		Self:     b.self(b.typ("Nat")),
		RetTyp:   b.typ("Nat"),
		Cases: []*syntax.Case{
			b.cs(b.pattern("Zero"), b.ctor("Zero")),
			b.cs(b.pattern("Suc", "n"), b.v("n", 0, 0)),
		},
	})
}

// Nat is the natural numbers with a predecessor function.
func Nat() *Program {
	p := newProgram("Nat")
	p.natDecls()
	b := p.b
	b.decl()
	p.Exprs["pred"] = b.def(b.ctor("Suc", b.ctor("Zero")), "pred")
	p.Exprs["two"] = b.ctor("Suc", b.ctor("Suc", b.ctor("Zero")))
	return p
}

// Vec adds length-indexed vectors of naturals and a head function whose
// empty case is absurd:
//
//	data Vec(n: Nat) { VNil: Vec(Zero), VCons(n: Nat, x: Nat, xs: Vec(n)): Vec(Suc(n)) }
//	def Vec(Suc(n)).head(n: Nat): Nat { VNil absurd, VCons(m, x, xs) => x }
//
// With nilBody the VNil case gets the body Zero instead, which is an error.
func Vec(nilBody bool) *Program {
	p := newProgram("Vec")
	p.natDecls()
	b := p.b

	loc := b.decl()
	p.add(&syntax.Data{
		Location: loc,
		Name:     "Vec",
		Params:   syntax.Telescope{b.param("n", b.typ("Nat"))},
		Ctors: []*syntax.Ctor{
			{Location: b.loc(), Name: "VNil", Typ: b.typ("Vec", b.ctor("Zero"))},
			{
				Location: b.loc(),
				Name:     "VCons",
				Params: syntax.Telescope{
					b.param("n", b.typ("Nat")),
					b.param("x", b.typ("Nat")),
					b.param("xs", b.typ("Vec", b.v("n", 0, 0))),
				},
				Typ: b.typ("Vec", b.ctor("Suc", b.v("n", 0, 0))),
			},
		},
	})

	loc = b.decl()
	nilCase := b.absurd(b.pattern("VNil"))
	if nilBody {
		nilCase = b.cs(b.pattern("VNil"), b.ctor("Zero"))
	}
	p.add(&syntax.Def{
		Location: loc,
		Name:     "head",
		Params:   syntax.Telescope{b.param("n", b.typ("Nat"))},
		Self:     b.self(b.typ("Vec", b.ctor("Suc", b.v("n", 0, 0)))),
		RetTyp:   b.typ("Nat"),
		Cases: []*syntax.Case{
			nilCase,
			b.cs(b.pattern("VCons", "m", "x", "xs"), b.v("x", 0, 1)),
		},
	})

	b.decl()
	one := b.ctor("VCons", syntax.NewHole(b.loc()), b.ctor("Suc", b.ctor("Zero")), b.ctor("VNil"))
	p.Exprs["one"] = one
	p.Exprs["head"] = b.def(one, "head", syntax.NewHole(b.loc()))
	return p
}

// Stream is an infinite stream of ones:
//
//	codata Stream { Stream.head: Nat, Stream.tail: Stream }
//	codef Ones: Stream { .head => Suc(Zero), .tail => Ones }
func Stream() *Program {
	p := newProgram("Stream")
	p.natDecls()
	b := p.b

	loc := b.decl()
	p.add(&syntax.Codata{
		Location: loc,
		Name:     "Stream",
		Dtors: []*syntax.Dtor{
			{Location: b.loc(), Name: "head", Self: b.self(b.typ("Stream")), RetTyp: b.typ("Nat")},
			{Location: b.loc(), Name: "tail", Self: b.self(b.typ("Stream")), RetTyp: b.typ("Stream")},
		},
	})

	loc = b.decl()
	p.add(&syntax.Codef{
		Location: loc,
		Name:     "Ones",
		Typ:      b.typ("Stream"),
		Cases: []*syntax.Case{
			b.cs(b.copattern("head"), b.ctor("Suc", b.ctor("Zero"))),
			b.cs(b.copattern("tail"), b.codef("Ones")),
		},
	})

	b.decl()
	p.Exprs["second"] = b.dtor(b.dtor(b.codef("Ones"), "tail"), "head")
	return p
}

// Box has a single destructor and a single producer returning a literal:
//
//	codata Box { Box.head: Int }
//	codef Answer: Box { .head => 42 }
func Box() *Program {
	p := newProgram("Box")
	b := p.b

	loc := b.decl()
	p.add(&syntax.Codata{
		Location: loc,
		Name:     "Box",
		Dtors: []*syntax.Dtor{
			{Location: b.loc(), Name: "head", Self: b.self(b.typ("Box")), RetTyp: b.typ(ast.BuiltinInt)},
		},
	})

	loc = b.decl()
	p.add(&syntax.Codef{
		Location: loc,
		Name:     "Answer",
		Typ:      b.typ("Box"),
		Cases: []*syntax.Case{
			b.cs(b.copattern("head"), syntax.NewLiteral(b.loc(), ast.CInt{Value: 42})),
		},
	})

	b.decl()
	p.Exprs["head"] = b.dtor(b.codef("Answer"), "head")
	return p
}

// Fun is a polymorphic function type used through a local comatch:
//
//	codata Fun(a: Type, b: Type) { Fun(a, b).ap(a: Type, b: Type, x: a): b }
//	let idNat: Fun(Nat, Nat) { comatch { .ap(a, b, x) => x } }
func Fun() *Program {
	p := newProgram("Fun")
	p.natDecls()
	b := p.b

	loc := b.decl()
	p.add(&syntax.Codata{
		Location: loc,
		Name:     "Fun",
		Params: syntax.Telescope{
			b.param("a", syntax.NewTypeUniv(b.loc())),
			b.param("b", syntax.NewTypeUniv(b.loc())),
		},
		Dtors: []*syntax.Dtor{
			{
				Location: b.loc(),
				Name:     "ap",
				Params: syntax.Telescope{
					b.param("a", syntax.NewTypeUniv(b.loc())),
					b.param("b", syntax.NewTypeUniv(b.loc())),
					b.param("x", b.v("a", 0, 0)),
				},
				Self:   b.self(b.typ("Fun", b.v("a", 0, 0), b.v("b", 0, 1))),
				RetTyp: b.v("b", 1, 1),
			},
		},
	})

	loc = b.decl()
	p.add(&syntax.Let{
		Location: loc,
		Name:     "idNat",
		Typ:      b.typ("Fun", b.typ("Nat"), b.typ("Nat")),
		Body: syntax.NewLocalComatch(b.loc(), "",
			b.cs(b.copattern("ap", "a", "b", "x"), b.v("x", 0, 2)),
		),
	})

	b.decl()
	p.Exprs["apply"] = b.dtor(b.let("idNat"), "ap", b.typ("Nat"), b.typ("Nat"), b.ctor("Zero"))
	return p
}

// Mismatch checks a natural number against a type without constructors:
//
//	data Empty {}
//	let bad: Empty { Suc(Zero) }
//	let alsoBad: Empty { bad }
func Mismatch() *Program {
	p := newProgram("Mismatch")
	p.natDecls()
	b := p.b

	loc := b.decl()
	p.add(&syntax.Data{Location: loc, Name: "Empty"})

	loc = b.decl()
	body := b.ctor("Suc", b.ctor("Zero"))
	p.add(&syntax.Let{Location: loc, Name: "bad", Typ: b.typ("Empty"), Body: body})
	p.Exprs["bad"] = body

	loc = b.decl()
	p.add(&syntax.Let{Location: loc, Name: "alsoBad", Typ: b.typ("Empty"), Body: b.let("bad")})
	return p
}

// Match exercises a local match with a label:
//
//	let isZero(n: Nat): Nat { n.match isZero { Zero => Suc(Zero), Suc(m) => Zero } }
func Match() *Program {
	p := newProgram("Match")
	p.natDecls()
	b := p.b

	loc := b.decl()
	p.add(&syntax.Let{
		Location: loc,
		Name:     "isZero",
		Params:   syntax.Telescope{b.param("n", b.typ("Nat"))},
		Typ:      b.typ("Nat"),
		Body: syntax.NewLocalMatch(b.loc(), "isZero", b.v("n", 0, 0),
			b.cs(b.pattern("Zero"), b.ctor("Suc", b.ctor("Zero"))),
			b.cs(b.pattern("Suc", "m"), b.ctor("Zero")),
		),
	})

	b.decl()
	p.Exprs["zero"] = b.let("isZero", b.ctor("Zero"))
	p.Exprs["one"] = b.let("isZero", b.ctor("Suc", b.ctor("Zero")))
	return p
}
