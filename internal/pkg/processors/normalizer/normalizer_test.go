package normalizer_test

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"
	"duo-compiler/internal/pkg/processors/normalizer"
	"duo-compiler/internal/pkg/testprogs"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func mustCheck(t *testing.T, p *testprogs.Program) *typed.Module {
	t.Helper()
	mod, errs := checker.CheckModule(p.Module, checker.Options{})
	if len(errs) > 0 {
		t.Fatalf("checking %s: %v", p.Module.Name, errs)
	}
	return mod
}

var loc = ast.Location{}

func zero() syntax.Expression { return syntax.NewCall(loc, syntax.CallConstructor, "Zero") }
func suc(e syntax.Expression) syntax.Expression {
	return syntax.NewCall(loc, syntax.CallConstructor, "Suc", e)
}

func TestNormalizeClosed(t *testing.T) {
	tests := []struct {
		name    string
		program *testprogs.Program
		expr    string
		want    syntax.Expression
	}{
		{"pred", testprogs.Nat(), "pred", zero()},
		{"constructors are values", testprogs.Nat(), "two", suc(suc(zero()))},
		{"stream", testprogs.Stream(), "second", suc(zero())},
		{"codata literal", testprogs.Box(), "head", syntax.NewLiteral(loc, ast.CInt{Value: 42})},
		{"local comatch", testprogs.Fun(), "apply", zero()},
		{"local match on zero", testprogs.Match(), "zero", suc(zero())},
		{"local match on one", testprogs.Match(), "one", zero()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustCheck(t, tt.program)
			n := normalizer.New(mod.Table)
			got, err := n.NormalizeClosed(tt.program.Exprs[tt.expr])
			if err != nil {
				t.Fatal(err)
			}
			if !syntax.Equal(got, tt.want) {
				t.Errorf("normal form of %s = %s, want %s", tt.program.Exprs[tt.expr], got, tt.want)
			}
			again, err := n.NormalizeClosed(tt.program.Exprs[tt.expr])
			if err != nil || !syntax.Equal(got, again) {
				t.Errorf("normalizing again gave %s, %v", again, err)
			}
		})
	}
}

func TestNormalizeOpen(t *testing.T) {
	mod := mustCheck(t, testprogs.Nat())
	n := normalizer.New(mod.Table)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: syntax.NewTypCtor(loc, "Nat")}})
	x := syntax.NewVariable(loc, "n", ast.Idx{Fst: 0, Snd: 0})

	stuck := syntax.NewDotCall(loc, syntax.DotCallDefinition, x, "pred")
	got, err := n.Normalize(ctx, syntax.NewDotCall(loc, syntax.DotCallDefinition, suc(stuck), "pred"))
	if err != nil {
		t.Fatal(err)
	}
	if !syntax.Equal(got, stuck) {
		t.Errorf("Suc(n.pred).pred = %s, want n.pred", got)
	}

	eq, err := n.Equal(ctx, syntax.NewDotCall(loc, syntax.DotCallDefinition, suc(x), "pred"), x)
	if err != nil || !eq {
		t.Errorf("Suc(n).pred and n are not equal: %v", err)
	}
	eq, err = n.Equal(ctx, x, zero())
	if err != nil || eq {
		t.Errorf("n and Zero are equal: %v", err)
	}
}

func TestWhnf(t *testing.T) {
	mod := mustCheck(t, testprogs.Nat())
	n := normalizer.New(mod.Table)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: syntax.NewTypCtor(loc, "Nat")}})
	x := syntax.NewVariable(loc, "n", ast.Idx{Fst: 0, Snd: 0})
	pred := func(e syntax.Expression) syntax.Expression {
		return syntax.NewDotCall(loc, syntax.DotCallDefinition, e, "pred")
	}

	tests := []struct {
		name  string
		expr  syntax.Expression
		check func(normalizer.Value) bool
	}{
		{"constructor head", pred(suc(suc(x))), func(v normalizer.Value) bool {
			c, ok := v.(*normalizer.VCall)
			return ok && c.Name == "Suc" && len(c.Args) == 1
		}},
		{"variable head", pred(suc(x)), func(v normalizer.Value) bool {
			y, ok := v.(*normalizer.NVariable)
			return ok && y.Lvl == normalizer.Lvl{Fst: 0, Snd: 0}
		}},
		{"stuck on a variable", pred(x), func(v normalizer.Value) bool {
			d, ok := v.(*normalizer.NDotCall)
			return ok && d.Name == "pred"
		}},
		{"type constructor", syntax.NewTypCtor(loc, "Nat"), func(v normalizer.Value) bool {
			c, ok := v.(*normalizer.VTypCtor)
			return ok && c.Name == "Nat"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := n.Whnf(ctx, tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(v) {
				t.Errorf("Whnf(%s) = %s", tt.expr, spew.Sdump(v))
			}
		})
	}
}

func TestNormalizeUnderBinders(t *testing.T) {
	mod := mustCheck(t, testprogs.Fun())
	n := normalizer.New(mod.Table)
	got, err := n.NormalizeClosed(syntax.NewCall(loc, syntax.CallLet, "idNat"))
	if err != nil {
		t.Fatal(err)
	}
	comatch, ok := got.(*syntax.LocalComatch)
	if !ok || len(comatch.Cases) != 1 {
		t.Fatalf("idNat = %s", spew.Sdump(got))
	}
	want := syntax.NewVariable(loc, "x", ast.Idx{Fst: 0, Snd: 2})
	if !syntax.Equal(comatch.Cases[0].Body, want) {
		t.Errorf("body of idNat = %s, want x", comatch.Cases[0].Body)
	}
}

func TestPendingDeclarationsDoNotUnfold(t *testing.T) {
	table := typed.NewTable()
	for _, d := range testprogs.Nat().Module.Decls {
		if err := table.Register(d, typed.Pending); err != nil {
			t.Fatal(err)
		}
	}
	e := syntax.NewDotCall(loc, syntax.DotCallDefinition, suc(zero()), "pred")
	got, err := normalizer.New(table).NormalizeClosed(e)
	if err != nil {
		t.Fatal(err)
	}
	if !syntax.Equal(got, e) {
		t.Errorf("pending pred unfolded to %s", got)
	}
}

func TestEvaluationErrors(t *testing.T) {
	p := testprogs.Nat()
	table := typed.NewTable()
	for _, d := range p.Module.Decls {
		if def, ok := d.(*syntax.Def); ok {
			partial := *def
			partial.Cases = def.Cases[:1]
			d = &partial
		}
		if err := table.Register(d, typed.Checked); err != nil {
			t.Fatal(err)
		}
	}
	loop := &syntax.Let{
		Location: ast.NewLocation(testprogs.File, nil, 9000, 9010),
		Name:     "loop",
		Typ:      syntax.NewTypCtor(loc, "Nat"),
		Body:     syntax.NewCall(loc, syntax.CallLet, "loop"),
	}
	if err := table.Register(loop, typed.Checked); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		e    syntax.Expression
		kind common.ErrorKind
	}{
		{"missing case", syntax.NewDotCall(loc, syntax.DotCallDefinition, suc(zero()), "pred"), common.KindLookup},
		{"out of fuel", syntax.NewCall(loc, syntax.CallLet, "loop"), common.KindType},
		{"dangling variable", syntax.NewVariable(loc, "x", ast.Idx{Fst: 0, Snd: 0}), common.KindImpossible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizer.New(table, normalizer.WithFuel(50)).NormalizeClosed(tt.e)
			if kind, ok := common.KindOf(err); !ok || kind != tt.kind {
				t.Errorf("NormalizeClosed(%s) = %v, want a %s", tt.e, err, tt.kind)
			}
		})
	}
}

type solutions map[ast.MetaID]syntax.Expression

func (s solutions) Solution(id ast.MetaID) (syntax.Expression, bool) {
	e, ok := s[id]
	return e, ok
}

func TestSolvedHolesEvaluate(t *testing.T) {
	mod := mustCheck(t, testprogs.Nat())
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: syntax.NewTypCtor(loc, "Nat")}})
	h := syntax.NewHole(loc)
	h.Metavar = 1
	h.Args = ctx.Vars(loc)
	// ?1 := Suc(x) where x is the only argument of the hole.
	metas := solutions{1: suc(syntax.NewVariable(loc, "x", ast.Idx{Fst: 0, Snd: 0}))}

	got, err := normalizer.New(mod.Table, normalizer.WithMetas(metas)).Normalize(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if want := suc(syntax.NewVariable(loc, "n", ast.Idx{Fst: 0, Snd: 0})); !syntax.Equal(got, want) {
		t.Errorf("?1 = %s, want Suc(n)", got)
	}

	unsolved, err := normalizer.New(mod.Table).Normalize(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := unsolved.(*syntax.Hole); !ok || r.Metavar != 1 {
		t.Errorf("unsolved hole normalized to %s", unsolved)
	}
}
