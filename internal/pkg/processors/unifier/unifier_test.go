package unifier_test

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"
	"duo-compiler/internal/pkg/processors/unifier"
	"duo-compiler/internal/pkg/testprogs"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

var loc = ast.NewLocation(testprogs.File, nil, 1, 2)

func natTable(t *testing.T) *typed.Table {
	t.Helper()
	mod, errs := checker.CheckModule(testprogs.Nat().Module, checker.Options{})
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	return mod.Table
}

func newUnifier(t *testing.T) *unifier.Unifier {
	return unifier.New(natTable(t), unifier.NewMetaVars(), nil, 0)
}

func zero() syntax.Expression { return syntax.NewCall(loc, syntax.CallConstructor, "Zero") }
func suc(e syntax.Expression) syntax.Expression {
	return syntax.NewCall(loc, syntax.CallConstructor, "Suc", e)
}
func nat() syntax.Expression { return syntax.NewTypCtor(loc, "Nat") }
func v(name ast.Identifier, fst, snd int) *syntax.Variable {
	return syntax.NewVariable(loc, name, ast.Idx{Fst: fst, Snd: snd})
}
func pred(e syntax.Expression) syntax.Expression {
	return syntax.NewDotCall(loc, syntax.DotCallDefinition, e, "pred")
}

// hole creates a metavariable in ctx and returns its occurrence with args.
func hole(u *unifier.Unifier, ctx *syntax.Ctx, args [][]syntax.Expression) *syntax.Hole {
	h := syntax.NewHole(loc)
	h.Metavar = u.Metas().Fresh(loc, ctx, nat())
	h.Args = args
	return h
}

func TestSolveRigid(t *testing.T) {
	u := newUnifier(t)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: nat()}})
	tests := []struct {
		name     string
		lhs, rhs syntax.Expression
		yes      bool
	}{
		{"identical", suc(v("n", 0, 0)), suc(v("n", 0, 0)), true},
		{"up to reduction", pred(suc(v("n", 0, 0))), v("n", 0, 0), true},
		{"different constructors", zero(), suc(zero()), false},
		{"different types", nat(), syntax.NewTypCtor(loc, ast.BuiltinInt), false},
		{"universe", syntax.NewTypeUniv(loc), syntax.NewTypeUniv(loc), true},
		{"literals", syntax.NewLiteral(loc, ast.CInt{Value: 1}), syntax.NewLiteral(loc, ast.CInt{Value: 2}), false},
		{"variable against constructor", v("n", 0, 0), zero(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: ctx, Lhs: tt.lhs, Rhs: tt.rhs})
			if err != nil {
				t.Fatal(err)
			}
			if d.Yes != tt.yes {
				t.Errorf("Solve(%s = %s) = %s", tt.lhs, tt.rhs, d)
			}
			if d.Yes && len(d.Subst) != 0 {
				t.Errorf("rigid unification returned a substitution %v", d.Subst)
			}
		})
	}
}

func TestSolveMeta(t *testing.T) {
	u := newUnifier(t)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "a", Type: nat()}, {Name: "b", Type: nat()}})
	h := hole(u, ctx, ctx.Vars(loc))

	d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: ctx, Lhs: h, Rhs: suc(v("b", 0, 1))})
	if err != nil || !d.Yes {
		t.Fatalf("Solve() = %s, %v", d, err)
	}
	solution, ok := u.Metas().Solution(h.Metavar)
	if !ok || !syntax.Equal(solution, suc(v("", 0, 1))) {
		t.Errorf("solution = %s", spew.Sdump(solution))
	}
	if unsolved := u.Metas().Unsolved(); len(unsolved) != 0 {
		t.Errorf("Unsolved() = %v", unsolved)
	}
}

func TestSolveRepeatedMeta(t *testing.T) {
	pair := func(a, b syntax.Expression) syntax.Expression { return syntax.NewTypCtor(loc, "Pair", a, b) }
	tests := []struct {
		name string
		rhs  syntax.Expression
		yes  bool
	}{
		{"same values", pair(zero(), zero()), true},
		{"different values", pair(zero(), suc(zero())), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnifier(t)
			ctx := syntax.NewCtx()
			h := hole(u, ctx, nil)
			d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: ctx, Lhs: pair(h, h), Rhs: tt.rhs})
			if err != nil {
				t.Fatal(err)
			}
			if d.Yes != tt.yes {
				t.Errorf("Solve(Pair(?, ?) = %s) = %s", tt.rhs, d)
			}
			if solution, ok := u.Metas().Solution(h.Metavar); !ok || !syntax.Equal(solution, zero()) {
				t.Errorf("solution = %s", spew.Sdump(solution))
			}
		})
	}
}

func TestOccursCheck(t *testing.T) {
	u := newUnifier(t)
	ctx := syntax.NewCtx()
	h := hole(u, ctx, nil)
	d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: ctx, Lhs: h, Rhs: suc(h)})
	if err != nil {
		t.Fatal(err)
	}
	if d.Yes {
		t.Error("?m = Suc(?m) was accepted")
	}
	if u.Metas().IsSolved(h.Metavar) {
		t.Error("metavariable solved by a cyclic term")
	}
}

func TestScopeEscape(t *testing.T) {
	u := newUnifier(t)
	outer := syntax.NewCtx()
	h := hole(u, outer, outer.Vars(loc))
	inner := outer.PushTelescope([]syntax.Binder{{Name: "x", Type: nat()}})
	d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: inner, Lhs: h, Rhs: v("x", 0, 0)})
	if err != nil {
		t.Fatal(err)
	}
	if d.Yes {
		t.Error("solution mentions a variable the hole cannot see")
	}
}

func TestDeferredConstraintIsRetried(t *testing.T) {
	u := newUnifier(t)
	closed := syntax.NewCtx()
	open := closed.PushTelescope([]syntax.Binder{{Name: "n", Type: nat()}})
	id := u.Metas().Fresh(loc, open, nat())
	at := func(args ...syntax.Expression) *syntax.Hole {
		h := syntax.NewHole(loc)
		h.Metavar = id
		h.Args = [][]syntax.Expression{args}
		return h
	}

	// ?1(Zero) = Suc(Zero) is not a pattern: it has to wait.
	d, err := u.Solve(unifier.Constraint{Location: loc, Ctx: closed, Lhs: at(zero()), Rhs: suc(zero())})
	if err != nil || !d.Yes {
		t.Fatalf("Solve() = %s, %v", d, err)
	}
	if !u.HasDeferred() {
		t.Fatal("constraint was not deferred")
	}

	// ?1(n) = Suc(n) solves ?1 and wakes the deferred constraint.
	d, err = u.Solve(unifier.Constraint{Location: loc, Ctx: open, Lhs: at(v("n", 0, 0)), Rhs: suc(v("n", 0, 0))})
	if err != nil || !d.Yes {
		t.Fatalf("Solve() = %s, %v", d, err)
	}
	if u.HasDeferred() {
		t.Error("deferred constraint was not retried")
	}
	if errs := u.Finish(); len(errs) != 0 {
		t.Errorf("Finish() = %v", errs)
	}
}

func TestFinishReportsStuckAndFailedConstraints(t *testing.T) {
	u := newUnifier(t)
	closed := syntax.NewCtx()
	open := closed.PushTelescope([]syntax.Binder{{Name: "n", Type: nat()}})
	first := u.Metas().Fresh(loc, open, nat())
	second := u.Metas().Fresh(loc, open, nat())
	at := func(id ast.MetaID, args ...syntax.Expression) *syntax.Hole {
		h := syntax.NewHole(loc)
		h.Metavar = id
		h.Args = [][]syntax.Expression{args}
		return h
	}

	// Woken up later and found wrong: ?1(Zero) = Zero once ?1 := Suc(_).
	_, _ = u.Solve(unifier.Constraint{Location: loc, Ctx: closed, Lhs: at(first, zero()), Rhs: zero()})
	// Never woken up.
	_, _ = u.Solve(unifier.Constraint{Location: loc, Ctx: closed, Lhs: at(second, zero()), Rhs: zero()})
	_, _ = u.Solve(unifier.Constraint{Location: loc, Ctx: open, Lhs: at(first, v("n", 0, 0)), Rhs: suc(v("n", 0, 0))})

	errs := u.Finish()
	if len(errs) != 2 {
		t.Fatalf("Finish() = %v, want two errors", errs)
	}
	for _, err := range errs {
		if kind, ok := common.KindOf(err); !ok || kind != common.KindType {
			t.Errorf("error %v is not a type error", err)
		}
		if !strings.Contains(err.Error(), "cannot unify") {
			t.Errorf("error %q is not a mismatch", err)
		}
	}
	if u.HasDeferred() {
		t.Error("Finish() left deferred constraints")
	}
}

func TestUnifyIndices(t *testing.T) {
	u := newUnifier(t)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: nat()}, {Name: "m", Type: nat()}})
	n, m := v("n", 0, 0), v("m", 0, 1)

	tests := []struct {
		name     string
		lhs, rhs syntax.Expression
		yes      bool
		subst    syntax.Substitution
		err      bool
	}{
		{"equal", zero(), zero(), true, syntax.Substitution{}, false},
		{"two variables", suc(n), suc(m), true, syntax.Substitution{{Fst: 0, Snd: 1}: n}, false},
		{"variable and constructor", suc(zero()), n, true, syntax.Substitution{{Fst: 0, Snd: 0}: suc(zero())}, false},
		{"constructor clash", zero(), suc(n), false, nil, false},
		{"occurs under a constructor", n, suc(n), false, nil, false},
		{"literal clash", syntax.NewLiteral(loc, ast.CInt{Value: 1}), syntax.NewLiteral(loc, ast.CInt{Value: 2}), false, nil, false},
		{"type clash", nat(), syntax.NewTypCtor(loc, ast.BuiltinInt), false, nil, false},
		{"neutral against constructor", pred(n), zero(), false, nil, true},
		{"variable inside a neutral", n, pred(n), false, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := u.UnifyIndices(loc, ctx, []syntax.Expression{tt.lhs}, []syntax.Expression{tt.rhs})
			if tt.err {
				if kind, ok := common.KindOf(err); !ok || kind != common.KindType {
					t.Fatalf("UnifyIndices() error = %v, want a type error", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if d.Yes != tt.yes {
				t.Fatalf("UnifyIndices() = %s", d)
			}
			if len(d.Subst) != len(tt.subst) {
				t.Fatalf("substitution %v, want %v", d.Subst, tt.subst)
			}
			for k, want := range tt.subst {
				if got, ok := d.Subst[k]; !ok || !syntax.Equal(got, want) {
					t.Errorf("substitution maps %s to %v, want %s", k, got, want)
				}
			}
		})
	}
}

func TestZonk(t *testing.T) {
	u := newUnifier(t)
	ctx := syntax.NewCtx().PushTelescope([]syntax.Binder{{Name: "n", Type: nat()}})
	id := u.Metas().Fresh(loc, ctx, nat())
	if err := u.Metas().Solve(id, suc(v("x", 0, 0))); err != nil {
		t.Fatal(err)
	}
	holeLoc := ast.NewLocation(testprogs.File, nil, 40, 41)
	h := syntax.NewHole(holeLoc)
	h.Metavar = id
	h.Args = [][]syntax.Expression{{zero()}}
	e := pred(h.WithType(nat()))

	zonked, err := unifier.Zonk(u.Metas(), e)
	if err != nil {
		t.Fatal(err)
	}
	if want := pred(suc(zero())); !syntax.Equal(zonked, want) {
		t.Fatalf("Zonk() = %s, want %s", zonked, want)
	}
	filled := zonked.(*syntax.DotCall).Exp
	if !filled.GetLocation().EqualsTo(holeLoc) || filled.GetType() == nil {
		t.Errorf("filled hole lost its span or type: %s", spew.Sdump(filled))
	}
	again, err := unifier.Zonk(u.Metas(), zonked)
	if err != nil || !syntax.Equal(again, zonked) {
		t.Errorf("zonking twice gave %s, %v", again, err)
	}

	unsolved := syntax.NewHole(holeLoc)
	unsolved.Metavar = u.Metas().Fresh(holeLoc, ctx, nat())
	_, err = unifier.Zonk(u.Metas(), suc(unsolved))
	if err == nil || !strings.Contains(err.Error(), "unbound metavariable "+unsolved.Metavar.String()) {
		t.Errorf("Zonk() of an unsolved hole = %v", err)
	}
}
