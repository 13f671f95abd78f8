package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestEqualIgnoresNamesAndLocations(t *testing.T) {
	a := NewDotCall(ast.NewLocation("a.duo", nil, 0, 5), DotCallDefinition,
		NewVariable(ast.Location{}, "x", ast.Idx{Fst: 0, Snd: 1}), "pred")
	b := NewDotCall(ast.NewLocation("b.duo", nil, 7, 9), DotCallDefinition,
		NewVariable(ast.Location{}, "y", ast.Idx{Fst: 0, Snd: 1}), "pred").WithType(NewTypCtor(ast.Location{}, "Nat"))
	c := NewDotCall(ast.Location{}, DotCallDefinition,
		NewVariable(ast.Location{}, "x", ast.Idx{Fst: 1, Snd: 1}), "pred")

	if !Equal(a, b) {
		t.Error("renamed and relocated terms differ")
	}
	if Equal(a, c) {
		t.Error("terms with different variables are equal")
	}
	if !Equal(NewLiteral(ast.Location{}, ast.CInt{Value: 1}), NewLiteral(ast.Location{}, ast.CInt{Value: 1})) {
		t.Error("equal literals differ")
	}
	if Equal(NewLiteral(ast.Location{}, ast.CInt{Value: 1}), NewLiteral(ast.Location{}, ast.CFloat{Value: 1})) {
		t.Error("literals of different types are equal")
	}
}

func TestFreeVars(t *testing.T) {
	loc := ast.Location{}
	e := NewLocalMatch(loc, "", NewVariable(loc, "n", ast.Idx{Fst: 0, Snd: 0}),
		&Case{Pattern: Pattern{Name: "Suc", Params: []*ParamInst{{Name: "m"}}}, Body: NewCall(loc, CallConstructor, "Pair",
			NewVariable(loc, "m", ast.Idx{Fst: 0, Snd: 0}),
			NewVariable(loc, "k", ast.Idx{Fst: 2, Snd: 3}),
		)},
	)
	got := FreeVars(e)
	if got.Size() != 2 || !got.Contains(ast.Idx{Fst: 0, Snd: 0}) || !got.Contains(ast.Idx{Fst: 1, Snd: 3}) {
		t.Errorf("FreeVars() = %v", got.Slice())
	}
	if !Mentions(e, ast.Idx{Fst: 1, Snd: 3}) || Mentions(e, ast.Idx{Fst: 2, Snd: 3}) {
		t.Error("Mentions() disagrees with FreeVars()")
	}
}

func TestMetasAndStripTypes(t *testing.T) {
	loc := ast.Location{}
	typ := NewHole(loc)
	typ.Metavar = 7
	h := NewHole(loc)
	h.Metavar = 3
	h.Args = [][]Expression{{NewVariable(loc, "x", ast.Idx{Fst: 0, Snd: 0})}}
	e := NewCall(loc, CallConstructor, "Suc", h.WithType(typ)).WithType(NewTypCtor(loc, "Nat"))

	metas := Metas(e)
	if metas.Size() != 2 || !metas.Contains(3) || !metas.Contains(7) {
		t.Errorf("Metas() = %v", metas.Slice())
	}

	stripped := StripTypes(e).(*Call)
	if stripped.Type != nil {
		t.Error("StripTypes() kept the type of the root")
	}
	hole := stripped.Args[0].(*Hole)
	if hole.Type != nil || hole.Metavar != ast.NoMeta || hole.Args != nil {
		t.Errorf("StripTypes() left a hole elaborated: %s", spew.Sdump(hole))
	}
	if Metas(stripped).Size() != 0 {
		t.Error("stripped term still has metavariables")
	}
}
