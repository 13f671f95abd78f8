package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/testprogs"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func at(offset uint32) ast.Location {
	return ast.NewLocation(testprogs.File, nil, offset, offset+1)
}

func natTyp(offset uint32) *syntax.TypCtor {
	return syntax.NewTypCtor(at(offset), "Nat")
}

func ctor(offset uint32, name ast.Identifier, args ...syntax.Expression) syntax.Expression {
	return syntax.NewCall(at(offset), syntax.CallConstructor, name, args...)
}

func pattern(offset uint32, name ast.Identifier, params ...ast.Identifier) syntax.Pattern {
	insts := make([]*syntax.ParamInst, len(params))
	for i, p := range params {
		insts[i] = &syntax.ParamInst{Location: at(offset + uint32(i) + 1), Name: p}
	}
	return syntax.Pattern{Location: at(offset), Name: name, Params: insts}
}

func copattern(offset uint32, name ast.Identifier) syntax.Pattern {
	return syntax.Pattern{Location: at(offset), IsCopattern: true, Name: name}
}

func cs(p syntax.Pattern, body syntax.Expression) *syntax.Case {
	return &syntax.Case{Location: p.Location, Pattern: p, Body: body}
}

// withDef returns the Nat program extended by def Nat.name: Nat { cases }.
func withDef(name ast.Identifier, cases ...*syntax.Case) *syntax.Module {
	mod := testprogs.Nat().Module
	mod.Decls = append(mod.Decls, &syntax.Def{
		Location: ast.NewLocation(testprogs.File, nil, 100000, 100999),
		Name:     name,
		Self:     syntax.SelfParam{Location: at(100002), Type: natTyp(100002)},
		RetTyp:   natTyp(100004),
		Cases:    cases,
	})
	return mod
}

func mustCheck(t *testing.T, mod *syntax.Module) *typed.Module {
	t.Helper()
	checked, errs := CheckModule(mod, Options{})
	if len(errs) > 0 {
		t.Fatalf("CheckModule(%s) = %v", mod.Name, errs)
	}
	return checked
}

func TestCheckPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog *testprogs.Program
	}{
		{"nat", testprogs.Nat()},
		{"vec", testprogs.Vec(false)},
		{"stream", testprogs.Stream()},
		{"box", testprogs.Box()},
		{"fun", testprogs.Fun()},
		{"match", testprogs.Match()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustCheck(t, tt.prog.Module)
			if len(mod.Decls) != len(tt.prog.Module.Decls) {
				t.Fatalf("checked %d of %d declarations", len(mod.Decls), len(tt.prog.Module.Decls))
			}
			for i, d := range mod.Decls {
				if d.GetName() != tt.prog.Module.Decls[i].GetName() {
					t.Errorf("declaration %d is %s, want %s", i, d.GetName(), tt.prog.Module.Decls[i].GetName())
				}
				if status, _ := mod.Table.Status(d.GetName()); status != typed.Checked {
					t.Errorf("%s is %s", d.GetName(), status)
				}
				syntax.RewriteDecl(d, func(e syntax.Expression, _ int) syntax.Expression {
					if _, ok := e.(*syntax.Hole); ok {
						t.Errorf("%s still contains a hole: %s", d.GetName(), spew.Sdump(e))
					}
					return e
				})
			}
			if !mod.Table.IsFrozen() {
				t.Error("published table is mutable")
			}
		})
	}
}

func TestInferExpr(t *testing.T) {
	tests := []struct {
		prog *testprogs.Program
		expr string
		want string
	}{
		{testprogs.Nat(), "pred", "Nat"},
		{testprogs.Nat(), "two", "Nat"},
		{testprogs.Vec(false), "one", "Vec(Suc(Zero))"},
		{testprogs.Vec(false), "head", "Nat"},
		{testprogs.Stream(), "second", "Nat"},
		{testprogs.Box(), "head", "Int"},
		{testprogs.Fun(), "apply", "Nat"},
		{testprogs.Match(), "one", "Nat"},
	}
	for _, tt := range tests {
		t.Run(string(tt.prog.Module.Name)+"/"+tt.expr, func(t *testing.T) {
			mod := mustCheck(t, tt.prog.Module)
			e, typ, err := InferExpr(mod.Table, tt.prog.Exprs[tt.expr], Options{})
			if err != nil {
				t.Fatal(err)
			}
			if typ.String() != tt.want {
				t.Errorf("type = %s, want %s", typ, tt.want)
			}
			if e.GetType() == nil {
				t.Errorf("result is not annotated: %s", spew.Sdump(e))
			}
			if !mod.Table.IsFrozen() {
				t.Error("InferExpr modified the module table")
			}
		})
	}
}

func TestInferExprUnsolvedHole(t *testing.T) {
	mod := mustCheck(t, testprogs.Vec(false).Module)
	// VCons(?, Zero, ?): the length of the tail is never determined.
	e := syntax.NewCall(at(1), syntax.CallConstructor, "VCons", syntax.NewHole(at(3)), ctor(5, "Zero"), syntax.NewHole(at(7)))
	_, _, err := InferExpr(mod.Table, e, Options{})
	if err == nil || !strings.Contains(err.Error(), "cannot infer a value for metavariable") {
		t.Errorf("InferExpr() error = %v", err)
	}
}

func TestMismatchIsReportedOnce(t *testing.T) {
	prog := testprogs.Mismatch()
	mod, errs := CheckModule(prog.Module, Options{})
	if len(errs) != 1 {
		t.Fatalf("CheckModule() = %v, want one error", errs)
	}
	err := errs[0]
	if kind, ok := common.KindOf(err); !ok || kind != common.KindType {
		t.Errorf("error %v is not a type error", err)
	}
	if loc := common.LocationOf(err); !loc.EqualsTo(prog.Exprs["bad"].GetLocation()) {
		t.Errorf("error at %s, want the body of bad", loc.CursorString())
	}
	for _, name := range []ast.Identifier{"bad", "alsoBad"} {
		if _, ok := mod.Lookup(name); ok {
			t.Errorf("%s was published", name)
		}
		if status, _ := mod.Table.Status(name); status != typed.Failed {
			t.Errorf("%s is %s", name, status)
		}
	}
	if _, ok := mod.Lookup("Empty"); !ok {
		t.Error("Empty was dropped")
	}
}

func TestAbsurdCases(t *testing.T) {
	mustCheck(t, testprogs.Vec(false).Module)

	_, errs := CheckModule(testprogs.Vec(true).Module, Options{})
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "can never match") {
		t.Errorf("CheckModule() = %v", errs)
	}

	// Suc is reachable, so it cannot be absurd.
	mod := withDef("notAbsurd",
		cs(pattern(100010, "Zero"), ctor(100012, "Zero")),
		&syntax.Case{Location: at(100014), Pattern: pattern(100014, "Suc", "n")},
	)
	_, errs = CheckModule(mod, Options{})
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "is not absurd") {
		t.Errorf("CheckModule() = %v", errs)
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name  string
		cases []*syntax.Case
		want  []string
	}{
		{
			name:  "missing",
			cases: []*syntax.Case{cs(pattern(100010, "Zero"), ctor(100012, "Zero"))},
			want:  []string{"missing case(s) for `Suc`"},
		},
		{
			name: "duplicate",
			cases: []*syntax.Case{
				cs(pattern(100010, "Zero"), ctor(100012, "Zero")),
				cs(pattern(100014, "Zero"), ctor(100016, "Zero")),
				cs(pattern(100018, "Suc", "n"), ctor(100022, "Zero")),
			},
			want: []string{"duplicate case for `Zero`"},
		},
		{
			name: "unknown constructor",
			cases: []*syntax.Case{
				cs(pattern(100010, "Zero"), ctor(100012, "Zero")),
				cs(pattern(100014, "Suc", "n"), ctor(100018, "Zero")),
				cs(pattern(100020, "Nil"), ctor(100022, "Zero")),
			},
			want: []string{"`Nil` does not belong to `Nat`"},
		},
		{
			name: "copattern in a match",
			cases: []*syntax.Case{
				cs(pattern(100010, "Zero"), ctor(100012, "Zero")),
				cs(pattern(100014, "Suc", "n"), ctor(100018, "Zero")),
				cs(copattern(100020, "head"), ctor(100022, "Zero")),
			},
			want: []string{"expected a pattern, found a copattern `.head`"},
		},
		{
			name:  "everything missing",
			cases: nil,
			want:  []string{"missing case(s) for `Zero`, `Suc`"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, errs := CheckModule(withDef("f", tt.cases...), Options{})
			if len(errs) != len(tt.want) {
				t.Fatalf("CheckModule() = %v, want %q", errs, tt.want)
			}
			for i, want := range tt.want {
				if !strings.Contains(errs[i].Error(), want) {
					t.Errorf("error %d = %q, want %q", i, errs[i], want)
				}
			}
			if _, ok := mod.Lookup("f"); ok {
				t.Error("f was published")
			}
			if _, ok := mod.Lookup("pred"); !ok {
				t.Error("pred was dropped")
			}
		})
	}
}

func TestGroups(t *testing.T) {
	stream := testprogs.Stream().Module
	twos := func(name, other ast.Identifier, offset uint32) *syntax.Codef {
		return &syntax.Codef{
			Location: ast.NewLocation(testprogs.File, nil, offset, offset+999),
			Name:     name,
			Typ:      syntax.NewTypCtor(at(offset+2), "Stream"),
			Cases: []*syntax.Case{
				cs(copattern(offset+4, "head"), ctor(offset+6, "Zero")),
				cs(copattern(offset+8, "tail"), syntax.NewCall(at(offset+10), syntax.CallCodefinition, other)),
			},
		}
	}
	stream.Decls = append(stream.Decls, twos("Ping", "Pong", 100000), twos("Pong", "Ping", 101000))

	var got [][]ast.Identifier
	for _, group := range groups(stream.Decls) {
		got = append(got, common.Map(func(d syntax.Declaration) ast.Identifier { return d.GetName() }, group))
	}
	want := [][]ast.Identifier{{"Nat"}, {"pred"}, {"Stream"}, {"Ones"}, {"Ping", "Pong"}}
	if spew.Sdump(got) != spew.Sdump(want) {
		t.Errorf("groups() = %v, want %v", got, want)
	}

	mustCheck(t, stream)
}

func TestFailedDependenciesAreSilent(t *testing.T) {
	mod := withDef("f", cs(pattern(100010, "Zero"), ctor(100012, "Zero")))
	mod.Decls = append(mod.Decls, &syntax.Let{
		Location: ast.NewLocation(testprogs.File, nil, 101000, 101999),
		Name:     "useF",
		Typ:      natTyp(101002),
		Body:     syntax.NewDotCall(at(101004), syntax.DotCallDefinition, ctor(101006, "Zero"), "f"),
	})
	_, errs := CheckModule(mod, Options{})
	if len(errs) != 1 {
		t.Errorf("CheckModule() = %v, want only the error of f", errs)
	}
	for _, err := range errs {
		if common.IsImpossible(err) {
			t.Errorf("internal error: %v", err)
		}
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	mod := testprogs.Nat().Module
	mod.Decls = append(mod.Decls, &syntax.Let{
		Location: ast.NewLocation(testprogs.File, nil, 100000, 100999),
		Name:     "pred",
		Typ:      natTyp(100002),
		Body:     ctor(100004, "Zero"),
	})
	_, errs := CheckModule(mod, Options{})
	if len(errs) == 0 {
		t.Fatal("duplicate declaration accepted")
	}
}

func TestTracer(t *testing.T) {
	log := &common.LogWriter{}
	mustCheckWith(t, testprogs.Nat().Module, Options{Tracer: common.NewLogTracer(log)})
	sb := &strings.Builder{}
	log.Flush(sb)
	if !strings.Contains(sb.String(), "group `Nat`") {
		t.Errorf("trace output:\n%s", sb)
	}
}

func mustCheckWith(t *testing.T, mod *syntax.Module, opts Options) {
	t.Helper()
	if _, errs := CheckModule(mod, opts); len(errs) > 0 {
		t.Fatal(errs)
	}
}

// withEq returns the Nat program extended by
//
//	data Eq(a: Nat, b: Nat) { Refl(n: Nat): Eq(n, n) }
func withEq() *syntax.Module {
	mod := testprogs.Nat().Module
	n := func(offset uint32) syntax.Expression {
		return syntax.NewVariable(at(offset), "n", ast.Idx{Fst: 0, Snd: 0})
	}
	mod.Decls = append(mod.Decls, &syntax.Data{
		Location: ast.NewLocation(testprogs.File, nil, 100000, 100999),
		Name:     "Eq",
		Params: syntax.Telescope{
			{Location: at(100002), Name: "a", Type: natTyp(100003)},
			{Location: at(100004), Name: "b", Type: natTyp(100005)},
		},
		Ctors: []*syntax.Ctor{{
			Location: at(100010),
			Name:     "Refl",
			Params:   syntax.Telescope{{Location: at(100011), Name: "n", Type: natTyp(100012)}},
			Typ:      syntax.NewTypCtor(at(100013), "Eq", n(100014), n(100015)),
		}},
	})
	return mod
}

func TestHoleRepeatedInIndices(t *testing.T) {
	mod := mustCheck(t, withEq())
	tests := []struct {
		name string
		typ  syntax.Expression
		ok   bool
	}{
		{"equal indices", syntax.NewTypCtor(at(200), "Eq", ctor(201, "Zero"), ctor(202, "Zero")), true},
		{"different indices", syntax.NewTypCtor(at(200), "Eq", ctor(201, "Zero"), ctor(202, "Suc", ctor(203, "Zero"))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refl := syntax.NewCall(at(210), syntax.CallConstructor, "Refl", syntax.NewHole(at(211)))
			e := syntax.NewAnno(at(209), refl, tt.typ)
			_, typ, err := InferExpr(mod.Table, e, Options{})
			if common.IsImpossible(err) {
				t.Fatalf("internal error: %v", err)
			}
			if tt.ok {
				if err != nil {
					t.Fatal(err)
				}
				if typ.String() != "Eq(Zero, Zero)" {
					t.Errorf("type = %s", typ)
				}
			} else if err == nil {
				t.Errorf("Refl(_) accepted at %s", tt.typ)
			}
		})
	}
}

func TestDuplicateConstructor(t *testing.T) {
	mod := &syntax.Module{Name: "Dup", Decls: []syntax.Declaration{&syntax.Data{
		Location: ast.NewLocation(testprogs.File, nil, 0, 99),
		Name:     "Nat",
		Ctors: []*syntax.Ctor{
			{Location: at(10), Name: "Zero", Typ: natTyp(11)},
			{Location: at(20), Name: "Zero", Typ: natTyp(21)},
		},
	}}}
	_, errs := CheckModule(mod, Options{})
	if len(errs) != 1 {
		t.Fatalf("CheckModule() = %v, want one error", errs)
	}
	if kind, _ := common.KindOf(errs[0]); kind != common.KindType {
		t.Errorf("error %v is not a type error", errs[0])
	}
	if !strings.Contains(errs[0].Error(), "`Zero` is already declared") {
		t.Errorf("error = %v", errs[0])
	}
	if loc := common.LocationOf(errs[0]); !loc.EqualsTo(at(20)) {
		t.Errorf("error at %s, want the second Zero", loc.CursorString())
	}
}

// foreign is an expression node none of the passes knows.
type foreign struct{ syntax.TypeUniv }

func TestInternalErrorsAreReturned(t *testing.T) {
	mod := testprogs.Nat().Module
	mod.Decls = append(mod.Decls, &syntax.Let{
		Location: ast.NewLocation(testprogs.File, nil, 100000, 100999),
		Name:     "odd",
		Typ:      natTyp(100002),
		Body:     &foreign{},
	})
	checked, errs := CheckModule(mod, Options{})
	if len(errs) != 1 || !common.IsImpossible(errs[0]) {
		t.Fatalf("CheckModule() = %v, want one internal error", errs)
	}
	if checked == nil || checked.Table == nil {
		t.Error("CheckModule() returned no module")
	}

	table := mustCheck(t, testprogs.Nat().Module).Table
	e := syntax.NewCall(at(1), syntax.CallConstructor, "Suc", &foreign{})
	if _, _, err := InferExpr(table, e, Options{}); !common.IsImpossible(err) {
		t.Errorf("InferExpr() error = %v, want an internal error", err)
	}
}
