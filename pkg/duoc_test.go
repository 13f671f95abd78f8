package duoc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"
	"duo-compiler/internal/pkg/testprogs"
	"path/filepath"
	"testing"
)

func TestCheckFile(t *testing.T) {
	log := &common.LogWriter{}
	mod := CheckFile(filepath.Join("..", "internal", "pkg", "processors", "loader", "testdata", "nat.json"), checker.Options{}, log)
	if log.HasErrors() || mod == nil || len(mod.Decls) != 2 {
		t.Fatalf("CheckFile() = %v, %v", mod, log.Errors())
	}

	if CheckFile("missing.json", checker.Options{}, log) != nil || !log.HasErrors() {
		t.Error("missing module was not reported")
	}
}

func TestNormalize(t *testing.T) {
	prog := testprogs.Nat()
	mod := prog.Module
	mod.Decls = append(mod.Decls, &syntax.Let{
		Location: ast.NewLocation(testprogs.File, nil, 100000, 100999),
		Name:     "one",
		Typ:      syntax.NewTypCtor(ast.NewLocation(testprogs.File, nil, 100002, 100003), "Nat"),
		Body:     prog.Exprs["two"].(*syntax.Call).Args[0],
	})
	log := &common.LogWriter{}
	checked := Check(mod, checker.Options{}, log)
	if log.HasErrors() {
		t.Fatal(log.Errors())
	}

	nf, typ, err := Normalize(checked, "one", checker.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if nf.String() != "Suc(Zero)" || typ.String() != "Nat" {
		t.Errorf("Normalize() = %s : %s", nf, typ)
	}

	nf, _, err = NormalizeExpr(checked.Table, prog.Exprs["pred"], checker.Options{})
	if err != nil || nf.String() != "Zero" {
		t.Errorf("NormalizeExpr() = %v, %v", nf, err)
	}

	tests := []struct {
		name ast.Identifier
		kind common.ErrorKind
	}{
		{"missing", common.KindLookup},
		{"pred", common.KindType},
	}
	for _, tt := range tests {
		_, _, err := Normalize(checked, tt.name, checker.Options{})
		if kind, ok := common.KindOf(err); !ok || kind != tt.kind {
			t.Errorf("Normalize(%s) error = %v, want kind %s", tt.name, err, tt.kind)
		}
	}
}

func TestNormalizeWithParams(t *testing.T) {
	log := &common.LogWriter{}
	checked := Check(testprogs.Match().Module, checker.Options{}, log)
	_, _, err := Normalize(checked, "isZero", checker.Options{})
	if kind, ok := common.KindOf(err); !ok || kind != common.KindType {
		t.Errorf("Normalize() error = %v", err)
	}
}

func TestXfunc(t *testing.T) {
	log := &common.LogWriter{}
	checked := Check(testprogs.Box().Module, checker.Options{}, log)
	r := Xfunc(checked, "Box", checker.Options{}, log)
	if log.HasErrors() || r == nil {
		t.Fatalf("Xfunc() = %v, %v", r, log.Errors())
	}
	if r := Xfunc(checked, "Missing", checker.Options{}, log); r != nil || !log.HasErrors() {
		t.Error("unknown type was not reported")
	}
}
