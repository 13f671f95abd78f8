package common

import (
	"duo-compiler/internal/pkg/ast"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	loc := ast.NewLocation("a.duo", []rune("let x: Nat { y }"), 13, 14)
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"type", NewTypeError(loc, nil, "cannot unify `%s` with `%s`", "Nat", "Empty"), KindType},
		{"lookup", NewLookupError(loc, "unknown `%s`", "y"), KindLookup},
		{"impossible", NewImpossibleError(loc, "broken"), KindImpossible},
		{"invalid case", NewInvalidCaseError(loc, 42), KindImpossible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			if !ok || kind != tt.kind {
				t.Fatalf("KindOf() = %v, %v, want %v", kind, ok, tt.kind)
			}
			if IsImpossible(tt.err) != (tt.kind == KindImpossible) {
				t.Errorf("IsImpossible() = %v", IsImpossible(tt.err))
			}
			if !LocationOf(tt.err).EqualsTo(loc) {
				t.Errorf("LocationOf() = %v, want %v", LocationOf(tt.err), loc)
			}
			if !strings.HasPrefix(tt.err.Error(), "a.duo:1:14 ") {
				t.Errorf("Error() = %q, want it to start with the cursor", tt.err.Error())
			}
		})
	}
}

func TestImpossibleErrorMentionsCaller(t *testing.T) {
	err := NewImpossibleError(ast.Location{}, "broken")
	if !strings.Contains(err.Error(), "impossible: broken at ") || !strings.Contains(err.Error(), "errors_test.go") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorExtraLocations(t *testing.T) {
	content := []rune("a\nb\nc")
	primary := ast.NewLocation("a.duo", content, 0, 1)
	other := ast.NewLocation("a.duo", content, 4, 5)
	err := NewTypeError(primary, []ast.Location{other, primary, other, {}}, "mismatch")
	want := "a.duo:1:1 mismatch\n+ a.duo:3:1\n"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFlatten(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	c := errors.New("c")
	got := Flatten(a, nil, errors.Join(b, errors.Join(c)), nil)
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("Flatten() = %v", got)
	}
}

func TestSwallowed(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrSwallowed)
	if !IsSwallowed(wrapped) {
		t.Error("wrapped ErrSwallowed is not swallowed")
	}
	if IsSwallowed(NewTypeError(ast.Location{}, nil, "x")) {
		t.Error("type error is swallowed")
	}
}

func TestSystemError(t *testing.T) {
	inner := errors.New("disk on fire")
	err := NewSystemError(inner)
	if !errors.Is(err, inner) {
		t.Error("system error does not unwrap")
	}
	if _, ok := KindOf(err); ok {
		t.Error("system error has a kind")
	}
	if err.Error() != "system error: disk on fire" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRecoverImpossible(t *testing.T) {
	run := func(f func()) (got error) {
		defer RecoverImpossible(func(err error) { got = err })
		f()
		return nil
	}
	if err := run(func() { panic(NewImpossibleError(ast.Location{}, "broken")) }); !IsImpossible(err) {
		t.Errorf("recovered %v", err)
	}
	if err := run(func() {}); err != nil {
		t.Errorf("recovered %v without a panic", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("a foreign panic was swallowed")
		}
	}()
	run(func() { panic("boom") })
}
