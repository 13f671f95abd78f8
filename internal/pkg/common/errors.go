package common

import (
	"duo-compiler/internal/pkg/ast"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/exp/slices"
)

type ErrorKind int

const (
	KindType ErrorKind = iota
	KindLookup
	KindImpossible
)

func (k ErrorKind) String() string {
	switch k {
	case KindType:
		return "type error"
	case KindLookup:
		return "lookup error"
	case KindImpossible:
		return "impossible"
	}
	return "unknown"
}

// ErrSwallowed marks a failure caused by a declaration that already failed
// and was reported on its own.
var ErrSwallowed = errors.New("depends on a declaration that failed to check")

type Error struct {
	Kind     ErrorKind
	Location ast.Location
	Extra    []ast.Location
	Message  string
}

func (e Error) Error() string {
	sb := strings.Builder{}
	message := e.Message
	if e.Kind == KindImpossible {
		message = "impossible: " + message
	}
	cursorString := e.Location.CursorString()
	if cursorString != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", cursorString, message))
	}

	var uniqueExtra []ast.Location
	for _, x := range e.Extra {
		if x.IsEmpty() || x.EqualsTo(e.Location) {
			continue
		}
		if !slices.ContainsFunc(uniqueExtra, func(y ast.Location) bool {
			return y.EqualsTo(x)
		}) {
			uniqueExtra = append(uniqueExtra, x)
		}
	}

	for _, extra := range uniqueExtra {
		sb.WriteString(fmt.Sprintf("+ %s\n", extra.CursorString()))
	}

	if e.Location.IsEmpty() {
		sb.WriteString(fmt.Sprintf("%s\n", message))
	}
	return sb.String()
}

func NewTypeError(loc ast.Location, extra []ast.Location, format string, args ...any) error {
	return Error{Kind: KindType, Location: loc, Extra: extra, Message: fmt.Sprintf(format, args...)}
}

func NewLookupError(loc ast.Location, format string, args ...any) error {
	return Error{Kind: KindLookup, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// NewImpossibleError reports a broken internal invariant. The Go caller is
// recorded so a bug report points at the check that fired.
func NewImpossibleError(loc ast.Location, format string, args ...any) error {
	_, file, line, _ := runtime.Caller(1)
	return Error{
		Kind:     KindImpossible,
		Location: loc,
		Message:  fmt.Sprintf("%s at %s:%d", fmt.Sprintf(format, args...), file, line),
	}
}

// NewInvalidCaseError is NewImpossibleError for a node of unexpected shape.
func NewInvalidCaseError(loc ast.Location, node any) error {
	_, file, line, _ := runtime.Caller(1)
	return Error{
		Kind:     KindImpossible,
		Location: loc,
		Message:  fmt.Sprintf("invalid case at %s:%d\n%s", file, line, spew.Sdump(node)),
	}
}

// RecoverImpossible hands an impossible error raised by panic to report.
// Any other panic keeps unwinding. Defer it directly.
func RecoverImpossible(report func(error)) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(Error); ok && err.Kind == KindImpossible {
		report(err)
		return
	}
	panic(r)
}

func KindOf(err error) (ErrorKind, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// LocationOf returns the primary span of err, if it has one.
func LocationOf(err error) ast.Location {
	var e Error
	if errors.As(err, &e) {
		return e.Location
	}
	return ast.Location{}
}

func IsImpossible(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindImpossible
}

func IsSwallowed(err error) bool {
	return errors.Is(err, ErrSwallowed)
}

// Flatten unpacks joined errors and drops nils.
func Flatten(errs ...error) []error {
	var result []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			result = append(result, Flatten(joined.Unwrap()...)...)
			continue
		}
		result = append(result, err)
	}
	return result
}

func NewSystemError(err error) error {
	return systemError{inner: err}
}

type systemError struct {
	inner error
}

func (e systemError) Error() string {
	return fmt.Sprintf("system error: %v", e.inner)
}

func (e systemError) Unwrap() error {
	return e.inner
}
