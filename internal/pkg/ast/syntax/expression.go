package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
	"strings"
)

// Expression is a node of the term tree. The same node types are used before
// and after checking; a checked node carries its type in GetType, an unchecked
// node returns nil. Nodes are shared freely and never mutated once built.
type Expression interface {
	fmt.Stringer
	_expression()
	GetLocation() ast.Location
	GetType() Expression
	WithType(t Expression) Expression
}

type CallKind int

const (
	CallConstructor CallKind = iota
	CallCodefinition
	CallLet
)

func (k CallKind) String() string {
	switch k {
	case CallConstructor:
		return "constructor"
	case CallCodefinition:
		return "codefinition"
	case CallLet:
		return "let"
	}
	return "unknown"
}

type DotCallKind int

const (
	DotCallDestructor DotCallKind = iota
	DotCallDefinition
)

func (k DotCallKind) String() string {
	switch k {
	case DotCallDestructor:
		return "destructor"
	case DotCallDefinition:
		return "definition"
	}
	return "unknown"
}

func codeArgs(args []Expression) string {
	if len(args) == 0 {
		return ""
	}
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}
