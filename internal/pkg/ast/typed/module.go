package typed

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"strings"
)

// Module is the result of checking: every declaration that checked, fully
// annotated and free of metavariables, in source order.
type Module struct {
	Name  ast.QualifiedIdentifier
	Decls []syntax.Declaration
	Table *Table
}

func (m *Module) Lookup(name ast.Identifier) (syntax.Declaration, bool) {
	for _, d := range m.Decls {
		if d.GetName() == name {
			return d, true
		}
	}
	return nil, false
}

// Syntax returns the module as an input tree again.
func (m *Module) Syntax() *syntax.Module {
	return &syntax.Module{Name: m.Name, Decls: m.Decls}
}

func (m *Module) String() string {
	sb := strings.Builder{}
	for _, d := range m.Decls {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
