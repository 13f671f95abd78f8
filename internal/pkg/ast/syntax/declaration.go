package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
)

type Declaration interface {
	fmt.Stringer
	_declaration()
	GetLocation() ast.Location
	GetName() ast.Identifier
	GetDoc() string
}

type Module struct {
	ast.Location
	Name  ast.QualifiedIdentifier
	Decls []Declaration
}

func (m *Module) Lookup(name ast.Identifier) (Declaration, bool) {
	for _, d := range m.Decls {
		if d.GetName() == name {
			return d, true
		}
	}
	return nil, false
}
