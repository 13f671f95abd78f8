package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
	"strings"
)

type Data struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Ctors  []*Ctor
}

func (*Data) _declaration() {}

func (d *Data) GetLocation() ast.Location {
	return d.Location
}

func (d *Data) GetName() ast.Identifier {
	return d.Name
}

func (d *Data) GetDoc() string {
	return d.Doc
}

func (d *Data) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("data %s%s {", d.Name, d.Params))
	for i, c := range d.Ctors {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" " + c.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

func (d *Data) Ctor(name ast.Identifier) (*Ctor, bool) {
	for _, c := range d.Ctors {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Ctor is a constructor. Typ lives in the context of Params.
type Ctor struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Typ    *TypCtor
}

func (c *Ctor) String() string {
	return fmt.Sprintf("%s%s: %s", c.Name, c.Params, c.Typ)
}
