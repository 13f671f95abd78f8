package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
	"strings"
)

type Codata struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Dtors  []*Dtor
}

func (*Codata) _declaration() {}

func (d *Codata) GetLocation() ast.Location {
	return d.Location
}

func (d *Codata) GetName() ast.Identifier {
	return d.Name
}

func (d *Codata) GetDoc() string {
	return d.Doc
}

func (d *Codata) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("codata %s%s {", d.Name, d.Params))
	for i, x := range d.Dtors {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" " + x.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

func (d *Codata) Dtor(name ast.Identifier) (*Dtor, bool) {
	for _, x := range d.Dtors {
		if x.Name == name {
			return x, true
		}
	}
	return nil, false
}

// Dtor is a destructor. Self.Type lives in the context of Params, RetTyp in
// the context of Params followed by a telescope holding self.
type Dtor struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Self   SelfParam
	RetTyp Expression
}

func (x *Dtor) String() string {
	return fmt.Sprintf("%s.%s%s: %s", x.Self, x.Name, x.Params, x.RetTyp)
}
