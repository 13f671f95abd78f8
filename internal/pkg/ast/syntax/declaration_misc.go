package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
)

// Infix declares Operator as surface notation for Target. Lowering has
// already rewritten every use, only the declaration itself remains.
type Infix struct {
	ast.Location
	Doc      string
	Operator ast.Identifier
	Target   ast.Identifier
}

func (*Infix) _declaration() {}

func (d *Infix) GetLocation() ast.Location {
	return d.Location
}

func (d *Infix) GetName() ast.Identifier {
	return d.Operator
}

func (d *Infix) GetDoc() string {
	return d.Doc
}

func (d *Infix) String() string {
	return fmt.Sprintf("infix _ %s _ := %s", d.Operator, d.Target)
}

type Note struct {
	ast.Location
	Doc  string
	Name ast.Identifier
}

func (*Note) _declaration() {}

func (d *Note) GetLocation() ast.Location {
	return d.Location
}

func (d *Note) GetName() ast.Identifier {
	return d.Name
}

func (d *Note) GetDoc() string {
	return d.Doc
}

func (d *Note) String() string {
	return fmt.Sprintf("note %s", d.Name)
}
