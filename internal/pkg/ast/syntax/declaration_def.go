package syntax

import (
	"duo-compiler/internal/pkg/ast"
	"fmt"
)

// Def is a pattern-matching definition on a data type. Case bodies live in
// the context of Params followed by the pattern's telescope.
type Def struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Self   SelfParam
	RetTyp Expression
	Cases  []*Case
}

func (*Def) _declaration() {}

func (d *Def) GetLocation() ast.Location {
	return d.Location
}

func (d *Def) GetName() ast.Identifier {
	return d.Name
}

func (d *Def) GetDoc() string {
	return d.Doc
}

func (d *Def) String() string {
	return fmt.Sprintf("def %s.%s%s: %s %s", d.Self, d.Name, d.Params, d.RetTyp, codeCases(d.Cases))
}

// Codef is a copattern-matching definition of a codata value. Typ lives in
// the context of Params, case bodies in Params followed by the copattern's
// telescope.
type Codef struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Typ    *TypCtor
	Cases  []*Case
}

func (*Codef) _declaration() {}

func (d *Codef) GetLocation() ast.Location {
	return d.Location
}

func (d *Codef) GetName() ast.Identifier {
	return d.Name
}

func (d *Codef) GetDoc() string {
	return d.Doc
}

func (d *Codef) String() string {
	return fmt.Sprintf("codef %s%s: %s %s", d.Name, d.Params, d.Typ, codeCases(d.Cases))
}

// Let is a transparent top-level binding; calls to it unfold.
type Let struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params Telescope
	Typ    Expression
	Body   Expression
}

func (*Let) _declaration() {}

func (d *Let) GetLocation() ast.Location {
	return d.Location
}

func (d *Let) GetName() ast.Identifier {
	return d.Name
}

func (d *Let) GetDoc() string {
	return d.Doc
}

func (d *Let) String() string {
	return fmt.Sprintf("let %s%s: %s { %s }", d.Name, d.Params, d.Typ, d.Body)
}
