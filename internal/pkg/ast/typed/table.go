package typed

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
	"fmt"

	"golang.org/x/exp/slices"
)

type Status int

const (
	Pending Status = iota
	Checked
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Checked:
		return "checked"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type entry struct {
	decl   syntax.Declaration
	status Status
}

// Table maps top-level names to declarations. The checker fills it group by
// group; Freeze hands out a snapshot that is safe to share between readers.
type Table struct {
	decls  map[ast.Identifier]*entry
	xtors  map[ast.Identifier]ast.Identifier
	order  []ast.Identifier
	frozen bool
}

func NewTable() *Table {
	t := &Table{
		decls: map[ast.Identifier]*entry{},
		xtors: map[ast.Identifier]ast.Identifier{},
	}
	for _, name := range ast.Builtins {
		_ = t.Register(&syntax.Data{Name: name, Doc: "builtin"}, Checked)
	}
	return t
}

func (t *Table) mustBeMutable() {
	if t.frozen {
		panic(common.NewImpossibleError(ast.Location{}, "modifying a frozen type-info table"))
	}
}

// Register adds a declaration. Constructor and destructor names share the
// namespace of top-level declarations.
func (t *Table) Register(decl syntax.Declaration, status Status) error {
	t.mustBeMutable()
	name := decl.GetName()
	if err := t.checkFree(decl.GetLocation(), name); err != nil {
		return err
	}
	// xtors must also differ from each other and from the declaration
	seen := map[ast.Identifier]ast.Location{name: decl.GetLocation()}
	claim := func(loc ast.Location, x ast.Identifier) error {
		if other, ok := seen[x]; ok {
			return common.NewTypeError(loc, []ast.Location{other}, "`%s` is already declared", x)
		}
		seen[x] = loc
		return t.checkFree(loc, x)
	}
	switch decl.(type) {
	case *syntax.Data:
		for _, c := range decl.(*syntax.Data).Ctors {
			if err := claim(c.Location, c.Name); err != nil {
				return err
			}
		}
	case *syntax.Codata:
		for _, d := range decl.(*syntax.Codata).Dtors {
			if err := claim(d.Location, d.Name); err != nil {
				return err
			}
		}
	}
	t.decls[name] = &entry{decl: decl, status: status}
	t.order = append(t.order, name)
	t.indexXtors(decl)
	return nil
}

func (t *Table) checkFree(loc ast.Location, name ast.Identifier) error {
	var other ast.Location
	if e, ok := t.decls[name]; ok {
		other = e.decl.GetLocation()
	} else if owner, ok := t.xtors[name]; ok {
		other = t.decls[owner].decl.GetLocation()
	} else {
		return nil
	}
	return common.NewTypeError(loc, []ast.Location{other}, "`%s` is already declared", name)
}

func (t *Table) indexXtors(decl syntax.Declaration) {
	switch decl.(type) {
	case *syntax.Data:
		for _, c := range decl.(*syntax.Data).Ctors {
			t.xtors[c.Name] = decl.GetName()
		}
	case *syntax.Codata:
		for _, d := range decl.(*syntax.Codata).Dtors {
			t.xtors[d.Name] = decl.GetName()
		}
	}
}

// Publish replaces a registered declaration with its checked form.
func (t *Table) Publish(decl syntax.Declaration) {
	t.mustBeMutable()
	e, ok := t.decls[decl.GetName()]
	if !ok {
		panic(common.NewImpossibleError(decl.GetLocation(), "publishing unregistered declaration `%s`", decl.GetName()))
	}
	e.decl = decl
	e.status = Checked
	t.indexXtors(decl)
}

// Update replaces a registered declaration keeping its status.
func (t *Table) Update(decl syntax.Declaration) {
	t.mustBeMutable()
	e, ok := t.decls[decl.GetName()]
	if !ok {
		panic(common.NewImpossibleError(decl.GetLocation(), "updating unregistered declaration `%s`", decl.GetName()))
	}
	e.decl = decl
	t.indexXtors(decl)
}

func (t *Table) Fail(name ast.Identifier) {
	t.mustBeMutable()
	if e, ok := t.decls[name]; ok {
		e.status = Failed
	}
}

func (t *Table) Status(name ast.Identifier) (Status, bool) {
	if e, ok := t.decls[name]; ok {
		return e.status, true
	}
	if owner, ok := t.xtors[name]; ok {
		return t.decls[owner].status, true
	}
	return 0, false
}

func (t *Table) Lookup(name ast.Identifier) (syntax.Declaration, bool) {
	e, ok := t.decls[name]
	if !ok {
		return nil, false
	}
	return e.decl, true
}

// Owner returns the type declaring the constructor or destructor name.
func (t *Table) Owner(name ast.Identifier) (ast.Identifier, bool) {
	owner, ok := t.xtors[name]
	return owner, ok
}

// Names returns the registered declarations in registration order.
func (t *Table) Names() []ast.Identifier {
	return slices.Clone(t.order)
}

func (t *Table) get(loc ast.Location, name ast.Identifier, what string) (syntax.Declaration, error) {
	e, ok := t.decls[name]
	if !ok {
		return nil, common.NewLookupError(loc, "unknown %s `%s`", what, name)
	}
	if e.status == Failed {
		return nil, common.ErrSwallowed
	}
	return e.decl, nil
}

func kindMismatch(loc ast.Location, name ast.Identifier, what string, decl syntax.Declaration) error {
	return common.NewTypeError(loc, []ast.Location{decl.GetLocation()}, "`%s` is not a %s", name, what)
}

func (t *Table) LookupData(loc ast.Location, name ast.Identifier) (*syntax.Data, error) {
	decl, err := t.get(loc, name, "data type")
	if err != nil {
		return nil, err
	}
	if d, ok := decl.(*syntax.Data); ok {
		return d, nil
	}
	return nil, kindMismatch(loc, name, "data type", decl)
}

func (t *Table) LookupCodata(loc ast.Location, name ast.Identifier) (*syntax.Codata, error) {
	decl, err := t.get(loc, name, "codata type")
	if err != nil {
		return nil, err
	}
	if d, ok := decl.(*syntax.Codata); ok {
		return d, nil
	}
	return nil, kindMismatch(loc, name, "codata type", decl)
}

// LookupTypeParams returns the parameters of a data or codata type.
func (t *Table) LookupTypeParams(loc ast.Location, name ast.Identifier) (syntax.Telescope, error) {
	decl, err := t.get(loc, name, "type")
	if err != nil {
		return nil, err
	}
	switch decl.(type) {
	case *syntax.Data:
		return decl.(*syntax.Data).Params, nil
	case *syntax.Codata:
		return decl.(*syntax.Codata).Params, nil
	}
	return nil, kindMismatch(loc, name, "type", decl)
}

func (t *Table) LookupCtor(loc ast.Location, name ast.Identifier) (*syntax.Data, *syntax.Ctor, error) {
	owner, ok := t.xtors[name]
	if !ok {
		return nil, nil, common.NewLookupError(loc, "unknown constructor `%s`", name)
	}
	data, err := t.LookupData(loc, owner)
	if err != nil {
		return nil, nil, err
	}
	ctor, ok := data.Ctor(name)
	if !ok {
		return nil, nil, common.NewLookupError(loc, "`%s` is not a constructor", name)
	}
	return data, ctor, nil
}

func (t *Table) LookupDtor(loc ast.Location, name ast.Identifier) (*syntax.Codata, *syntax.Dtor, error) {
	owner, ok := t.xtors[name]
	if !ok {
		return nil, nil, common.NewLookupError(loc, "unknown destructor `%s`", name)
	}
	codata, err := t.LookupCodata(loc, owner)
	if err != nil {
		return nil, nil, err
	}
	dtor, ok := codata.Dtor(name)
	if !ok {
		return nil, nil, common.NewLookupError(loc, "`%s` is not a destructor", name)
	}
	return codata, dtor, nil
}

func (t *Table) LookupDef(loc ast.Location, name ast.Identifier) (*syntax.Def, error) {
	decl, err := t.get(loc, name, "definition")
	if err != nil {
		return nil, err
	}
	if d, ok := decl.(*syntax.Def); ok {
		return d, nil
	}
	return nil, kindMismatch(loc, name, "definition", decl)
}

func (t *Table) LookupCodef(loc ast.Location, name ast.Identifier) (*syntax.Codef, error) {
	decl, err := t.get(loc, name, "codefinition")
	if err != nil {
		return nil, err
	}
	if d, ok := decl.(*syntax.Codef); ok {
		return d, nil
	}
	return nil, kindMismatch(loc, name, "codefinition", decl)
}

func (t *Table) LookupLet(loc ast.Location, name ast.Identifier) (*syntax.Let, error) {
	decl, err := t.get(loc, name, "let binding")
	if err != nil {
		return nil, err
	}
	if d, ok := decl.(*syntax.Let); ok {
		return d, nil
	}
	return nil, kindMismatch(loc, name, "let binding", decl)
}

// DefsOn returns the definitions whose self parameter has the given type.
func (t *Table) DefsOn(typeName ast.Identifier) []*syntax.Def {
	var result []*syntax.Def
	for _, name := range t.order {
		e := t.decls[name]
		if d, ok := e.decl.(*syntax.Def); ok && e.status != Failed && d.Self.Type.Name == typeName {
			result = append(result, d)
		}
	}
	return result
}

// CodefsOf returns the codefinitions producing the given type.
func (t *Table) CodefsOf(typeName ast.Identifier) []*syntax.Codef {
	var result []*syntax.Codef
	for _, name := range t.order {
		e := t.decls[name]
		if d, ok := e.decl.(*syntax.Codef); ok && e.status != Failed && d.Typ.Name == typeName {
			result = append(result, d)
		}
	}
	return result
}

// Arity returns the parameter count of a declaration, constructor or
// destructor.
func (t *Table) Arity(name ast.Identifier) (int, bool) {
	if owner, ok := t.xtors[name]; ok {
		switch t.decls[owner].decl.(type) {
		case *syntax.Data:
			if c, ok := t.decls[owner].decl.(*syntax.Data).Ctor(name); ok {
				return len(c.Params), true
			}
		case *syntax.Codata:
			if d, ok := t.decls[owner].decl.(*syntax.Codata).Dtor(name); ok {
				return len(d.Params), true
			}
		}
		return 0, false
	}
	e, ok := t.decls[name]
	if !ok {
		return 0, false
	}
	switch e.decl.(type) {
	case *syntax.Data:
		return len(e.decl.(*syntax.Data).Params), true
	case *syntax.Codata:
		return len(e.decl.(*syntax.Codata).Params), true
	case *syntax.Def:
		return len(e.decl.(*syntax.Def).Params), true
	case *syntax.Codef:
		return len(e.decl.(*syntax.Codef).Params), true
	case *syntax.Let:
		return len(e.decl.(*syntax.Let).Params), true
	}
	return 0, true
}

// Freeze returns a read-only copy of the table.
func (t *Table) Freeze() *Table {
	r := &Table{
		decls:  make(map[ast.Identifier]*entry, len(t.decls)),
		xtors:  make(map[ast.Identifier]ast.Identifier, len(t.xtors)),
		order:  slices.Clone(t.order),
		frozen: true,
	}
	for k, v := range t.decls {
		c := *v
		r.decls[k] = &c
	}
	for k, v := range t.xtors {
		r.xtors[k] = v
	}
	return r
}

// Thaw returns a mutable copy, used to check expressions or transformed
// declarations against a published module.
func (t *Table) Thaw() *Table {
	r := t.Freeze()
	r.frozen = false
	return r
}

func (t *Table) IsFrozen() bool {
	return t.frozen
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(%d declarations)", len(t.order))
}
