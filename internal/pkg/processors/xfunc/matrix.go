package xfunc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
)

// Producer is a row of the matrix: a constructor, or a codefinition.
type Producer struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params syntax.Telescope
	Typ    *syntax.TypCtor
}

// Consumer is a column of the matrix: a definition, or a destructor.
type Consumer struct {
	ast.Location
	Doc    string
	Name   ast.Identifier
	Params syntax.Telescope
	Self   syntax.SelfParam
	RetTyp syntax.Expression
}

// Cell is the behaviour of a consumer on a producer. Body lives in the
// context of the consumer parameters followed by the producer parameters,
// the orientation of a definition. A nil Body is an absurd case.
type Cell struct {
	ast.Location
	ProducerParams []ast.Identifier
	ConsumerParams []ast.Identifier
	Body           syntax.Expression
}

type cellKey struct {
	producer ast.Identifier
	consumer ast.Identifier
}

// Matrix tabulates a type's producers against its consumers. Both the data
// and the codata form of a type are renderings of the same matrix.
type Matrix struct {
	ast.Location
	Doc       string
	Name      ast.Identifier
	Params    syntax.Telescope
	Producers []*Producer
	Consumers []*Consumer
	cells     map[cellKey]*Cell
}

func (m *Matrix) Cell(producer, consumer ast.Identifier) (*Cell, bool) {
	c, ok := m.cells[cellKey{producer: producer, consumer: consumer}]
	return c, ok
}

// fromData builds the matrix of a data type: constructors against the
// definitions on it.
func fromData(data *syntax.Data, decls []syntax.Declaration) (*Matrix, error) {
	m := &Matrix{
		Location: data.Location,
		Doc:      data.Doc,
		Name:     data.Name,
		Params:   data.Params,
		cells:    map[cellKey]*Cell{},
	}
	for _, c := range data.Ctors {
		m.Producers = append(m.Producers, &Producer{Location: c.Location, Doc: c.Doc, Name: c.Name, Params: c.Params, Typ: c.Typ})
	}
	for _, d := range decls {
		def, ok := d.(*syntax.Def)
		if !ok || def.Self.Type.Name != data.Name {
			continue
		}
		m.Consumers = append(m.Consumers, &Consumer{
			Location: def.Location, Doc: def.Doc, Name: def.Name,
			Params: def.Params, Self: def.Self, RetTyp: def.RetTyp,
		})
		for _, cs := range def.Cases {
			if cs.Pattern.IsCopattern {
				return nil, common.NewImpossibleError(cs.Location, "copattern `%s` in definition `%s`", cs.Pattern.Name, def.Name)
			}
			m.cells[cellKey{producer: cs.Pattern.Name, consumer: def.Name}] = &Cell{
				Location:       cs.Location,
				ProducerParams: syntax.ParamInstNames(cs.Pattern.Params),
				ConsumerParams: def.Params.Names(),
				Body:           cs.Body,
			}
		}
	}
	return m, m.complete()
}

// fromCodata builds the matrix of a codata type: codefinitions producing it
// against its destructors.
func fromCodata(codata *syntax.Codata, decls []syntax.Declaration) (*Matrix, error) {
	m := &Matrix{
		Location: codata.Location,
		Doc:      codata.Doc,
		Name:     codata.Name,
		Params:   codata.Params,
		cells:    map[cellKey]*Cell{},
	}
	for _, d := range codata.Dtors {
		m.Consumers = append(m.Consumers, &Consumer{
			Location: d.Location, Doc: d.Doc, Name: d.Name,
			Params: d.Params, Self: d.Self, RetTyp: d.RetTyp,
		})
	}
	for _, d := range decls {
		codef, ok := d.(*syntax.Codef)
		if !ok || codef.Typ.Name != codata.Name {
			continue
		}
		m.Producers = append(m.Producers, &Producer{
			Location: codef.Location, Doc: codef.Doc, Name: codef.Name,
			Params: codef.Params, Typ: codef.Typ,
		})
		for _, cs := range codef.Cases {
			if !cs.Pattern.IsCopattern {
				return nil, common.NewImpossibleError(cs.Location, "pattern `%s` in codefinition `%s`", cs.Pattern.Name, codef.Name)
			}
			m.cells[cellKey{producer: codef.Name, consumer: cs.Pattern.Name}] = &Cell{
				Location:       cs.Location,
				ProducerParams: codef.Params.Names(),
				ConsumerParams: syntax.ParamInstNames(cs.Pattern.Params),
				Body:           swapInnermost(cs.Body),
			}
		}
	}
	return m, m.complete()
}

// complete checks every consumer has exactly one cell per producer.
func (m *Matrix) complete() error {
	if len(m.cells) != len(m.Producers)*len(m.Consumers) {
		return common.NewImpossibleError(m.Location, "`%s` has %d cases for %d producers and %d consumers",
			m.Name, len(m.cells), len(m.Producers), len(m.Consumers))
	}
	for _, p := range m.Producers {
		for _, c := range m.Consumers {
			if _, ok := m.Cell(p.Name, c.Name); !ok {
				return common.NewImpossibleError(m.Location, "no case of `%s` for `%s`", c.Name, p.Name)
			}
		}
	}
	return nil
}

// swapInnermost exchanges the two innermost telescopes of e.
func swapInnermost(e syntax.Expression) syntax.Expression {
	return syntax.Rewrite(e, 0, func(x syntax.Expression, depth int) syntax.Expression {
		v, ok := x.(*syntax.Variable)
		if !ok {
			return x
		}
		switch v.Idx.Fst - depth {
		case 0:
			c := *v
			c.Idx.Fst = depth + 1
			return &c
		case 1:
			c := *v
			c.Idx.Fst = depth
			return &c
		}
		return x
	})
}
