package xfunc

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
)

// Refunctionalize renders the matrix as a codata type: every consumer
// becomes a destructor and every producer a codefinition.
func Refunctionalize(m *Matrix) (*syntax.Codata, []syntax.Declaration) {
	codata := &syntax.Codata{
		Location: m.Location,
		Doc:      m.Doc,
		Name:     m.Name,
		Params:   m.Params,
	}
	for _, c := range m.Consumers {
		codata.Dtors = append(codata.Dtors, &syntax.Dtor{
			Location: c.Location,
			Doc:      c.Doc,
			Name:     c.Name,
			Params:   c.Params,
			Self:     c.Self,
			RetTyp:   c.RetTyp,
		})
	}

	var codefs []syntax.Declaration
	for _, p := range m.Producers {
		codef := &syntax.Codef{
			Location: p.Location,
			Doc:      p.Doc,
			Name:     p.Name,
			Params:   p.Params,
			Typ:      p.Typ,
		}
		for _, c := range m.Consumers {
			cell, _ := m.Cell(p.Name, c.Name)
			var body syntax.Expression
			if cell.Body != nil {
				body = swapInnermost(cell.Body)
			}
			codef.Cases = append(codef.Cases, &syntax.Case{
				Location: cell.Location,
				Pattern: syntax.Pattern{
					Location:    cell.Location,
					IsCopattern: true,
					Name:        c.Name,
					Params:      paramInsts(cell.Location, cell.ConsumerParams),
				},
				Body: body,
			})
		}
		codefs = append(codefs, codef)
	}
	return codata, codefs
}

// Defunctionalize renders the matrix as a data type: every producer
// becomes a constructor and every consumer a definition.
func Defunctionalize(m *Matrix) (*syntax.Data, []syntax.Declaration) {
	data := &syntax.Data{
		Location: m.Location,
		Doc:      m.Doc,
		Name:     m.Name,
		Params:   m.Params,
	}
	for _, p := range m.Producers {
		data.Ctors = append(data.Ctors, &syntax.Ctor{
			Location: p.Location,
			Doc:      p.Doc,
			Name:     p.Name,
			Params:   p.Params,
			Typ:      p.Typ,
		})
	}

	var defs []syntax.Declaration
	for _, c := range m.Consumers {
		def := &syntax.Def{
			Location: c.Location,
			Doc:      c.Doc,
			Name:     c.Name,
			Params:   c.Params,
			Self:     c.Self,
			RetTyp:   c.RetTyp,
		}
		for _, p := range m.Producers {
			cell, _ := m.Cell(p.Name, c.Name)
			def.Cases = append(def.Cases, &syntax.Case{
				Location: cell.Location,
				Pattern: syntax.Pattern{
					Location: cell.Location,
					Name:     p.Name,
					Params:   paramInsts(cell.Location, cell.ProducerParams),
				},
				Body: cell.Body,
			})
		}
		defs = append(defs, def)
	}
	return data, defs
}

func paramInsts(loc ast.Location, names []ast.Identifier) []*syntax.ParamInst {
	params := make([]*syntax.ParamInst, len(names))
	for i, n := range names {
		params[i] = &syntax.ParamInst{Location: loc, Name: n}
	}
	return params
}
