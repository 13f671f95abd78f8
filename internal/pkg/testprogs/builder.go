// Package testprogs builds small checked-to-be programs shared by the tests
// of the pipeline stages.
package testprogs

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
)

const File = "test.duo"

// builder hands out spans so that every node lies inside the span of its
// declaration.
type builder struct {
	base   uint32
	offset uint32
}

func (b *builder) decl() ast.Location {
	b.base += 1000
	b.offset = b.base
	return ast.NewLocation(File, nil, b.base, b.base+999)
}

func (b *builder) loc() ast.Location {
	b.offset += 2
	return ast.NewLocation(File, nil, b.offset, b.offset+1)
}

func (b *builder) typ(name ast.Identifier, args ...syntax.Expression) *syntax.TypCtor {
	return syntax.NewTypCtor(b.loc(), name, args...)
}

func (b *builder) ctor(name ast.Identifier, args ...syntax.Expression) *syntax.Call {
	return syntax.NewCall(b.loc(), syntax.CallConstructor, name, args...)
}

func (b *builder) codef(name ast.Identifier, args ...syntax.Expression) *syntax.Call {
	return syntax.NewCall(b.loc(), syntax.CallCodefinition, name, args...)
}

func (b *builder) let(name ast.Identifier, args ...syntax.Expression) *syntax.Call {
	return syntax.NewCall(b.loc(), syntax.CallLet, name, args...)
}

func (b *builder) dtor(exp syntax.Expression, name ast.Identifier, args ...syntax.Expression) *syntax.DotCall {
	return syntax.NewDotCall(b.loc(), syntax.DotCallDestructor, exp, name, args...)
}

func (b *builder) def(exp syntax.Expression, name ast.Identifier, args ...syntax.Expression) *syntax.DotCall {
	return syntax.NewDotCall(b.loc(), syntax.DotCallDefinition, exp, name, args...)
}

func (b *builder) v(name ast.Identifier, fst, snd int) *syntax.Variable {
	return syntax.NewVariable(b.loc(), name, ast.Idx{Fst: fst, Snd: snd})
}

func (b *builder) param(name ast.Identifier, typ syntax.Expression) *syntax.Param {
	return &syntax.Param{Location: b.loc(), Name: name, Type: typ}
}

func (b *builder) self(typ *syntax.TypCtor) syntax.SelfParam {
	return syntax.SelfParam{Location: typ.Location, Type: typ}
}

func (b *builder) pattern(name ast.Identifier, params ...ast.Identifier) syntax.Pattern {
	return syntax.Pattern{Location: b.loc(), Name: name, Params: b.paramInsts(params)}
}

func (b *builder) copattern(name ast.Identifier, params ...ast.Identifier) syntax.Pattern {
	return syntax.Pattern{Location: b.loc(), IsCopattern: true, Name: name, Params: b.paramInsts(params)}
}

func (b *builder) paramInsts(names []ast.Identifier) []*syntax.ParamInst {
	result := make([]*syntax.ParamInst, len(names))
	for i, n := range names {
		result[i] = &syntax.ParamInst{Location: b.loc(), Name: n}
	}
	return result
}

func (b *builder) cs(p syntax.Pattern, body syntax.Expression) *syntax.Case {
	return &syntax.Case{Location: p.Location, Pattern: p, Body: body}
}

func (b *builder) absurd(p syntax.Pattern) *syntax.Case {
	return &syntax.Case{Location: p.Location, Pattern: p}
}
