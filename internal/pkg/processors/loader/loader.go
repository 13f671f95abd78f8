package loader

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// LoadFile reads a lowered module from path. The source file it refers to
// is resolved relative to path and read if present, so that locations can
// be rendered with lines and columns.
func LoadFile(path string) (*syntax.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewSystemError(fmt.Errorf("failed to read module `%s`: %w", path, err))
	}
	var m module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, common.NewSystemError(fmt.Errorf("failed to parse module `%s`: %w", path, err))
	}

	var content []rune
	source := m.Source
	if source != "" {
		if !filepath.IsAbs(source) {
			source = filepath.Join(filepath.Dir(path), source)
		}
		text, err := os.ReadFile(source)
		if err != nil && !os.IsNotExist(err) {
			return nil, common.NewSystemError(fmt.Errorf("failed to read source `%s`: %w", source, err))
		}
		if err == nil {
			content = []rune(string(text))
		}
	}
	return decodeModule(&m, source, content)
}

// Load decodes a lowered module. content is the source text its spans
// point into, or nil.
func Load(data []byte, content []rune) (*syntax.Module, error) {
	var m module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, common.NewSystemError(fmt.Errorf("failed to parse module: %w", err))
	}
	return decodeModule(&m, m.Source, content)
}

func decodeModule(m *module, file string, content []rune) (*syntax.Module, error) {
	d := decoder{file: file, content: content}
	decls, err := common.MapErr(d.decl, m.Decls)
	if err != nil {
		return nil, common.NewSystemError(err)
	}
	result := &syntax.Module{Name: ast.QualifiedIdentifier(m.Name), Decls: decls}
	if len(decls) > 0 {
		result.Location = d.loc(span{0, d.end(m.Decls)})
	}
	return result, nil
}

type decoder struct {
	file    string
	content []rune
}

func (d decoder) loc(s span) ast.Location {
	return ast.NewLocation(d.file, d.content, s[0], s[1])
}

func (d decoder) end(decls []*decl) uint32 {
	var end uint32
	for _, x := range decls {
		if x != nil && x.Span[1] > end {
			end = x.Span[1]
		}
	}
	return end
}

func (d decoder) decl(x *decl) (syntax.Declaration, error) {
	if x == nil {
		return nil, fmt.Errorf("null declaration")
	}
	loc := d.loc(x.Span)
	name := ast.Identifier(x.Name)
	switch x.Kind {
	case "data":
		params, err := d.params(x.Params)
		if err != nil {
			return nil, err
		}
		ctors, err := common.MapErr(d.ctor, x.Ctors)
		if err != nil {
			return nil, err
		}
		return &syntax.Data{Location: loc, Doc: x.Doc, Name: name, Params: params, Ctors: ctors}, nil
	case "codata":
		params, err := d.params(x.Params)
		if err != nil {
			return nil, err
		}
		dtors, err := common.MapErr(d.dtor, x.Dtors)
		if err != nil {
			return nil, err
		}
		return &syntax.Codata{Location: loc, Doc: x.Doc, Name: name, Params: params, Dtors: dtors}, nil
	case "def":
		params, err := d.params(x.Params)
		if err != nil {
			return nil, err
		}
		self, err := d.self(x.Self, loc)
		if err != nil {
			return nil, err
		}
		ret, err := d.required(x.RetTyp, "return type of `%s`", name)
		if err != nil {
			return nil, err
		}
		cases, err := d.cases(x.Cases)
		if err != nil {
			return nil, err
		}
		return &syntax.Def{Location: loc, Doc: x.Doc, Name: name, Params: params, Self: self, RetTyp: ret, Cases: cases}, nil
	case "codef":
		params, err := d.params(x.Params)
		if err != nil {
			return nil, err
		}
		typ, err := d.typCtor(x.Typ, "type of `%s`", name)
		if err != nil {
			return nil, err
		}
		cases, err := d.cases(x.Cases)
		if err != nil {
			return nil, err
		}
		return &syntax.Codef{Location: loc, Doc: x.Doc, Name: name, Params: params, Typ: typ, Cases: cases}, nil
	case "let":
		params, err := d.params(x.Params)
		if err != nil {
			return nil, err
		}
		typ, err := d.required(x.Typ, "type of `%s`", name)
		if err != nil {
			return nil, err
		}
		body, err := d.required(x.Body, "body of `%s`", name)
		if err != nil {
			return nil, err
		}
		return &syntax.Let{Location: loc, Doc: x.Doc, Name: name, Params: params, Typ: typ, Body: body}, nil
	case "infix":
		return &syntax.Infix{Location: loc, Doc: x.Doc, Operator: ast.Identifier(x.Operator), Target: ast.Identifier(x.Target)}, nil
	case "note":
		return &syntax.Note{Location: loc, Doc: x.Doc, Name: name}, nil
	}
	return nil, fmt.Errorf("%s: unknown declaration kind `%s`", loc.CursorString(), x.Kind)
}

func (d decoder) ctor(x *ctor) (*syntax.Ctor, error) {
	if x == nil {
		return nil, fmt.Errorf("null constructor")
	}
	params, err := d.params(x.Params)
	if err != nil {
		return nil, err
	}
	typ, err := d.typCtor(x.Typ, "type of constructor `%s`", x.Name)
	if err != nil {
		return nil, err
	}
	return &syntax.Ctor{Location: d.loc(x.Span), Doc: x.Doc, Name: ast.Identifier(x.Name), Params: params, Typ: typ}, nil
}

func (d decoder) dtor(x *dtor) (*syntax.Dtor, error) {
	if x == nil {
		return nil, fmt.Errorf("null destructor")
	}
	loc := d.loc(x.Span)
	params, err := d.params(x.Params)
	if err != nil {
		return nil, err
	}
	self, err := d.self(x.Self, loc)
	if err != nil {
		return nil, err
	}
	ret, err := d.required(x.RetTyp, "return type of destructor `%s`", x.Name)
	if err != nil {
		return nil, err
	}
	return &syntax.Dtor{Location: loc, Doc: x.Doc, Name: ast.Identifier(x.Name), Params: params, Self: self, RetTyp: ret}, nil
}

func (d decoder) self(x *self, owner ast.Location) (syntax.SelfParam, error) {
	if x == nil {
		return syntax.SelfParam{}, fmt.Errorf("%s: missing self parameter", owner.CursorString())
	}
	typ, err := d.typCtor(x.Type, "self parameter type")
	if err != nil {
		return syntax.SelfParam{}, err
	}
	return syntax.SelfParam{Location: d.loc(x.Span), Name: ast.Identifier(x.Name), Type: typ}, nil
}

func (d decoder) params(xs []*param) (syntax.Telescope, error) {
	return common.MapErr(func(x *param) (*syntax.Param, error) {
		if x == nil {
			return nil, fmt.Errorf("null parameter")
		}
		typ, err := d.required(x.Type, "type of parameter `%s`", x.Name)
		if err != nil {
			return nil, err
		}
		return &syntax.Param{Location: d.loc(x.Span), Name: ast.Identifier(x.Name), Type: typ}, nil
	}, xs)
}

func (d decoder) cases(xs []*kase) ([]*syntax.Case, error) {
	return common.MapErr(func(x *kase) (*syntax.Case, error) {
		if x == nil {
			return nil, fmt.Errorf("null case")
		}
		loc := d.loc(x.Span)
		params := make([]*syntax.ParamInst, len(x.Params))
		for i, p := range x.Params {
			if p == nil {
				return nil, fmt.Errorf("%s: null pattern parameter", loc.CursorString())
			}
			params[i] = &syntax.ParamInst{Location: d.loc(p.Span), Name: ast.Identifier(p.Name)}
		}
		var body syntax.Expression
		if x.Body != nil {
			var err error
			if body, err = d.expr(x.Body); err != nil {
				return nil, err
			}
		}
		return &syntax.Case{
			Location: loc,
			Pattern:  syntax.Pattern{Location: loc, IsCopattern: x.Copattern, Name: ast.Identifier(x.Name), Params: params},
			Body:     body,
		}, nil
	}, xs)
}

func (d decoder) required(x *expr, what string, args ...any) (syntax.Expression, error) {
	if x == nil {
		return nil, fmt.Errorf("missing %s", fmt.Sprintf(what, args...))
	}
	return d.expr(x)
}

func (d decoder) typCtor(x *expr, what string, args ...any) (*syntax.TypCtor, error) {
	e, err := d.required(x, what, args...)
	if err != nil {
		return nil, err
	}
	t, ok := e.(*syntax.TypCtor)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not a type constructor", e.GetLocation().CursorString(), fmt.Sprintf(what, args...))
	}
	return t, nil
}

func (d decoder) exprs(xs []*expr) ([]syntax.Expression, error) {
	return common.MapErr(func(x *expr) (syntax.Expression, error) {
		return d.required(x, "argument")
	}, xs)
}

func (d decoder) expr(x *expr) (syntax.Expression, error) {
	loc := d.loc(x.Span)
	name := ast.Identifier(x.Name)
	switch x.Kind {
	case "var":
		if x.Idx[0] < 0 || x.Idx[1] < 0 {
			return nil, fmt.Errorf("%s: negative index of `%s`", loc.CursorString(), x.Name)
		}
		return syntax.NewVariable(loc, name, ast.Idx{Fst: x.Idx[0], Snd: x.Idx[1]}), nil
	case "typctor":
		args, err := d.exprs(x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewTypCtor(loc, name, args...), nil
	case "call":
		kind, err := callKind(loc, x.Call)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewCall(loc, kind, name, args...), nil
	case "dotcall":
		kind, err := dotCallKind(loc, x.Call)
		if err != nil {
			return nil, err
		}
		exp, err := d.required(x.Exp, "receiver of `.%s`", name)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(x.Args)
		if err != nil {
			return nil, err
		}
		return syntax.NewDotCall(loc, kind, exp, name, args...), nil
	case "anno":
		exp, err := d.required(x.Exp, "annotated expression")
		if err != nil {
			return nil, err
		}
		annotation, err := d.required(x.Annotation, "annotation")
		if err != nil {
			return nil, err
		}
		return syntax.NewAnno(loc, exp, annotation), nil
	case "type":
		return syntax.NewTypeUniv(loc), nil
	case "lit":
		value, err := literal(loc, x)
		if err != nil {
			return nil, err
		}
		return syntax.NewLiteral(loc, value), nil
	case "match":
		on, err := d.required(x.On, "scrutinee")
		if err != nil {
			return nil, err
		}
		cases, err := d.cases(x.Cases)
		if err != nil {
			return nil, err
		}
		return syntax.NewLocalMatch(loc, ast.Identifier(x.Label), on, cases...), nil
	case "comatch":
		cases, err := d.cases(x.Cases)
		if err != nil {
			return nil, err
		}
		return syntax.NewLocalComatch(loc, ast.Identifier(x.Label), cases...), nil
	case "hole":
		return syntax.NewHole(loc), nil
	}
	return nil, fmt.Errorf("%s: unknown expression kind `%s`", loc.CursorString(), x.Kind)
}

func callKind(loc ast.Location, s string) (syntax.CallKind, error) {
	switch s {
	case "ctor":
		return syntax.CallConstructor, nil
	case "codef":
		return syntax.CallCodefinition, nil
	case "let":
		return syntax.CallLet, nil
	}
	return 0, fmt.Errorf("%s: unknown call kind `%s`", loc.CursorString(), s)
}

func dotCallKind(loc ast.Location, s string) (syntax.DotCallKind, error) {
	switch s {
	case "dtor":
		return syntax.DotCallDestructor, nil
	case "def":
		return syntax.DotCallDefinition, nil
	}
	return 0, fmt.Errorf("%s: unknown dot call kind `%s`", loc.CursorString(), s)
}

func literal(loc ast.Location, x *expr) (ast.ConstValue, error) {
	switch {
	case x.Int != nil:
		return ast.CInt{Value: *x.Int}, nil
	case x.Float != nil:
		return ast.CFloat{Value: *x.Float}, nil
	case x.Char != nil:
		r, size := utf8.DecodeRuneInString(*x.Char)
		if r == utf8.RuneError || size != len(*x.Char) {
			return nil, fmt.Errorf("%s: `%s` is not a single character", loc.CursorString(), *x.Char)
		}
		return ast.CChar{Value: r}, nil
	case x.String != nil:
		return ast.CString{Value: *x.String}, nil
	}
	return nil, fmt.Errorf("%s: literal without a value", loc.CursorString())
}
