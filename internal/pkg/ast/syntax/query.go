package syntax

import (
	"duo-compiler/internal/pkg/ast"

	"github.com/hashicorp/go-set/v3"
)

// FreeVars returns the variables of e bound outside of it.
func FreeVars(e Expression) *set.Set[ast.Idx] {
	result := set.New[ast.Idx](0)
	Walk(e, 0, func(x Expression, depth int) bool {
		if v, ok := x.(*Variable); ok && v.Idx.Fst >= depth {
			result.Insert(ast.Idx{Fst: v.Idx.Fst - depth, Snd: v.Idx.Snd})
		}
		return true
	})
	return result
}

func Mentions(e Expression, idx ast.Idx) bool {
	found := false
	Walk(e, 0, func(x Expression, depth int) bool {
		if found {
			return false
		}
		if v, ok := x.(*Variable); ok && v.Idx.Fst == idx.Fst+depth && v.Idx.Snd == idx.Snd {
			found = true
		}
		return true
	})
	return found
}

// Metas returns the metavariables of the holes in e, type annotations
// included.
func Metas(e Expression) *set.Set[ast.MetaID] {
	result := set.New[ast.MetaID](0)
	Rewrite(e, 0, func(x Expression, _ int) Expression {
		if h, ok := x.(*Hole); ok && h.Metavar != ast.NoMeta {
			result.Insert(h.Metavar)
		}
		return x
	})
	return result
}

func StripTypes(e Expression) Expression {
	return Rewrite(e, 0, stripType)
}

func StripDeclTypes(decl Declaration) Declaration {
	return RewriteDecl(decl, stripType)
}

func stripType(x Expression, _ int) Expression {
	if h, ok := x.(*Hole); ok {
		c := *h
		c.Type = nil
		c.Metavar = ast.NoMeta
		c.Args = nil
		return &c
	}
	return x.WithType(nil)
}
