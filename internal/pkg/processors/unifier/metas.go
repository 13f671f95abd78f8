package unifier

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type meta struct {
	location ast.Location
	typ      syntax.Expression
	shape    []int
	solution syntax.Expression
}

// MetaVars owns the metavariables of one elaboration run. A solution is an
// expression over the arguments of the hole, one telescope per context
// telescope.
type MetaVars struct {
	next  ast.MetaID
	metas map[ast.MetaID]*meta
}

func NewMetaVars() *MetaVars {
	return &MetaVars{next: ast.NoMeta + 1, metas: map[ast.MetaID]*meta{}}
}

// Fresh creates an unsolved metavariable expected to have typ in ctx.
func (m *MetaVars) Fresh(loc ast.Location, ctx *syntax.Ctx, typ syntax.Expression) ast.MetaID {
	id := m.next
	m.next++
	m.metas[id] = &meta{location: loc, typ: typ, shape: ctx.Shape()}
	return id
}

func (m *MetaVars) Solve(id ast.MetaID, solution syntax.Expression) error {
	x, ok := m.metas[id]
	if !ok {
		return common.NewImpossibleError(ast.Location{}, "unknown metavariable %s", id)
	}
	if x.solution != nil {
		return common.NewImpossibleError(x.location, "metavariable %s is already solved", id)
	}
	x.solution = solution
	return nil
}

func (m *MetaVars) Solution(id ast.MetaID) (syntax.Expression, bool) {
	if x, ok := m.metas[id]; ok && x.solution != nil {
		return x.solution, true
	}
	return nil, false
}

func (m *MetaVars) IsSolved(id ast.MetaID) bool {
	_, ok := m.Solution(id)
	return ok
}

func (m *MetaVars) Location(id ast.MetaID) ast.Location {
	if x, ok := m.metas[id]; ok {
		return x.location
	}
	return ast.Location{}
}

func (m *MetaVars) Type(id ast.MetaID) syntax.Expression {
	if x, ok := m.metas[id]; ok {
		return x.typ
	}
	return nil
}

// Unsolved lists the unsolved metavariables in creation order.
func (m *MetaVars) Unsolved() []ast.MetaID {
	ids := maps.Keys(m.metas)
	slices.Sort(ids)
	var result []ast.MetaID
	for _, id := range ids {
		if m.metas[id].solution == nil {
			result = append(result, id)
		}
	}
	return result
}

func (m *MetaVars) Len() int {
	return len(m.metas)
}
