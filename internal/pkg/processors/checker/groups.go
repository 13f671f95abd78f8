package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"

	"github.com/hashicorp/go-set/v3"
)

// dependencies returns the top-level names a declaration refers to.
// Constructor and destructor names resolve to the type declaring them.
func dependencies(decl syntax.Declaration, owners map[ast.Identifier]ast.Identifier) *set.Set[ast.Identifier] {
	deps := set.New[ast.Identifier](0)
	visit := func(e syntax.Expression, _ int) syntax.Expression {
		switch e.(type) {
		case *syntax.TypCtor:
			deps.Insert(e.(*syntax.TypCtor).Name)
		case *syntax.Call:
			deps.Insert(resolveOwner(e.(*syntax.Call).Name, owners))
		case *syntax.DotCall:
			deps.Insert(resolveOwner(e.(*syntax.DotCall).Name, owners))
		}
		return e
	}
	syntax.RewriteDecl(decl, visit)
	switch decl.(type) {
	case *syntax.Def:
		for _, c := range decl.(*syntax.Def).Cases {
			deps.Insert(resolveOwner(c.Pattern.Name, owners))
		}
	case *syntax.Codef:
		for _, c := range decl.(*syntax.Codef).Cases {
			deps.Insert(resolveOwner(c.Pattern.Name, owners))
		}
	case *syntax.Infix:
		deps.Insert(resolveOwner(decl.(*syntax.Infix).Target, owners))
	}
	deps.Remove(decl.GetName())
	return deps
}

func resolveOwner(name ast.Identifier, owners map[ast.Identifier]ast.Identifier) ast.Identifier {
	if owner, ok := owners[name]; ok {
		return owner
	}
	return name
}

// groups splits the module into strongly connected components of the
// reference graph, every group after the groups it depends on. Declarations
// keep their source order inside a group.
func groups(decls []syntax.Declaration) [][]syntax.Declaration {
	owners := map[ast.Identifier]ast.Identifier{}
	index := map[ast.Identifier]int{}
	for i, d := range decls {
		index[d.GetName()] = i
		switch d.(type) {
		case *syntax.Data:
			for _, c := range d.(*syntax.Data).Ctors {
				owners[c.Name] = d.GetName()
			}
		case *syntax.Codata:
			for _, x := range d.(*syntax.Codata).Dtors {
				owners[x.Name] = d.GetName()
			}
		}
	}

	edges := make([][]int, len(decls))
	for i, d := range decls {
		deps := dependencies(d, owners)
		for j := range decls {
			if deps.Contains(decls[j].GetName()) {
				edges[i] = append(edges[i], j)
			}
		}
	}

	t := tarjan{
		edges:   edges,
		indices: make([]int, len(decls)),
		lowlink: make([]int, len(decls)),
		onStack: make([]bool, len(decls)),
	}
	for i := range t.indices {
		t.indices[i] = -1
	}
	for i := range decls {
		if t.indices[i] < 0 {
			t.connect(i)
		}
	}

	result := make([][]syntax.Declaration, 0, len(t.components))
	for _, component := range t.components {
		group := make([]syntax.Declaration, 0, len(component))
		for i := range decls {
			for _, j := range component {
				if i == j {
					group = append(group, decls[i])
				}
			}
		}
		result = append(result, group)
	}
	return result
}

type tarjan struct {
	edges      [][]int
	index      int
	indices    []int
	lowlink    []int
	onStack    []bool
	stack      []int
	components [][]int
}

func (t *tarjan) connect(v int) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if t.indices[w] < 0 {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	if t.lowlink[v] == t.indices[v] {
		var component []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, component)
	}
}
