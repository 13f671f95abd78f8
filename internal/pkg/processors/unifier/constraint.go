package unifier

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// Constraint asserts Lhs and Rhs are equal in Ctx. Location is the span
// reported when they are not.
type Constraint struct {
	Location ast.Location
	Ctx      *syntax.Ctx
	Lhs      syntax.Expression
	Rhs      syntax.Expression
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s = %s", c.Lhs, c.Rhs)
}

// Decision is the outcome of a unification attempt. Subst is only set by
// index unification.
type Decision struct {
	Yes   bool
	Subst syntax.Substitution
}

func Yes(subst syntax.Substitution) Decision {
	return Decision{Yes: true, Subst: subst}
}

var No = Decision{}

func (d Decision) String() string {
	if !d.Yes {
		return "No"
	}
	return fmt.Sprintf("Yes(%d)", len(d.Subst))
}

type deferred struct {
	constraint Constraint
	blockers   *set.Set[ast.MetaID]
}
