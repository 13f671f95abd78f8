package syntax

import (
	"duo-compiler/internal/pkg/ast"
)

type Binder struct {
	Name ast.Identifier
	Type Expression
}

// Ctx is the typing context: telescopes of binders, outermost first, plus
// the index equations learnt from dependent pattern matching. A Ctx is never
// modified, every push returns a new one.
//
// The type of a binder lives in the context where its own telescope is the
// innermost one and holds the earlier binders only.
type Ctx struct {
	telescopes [][]Binder
	eqs        Substitution
}

func NewCtx() *Ctx {
	return &Ctx{}
}

func (c *Ctx) clone() *Ctx {
	tels := make([][]Binder, len(c.telescopes), len(c.telescopes)+1)
	copy(tels, c.telescopes)
	return &Ctx{telescopes: tels, eqs: c.eqs}
}

func (c *Ctx) PushTelescope(binders []Binder) *Ctx {
	r := c.clone()
	r.telescopes = append(r.telescopes, append([]Binder(nil), binders...))
	r.eqs = c.eqs.Shift(1)
	return r
}

// Bind appends a binder to the innermost telescope.
func (c *Ctx) Bind(name ast.Identifier, typ Expression) *Ctx {
	if len(c.telescopes) == 0 {
		return c.PushTelescope([]Binder{{Name: name, Type: typ}})
	}
	r := c.clone()
	last := len(r.telescopes) - 1
	tel := make([]Binder, len(r.telescopes[last]), len(r.telescopes[last])+1)
	copy(tel, r.telescopes[last])
	r.telescopes[last] = append(tel, Binder{Name: name, Type: typ})
	return r
}

func (c *Ctx) PushParams(params Telescope) *Ctx {
	binders := make([]Binder, len(params))
	for i, p := range params {
		binders[i] = Binder{Name: p.Name, Type: p.Type}
	}
	return c.PushTelescope(binders)
}

// Lookup returns the binder at idx with its type moved into c and the
// index equations applied.
func (c *Ctx) Lookup(idx ast.Idx) (Binder, bool) {
	i := len(c.telescopes) - 1 - idx.Fst
	if idx.Fst < 0 || i < 0 || idx.Snd < 0 || idx.Snd >= len(c.telescopes[i]) {
		return Binder{}, false
	}
	b := c.telescopes[i][idx.Snd]
	b.Type = c.eqs.Apply(Shift(b.Type, 0, idx.Fst))
	return b, true
}

// Vars returns a variable for every binder, grouped by telescope from the
// outermost.
func (c *Ctx) Vars(loc ast.Location) [][]Expression {
	n := len(c.telescopes)
	result := make([][]Expression, n)
	for i, tel := range c.telescopes {
		vars := make([]Expression, len(tel))
		for j, b := range tel {
			vars[j] = NewVariable(loc, b.Name, ast.Idx{Fst: n - 1 - i, Snd: j})
		}
		result[i] = vars
	}
	return result
}

// Shape returns the length of every telescope from the outermost.
func (c *Ctx) Shape() []int {
	shape := make([]int, len(c.telescopes))
	for i, tel := range c.telescopes {
		shape[i] = len(tel)
	}
	return shape
}

// Telescopes returns the binders as stored, each type living in the prefix
// of the context it was bound in.
func (c *Ctx) Telescopes() [][]Binder {
	result := make([][]Binder, len(c.telescopes))
	for i, tel := range c.telescopes {
		result[i] = append([]Binder(nil), tel...)
	}
	return result
}

func (c *Ctx) Len() int {
	return len(c.telescopes)
}

func (c *Ctx) Eqs() Substitution {
	return c.eqs
}

// WithEqs adds index equations. Variables already constrained keep their
// earlier equation.
func (c *Ctx) WithEqs(s Substitution) *Ctx {
	if len(s) == 0 {
		return c
	}
	r := c.clone()
	eqs := c.eqs
	for _, k := range s.Keys() {
		if _, ok := eqs[k]; ok {
			continue
		}
		eqs = eqs.Extend(k, s[k])
	}
	r.eqs = eqs
	return r
}

func (c *Ctx) ApplyEqs(e Expression) Expression {
	return c.eqs.Apply(e)
}

