package ast

import "fmt"

type Identifier string

type QualifiedIdentifier string

// MetaID identifies a metavariable within one elaboration run. Zero means
// "not yet assigned", which is how holes arrive from lowering.
type MetaID uint64

const NoMeta MetaID = 0

func (m MetaID) String() string {
	return fmt.Sprintf("?%d", uint64(m))
}

// Idx addresses a bound variable. Fst counts telescopes outwards from the
// innermost one (0), Snd is the position inside that telescope.
type Idx struct {
	Fst int
	Snd int
}

func (i Idx) String() string {
	return fmt.Sprintf("%d.%d", i.Fst, i.Snd)
}

// IsInnerTo reports whether i is bound after o in the context both live in.
func (i Idx) IsInnerTo(o Idx) bool {
	return i.Fst < o.Fst || (i.Fst == o.Fst && i.Snd > o.Snd)
}
