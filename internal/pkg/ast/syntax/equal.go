package syntax

// Equal reports alpha-equivalence. Names, locations and type annotations are
// ignored.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a.(type) {
	case *Variable:
		y, ok := b.(*Variable)
		return ok && a.(*Variable).Idx == y.Idx
	case *TypCtor:
		x := a.(*TypCtor)
		y, ok := b.(*TypCtor)
		return ok && x.Name == y.Name && EqualAll(x.Args, y.Args)
	case *Call:
		x := a.(*Call)
		y, ok := b.(*Call)
		return ok && x.Name == y.Name && EqualAll(x.Args, y.Args)
	case *DotCall:
		x := a.(*DotCall)
		y, ok := b.(*DotCall)
		return ok && x.Name == y.Name && Equal(x.Exp, y.Exp) && EqualAll(x.Args, y.Args)
	case *Anno:
		x := a.(*Anno)
		y, ok := b.(*Anno)
		return ok && Equal(x.Exp, y.Exp) && Equal(x.Annotation, y.Annotation)
	case *TypeUniv:
		_, ok := b.(*TypeUniv)
		return ok
	case *Literal:
		y, ok := b.(*Literal)
		return ok && a.(*Literal).Value.EqualsTo(y.Value)
	case *Hole:
		x := a.(*Hole)
		y, ok := b.(*Hole)
		if !ok || x.Metavar != y.Metavar || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !EqualAll(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *LocalMatch:
		x := a.(*LocalMatch)
		y, ok := b.(*LocalMatch)
		return ok && Equal(x.OnExp, y.OnExp) && equalCases(x.Cases, y.Cases)
	case *LocalComatch:
		x := a.(*LocalComatch)
		y, ok := b.(*LocalComatch)
		return ok && equalCases(x.Cases, y.Cases)
	}
	return false
}

func EqualAll(as, bs []Expression) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func equalCases(as, bs []*Case) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		x, y := as[i], bs[i]
		if x.Pattern.Name != y.Pattern.Name ||
			x.Pattern.IsCopattern != y.Pattern.IsCopattern ||
			len(x.Pattern.Params) != len(y.Pattern.Params) ||
			!Equal(x.Body, y.Body) {
			return false
		}
	}
	return true
}
