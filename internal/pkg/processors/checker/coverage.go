package checker

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/common"

	"golang.org/x/exp/slices"
)

// coverage checks that cases mention every one of xtors exactly once. It
// returns the cases worth checking further, in the order of xtors.
func coverage(loc ast.Location, owner ast.Identifier, copattern bool, xtors []ast.Identifier, cases []*syntax.Case) ([]*syntax.Case, []error) {
	var errs []error
	seen := map[ast.Identifier]*syntax.Case{}
	for _, cs := range cases {
		name := cs.Pattern.Name
		if cs.Pattern.IsCopattern != copattern {
			if copattern {
				errs = append(errs, common.NewTypeError(cs.Location, nil, "expected a copattern `.%s`, found a pattern", name))
			} else {
				errs = append(errs, common.NewTypeError(cs.Location, nil, "expected a pattern, found a copattern `.%s`", name))
			}
			continue
		}
		if !slices.Contains(xtors, name) {
			errs = append(errs, common.NewTypeError(cs.Location, nil, "`%s` does not belong to `%s`", name, owner))
			continue
		}
		if first, ok := seen[name]; ok {
			errs = append(errs, common.NewTypeError(cs.Location, []ast.Location{first.Location}, "duplicate case for `%s`", name))
			continue
		}
		seen[name] = cs
	}

	var useful []*syntax.Case
	var missing []ast.Identifier
	for _, name := range xtors {
		if cs, ok := seen[name]; ok {
			useful = append(useful, cs)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, common.NewTypeError(loc, nil, "missing case(s) for %s", common.Join(common.Map(quote, missing), ", ")))
	}
	return useful, errs
}

func quote(name ast.Identifier) quoted {
	return quoted(name)
}

type quoted ast.Identifier

func (q quoted) String() string {
	return "`" + string(q) + "`"
}
