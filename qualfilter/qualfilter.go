// Package qualfilter implements the quality filter & depth marker (C9):
// neighbor-aware quality filtering of both non-mutation positions and
// mutations, with depth/count bit-vector side effects.
package qualfilter

import (
	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// Restriction selects the single mutation-type class §4.9's
// restrict-to-mutation-type flag can narrow Pass B to.
type Restriction int

const (
	RestrictNone Restriction = iota
	RestrictMismatch
	RestrictInsert
	RestrictGap
	RestrictInsertMulti
	RestrictGapMulti
	RestrictComplex
)

// matchesRestriction reports whether m's tag belongs to the class r
// names; RestrictNone always matches.
func matchesRestriction(m mutation.Mutation, r Restriction) bool {
	switch r {
	case RestrictNone:
		return true
	case RestrictMismatch:
		return isSubstitutionTag(m.Tag)
	case RestrictInsert:
		return len(m.Tag) == 2 && m.Tag[0] == '-'
	case RestrictGap:
		return len(m.Tag) == 2 && m.Tag[1] == '-'
	case RestrictInsertMulti:
		return m.Tag == "multinuc_insertion" || m.Tag == "complex_insertion"
	case RestrictGapMulti:
		return m.Tag == "multinuc_deletion" || m.Tag == "complex_deletion"
	case RestrictComplex:
		return m.Tag == "complex_insertion" || m.Tag == "complex_deletion"
	default:
		return false
	}
}

func isSubstitutionTag(tag string) bool {
	return len(tag) == 2 && tag[0] != '-' && tag[1] != '-'
}

// Options bundles C9's parameters: the minimum quality Q, variant vs
// normal mode, and the optional mutation-type restriction.
type Options struct {
	MinQuality   int
	VariantMode  bool
	Restrict     Restriction
}

// bad decodes q as ASCII with offset 33 and reports q's §4.9 "bad"
// predicate: below-threshold score, or the inter-mate sentinel '~'.
func bad(q byte, minQ int) bool {
	if q == byte(mutation.UnmergedQual) {
		return true
	}
	return int(q)-33 < minQ
}

// interior maps a half-open mutation span to the inclusive reference
// positions its "interior" covers for depth-zeroing purposes: every
// reference position strictly between Left and Right.
func interior(m mutation.Mutation) (left, right int) {
	return m.Left + 1, m.Right - 1
}

// neighborBad resolves the quality to examine at reference position p, a
// neighbor of either a plain position (Pass A) or a mutation's boundary
// (Pass B). It always reads r.Qual at p itself. In Pass A, p can lie
// inside an adjacent mutation's span: next to a deletion that value is the
// gap sentinel '!', which fails, and the adjacent mutation's own inserted
// bases or its far-side reference base are not consulted. p falling
// outside the record's span means there is no neighbor to examine (the
// record's own edge), which is not a failure.
func neighborBad(r read.Record, p int, minQ int) bool {
	idx := r.Idx(p)
	if idx < 0 {
		return false
	}
	return bad(r.Qual[idx], minQ)
}

// coveredByMutationInterior reports whether reference position p falls
// strictly inside some mutation's span.
func coveredByMutationInterior(muts []mutation.Mutation, p int) bool {
	for _, m := range muts {
		l, r := interior(m)
		if p >= l && p <= r {
			return true
		}
	}
	return false
}

// Apply runs C9 over r in place and returns the mutations that passed
// (included) and those C9 excluded (failed quality or restriction).
// r.Depth must already carry the trim step's (C6) zeroing; Apply narrows
// it further, except that a passing mutation sets positions back to true:
// its last position (Right-1) in normal mode, its whole span in variant
// mode.
func Apply(r read.Record, opts Options) (included []mutation.Mutation, excluded []mutation.Mutation) {
	// Pass A: non-mutation positions.
	for i := 0; i < r.Len(); i++ {
		p := r.Left + i
		if coveredByMutationInterior(r.Mutations, p) {
			continue
		}
		if !r.Depth[i] {
			continue
		}
		q := r.Qual[i]
		fails := bad(q, opts.MinQuality)
		if !fails {
			fails = neighborBad(r, p-1, opts.MinQuality)
		}
		if !fails {
			fails = neighborBad(r, p+1, opts.MinQuality)
		}
		if fails {
			r.Depth[i] = false
		}
	}

	// Pass B: mutations.
	for _, m := range r.Mutations {
		if m.Tag == mutation.NMatchTag {
			included = append(included, m)
			continue
		}
		pass := matchesRestriction(m, opts.Restrict)
		if pass {
			pass = !mutationQualityFails(r, m, opts.MinQuality)
		}
		l, right := interior(m)
		if !pass {
			excluded = append(excluded, m)
			zeroInterior(r, l, right)
			continue
		}
		included = append(included, m)
		if opts.VariantMode {
			setInterior(r.Depth, r, l, right, true)
			continue
		}
		zeroInterior(r, l, right)
		if idx := r.Idx(m.Right - 1); idx >= 0 {
			r.Depth[idx] = true
			r.Count[idx] = true
		}
	}
	return included, excluded
}

func mutationQualityFails(r read.Record, m mutation.Mutation, minQ int) bool {
	for i := 0; i < len(m.Qual); i++ {
		if bad(m.Qual[i], minQ) {
			return true
		}
	}
	if neighborBad(r, m.Left, minQ) {
		return true
	}
	if neighborBad(r, m.Right, minQ) {
		return true
	}
	return false
}

func zeroInterior(r read.Record, left, right int) {
	setInterior(r.Depth, r, left, right, false)
}

func setInterior(depth []bool, r read.Record, left, right int, v bool) {
	for p := left; p <= right; p++ {
		if idx := r.Idx(p); idx >= 0 {
			depth[idx] = v
		}
	}
}
