// Package trim implements the end/primer trimmer (C6): zeroing effective
// depth and dropping mutations inside a trim region defined either by a
// fixed 3' offset or by a matched amplicon primer pair.
package trim

import (
	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/primer"
	"github.com/dasnellings/shapecall/read"
)

// ThreePrime zeros out the trailing e entries of r.Depth and discards
// any mutation whose Right-1 exceeds the last retained reference
// position. The trimmed end is the right end for forward-strand reads
// and the right end of merged/paired reads; for reverse-strand R1/R2 of
// an unmerged pair it is the right end of that individual mate, which is
// exactly r.Right regardless of strand since r already spans only that
// mate (§4.6).
func ThreePrime(r read.Record, e int) read.Record {
	if e <= 0 || r.Len() == 0 {
		return r
	}
	n := r.Len()
	if e > n {
		e = n
	}
	lastRetained := r.Right - e
	for i := n - e; i < n; i++ {
		r.Depth[i] = false
	}
	r.Mutations = keepMutations(r.Mutations, func(m mutation.Mutation) bool {
		return m.Right-1 <= lastRetained
	})
	return r
}

// AmpliconPrimer zeros out depth inside [r.Left, p.FwRight] and inside
// [p.RvLeft, r.Right], dropping any mutation whose span intersects
// either primer range (§4.6 amplicon-primer trim).
func AmpliconPrimer(r read.Record, p primer.Pair) read.Record {
	zeroRange(r, r.Left, p.FwRight)
	zeroRange(r, p.RvLeft, r.Right)
	r.Mutations = keepMutations(r.Mutations, func(m mutation.Mutation) bool {
		return !intersects(m, r.Left, p.FwRight) && !intersects(m, p.RvLeft, r.Right)
	})
	return r
}

func zeroRange(r read.Record, left, right int) {
	for p := left; p <= right; p++ {
		if idx := r.Idx(p); idx >= 0 {
			r.Depth[idx] = false
		}
	}
}

// intersects reports whether mutation m's reference span [left+1,
// right-1] interior, widened to include its boundary positions, overlaps
// [rangeLeft, rangeRight].
func intersects(m mutation.Mutation, rangeLeft, rangeRight int) bool {
	return m.Left <= rangeRight && m.Right >= rangeLeft
}

func keepMutations(muts []mutation.Mutation, keep func(mutation.Mutation) bool) []mutation.Mutation {
	out := muts[:0:0]
	for _, m := range muts {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
