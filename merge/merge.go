// Package merge implements the mate-pair merger (C5): combining two
// overlapping mate reads into one synthetic record, resolving
// conflicting mutation groups by mean per-base quality.
package merge

import (
	"sort"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// Concordant reports whether r1 and r2 (opposite-strand mates of the
// same pair) satisfy the preconditions for merging: mapped in opposite
// orientations, within maxFragmentLen of each other, and not dovetailed
// (forward read's left past reverse read's left while forward's right
// is also past reverse's right, or the mirror).
func Concordant(r1, r2 read.Record, maxFragmentLen int) bool {
	if r1.Forward == r2.Forward {
		return false
	}
	fwd, rev := r1, r2
	if !fwd.Forward {
		fwd, rev = rev, fwd
	}
	if dovetail(fwd, rev) {
		return false
	}
	left := fwd.Left
	if rev.Left < left {
		left = rev.Left
	}
	right := fwd.Right
	if rev.Right > right {
		right = rev.Right
	}
	return right-left+1 <= maxFragmentLen
}

func dovetail(fwd, rev read.Record) bool {
	if fwd.Left > rev.Left && fwd.Right > rev.Right {
		return true
	}
	if rev.Left > fwd.Left && rev.Right > fwd.Right {
		return true
	}
	return false
}

// Merge combines r1 and r2 (both Included, Concordant) into one
// synthetic Record over their union reference span (C5 steps 1-4).
func Merge(r1, r2 read.Record) read.Record {
	left := min(r1.Left, r2.Left)
	right := max(r1.Right, r2.Right)
	out := read.New(left, right)
	out.Type = read.Merged
	out.ID = r1.ID
	out.Forward = r1.Forward
	out.Category = read.Included
	out.PrimerPair = r1.PrimerPair
	if out.PrimerPair == read.NoPrimerPair {
		out.PrimerPair = r2.PrimerPair
	}

	seq := make([]byte, out.Len())
	qual := make([]byte, out.Len())
	for i := range seq {
		seq[i] = mutation.UnmergedSeq
		qual[i] = mutation.UnmergedQual
	}

	fill := func(r read.Record) {
		for p := r.Left; p <= r.Right; p++ {
			oi := out.Idx(p)
			ri := r.Idx(p)
			if oi < 0 || ri < 0 {
				continue
			}
			out.MappedDepth[oi] = out.MappedDepth[oi] || r.MappedDepth[ri]
			if seq[oi] == mutation.UnmergedSeq {
				seq[oi] = r.Seq[ri]
				qual[oi] = r.Qual[ri]
			} else if qual[oi] < r.Qual[ri] {
				qual[oi] = r.Qual[ri]
			}
		}
	}
	fill(r1)
	fill(r2)
	out.Seq = string(seq)
	out.Qual = string(qual)

	groups := groupMutations(r1, r2)
	for _, g := range groups {
		side := chooseSide(r1, r2, g)
		if side == 1 {
			out.Mutations = append(out.Mutations, g.r1Muts...)
		} else {
			out.Mutations = append(out.Mutations, g.r2Muts...)
		}
	}
	sort.Slice(out.Mutations, func(i, j int) bool { return mutation.Less(out.Mutations[i], out.Mutations[j]) })

	depth := make([]bool, out.Len())
	for i, r := range []read.Record{r1, r2} {
		_ = i
		for p := r.Left; p <= r.Right; p++ {
			oi, ri := out.Idx(p), r.Idx(p)
			if oi < 0 || ri < 0 {
				continue
			}
			if r.Depth[ri] {
				depth[oi] = true
			}
		}
	}
	out.Depth = depth
	return out
}

// SimpleMerged emits the "simple merged" coverage-only record (§4.5
// last paragraph, SPEC_FULL supplemented feature 6) used when one mate
// is included and the other is excluded by mapping filters: the union
// reference span with mapped_depth filled from each mate's raw
// coverage, carrying no sequence or mutation data.
func SimpleMerged(included, excluded read.Record) read.Record {
	left := min(included.Left, excluded.Left)
	right := max(included.Right, excluded.Right)
	out := read.New(left, right)
	out.Type = read.Paired
	out.ID = included.ID
	out.Category = included.Category
	out.PrimerPair = included.PrimerPair
	for _, r := range []read.Record{included, excluded} {
		for p := r.Left; p <= r.Right; p++ {
			oi, ri := out.Idx(p), r.Idx(p)
			if oi < 0 || ri < 0 {
				continue
			}
			out.MappedDepth[oi] = true
			_ = ri
		}
	}
	return out
}

// mutationGroup is a maximal run of mutations from either mate whose
// spans overlap each other.
type mutationGroup struct {
	left, right int
	r1Muts      []mutation.Mutation
	r2Muts      []mutation.Mutation
}

// groupMutations scans each mate's mutations in parallel over the union
// span, forming a group for every maximal run of overlapping mutations.
func groupMutations(r1, r2 read.Record) []mutationGroup {
	type tagged struct {
		m    mutation.Mutation
		side int
	}
	var all []tagged
	for _, m := range r1.Mutations {
		all = append(all, tagged{m, 1})
	}
	for _, m := range r2.Mutations {
		all = append(all, tagged{m, 2})
	}
	sort.Slice(all, func(i, j int) bool { return mutation.Less(all[i].m, all[j].m) })

	var groups []mutationGroup
	for _, t := range all {
		if len(groups) > 0 && t.m.Left < groups[len(groups)-1].right {
			g := &groups[len(groups)-1]
			if t.m.Right > g.right {
				g.right = t.m.Right
			}
			if t.side == 1 {
				g.r1Muts = append(g.r1Muts, t.m)
			} else {
				g.r2Muts = append(g.r2Muts, t.m)
			}
			continue
		}
		g := mutationGroup{left: t.m.Left, right: t.m.Right}
		if t.side == 1 {
			g.r1Muts = []mutation.Mutation{t.m}
		} else {
			g.r2Muts = []mutation.Mutation{t.m}
		}
		groups = append(groups, g)
	}
	return groups
}

// chooseSide decides which mate's mutations win for a group: the side
// with the strictly higher mean bracketing quality, ties favoring
// read 1 (§4.5 step 3; SPEC_FULL §9 notes this tie-break is as
// originally intended).
func chooseSide(r1, r2 read.Record, g mutationGroup) int {
	m1 := meanQuality(r1, g.left, g.right, g.r1Muts)
	m2 := meanQuality(r2, g.left, g.right, g.r2Muts)
	if m2 > m1 {
		return 2
	}
	return 1
}

// meanQuality computes the mean per-base quality supporting side's
// contribution to the group: for a side with mutations, the mean over
// those mutations' Seq qualities plus the bracketing reference-slice
// qualities; for a side with no mutations in the group, the mean over
// its reference-slice qualities across the group span (zero if the
// side doesn't cover the span at all).
func meanQuality(r read.Record, left, right int, muts []mutation.Mutation) float64 {
	var sum float64
	var n int
	if len(muts) > 0 {
		for _, m := range muts {
			for i := 0; i < len(m.Qual); i++ {
				sum += float64(m.Qual[i])
				n++
			}
			for _, p := range []int{m.Left, m.Right} {
				if idx := r.Idx(p); idx >= 0 {
					sum += float64(r.Qual[idx])
					n++
				}
			}
		}
	} else {
		for p := left; p <= right; p++ {
			if idx := r.Idx(p); idx >= 0 {
				sum += float64(r.Qual[idx])
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
