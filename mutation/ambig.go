package mutation

import "sort"

// ShiftOptions configures which side an ambiguous indel's canonical
// placement prefers: ResolveAmbiguousPlacement uses it to pick the left
// or right extreme, and the merge-adjacent-indel pass uses it to pick a
// winner for a shared seam base. Both default false (left-preferring),
// matching the original source's default construction.
type ShiftOptions struct {
	RightAlignAmbigDels bool
	RightAlignAmbigIns  bool
}

// ShiftAmbiguousIndels implements C4. It slides every simple insertion
// or simple gap in loc.Mutations as far as it can go in both directions
// against loc.RefSeq/loc.AlignedSeq, expanding its bounds to cover every
// valid placement, then removes mismatches subsumed by an expansion and
// merges adjacent expanded indels that claim the same appended base.
// pos is the reference coordinate of loc.RefSeq[0].
//
// Not run in variant-detection mode (§4.4).
func ShiftAmbiguousIndels(pos int, loc Located, opts ShiftOptions) []Mutation {
	muts := make([]Mutation, len(loc.Mutations))
	copy(muts, loc.Mutations)

	for i := range muts {
		if muts[i].Tag == NMatchTag {
			continue
		}
		if !muts[i].IsSimpleGap() && !muts[i].IsSimpleInsert() {
			continue
		}
		slideRight(&muts[i], pos, loc)
		slideLeft(&muts[i], pos, loc)
		muts[i].Ambig = muts[i].IsAmbiguous()
	}

	muts = removeSubsumedMismatches(muts)
	muts = mergeAdjacentIndels(muts, opts)

	sort.Slice(muts, func(i, j int) bool { return Less(muts[i], muts[j]) })
	return muts
}

// inBounds reports whether reference position p lies within the
// reconstructed slice [pos, pos+len(loc.RefSeq)-1], extended by the one
// position of headroom the data model allows at each edge (§3: "spans
// lie within [-1, len(reference)]").
func inBounds(p, pos, n int) bool {
	return p >= pos-1 && p <= pos+n
}

// slideRight repeatedly attempts one rightward expansion step.
func slideRight(m *Mutation, pos int, loc Located) {
	for {
		newRight := m.Right + 1
		if !inBounds(newRight, pos, len(loc.RefSeq)) || newRight-pos >= len(loc.RefSeq) {
			return
		}
		absorbed := m.Right - pos
		if absorbed < 0 || absorbed >= len(loc.AlignedSeq) {
			return
		}
		if loc.AlignedSeq[absorbed] == '-' {
			return
		}

		var dropChar byte
		if len(m.Seq) > 0 {
			dropChar = m.Seq[0]
		} else {
			interior := m.Left + 1 - pos
			if interior < 0 || interior >= len(loc.RefSeq) {
				return
			}
			dropChar = loc.RefSeq[interior]
		}
		if dropChar != loc.RefSeq[absorbed] {
			return
		}

		m.Seq = m.Seq + string(loc.AlignedSeq[absorbed])
		m.Qual = m.Qual + string(loc.AlignedQual[absorbed])
		m.Right = newRight
	}
}

// slideLeft repeatedly attempts one leftward expansion step.
func slideLeft(m *Mutation, pos int, loc Located) {
	for {
		newLeft := m.Left - 1
		if !inBounds(newLeft, pos, len(loc.RefSeq)) {
			return
		}
		absorbed := m.Left - pos
		if absorbed < 0 || absorbed >= len(loc.AlignedSeq) {
			return
		}
		if loc.AlignedSeq[absorbed] == '-' {
			return
		}

		var dropChar byte
		if len(m.Seq) > 0 {
			dropChar = m.Seq[len(m.Seq)-1]
		} else {
			interior := m.Right - 1 - pos
			if interior < 0 || interior >= len(loc.RefSeq) {
				return
			}
			dropChar = loc.RefSeq[interior]
		}
		if dropChar != loc.RefSeq[absorbed] {
			return
		}

		m.Seq = string(loc.AlignedSeq[absorbed]) + m.Seq
		m.Qual = string(loc.AlignedQual[absorbed]) + m.Qual
		m.Left = newLeft
	}
}

// expanded reports whether m was touched by sliding: either it is now
// ambiguous, or it grew beyond its original simple-indel shape.
func expanded(m Mutation) bool {
	return m.Ambig
}

// removeSubsumedMismatches drops any mismatch mutation whose span now
// lies entirely inside an expanded indel's bounds.
func removeSubsumedMismatches(muts []Mutation) []Mutation {
	var indels []Mutation
	for _, m := range muts {
		if expanded(m) {
			indels = append(indels, m)
		}
	}
	if len(indels) == 0 {
		return muts
	}
	out := muts[:0:0]
	for _, m := range muts {
		if expanded(m) || m.Tag == NMatchTag {
			out = append(out, m)
			continue
		}
		subsumed := false
		for _, ind := range indels {
			if m.Left >= ind.Left && m.Right <= ind.Right {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, m)
		}
	}
	return out
}

// mergeAdjacentIndels merges two expanded indels that both claim the
// same appended reference position, eliminating the duplicate base at
// the seam. opts breaks ties over which side's captured base wins when
// the seam base itself must be deduplicated.
func mergeAdjacentIndels(muts []Mutation, opts ShiftOptions) []Mutation {
	sort.Slice(muts, func(i, j int) bool { return Less(muts[i], muts[j]) })
	var out []Mutation
	for _, m := range muts {
		if len(out) > 0 && expanded(out[len(out)-1]) && expanded(m) && m.Left <= out[len(out)-1].Right {
			prev := out[len(out)-1]
			merged := Mutation{
				Left:  prev.Left,
				Right: m.Right,
			}
			// The overlap region (prev.Right..m.Left) was captured by
			// both sides; prefer the side the direction flags favor
			// for the duplicated seam base.
			preferRight := opts.RightAlignAmbigDels || opts.RightAlignAmbigIns
			if preferRight {
				merged.Seq = prev.Seq[:max0(len(prev.Seq)-overlapLen(prev, m))] + m.Seq
				merged.Qual = prev.Qual[:max0(len(prev.Qual)-overlapLen(prev, m))] + m.Qual
			} else {
				merged.Seq = prev.Seq + m.Seq[min(len(m.Seq), overlapLen(prev, m)):]
				merged.Qual = prev.Qual + m.Qual[min(len(m.Qual), overlapLen(prev, m)):]
			}
			merged.Ambig = true
			out[len(out)-1] = merged
			continue
		}
		out = append(out, m)
	}
	return out
}

func overlapLen(a, b Mutation) int {
	o := a.Right - b.Left + 1
	if o < 0 {
		return 0
	}
	return o
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
