package mutation

import "golang.org/x/exp/slices"

// Collapse implements C7: it merges adjacent or near-adjacent mutations
// separated by <= k matching reference bases, reconstructing the span
// each merge covers from refSeq, then strips matching bases from each
// merged mutation's ends. pos is the reference coordinate of refSeq[0];
// refSeq/refQual must span the same reference range as the mutations
// (the record's reconstructed reference slice). N_match mutations never
// participate and are carried through unchanged.
func Collapse(pos int, refSeq, refQual string, muts []Mutation, k int) []Mutation {
	sorted := make([]Mutation, len(muts))
	copy(sorted, muts)
	slices.SortFunc(sorted, lessCmp)

	var out []Mutation
	var pending *Mutation
	for i := range sorted {
		m := sorted[i]
		if m.Tag == NMatchTag {
			if pending != nil {
				out = append(out, *pending)
				pending = nil
			}
			out = append(out, m)
			continue
		}
		if pending == nil {
			cp := m
			pending = &cp
			continue
		}

		gap := m.Left - (pending.Right - 1)
		if gap <= k && gap >= 0 && spanObserved(pos, refSeq, pending.Right, m.Left) {
			*pending = mergeTwo(pos, refSeq, refQual, *pending, m)
			continue
		}
		out = append(out, *pending)
		cp := m
		pending = &cp
	}
	if pending != nil {
		out = append(out, *pending)
	}

	for i := range out {
		if out[i].Tag != NMatchTag {
			out[i] = trimEnds(pos, refSeq, out[i])
		}
	}
	slices.SortFunc(out, lessCmp)
	return out
}

// lessCmp adapts Less to the three-way comparator signature required by
// slices.SortFunc.
func lessCmp(a, b Mutation) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// spanObserved reports whether the gap reference slice between the two
// mutations contains no inter-mate sentinel; merged mutations that
// straddle the unobserved region of a merged pair are never collapsed.
func spanObserved(pos int, refSeq string, left, right int) bool {
	for p := left; p <= right; p++ {
		idx := p - pos
		if idx < 0 || idx >= len(refSeq) {
			continue
		}
		if refSeq[idx] == UnmergedSeq {
			return false
		}
	}
	return true
}

func mergeTwo(pos int, refSeq, refQual string, a, b Mutation) Mutation {
	var gapSeq, gapQual string
	for p := a.Right; p < b.Left+1; p++ {
		idx := p - pos
		if idx < 0 || idx >= len(refSeq) {
			continue
		}
		gapSeq += string(refSeq[idx])
		gapQual += string(refQual[idx])
	}
	return Mutation{
		Left:  a.Left,
		Right: b.Right,
		Seq:   a.Seq + gapSeq + b.Seq,
		Qual:  a.Qual + gapQual + b.Qual,
		Ambig: a.Ambig || b.Ambig,
	}
}

// trimEnds iteratively strips matching bases from a merged mutation's
// ends, artifacts of ambiguous-indel expansion, never crossing the
// mutation's opposite endpoint.
func trimEnds(pos int, refSeq string, m Mutation) Mutation {
	for len(m.Seq) > 0 && m.Left+1 < m.Right {
		idx := (m.Left + 1) - pos
		if idx < 0 || idx >= len(refSeq) || refSeq[idx] != m.Seq[0] {
			break
		}
		m.Left++
		m.Seq = m.Seq[1:]
		m.Qual = m.Qual[1:]
	}
	for len(m.Seq) > 0 && m.Left+1 < m.Right {
		idx := (m.Right - 1) - pos
		if idx < 0 || idx >= len(refSeq) || refSeq[idx] != m.Seq[len(m.Seq)-1] {
			break
		}
		m.Right--
		m.Seq = m.Seq[:len(m.Seq)-1]
		m.Qual = m.Qual[:len(m.Qual)-1]
	}
	return m
}
