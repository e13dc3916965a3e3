package mutation

// ResolveAmbiguousPlacement implements the CLI's -rightAlignAmbigDels and
// -rightAlignAmbigIns direction flags (SPEC_FULL supplemented feature 4). C4 (ShiftAmbiguousIndels) leaves an
// ambiguous indel's mutation spanning its whole valid range; this step
// runs later, once per read, and collapses that range down to a single
// canonical placement at the left or right extreme per opts, splitting
// off any position where the discarded portion's read base actually
// disagreed with the reference into its own point mismatch (grounded on
// the original source's shiftAmbigIndels: the ambiguous range absorbed
// during sliding was only ever guaranteed to match the reference on the
// side that picked it up, not on both).
//
// pos is the reference coordinate of refSeq[0]; refSeq/refQual is the
// record's reconstructed reference slice. Mutations that C4 never
// flagged ambiguous pass through unchanged; N_match mutations are never
// touched.
func ResolveAmbiguousPlacement(pos int, refSeq, refQual string, muts []Mutation, opts ShiftOptions) []Mutation {
	var out []Mutation
	for _, m := range muts {
		if m.Tag == NMatchTag || !m.IsAmbiguous() {
			out = append(out, m)
			continue
		}
		if len(m.Seq) < m.D() {
			out = append(out, resolveGap(pos, refSeq, m, opts.RightAlignAmbigDels)...)
		} else {
			out = append(out, resolveInsert(pos, refSeq, m, opts.RightAlignAmbigIns)...)
		}
	}
	return out
}

// refAt returns the reference base at reference position p, or false if
// p falls outside refSeq (pos is the reference coordinate of refSeq[0]).
func refAt(pos int, refSeq string, p int) (byte, bool) {
	idx := p - pos
	if idx < 0 || idx >= len(refSeq) {
		return 0, false
	}
	return refSeq[idx], true
}

// resolveGap collapses an ambiguous gap m to the leftmost or rightmost
// equivalent placement, emitting a point mismatch for any of the
// discarded seq bases that disagreed with the reference at the position
// it was picked up from during C4 sliding.
func resolveGap(pos int, refSeq string, m Mutation, rightAlign bool) []Mutation {
	n := len(m.Seq)
	var out []Mutation
	if rightAlign {
		for i := 0; i < n; i++ {
			if refBase, ok := refAt(pos, refSeq, m.Left+1+i); ok && m.Seq[i] != refBase {
				out = append(out, Mutation{Left: m.Left + i, Right: m.Left + i + 2, Seq: m.Seq[i : i+1], Qual: m.Qual[i : i+1], Ambig: true})
			}
		}
		out = append(out, Mutation{Left: m.Left + n, Right: m.Right, Ambig: true})
	} else {
		newRight := m.Right - n
		out = append(out, Mutation{Left: m.Left, Right: newRight, Ambig: true})
		for i := 0; i < n; i++ {
			if refBase, ok := refAt(pos, refSeq, newRight+i); ok && m.Seq[i] != refBase {
				out = append(out, Mutation{Left: newRight + i - 1, Right: newRight + i + 1, Seq: m.Seq[i : i+1], Qual: m.Qual[i : i+1], Ambig: true})
			}
		}
	}
	return out
}

// resolveInsert collapses an ambiguous insertion m to its leftmost or
// rightmost equivalent placement. coreLen (the insertion's true content
// length, invariant across every valid placement) is len(m.Seq) - m.D();
// the remaining len(m.Seq)-coreLen bases are the ambiguous portion C4's
// sliding picked up, each checked against the reference the same way
// resolveGap does.
func resolveInsert(pos int, refSeq string, m Mutation, rightAlign bool) []Mutation {
	coreLen := len(m.Seq) - m.D()
	extra := len(m.Seq) - coreLen
	var out []Mutation
	if rightAlign {
		for i := 0; i < extra; i++ {
			if refBase, ok := refAt(pos, refSeq, m.Left+1+i); ok && m.Seq[i] != refBase {
				out = append(out, Mutation{Left: m.Left + i, Right: m.Left + i + 2, Seq: m.Seq[i : i+1], Qual: m.Qual[i : i+1], Ambig: true})
			}
		}
		out = append(out, Mutation{Left: m.Right - 1, Right: m.Right, Seq: m.Seq[extra:], Qual: m.Qual[extra:], Ambig: true})
	} else {
		out = append(out, Mutation{Left: m.Left, Right: m.Left + 1, Seq: m.Seq[:coreLen], Qual: m.Qual[:coreLen], Ambig: true})
		for i := 0; i < extra; i++ {
			if refBase, ok := refAt(pos, refSeq, m.Left+1+i); ok && m.Seq[coreLen+i] != refBase {
				out = append(out, Mutation{Left: m.Left + i, Right: m.Left + i + 2, Seq: m.Seq[coreLen+i : coreLen+i+1], Qual: m.Qual[coreLen+i : coreLen+i+1], Ambig: true})
			}
		}
	}
	return out
}
