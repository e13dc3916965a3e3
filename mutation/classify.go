package mutation

// ClassifyWithRef assigns a mutation its tag from the fixed vocabulary
// in §3 (C8). refBase is the reference base at m.Left+1, needed to form
// single-base tags like "A-" (deletion) or "AG" (substitution); classes
// that don't key off a single reference base ignore it. The ambiguity
// flag is left unchanged; a single-base substitution whose read base is
// N receives NMatchTag instead of a substitution tag, per §3/§4.8.
func ClassifyWithRef(m Mutation, refBase byte) string {
	d := m.D()
	l := len(m.Seq)

	switch {
	case d == 1 && l == 0:
		return string(refBase) + "-"
	case d == 0 && l == 1:
		return "-" + m.Seq
	case d == 1 && l == 1 && m.Seq == "N":
		return NMatchTag
	case d == 1 && l == 1:
		return string(refBase) + m.Seq
	case d > 1 && l == 0:
		return "multinuc_deletion"
	case d == 0 && l > 1:
		return "multinuc_insertion"
	case d == l && l > 1:
		return "multinuc_mismatch"
	case l < d && l != 0:
		return "complex_deletion"
	case l > d && d != 0:
		return "complex_insertion"
	default:
		return "complex_deletion"
	}
}

// ClassifyAllWithRef classifies every mutation in muts against refSeq,
// the reconstructed reference slice covering [pos, pos+len(refSeq)-1].
func ClassifyAllWithRef(pos int, refSeq string, muts []Mutation) {
	for i := range muts {
		idx := muts[i].Left + 1 - pos
		var refBase byte = 'N'
		if idx >= 0 && idx < len(refSeq) {
			refBase = refSeq[idx]
		}
		muts[i].Tag = ClassifyWithRef(muts[i], refBase)
	}
}
