package mutation

import (
	"strings"

	"github.com/vertgenlab/gonomics/cigar"

	"github.com/dasnellings/shapecall/mdtag"
)

// Located is the output of Locate: the reconstructed reference slice and
// its quality, the aligned-read slice and its quality (all four strings
// span the same reference-coordinate range), and the ordered mutation
// list.
type Located struct {
	RefSeq, RefQual         string
	AlignedSeq, AlignedQual string
	Mutations               []Mutation
}

// Locate walks the alignment-operator stream (ops, from cigarop.Parse)
// and the reference-difference stream (mdOps, from mdtag.Parse) jointly,
// starting at reference position pos and read index 0, to produce the
// canonical mutation list and the reconstructed slices (C3).
func Locate(pos int, readSeq, readQual string, ops []cigar.Cigar, mdOps []mdtag.Op) (Located, error) {
	var out Located
	var refSeq, refQual, alignedSeq, alignedQual strings.Builder

	ts := pos
	qs := 0
	mdIdx := 0
	mdOff := 0 // bases of mdOps[mdIdx] already consumed

	nextMatchOrMismatch := func(want int) (mdtag.Op, int, error) {
		if mdIdx >= len(mdOps) {
			return mdtag.Op{}, 0, desyncError("reference-diff stream exhausted with %d reference positions still unconsumed under an M-class operator", want)
		}
		md := mdOps[mdIdx]
		if md.Type == mdtag.Deletion {
			return mdtag.Op{}, 0, desyncError("encountered a deletion reference-diff op while inside an M-class operator")
		}
		remaining := md.Length - mdOff
		take := remaining
		if take > want {
			take = want
		}
		return md, take, nil
	}

	for _, op := range ops {
		n := op.RunLength
		switch byte(op.Op) {
		case 'M', '=', 'X':
			consumed := 0
			qsBase := qs
			tsBase := ts
			for consumed < n {
				md, take, err := nextMatchOrMismatch(n - consumed)
				if err != nil {
					return out, err
				}
				if take == 0 {
					return out, desyncError("zero-length reference-diff op encountered mid-run")
				}
				switch md.Type {
				case mdtag.Match:
					bases := readSeq[qsBase+consumed : qsBase+consumed+take]
					quals := readQual[qsBase+consumed : qsBase+consumed+take]
					refSeq.WriteString(bases)
					refQual.WriteString(quals)
					alignedSeq.WriteString(bases)
					alignedQual.WriteString(quals)
				case mdtag.Mismatch:
					refBases := md.Seq[mdOff : mdOff+take]
					readBases := readSeq[qsBase+consumed : qsBase+consumed+take]
					readQuals := readQual[qsBase+consumed : qsBase+consumed+take]
					refSeq.WriteString(refBases)
					refQual.WriteString(readQuals)
					alignedSeq.WriteString(readBases)
					alignedQual.WriteString(readQuals)
					runStart := tsBase + consumed
					out.Mutations = append(out.Mutations, Mutation{
						Left:  runStart - 1,
						Right: runStart + take,
						Seq:   readBases,
						Qual:  readQuals,
					})
				}
				mdOff += take
				if mdOff == md.Length {
					mdIdx++
					mdOff = 0
				}
				consumed += take
			}
			qs = qsBase + n
			ts = tsBase + n

		case 'I':
			readBases := readSeq[qs : qs+n]
			readQuals := readQual[qs : qs+n]
			out.Mutations = append(out.Mutations, Mutation{
				Left:  ts - 1,
				Right: ts,
				Seq:   readBases,
				Qual:  readQuals,
			})
			qs += n

		case 'D':
			if mdIdx >= len(mdOps) || mdOps[mdIdx].Type != mdtag.Deletion {
				return out, desyncError("CIGAR deletion of length %d has no matching deletion in reference-diff stream", n)
			}
			del := mdOps[mdIdx]
			if del.Length != n {
				return out, desyncError("CIGAR deletion length %d does not match reference-diff deletion length %d", n, del.Length)
			}
			out.Mutations = append(out.Mutations, Mutation{
				Left:  ts - 1,
				Right: ts + n,
				Seq:   "",
				Qual:  "",
			})
			refSeq.WriteString(del.Seq)
			refQual.WriteString(strings.Repeat(string(rune(GapQualByte)), n))
			alignedSeq.WriteString(strings.Repeat("-", n))
			alignedQual.WriteString(strings.Repeat(string(rune(GapQualByte)), n))
			ts += n
			mdIdx++

		case 'N':
			// Open question (§9): the source advances ts by only one
			// position here regardless of n, not by the skip's length.
			// Preserved rather than silently fixed.
			refSeq.WriteByte(SkipPlaceholder)
			alignedSeq.WriteByte(SkipPlaceholder)
			refQual.WriteByte(GapQualByte)
			alignedQual.WriteByte(GapQualByte)
			ts++

		case 'P':
			refSeq.WriteString(strings.Repeat(string(rune(SkipPlaceholder)), n))
			alignedSeq.WriteString(strings.Repeat(string(rune(SkipPlaceholder)), n))
			refQual.WriteString(strings.Repeat(string(rune(GapQualByte)), n))
			alignedQual.WriteString(strings.Repeat(string(rune(GapQualByte)), n))
			ts += n

		case 'S':
			qs += n

		case 'H':
			// no-op: hard-clipped bases are not present in readSeq.

		default:
			return out, desyncError("unrecognized alignment operator %q", string(op.Op))
		}
	}

	if mdIdx != len(mdOps) {
		return out, desyncError("reference-diff stream has %d unconsumed operation(s) after the operator stream was exhausted", len(mdOps)-mdIdx)
	}

	out.RefSeq = refSeq.String()
	out.RefQual = refQual.String()
	out.AlignedSeq = alignedSeq.String()
	out.AlignedQual = alignedQual.String()
	return out, nil
}
