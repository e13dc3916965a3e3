// Package mutation defines the canonical Mutation record and implements
// the mutation locator (C3), the ambiguous-indel identifier (C4), the
// mutation collapser (C7), and the classifier (C8).
package mutation

import "fmt"

// GapQualByte and the inter-mate sentinels are the quality/sequence
// placeholders used throughout the pipeline for positions that carry no
// real basecall.
const (
	GapQualByte   = '!' // sentinel quality for a reference position covered by a deletion
	UnmergedSeq   = '_' // sentinel sequence for a position covered by neither mate of a merged pair
	UnmergedQual  = '~' // sentinel quality for a position covered by neither mate of a merged pair
	SkipPlaceholder = 'n'
)

// NMatchTag is the classification tag reserved for a single-base
// substitution whose read base is N. It is never merged by C7 and never
// counted by C10.
const NMatchTag = "N_match"

// Classes is the fixed 26-entry mutation-class vocabulary, in the order
// the teacher's original printed them.
var Classes = []string{
	"A-", "T-", "G-", "C-",
	"-A", "-T", "-G", "-C",
	"-N",
	"AT", "AG", "AC",
	"TA", "TG", "TC",
	"GA", "GT", "GC",
	"CA", "CT", "CG",
	"multinuc_deletion", "multinuc_insertion", "multinuc_mismatch",
	"complex_deletion", "complex_insertion",
}

// Mutation is a half-open deviation of a read from the reference,
// normalized into reference coordinates. Left is the index of the
// reference base immediately to the left of the change; Right is the
// index of the reference base immediately to the right. Seq/Qual are
// the replacing read bases and their qualities.
type Mutation struct {
	Left, Right int
	Seq, Qual   string
	Ambig       bool
	Tag         string
}

// D returns right - left - 1, the count of reference bases replaced.
func (m Mutation) D() int {
	return m.Right - m.Left - 1
}

// IsSimpleGap reports whether m is an unclassified simple deletion
// (d >= 1, seq empty) eligible for ambiguous-indel sliding.
func (m Mutation) IsSimpleGap() bool {
	return m.Seq == "" && m.D() >= 1
}

// IsSimpleInsert reports whether m is an unclassified simple insertion
// (d == 0, seq non-empty) eligible for ambiguous-indel sliding.
func (m Mutation) IsSimpleInsert() bool {
	return m.D() == 0 && m.Seq != ""
}

// IsAmbiguous reports the §3 ambiguity condition: d > len(seq) > 0 or
// len(seq) > d > 0.
func (m Mutation) IsAmbiguous() bool {
	d := m.D()
	l := len(m.Seq)
	return (d > l && l > 0) || (l > d && d > 0)
}

// Less implements the within-read sort order: (left, right, seq, qual)
// lexicographically.
func Less(a, b Mutation) bool {
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	if a.Right != b.Right {
		return a.Right < b.Right
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.Qual < b.Qual
}

// SerializedTag returns Tag with an "_ambig" suffix appended when m is
// ambiguous, the representation used in the per-read intermediate text
// (§6) and by the counter accumulator when ambiguous counts are split.
func (m Mutation) SerializedTag() string {
	if m.Ambig {
		return m.Tag + "_ambig"
	}
	return m.Tag
}

// desyncError reports a hard disagreement between the operator stream
// and the reference-difference stream, per §4.3's "any disagreement... is
// a hard error".
func desyncError(format string, args ...any) error {
	return fmt.Errorf("mutation: desynchronized operator/reference-diff streams: "+format, args...)
}
