// Package read defines Record, the per-read data model described in §3:
// the reconstructed reference span, its three parallel bit vectors, and
// the read's mutation list. merge, trim, qualfilter, accumulate, and
// pipeline all operate on Record rather than on a SAM record directly,
// keeping the core decoupled from the alignment-file format.
package read

import "github.com/dasnellings/shapecall/mutation"

// Type is the closed set of read-type tags a Record can carry, matching
// §6's per-read intermediate text vocabulary.
type Type int

const (
	Unpaired Type = iota
	Merged
	PairedR1
	PairedR2
	UnpairedR1
	UnpairedR2
	Paired
)

func (t Type) String() string {
	switch t {
	case Unpaired:
		return "unpaired"
	case Merged:
		return "merged"
	case PairedR1:
		return "paired_r1"
	case PairedR2:
		return "paired_r2"
	case UnpairedR1:
		return "unpaired_r1"
	case UnpairedR2:
		return "unpaired_r2"
	case Paired:
		return "paired"
	default:
		return "unpaired"
	}
}

// Category is the closed set of mapping-category tags (§6).
type Category int

const (
	Included Category = iota
	LowMapQuality
	OffTarget
	Unmapped
)

func (c Category) String() string {
	switch c {
	case Included:
		return "included"
	case LowMapQuality:
		return "low_map_quality"
	case OffTarget:
		return "off_target"
	case Unmapped:
		return "unmapped"
	default:
		return "included"
	}
}

// NoPrimerPair is the sentinel PrimerPair value meaning "no primer pair
// matched", serialized as a negative number per §6.
const NoPrimerPair = -1

// Record is one read (or merged mate pair) as produced by the pipeline
// driver (C11) after C3-C9 have run: identifier, strand, read-type,
// mapping category, primer-pair association, reference span, the
// reconstructed reference slice and quality over that span, the three
// parallel bit vectors, and the ordered mutation list.
type Record struct {
	ID         string
	Forward    bool
	Type       Type
	Category   Category
	PrimerPair int // NoPrimerPair if none

	Left, Right int // inclusive reference span

	Seq, Qual string // reconstructed reference slice/quality, len == Right-Left+1

	MappedDepth []bool
	Depth       []bool
	Count       []bool

	Mutations []mutation.Mutation
}

// New allocates a Record spanning the inclusive reference range
// [left, right] with all three bit vectors zeroed.
func New(left, right int) Record {
	n := right - left + 1
	if n < 0 {
		n = 0
	}
	return Record{
		Left:        left,
		Right:       right,
		MappedDepth: make([]bool, n),
		Depth:       make([]bool, n),
		Count:       make([]bool, n),
	}
}

// Len returns the number of reference positions the record spans.
func (r Record) Len() int {
	return r.Right - r.Left + 1
}

// Idx converts a reference position into an index into the record's
// bit vectors and Seq/Qual, or -1 if pos falls outside the span.
func (r Record) Idx(pos int) int {
	if pos < r.Left || pos > r.Right {
		return -1
	}
	return pos - r.Left
}
