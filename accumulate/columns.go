// Package accumulate implements the scanning accumulator (C10): a deque
// indexed by reference position holding either per-position mutation-class
// counters (Counter flavor) or per-position variant-sequence multisets
// (Variant flavor), supporting right-extension and left-eviction with
// row emission.
package accumulate

import (
	"fmt"
	"strings"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// ColumnLayout is the printed column configuration for the Counter
// flavor, built once per run from CLI flags and threaded into the
// accumulator constructor rather than kept as a mutable global (§9
// redesign note; SPEC_FULL supplemented feature 1).
type ColumnLayout struct {
	// SeparateAmbiguousCounts doubles the mutation-class vocabulary
	// (mutation.Classes, 26 entries) with an "_ambig" variant of each column.
	SeparateAmbiguousCounts bool
	// NumPrimerPairs, when > 0, selects primer_pair_1_mapped_depth ...
	// primer_pair_k_mapped_depth in place of the single mapped_depth
	// column.
	NumPrimerPairs int
}

// mutationColumns returns the ordered mutation-class columns, doubled by
// "_ambig" variants when the layout requests it.
func (c ColumnLayout) mutationColumns() []string {
	if !c.SeparateAmbiguousCounts {
		return mutation.Classes
	}
	cols := make([]string, 0, 2*len(mutation.Classes))
	for _, tag := range mutation.Classes {
		cols = append(cols, tag, tag+"_ambig")
	}
	return cols
}

// depthColumns returns the pseudo-tag columns following the mutation
// classes: read_depth, effective_depth, off_target_mapped_depth,
// low_mapq_mapped_depth, then either mapped_depth or
// primer_pair_k_mapped_depth for each configured primer pair (§6, §3).
func (c ColumnLayout) depthColumns() []string {
	cols := []string{"read_depth", "effective_depth", "off_target_mapped_depth", "low_mapq_mapped_depth"}
	if c.NumPrimerPairs > 0 {
		for i := 1; i <= c.NumPrimerPairs; i++ {
			cols = append(cols, fmt.Sprintf("primer_pair_%d_mapped_depth", i))
		}
		return cols
	}
	return append(cols, "mapped_depth")
}

// Columns returns the full ordered column list: mutation classes then
// depth pseudo-tags.
func (c ColumnLayout) Columns() []string {
	return append(c.mutationColumns(), c.depthColumns()...)
}

// Header returns the tab-separated header line (§6 "Counter output").
func (c ColumnLayout) Header() string {
	return strings.Join(c.Columns(), "\t")
}

// mappedDepthColumn returns the column name for the *_mapped_depth
// pseudo-tag a read with the given mapping category and primer-pair
// index should credit: off_target and low_map_quality reads credit their
// own fixed columns, included reads mapped_depth or their primer pair's
// column, and any other category gets "".
func (c ColumnLayout) mappedDepthColumn(cat read.Category, primerPair int) string {
	switch cat {
	case read.OffTarget:
		return "off_target_mapped_depth"
	case read.LowMapQuality:
		return "low_mapq_mapped_depth"
	case read.Included:
		if c.NumPrimerPairs > 0 && primerPair >= 0 {
			return fmt.Sprintf("primer_pair_%d_mapped_depth", primerPair+1)
		}
		return "mapped_depth"
	default:
		return ""
	}
}
