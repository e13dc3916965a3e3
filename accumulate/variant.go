package accumulate

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/dasnellings/shapecall/read"
)

// variantKey identifies one distinct sequence variant at a reference
// position: its span and replacing bases, with quality blanked (§3
// "Accumulator cell (variant flavor)").
type variantKey struct {
	left, right int
	seq         string
}

// variantCell is one reference position's depth and variant-sequence
// multiset.
type variantCell struct {
	depth    int
	variants map[variantKey]int
}

// Variant is the Variant-flavor scanning accumulator: per reference
// position, a depth count and a multiset of observed sequence variants.
type Variant struct {
	window
	cells []variantCell
}

// NewVariant allocates an empty Variant accumulator.
func NewVariant() *Variant {
	return &Variant{}
}

// ExtendRight implements C10's extend_right for the Variant flavor.
func (v *Variant) ExtendRight(newRight int) {
	grow := v.growTo(newRight)
	for i := 0; i < grow; i++ {
		v.cells = append(v.cells, variantCell{})
	}
}

// AdvanceLeft implements C10's advance_left for the Variant flavor.
func (v *Variant) AdvanceLeft(newLeft int, w io.Writer) error {
	n := v.evictCount(newLeft)
	for i := 0; i < n; i++ {
		if _, err := io.WriteString(w, v.render(v.cells[i])+"\n"); err != nil {
			return err
		}
	}
	v.cells = v.cells[n:]
	v.evict(n)
	return nil
}

// Update implements C10's update for the Variant flavor: increments
// depth for each covered position and increments the canonicalized
// variant count at each mutation's Left (§4.10).
func (v *Variant) Update(r read.Record) {
	for i := 0; i < r.Len(); i++ {
		if !r.Depth[i] {
			continue
		}
		idx := v.index(r.Left + i)
		if idx < 0 {
			continue
		}
		v.cells[idx].depth++
	}
	for _, m := range r.Mutations {
		idx := v.index(m.Left)
		if idx < 0 {
			continue
		}
		cell := &v.cells[idx]
		if cell.variants == nil {
			cell.variants = make(map[variantKey]int)
		}
		cell.variants[variantKey{left: m.Left, right: m.Right, seq: m.Seq}]++
	}
}

// render emits "depth" followed by a space-separated list of
// (left-right, "seq", count) tuples, in a deterministic order (§4.10).
func (v *Variant) render(cell variantCell) string {
	keys := make([]variantKey, 0, len(cell.variants))
	for k := range cell.variants {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b variantKey) int {
		if a.left != b.left {
			return a.left - b.left
		}
		if a.right != b.right {
			return a.right - b.right
		}
		return strings.Compare(a.seq, b.seq)
	})
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, fmt.Sprintf("%d", cell.depth))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("(%d-%d, %q, %d)", k.left, k.right, k.seq, cell.variants[k]))
	}
	return strings.Join(parts, " ")
}
