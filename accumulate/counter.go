package accumulate

import (
	"fmt"
	"io"
	"strings"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// counterCell is one reference position's mutation-class and depth
// pseudo-tag counts (§3 "Accumulator cell (counter flavor)").
type counterCell map[string]int

// Counter is the Counter-flavor scanning accumulator: per reference
// position, counts of mutation classes and depth pseudo-tags.
type Counter struct {
	window
	layout ColumnLayout
	cells  []counterCell
}

// NewCounter allocates an empty Counter accumulator for the given
// column layout.
func NewCounter(layout ColumnLayout) *Counter {
	return &Counter{layout: layout}
}

// ExtendRight implements C10's extend_right for the Counter flavor.
func (c *Counter) ExtendRight(newRight int) {
	grow := c.growTo(newRight)
	for i := 0; i < grow; i++ {
		c.cells = append(c.cells, counterCell{})
	}
}

// AdvanceLeft implements C10's advance_left for the Counter flavor,
// writing one emitted row per evicted position to w via render.
func (c *Counter) AdvanceLeft(newLeft int, w io.Writer) error {
	n := c.evictCount(newLeft)
	for i := 0; i < n; i++ {
		if _, err := io.WriteString(w, c.render(c.cells[i])+"\n"); err != nil {
			return err
		}
	}
	c.cells = c.cells[n:]
	c.evict(n)
	return nil
}

// Update implements C10's update for the Counter flavor: increments
// mutation-tag counts at each mutation's inferred position (right-1),
// effective_depth/read_depth/mapped-depth-category counts across the
// read's span, per §4.10.
func (c *Counter) Update(r read.Record) {
	for i := 0; i < r.Len(); i++ {
		pos := r.Left + i
		idx := c.index(pos)
		if idx < 0 {
			continue
		}
		cell := c.cells[idx]
		if r.Depth[i] {
			cell["effective_depth"]++
		}
		if r.MappedDepth[i] {
			cell["read_depth"]++
			if col := c.layout.mappedDepthColumn(r.Category, r.PrimerPair); col != "" {
				cell[col]++
			}
		}
	}
	for _, m := range r.Mutations {
		if m.Tag == mutation.NMatchTag {
			continue
		}
		idx := c.index(m.Right - 1)
		if idx < 0 {
			continue
		}
		tag := m.Tag
		if c.layout.SeparateAmbiguousCounts && m.Ambig {
			tag += "_ambig"
		}
		c.cells[idx][tag]++
	}
}

// render emits one tab-separated line containing the cell's values for
// every configured column, in order (§4.10).
func (c *Counter) render(cell counterCell) string {
	cols := c.layout.Columns()
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%d", cell[col])
	}
	return strings.Join(parts, "\t")
}
