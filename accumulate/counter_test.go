package accumulate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

func TestCounterRowCountMatchesReferenceLength(t *testing.T) {
	c := NewCounter(ColumnLayout{})
	refLen := 10
	c.ExtendRight(refLen - 1)

	var buf bytes.Buffer
	if err := c.AdvanceLeft(refLen, &buf); err != nil {
		t.Fatalf("AdvanceLeft: %v", err)
	}
	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(rows) != refLen {
		t.Fatalf("got %d rows, want %d", len(rows), refLen)
	}
}

func TestCounterUpdateIncrementsReadDepthAndMutationClass(t *testing.T) {
	c := NewCounter(ColumnLayout{})
	c.ExtendRight(9)

	r := read.New(0, 9)
	for i := range r.MappedDepth {
		r.MappedDepth[i] = true
		r.Depth[i] = true
	}
	r.Category = read.Included
	r.PrimerPair = read.NoPrimerPair
	r.Mutations = []mutation.Mutation{{Left: 4, Right: 6, Seq: "G", Qual: "H"}}
	mutation.ClassifyAllWithRef(0, "AAAAAAAAAA", r.Mutations)
	c.Update(r)

	var buf bytes.Buffer
	if err := c.AdvanceLeft(10, &buf); err != nil {
		t.Fatalf("AdvanceLeft: %v", err)
	}
	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	cols := ColumnLayout{}.Columns()
	readDepthIdx, mutIdx := -1, -1
	for i, name := range cols {
		if name == "read_depth" {
			readDepthIdx = i
		}
		if name == "AG" {
			mutIdx = i
		}
	}
	row5 := strings.Split(rows[5], "\t")
	if row5[readDepthIdx] != "1" {
		t.Errorf("read_depth at position 5 = %s, want 1", row5[readDepthIdx])
	}
	if row5[mutIdx] != "1" {
		t.Errorf("AG count at position 5 (right-1) = %s, want 1", row5[mutIdx])
	}
}

func TestColumnLayoutSeparateAmbiguousCounts(t *testing.T) {
	layout := ColumnLayout{SeparateAmbiguousCounts: true}
	cols := layout.Columns()
	if len(cols) != 2*len(mutation.Classes)+5 {
		t.Fatalf("got %d columns, want %d", len(cols), 2*len(mutation.Classes)+5)
	}
}

func TestColumnLayoutPrimerPairColumns(t *testing.T) {
	layout := ColumnLayout{NumPrimerPairs: 2}
	cols := layout.Columns()
	last := cols[len(cols)-2:]
	want := []string{"primer_pair_1_mapped_depth", "primer_pair_2_mapped_depth"}
	if last[0] != want[0] || last[1] != want[1] {
		t.Errorf("got %v, want %v", last, want)
	}
}
