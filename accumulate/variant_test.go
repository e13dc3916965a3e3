package accumulate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

func TestVariantUpdateAndRender(t *testing.T) {
	v := NewVariant()
	v.ExtendRight(4)

	r := read.New(0, 4)
	for i := range r.Depth {
		r.Depth[i] = true
	}
	r.Mutations = []mutation.Mutation{
		{Left: 1, Right: 2, Seq: "A", Qual: "H"},
		{Left: 1, Right: 2, Seq: "A", Qual: "I"}, // same variant, different qual: should collapse
	}
	v.Update(r)

	var buf bytes.Buffer
	if err := v.AdvanceLeft(5, &buf); err != nil {
		t.Fatalf("AdvanceLeft: %v", err)
	}
	rows := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if !strings.HasPrefix(rows[1], "1 (1-2, \"A\", 2)") {
		t.Errorf("row 1 = %q, want depth 1 and a single variant counted twice", rows[1])
	}
	if rows[0] != "1" {
		t.Errorf("row 0 = %q, want bare depth with no variants", rows[0])
	}
}
