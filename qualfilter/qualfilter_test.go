package qualfilter

import (
	"strings"
	"testing"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// Boundary scenario 6: quality filter with low-quality neighbor.
func TestApplyBoundaryScenario6(t *testing.T) {
	refSeq := "AATTGGCCATGCCGTA"
	refQual := "!!!!!HH#H#HHHHHH"
	r := read.New(0, 15)
	r.Seq = refSeq
	r.Qual = refQual
	for i := range r.Depth {
		r.Depth[i] = true
	}
	r.Mutations = []mutation.Mutation{
		{Left: 0, Right: 2, Seq: "", Qual: ""},
		{Left: 3, Right: 4, Seq: "CA", Qual: "HH"},
		{Left: 7, Right: 9, Seq: "T", Qual: "H"},
	}
	mutation.ClassifyAllWithRef(0, refSeq, r.Mutations)

	included, excluded := Apply(r, Options{MinQuality: 2})

	if len(included) != 1 || included[0].Left != 7 || included[0].Right != 9 {
		t.Fatalf("included = %+v, want only (7,9)", included)
	}
	if len(excluded) != 2 {
		t.Fatalf("excluded = %+v, want 2 mutations", excluded)
	}

	var depthBits strings.Builder
	for _, d := range r.Depth {
		if d {
			depthBits.WriteByte('1')
		} else {
			depthBits.WriteByte('0')
		}
	}
	want := "0000001111111111"
	if depthBits.String() != want {
		t.Errorf("depth = %s, want %s", depthBits.String(), want)
	}

	for i, c := range r.Count {
		if c != (i == 8) {
			t.Errorf("count[%d] = %v, want %v", i, c, i == 8)
		}
	}
}

func TestApplyVariantModeSetsSpanIncludedDepth(t *testing.T) {
	r := read.New(0, 5)
	r.Seq = "AAAAAA"
	r.Qual = "HHHHHH"
	r.Mutations = []mutation.Mutation{{Left: 1, Right: 4, Seq: "GG", Qual: "HH"}}
	mutation.ClassifyAllWithRef(0, r.Seq, r.Mutations)

	included, excluded := Apply(r, Options{MinQuality: 2, VariantMode: true})
	if len(included) != 1 || len(excluded) != 0 {
		t.Fatalf("included=%v excluded=%v", included, excluded)
	}
	if !r.Depth[2] || !r.Depth[3] {
		t.Errorf("variant mode should set depth true across mutation interior, got %v", r.Depth)
	}
	if r.Count[2] || r.Count[3] {
		t.Errorf("variant mode should never set count, got %v", r.Count)
	}
}

func TestApplyRestrictionExcludesOtherClasses(t *testing.T) {
	r := read.New(0, 5)
	r.Seq = "AAAAAA"
	r.Qual = "HHHHHH"
	for i := range r.Depth {
		r.Depth[i] = true
	}
	r.Mutations = []mutation.Mutation{{Left: 1, Right: 2, Seq: "G", Qual: "H"}} // single insertion
	mutation.ClassifyAllWithRef(0, r.Seq, r.Mutations)

	included, excluded := Apply(r, Options{MinQuality: 2, Restrict: RestrictGap})
	if len(included) != 0 || len(excluded) != 1 {
		t.Fatalf("insertion should fail a gap-only restriction: included=%v excluded=%v", included, excluded)
	}
}
