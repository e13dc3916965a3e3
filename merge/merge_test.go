package merge

import (
	"testing"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

func mateRecord(left, right int, forward bool, seq, qual string, muts []mutation.Mutation) read.Record {
	r := read.New(left, right)
	r.Forward = forward
	r.Seq = seq
	r.Qual = qual
	r.Category = read.Included
	r.PrimerPair = read.NoPrimerPair
	for i := range r.Depth {
		r.Depth[i] = true
		r.MappedDepth[i] = true
	}
	r.Mutations = muts
	return r
}

func TestConcordantDetectsDovetail(t *testing.T) {
	fwd := mateRecord(10, 30, true, "", "", nil)
	rev := mateRecord(5, 20, false, "", "", nil) // rev.Right(20) < fwd.Right(30) but rev.Left(5) < fwd.Left(10): dovetail
	if Concordant(fwd, rev, 100) {
		t.Errorf("expected dovetailed pair to be non-concordant")
	}
}

func TestConcordantRejectsExcessFragmentLength(t *testing.T) {
	fwd := mateRecord(0, 10, true, "", "", nil)
	rev := mateRecord(5, 50, false, "", "", nil)
	if Concordant(fwd, rev, 40) {
		t.Errorf("expected fragment length over bound to be non-concordant")
	}
}

// §8: mate-pair merging is commutative under swapping the R1/R2 labels
// on an identical pair — when both mates carry exactly the same bases,
// qualities, and mutations over the same span, which one is labeled R1
// cannot change the merged output.
func TestMergeCommutativeUnderR1R2Swap(t *testing.T) {
	muts := []mutation.Mutation{{Left: 2, Right: 3, Seq: "G", Qual: "I"}}
	mutation.ClassifyAllWithRef(0, "AAAAAA", muts)
	r1 := mateRecord(0, 5, true, "AAAAAA", "IIIIII", muts)
	r2 := mateRecord(0, 5, false, "AAAAAA", "IIIIII", append([]mutation.Mutation{}, muts...))

	merged1 := Merge(r1, r2)
	merged2 := Merge(r2, r1)

	if merged1.Seq != merged2.Seq || merged1.Qual != merged2.Qual {
		t.Errorf("seq/qual differ under swap: %q/%q vs %q/%q", merged1.Seq, merged1.Qual, merged2.Seq, merged2.Qual)
	}
	if len(merged1.Mutations) != len(merged2.Mutations) {
		t.Fatalf("mutation count differs under swap: %d vs %d", len(merged1.Mutations), len(merged2.Mutations))
	}
	for i := range merged1.Mutations {
		if merged1.Mutations[i] != merged2.Mutations[i] {
			t.Errorf("mutation %d differs under swap: %+v vs %+v", i, merged1.Mutations[i], merged2.Mutations[i])
		}
	}
}

func TestMergeUnionsMappedDepth(t *testing.T) {
	r1 := mateRecord(0, 4, true, "AAAAA", "IIIII", nil)
	r2 := mateRecord(3, 8, false, "AAAAAA", "IIIIII", nil)
	merged := Merge(r1, r2)
	if merged.Left != 0 || merged.Right != 8 {
		t.Fatalf("expected union span [0,8], got [%d,%d]", merged.Left, merged.Right)
	}
	for i, d := range merged.MappedDepth {
		if !d {
			t.Errorf("mapped depth at index %d should be set by at least one mate", i)
		}
	}
}
