package primer

import "testing"

func TestClosestPicksWithinTolerance(t *testing.T) {
	pairs := []Pair{
		{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200},
		{FwLeft: 300, FwRight: 320, RvLeft: 480, RvRight: 500},
	}
	m := Closest(pairs, 21, 179, 5, true, true)
	if m.Index != 0 || !m.ForwardMatched || !m.ReverseMatched {
		t.Fatalf("got %+v, want pair 0 matched on both sides", m)
	}
}

func TestClosestNoMatchBeyondTolerance(t *testing.T) {
	pairs := []Pair{{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200}}
	m := Closest(pairs, 100, 150, 2, true, true)
	if m.Index != NoMatch {
		t.Fatalf("got %+v, want NoMatch", m)
	}
}

func TestClosestRequireForwardOnly(t *testing.T) {
	pairs := []Pair{{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200}}
	// reverse side is way out of tolerance but not required.
	m := Closest(pairs, 21, 9000, 5, true, false)
	if m.Index != 0 || !m.ForwardMatched || m.ReverseMatched {
		t.Fatalf("got %+v, want forward-only match", m)
	}
}

func TestOverlapFindsContainingPair(t *testing.T) {
	pairs := []Pair{
		{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200},
		{FwLeft: 300, FwRight: 320, RvLeft: 480, RvRight: 500},
	}
	if got := Overlap(pairs, 10, 190); got != 0 {
		t.Fatalf("got %d, want pair 0", got)
	}
}

func TestOverlapIgnoresOffsetTolerance(t *testing.T) {
	// left/right sit well outside Closest's tolerance but still land
	// inside the forward/reverse ranges by plain containment.
	pairs := []Pair{{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200}}
	if got := Overlap(pairs, 2, 198); got != 0 {
		t.Fatalf("got %d, want pair 0", got)
	}
}

func TestOverlapNoContainingPair(t *testing.T) {
	pairs := []Pair{{FwLeft: 0, FwRight: 20, RvLeft: 180, RvRight: 200}}
	if got := Overlap(pairs, 50, 150); got != NoMatch {
		t.Fatalf("got %d, want NoMatch", got)
	}
}
