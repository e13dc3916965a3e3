package pipeline

import (
	"testing"

	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/read"
)

func TestClassifyUnmapped(t *testing.T) {
	s := sam.Sam{QName: "r1", RName: "", MapQ: 60}
	if got := classify(s, 20); got != read.Unmapped {
		t.Errorf("got %v, want Unmapped", got)
	}
}

func TestClassifyLowMapQuality(t *testing.T) {
	s := sam.Sam{QName: "r1", RName: "chr1", MapQ: 5}
	if got := classify(s, 20); got != read.LowMapQuality {
		t.Errorf("got %v, want LowMapQuality", got)
	}
}

func TestClassifyIncluded(t *testing.T) {
	s := sam.Sam{QName: "r1", RName: "chr1", MapQ: 60}
	if got := classify(s, 20); got != read.Included {
		t.Errorf("got %v, want Included", got)
	}
}

func TestClassifyIncludedRegardlessOfContig(t *testing.T) {
	s := sam.Sam{QName: "r1", RName: "chr2", MapQ: 60}
	if got := classify(s, 20); got != read.Included {
		t.Errorf("got %v, want Included: off_target is decided by primer matching, not contig name", got)
	}
}
