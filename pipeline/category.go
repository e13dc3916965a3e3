package pipeline

import (
	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/read"
	"github.com/dasnellings/shapecall/strand"
)

// classify assigns s a mapping category: unmapped first, then low
// mapping quality, and included otherwise (§4.2 step 2, §6
// mapping-category tags). off_target is not decided here; it is
// assigned later, in finish, from primer-pair matching alone (§4.11
// step 6).
func classify(s sam.Sam, minMapQ uint8) read.Category {
	if strand.IsUnmapped(s) || s.RName == "" {
		return read.Unmapped
	}
	if s.MapQ < minMapQ {
		return read.LowMapQuality
	}
	return read.Included
}
