package pipeline

import (
	"log"

	"github.com/vertgenlab/gonomics/chromInfo"
	"github.com/vertgenlab/gonomics/sam"
)

// WarnUnknownTarget logs a warning if targetName is configured but does
// not appear in the alignment header's @SQ list, the same check the
// teacher runs before trusting a chromosome name against a bam header
// (filter.checkChr).
func WarnUnknownTarget(header sam.Header, targetName string) {
	if targetName == "" {
		return
	}
	if !knownChrom(targetName, header.Chroms) {
		log.Printf("WARNING: %s given as -target but not present in the alignment header.\n", targetName)
	}
}

func knownChrom(name string, list []chromInfo.ChromInfo) bool {
	for i := range list {
		if list[i].Name == name {
			return true
		}
	}
	return false
}
