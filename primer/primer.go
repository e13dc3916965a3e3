// Package primer parses the amplicon primer-pair table (§6) and matches
// reads against it (§4.6, §4.11 step 6, SPEC_FULL supplemented feature 5).
package primer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Pair is one amplicon's forward/reverse primer reference ranges,
// 0-based inclusive.
type Pair struct {
	FwLeft, FwRight int
	RvLeft, RvRight int
}

// ReadTable reads a primer table file (§6): blank lines, lines starting
// with '>' (reference name), and lines whose first non-space character
// is alphabetic (primer sequences) are ignored; remaining lines carry
// four whitespace-separated integers fw_left fw_right rv_left rv_right.
func ReadTable(filename string) ([]Pair, error) {
	file := fileio.EasyOpen(filename)
	var pairs []Pair
	for line, done := fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ">") {
			continue
		}
		if unicode.IsLetter(rune(trimmed[0])) {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 4 {
			exception.PanicOnErr(file.Close())
			return nil, fmt.Errorf("primer: malformed table line %q: want 4 fields, got %d", line, len(fields))
		}
		var p Pair
		var err error
		if p.FwLeft, err = strconv.Atoi(fields[0]); err != nil {
			exception.PanicOnErr(file.Close())
			return nil, fmt.Errorf("primer: malformed fw_left in %q: %w", line, err)
		}
		if p.FwRight, err = strconv.Atoi(fields[1]); err != nil {
			exception.PanicOnErr(file.Close())
			return nil, fmt.Errorf("primer: malformed fw_right in %q: %w", line, err)
		}
		if p.RvLeft, err = strconv.Atoi(fields[2]); err != nil {
			exception.PanicOnErr(file.Close())
			return nil, fmt.Errorf("primer: malformed rv_left in %q: %w", line, err)
		}
		if p.RvRight, err = strconv.Atoi(fields[3]); err != nil {
			exception.PanicOnErr(file.Close())
			return nil, fmt.Errorf("primer: malformed rv_right in %q: %w", line, err)
		}
		pairs = append(pairs, p)
	}
	exception.PanicOnErr(file.Close())
	return pairs, nil
}

// Match is the outcome of matching a read's mapped span against a
// primer table: the matched pair's index (0-based) or NoMatch, and
// whether the forward/reverse primer each individually matched within
// tolerance.
type Match struct {
	Index          int
	ForwardMatched bool
	ReverseMatched bool
}

// NoMatch is the sentinel Match.Index meaning no primer pair matched.
const NoMatch = -1

// abs is the small integer absolute value helper used throughout
// offset comparisons below.
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Closest finds the primer pair whose forward-primer right edge is
// closest to (within maxOffset of) left, and independently whose
// reverse-primer left edge is closest to (within maxOffset of) right,
// returning the pair whose combined offset is smallest. requireForward
// and requireReverse gate whether a missing side on its own disqualifies
// a candidate pair (§4.11 step 6, SPEC_FULL feature 5). This is the
// strict, offset-bound search; when it finds nothing, finish falls back
// to Overlap to still supply a pair for the trim step.
func Closest(pairs []Pair, left, right, maxOffset int, requireForward, requireReverse bool) Match {
	best := Match{Index: NoMatch}
	bestOffset := 2*maxOffset + 1
	for i, p := range pairs {
		fwOffset := abs(p.FwRight - left)
		rvOffset := abs(p.RvLeft - right)
		fwOK := fwOffset <= maxOffset
		rvOK := rvOffset <= maxOffset
		if requireForward && !fwOK {
			continue
		}
		if requireReverse && !rvOK {
			continue
		}
		if !fwOK && !rvOK {
			continue
		}
		total := 0
		if fwOK {
			total += fwOffset
		}
		if rvOK {
			total += rvOffset
		}
		if total < bestOffset {
			bestOffset = total
			best = Match{Index: i, ForwardMatched: fwOK, ReverseMatched: rvOK}
		}
	}
	return best
}

// Overlap finds a primer pair purely by containment, ignoring
// maxPrimerOffset and the require flags entirely: a pair matches if
// left falls inside its forward-primer range or right falls inside its
// reverse-primer range. When more than one pair's range contains an
// end, the later (highest-index) match wins. Grounded on the original's
// findOverlappingPrimers, the fallback it runs only once Closest's
// offset-bound search comes up empty, solely to still supply a pair for
// the trim step.
func Overlap(pairs []Pair, left, right int) int {
	index := NoMatch
	for i, p := range pairs {
		if left >= p.FwLeft && left <= p.FwRight {
			index = i
		}
		if right >= p.RvLeft && right <= p.RvRight {
			index = i
		}
	}
	return index
}
