// Package cigarop parses the alignment-operator (CIGAR) string into
// (length, operator) pairs and provides the reference-span helper used
// by the mutation locator.
package cigarop

import (
	"fmt"
	"unicode"

	"github.com/vertgenlab/gonomics/cigar"
)

// refConsuming is the set of operators that advance the reference
// coordinate: match-or-mismatch, deletion, skip, pad, explicit match,
// explicit mismatch.
var refConsuming = map[byte]bool{
	'M': true, 'D': true, 'N': true, 'P': true, '=': true, 'X': true,
}

var validOps = map[byte]bool{
	'M': true, 'I': true, 'D': true, 'N': true, 'S': true, 'H': true, 'P': true, '=': true, 'X': true,
}

// Parse splits an alignment-operator string alternately on numeric and
// alphabetic character classes and pairs consecutive (length, operator)
// tokens into cigar.Cigar values.
func Parse(s string) ([]cigar.Cigar, error) {
	if s == "" {
		return nil, fmt.Errorf("cigarop: empty operator string")
	}
	var ops []cigar.Cigar
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && unicode.IsDigit(rune(s[j])) {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("cigarop: malformed operator string %q: expected length before operator at offset %d", s, i)
		}
		n := 0
		for _, c := range s[i:j] {
			n = n*10 + int(c-'0')
		}
		if j >= len(s) {
			return nil, fmt.Errorf("cigarop: malformed operator string %q: trailing length with no operator", s)
		}
		op := s[j]
		if !validOps[op] {
			return nil, fmt.Errorf("cigarop: unrecognized operator %q in %q", op, s)
		}
		ops = append(ops, cigar.Cigar{Op: rune(op), RunLength: n})
		i = j + 1
	}
	return ops, nil
}

// RightmostRefPos returns the right-most reference position covered by
// ops, given the left-most reference position left.
func RightmostRefPos(left int, ops []cigar.Cigar) int {
	right := left
	for _, op := range ops {
		if refConsuming[byte(op.Op)] {
			right += op.RunLength
		}
	}
	return right - 1
}

// ConsumesRef reports whether op advances the reference coordinate.
func ConsumesRef(op byte) bool {
	return refConsuming[op]
}
