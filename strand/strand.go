// Package strand adapts the teacher's VCF-Info strand lookup into a
// SAM-flag based helper: every read the core processes carries its
// orientation in the alignment record's flag bits (§6), not in an Info
// annotation, so this package wraps gonomics/sam's own flag decoders
// instead of string-splitting an Info field.
package strand

import "github.com/vertgenlab/gonomics/sam"

// IsForward reports whether s is aligned to the forward strand, per the
// reverse-strand flag bit (§6: "bit 4 (reverse-strand)").
func IsForward(s sam.Sam) bool {
	return sam.IsForwardRead(s)
}

// MateIsForward reports whether s's mate is aligned to the forward
// strand, per the mate-reverse-strand flag bit. The pipeline driver
// (C11) does not call it: its concordance check compares the two mates'
// own strands.
func MateIsForward(s sam.Sam) bool {
	return s.Flag&0x20 == 0
}

// IsFirstInPair reports whether s is the first mate of a pair, per flag
// bit 6 — used by C11 to assign the paired-R1/paired-R2 read-type tags.
func IsFirstInPair(s sam.Sam) bool {
	return s.Flag&0x40 != 0
}

// IsSecondInPair reports whether s is the second mate of a pair, per
// flag bit 7.
func IsSecondInPair(s sam.Sam) bool {
	return s.Flag&0x80 != 0
}

// IsPaired reports whether s is one mate of a pair, per flag bit 0.
func IsPaired(s sam.Sam) bool {
	return s.Flag&0x1 != 0
}

// IsUnmapped reports whether s is unmapped, per flag bit 2.
func IsUnmapped(s sam.Sam) bool {
	return s.Flag&0x4 != 0
}
