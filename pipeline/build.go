// Package pipeline implements the pipeline driver (C11): per-record read
// classification, mapping filters, and wiring of C3-C10 into one
// end-to-end run over a stream of alignment records.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/cigarop"
	"github.com/dasnellings/shapecall/mdtag"
	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
	"github.com/dasnellings/shapecall/strand"
)

// mdTagValue extracts the MD:Z reference-difference annotation from a
// SAM record's extra tags (§6: "The reference-difference annotation is
// expected as MD:Z:<string>"). A text record's tab-separated Extra field
// is scanned directly; a record without one falls back to the parsed-tag
// lookup.
func mdTagValue(s sam.Sam) (string, error) {
	if s.Extra != "" {
		for _, field := range strings.Split(s.Extra, "\t") {
			if strings.HasPrefix(field, "MD:Z:") {
				return strings.TrimPrefix(field, "MD:Z:"), nil
			}
		}
		return "", fmt.Errorf("pipeline: read %s has no MD:Z reference-difference tag", s.QName)
	}
	if err := sam.ParseExtra(&s); err != nil {
		return "", fmt.Errorf("pipeline: parsing extra tags for read %s: %w", s.QName, err)
	}
	v, found, err := sam.QueryTag(s, "MD")
	if err != nil {
		return "", fmt.Errorf("pipeline: reading MD tag for read %s: %w", s.QName, err)
	}
	if !found {
		return "", fmt.Errorf("pipeline: read %s has no MD:Z reference-difference tag", s.QName)
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("pipeline: read %s has a non-string MD tag", s.QName)
	}
	return str, nil
}

// buildRecord runs C2, C1, C3, and (unless variantMode) C4 over one SAM
// record and returns the initial read.Record: reference span, the
// reconstructed reference slice/quality, and the located (and shifted)
// mutation list. Classification (C8) is deferred to finish, which runs
// it after the off-target decision so an off-target read's mutations
// never get tagged (§4.11 step 6).
func buildRecord(s sam.Sam, variantMode bool, shiftOpts mutation.ShiftOptions) (read.Record, error) {
	pos := s.GetChromStart()
	ops := cigarToOps(s.Cigar)
	md, err := mdTagValue(s)
	if err != nil {
		return read.Record{}, err
	}
	mdOps, err := mdtag.Parse(md)
	if err != nil {
		return read.Record{}, fmt.Errorf("pipeline: read %s: %w", s.QName, err)
	}

	// Defends against lowercase SEQ bases the same way the teacher
	// normalizes every fetched reference slice before comparing it
	// against anything (e.g. realign.realign's currRegion calls).
	dna.AllToUpper(s.Seq)
	readSeq := dna.BasesToString(s.Seq)

	loc, err := mutation.Locate(pos, readSeq, s.Qual, ops, mdOps)
	if err != nil {
		return read.Record{}, fmt.Errorf("pipeline: read %s: %w", s.QName, err)
	}

	var muts []mutation.Mutation
	if variantMode {
		muts = loc.Mutations
	} else {
		muts = mutation.ShiftAmbiguousIndels(pos, loc, shiftOpts)
	}

	right := cigarop.RightmostRefPos(pos, ops)
	r := read.New(pos, right)
	r.ID = s.QName
	r.Forward = strand.IsForward(s)
	r.Seq = loc.RefSeq
	r.Qual = loc.RefQual
	r.Mutations = muts
	for i := range r.MappedDepth {
		r.MappedDepth[i] = true
		r.Depth[i] = true
	}
	r.PrimerPair = read.NoPrimerPair
	return r, nil
}

// cigarToOps converts gonomics' cigar.Cigar slice (already the C2
// output type, per SPEC_FULL's domain-stack table) into the form
// cigarop.RightmostRefPos and mutation.Locate expect; the types already
// match, this exists purely to document the seam.
func cigarToOps(c []cigar.Cigar) []cigar.Cigar {
	return c
}
