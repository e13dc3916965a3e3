package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/shapecall/accumulate"
	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/pipeline"
	"github.com/dasnellings/shapecall/primer"
	"github.com/dasnellings/shapecall/qualfilter"
	"github.com/dasnellings/shapecall/refinfo"
)

// commonFlags are the options "parse" and "count" both need: every
// flag that feeds pipeline.Config outside of the accumulator flavor
// itself (§4, §6).
type commonFlags struct {
	target          *string
	minMapQ         *int
	maxFragmentLen  *int
	rightAlignDels  *bool
	rightAlignIns   *bool
	collapseWindow  *int
	threePrimeTrim  *int
	primerTable     *string
	primerMaxOffset *int
	requireFwPrimer *bool
	requireRvPrimer *bool
	trimToPrimers   *bool
	minQuality      *int
	variantMode     *bool
	restrict        *string
	separateAmbig   *bool
	faiFile         *string
	refName         *string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		target:          fs.String("target", "", "Reference contig name, checked against the alignment header (a mismatch only warns) and used, together with -fai, to look up the reference length."),
		minMapQ:         fs.Int("minMapQ", 20, "Minimum mapping quality; reads below this are classified low_map_quality."),
		maxFragmentLen:  fs.Int("maxFragmentLen", 1000, "Maximum union span, in bases, for two mates to be considered concordant and merged."),
		rightAlignDels:  fs.Bool("rightAlignAmbigDels", false, "Slide ambiguous deletions to the rightmost equivalent position instead of the leftmost."),
		rightAlignIns:   fs.Bool("rightAlignAmbigIns", false, "Slide ambiguous insertions to the rightmost equivalent position instead of the leftmost."),
		collapseWindow:  fs.Int("collapseWindow", 0, "Maximum number of matching reference bases separating two mutations for them to be collapsed into one."),
		threePrimeTrim:  fs.Int("trimEnd", 0, "Number of reference bases to zero out of effective depth at a read's trailing end."),
		primerTable:     fs.String("primers", "", "Amplicon primer-pair table file (§6)."),
		primerMaxOffset: fs.Int("primerMaxOffset", 5, "Maximum offset, in bases, between a read's mapped end and a primer's edge for a match."),
		requireFwPrimer: fs.Bool("requireForwardPrimer", false, "Require a forward-primer match for a read to be assigned a primer pair."),
		requireRvPrimer: fs.Bool("requireReversePrimer", false, "Require a reverse-primer match for a read to be assigned a primer pair."),
		trimToPrimers:   fs.Bool("trimToPrimers", false, "Zero out effective depth over a read's matched primer ranges and drop mutations overlapping them."),
		minQuality:      fs.Int("minQuality", 20, "Minimum Phred quality score for a base (and its neighbors) to count towards effective depth."),
		variantMode:     fs.Bool("variantMode", false, "Run in variant mode: skip ambiguous-indel shifting and mutation collapsing, and accumulate a per-position variant table instead of per-class counts."),
		restrict:        fs.String("restrict", "", "Restrict counted mutations to one class: mismatch, insert, gap, insertMulti, gapMulti, complex."),
		separateAmbig:   fs.Bool("separateAmbiguousCounts", false, "Add a separate _ambig column for each mutation class covering only ambiguously placed mutations."),
		faiFile:         fs.String("fai", "", "FASTA .fai index of the reference; when set with -target, its length extends the output table through the end of the reference."),
		refName:         fs.String("refName", "", "Name of the reference sequence to look up in -fai, if different from -target."),
	}
}

// buildConfig turns the parsed common flags into a pipeline.Config.
func (c *commonFlags) buildConfig() (pipeline.Config, error) {
	cfg := pipeline.Config{
		TargetName:      *c.target,
		MinMapQ:         uint8(*c.minMapQ),
		MaxFragmentLen:  *c.maxFragmentLen,
		ShiftOpts:       mutation.ShiftOptions{RightAlignAmbigDels: *c.rightAlignDels, RightAlignAmbigIns: *c.rightAlignIns},
		CollapseWindow:  *c.collapseWindow,
		ThreePrimeTrim:  *c.threePrimeTrim,
		PrimerMaxOffset: *c.primerMaxOffset,
		RequireFwPrimer: *c.requireFwPrimer,
		RequireRvPrimer: *c.requireRvPrimer,
		TrimToPrimers:   *c.trimToPrimers,
		VariantMode:     *c.variantMode,
		ColumnLayout:    accumulate.ColumnLayout{SeparateAmbiguousCounts: *c.separateAmbig},
	}

	restriction, err := parseRestriction(*c.restrict)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg.QualOpts = qualfilter.Options{MinQuality: *c.minQuality, VariantMode: *c.variantMode, Restrict: restriction}

	if *c.primerTable != "" {
		pairs, err := primer.ReadTable(*c.primerTable)
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg.Primers = pairs
		cfg.ColumnLayout.NumPrimerPairs = len(pairs)
	}

	if *c.faiFile != "" {
		idx, err := refinfo.ReadIndex(*c.faiFile)
		if err != nil {
			return pipeline.Config{}, err
		}
		name := *c.refName
		if name == "" {
			name = *c.target
		}
		if n, ok := idx.Length(name); ok {
			cfg.ReferenceLength = n
		}
	}

	return cfg, nil
}

func parseRestriction(s string) (qualfilter.Restriction, error) {
	switch s {
	case "":
		return qualfilter.RestrictNone, nil
	case "mismatch":
		return qualfilter.RestrictMismatch, nil
	case "insert":
		return qualfilter.RestrictInsert, nil
	case "gap":
		return qualfilter.RestrictGap, nil
	case "insertMulti":
		return qualfilter.RestrictInsertMulti, nil
	case "gapMulti":
		return qualfilter.RestrictGapMulti, nil
	case "complex":
		return qualfilter.RestrictComplex, nil
	default:
		return qualfilter.RestrictNone, fmt.Errorf("unrecognized -restrict value %q", s)
	}
}
