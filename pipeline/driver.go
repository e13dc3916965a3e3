package pipeline

import (
	"io"

	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/accumulate"
	"github.com/dasnellings/shapecall/cigarop"
	"github.com/dasnellings/shapecall/merge"
	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/primer"
	"github.com/dasnellings/shapecall/qualfilter"
	"github.com/dasnellings/shapecall/read"
	"github.com/dasnellings/shapecall/strand"
	"github.com/dasnellings/shapecall/trim"
)

// Config bundles every tunable C11 threads through to C3-C10 (§4, §6
// flags): mapping filters, merge/trim geometry, the ambiguous-indel
// shift direction, the collapse window, the quality filter, primer
// matching, and which accumulator flavor to drive.
type Config struct {
	// TargetName, when set, is checked against the alignment header
	// (WarnUnknownTarget) and used as the default -fai lookup name; it
	// plays no part in per-read classification.
	TargetName      string
	MinMapQ         uint8
	MaxFragmentLen  int
	ShiftOpts       mutation.ShiftOptions
	CollapseWindow  int
	ThreePrimeTrim  int
	Primers         []primer.Pair
	PrimerMaxOffset int
	RequireFwPrimer bool
	RequireRvPrimer bool
	TrimToPrimers   bool
	QualOpts        qualfilter.Options
	VariantMode     bool
	ColumnLayout    accumulate.ColumnLayout

	// ReferenceLength, when > 0, extends the accumulator to cover the
	// whole named reference before the final flush, so trailing
	// positions no read ever touches still emit a zero-depth row
	// (§4.10, typically derived from a .fai index via refinfo).
	ReferenceLength int
}

// Processor runs C3-C9 over a coordinate-sorted stream of SAM records:
// per-record mapping classification, mate-pair buffering and merging,
// trimming, collapsing, classifying, and quality filtering. It performs
// no accumulation; Process hands every fully processed Record it
// produces to emit, which the caller may feed directly into C10 (a
// single-pass run) or serialize to the per-read intermediate text (§6,
// the two-phase parse/count split).
type Processor struct {
	cfg     Config
	pending map[string]read.Record
}

// NewProcessor allocates a Processor for cfg.
func NewProcessor(cfg Config) *Processor {
	return &Processor{cfg: cfg, pending: make(map[string]read.Record)}
}

// Process runs one SAM record through classification and, once both
// sides of a pair have arrived, mate merging and C6-C9, invoking emit
// once per Record the record ultimately produces (zero times while the
// first mate of a pair is still buffered).
func (p *Processor) Process(s sam.Sam, emit func(read.Record)) error {
	cat := classify(s, p.cfg.MinMapQ)
	if cat == read.Unmapped {
		return nil
	}

	var r read.Record
	if cat == read.Included {
		built, err := buildRecord(s, p.cfg.VariantMode, p.cfg.ShiftOpts)
		if err != nil {
			return err
		}
		r = built
	} else {
		r = placeholderRecord(s, cat)
	}
	r.ID = s.QName

	if !strand.IsPaired(s) {
		r.Type = read.Unpaired
		p.finish(r, emit)
		return nil
	}

	mate, ok := p.pending[s.QName]
	if !ok {
		r.Type = sideType(s, true)
		p.pending[s.QName] = r
		return nil
	}
	delete(p.pending, s.QName)

	switch {
	case mate.Category == read.Included && r.Category == read.Included:
		if merge.Concordant(mate, r, p.cfg.MaxFragmentLen) {
			p.finish(merge.Merge(mate, r), emit)
			return nil
		}
		mate.Type = sideType(s, false)
		r.Type = sideType(s, true)
		p.finish(mate, emit)
		p.finish(r, emit)
	case mate.Category == read.Included:
		emit(merge.SimpleMerged(mate, r))
	case r.Category == read.Included:
		emit(merge.SimpleMerged(r, mate))
	default:
		mate.Type = sideType(s, false)
		r.Type = sideType(s, true)
		emit(mate)
		emit(r)
	}
	return nil
}

// Flush emits any mate left buffered at end of input as a standalone
// Record: its pair never arrived (e.g. the mate was filtered out of the
// input entirely), so it is processed exactly as an unpaired read.
func (p *Processor) Flush(emit func(read.Record)) {
	for id, r := range p.pending {
		delete(p.pending, id)
		r.Type = read.Unpaired
		p.finish(r, emit)
	}
}

// finish runs C6-C9 on an Included (or merged) Record before handing it
// to emit; placeholder mapping-filtered Records skip straight to emit
// since they carry no base-level data to trim, collapse, or filter. A
// read demoted to off_target by the primer check below is emitted
// immediately afterward, before C7/C8/C9 ever see it, so it never picks
// up a classified mutation tag (§4.11 step 6).
func (p *Processor) finish(r read.Record, emit func(read.Record)) {
	if r.Category != read.Included {
		emit(r)
		return
	}

	if p.cfg.ThreePrimeTrim > 0 {
		r = trim.ThreePrime(r, p.cfg.ThreePrimeTrim)
	}

	if len(p.cfg.Primers) > 0 {
		m := primer.Closest(p.cfg.Primers, r.Left, r.Right, p.cfg.PrimerMaxOffset, p.cfg.RequireFwPrimer, p.cfg.RequireRvPrimer)
		if m.Index == primer.NoMatch && (p.cfg.RequireFwPrimer || p.cfg.RequireRvPrimer) {
			r.Category = read.OffTarget
			emit(r)
			return
		}
		index := m.Index
		if index == primer.NoMatch {
			index = primer.Overlap(p.cfg.Primers, r.Left, r.Right)
		}
		if index != primer.NoMatch {
			r.PrimerPair = index
			if p.cfg.TrimToPrimers {
				r = trim.AmpliconPrimer(r, p.cfg.Primers[index])
			}
		}
	}

	if !p.cfg.VariantMode {
		r.Mutations = mutation.ResolveAmbiguousPlacement(r.Left, r.Seq, r.Qual, r.Mutations, p.cfg.ShiftOpts)
		r.Mutations = mutation.Collapse(r.Left, r.Seq, r.Qual, r.Mutations, p.cfg.CollapseWindow)
	}
	mutation.ClassifyAllWithRef(r.Left, r.Seq, r.Mutations)

	included, _ := qualfilter.Apply(r, p.cfg.QualOpts)
	r.Mutations = included

	emit(r)
}

// sideType picks the unmerged-pair read-type tag for a mate (§6):
// paired_r1/paired_r2 when the pair could not be merged because the
// mates are not concordant, keyed off first/second-in-pair rather than
// argument order.
func sideType(s sam.Sam, isCurrent bool) read.Type {
	firstInPair := strand.IsFirstInPair(s)
	if !isCurrent {
		firstInPair = !firstInPair
	}
	if firstInPair {
		return read.PairedR1
	}
	return read.PairedR2
}

// placeholderRecord builds a coverage-only Record for a mapping-filtered
// read that never reaches C3: its mapped span is marked in MappedDepth,
// Depth and Count stay zero, and it carries no mutations (SPEC_FULL
// supplemented feature 6).
func placeholderRecord(s sam.Sam, cat read.Category) read.Record {
	left := s.GetChromStart()
	right := left + refSpan(s) - 1
	r := read.New(left, right)
	r.Category = cat
	r.Type = read.Unpaired
	r.PrimerPair = read.NoPrimerPair
	for i := range r.MappedDepth {
		r.MappedDepth[i] = true
	}
	return r
}

// refSpan returns the number of reference bases s's CIGAR consumes,
// used to size a placeholder Record for a mapping-filtered read that
// never reaches C3.
func refSpan(s sam.Sam) int {
	n := 0
	for _, op := range s.Cigar {
		if cigarop.ConsumesRef(byte(op.Op)) {
			n += op.RunLength
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}

// Accumulator is the common interface both C10 flavors satisfy, letting
// Driver and the count subcommand drive either one identically.
type Accumulator interface {
	ExtendRight(newRight int)
	AdvanceLeft(newLeft int, w io.Writer) error
	Update(r read.Record)
}

// NewAccumulator allocates the accumulator flavor cfg selects: Variant
// when cfg.VariantMode is set, Counter otherwise (§4.10, §9
// "accumulator flavor is chosen once, for the whole run").
func NewAccumulator(cfg Config) Accumulator {
	if cfg.VariantMode {
		return accumulate.NewVariant()
	}
	return accumulate.NewCounter(cfg.ColumnLayout)
}

// Driver wires a Processor to an Accumulator for a single-pass run over
// one stream of SAM records (C11).
type Driver struct {
	cfg  Config
	proc *Processor
	acc  Accumulator

	Header string
}

// NewDriver allocates a Driver and its accumulator for cfg.
func NewDriver(cfg Config) *Driver {
	d := &Driver{cfg: cfg, proc: NewProcessor(cfg), acc: NewAccumulator(cfg)}
	if !cfg.VariantMode {
		d.Header = cfg.ColumnLayout.Header()
	}
	return d
}

// Run consumes every record from reads (coordinate-sorted, per §6) and
// writes one emitted row per evicted reference position to w, followed
// by a final flush once the channel closes.
func (d *Driver) Run(reads <-chan sam.Sam, w io.Writer) error {
	var procErr error
	update := func(r read.Record) {
		if procErr != nil {
			return
		}
		d.acc.ExtendRight(r.Right)
		d.acc.Update(r)
		if err := d.acc.AdvanceLeft(r.Left, w); err != nil {
			procErr = err
		}
	}
	for s := range reads {
		if err := d.proc.Process(s, update); err != nil {
			return err
		}
		if procErr != nil {
			return procErr
		}
	}
	d.proc.Flush(update)
	if procErr != nil {
		return procErr
	}
	if d.cfg.ReferenceLength > 0 {
		d.acc.ExtendRight(d.cfg.ReferenceLength - 1)
	}
	return d.acc.AdvanceLeft(1<<62, w)
}
