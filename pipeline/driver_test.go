package pipeline

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/dasnellings/shapecall/primer"
	"github.com/dasnellings/shapecall/read"
)

// chromStartSam builds a perfect-match, all-M aligned read at the given
// 0-based reference position: Pos is the 1-based SAM position buildRecord
// and placeholderRecord derive GetChromStart() from.
func chromStartSam(name, rname string, pos int, seq string, flag uint16) sam.Sam {
	return chromStartSamMapQ(name, rname, pos, seq, flag, 60)
}

// chromStartSamMapQ is chromStartSam with an explicit mapping quality, used
// to drive a read into low_map_quality without relying on its contig name.
func chromStartSamMapQ(name, rname string, pos int, seq string, flag uint16, mapQ uint8) sam.Sam {
	return sam.Sam{
		QName: name,
		RName: rname,
		Pos:   uint32(pos + 1),
		MapQ:  mapQ,
		Flag:  flag,
		Cigar: []cigar.Cigar{{Op: 'M', RunLength: len(seq)}},
		Seq:   dna.StringToBases(seq),
		Qual:  strings.Repeat("I", len(seq)),
		Extra: "MD:Z:" + strconv.Itoa(len(seq)),
	}
}

func TestProcessorUnpairedIncludedRead(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20})
	s := chromStartSam("r1", "chr1", 10, "AAAAA", 0)

	var emitted []read.Record
	if err := p.Process(s, func(r read.Record) { emitted = append(emitted, r) }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted records, want 1", len(emitted))
	}
	if emitted[0].Type != read.Unpaired {
		t.Errorf("got type %v, want Unpaired", emitted[0].Type)
	}
	if emitted[0].Category != read.Included {
		t.Errorf("got category %v, want Included", emitted[0].Category)
	}
}

func TestProcessorConcordantPairMerges(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20, MaxFragmentLen: 1000})

	// r2's span nests entirely inside r1's, so neither mate's left/right
	// pair is strictly past the other's: not a dovetail.
	r1 := chromStartSam("pair1", "chr1", 10, "AAAAAAAAAA", 0x1|0x40)
	r2 := chromStartSam("pair1", "chr1", 12, "AAAAA", 0x1|0x80|0x10)

	var emitted []read.Record
	emit := func(r read.Record) { emitted = append(emitted, r) }

	if err := p.Process(r1, emit); err != nil {
		t.Fatalf("Process r1: %v", err)
	}
	if len(emitted) != 0 {
		t.Fatalf("got %d emitted after first mate, want 0 (buffered)", len(emitted))
	}

	if err := p.Process(r2, emit); err != nil {
		t.Fatalf("Process r2: %v", err)
	}
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted after second mate, want 1 merged record", len(emitted))
	}
	if emitted[0].Type != read.Merged {
		t.Errorf("got type %v, want Merged", emitted[0].Type)
	}
	if emitted[0].Left != 10 || emitted[0].Right != 19 {
		t.Errorf("got span [%d,%d], want [10,19]", emitted[0].Left, emitted[0].Right)
	}
}

func TestProcessorDiscordantPairSplits(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20, MaxFragmentLen: 5})

	r1 := chromStartSam("pair2", "chr1", 10, "AAAAA", 0x1|0x40)
	r2 := chromStartSam("pair2", "chr1", 1000, "AAAAA", 0x1|0x80|0x10)

	var emitted []read.Record
	emit := func(r read.Record) { emitted = append(emitted, r) }

	if err := p.Process(r1, emit); err != nil {
		t.Fatalf("Process r1: %v", err)
	}
	if err := p.Process(r2, emit); err != nil {
		t.Fatalf("Process r2: %v", err)
	}
	if len(emitted) != 2 {
		t.Fatalf("got %d emitted, want 2 (split pair)", len(emitted))
	}
	types := map[read.Type]bool{emitted[0].Type: true, emitted[1].Type: true}
	if !types[read.PairedR1] || !types[read.PairedR2] {
		t.Errorf("got types %v and %v, want one PairedR1 and one PairedR2", emitted[0].Type, emitted[1].Type)
	}
}

func TestProcessorMixedPairSimpleMerges(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20, MaxFragmentLen: 1000})

	r1 := chromStartSam("pair3", "chr1", 10, "AAAAA", 0x1|0x40)
	r2 := chromStartSamMapQ("pair3", "chr1", 10, "AAAAA", 0x1|0x80|0x10, 5)

	var emitted []read.Record
	emit := func(r read.Record) { emitted = append(emitted, r) }

	if err := p.Process(r1, emit); err != nil {
		t.Fatalf("Process r1: %v", err)
	}
	if err := p.Process(r2, emit); err != nil {
		t.Fatalf("Process r2: %v", err)
	}
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted, want 1 simple-merged record", len(emitted))
	}
	if emitted[0].Type != read.Paired {
		t.Errorf("got type %v, want Paired (simple merged)", emitted[0].Type)
	}
	if emitted[0].Category != read.Included {
		t.Errorf("got category %v, want Included", emitted[0].Category)
	}
}

func TestProcessorBothExcludedPairEmitsBoth(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20, MaxFragmentLen: 1000})

	r1 := chromStartSamMapQ("pair4", "chr1", 10, "AAAAA", 0x1|0x40, 5)
	r2 := chromStartSamMapQ("pair4", "chr1", 10, "AAAAA", 0x1|0x80|0x10, 5)

	var emitted []read.Record
	emit := func(r read.Record) { emitted = append(emitted, r) }

	if err := p.Process(r1, emit); err != nil {
		t.Fatalf("Process r1: %v", err)
	}
	if err := p.Process(r2, emit); err != nil {
		t.Fatalf("Process r2: %v", err)
	}
	if len(emitted) != 2 {
		t.Fatalf("got %d emitted, want 2", len(emitted))
	}
	for _, r := range emitted {
		if r.Category == read.Included {
			t.Errorf("got Included category, want a mapping-filtered category")
		}
	}
}

func TestProcessorFlushEmitsUnmatchedMate(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20})
	r1 := chromStartSam("orphan", "chr1", 10, "AAAAA", 0x1|0x40)

	var emitted []read.Record
	emit := func(r read.Record) { emitted = append(emitted, r) }

	if err := p.Process(r1, emit); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(emitted) != 0 {
		t.Fatalf("got %d emitted before flush, want 0", len(emitted))
	}

	p.Flush(emit)
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted after flush, want 1", len(emitted))
	}
	if emitted[0].Type != read.Unpaired {
		t.Errorf("got type %v, want Unpaired", emitted[0].Type)
	}
}

func TestDriverRunWritesAccumulatorOutput(t *testing.T) {
	cfg := Config{MinMapQ: 20}
	d := NewDriver(cfg)

	ch := make(chan sam.Sam, 1)
	ch <- chromStartSam("r1", "chr1", 0, "AAAAA", 0)
	close(ch)

	var buf bytes.Buffer
	if err := d.Run(ch, &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("got no output written, want rendered rows for the read's span")
	}
	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("got %d output lines, want 5 (one per reference position)", n)
	}
}

func TestProcessorDemotesUnmatchedRequiredPrimerToOffTarget(t *testing.T) {
	p := NewProcessor(Config{
		MinMapQ:         20,
		Primers:         []primer.Pair{{FwLeft: 100, FwRight: 104, RvLeft: 200, RvRight: 204}},
		PrimerMaxOffset: 2,
		RequireFwPrimer: true,
	})
	s := chromStartSam("r1", "chr1", 10, "AAAAA", 0)

	var emitted []read.Record
	if err := p.Process(s, func(r read.Record) { emitted = append(emitted, r) }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted, want 1", len(emitted))
	}
	if emitted[0].Category != read.OffTarget {
		t.Errorf("got category %v, want OffTarget", emitted[0].Category)
	}
}

func TestProcessorClassifiesSubstitution(t *testing.T) {
	p := NewProcessor(Config{MinMapQ: 20})
	s := mismatchRead()

	var emitted []read.Record
	if err := p.Process(s, func(r read.Record) { emitted = append(emitted, r) }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(emitted) != 1 || len(emitted[0].Mutations) != 1 {
		t.Fatalf("got %+v, want 1 emitted record with 1 mutation", emitted)
	}
	if got := emitted[0].Mutations[0].Tag; got != "AC" {
		t.Errorf("got tag %q, want AC", got)
	}
}

// TestProcessorOffTargetReadMutationsAreNotClassified guards against a
// read demoted to off_target by the primer check picking up a
// classified tag: finish must emit it before C7/C8/C9 ever run, the
// same short-circuit LowMapQuality/Unmapped take via placeholderRecord.
func TestProcessorOffTargetReadMutationsAreNotClassified(t *testing.T) {
	p := NewProcessor(Config{
		MinMapQ:         20,
		Primers:         []primer.Pair{{FwLeft: 100, FwRight: 104, RvLeft: 200, RvRight: 204}},
		PrimerMaxOffset: 2,
		RequireFwPrimer: true,
	})
	s := mismatchRead()

	var emitted []read.Record
	if err := p.Process(s, func(r read.Record) { emitted = append(emitted, r) }); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(emitted) != 1 {
		t.Fatalf("got %d emitted, want 1", len(emitted))
	}
	r := emitted[0]
	if r.Category != read.OffTarget {
		t.Fatalf("got category %v, want OffTarget", r.Category)
	}
	if len(r.Mutations) != 1 {
		t.Fatalf("got %d mutations, want 1 (untouched, never classified or filtered)", len(r.Mutations))
	}
	if r.Mutations[0].Tag != "" {
		t.Errorf("got tag %q, want unset: an off-target read never reaches C8 classify", r.Mutations[0].Tag)
	}
}
