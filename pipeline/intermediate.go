package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dasnellings/shapecall/mutation"
	"github.com/dasnellings/shapecall/read"
)

// SerializeRecord encodes r as one line of the per-read intermediate
// text format (§6): read-type tag, identifier, left, right,
// mapping-category tag, primer-pair index (or a negative sentinel),
// the three bit vectors as 0/1 strings, then the mutations as
// space-separated quintuples.
func SerializeRecord(r read.Record) string {
	fields := []string{
		r.Type.String(),
		r.ID,
		strconv.Itoa(r.Left),
		strconv.Itoa(r.Right),
		r.Category.String(),
		strconv.Itoa(r.PrimerPair),
		bitString(r.MappedDepth),
		bitString(r.Depth),
		bitString(r.Count),
		serializeMutations(r.Mutations),
	}
	return strings.Join(fields, "\t")
}

func bitString(bits []bool) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func serializeMutations(muts []mutation.Mutation) string {
	parts := make([]string, len(muts))
	for i, m := range muts {
		parts[i] = fmt.Sprintf("%d %d %q %q %q", m.Left, m.Right, m.Seq, m.Qual, m.SerializedTag())
	}
	return strings.Join(parts, " ")
}

// ParseRecord decodes one line produced by SerializeRecord. It exists
// so the parse/count split (§7) can run as two separate processes
// communicating through an intermediate file.
func ParseRecord(line string) (read.Record, error) {
	fields := strings.SplitN(line, "\t", 10)
	if len(fields) != 10 {
		return read.Record{}, fmt.Errorf("pipeline: malformed intermediate line: want 10 fields, got %d", len(fields))
	}
	left, err := strconv.Atoi(fields[2])
	if err != nil {
		return read.Record{}, fmt.Errorf("pipeline: malformed left: %w", err)
	}
	right, err := strconv.Atoi(fields[3])
	if err != nil {
		return read.Record{}, fmt.Errorf("pipeline: malformed right: %w", err)
	}
	primerPair, err := strconv.Atoi(fields[5])
	if err != nil {
		return read.Record{}, fmt.Errorf("pipeline: malformed primer pair index: %w", err)
	}

	r := read.New(left, right)
	r.Type = parseType(fields[0])
	r.ID = fields[1]
	r.Category = parseCategory(fields[4])
	r.PrimerPair = primerPair
	if err := parseBits(fields[6], r.MappedDepth); err != nil {
		return read.Record{}, err
	}
	if err := parseBits(fields[7], r.Depth); err != nil {
		return read.Record{}, err
	}
	if err := parseBits(fields[8], r.Count); err != nil {
		return read.Record{}, err
	}
	muts, err := parseMutations(fields[9])
	if err != nil {
		return read.Record{}, err
	}
	r.Mutations = muts
	return r, nil
}

func parseBits(s string, dst []bool) error {
	if len(s) != len(dst) {
		return fmt.Errorf("pipeline: bit vector length %d does not match span %d", len(s), len(dst))
	}
	for i := 0; i < len(s); i++ {
		dst[i] = s[i] == '1'
	}
	return nil
}

// parseMutations splits s into whitespace-delimited fields (none of
// Left, Right, Seq, Qual, or Tag ever contain a raw space: Seq/Qual are
// base/quality strings and Tag is a fixed vocabulary entry) and decodes
// them five at a time.
func parseMutations(s string) ([]mutation.Mutation, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	if len(fields)%5 != 0 {
		return nil, fmt.Errorf("pipeline: malformed mutation field %q: field count %d not a multiple of 5", s, len(fields))
	}
	muts := make([]mutation.Mutation, 0, len(fields)/5)
	for i := 0; i < len(fields); i += 5 {
		left, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("pipeline: malformed mutation left %q: %w", fields[i], err)
		}
		right, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("pipeline: malformed mutation right %q: %w", fields[i+1], err)
		}
		seq, err := strconv.Unquote(fields[i+2])
		if err != nil {
			return nil, fmt.Errorf("pipeline: malformed mutation seq %q: %w", fields[i+2], err)
		}
		qual, err := strconv.Unquote(fields[i+3])
		if err != nil {
			return nil, fmt.Errorf("pipeline: malformed mutation qual %q: %w", fields[i+3], err)
		}
		tag, err := strconv.Unquote(fields[i+4])
		if err != nil {
			return nil, fmt.Errorf("pipeline: malformed mutation tag %q: %w", fields[i+4], err)
		}
		ambig := strings.HasSuffix(tag, "_ambig")
		if ambig {
			tag = strings.TrimSuffix(tag, "_ambig")
		}
		muts = append(muts, mutation.Mutation{Left: left, Right: right, Seq: seq, Qual: qual, Tag: tag, Ambig: ambig})
	}
	return muts, nil
}

func parseType(s string) read.Type {
	switch s {
	case "merged":
		return read.Merged
	case "paired_r1":
		return read.PairedR1
	case "paired_r2":
		return read.PairedR2
	case "unpaired_r1":
		return read.UnpairedR1
	case "unpaired_r2":
		return read.UnpairedR2
	case "paired":
		return read.Paired
	default:
		return read.Unpaired
	}
}

func parseCategory(s string) read.Category {
	switch s {
	case "low_map_quality":
		return read.LowMapQuality
	case "off_target":
		return read.OffTarget
	case "unmapped":
		return read.Unmapped
	default:
		return read.Included
	}
}
