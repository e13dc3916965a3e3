// Package refinfo adapts the teacher's FASTA .fai index reader to this
// repo's one need for it: deriving the reference length (§6) from a
// reference's .fai index when the run targets a single named contig. The
// CLI has no flag for the length itself; -fai is its only source.
package refinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Index stores the byte offset and length for each FASTA sequence,
// allowing efficient random access and length lookup.
type Index struct {
	chroms  []chrOffset
	nameMap map[string]int
}

// chrOffset is one line of a .fai file.
type chrOffset struct {
	name         string
	len          int
	offset       int
	basesPerLine int
	bytesPerLine int
}

func (c chrOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.chroms {
		answer.WriteString(idx.chroms[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// Length returns the length, in bases, of the named reference sequence,
// and whether that name was present in the index.
func (idx Index) Length(name string) (int, bool) {
	i, ok := idx.nameMap[name]
	if !ok {
		return 0, false
	}
	return idx.chroms[i].len, true
}

// ReadIndex reads a .fai index file into an Index.
func ReadIndex(filename string) (Index, error) {
	file := fileio.EasyOpen(filename)
	var answer Index
	for line, done := fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col := strings.Split(line, "\t")
		if len(col) != 5 {
			exception.PanicOnErr(file.Close())
			return Index{}, fmt.Errorf("refinfo: malformed index line in %s: %q", filename, line)
		}
		var curr chrOffset
		var err error
		curr.name = col[0]
		if curr.len, err = strconv.Atoi(col[1]); err != nil {
			exception.PanicOnErr(file.Close())
			return Index{}, fmt.Errorf("refinfo: malformed length in %s: %w", filename, err)
		}
		if curr.offset, err = strconv.Atoi(col[2]); err != nil {
			exception.PanicOnErr(file.Close())
			return Index{}, fmt.Errorf("refinfo: malformed offset in %s: %w", filename, err)
		}
		if curr.basesPerLine, err = strconv.Atoi(col[3]); err != nil {
			exception.PanicOnErr(file.Close())
			return Index{}, fmt.Errorf("refinfo: malformed bases-per-line in %s: %w", filename, err)
		}
		if curr.bytesPerLine, err = strconv.Atoi(col[4]); err != nil {
			exception.PanicOnErr(file.Close())
			return Index{}, fmt.Errorf("refinfo: malformed bytes-per-line in %s: %w", filename, err)
		}
		answer.chroms = append(answer.chroms, curr)
	}
	exception.PanicOnErr(file.Close())

	answer.nameMap = make(map[string]int, len(answer.chroms))
	for i := range answer.chroms {
		answer.nameMap[answer.chroms[i].name] = i
	}
	return answer, nil
}
