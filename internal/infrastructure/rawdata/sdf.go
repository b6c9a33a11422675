// Package rawdata reads the three raw inputs of a corpus build: the
// structure file (SDF V2000), the label table (CSV) and the list of
// uncharacterised records.
package rawdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// RecordTerminator ends every record of an SD file.
const RecordTerminator = "$$$$"

// SDFReader streams records from an SD file in file order.
type SDFReader struct {
	r      *bufio.Reader
	closer io.Closer
	block  int
}

// NewSDFReader reads records from r.  If r is an io.Closer, Close closes it.
func NewSDFReader(r io.Reader) *SDFReader {
	s := &SDFReader{r: bufio.NewReaderSize(r, 64<<10)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Close releases the underlying reader.
func (s *SDFReader) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Next returns the next record.  A block that cannot be decoded yields an
// ErrCodeRecordUnparsable error and the reader moves on to the next block.
// io.EOF follows the last record.
func (s *SDFReader) Next() (*molecule.RawRecord, error) {
	lines, err := s.readBlock()
	if err != nil {
		return nil, err
	}
	ordinal := s.block
	s.block++
	rec, perr := parseMolBlock(lines)
	if perr != nil {
		return nil, errors.Wrap(perr, errors.ErrCodeRecordUnparsable, "malformed structure record").
			WithDetail(fmt.Sprintf("block=%d", ordinal))
	}
	return rec, nil
}

// readBlock collects the lines up to the next terminator.  A trailing block
// without a terminator counts as a record unless it is blank.
func (s *SDFReader) readBlock() ([]string, error) {
	var lines []string
	for {
		line, err := s.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "read structure file")
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == RecordTerminator {
			return lines, nil
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if err == io.EOF {
			if blank(lines) {
				return nil, io.EOF
			}
			return lines, nil
		}
	}
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// parseMolBlock decodes a V2000 molfile: three header lines, the counts
// line, the atom block and the bond block.  Properties after the bond block
// are ignored.
func parseMolBlock(lines []string) (*molecule.RawRecord, error) {
	if len(lines) < 4 {
		return nil, fmt.Errorf("block has %d lines, want at least 4", len(lines))
	}
	counts := lines[3]
	if !strings.Contains(counts, "V2000") {
		return nil, fmt.Errorf("counts line is not V2000: %q", counts)
	}
	nAtoms, err := fixedInt(counts, 0, 3)
	if err != nil {
		return nil, fmt.Errorf("atom count: %w", err)
	}
	nBonds, err := fixedInt(counts, 3, 6)
	if err != nil {
		return nil, fmt.Errorf("bond count: %w", err)
	}
	if nAtoms < 0 || nBonds < 0 || len(lines) < 4+nAtoms+nBonds {
		return nil, fmt.Errorf("block too short for %d atoms and %d bonds", nAtoms, nBonds)
	}

	rec := &molecule.RawRecord{
		Name:  strings.TrimSpace(lines[0]),
		Atoms: make([]molecule.RawAtom, nAtoms),
		Bonds: make([]molecule.RawBond, nBonds),
	}
	for i := 0; i < nAtoms; i++ {
		a, err := parseAtomLine(lines[4+i])
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i+1, err)
		}
		rec.Atoms[i] = a
	}
	for i := 0; i < nBonds; i++ {
		b, err := parseBondLine(lines[4+nAtoms+i])
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i+1, err)
		}
		rec.Bonds[i] = b
	}
	return rec, nil
}

// parseAtomLine reads xxxxx.xxxxyyyyy.yyyyzzzzz.zzzz aaa.  Lines that do not
// follow the fixed columns are split on whitespace.
func parseAtomLine(line string) (molecule.RawAtom, error) {
	var a molecule.RawAtom
	var coords [3]string
	var symbol string
	if len(line) >= 34 {
		coords = [3]string{line[0:10], line[10:20], line[20:30]}
		symbol = strings.TrimSpace(line[31:34])
	} else {
		f := strings.Fields(line)
		if len(f) < 4 {
			return a, fmt.Errorf("short atom line %q", line)
		}
		coords = [3]string{f[0], f[1], f[2]}
		symbol = f[3]
	}
	for k, c := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 32)
		if err != nil {
			return a, fmt.Errorf("coordinate %d: %w", k, err)
		}
		a.Position[k] = float32(v)
	}
	z, ok := molecule.AtomicNumberForSymbol(symbol)
	if !ok {
		return a, fmt.Errorf("unknown element symbol %q", symbol)
	}
	a.Symbol = symbol
	a.AtomicNumber = z
	return a, nil
}

// parseBondLine reads 111222ttt and converts the 1-based endpoints.
func parseBondLine(line string) (molecule.RawBond, error) {
	var fields [3]int
	if len(line) >= 9 {
		for k := range fields {
			v, err := fixedInt(line, 3*k, 3*k+3)
			if err != nil {
				return molecule.RawBond{}, err
			}
			fields[k] = v
		}
	} else {
		f := strings.Fields(line)
		if len(f) < 3 {
			return molecule.RawBond{}, fmt.Errorf("short bond line %q", line)
		}
		for k := range fields {
			v, err := strconv.Atoi(f[k])
			if err != nil {
				return molecule.RawBond{}, err
			}
			fields[k] = v
		}
	}
	return molecule.RawBond{Begin: fields[0] - 1, End: fields[1] - 1, Order: fields[2]}, nil
}

func fixedInt(line string, from, to int) (int, error) {
	if len(line) < to {
		return 0, fmt.Errorf("line too short for columns %d-%d", from+1, to)
	}
	return strconv.Atoi(strings.TrimSpace(line[from:to]))
}

//Personal.AI order the ending
