package rawdata

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// HeaderLines is the number of leading lines of the uncharacterised list
// that carry no record.
const HeaderLines = 9

// FooterLines is the number of trailing elements, after splitting on
// newlines, that carry no record: the closing rule and the empty string
// after the final newline.
const FooterLines = 2

// ReadLabels reads the label table.  The first row is a header, the first
// column an identifier; the remaining molecule.NumTargets columns are the
// raw values in file column order.
func ReadLabels(r io.Reader) ([][]float32, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.ReuseRecord = true
	cr.FieldsPerRecord = molecule.NumTargets + 1

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeLabelTableInvalid, "label table is empty")
		}
		return nil, errors.Wrap(err, errors.ErrCodeLabelTableInvalid, "read label header")
	}

	var rows [][]float32
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLabelTableInvalid, fmt.Sprintf("read label row %d", len(rows)))
		}
		row := make([]float32, molecule.NumTargets)
		for c, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 32)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeLabelTableInvalid, "non-numeric label").
					WithDetail(fmt.Sprintf("row=%d column=%d value=%q", len(rows), c+1, cell))
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.New(errors.ErrCodeLabelTableInvalid, "non-finite label").
					WithDetail(fmt.Sprintf("row=%d column=%d value=%q", len(rows), c+1, cell))
			}
			row[c] = float32(v)
		}
		rows = append(rows, row)
	}
}

// ReadExclusions reads the uncharacterised list and returns 0-based record
// ordinals in file order.  Record lines start with the 1-based ordinal.
func ReadExclusions(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExclusionListInvalid, "read exclusion list")
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < HeaderLines+FooterLines {
		return nil, errors.New(errors.ErrCodeExclusionListInvalid, "exclusion list too short").
			WithDetail(fmt.Sprintf("lines=%d", len(lines)))
	}
	body := lines[HeaderLines : len(lines)-FooterLines]
	out := make([]int, 0, len(body))
	for i, line := range body {
		f := strings.Fields(line)
		if len(f) == 0 {
			return nil, errors.New(errors.ErrCodeExclusionListInvalid, "blank exclusion line").
				WithDetail(fmt.Sprintf("line=%d", HeaderLines+i+1))
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 1 {
			return nil, errors.New(errors.ErrCodeExclusionListInvalid, "invalid record ordinal").
				WithDetail(fmt.Sprintf("line=%d value=%q", HeaderLines+i+1, f[0]))
		}
		out = append(out, n-1)
	}
	return out, nil
}

//Personal.AI order the ending
