package qm9

import (
	"fmt"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Unit conversion factors applied during normalisation.
const (
	HartreeToEV    float32 = 27.211386246
	KcalPerMolToEV float32 = 0.04336414
)

// RawTargetColumns is the number of property columns in the label table
// (identifier column excluded).  The table stores the rotational constants
// A, B, C first.
const RawTargetColumns = molecule.NumTargets

// rotationalColumns is the number of leading raw columns moved to the end.
const rotationalColumns = 3

var conversionFactors = [molecule.NumTargets]float32{
	1, 1, HartreeToEV, HartreeToEV, HartreeToEV, 1,
	HartreeToEV, HartreeToEV, HartreeToEV, HartreeToEV, HartreeToEV, 1,
	KcalPerMolToEV, KcalPerMolToEV, KcalPerMolToEV, KcalPerMolToEV,
	1, 1, 1,
}

// NormalizeRow reorders one raw label row into canonical target order and
// converts it to eV / GHz units.  The input is not modified.
func NormalizeRow(raw []float32) ([]float32, error) {
	if len(raw) != RawTargetColumns {
		return nil, errors.New(errors.ErrCodeLabelTableInvalid, "label row has wrong width").
			WithDetail(fmt.Sprintf("columns=%d want=%d", len(raw), RawTargetColumns))
	}
	out := make([]float32, 0, RawTargetColumns)
	out = append(out, raw[rotationalColumns:]...)
	out = append(out, raw[:rotationalColumns]...)
	for i := range out {
		out[i] *= conversionFactors[i]
	}
	return out, nil
}

// NormalizeTargets applies NormalizeRow to every row of the raw label table.
// Row i of the result belongs to structure record i.
func NormalizeTargets(raw [][]float32) ([][]float32, error) {
	out := make([][]float32, len(raw))
	for i, row := range raw {
		n, err := NormalizeRow(row)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLabelTableInvalid, fmt.Sprintf("label row %d", i))
		}
		out[i] = n
	}
	return out, nil
}

//Personal.AI order the ending
