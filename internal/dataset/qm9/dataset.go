package qm9

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Dataset is the query surface over one subset.  When a target is selected,
// Get projects every graph onto that single column; the stored graphs keep
// all 19 columns.
type Dataset struct {
	graphs molecule.Corpus
	split  Split
	target molecule.Target
	scalar bool
}

// NewDataset wraps graphs.  target is a name from molecule.TargetNames, or
// empty for the full 19-column target.
func NewDataset(graphs molecule.Corpus, split Split, target string) (*Dataset, error) {
	d := &Dataset{graphs: graphs, split: split}
	if target != "" {
		t, err := molecule.ParseTarget(target)
		if err != nil {
			return nil, err
		}
		d.target, d.scalar = t, true
	}
	return d, nil
}

// Len returns the number of graphs.
func (d *Dataset) Len() int { return d.graphs.Len() }

// Split returns the subset this dataset was built for.
func (d *Dataset) Split() Split { return d.split }

// TargetName returns the selected target, or "" when none is selected.
func (d *Dataset) TargetName() string {
	if !d.scalar {
		return ""
	}
	return d.target.String()
}

// Target returns the selected target.
func (d *Dataset) Target() (molecule.Target, bool) { return d.target, d.scalar }

// Get returns a copy of graph i, projected when a target is selected.
func (d *Dataset) Get(i int) (*molecule.MoleculeGraph, error) {
	g, err := d.graphs.At(i)
	if err != nil {
		return nil, err
	}
	if d.scalar {
		return g.ProjectTarget(d.target.Index())
	}
	return g.Clone(), nil
}

// Graphs returns copies of all graphs as Get would.
func (d *Dataset) Graphs() (molecule.Corpus, error) {
	out := make(molecule.Corpus, d.Len())
	for i := range out {
		g, err := d.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = *g
	}
	return out, nil
}

// Sizes returns the atom and directed-edge counts of graph i.
func (d *Dataset) Sizes(i int) (nodes, edges int, err error) {
	g, err := d.graphs.At(i)
	if err != nil {
		return 0, 0, err
	}
	return g.NumAtoms(), g.NumEdges(), nil
}

// TargetStats returns the mean and the mean absolute deviation of the
// selected target, the usual normalisation constants for training.
func (d *Dataset) TargetStats() (mean, mad float64, err error) {
	if !d.scalar {
		return 0, 0, errors.New(errors.ErrCodeUnknownTarget, "target statistics need a selected target")
	}
	if d.Len() == 0 {
		return 0, 0, errors.New(errors.ErrCodeValidation, "dataset is empty")
	}
	col := d.target.Index()
	ys := make([]float64, d.Len())
	for i := range d.graphs {
		t := d.graphs[i].Target
		if col >= len(t) {
			return 0, 0, errors.New(errors.ErrCodeLabelTableInvalid, "graph target narrower than the selected column").
				WithDetail(fmt.Sprintf("index=%d width=%d column=%d", i, len(t), col))
		}
		ys[i] = float64(t[col])
	}
	mean = stat.Mean(ys, nil)
	dev := make([]float64, len(ys))
	for i, y := range ys {
		dev[i] = math.Abs(y - mean)
	}
	return mean, stat.Mean(dev, nil), nil
}

// TopNNodes returns the n largest atom counts in descending order.
func (d *Dataset) TopNNodes(n int) []int {
	return d.topN(n, func(g *molecule.MoleculeGraph) int { return g.NumAtoms() })
}

// TopNEdges returns the n largest directed-edge counts in descending order.
func (d *Dataset) TopNEdges(n int) []int {
	return d.topN(n, func(g *molecule.MoleculeGraph) int { return g.NumEdges() })
}

func (d *Dataset) topN(n int, size func(*molecule.MoleculeGraph) int) []int {
	if n <= 0 {
		return []int{}
	}
	counts := make([]int, d.Len())
	for i := range d.graphs {
		counts[i] = size(&d.graphs[i])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n:n]
}

//Personal.AI order the ending
