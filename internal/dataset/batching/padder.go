package batching

import (
	"fmt"
	"math"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// DefaultReserveFraction scales the configured maxima into reserved sizes.
const DefaultReserveFraction = 0.8

// Capacity dimensions reported on overflow.
const (
	DimensionNodes = "nodes"
	DimensionEdges = "edges"
)

// PadMetrics receives padding outcomes.  nil disables reporting.
type PadMetrics interface {
	BatchPadded(nodes, nodeCapacity int)
	CapacityExceeded(dimension string)
}

// PaddedGraph is a BatchedGraph extended to the reserved sizes.
//
// Padding nodes have zero rows and belong to a virtual graph with index B.
// Padding edges connect the sentinel node NumNodes to itself.  Targets is
// flattened (B*T real values followed by one zero) and LossMask marks the
// real values with 1.
type PaddedGraph struct {
	Positions    [][3]float32                  `json:"pos"`
	AtomFeatures [][molecule.NumAtomTypes]bool `json:"x"`
	Edges        []molecule.Edge               `json:"edge_index"`
	EdgeFeatures [][molecule.NumBondTypes]bool `json:"edge_attr"`
	GraphIndex   []int                         `json:"graph_index"`
	Targets      []float32                     `json:"y"`
	LossMask     []float32                     `json:"padding_mask"`

	NumGraphs    int `json:"num_graphs"`
	NumNodes     int `json:"num_nodes"`
	NumEdges     int `json:"num_edges"`
	NodeCapacity int `json:"node_capacity"`
	EdgeCapacity int `json:"edge_capacity"`
}

// Padder pads batches to fixed node and edge counts.
type Padder struct {
	maxNodes int
	maxEdges int
	fraction float64
	nodeCap  int
	edgeCap  int
	metrics  PadMetrics
}

// PadderOption configures a Padder.
type PadderOption func(*Padder)

// WithReserveFraction overrides DefaultReserveFraction.  Values outside (0, 1]
// are rejected by NewPadder.
func WithReserveFraction(f float64) PadderOption {
	return func(p *Padder) { p.fraction = f }
}

// WithPadMetrics injects a metrics sink.
func WithPadMetrics(m PadMetrics) PadderOption {
	return func(p *Padder) { p.metrics = m }
}

// CapacityOf returns the reserved size floor(fraction*max)+1.
func CapacityOf(max int, fraction float64) int {
	return int(math.Floor(fraction*float64(max))) + 1
}

// NewPadder reserves floor(f*maxBatchNodes)+1 nodes and
// floor(f*maxBatchEdges)+1 edges per batch.
func NewPadder(maxBatchNodes, maxBatchEdges int, opts ...PadderOption) (*Padder, error) {
	p := &Padder{maxNodes: maxBatchNodes, maxEdges: maxBatchEdges, fraction: DefaultReserveFraction}
	for _, o := range opts {
		o(p)
	}
	if maxBatchNodes <= 0 || maxBatchEdges < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "max_batch_nodes must be positive and max_batch_edges non-negative").
			WithDetail(fmt.Sprintf("max_batch_nodes=%d max_batch_edges=%d", maxBatchNodes, maxBatchEdges))
	}
	if p.fraction <= 0 || p.fraction > 1 || math.IsNaN(p.fraction) {
		return nil, errors.New(errors.ErrCodeValidation, "reserve fraction must be in (0, 1]").
			WithDetail(fmt.Sprintf("fraction=%g", p.fraction))
	}
	p.nodeCap = CapacityOf(maxBatchNodes, p.fraction)
	p.edgeCap = CapacityOf(maxBatchEdges, p.fraction)
	return p, nil
}

// NodeCapacity returns the reserved node count.
func (p *Padder) NodeCapacity() int { return p.nodeCap }

// EdgeCapacity returns the reserved edge count.
func (p *Padder) EdgeCapacity() int { return p.edgeCap }

// Pad extends b to the reserved sizes.  A batch larger than a reserved size is
// rejected with ErrCodeCapacityExceeded; it is never truncated.  The node
// capacity must leave at least one padding node for the sentinel, so a batch
// that fills it exactly is rejected as well.
func (p *Padder) Pad(b *BatchedGraph) (*PaddedGraph, error) {
	if b == nil || b.NumGraphs() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBatch, "pad requires a non-empty batch")
	}
	n, e, g := b.NumNodes(), b.NumEdges(), b.NumGraphs()
	if n >= p.nodeCap {
		p.exceeded(DimensionNodes)
		return nil, errors.New(errors.ErrCodeCapacityExceeded, "batch leaves no padding node in reserved node capacity").
			WithDetail(fmt.Sprintf("nodes=%d capacity=%d max_batch_nodes=%d", n, p.nodeCap, p.maxNodes))
	}
	if e > p.edgeCap {
		p.exceeded(DimensionEdges)
		return nil, errors.New(errors.ErrCodeCapacityExceeded, "batch exceeds reserved edge capacity").
			WithDetail(fmt.Sprintf("edges=%d capacity=%d max_batch_edges=%d", e, p.edgeCap, p.maxEdges))
	}

	out := &PaddedGraph{
		Positions:    make([][3]float32, p.nodeCap),
		AtomFeatures: make([][molecule.NumAtomTypes]bool, p.nodeCap),
		Edges:        make([]molecule.Edge, p.edgeCap),
		EdgeFeatures: make([][molecule.NumBondTypes]bool, p.edgeCap),
		GraphIndex:   make([]int, p.nodeCap),
		NumGraphs:    g,
		NumNodes:     n,
		NumEdges:     e,
		NodeCapacity: p.nodeCap,
		EdgeCapacity: p.edgeCap,
	}
	copy(out.Positions, b.Positions)
	copy(out.AtomFeatures, b.AtomFeatures)
	copy(out.EdgeFeatures, b.EdgeFeatures)
	copy(out.Edges, b.Edges)
	sentinel := molecule.Edge{Src: n, Dst: n}
	for k := e; k < p.edgeCap; k++ {
		out.Edges[k] = sentinel
	}
	copy(out.GraphIndex, b.GraphIndex)
	for k := n; k < p.nodeCap; k++ {
		out.GraphIndex[k] = g
	}

	width := b.TargetWidth()
	out.Targets = make([]float32, 0, g*width+1)
	out.LossMask = make([]float32, g*width+1)
	for _, row := range b.Targets {
		out.Targets = append(out.Targets, row...)
	}
	out.Targets = append(out.Targets, 0)
	for k := 0; k < g*width; k++ {
		out.LossMask[k] = 1
	}

	if p.metrics != nil {
		p.metrics.BatchPadded(n, p.nodeCap)
	}
	return out, nil
}

func (p *Padder) exceeded(dimension string) {
	if p.metrics != nil {
		p.metrics.CapacityExceeded(dimension)
	}
}

//Personal.AI order the ending
