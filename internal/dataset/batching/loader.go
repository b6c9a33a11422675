package batching

import (
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
)

// LoaderMetrics counts produced batches by kind ("collated" or "padded").
type LoaderMetrics interface {
	BatchProduced(kind string)
}

// Batch is one loader step.  Padded is nil when the loader does not pad.
type Batch struct {
	Indices  []int
	Collated *BatchedGraph
	Padded   *PaddedGraph
}

// Loader reads index batches from a Sampler, fetches the graphs from a
// Source, collates them and optionally pads the result.
type Loader struct {
	src     Source
	sampler *Sampler
	padder  *Padder
	metrics LoaderMetrics
	logger  logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPadder pads every batch with p.
func WithPadder(p *Padder) LoaderOption {
	return func(l *Loader) { l.padder = p }
}

// WithLoaderMetrics injects a metrics sink.
func WithLoaderMetrics(m LoaderMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithLoaderLogger injects a logger.
func WithLoaderLogger(lg logging.Logger) LoaderOption {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// NewLoader builds a Loader over src driven by sampler.
func NewLoader(src Source, sampler *Sampler, opts ...LoaderOption) *Loader {
	l := &Loader{src: src, sampler: sampler, logger: logging.NewNopLogger()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Reset starts epoch over.
func (l *Loader) Reset(epoch int) { l.sampler.Reset(epoch) }

// NumBatches returns the number of batches per epoch.
func (l *Loader) NumBatches() int { return l.sampler.NumBatches() }

// Next returns the next batch, or io.EOF at the end of the epoch.
func (l *Loader) Next() (*Batch, error) {
	idx, err := l.sampler.Next()
	if err != nil {
		return nil, err
	}
	graphs := make([]molecule.MoleculeGraph, len(idx))
	for k, i := range idx {
		g, err := l.src.Get(i)
		if err != nil {
			return nil, err
		}
		graphs[k] = *g
	}
	collated, err := Collate(graphs)
	if err != nil {
		return nil, err
	}
	l.produced("collated")

	out := &Batch{Indices: idx, Collated: collated}
	if l.padder == nil {
		return out, nil
	}
	padded, err := l.padder.Pad(collated)
	if err != nil {
		l.logger.Error("batch exceeds padding capacity",
			logging.Int("epoch", l.sampler.Epoch()),
			logging.Int("nodes", collated.NumNodes()),
			logging.Int("edges", collated.NumEdges()),
			logging.Err(err))
		return nil, err
	}
	l.produced("padded")
	out.Padded = padded
	return out, nil
}

func (l *Loader) produced(kind string) {
	if l.metrics != nil {
		l.metrics.BatchProduced(kind)
	}
}

//Personal.AI order the ending
