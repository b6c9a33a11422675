package batching

import (
	"fmt"
	"io"

	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Source is the random-access view a Loader reads from.  *qm9.Dataset
// implements it.
type Source interface {
	Len() int
	Get(i int) (*molecule.MoleculeGraph, error)
	TopNNodes(n int) []int
	TopNEdges(n int) []int
}

var _ Source = (*qm9.Dataset)(nil)

// CapacityFor returns the largest node and edge totals any batch of
// batchSize graphs from src can reach: the sums of the batchSize largest
// counts.  The results are suitable maxima for NewPadder.
func CapacityFor(src Source, batchSize int) (maxNodes, maxEdges int) {
	for _, v := range src.TopNNodes(batchSize) {
		maxNodes += v
	}
	for _, v := range src.TopNEdges(batchSize) {
		maxEdges += v
	}
	return maxNodes, maxEdges
}

// ─────────────────────────────────────────────────────────────────────────────
// Sampler
// ─────────────────────────────────────────────────────────────────────────────

// Sampler yields batches of indices over [0, n).  Sequential samplers keep
// index order; shuffled samplers draw a fresh permutation per epoch from
// seed+epoch.
type Sampler struct {
	n         int
	batchSize int
	shuffle   bool
	seed      uint32
	dropLast  bool

	epoch int
	order []int
	pos   int
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithShuffle enables per-epoch shuffling.
func WithShuffle(seed uint32) SamplerOption {
	return func(s *Sampler) {
		s.shuffle = true
		s.seed = seed
	}
}

// WithDropLast discards a trailing batch smaller than batchSize.
func WithDropLast() SamplerOption {
	return func(s *Sampler) { s.dropLast = true }
}

// NewSampler returns a sampler positioned at the start of epoch 0.
func NewSampler(n, batchSize int, opts ...SamplerOption) (*Sampler, error) {
	if batchSize <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "batch size must be positive").
			WithDetail(fmt.Sprintf("batch_size=%d", batchSize))
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "sampler length must not be negative")
	}
	s := &Sampler{n: n, batchSize: batchSize}
	for _, o := range opts {
		o(s)
	}
	s.Reset(0)
	return s, nil
}

// Reset rewinds to the start of epoch.
func (s *Sampler) Reset(epoch int) {
	s.epoch = epoch
	s.pos = 0
	s.order = make([]int, s.n)
	for i := range s.order {
		s.order[i] = i
	}
	if s.shuffle {
		qm9.Shuffle(s.order, s.seed+uint32(epoch))
	}
}

// Epoch returns the current epoch.
func (s *Sampler) Epoch() int { return s.epoch }

// NumBatches returns the number of batches per epoch.
func (s *Sampler) NumBatches() int {
	if s.dropLast {
		return s.n / s.batchSize
	}
	return (s.n + s.batchSize - 1) / s.batchSize
}

// Next returns the next index batch, or io.EOF at the end of the epoch.
func (s *Sampler) Next() ([]int, error) {
	remaining := s.n - s.pos
	if remaining <= 0 || (s.dropLast && remaining < s.batchSize) {
		return nil, io.EOF
	}
	size := s.batchSize
	if remaining < size {
		size = remaining
	}
	out := append([]int(nil), s.order[s.pos:s.pos+size]...)
	s.pos += size
	return out, nil
}

//Personal.AI order the ending
