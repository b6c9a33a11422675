package qm9

import (
	"fmt"

	"gonum.org/v1/gonum/mathext/prng"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Split names one of the three disjoint subsets.
type Split int

const (
	SplitTrain Split = iota
	SplitVal
	SplitTest
)

func (s Split) String() string {
	switch s {
	case SplitTrain:
		return "train"
	case SplitVal:
		return "val"
	case SplitTest:
		return "test"
	}
	return fmt.Sprintf("Split(%d)", int(s))
}

// Splits lists the subsets in partition order.
var Splits = []Split{SplitTrain, SplitVal, SplitTest}

// ParseSplit accepts "train", "val" and "test".
func ParseSplit(name string) (Split, error) {
	for _, s := range Splits {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownSplit, `split must be "train", "val" or "test"`).
		WithDetail(fmt.Sprintf("split=%q", name))
}

// Default split parameters.  The seed and sizes reproduce the partition
// widely used for QM9 benchmarks.
const (
	DefaultSeed  uint32 = 42
	DefaultTotal        = 130831
)

// SplitSizes holds the subset sizes.  Their sum is the corpus size.
type SplitSizes struct {
	Train int `json:"train"`
	Val   int `json:"val"`
	Test  int `json:"test"`
}

// DefaultSplitSizes partitions DefaultTotal graphs.
var DefaultSplitSizes = SplitSizes{Train: 110000, Val: 10000, Test: 10831}

// Total returns Train+Val+Test.
func (s SplitSizes) Total() int { return s.Train + s.Val + s.Test }

// Validate rejects negative sizes.
func (s SplitSizes) Validate() error {
	if s.Train < 0 || s.Val < 0 || s.Test < 0 {
		return errors.New(errors.ErrCodeSplitSizeMismatch, "split sizes must not be negative").
			WithDetail(fmt.Sprintf("train=%d val=%d test=%d", s.Train, s.Val, s.Test))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Permutation
// ─────────────────────────────────────────────────────────────────────────────

// newSource returns an MT19937 generator seeded with init_genrand(seed).
func newSource(seed uint32) *prng.MT19937 {
	src := prng.NewMT19937()
	src.Seed(uint64(seed))
	return src
}

// boundedUint32 draws uniformly from [0, max] by masking 32-bit outputs to
// the smallest covering power of two and rejecting values above max.
func boundedUint32(src *prng.MT19937, max uint32) uint32 {
	if max == 0 {
		return 0
	}
	mask := max
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16
	for {
		if v := src.Uint32() & mask; v <= max {
			return v
		}
	}
}

func shuffle(x []int, src *prng.MT19937) {
	for i := len(x) - 1; i > 0; i-- {
		j := int(boundedUint32(src, uint32(i)))
		x[i], x[j] = x[j], x[i]
	}
}

// Shuffle permutes x in place with the same draw sequence as Permutation.
func Shuffle(x []int, seed uint32) {
	shuffle(x, newSource(seed))
}

// Permutation returns a permutation of 0..n-1.  For equal (n, seed) the result
// is identical to NumPy's legacy RandomState(seed).permutation(n).
func Permutation(n int, seed uint32) []int {
	if n <= 0 {
		return []int{}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	shuffle(perm, newSource(seed))
	return perm
}

// ─────────────────────────────────────────────────────────────────────────────
// Partition
// ─────────────────────────────────────────────────────────────────────────────

// SplitIndices are the dense corpus indices of each subset, in permutation
// order.
type SplitIndices struct {
	Train []int `json:"train"`
	Val   []int `json:"val"`
	Test  []int `json:"test"`
}

// Of returns the indices of split s.
func (p *SplitIndices) Of(s Split) []int {
	switch s {
	case SplitTrain:
		return p.Train
	case SplitVal:
		return p.Val
	case SplitTest:
		return p.Test
	}
	return nil
}

// Partition slices Permutation(total, seed) into train, val and test, in that
// order.  sizes must sum to total.
func Partition(total int, sizes SplitSizes, seed uint32) (*SplitIndices, error) {
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	if sizes.Total() != total {
		return nil, errors.New(errors.ErrCodeSplitSizeMismatch, "split sizes do not match corpus size").
			WithDetail(fmt.Sprintf("train+val+test=%d total=%d", sizes.Total(), total))
	}
	perm := Permutation(total, seed)
	a, b := sizes.Train, sizes.Train+sizes.Val
	return &SplitIndices{
		Train: perm[:a:a],
		Val:   perm[a:b:b],
		Test:  perm[b:],
	}, nil
}

// ApplySplit returns the graphs of split in permutation order.  The corpus
// length must equal sizes.Total(); a mismatch means the corpus was built from
// different inputs than the split expects.
func ApplySplit(corpus molecule.Corpus, sizes SplitSizes, seed uint32, split Split) (molecule.Corpus, error) {
	if _, err := ParseSplit(split.String()); err != nil {
		return nil, err
	}
	idx, err := Partition(corpus.Len(), sizes, seed)
	if err != nil {
		return nil, err
	}
	return corpus.Gather(idx.Of(split))
}

//Personal.AI order the ending
