package qm9

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

// sliceSource replays records; a nil entry is reported as unparsable.
type sliceSource struct {
	records []*molecule.RawRecord
	pos     int
	failAt  int
	closed  bool
}

func newSliceSource(records ...*molecule.RawRecord) *sliceSource {
	return &sliceSource{records: records, failAt: -1}
}

func (s *sliceSource) Next() (*molecule.RawRecord, error) {
	if s.pos == s.failAt {
		return nil, stderrors.New("disk on fire")
	}
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	if r == nil {
		return nil, errors.New(errors.ErrCodeRecordUnparsable, "corrupt counts line")
	}
	return r, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	size     int
	calls    int
}

func (m *fakeMetrics) RecordProcessed(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

func (m *fakeMetrics) CorpusAssembled(_ time.Duration, size int) {
	m.size = size
	m.calls++
}

func normalizedTargets(t *testing.T, n int) [][]float32 {
	t.Helper()
	targets, err := NormalizeTargets(testutil.RawLabels(n))
	require.NoError(t, err)
	return targets
}

func TestAssembler_SkipsAndKeepsOrdinals(t *testing.T) {
	records := testutil.Records(6)
	records[2] = nil
	src := newSliceSource(records...)
	logger := testutil.NewMockLogger()
	metrics := &fakeMetrics{}

	a := NewAssembler(WithLogger(logger), WithMetrics(metrics))
	corpus, report, err := a.Assemble(context.Background(), src, normalizedTargets(t, 6), NewExclusionSet([]int{4}))
	require.NoError(t, err)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 4, report.Accepted)
	assert.Equal(t, 1, report.Excluded)
	assert.Equal(t, 1, report.Unparsable)

	require.Equal(t, 4, corpus.Len())
	var ordinals []int
	for i := range corpus {
		ordinals = append(ordinals, corpus[i].Identity.Index)
		require.NoError(t, corpus[i].Validate())
	}
	assert.Equal(t, []int{0, 1, 3, 5}, ordinals)
	assert.Equal(t, "gdb_4", corpus[2].Identity.Name)
	assert.InDelta(t, 3.03, corpus[2].Target[0], 1e-5, "target row follows the raw ordinal")

	assert.Equal(t, 1, logger.Count("debug", "structure record skipped"))
	assert.Equal(t, 1, logger.Count("debug", "structure record excluded"))
	assert.True(t, logger.HasMessage("info", "corpus assembled"))

	assert.Equal(t, map[string]int{"accepted": 4, "excluded": 1, "unparsable": 1}, metrics.outcomes)
	assert.Equal(t, 4, metrics.size)
	assert.Equal(t, 1, metrics.calls)
}

func TestAssembler_ParallelPreservesOrder(t *testing.T) {
	const n = 200
	records := testutil.Records(n)
	for i := 0; i < n; i += 17 {
		records[i] = nil
	}
	targets := normalizedTargets(t, n)

	serial, serialReport, err := NewAssembler().Assemble(context.Background(), newSliceSource(records...), targets, nil)
	require.NoError(t, err)

	parallel, parallelReport, err := NewAssembler(WithWorkers(8)).Assemble(context.Background(), newSliceSource(records...), targets, nil)
	require.NoError(t, err)

	assert.Equal(t, serialReport.Accepted, parallelReport.Accepted)
	assert.Equal(t, serialReport.Unparsable, parallelReport.Unparsable)
	assert.Equal(t, serial, parallel)
}

func TestAssembler_UnsupportedAtomAborts(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			records := testutil.Records(10)
			records[6] = testutil.Record("gdb_7", []int{6, 16}, testutil.Bond(0, 1, 1))
			_, _, err := NewAssembler(WithWorkers(workers)).Assemble(context.Background(), newSliceSource(records...), normalizedTargets(t, 10), nil)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedAtom))
		})
	}
}

func TestAssembler_MissingLabelRow(t *testing.T) {
	_, _, err := NewAssembler().Assemble(context.Background(), newSliceSource(testutil.Records(3)...), normalizedTargets(t, 2), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid))
}

func TestAssembler_ReaderFailureAborts(t *testing.T) {
	src := newSliceSource(testutil.Records(3)...)
	src.failAt = 1
	_, _, err := NewAssembler().Assemble(context.Background(), src, normalizedTargets(t, 3), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, errors.IsSkip(err))
}

func TestAssembler_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewAssembler().Assemble(ctx, newSliceSource(testutil.Records(3)...), normalizedTargets(t, 3), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembler_EmptySource(t *testing.T) {
	corpus, report, err := NewAssembler().Assemble(context.Background(), newSliceSource(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, corpus.Len())
	assert.Equal(t, 0, report.Total)
}

//Personal.AI order the ending
