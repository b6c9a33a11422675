package qm9

import (
	"context"
	"io"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// CorpusCache persists assembled corpora keyed by the fingerprint of the raw
// inputs.  Load returns an ErrCodeCacheMiss error when nothing is stored.
type CorpusCache interface {
	Load(ctx context.Context, fingerprint string) (molecule.Corpus, error)
	Store(ctx context.Context, fingerprint string, corpus molecule.Corpus) error
}

// RecordStream is a RecordSource backed by an open file.
type RecordStream interface {
	RecordSource
	io.Closer
}

// RawInputs gives access to the three raw inputs of a corpus build.
type RawInputs interface {
	// Fingerprint identifies the raw bytes.  Equal fingerprints imply equal
	// corpora.
	Fingerprint() (string, error)
	// OpenRecords opens the structure record stream.
	OpenRecords() (RecordStream, error)
	// Labels returns the raw label table, one row per structure record.
	Labels() ([][]float32, error)
	// Exclusions returns 0-based ordinals of uncharacterised records.
	Exclusions() ([]int, error)
}

type nopCache struct{}

func (nopCache) Load(context.Context, string) (molecule.Corpus, error) {
	return nil, errors.New(errors.ErrCodeCacheMiss, "cache disabled")
}

func (nopCache) Store(context.Context, string, molecule.Corpus) error { return nil }

// NopCache never hits and discards stores.
func NopCache() CorpusCache { return nopCache{} }

// Builder produces a corpus from raw inputs, consulting a CorpusCache first.
type Builder struct {
	assembler *Assembler
	cache     CorpusCache
	logger    logging.Logger
}

// NewBuilder wires an Assembler to a cache.  A nil cache disables caching.
func NewBuilder(assembler *Assembler, cache CorpusCache, logger logging.Logger) *Builder {
	if assembler == nil {
		assembler = NewAssembler()
	}
	if cache == nil {
		cache = NopCache()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{assembler: assembler, cache: cache, logger: logger}
}

// Build returns the corpus for in.  A cached corpus is returned as is;
// otherwise every record is parsed and the result stored.  Cache errors other
// than a miss are returned unchanged.
func (b *Builder) Build(ctx context.Context, in RawInputs) (molecule.Corpus, *AssemblyReport, error) {
	fp, err := in.Fingerprint()
	if err != nil {
		return nil, nil, err
	}
	log := b.logger.With(logging.String("fingerprint", fp))

	corpus, err := b.cache.Load(ctx, fp)
	switch {
	case err == nil:
		log.Info("corpus loaded from cache", logging.Int("size", corpus.Len()))
		return corpus, &AssemblyReport{Total: corpus.Len(), Accepted: corpus.Len(), FromCache: true}, nil
	case !errors.IsCacheMiss(err):
		return nil, nil, err
	}

	raw, err := in.Labels()
	if err != nil {
		return nil, nil, err
	}
	targets, err := NormalizeTargets(raw)
	if err != nil {
		return nil, nil, err
	}
	ordinals, err := in.Exclusions()
	if err != nil {
		return nil, nil, err
	}
	stream, err := in.OpenRecords()
	if err != nil {
		return nil, nil, err
	}
	defer stream.Close()

	corpus, report, err := b.assembler.Assemble(ctx, stream, targets, NewExclusionSet(ordinals))
	if err != nil {
		return nil, nil, err
	}
	if err := b.cache.Store(ctx, fp, corpus); err != nil {
		return nil, nil, err
	}
	log.Info("corpus stored in cache", logging.Int("size", corpus.Len()))
	return corpus, report, nil
}

//Personal.AI order the ending
