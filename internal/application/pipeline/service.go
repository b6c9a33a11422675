// Package pipeline composes the raw inputs, the corpus cache, the splitter and
// the batch loader into the service shared by the CLI and the HTTP surface.
package pipeline

import (
	"context"
	"sync"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/internal/infrastructure/rawdata"
	"github.com/turtacn/molgraph/pkg/errors"
)

// BuildLock serialises corpus builds across processes.
type BuildLock interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// Option configures a Service.
type Option func(*options)

type options struct {
	inputs  qm9.RawInputs
	cache   qm9.CorpusCache
	lock    BuildLock
	metrics *prometheus.PipelineMetrics
}

// WithInputs replaces the raw files named by the dataset config.
func WithInputs(in qm9.RawInputs) Option {
	return func(o *options) { o.inputs = in }
}

// WithCache replaces the cache backend named by the cache config.
func WithCache(c qm9.CorpusCache) Option {
	return func(o *options) { o.cache = c }
}

// WithBuildLock replaces the redis build lock.
func WithBuildLock(l BuildLock) Option {
	return func(o *options) { o.lock = l }
}

// WithMetrics reports assembly, cache and batch metrics to m.
func WithMetrics(m *prometheus.PipelineMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service builds the corpus at most once per process and serves split
// datasets and loaders over it.  It is safe for concurrent use.
type Service struct {
	cfg     *config.Config
	inputs  qm9.RawInputs
	builder *qm9.Builder
	lock    BuildLock
	metrics *prometheus.PipelineMetrics
	logger  logging.Logger
	closeFn func() error

	mu       sync.Mutex
	built    bool
	corpus   molecule.Corpus
	report   *qm9.AssemblyReport
	datasets map[qm9.Split]*qm9.Dataset
}

// New opens the raw inputs and the configured cache backend.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeValidation, "pipeline config is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	inputs := o.inputs
	if inputs == nil {
		files, err := rawdata.OpenInputs(cfg.Dataset.Root, rawdata.FileNames{
			Structures:      cfg.Dataset.SDFFile,
			Labels:          cfg.Dataset.CSVFile,
			Uncharacterized: cfg.Dataset.UncharacterizedFile,
		})
		if err != nil {
			return nil, err
		}
		inputs = files
	}

	s := &Service{
		cfg:      cfg,
		inputs:   inputs,
		lock:     o.lock,
		metrics:  o.metrics,
		logger:   logger,
		datasets: make(map[qm9.Split]*qm9.Dataset),
	}

	cacheCfg := cfg.Cache
	if o.cache != nil {
		cacheCfg.Backend = config.CacheBackendNone
	}
	if o.lock != nil {
		cacheCfg.Lock.Enabled = false
	}
	b, err := openBackends(ctx, cacheCfg, s.cacheMetrics(), logger)
	if err != nil {
		return nil, err
	}
	s.closeFn = b.close
	cache := o.cache
	if cache == nil && b.cache != nil {
		cache = b.cache
	}
	if s.lock == nil && b.lock != nil {
		s.lock = b.lock
	}

	asmOpts := []qm9.AssemblerOption{
		qm9.WithWorkers(cfg.Dataset.Workers),
		qm9.WithParser(qm9.NewParser(qm9.WithProvenance(cfg.Dataset.Provenance))),
		qm9.WithLogger(logger.Named("assembler")),
	}
	if s.metrics != nil {
		asmOpts = append(asmOpts, qm9.WithMetrics(s.metrics))
	}
	s.builder = qm9.NewBuilder(qm9.NewAssembler(asmOpts...), cache, logger.Named("builder"))
	return s, nil
}

func (s *Service) cacheMetrics() snapshot.CacheMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Corpus returns the assembled corpus, building it on first use.  The corpus
// is shared; callers must not modify it.
func (s *Service) Corpus(ctx context.Context) (molecule.Corpus, *qm9.AssemblyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpusLocked(ctx)
}

func (s *Service) corpusLocked(ctx context.Context) (molecule.Corpus, *qm9.AssemblyReport, error) {
	if s.built {
		return s.corpus, s.report, nil
	}
	if s.lock != nil {
		if err := s.lock.Lock(ctx); err != nil {
			return nil, nil, err
		}
		defer func() {
			if err := s.lock.Unlock(context.Background()); err != nil {
				s.logger.Warn("failed to release build lock", logging.Err(err))
			}
		}()
	}
	corpus, report, err := s.builder.Build(ctx, s.inputs)
	if err != nil {
		return nil, nil, err
	}
	s.corpus, s.report, s.built = corpus, report, true
	return corpus, report, nil
}

// Ready reports whether the corpus has been built.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built
}

// Sizes returns the configured split sizes.
func (s *Service) Sizes() qm9.SplitSizes {
	return qm9.SplitSizes{Train: s.cfg.Split.Train, Val: s.cfg.Split.Val, Test: s.cfg.Split.Test}
}

// Partition returns the corpus indices of every split.
func (s *Service) Partition(ctx context.Context) (*qm9.SplitIndices, error) {
	corpus, _, err := s.Corpus(ctx)
	if err != nil {
		return nil, err
	}
	return qm9.Partition(corpus.Len(), s.Sizes(), s.cfg.Split.Seed)
}

// Dataset returns the subset split with the configured target selected.
func (s *Service) Dataset(ctx context.Context, split qm9.Split) (*qm9.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ds, ok := s.datasets[split]; ok {
		return ds, nil
	}
	corpus, _, err := s.corpusLocked(ctx)
	if err != nil {
		return nil, err
	}
	graphs, err := qm9.ApplySplit(corpus, s.Sizes(), s.cfg.Split.Seed, split)
	if err != nil {
		return nil, err
	}
	ds, err := qm9.NewDataset(graphs, split, s.cfg.Dataset.Target)
	if err != nil {
		return nil, err
	}
	s.datasets[split] = ds
	s.logger.Debug("dataset ready", logging.Split(split.String()), logging.Int("size", ds.Len()))
	return ds, nil
}

// Close releases the cache and lock connections.
func (s *Service) Close() error {
	return s.closeFn()
}

//Personal.AI order the ending
