package pipeline

import (
	"context"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/dataset/batching"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// LoaderOptions controls one loader.  Zero capacities with Pad set are
// derived from the largest graphs of the subset.
type LoaderOptions struct {
	BatchSize       int     `json:"batch_size"`
	Shuffle         bool    `json:"shuffle"`
	Seed            uint32  `json:"seed"`
	DropLast        bool    `json:"drop_last"`
	Pad             bool    `json:"pad"`
	MaxBatchNodes   int     `json:"max_batch_nodes"`
	MaxBatchEdges   int     `json:"max_batch_edges"`
	ReserveFraction float64 `json:"reserve_fraction"`
}

// LoaderOptionsFrom reads the batch section of cfg.  Shuffling is seeded
// with the split seed.
func LoaderOptionsFrom(cfg *config.Config) LoaderOptions {
	return LoaderOptions{
		BatchSize:       cfg.Batch.Size,
		Shuffle:         cfg.Batch.Shuffle,
		Seed:            cfg.Split.Seed,
		DropLast:        cfg.Batch.DropLast,
		Pad:             cfg.Batch.Pad,
		MaxBatchNodes:   cfg.Batch.MaxBatchNodes,
		MaxBatchEdges:   cfg.Batch.MaxBatchEdges,
		ReserveFraction: cfg.Batch.ReserveFraction,
	}
}

// LoaderOptions returns the configured loader options.
func (s *Service) LoaderOptions() LoaderOptions { return LoaderOptionsFrom(s.cfg) }

// Loader builds a batch loader over split.
func (s *Service) Loader(ctx context.Context, split qm9.Split, opts LoaderOptions) (*batching.Loader, error) {
	if opts.BatchSize < 1 {
		return nil, errors.New(errors.ErrCodeValidation, "batch size must be at least 1")
	}
	ds, err := s.Dataset(ctx, split)
	if err != nil {
		return nil, err
	}

	var samplerOpts []batching.SamplerOption
	if opts.Shuffle {
		samplerOpts = append(samplerOpts, batching.WithShuffle(opts.Seed))
	}
	if opts.DropLast {
		samplerOpts = append(samplerOpts, batching.WithDropLast())
	}
	sampler, err := batching.NewSampler(ds.Len(), opts.BatchSize, samplerOpts...)
	if err != nil {
		return nil, err
	}

	log := s.logger.Named("loader").With(logging.Split(split.String()))
	loaderOpts := []batching.LoaderOption{batching.WithLoaderLogger(log)}
	if s.metrics != nil {
		loaderOpts = append(loaderOpts, batching.WithLoaderMetrics(s.metrics))
	}
	if opts.Pad {
		padder, err := s.padder(ds, opts)
		if err != nil {
			return nil, err
		}
		log.Info("padding batches",
			logging.Int("node_capacity", padder.NodeCapacity()),
			logging.Int("edge_capacity", padder.EdgeCapacity()))
		loaderOpts = append(loaderOpts, batching.WithPadder(padder))
	}
	return batching.NewLoader(ds, sampler, loaderOpts...), nil
}

func (s *Service) padder(ds *qm9.Dataset, opts LoaderOptions) (*batching.Padder, error) {
	maxNodes, maxEdges := opts.MaxBatchNodes, opts.MaxBatchEdges
	if maxNodes == 0 || maxEdges == 0 {
		n, e := batching.CapacityFor(ds, opts.BatchSize)
		if maxNodes == 0 {
			maxNodes = n
		}
		if maxEdges == 0 {
			maxEdges = e
		}
	}
	var padOpts []batching.PadderOption
	if opts.ReserveFraction > 0 {
		padOpts = append(padOpts, batching.WithReserveFraction(opts.ReserveFraction))
	}
	if s.metrics != nil {
		padOpts = append(padOpts, batching.WithPadMetrics(s.metrics))
	}
	return batching.NewPadder(maxNodes, maxEdges, padOpts...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Summaries
// ─────────────────────────────────────────────────────────────────────────────

// SubsetSummary describes one split.
type SubsetSummary struct {
	Split      string   `json:"split"`
	Size       int      `json:"size"`
	Target     string   `json:"target,omitempty"`
	TargetMean *float64 `json:"target_mean,omitempty"`
	TargetMAD  *float64 `json:"target_mad,omitempty"`
	MaxNodes   int      `json:"max_nodes"`
	MaxEdges   int      `json:"max_edges"`
}

// Describe summarises split.  Target statistics are present only when a
// target is selected and the subset is not empty.
func (s *Service) Describe(ctx context.Context, split qm9.Split) (*SubsetSummary, error) {
	ds, err := s.Dataset(ctx, split)
	if err != nil {
		return nil, err
	}
	out := &SubsetSummary{Split: split.String(), Size: ds.Len(), Target: ds.TargetName()}
	if top := ds.TopNNodes(1); len(top) == 1 {
		out.MaxNodes = top[0]
	}
	if top := ds.TopNEdges(1); len(top) == 1 {
		out.MaxEdges = top[0]
	}
	if _, ok := ds.Target(); ok && ds.Len() > 0 {
		mean, mad, err := ds.TargetStats()
		if err != nil {
			return nil, err
		}
		out.TargetMean, out.TargetMAD = &mean, &mad
	}
	return out, nil
}

//Personal.AI order the ending
