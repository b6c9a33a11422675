package qm9

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// RecordSource yields raw structure records in file order.  Next returns
// io.EOF after the last record.  An error coded ErrCodeRecordUnparsable
// reports a record that could not be decoded; the stream continues after it.
// Any other error ends the stream.
type RecordSource interface {
	Next() (*molecule.RawRecord, error)
}

// Metrics receives assembly outcomes.  Implemented by the prometheus
// PipelineMetrics; nil disables reporting.
type Metrics interface {
	RecordProcessed(outcome string)
	CorpusAssembled(duration time.Duration, size int)
}

// AssemblyReport summarises one corpus assembly.
type AssemblyReport struct {
	Total      int           `json:"total"`
	Accepted   int           `json:"accepted"`
	Excluded   int           `json:"excluded"`
	Unparsable int           `json:"unparsable"`
	Duration   time.Duration `json:"duration"`
	FromCache  bool          `json:"from_cache"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Assembler
// ─────────────────────────────────────────────────────────────────────────────

// Assembler drives a Parser over a RecordSource and collects the accepted
// graphs in source order.
type Assembler struct {
	parser  *Parser
	workers int
	logger  logging.Logger
	metrics Metrics
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithWorkers parses records on n goroutines.  n <= 0 selects GOMAXPROCS;
// n == 1 parses inline.
func WithWorkers(n int) AssemblerOption {
	return func(a *Assembler) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		a.workers = n
	}
}

// WithParser replaces the default Parser.
func WithParser(p *Parser) AssemblerOption {
	return func(a *Assembler) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithLogger injects a logger.
func WithLogger(l logging.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics injects a metrics sink.
func WithMetrics(m Metrics) AssemblerOption {
	return func(a *Assembler) { a.metrics = m }
}

// NewAssembler returns an Assembler that parses inline by default.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		parser:  NewParser(),
		workers: 1,
		logger:  logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

type parseResult struct {
	ordinal int
	graph   *molecule.MoleculeGraph
	reason  SkipReason
	cause   error
}

// Assemble reads every record of source and converts it with the label row
// of the same ordinal.  targets must already be normalised.
//
// Skipped records never abort the build.  A record without a label row, an
// unsupported atom, a reader failure or a cancelled ctx does.
func (a *Assembler) Assemble(ctx context.Context, source RecordSource, targets [][]float32, excluded ExclusionSet) (molecule.Corpus, *AssemblyReport, error) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if a.workers > 1 {
		g.SetLimit(a.workers)
	}

	var results []*parseResult
	readErr := func() error {
		for ordinal := 0; ; ordinal++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := source.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			res := &parseResult{ordinal: ordinal}
			if err != nil {
				if !errors.IsCode(err, errors.ErrCodeRecordUnparsable) {
					return errors.Wrap(err, errors.ErrCodeUnknown, fmt.Sprintf("read structure record %d", ordinal))
				}
				res.cause = err
				rec = nil
			}
			if ordinal >= len(targets) {
				return errors.New(errors.ErrCodeLabelTableInvalid, "structure record has no label row").
					WithDetail(fmt.Sprintf("ordinal=%d label_rows=%d", ordinal, len(targets)))
			}
			results = append(results, res)

			if a.workers <= 1 {
				if err := a.parse(res, rec, targets[ordinal], excluded); err != nil {
					return err
				}
				continue
			}
			target := targets[ordinal]
			g.Go(func() error {
				return a.parse(res, rec, target, excluded)
			})
		}
	}()
	// A worker failure cancels gctx; the reader then only reports the cancellation.
	if waitErr := g.Wait(); waitErr != nil {
		return nil, nil, waitErr
	}
	if readErr != nil {
		return nil, nil, readErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report := &AssemblyReport{Total: len(results)}
	corpus := make(molecule.Corpus, 0, len(results))
	for _, r := range results {
		switch r.reason {
		case SkipNone:
			report.Accepted++
			corpus = append(corpus, *r.graph)
		case SkipExcluded:
			report.Excluded++
			a.logger.Debug("structure record excluded", logging.Ordinal(r.ordinal), logging.String("reason", r.reason.String()))
		case SkipUnparsable:
			report.Unparsable++
			fields := []logging.Field{logging.Ordinal(r.ordinal), logging.String("reason", r.reason.String())}
			if r.cause != nil {
				fields = append(fields, logging.Err(r.cause))
			}
			a.logger.Debug("structure record skipped", fields...)
		}
		if a.metrics != nil {
			a.metrics.RecordProcessed(r.reason.String())
		}
	}
	report.Duration = time.Since(start)

	a.logger.Info("corpus assembled",
		logging.Int("total", report.Total),
		logging.Int("accepted", report.Accepted),
		logging.Int("excluded", report.Excluded),
		logging.Int("unparsable", report.Unparsable),
		logging.Int("workers", a.workers),
		logging.Duration("duration", report.Duration))
	if a.metrics != nil {
		a.metrics.CorpusAssembled(report.Duration, report.Accepted)
	}
	return corpus, report, nil
}

func (a *Assembler) parse(res *parseResult, rec *molecule.RawRecord, target []float32, excluded ExclusionSet) error {
	graph, reason, err := a.parser.Parse(rec, target, res.ordinal, excluded)
	if err != nil {
		return err
	}
	res.graph, res.reason = graph, reason
	return nil
}

//Personal.AI order the ending
