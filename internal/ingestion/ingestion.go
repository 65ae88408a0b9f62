// Package ingestion runs the fetch, normalize, merge and persist cycle that
// keeps the quote table up to date.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/fetcher"
	"github.com/guttosm/fxpulse/internal/logger"
	"github.com/guttosm/fxpulse/internal/storage"
	"github.com/guttosm/fxpulse/internal/trend"
)

// ErrNoRecords means the quote API answered but no quote could be normalized.
var ErrNoRecords = errors.New("ingestion: no usable quotes in batch")

// QuoteFetcher is the upstream quote source; *fetcher.AwesomeAPI satisfies it.
type QuoteFetcher interface {
	Fetch(ctx context.Context) (map[string]models.Quote, error)
}

// Pipeline is one configured ingestion cycle. It is safe to call Run from one
// goroutine at a time; callers that share a Pipeline coalesce runs themselves.
type Pipeline struct {
	fetcher    QuoteFetcher
	store      storage.TableStore
	classifier trend.Classifier
	merge      MergePolicy
	window     int
	now        func() time.Time
}

type Option func(*Pipeline)

// WithClassifier overrides the default band classifier.
func WithClassifier(c trend.Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithMerge sets the merge policy; window only applies to MergeWindow.
func WithMerge(policy MergePolicy, window int) Option {
	return func(p *Pipeline) {
		p.merge = policy
		p.window = window
	}
}

// WithClock replaces time.Now for capture stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(f QuoteFetcher, s storage.TableStore, opts ...Option) (*Pipeline, error) {
	if f == nil || s == nil {
		return nil, errors.New("ingestion: fetcher and store are required")
	}
	p := &Pipeline{
		fetcher:    f,
		store:      s,
		classifier: trend.MustClassifier(trend.PolicyBand, trend.DefaultThreshold),
		merge:      MergeKey,
		window:     DefaultWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	switch p.merge {
	case MergeKey:
	case MergeWindow:
		if p.window <= 0 {
			return nil, fmt.Errorf("ingestion: window must be positive, got %d", p.window)
		}
	default:
		return nil, fmt.Errorf("ingestion: unknown merge policy %q", p.merge)
	}
	return p, nil
}

// Run executes one cycle. It never panics on upstream or storage faults; they
// are reported through Result.Status and Result.Err.
func (p *Pipeline) Run(ctx context.Context) Result {
	start := time.Now()
	res := p.run(ctx)

	log := logger.For("ingestion")
	ev := log.Info()
	if res.Status != StatusOK {
		ev = log.Warn().Err(res.Err)
	}
	ev.Str("status", string(res.Status)).
		Int("added", res.Added).
		Int("skipped", res.Skipped).
		Int("table", len(res.Table)).
		Dur("elapsed", time.Since(start)).
		Msg("ingestion cycle")
	return res
}

func (p *Pipeline) run(ctx context.Context) Result {
	at := p.now()

	quotes, ferr := p.fetcher.Fetch(ctx)
	if ferr != nil {
		table, lerr := p.load(ctx)
		status := StatusTransportFault
		if errors.Is(ferr, fetcher.ErrPayload) {
			status = StatusParseFault
		}
		return Result{Status: status, Table: table, Err: errors.Join(ferr, lerr), At: at}
	}

	batch, skipped := p.normalize(quotes, at)

	existing, lerr := p.load(ctx)
	if len(batch) == 0 {
		res := Result{Table: existing, Skipped: skipped, Err: errors.Join(ErrNoRecords, lerr), At: at}
		switch {
		case lerr != nil:
			res.Status = StatusStorageFault
		case len(existing) == 0:
			res.Status = StatusEmpty
		default:
			res.Status = StatusParseFault
		}
		return res
	}

	table := p.mergeInto(existing, batch)
	res := Result{Status: StatusOK, Table: table, Added: len(batch), Skipped: skipped, At: at}

	if err := p.store.Save(ctx, table); err != nil {
		res.Status = StatusStorageFault
		res.Err = errors.Join(lerr, fmt.Errorf("save table: %w", err))
		return res
	}
	if lerr != nil {
		res.Status = StatusStorageFault
		res.Err = lerr
	}
	return res
}

// load reads the persisted table. A missing table is not an error; an
// unreadable one is reported and treated as empty.
func (p *Pipeline) load(ctx context.Context) ([]models.Record, error) {
	table, err := p.store.Load(ctx)
	switch {
	case err == nil:
		return table, nil
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	default:
		log := logger.For("ingestion")
		log.Warn().Err(err).Msg("persisted table unreadable, starting over")
		return nil, fmt.Errorf("load table: %w", err)
	}
}

// normalize builds the batch in symbol order, skipping quotes that cannot
// become records.
func (p *Pipeline) normalize(quotes map[string]models.Quote, at time.Time) ([]models.Record, int) {
	log := logger.For("ingestion")
	batch := make([]models.Record, 0, len(quotes))
	skipped := 0
	for _, sym := range sortedSymbols(quotes) {
		r, err := toRecord(quotes[sym], at, p.classifier)
		if err != nil {
			skipped++
			log.Warn().Str("symbol", sym).Err(err).Msg("quote skipped")
			continue
		}
		batch = append(batch, r)
	}
	return batch, skipped
}

func (p *Pipeline) mergeInto(existing, batch []models.Record) []models.Record {
	if p.merge == MergeWindow {
		return MergeTrailing(existing, batch, p.window)
	}
	return MergeByKey(existing, batch)
}
