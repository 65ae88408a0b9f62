package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/ingestion"
	"github.com/guttosm/fxpulse/internal/storage"
)

var (
	// ErrUnknownAsset means the table holds no usable price for the asset.
	ErrUnknownAsset = errors.New("unknown asset")
	// ErrInvalidAmount means the amount is below MinConvertAmount.
	ErrInvalidAmount = errors.New("invalid amount")
)

// MinConvertAmount is the smallest BRL amount the converter accepts.
var MinConvertAmount = decimal.NewFromInt(1)

// Refresher runs one ingestion cycle; *ingestion.Pipeline satisfies it.
type Refresher interface {
	Run(ctx context.Context) ingestion.Result
}

// QuoteService exposes the quote table to the HTTP layer.
type QuoteService interface {
	// Refresh runs an ingestion cycle. Concurrent callers share one run.
	Refresh(ctx context.Context) ingestion.Result
	// Dashboard refreshes and builds the dashboard view of the resulting table.
	Dashboard(ctx context.Context) Dashboard
	// Records returns the last limit persisted records (all when limit <= 0).
	Records(ctx context.Context, limit int) ([]models.Record, error)
	// Convert turns a BRL amount into units of asset at its latest price.
	Convert(ctx context.Context, amount decimal.Decimal, asset string) (*Conversion, error)
}

// Conversion is the converter output.
type Conversion struct {
	Asset  string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Result decimal.Decimal
	AsOf   string // "DD/MM/YYYY HH:MM:SS" of the price used
}

type quoteService struct {
	pipeline Refresher
	store    storage.TableStore
	loc      *time.Location
	group    singleflight.Group
}

// NewQuoteService builds the service. loc is the market time zone used for
// the business-day calendar; nil means time.Local.
func NewQuoteService(pipeline Refresher, store storage.TableStore, loc *time.Location) QuoteService {
	if loc == nil {
		loc = time.Local
	}
	return &quoteService{pipeline: pipeline, store: store, loc: loc}
}

func (s *quoteService) Refresh(ctx context.Context) ingestion.Result {
	// The shared run must outlive the first caller's request.
	runCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.pipeline.Run(runCtx), nil
	})
	return v.(ingestion.Result)
}

func (s *quoteService) Dashboard(ctx context.Context) Dashboard {
	return BuildDashboard(s.Refresh(ctx), s.loc)
}

func (s *quoteService) Records(ctx context.Context, limit int) ([]models.Record, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(table) > limit {
		table = table[len(table)-limit:]
	}
	return table, nil
}

func (s *quoteService) Convert(ctx context.Context, amount decimal.Decimal, asset string) (*Conversion, error) {
	if amount.LessThan(MinConvertAmount) {
		return nil, fmt.Errorf("%w: must be at least %s", ErrInvalidAmount, MinConvertAmount)
	}
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := latestFor(table, asset)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}
	return &Conversion{
		Asset:  r.Asset,
		Amount: amount,
		Price:  r.Price,
		Result: amount.DivRound(r.Price, 8),
		AsOf:   r.Date + " " + r.Timestamp,
	}, nil
}

// load reads the persisted table; a missing table is an empty one.
func (s *quoteService) load(ctx context.Context) ([]models.Record, error) {
	table, err := s.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return table, err
}

// latestFor returns the newest record of asset with a positive price.
// Asset names match case-insensitively.
func latestFor(table []models.Record, asset string) (models.Record, bool) {
	asset = strings.TrimSpace(asset)
	for i := len(table) - 1; i >= 0; i-- {
		r := table[i]
		if strings.EqualFold(r.Asset, asset) && r.Price.IsPositive() {
			return r, true
		}
	}
	return models.Record{}, false
}
