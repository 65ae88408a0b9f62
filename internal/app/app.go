// Package app wires configuration, storage, the ingestion pipeline and the
// HTTP layer together.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guttosm/fxpulse/config"
	"github.com/guttosm/fxpulse/internal/api"
	"github.com/guttosm/fxpulse/internal/fetcher"
	"github.com/guttosm/fxpulse/internal/ingestion"
	"github.com/guttosm/fxpulse/internal/logger"
	"github.com/guttosm/fxpulse/internal/service"
	"github.com/guttosm/fxpulse/internal/storage"
	"github.com/guttosm/fxpulse/internal/trend"
)

var setupOnce sync.Once

// Setup loads configuration and initializes the logger. Only the first call
// does anything, so every entry point may call it.
func Setup() {
	setupOnce.Do(func() {
		config.LoadConfig()
		logger.Init(config.AppConfig.Log.Level, config.AppConfig.Log.Pretty)
	})
}

// Components are the long-lived objects built from one configuration.
type Components struct {
	Store    storage.TableStore
	Pipeline *ingestion.Pipeline
	Service  service.QuoteService
	Location *time.Location
}

// Build assembles store, classifier, fetcher, pipeline and service from cfg.
// The returned cleanup releases the store's resources.
func Build(cfg config.Config) (*Components, func(), error) {
	classifier, err := newClassifier(cfg.Trend)
	if err != nil {
		return nil, nil, err
	}
	merge, err := ingestion.ParseMergePolicy(cfg.Store.Merge)
	if err != nil {
		return nil, nil, err
	}

	store, cleanup, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	loc := marketLocation(cfg.Market.Timezone)
	quotes := fetcher.New(cfg.Quotes.Endpoint, cfg.Quotes.Symbols, cfg.Quotes.Timeout)

	pipeline, err := ingestion.New(quotes, store,
		ingestion.WithClassifier(classifier),
		ingestion.WithMerge(merge, cfg.Store.Window),
		ingestion.WithClock(func() time.Time { return time.Now().In(loc) }),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &Components{
		Store:    store,
		Pipeline: pipeline,
		Service:  service.NewQuoteService(pipeline, store, loc),
		Location: loc,
	}, cleanup, nil
}

// InitializeApp builds the components from config.AppConfig and returns the
// configured router plus a cleanup function for graceful shutdown.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	c, cleanup, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}

	router := api.NewRouter(api.NewHandler(c.Service), cfg.Server.RateLimit)
	api.NewHealthHandler(c.Store.Ping).Register(router)

	return router, cleanup, nil
}

// RunIngest runs a single ingestion cycle with config.AppConfig.
func RunIngest(ctx context.Context) (ingestion.Result, error) {
	c, cleanup, err := Build(config.AppConfig)
	if err != nil {
		return ingestion.Result{}, err
	}
	defer cleanup()
	return c.Pipeline.Run(ctx), nil
}

func newClassifier(cfg config.TrendConfig) (trend.Classifier, error) {
	policy := trend.Policy(cfg.Policy)
	if policy == "" {
		policy = trend.PolicyBand
	}
	threshold := trend.DefaultThreshold
	if policy == trend.PolicyBand && cfg.Threshold != "" {
		t, err := decimal.NewFromString(cfg.Threshold)
		if err != nil {
			return trend.Classifier{}, fmt.Errorf("invalid TREND_THRESHOLD %q: %w", cfg.Threshold, err)
		}
		threshold = t
	}
	return trend.NewClassifier(policy, threshold)
}

// newStore opens the configured backend. The postgres backend is migrated on open.
func newStore(cfg config.Config) (storage.TableStore, func(), error) {
	switch cfg.Store.Backend {
	case "", "xlsx":
		cols := storage.Columns{
			Timestamp: cfg.Columns.Timestamp,
			Date:      cfg.Columns.Date,
			Asset:     cfg.Columns.Asset,
			Price:     cfg.Columns.Price,
			Change:    cfg.Columns.Change,
			Trend:     cfg.Columns.Trend,
			Icon:      cfg.Columns.Icon,
		}.WithDefaults()
		if err := cols.Validate(); err != nil {
			return nil, nil, err
		}
		return storage.NewXLSXStore(cfg.Store.Path, cfg.Store.Sheet, cols), func() {}, nil

	case "postgres":
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := migrator(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return storage.NewPostgresStore(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// marketLocation loads tz, falling back to a fixed UTC-3 zone when the
// tz database is unavailable.
func marketLocation(tz string) *time.Location {
	if tz == "" {
		tz = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log := logger.For("app")
		log.Warn().Err(err).Str("timezone", tz).Msg("timezone unavailable, using UTC-3")
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}
