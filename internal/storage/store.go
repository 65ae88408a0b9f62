package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/fxpulse/internal/domain/models"
)

var (
	// ErrNotFound means nothing has been persisted yet.
	ErrNotFound = errors.New("storage: no persisted table")
	// ErrCorrupt means persisted data exists but cannot be read as a table.
	ErrCorrupt = errors.New("storage: persisted table unreadable")
)

// TableStore persists the whole quote table. Save always rewrites everything;
// there is no incremental append.
type TableStore interface {
	Load(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, records []models.Record) error
	Ping(ctx context.Context) error
}

// Columns names the header of each record field in tabular storage.
type Columns struct {
	Timestamp string
	Date      string
	Asset     string
	Price     string
	Change    string
	Trend     string
	Icon      string
}

// DefaultColumns is the header of workbooks written by earlier versions.
var DefaultColumns = Columns{
	Timestamp: "Timestamp",
	Date:      "Data",
	Asset:     "Asset",
	Price:     "Price",
	Change:    "Change_Pct",
	Trend:     "Sentiment",
	Icon:      "Icon",
}

// WithDefaults fills blank names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	pick := func(v, def string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return def
	}
	return Columns{
		Timestamp: pick(c.Timestamp, DefaultColumns.Timestamp),
		Date:      pick(c.Date, DefaultColumns.Date),
		Asset:     pick(c.Asset, DefaultColumns.Asset),
		Price:     pick(c.Price, DefaultColumns.Price),
		Change:    pick(c.Change, DefaultColumns.Change),
		Trend:     pick(c.Trend, DefaultColumns.Trend),
		Icon:      pick(c.Icon, DefaultColumns.Icon),
	}
}

// Header returns the column names in storage order.
func (c Columns) Header() []string {
	return []string{c.Timestamp, c.Date, c.Asset, c.Price, c.Change, c.Trend, c.Icon}
}

// Validate rejects duplicate names (compared case-insensitively).
func (c Columns) Validate() error {
	seen := make(map[string]struct{}, 7)
	for _, h := range c.Header() {
		k := strings.ToLower(strings.TrimSpace(h))
		if k == "" {
			return errors.New("storage: empty column name")
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("storage: duplicate column name %q", h)
		}
		seen[k] = struct{}{}
	}
	return nil
}
