package ingestion

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/trend"
)

var (
	errNoAsset  = errors.New("quote has no asset name")
	errBadPrice = errors.New("quote has no valid bid")
)

// toRecord turns one quote into a record stamped with the cycle's capture time.
// A missing pctChange is stored as "0"; a malformed one is kept verbatim and
// classified indeterminate.
func toRecord(q models.Quote, at time.Time, c trend.Classifier) (models.Record, error) {
	asset := q.Asset()
	if asset == "" {
		return models.Record{}, errNoAsset
	}

	bid := strings.ReplaceAll(strings.TrimSpace(q.Bid), ",", ".")
	price, err := decimal.NewFromString(bid)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %q", errBadPrice, q.Bid)
	}

	pct := strings.TrimSpace(q.PctChange)
	if pct == "" {
		pct = "0"
	}
	t := c.Classify(pct)
	date, clock := models.Stamp(at)

	return models.Record{
		Timestamp: clock,
		Date:      date,
		Asset:     asset,
		Price:     price,
		ChangePct: pct,
		Trend:     string(t.Label),
		Icon:      t.Icon,
	}, nil
}

// sortedSymbols returns the keys of quotes in ascending order.
func sortedSymbols(quotes map[string]models.Quote) []string {
	keys := make([]string, 0, len(quotes))
	for k := range quotes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
