package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TimeLayout = "15:04:05"   // Record.Timestamp
	DateLayout = "02/01/2006" // Record.Date (DD/MM/YYYY)
)

// Record is one persisted row of the quote table.
//
// Column order (default header → field):
//
//	Timestamp  → Timestamp (HH:MM:SS)
//	Data       → Date (DD/MM/YYYY)
//	Asset      → Asset
//	Price      → Price
//	Change_Pct → ChangePct (text as received)
//	Sentiment  → Trend
//	Icon       → Icon
type Record struct {
	Timestamp string
	Date      string
	Asset     string
	Price     decimal.Decimal
	ChangePct string
	Trend     string
	Icon      string
}

// RecordKey identifies a record for deduplication: capture instant plus asset.
type RecordKey struct {
	Date      string
	Timestamp string
	Asset     string
}

func (r Record) Key() RecordKey {
	return RecordKey{Date: r.Date, Timestamp: r.Timestamp, Asset: r.Asset}
}

// CapturedAt parses Date and Timestamp back into a time in loc.
// ok is false when either column does not follow the expected layout.
func (r Record) CapturedAt(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Timestamp, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Stamp formats t into the (Date, Timestamp) pair used by records.
func Stamp(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}
