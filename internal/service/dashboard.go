package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/fxpulse/internal/calendar"
	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/ingestion"
	"github.com/guttosm/fxpulse/internal/trend"
)

const (
	ColorUp      = "#16a34a"
	ColorDown    = "#dc2626"
	ColorNeutral = "#9ca3af"
)

// Dashboard is the render-ready view of one refresh.
type Dashboard struct {
	Status      ingestion.Status
	Waiting     bool
	Message     string
	UpdatedAt   time.Time
	MarketOpen  bool
	Holiday     string
	Cards       []Card
	Chart       []Series
	RecordCount int
}

// Card is the latest quote of one asset.
type Card struct {
	Asset     string
	Price     decimal.Decimal
	ChangePct string
	Trend     string
	Icon      string
	Color     string
}

// Series is the price history of one asset, oldest first.
type Series struct {
	Asset  string
	Points []Point
}

type Point struct {
	Date      string
	Timestamp string
	Price     decimal.Decimal
}

var statusMessages = map[ingestion.Status]string{
	ingestion.StatusOK:             "market data updated",
	ingestion.StatusEmpty:          "quote service returned no usable quotes",
	ingestion.StatusTransportFault: "quote service unavailable, showing stored data",
	ingestion.StatusParseFault:     "quote service returned an unusable payload, showing stored data",
	ingestion.StatusStorageFault:   "stored table could not be read or written",
}

const waitingMessage = "waiting for market data"

// BuildDashboard derives cards, chart series and market status from a
// pipeline result. Assets appear in the order they first show up in the table.
func BuildDashboard(res ingestion.Result, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.Local
	}
	at := res.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.In(loc)

	d := Dashboard{
		Status:      res.Status,
		Waiting:     res.Waiting(),
		Message:     statusMessages[res.Status],
		UpdatedAt:   at,
		MarketOpen:  calendar.IsBusinessDay(at),
		RecordCount: len(res.Table),
	}
	if name, ok := calendar.HolidayName(at); ok {
		d.Holiday = name
	}
	if d.Waiting {
		d.Message = waitingMessage
		return d
	}
	if !res.Fresh() {
		if last, ok := res.Table[len(res.Table)-1].CapturedAt(loc); ok {
			d.UpdatedAt = last
		}
	}

	var order []string
	latest := make(map[string]models.Record)
	series := make(map[string][]Point)
	for _, r := range res.Table {
		if _, seen := latest[r.Asset]; !seen {
			order = append(order, r.Asset)
		}
		latest[r.Asset] = r
		series[r.Asset] = append(series[r.Asset], Point{Date: r.Date, Timestamp: r.Timestamp, Price: r.Price})
	}

	d.Cards = make([]Card, 0, len(order))
	d.Chart = make([]Series, 0, len(order))
	for _, a := range order {
		r := latest[a]
		d.Cards = append(d.Cards, Card{
			Asset:     r.Asset,
			Price:     r.Price,
			ChangePct: r.ChangePct,
			Trend:     r.Trend,
			Icon:      r.Icon,
			Color:     CardColor(r.ChangePct),
		})
		d.Chart = append(d.Chart, Series{Asset: a, Points: series[a]})
	}
	return d
}

// CardColor is green for a positive change, red for a negative one and grey
// otherwise, including unparsable values.
func CardColor(pctChange string) string {
	v, ok := trend.ParsePercent(pctChange)
	switch {
	case !ok:
		return ColorNeutral
	case v.IsPositive():
		return ColorUp
	case v.IsNegative():
		return ColorDown
	default:
		return ColorNeutral
	}
}
