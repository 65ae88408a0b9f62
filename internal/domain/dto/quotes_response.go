package dto

import "time"

// DashboardResponse represents the JSON structure returned by
// GET /api/v1/dashboard. Prices are decimal strings.
type DashboardResponse struct {
	Status      string           `json:"status" example:"ok"`
	Waiting     bool             `json:"waiting" example:"false"`
	Message     string           `json:"message" example:"market data updated"`
	UpdatedAt   time.Time        `json:"updated_at" example:"2026-10-19T14:30:05-03:00"`
	MarketOpen  bool             `json:"market_open" example:"true"`
	Holiday     string           `json:"holiday,omitempty" example:"Natal"`
	Cards       []CardResponse   `json:"cards"`
	Chart       []SeriesResponse `json:"chart"`
	RecordCount int              `json:"record_count" example:"8"`
}

// CardResponse is the latest quote of one asset.
type CardResponse struct {
	Asset     string `json:"asset" example:"Dólar Americano"`
	Price     string `json:"price" example:"5.1"`
	ChangePct string `json:"change_pct" example:"0.10"`
	Trend     string `json:"trend" example:"up"`
	Icon      string `json:"icon" example:"📈"`
	Color     string `json:"color" example:"#16a34a"`
}

type SeriesResponse struct {
	Asset  string          `json:"asset" example:"Euro"`
	Points []PointResponse `json:"points"`
}

type PointResponse struct {
	Date      string `json:"date" example:"19/10/2026"`
	Timestamp string `json:"timestamp" example:"14:30:05"`
	Price     string `json:"price" example:"5.9231"`
}

// RecordResponse is one persisted row.
type RecordResponse struct {
	Timestamp string `json:"timestamp" example:"14:30:05"`
	Date      string `json:"date" example:"19/10/2026"`
	Asset     string `json:"asset" example:"Euro"`
	Price     string `json:"price" example:"5.9231"`
	ChangePct string `json:"change_pct" example:"-0.2"`
	Trend     string `json:"trend" example:"down"`
	Icon      string `json:"icon" example:"📉"`
}

type RecordsResponse struct {
	Count   int              `json:"count" example:"1"`
	Records []RecordResponse `json:"records"`
}

// ConversionResponse is returned by GET /api/v1/convert.
type ConversionResponse struct {
	Asset  string `json:"asset" example:"Dólar Americano"`
	Amount string `json:"amount" example:"100"`
	Price  string `json:"price" example:"5.1"`
	Result string `json:"result" example:"19.61"`
	AsOf   string `json:"as_of" example:"19/10/2026 14:30:05"`
}

// RefreshResponse summarizes one ingestion cycle.
type RefreshResponse struct {
	Status      string    `json:"status" example:"ok"`
	Waiting     bool      `json:"waiting" example:"false"`
	Added       int       `json:"added" example:"4"`
	Skipped     int       `json:"skipped" example:"0"`
	RecordCount int       `json:"record_count" example:"8"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at" example:"2026-10-19T14:30:05-03:00"`
}
