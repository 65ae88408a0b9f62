package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guttosm/fxpulse/internal/domain/dto"
	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/ingestion"
	"github.com/guttosm/fxpulse/internal/middleware"
	"github.com/guttosm/fxpulse/internal/service"
)

// Handler provides HTTP handlers for the quote endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Call the quote service with the request context
//   - Translate service results into response DTOs
type Handler struct {
	svc service.QuoteService
}

func NewHandler(svc service.QuoteService) *Handler {
	return &Handler{svc: svc}
}

// GetDashboard godoc
// @Summary      Dashboard snapshot
// @Description  Runs one ingestion cycle and returns the latest card per asset, the price series and market status
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse  "Success"
// @Router       /api/v1/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	d := h.svc.Dashboard(c.Request.Context())

	resp := dto.DashboardResponse{
		Status:      string(d.Status),
		Waiting:     d.Waiting,
		Message:     d.Message,
		UpdatedAt:   d.UpdatedAt,
		MarketOpen:  d.MarketOpen,
		Holiday:     d.Holiday,
		Cards:       make([]dto.CardResponse, 0, len(d.Cards)),
		Chart:       make([]dto.SeriesResponse, 0, len(d.Chart)),
		RecordCount: d.RecordCount,
	}
	for _, card := range d.Cards {
		resp.Cards = append(resp.Cards, dto.CardResponse{
			Asset:     card.Asset,
			Price:     card.Price.String(),
			ChangePct: card.ChangePct,
			Trend:     card.Trend,
			Icon:      card.Icon,
			Color:     card.Color,
		})
	}
	for _, s := range d.Chart {
		series := dto.SeriesResponse{Asset: s.Asset, Points: make([]dto.PointResponse, 0, len(s.Points))}
		for _, p := range s.Points {
			series.Points = append(series.Points, dto.PointResponse{Date: p.Date, Timestamp: p.Timestamp, Price: p.Price.String()})
		}
		resp.Chart = append(resp.Chart, series)
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecords godoc
// @Summary      Persisted quote table
// @Description  Returns the stored records, oldest first, without fetching new quotes
// @Tags         quotes
// @Produce      json
// @Param        limit  query     int  false  "Only the last n records" example(20)
// @Success      200    {object}  dto.RecordsResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse    "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/records [get]
func (h *Handler) GetRecords(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	records, err := h.svc.Records(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to read stored quotes", err)
		return
	}

	resp := dto.RecordsResponse{Count: len(records), Records: make([]dto.RecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Records = append(resp.Records, toRecordResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// GetConversion godoc
// @Summary      Convert BRL into an asset
// @Description  Divides a BRL amount by the latest stored price of the asset
// @Tags         quotes
// @Produce      json
// @Param        amount  query     string  true  "Amount in BRL, at least 1" example(100)
// @Param        asset   query     string  true  "Asset name as shown on the cards" example(Euro)
// @Success      200     {object}  dto.ConversionResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse       "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse       "Not Found"
// @Failure      500     {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/convert [get]
func (h *Handler) GetConversion(c *gin.Context) {
	asset := strings.TrimSpace(c.Query("asset"))
	if asset == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "asset is required", nil)
		return
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(c.Query("amount")), ",", "."))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "amount must be a number", err)
		return
	}

	conv, err := h.svc.Convert(c.Request.Context(), amount, asset)
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid amount", err)
		return
	case errors.Is(err, service.ErrUnknownAsset):
		middleware.AbortWithError(c, http.StatusNotFound, "no quote for asset", err)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to read stored quotes", err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversionResponse{
		Asset:  conv.Asset,
		Amount: conv.Amount.String(),
		Price:  conv.Price.String(),
		Result: conv.Result.StringFixed(2),
		AsOf:   conv.AsOf,
	})
}

// PostRefresh godoc
// @Summary      Run an ingestion cycle
// @Description  Fetches quotes, merges them into the stored table and reports the outcome
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  dto.RefreshResponse  "Success"
// @Router       /api/v1/refresh [post]
func (h *Handler) PostRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, toRefreshResponse(h.svc.Refresh(c.Request.Context())))
}

func toRecordResponse(r models.Record) dto.RecordResponse {
	return dto.RecordResponse{
		Timestamp: r.Timestamp,
		Date:      r.Date,
		Asset:     r.Asset,
		Price:     r.Price.String(),
		ChangePct: r.ChangePct,
		Trend:     r.Trend,
		Icon:      r.Icon,
	}
}

func toRefreshResponse(res ingestion.Result) dto.RefreshResponse {
	out := dto.RefreshResponse{
		Status:      string(res.Status),
		Waiting:     res.Waiting(),
		Added:       res.Added,
		Skipped:     res.Skipped,
		RecordCount: len(res.Table),
		At:          res.At,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}
