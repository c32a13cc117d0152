package handlers

import (
	"net/http"

	"EcoUrban/internal/api/models"
	"EcoUrban/internal/forecast"
	"EcoUrban/internal/model"
	"EcoUrban/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ForecastHandler serves the aggregator snapshot and triggers refreshes.
type ForecastHandler struct {
	aggregator *forecast.Aggregator
	series     model.EnergySeries
	recorder   recorder.Recorder
}

// NewForecastHandler creates a forecast handler
func NewForecastHandler(agg *forecast.Aggregator, series model.EnergySeries, rec recorder.Recorder) *ForecastHandler {
	return &ForecastHandler{aggregator: agg, series: series, recorder: rec}
}

// GetForecast handles GET /api/v1/forecast
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.Snapshot())
}

// Refresh handles POST /api/v1/forecast/refresh
func (h *ForecastHandler) Refresh(c *gin.Context) {
	var q models.RefreshQuery
	if !bindAndValidate(c, &q, c.ShouldBindQuery) {
		return
	}

	gen, done := h.aggregator.Submit(h.series)
	log.Info().Str("component", "api").Uint64("generation", gen).Bool("wait", q.Wait).Msg("forecast refresh requested")

	if !q.Wait {
		c.JSON(http.StatusAccepted, models.RefreshResponse{Generation: gen})
		return
	}

	select {
	case <-done:
		c.JSON(http.StatusOK, h.aggregator.Snapshot())
	case <-c.Request.Context().Done():
		c.JSON(http.StatusGatewayTimeout, models.NewError("REQUEST_CANCELLED", c.Request.Context().Err().Error()))
	}
}

// GetGraph handles GET /api/v1/forecast/graph
func (h *ForecastHandler) GetGraph(c *gin.Context) {
	c.JSON(http.StatusOK, models.GraphResponse{Points: h.aggregator.Graph()})
}

// GetHistory handles GET /api/v1/forecast/history
func (h *ForecastHandler) GetHistory(c *gin.Context) {
	var q models.HistoryQuery
	if !bindAndValidate(c, &q, c.ShouldBindQuery) {
		return
	}

	events, err := h.recorder.Recent(q.Limit)
	if err != nil {
		log.Error().Str("component", "api").Err(err).Msg("load forecast history")
		c.JSON(http.StatusInternalServerError, models.NewError("HISTORY_UNAVAILABLE", err.Error()))
		return
	}

	items := make([]models.HistoryItem, 0, len(events))
	for _, e := range events {
		items = append(items, models.HistoryItem{
			Timestamp:     e.Timestamp,
			RequestID:     e.RequestID,
			Generation:    e.Generation,
			State:         e.State,
			Forecast:      e.Forecast,
			Average:       e.Average,
			Current:       e.Current,
			SavingPercent: e.SavingPercent,
			IsAnomaly:     e.IsAnomaly,
			Error:         e.Error,
		})
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Items: items})
}
