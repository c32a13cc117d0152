package handlers

import (
	"net/http"

	"EcoUrban/internal/api/models"
	"EcoUrban/internal/calculator"
	"EcoUrban/internal/fixture"
	"EcoUrban/internal/model"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the series, the static dashboard tables and
// ad-hoc statistics.
type DashboardHandler struct {
	series model.EnergySeries
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(series model.EnergySeries) *DashboardHandler {
	return &DashboardHandler{series: series}
}

// GetSeries handles GET /api/v1/series
func (h *DashboardHandler) GetSeries(c *gin.Context) {
	c.JSON(http.StatusOK, models.SeriesResponse{Readings: h.series.Readings()})
}

// GetSectors handles GET /api/v1/sectors
func (h *DashboardHandler) GetSectors(c *gin.Context) {
	var q models.SectorsQuery
	if !bindAndValidate(c, &q, c.ShouldBindQuery) {
		return
	}
	c.JSON(http.StatusOK, models.SectorsResponse{Optimized: q.Optimized, Sectors: fixture.Sectors(q.Optimized)})
}

// GetAlerts handles GET /api/v1/alerts
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, models.AlertsResponse{Alerts: fixture.Alerts()})
}

// ComputeDerived handles POST /api/v1/derived
func ComputeDerived(c *gin.Context) {
	var req models.DerivedRequest
	if !bindAndValidate(c, &req, c.ShouldBindJSON) {
		return
	}

	resp := models.DerivedResponse{DerivedStats: calculator.ComputeDerived(req.Values, req.Forecast)}
	if text, ok := calculator.RecommendationText(req.Forecast, resp.Average); ok {
		resp.Recommendation = &text
	}
	c.JSON(http.StatusOK, resp)
}
