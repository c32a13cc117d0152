// Package api exposes the forecast aggregator and dashboard data over HTTP.
package api

import (
	"net/http"

	"EcoUrban/internal/api/handlers"
	"EcoUrban/internal/api/middleware"
	"EcoUrban/internal/forecast"
	"EcoUrban/internal/model"
	"EcoUrban/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Aggregator     *forecast.Aggregator
	Series         model.EnergySeries
	Recorder       recorder.Recorder
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter builds the gin engine and wraps it in CORS handling.
func NewRouter(d Deps) http.Handler {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NotFound())

	forecastHandler := handlers.NewForecastHandler(d.Aggregator, d.Series, d.Recorder)
	dashboardHandler := handlers.NewDashboardHandler(d.Series)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/forecast", forecastHandler.GetForecast)
		api.POST("/forecast/refresh", forecastHandler.Refresh)
		api.GET("/forecast/graph", forecastHandler.GetGraph)
		api.GET("/forecast/history", forecastHandler.GetHistory)

		api.POST("/derived", handlers.ComputeDerived)

		api.GET("/series", dashboardHandler.GetSeries)
		api.GET("/sectors", dashboardHandler.GetSectors)
		api.GET("/alerts", dashboardHandler.GetAlerts)
	}

	return middleware.CORS(router, d.AllowedOrigins)
}
