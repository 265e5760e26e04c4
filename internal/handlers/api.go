package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// ChartResponse is the JSON body of a chart request.
type ChartResponse struct {
	Mode   models.ChartMode `json:"mode"`
	Title  string           `json:"title"`
	Empty  bool             `json:"empty"`
	Result models.Result    `json:"result"`
}

func newChartResponse(res models.Result) ChartResponse {
	return ChartResponse{
		Mode:   res.Mode(),
		Title:  res.Title(),
		Empty:  res.Len() == 0,
		Result: res,
	}
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)
	logger := observability.LoggerFrom(ctx, h.logger)

	q, err := parseChartQuery(chi.URLParam(r, "mode"), r.URL.Query())
	if err != nil {
		errors.WriteError(w, logger, err, requestID)
		return
	}

	res, err := h.analytics.Chart(ctx, q.Selection)
	if err != nil {
		errors.WriteError(w, logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, newChartResponse(res), cacheHeaders)
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Categories(), cacheHeaders)
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Regions(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   h.analytics.Dataset().Len(),
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
