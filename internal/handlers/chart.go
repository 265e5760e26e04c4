package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// ChartHandlers serves rendered chart images and spreadsheet exports.
type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleImage renders /charts/{mode}.{format}. An empty result answers 204 so
// the page can show its placeholder.
func (h *ChartHandlers) HandleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)
	logger := observability.LoggerFrom(ctx, h.logger)

	format, err := charts.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		errors.WriteError(w, logger, err, requestID)
		return
	}
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

	var buf bytes.Buffer
	err = charts.Render(&buf, res, format, q.renderOptions())
	if stderrors.Is(err, charts.ErrEmptyResult) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		errors.WriteError(w, logger, errors.InternalWrap(err, "Failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("write chart image", "error", err, "request_id", requestID)
	}
}

// HandleExport serves /export/{mode}.xlsx.
func (h *ChartHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res); err != nil {
		errors.WriteError(w, logger, errors.InternalWrap(err, "Failed to build spreadsheet"), requestID)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(res)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("write export", "error", err, "request_id", requestID)
	}
}
