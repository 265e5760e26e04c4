package handlers

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func selectionFor(mode models.ChartMode) services.Selection {
	return services.Selection{Mode: mode}
}

func TestParseChartQuery(t *testing.T) {
	q, err := parseChartQuery("Line Plot", url.Values{
		"category": {" Technology "},
		"start":    {"2023-01-01"},
		"end":      {"2023-01-31"},
	})
	if err != nil {
		t.Fatalf("parseChartQuery() failed: %v", err)
	}

	if q.Selection.Mode != models.LinePlot {
		t.Errorf("expected LinePlot, got %v", q.Selection.Mode)
	}
	if q.Selection.Filter.Category != "Technology" {
		t.Errorf("expected trimmed category, got %q", q.Selection.Filter.Category)
	}
	dates := q.Selection.Filter.Dates
	if dates == nil {
		t.Fatal("expected a date range")
	}
	if !dates.Start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) || !dates.End.Equal(time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected range %v", dates)
	}
	if q.ColorMap != models.Viridis || q.Resolution != models.DefaultResolution {
		t.Errorf("expected heatmap defaults, got %v/%d", q.ColorMap, q.Resolution)
	}
}

func TestParseChartQuery_OpenRange(t *testing.T) {
	q, err := parseChartQuery("bar", url.Values{"start": {"2023-02-01"}})
	if err != nil {
		t.Fatalf("parseChartQuery() failed: %v", err)
	}
	if q.Selection.Filter.Dates == nil || !q.Selection.Filter.Dates.End.Equal(openEnd) {
		t.Errorf("expected an open end, got %v", q.Selection.Filter.Dates)
	}
	if got := q.values().Encode(); got != "start=2023-02-01" {
		t.Errorf("values() = %q", got)
	}
}

func TestParseChartQuery_Invalid(t *testing.T) {
	tests := map[string]url.Values{
		"bad end":        {"end": {"31/01/2023"}},
		"resolution nan": {"resolution": {"ten"}},
		"resolution low": {"resolution": {"2"}},
		"color map":      {"colormap": {"Jet"}},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseChartQuery("heatmap", values)
			if !errors.Is(err, models.ErrInvalidSelection) {
				t.Errorf("expected ErrInvalidSelection, got %v", err)
			}
		})
	}

	if _, err := parseChartQuery("", nil); !errors.Is(err, models.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection for a missing mode, got %v", err)
	}
}

func TestChartQueryValues_HeatmapOptions(t *testing.T) {
	q, err := parseChartQuery("heatmap", url.Values{"colormap": {"plasma"}, "resolution": {"12"}})
	if err != nil {
		t.Fatalf("parseChartQuery() failed: %v", err)
	}
	if got := q.values().Encode(); got != "colormap=Plasma&resolution=12" {
		t.Errorf("values() = %q", got)
	}

	opts := q.renderOptions()
	if opts.ColorMap != models.Plasma || opts.Resolution != 12 {
		t.Errorf("unexpected render options %+v", opts)
	}
}
