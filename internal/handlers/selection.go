package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// openEnd stands in for a missing end date.
var openEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// chartQuery is everything a chart request can carry: the selection itself
// plus heatmap presentation options.
type chartQuery struct {
	Selection  services.Selection
	ColorMap   models.ColorMap
	Resolution int
}

// chartSignals mirrors the datastar signals the dashboard page declares.
type chartSignals struct {
	Mode       string `json:"mode"`
	Category   string `json:"category"`
	Start      string `json:"start"`
	End        string `json:"end"`
	ColorMap   string `json:"colorMap"`
	Resolution int    `json:"resolution"`
}

func (s chartSignals) query() (chartQuery, error) {
	return buildQuery(s.Mode, s.Category, s.Start, s.End, s.ColorMap, s.Resolution)
}

// parseChartQuery reads a chart request from the {mode} path value and the
// category, start, end, colormap and resolution query parameters.
func parseChartQuery(mode string, q url.Values) (chartQuery, error) {
	resolution := 0
	if raw := strings.TrimSpace(q.Get("resolution")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return chartQuery{}, fmt.Errorf("%w: resolution %q is not a number", models.ErrInvalidSelection, raw)
		}
		resolution = n
	}
	return buildQuery(mode, q.Get("category"), q.Get("start"), q.Get("end"), q.Get("colormap"), resolution)
}

func buildQuery(mode, category, start, end, colorMap string, resolution int) (chartQuery, error) {
	m, err := models.ParseChartMode(mode)
	if err != nil {
		return chartQuery{}, err
	}
	dates, err := parseDates(start, end)
	if err != nil {
		return chartQuery{}, err
	}
	cm, err := models.ParseColorMap(colorMap)
	if err != nil {
		return chartQuery{}, err
	}
	res, err := models.ValidateResolution(resolution)
	if err != nil {
		return chartQuery{}, err
	}

	return chartQuery{
		Selection: services.Selection{
			Mode: m,
			Filter: services.Filter{
				Category: strings.TrimSpace(category),
				Dates:    dates,
			},
		},
		ColorMap:   cm,
		Resolution: res,
	}, nil
}

// parseDates returns nil when neither bound is given. A missing bound leaves
// that side of the range open.
func parseDates(start, end string) (*models.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}

	var from, to time.Time
	to = openEnd
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return nil, fmt.Errorf("%w: start date %q", models.ErrInvalidSelection, start)
		}
		from = t
	}
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return nil, fmt.Errorf("%w: end date %q", models.ErrInvalidSelection, end)
		}
		to = t
	}

	r := models.NewDateRange(from, to)
	return &r, nil
}

func (q chartQuery) renderOptions() charts.Options {
	opts := charts.DefaultOptions()
	opts.ColorMap = q.ColorMap
	opts.Resolution = q.Resolution
	return opts
}

// values encodes q back into query parameters for image and export links.
func (q chartQuery) values() url.Values {
	v := url.Values{}
	f := q.Selection.Filter
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Dates != nil {
		if !f.Dates.Start.IsZero() {
			v.Set("start", f.Dates.Start.Format(models.DateLayout))
		}
		if !f.Dates.End.Equal(openEnd) {
			v.Set("end", f.Dates.End.Format(models.DateLayout))
		}
	}
	if q.Selection.Mode == models.Heatmap {
		v.Set("colormap", string(q.ColorMap))
		v.Set("resolution", strconv.Itoa(q.Resolution))
	}
	return v
}
