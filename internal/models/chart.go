package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelection is returned when a user selection names an unknown
// chart mode, color map or an out-of-range option.
var ErrInvalidSelection = errors.New("invalid selection")

// ChartMode is the closed set of visualizations the dashboard offers.
type ChartMode int

const (
	LinePlot ChartMode = iota + 1
	ScatterPlot
	BarChart
	PieChart
	Heatmap
)

var chartModes = []ChartMode{LinePlot, ScatterPlot, BarChart, PieChart, Heatmap}

// ChartModes lists every mode in selector order.
func ChartModes() []ChartMode {
	return append([]ChartMode(nil), chartModes...)
}

// ParseChartMode accepts a slug ("line") or a label ("Line Plot"), case-insensitively.
func ParseChartMode(s string) (ChartMode, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, m := range chartModes {
		if needle == m.Slug() || needle == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown chart mode %q", ErrInvalidSelection, s)
}

func (m ChartMode) String() string {
	switch m {
	case LinePlot:
		return "Line Plot"
	case ScatterPlot:
		return "Scatter Plot"
	case BarChart:
		return "Bar Chart"
	case PieChart:
		return "Pie Chart"
	case Heatmap:
		return "Heatmap"
	}
	return fmt.Sprintf("ChartMode(%d)", int(m))
}

func (m ChartMode) Slug() string {
	switch m {
	case LinePlot:
		return "line"
	case ScatterPlot:
		return "scatter"
	case BarChart:
		return "bar"
	case PieChart:
		return "pie"
	case Heatmap:
		return "heatmap"
	}
	return ""
}

// Filterable reports whether the mode honours category and date filters.
// Pie and heatmap always summarize the full dataset.
func (m ChartMode) Filterable() bool {
	return m == LinePlot || m == ScatterPlot || m == BarChart
}

func (m ChartMode) MarshalText() ([]byte, error) {
	return []byte(m.Slug()), nil
}

// ColorMap selects the heatmap color scale.
type ColorMap string

const (
	Viridis ColorMap = "Viridis"
	Plasma  ColorMap = "Plasma"
	Inferno ColorMap = "Inferno"
	Magma   ColorMap = "Magma"
)

func ColorMaps() []ColorMap {
	return []ColorMap{Viridis, Plasma, Inferno, Magma}
}

// ParseColorMap is case-insensitive; an empty string selects Viridis.
func ParseColorMap(s string) (ColorMap, error) {
	if strings.TrimSpace(s) == "" {
		return Viridis, nil
	}
	for _, c := range ColorMaps() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown color map %q", ErrInvalidSelection, s)
}

const (
	MinResolution     = 4
	MaxResolution     = 20
	DefaultResolution = 10
)

// ValidateResolution checks a heatmap tick count; zero selects the default.
func ValidateResolution(n int) (int, error) {
	if n == 0 {
		return DefaultResolution, nil
	}
	if n < MinResolution || n > MaxResolution {
		return 0, fmt.Errorf("%w: resolution %d outside [%d, %d]", ErrInvalidSelection, n, MinResolution, MaxResolution)
	}
	return n, nil
}
