// Package charts draws aggregation results as PNG or SVG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
)

// ErrEmptyResult is returned when a result has nothing to draw. Callers
// treat it as a warning and show an empty chart.
var ErrEmptyResult = errors.New("empty chart result")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: unsupported image format %q", models.ErrInvalidSelection, s)
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

type Options struct {
	Width      int
	Height     int
	ColorMap   models.ColorMap
	Resolution int
}

func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     512,
		ColorMap:   models.Viridis,
		Resolution: models.DefaultResolution,
	}
}

// Render draws result to w.
func Render(w io.Writer, result models.Result, format Format, opts Options) error {
	if result == nil || result.Len() == 0 {
		return ErrEmptyResult
	}
	defaults := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}
	if opts.Resolution <= 0 {
		opts.Resolution = defaults.Resolution
	}

	switch res := result.(type) {
	case models.MonthlyMeanSeries:
		return renderLine(w, res, format, opts)
	case models.ScatterSeries:
		return renderScatter(w, res, format, opts)
	case models.RegionTotals:
		return renderBar(w, res, format, opts)
	case models.CategoryTotals:
		return renderPie(w, res, format, opts)
	case models.RegionMonthPivot:
		return renderHeatmap(w, res, format, opts)
	}
	return fmt.Errorf("render %T: unsupported result", result)
}

func renderLine(w io.Writer, res models.MonthlyMeanSeries, format Format, opts Options) error {
	xs := make([]time.Time, len(res.Points))
	ys := make([]float64, len(res.Points))
	for i, p := range res.Points {
		xs[i] = p.Month.Start()
		ys[i] = p.MeanSales
	}

	first, last := xs[0], xs[len(xs)-1]
	if !last.After(first) {
		first = first.AddDate(0, -1, 0)
		last = last.AddDate(0, 1, 0)
	}
	ylo, yhi := extent(ys)

	graph := chart.Chart{
		Title:      res.Title(),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Order Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(models.MonthLayout),
			Range:          &chart.ContinuousRange{Min: float64(first.UnixNano()), Max: float64(last.UnixNano())},
		},
		YAxis: chart.YAxis{
			Name:  "Sales",
			Range: paddedRange(ylo, yhi),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Sales",
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(format.provider(), w)
}

func renderScatter(w io.Writer, res models.ScatterSeries, format Format, opts Options) error {
	sales := make([]float64, 0, len(res.Points))
	profit := make([]float64, 0, len(res.Points))

	var series []chart.Series
	for i, segment := range res.Segments() {
		var xs, ys, discounts []float64
		for _, p := range res.Points {
			if p.CustomerSegment != segment {
				continue
			}
			xs = append(xs, p.Sales)
			ys = append(ys, p.Profit)
			discounts = append(discounts, p.Discount)
		}
		sales = append(sales, xs...)
		profit = append(profit, ys...)

		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name: segment,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    color,
				StrokeColor: drawing.ColorFromHex("2f4f4f"),
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return 3 + discounts[index]*12
				},
			},
			XValues: xs,
			YValues: ys,
		})
	}

	xlo, xhi := extent(sales)
	ylo, yhi := extent(profit)

	graph := chart.Chart{
		Title:      res.Title(),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Sales", Range: paddedRange(xlo, xhi)},
		YAxis:      chart.YAxis{Name: "Profit", Range: paddedRange(ylo, yhi)},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(format.provider(), w)
}

func renderBar(w io.Writer, res models.RegionTotals, format Format, opts Options) error {
	bars := make([]chart.Value, len(res.Totals))
	peak := 0.0
	for i, t := range res.Totals {
		bars[i] = chart.Value{Label: t.Region, Value: t.TotalSales}
		peak = math.Max(peak, t.TotalSales)
	}
	if peak == 0 {
		peak = 1
	}

	barWidth := (opts.Width - 100) / (2 * len(bars))
	barWidth = max(10, min(80, barWidth))

	graph := chart.BarChart{
		Title:      res.Title(),
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 50}},
		YAxis: chart.YAxis{
			Name:  "Total Sales",
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Bars: bars,
	}
	return graph.Render(format.provider(), w)
}

func renderPie(w io.Writer, res models.CategoryTotals, format Format, opts Options) error {
	values := make([]chart.Value, 0, len(res.Totals))
	total := 0.0
	for _, t := range res.Totals {
		if t.TotalSales <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: t.Category, Value: t.TotalSales})
		total += t.TotalSales
	}
	if total == 0 {
		return ErrEmptyResult
	}

	graph := chart.PieChart{
		Title:  res.Title(),
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	return graph.Render(format.provider(), w)
}

// extent returns the min and max of values; values must be non-empty.
func extent(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange widens [lo, hi] by 5% so points do not sit on the frame and a
// single value still yields a non-zero range.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
