package models

import (
	"fmt"
	"slices"
)

// Result is the chart-specific output of an aggregation. The set of
// implementations is closed to this package.
type Result interface {
	Mode() ChartMode
	Title() string
	Len() int
	Clone() Result
	isResult()
}

type MonthlyMean struct {
	Month     Month   `json:"month"`
	MeanSales float64 `json:"mean_sales"`
	Orders    int     `json:"orders"`
}

// MonthlyMeanSeries feeds the line plot.
type MonthlyMeanSeries struct {
	Category string        `json:"category,omitempty"`
	Points   []MonthlyMean `json:"points"`
}

func (s MonthlyMeanSeries) Mode() ChartMode { return LinePlot }
func (s MonthlyMeanSeries) Len() int        { return len(s.Points) }
func (s MonthlyMeanSeries) isResult()       {}

func (s MonthlyMeanSeries) Title() string {
	return fmt.Sprintf("Monthly Average Sales Trends for %s", labelOrAll(s.Category))
}

func (s MonthlyMeanSeries) Clone() Result {
	s.Points = slices.Clone(s.Points)
	return s
}

type ScatterPoint struct {
	Sales           float64 `json:"sales"`
	Profit          float64 `json:"profit"`
	CustomerSegment string  `json:"customer_segment"`
	Discount        float64 `json:"discount"`
	ProductName     string  `json:"product_name"`
}

// ScatterSeries feeds the sales vs profit scatter plot.
type ScatterSeries struct {
	Category string         `json:"category,omitempty"`
	Points   []ScatterPoint `json:"points"`
}

func (s ScatterSeries) Mode() ChartMode { return ScatterPlot }
func (s ScatterSeries) Len() int        { return len(s.Points) }
func (s ScatterSeries) isResult()       {}

func (s ScatterSeries) Title() string {
	return fmt.Sprintf("Sales vs Profit for %s", labelOrAll(s.Category))
}

func (s ScatterSeries) Clone() Result {
	s.Points = slices.Clone(s.Points)
	return s
}

// Segments returns the distinct customer segments in first-appearance order.
func (s ScatterSeries) Segments() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.Points {
		if !seen[p.CustomerSegment] {
			seen[p.CustomerSegment] = true
			out = append(out, p.CustomerSegment)
		}
	}
	return out
}

type RegionTotal struct {
	Region     string  `json:"region"`
	TotalSales float64 `json:"total_sales"`
}

// RegionTotals feeds the bar chart.
type RegionTotals struct {
	Category string        `json:"category,omitempty"`
	Totals   []RegionTotal `json:"totals"`
}

func (r RegionTotals) Mode() ChartMode { return BarChart }
func (r RegionTotals) Len() int        { return len(r.Totals) }
func (r RegionTotals) isResult()       {}

func (r RegionTotals) Title() string {
	return fmt.Sprintf("Sales Distribution by Region for %s", labelOrAll(r.Category))
}

func (r RegionTotals) Clone() Result {
	r.Totals = slices.Clone(r.Totals)
	return r
}

type CategoryTotal struct {
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
}

// CategoryTotals feeds the pie chart; always computed over the full dataset.
type CategoryTotals struct {
	Totals []CategoryTotal `json:"totals"`
}

func (c CategoryTotals) Mode() ChartMode { return PieChart }
func (c CategoryTotals) Len() int        { return len(c.Totals) }
func (c CategoryTotals) Title() string   { return "Sales Distribution by Product Category" }
func (c CategoryTotals) isResult()       {}

func (c CategoryTotals) Clone() Result {
	c.Totals = slices.Clone(c.Totals)
	return c
}

// RegionMonthPivot feeds the heatmap. Rows are regions in alphabetical
// order, columns are months in chronological order. Cells[i][j] is the sales
// sum for (Regions[i], Months[j]); Counts[i][j] is zero where no records exist.
type RegionMonthPivot struct {
	Regions []string    `json:"regions"`
	Months  []Month     `json:"months"`
	Cells   [][]float64 `json:"cells"`
	Counts  [][]int     `json:"counts"`
}

func (p RegionMonthPivot) Mode() ChartMode { return Heatmap }
func (p RegionMonthPivot) Len() int        { return len(p.Regions) }
func (p RegionMonthPivot) Title() string   { return "Sales Heatmap by Region" }
func (p RegionMonthPivot) isResult()       {}

func (p RegionMonthPivot) Clone() Result {
	out := RegionMonthPivot{
		Regions: slices.Clone(p.Regions),
		Months:  slices.Clone(p.Months),
		Cells:   make([][]float64, len(p.Cells)),
		Counts:  make([][]int, len(p.Counts)),
	}
	for i := range p.Cells {
		out.Cells[i] = slices.Clone(p.Cells[i])
	}
	for i := range p.Counts {
		out.Counts[i] = slices.Clone(p.Counts[i])
	}
	return out
}

// Cell returns the sum for a (region, month) pair. ok is false when the pair
// had no records; the returned value is then zero.
func (p RegionMonthPivot) Cell(region string, month Month) (float64, bool) {
	i := slices.Index(p.Regions, region)
	j := slices.IndexFunc(p.Months, func(m Month) bool { return m == month })
	if i < 0 || j < 0 {
		return 0, false
	}
	return p.Cells[i][j], p.Counts[i][j] > 0
}

// Extent returns the smallest and largest populated cell values.
func (p RegionMonthPivot) Extent() (lo, hi float64, ok bool) {
	for i := range p.Cells {
		for j, v := range p.Cells[i] {
			if p.Counts[i][j] == 0 {
				continue
			}
			if !ok || v < lo {
				lo = v
			}
			if !ok || v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

func labelOrAll(category string) string {
	if category == "" {
		return "All Categories"
	}
	return category
}
