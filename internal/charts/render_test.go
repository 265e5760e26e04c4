package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func jan() models.Month { return models.Month{Year: 2023, Month: 1} }
func feb() models.Month { return models.Month{Year: 2023, Month: 2} }

func sampleResults() map[string]models.Result {
	return map[string]models.Result{
		"line": models.MonthlyMeanSeries{
			Category: "Tech",
			Points: []models.MonthlyMean{
				{Month: jan(), MeanSales: 15, Orders: 2},
				{Month: feb(), MeanSales: 30, Orders: 1},
			},
		},
		"line single month": models.MonthlyMeanSeries{
			Points: []models.MonthlyMean{{Month: jan(), MeanSales: 15, Orders: 2}},
		},
		"scatter": models.ScatterSeries{
			Points: []models.ScatterPoint{
				{Sales: 100, Profit: 20, CustomerSegment: "Consumer", Discount: 0.1},
				{Sales: 50, Profit: -5, CustomerSegment: "Corporate", Discount: 0.3},
				{Sales: 75, Profit: 10, CustomerSegment: "Consumer", Discount: 0},
			},
		},
		"bar": models.RegionTotals{
			Totals: []models.RegionTotal{{Region: "East", TotalSales: 150}, {Region: "West", TotalSales: 30}},
		},
		"pie": models.CategoryTotals{
			Totals: []models.CategoryTotal{{Category: "Office", TotalSales: 40}, {Category: "Tech", TotalSales: 60}},
		},
		"heatmap": models.RegionMonthPivot{
			Regions: []string{"A", "B"},
			Months:  []models.Month{jan(), feb()},
			Cells:   [][]float64{{10, 5}, {0, 7}},
			Counts:  [][]int{{1, 1}, {0, 1}},
		},
	}
}

func TestRenderPNG(t *testing.T) {
	for name, res := range sampleResults() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, res, PNG, DefaultOptions())
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is not a PNG")
		})
	}
}

func TestRenderSVG(t *testing.T) {
	for name, res := range sampleResults() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, res, SVG, DefaultOptions())
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderEmptyResult(t *testing.T) {
	empties := []models.Result{
		models.MonthlyMeanSeries{},
		models.ScatterSeries{},
		models.RegionTotals{},
		models.CategoryTotals{},
		models.RegionMonthPivot{},
		models.CategoryTotals{Totals: []models.CategoryTotal{{Category: "Tech", TotalSales: 0}}},
		nil,
	}
	for _, res := range empties {
		var buf bytes.Buffer
		err := Render(&buf, res, PNG, DefaultOptions())
		assert.ErrorIs(t, err, ErrEmptyResult)
		assert.Zero(t, buf.Len())
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, models.ErrInvalidSelection)
}

func TestColorScale(t *testing.T) {
	scale := NewColorScale(models.Viridis, 0, 100)

	assert.Equal(t, "#440154", Hex(scale.At(0)))
	assert.Equal(t, "#fde725", Hex(scale.At(100)))
	assert.Equal(t, "#21918c", Hex(scale.At(50)))

	// out of range values clamp to the ends
	assert.Equal(t, Hex(scale.At(0)), Hex(scale.At(-10)))
	assert.Equal(t, Hex(scale.At(100)), Hex(scale.At(1e6)))

	flat := NewColorScale(models.Magma, 5, 5)
	assert.Equal(t, "#b73779", Hex(flat.At(5)))

	unknown := NewColorScale(models.ColorMap("nope"), 0, 1)
	assert.Equal(t, "#440154", Hex(unknown.At(0)))
}

func TestLabelStep(t *testing.T) {
	assert.Equal(t, 1, LabelStep(5, 10))
	assert.Equal(t, 1, LabelStep(10, 10))
	assert.Equal(t, 2, LabelStep(20, 10))
	assert.Equal(t, 3, LabelStep(25, 10))
	assert.Equal(t, 9, LabelStep(36, 4))
	assert.Equal(t, 1, LabelStep(36, 0))
}
