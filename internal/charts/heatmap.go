package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
)

const (
	heatmapMarginTop    = 50
	heatmapMarginLeft   = 130
	heatmapMarginBottom = 60
	heatmapMarginRight  = 90
	heatmapLegendWidth  = 18
)

// LabelStep returns the stride between axis labels so that at most
// resolution labels are drawn.
func LabelStep(count, resolution int) int {
	if resolution <= 0 || count <= resolution {
		return 1
	}
	return int(math.Ceil(float64(count) / float64(resolution)))
}

// renderHeatmap draws the pivot directly with the go-chart renderer; the
// library has no heatmap series of its own.
func renderHeatmap(w io.Writer, res models.RegionMonthPivot, format Format, opts Options) error {
	lo, hi, ok := res.Extent()
	if !ok || len(res.Months) == 0 {
		return ErrEmptyResult
	}

	r, err := format.provider()(opts.Width, opts.Height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)

	fillRect(r, 0, 0, opts.Width, opts.Height, drawing.ColorWhite)

	r.SetFontSize(14)
	r.Text(res.Title(), heatmapMarginLeft, heatmapMarginTop/2+5)

	gridW := opts.Width - heatmapMarginLeft - heatmapMarginRight
	gridH := opts.Height - heatmapMarginTop - heatmapMarginBottom
	cellW := float64(gridW) / float64(len(res.Months))
	cellH := float64(gridH) / float64(len(res.Regions))

	scale := NewColorScale(opts.ColorMap, lo, hi)
	for i := range res.Regions {
		for j := range res.Months {
			color := missingCellColor
			if res.Counts[i][j] > 0 {
				color = scale.At(res.Cells[i][j])
			}
			x0 := heatmapMarginLeft + int(math.Round(float64(j)*cellW))
			y0 := heatmapMarginTop + int(math.Round(float64(i)*cellH))
			x1 := heatmapMarginLeft + int(math.Round(float64(j+1)*cellW))
			y1 := heatmapMarginTop + int(math.Round(float64(i+1)*cellH))
			fillRect(r, x0, y0, x1, y1, color)
		}
	}

	r.SetFontSize(10)
	r.SetFontColor(drawing.ColorBlack)

	rowStep := LabelStep(len(res.Regions), opts.Resolution)
	for i := 0; i < len(res.Regions); i += rowStep {
		label := res.Regions[i]
		box := r.MeasureText(label)
		y := heatmapMarginTop + int((float64(i)+0.5)*cellH) + box.Height()/2
		r.Text(label, heatmapMarginLeft-box.Width()-8, y)
	}

	colStep := LabelStep(len(res.Months), opts.Resolution)
	for j := 0; j < len(res.Months); j += colStep {
		label := res.Months[j].String()
		box := r.MeasureText(label)
		x := heatmapMarginLeft + int((float64(j)+0.5)*cellW) - box.Width()/2
		r.Text(label, x, heatmapMarginTop+gridH+box.Height()+8)
	}

	drawLegend(r, scale, lo, hi, opts.Width-heatmapMarginRight+20, heatmapMarginTop, gridH)

	return r.Save(w)
}

func drawLegend(r chart.Renderer, scale ColorScale, lo, hi float64, x, y, height int) {
	const steps = 32
	stepH := float64(height) / steps
	for s := 0; s < steps; s++ {
		v := hi - (hi-lo)*float64(s)/float64(steps-1)
		y0 := y + int(math.Round(float64(s)*stepH))
		y1 := y + int(math.Round(float64(s+1)*stepH))
		fillRect(r, x, y0, x+heatmapLegendWidth, y1, scale.At(v))
	}

	r.SetFontSize(9)
	r.Text(chart.FloatValueFormatter(hi), x, y-6)
	r.Text(chart.FloatValueFormatter(lo), x, y+height+14)
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, color drawing.Color) {
	r.SetFillColor(color)
	r.SetStrokeColor(color)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}
