package charts

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
)

// Five evenly spaced stops sampled from each matplotlib color map.
var colorStops = map[models.ColorMap][]drawing.Color{
	models.Viridis: {
		drawing.ColorFromHex("440154"),
		drawing.ColorFromHex("3b528b"),
		drawing.ColorFromHex("21918c"),
		drawing.ColorFromHex("5ec962"),
		drawing.ColorFromHex("fde725"),
	},
	models.Plasma: {
		drawing.ColorFromHex("0d0887"),
		drawing.ColorFromHex("7e03a8"),
		drawing.ColorFromHex("cc4778"),
		drawing.ColorFromHex("f89540"),
		drawing.ColorFromHex("f0f921"),
	},
	models.Inferno: {
		drawing.ColorFromHex("000004"),
		drawing.ColorFromHex("57106e"),
		drawing.ColorFromHex("bc3754"),
		drawing.ColorFromHex("f98e09"),
		drawing.ColorFromHex("fcffa4"),
	},
	models.Magma: {
		drawing.ColorFromHex("000004"),
		drawing.ColorFromHex("51127c"),
		drawing.ColorFromHex("b73779"),
		drawing.ColorFromHex("fc8961"),
		drawing.ColorFromHex("fcfdbf"),
	},
}

var missingCellColor = drawing.ColorFromHex("eeeeee")

// ColorScale maps values in [lo, hi] onto a color map.
type ColorScale struct {
	stops  []drawing.Color
	lo, hi float64
}

func NewColorScale(cm models.ColorMap, lo, hi float64) ColorScale {
	stops, ok := colorStops[cm]
	if !ok {
		stops = colorStops[models.Viridis]
	}
	return ColorScale{stops: stops, lo: lo, hi: hi}
}

func (s ColorScale) At(v float64) drawing.Color {
	t := 0.5
	if s.hi > s.lo {
		t = (v - s.lo) / (s.hi - s.lo)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(s.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(s.stops)-1 {
		return s.stops[len(s.stops)-1]
	}
	frac := pos - float64(i)
	a, b := s.stops[i], s.stops[i+1]
	return drawing.Color{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

// Hex formats a color as #rrggbb for HTML output.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
