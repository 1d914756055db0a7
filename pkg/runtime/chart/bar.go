package chart

import (
	"strconv"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

// BarHeights scales values so the largest one fills h. Non-positive maxima
// give zero heights.
func BarHeights(values []float64, h float64) []float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	heights := make([]float64, len(values))
	if peak <= 0 {
		return heights
	}
	for i, v := range values {
		if v > 0 {
			heights[i] = h * v / peak
		}
	}
	return heights
}

// DrawFuelBars draws one bar per metric, labeled with its name and value. It
// draws nothing and returns false when there are no metrics.
func DrawFuelBars(c Canvas, f Frame, bars []domain.Bar, unit string, st Style) bool {
	if len(bars) == 0 {
		return false
	}

	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}

	plot := Frame{X: f.X, Y: f.Y + st.LabelHeight, W: f.W, H: f.H - 2*st.LabelHeight}
	if plot.H <= 0 {
		plot = f
	}
	base := plot.Y + plot.H
	slot := plot.W / float64(len(bars))
	width := slot * 0.5

	c.Line(plot.X, base, plot.X+plot.W, base, st.Axis, st.LineWidth/2)
	for i, h := range BarHeights(values, plot.H) {
		center := plot.X + slot*(float64(i)+0.5)
		c.Rect(center-width/2, base-h, width, h, st.bar(i))

		label := strconv.FormatFloat(values[i], 'f', -1, 64)
		if unit != "" {
			label += " " + unit
		}
		c.Text(center, base-h-st.LabelHeight, label, st.FontSize, st.Label)
		c.Text(center, base+st.LabelHeight/4, bars[i].Label, st.FontSize, st.Label)
	}
	return true
}
