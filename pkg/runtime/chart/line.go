package chart

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

type XY struct {
	X, Y float64
}

// LinePoints maps values onto a w by h box: x spreads the points evenly and y
// is inverted so the largest value sits at the top. A flat series gets a range
// of 1, which puts every point on the bottom edge.
func LinePoints(values []float64, w, h float64) []XY {
	n := len(values)
	if n == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span < 1 {
		span = 1
	}

	points := make([]XY, n)
	for i, v := range values {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1) * w
		}
		points[i] = XY{X: x, Y: (1 - (v-lo)/span) * h}
	}
	return points
}

// DrawMileage draws the odometer trend with a marker on every reading. It
// draws nothing and returns false with fewer than two points.
func DrawMileage(c Canvas, f Frame, points []domain.Point, st Style) bool {
	if len(points) < 2 {
		return false
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	// room for value labels above and date labels below the plot
	plot := Frame{X: f.X, Y: f.Y + st.LabelHeight, W: f.W, H: f.H - 2*st.LabelHeight}
	if plot.H <= 0 {
		plot.H = f.H
		plot.Y = f.Y
	}

	c.Line(plot.X, plot.Y+plot.H, plot.X+plot.W, plot.Y+plot.H, st.Axis, st.LineWidth/2)

	xy := LinePoints(values, plot.W, plot.H)
	for i := 1; i < len(xy); i++ {
		c.Line(plot.X+xy[i-1].X, plot.Y+xy[i-1].Y, plot.X+xy[i].X, plot.Y+xy[i].Y, st.Line, st.LineWidth)
	}
	for i, p := range xy {
		x, y := plot.X+p.X, plot.Y+p.Y
		c.Circle(x, y, st.MarkerSize, st.Marker)
		c.Text(x, y-st.LabelHeight, humanize.Comma(int64(math.Round(values[i]))), st.FontSize, st.Label)
		c.Text(x, plot.Y+plot.H+st.LabelHeight/4, points[i].Label, st.FontSize, st.Label)
	}
	return true
}
