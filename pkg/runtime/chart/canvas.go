// Package chart draws the report's mileage and fuel economy charts from
// rectangle, line, circle and text primitives.
package chart

import "fmt"

type RGB struct {
	R, G, B uint8
}

// Hex formats the color for markup outputs.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Canvas is the drawing surface charts are rendered onto. Coordinates are in
// the surface's own unit with y growing downwards. Text centers s horizontally
// on x with the top of the text at y.
type Canvas interface {
	Rect(x, y, w, h float64, fill RGB)
	Line(x1, y1, x2, y2 float64, stroke RGB, width float64)
	Circle(x, y, r float64, fill RGB)
	Text(x, y float64, s string, size float64, color RGB)
}

// Frame is the area a chart may draw in.
type Frame struct {
	X, Y, W, H float64
}

// Style holds the chart palette and the sizes that depend on the surface unit.
type Style struct {
	Line       RGB
	Marker     RGB
	Axis       RGB
	Label      RGB
	Bars       []RGB
	LineWidth  float64
	MarkerSize float64
	FontSize   float64
	// LabelHeight is the vertical space reserved for one row of labels.
	LabelHeight float64
}

// DefaultStyle is tuned for millimetre surfaces.
func DefaultStyle() Style {
	return Style{
		Line:        RGB{31, 94, 168},
		Marker:      RGB{20, 60, 110},
		Axis:        RGB{160, 160, 160},
		Label:       RGB{70, 70, 70},
		Bars:        []RGB{{76, 145, 65}, {31, 94, 168}, {230, 145, 56}},
		LineWidth:   0.6,
		MarkerSize:  1.2,
		FontSize:    7,
		LabelHeight: 4,
	}
}

func (s Style) bar(i int) RGB {
	if len(s.Bars) == 0 {
		return s.Line
	}
	return s.Bars[i%len(s.Bars)]
}
