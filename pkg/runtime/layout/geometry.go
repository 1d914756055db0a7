// Package layout places a report tree onto fixed-size pages. It measures and
// wraps text itself and breaks pages before committing any block, so grid
// rows and cards are never split.
package layout

import "github.com/de-tools/vehicle-atlas/pkg/runtime/chart"

// Geometry is the printable page area in millimetres.
type Geometry struct {
	PageWidth       float64
	PageHeight      float64
	MarginLeft      float64
	MarginRight     float64
	FirstTop        float64
	ContinuationTop float64
	Bottom          float64
	// FooterY is where the page number line is drawn, below Bottom.
	FooterY float64
}

// A4 is the report page: 15 mm side margins, a taller top on continuation
// pages to leave room for the header band.
func A4() Geometry {
	return Geometry{
		PageWidth:       210,
		PageHeight:      297,
		MarginLeft:      15,
		MarginRight:     15,
		FirstTop:        15,
		ContinuationTop: 28,
		Bottom:          282,
		FooterY:         287,
	}
}

func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Printable is the usable height of a continuation page.
func (g Geometry) Printable() float64 {
	return g.Bottom - g.ContinuationTop
}

// Cursor is the write position. It belongs to one Engine.
type Cursor struct {
	Y    float64
	Page int
}

// Style is a text style.
type Style struct {
	Size  float64 // points
	Bold  bool
	Color chart.RGB
}

const ptToMM = 25.4 / 72

// LineHeight is the vertical advance of one line of text in millimetres.
func (s Style) LineHeight() float64 {
	return s.Size * ptToMM * 1.25
}

// Theme carries the colors and text styles used by the engine.
type Theme struct {
	Title        Style
	SectionTitle Style
	SubTitle     Style
	Label        Style
	Value        Style
	Note         Style
	Small        Style

	Accent    chart.RGB
	Band      chart.RGB
	Rule      chart.RGB
	Good      chart.RGB
	Bad       chart.RGB
	Muted     chart.RGB
	BlurShade chart.RGB
	BlurBar   chart.RGB

	// Indent is applied per nesting level.
	Indent    float64
	ColumnGap float64
	RowGap    float64
	Gap       float64
	CardPad   float64
	Chart     chart.Style
}

func DefaultTheme() Theme {
	ink := chart.RGB{R: 33, G: 33, B: 33}
	return Theme{
		Title:        Style{Size: 16, Bold: true, Color: ink},
		SectionTitle: Style{Size: 12, Bold: true, Color: chart.RGB{R: 255, G: 255, B: 255}},
		SubTitle:     Style{Size: 10, Bold: true, Color: chart.RGB{R: 31, G: 94, B: 168}},
		Label:        Style{Size: 7.5, Bold: true, Color: chart.RGB{R: 110, G: 110, B: 110}},
		Value:        Style{Size: 9, Color: ink},
		Note:         Style{Size: 8, Color: ink},
		Small:        Style{Size: 7, Color: chart.RGB{R: 120, G: 120, B: 120}},

		Accent:    chart.RGB{R: 31, G: 94, B: 168},
		Band:      chart.RGB{R: 235, G: 240, B: 247},
		Rule:      chart.RGB{R: 210, G: 210, B: 210},
		Good:      chart.RGB{R: 46, G: 125, B: 50},
		Bad:       chart.RGB{R: 198, G: 40, B: 40},
		Muted:     chart.RGB{R: 120, G: 120, B: 120},
		BlurShade: chart.RGB{R: 238, G: 238, B: 238},
		BlurBar:   chart.RGB{R: 215, G: 215, B: 215},

		Indent:    4,
		ColumnGap: 6,
		RowGap:    1.5,
		Gap:       4,
		CardPad:   3,
		Chart:     chart.DefaultStyle(),
	}
}
