package chart

import (
	"fmt"
	"html"
	"strings"
)

// SVG is a Canvas that records primitives as SVG markup. Units are whatever
// the caller picks for the view box.
type SVG struct {
	width, height float64
	sb            strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

func (s *SVG) Rect(x, y, w, h float64, fill RGB) {
	fmt.Fprintf(&s.sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`, x, y, w, h, fill.Hex())
}

func (s *SVG) Line(x1, y1, x2, y2 float64, stroke RGB, width float64) {
	fmt.Fprintf(&s.sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`,
		x1, y1, x2, y2, stroke.Hex(), width)
}

func (s *SVG) Circle(x, y, r float64, fill RGB) {
	fmt.Fprintf(&s.sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, x, y, r, fill.Hex())
}

// Text converts the top of the text box to an SVG baseline.
func (s *SVG) Text(x, y float64, text string, size float64, color RGB) {
	fmt.Fprintf(&s.sb, `<text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="hanging">%s</text>`,
		x, y, size, color.Hex(), html.EscapeString(text))
}

// String returns the complete SVG document.
func (s *SVG) String() string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="100%%" preserveAspectRatio="xMidYMid meet">%s</svg>`,
		s.width, s.height, s.sb.String())
}
