package pdf

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/chart"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
)

const (
	ptToMM     = 25.4 / 72
	fontFamily = "Helvetica"
	// ascent places the baseline of a line whose top is at y.
	ascent = 0.8
)

type font struct {
	bold bool
	size float64
}

// surface implements layout.Surface on one fpdf document.
type surface struct {
	doc       *fpdf.Fpdf
	translate func(string) string
	current   font
	images    map[string]string
}

var _ layout.Surface = (*surface)(nil)

func newSurface(doc *fpdf.Fpdf, translate func(string) string) *surface {
	return &surface{doc: doc, translate: translate, images: make(map[string]string)}
}

func (s *surface) setFont(f font) {
	if f == s.current {
		return
	}
	style := ""
	if f.bold {
		style = "B"
	}
	s.doc.SetFont(fontFamily, style, f.size)
	s.current = f
}

func (s *surface) AddPage() {
	s.doc.AddPage()
	// select the font again on the new page
	s.current = font{}
}

func (s *surface) TextWidth(text string, st layout.Style) float64 {
	s.setFont(font{bold: st.Bold, size: st.Size})
	return s.doc.GetStringWidth(s.translate(text))
}

func (s *surface) DrawText(x, y float64, text string, st layout.Style) {
	if text == "" {
		return
	}
	s.setFont(font{bold: st.Bold, size: st.Size})
	setText(s.doc, st.Color)
	s.doc.Text(x, y+st.Size*ptToMM*ascent, s.translate(text))
}

func (s *surface) Text(x, y float64, text string, size float64, c chart.RGB) {
	if text == "" {
		return
	}
	s.setFont(font{size: size})
	setText(s.doc, c)
	t := s.translate(text)
	s.doc.Text(x-s.doc.GetStringWidth(t)/2, y+size*ptToMM*ascent, t)
}

func (s *surface) Rect(x, y, w, h float64, fill chart.RGB) {
	s.doc.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	s.doc.Rect(x, y, w, h, "F")
}

func (s *surface) Line(x1, y1, x2, y2 float64, stroke chart.RGB, width float64) {
	s.doc.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	s.doc.SetLineWidth(width)
	s.doc.Line(x1, y1, x2, y2)
}

func (s *surface) Circle(x, y, r float64, fill chart.RGB) {
	s.doc.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	s.doc.Circle(x, y, r, "F")
}

// Image registers data once per distinct content and draws it. Data fpdf
// cannot embed is reported and leaves the document usable.
func (s *surface) Image(name string, data []byte, x, y, w, h float64) error {
	key, err := s.register(name, data)
	if err != nil {
		return err
	}
	s.doc.ImageOptions(key, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
	return nil
}

func (s *surface) register(name string, data []byte) (string, error) {
	sum := sha1.Sum(data)
	digest := hex.EncodeToString(sum[:8])
	if key, ok := s.images[digest]; ok {
		return key, nil
	}

	_, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %q: %w", name, err)
	}
	imageType, ok := imageTypes[kind]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q for %q", kind, name)
	}

	key := name + "-" + digest
	s.doc.RegisterImageOptionsReader(key, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if err := s.doc.Error(); err != nil {
		s.doc.ClearError()
		return "", fmt.Errorf("failed to embed image %q: %w", name, err)
	}
	s.images[digest] = key
	return key, nil
}

var imageTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
	"gif":  "GIF",
}

func setText(doc *fpdf.Fpdf, c chart.RGB) {
	doc.SetTextColor(int(c.R), int(c.G), int(c.B))
}
