package html

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/chart"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
)

// chart box in millimetres, the same box the PDF path draws into
const (
	chartWidth  = 172
	chartHeight = 50
	ptToMM      = 25.4 / 72
)

type document struct {
	Title        string
	Registration string
	Lines        []string
	Logo         template.URL
	Footer       string
	Sections     []sectionView
}

type sectionView struct {
	Title    string
	Depth    int
	Blurred  bool
	Upgrade  string
	Entries  []entryView
	Blocks   []blockView
	Children []sectionView
	Empty    string
}

type entryView struct {
	Label string
	Value string
	Class string
}

type blockView struct {
	Card       *cardView
	ChartTitle string
	Chart      template.HTML
	Image      *imageView
	Paragraph  string
}

type cardView struct {
	Title   string
	Badge   string
	Class   string
	Entries []entryView
	Groups  []groupView
}

type groupView struct {
	Title string
	Notes []noteView
}

type noteView struct {
	Text  string
	Class string
}

type imageView struct {
	Src     template.URL
	Caption string
}

func newDocument(r *domain.Report, title string) document {
	rc := r.Context
	doc := document{
		Title:        title,
		Registration: layout.PageHeader(rc),
		Lines:        layout.HeadingLines(rc),
		Logo:         dataURI(rc.Assets.Logo),
		Footer:       layout.PageHeader(rc),
	}
	for _, sec := range r.Sections {
		doc.Sections = append(doc.Sections, newSection(sec, 0))
	}
	return doc
}

func newSection(sec domain.Section, depth int) sectionView {
	v := sectionView{Title: sec.Title, Depth: depth}
	if sec.Blurred {
		v.Blurred = true
		v.Upgrade = layout.UpgradeMessage
		return v
	}
	v.Entries = entries(sec.Entries)
	for _, b := range sec.Blocks {
		if bv, ok := newBlock(b); ok {
			v.Blocks = append(v.Blocks, bv)
		}
	}
	for _, child := range sec.Children {
		v.Children = append(v.Children, newSection(child, depth+1))
	}
	if len(sec.Entries) == 0 && len(sec.Blocks) == 0 && len(sec.Children) == 0 {
		v.Empty = sec.Empty
	}
	return v
}

func entries(in []domain.GridEntry) []entryView {
	out := make([]entryView, 0, len(in))
	for _, e := range in {
		out = append(out, entryView{Label: e.Label, Value: e.Value, Class: string(e.Color)})
	}
	return out
}

func newBlock(b domain.Block) (blockView, bool) {
	switch v := b.(type) {
	case *domain.Card:
		card := &cardView{Title: v.Title, Badge: v.Badge, Class: string(v.Color), Entries: entries(v.Entries)}
		for _, g := range v.Groups {
			if len(g.Notes) == 0 {
				continue
			}
			gv := groupView{Title: g.Title}
			for _, n := range g.Notes {
				gv.Notes = append(gv.Notes, noteView{Text: n.Text, Class: string(n.Color)})
			}
			card.Groups = append(card.Groups, gv)
		}
		return blockView{Card: card}, true
	case *domain.LineChart:
		svg := chart.NewSVG(chartWidth, chartHeight)
		if !chart.DrawMileage(svg, frame(), v.Points, svgStyle()) {
			return blockView{}, false
		}
		return blockView{ChartTitle: v.Title, Chart: template.HTML(svg.String())}, true
	case *domain.BarChart:
		svg := chart.NewSVG(chartWidth, chartHeight)
		if !chart.DrawFuelBars(svg, frame(), v.Bars, v.Unit, svgStyle()) {
			return blockView{}, false
		}
		return blockView{ChartTitle: v.Title, Chart: template.HTML(svg.String())}, true
	case *domain.Image:
		return blockView{Image: &imageView{Src: dataURI(v.Data), Caption: v.Caption}}, true
	case *domain.Paragraph:
		return blockView{Paragraph: v.Text}, true
	}
	return blockView{}, false
}

func frame() chart.Frame {
	return chart.Frame{X: 4, Y: 1, W: chartWidth - 8, H: chartHeight - 2}
}

// svgStyle scales font sizes from points to the millimetre view box.
func svgStyle() chart.Style {
	st := chart.DefaultStyle()
	st.FontSize *= ptToMM
	return st
}

// dataURI embeds decodable image bytes. Anything else yields an empty URL and
// the template falls back to a placeholder.
func dataURI(data []byte) template.URL {
	if len(data) == 0 {
		return ""
	}
	_, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return template.URL("data:image/" + kind + ";base64," + base64.StdEncoding.EncodeToString(data))
}
