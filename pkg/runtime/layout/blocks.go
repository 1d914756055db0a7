package layout

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/chart"
)

const (
	chartHeight    = 50
	imageMaxWidth  = 90
	imageMaxHeight = 70
)

func (e *Engine) block(b domain.Block, x, w float64) {
	switch v := b.(type) {
	case *domain.Card:
		e.card(v, x, w)
	case *domain.LineChart:
		e.lineChart(v, x, w)
	case *domain.BarChart:
		e.barChart(v, x, w)
	case *domain.Paragraph:
		e.paragraph(v.Text, x, w, e.theme.Note)
	case *domain.Image:
		e.image(v, x, w)
	}
}

// blockHeight is used for keep-with-title decisions only.
func (e *Engine) blockHeight(b domain.Block, w float64) float64 {
	switch v := b.(type) {
	case *domain.Card:
		return min(e.cardHeight(e.cardItems(v, w-2*e.theme.CardPad)), e.geo.Printable())
	case *domain.LineChart, *domain.BarChart:
		return e.chartBlockHeight()
	case *domain.Paragraph:
		return e.theme.Note.LineHeight()
	case *domain.Image:
		_, h := e.imageBox(v.Data, w)
		return h + e.captionHeight(v.Caption, w)
	}
	return 0
}

// cardItem is one unsplittable line of a card.
type cardItem struct {
	h    float64
	draw func(x, y float64)
}

func (e *Engine) cardHeight(items []cardItem) float64 {
	h := 2 * e.theme.CardPad
	for _, it := range items {
		h += it.h
	}
	return h
}

func (e *Engine) cardItems(c *domain.Card, innerW float64) []cardItem {
	t := e.theme
	items := []cardItem{e.cardHeader(c.Title, c.Badge, c.Color, innerW)}

	// a row must fit one continued chunk, otherwise it is flowed line by line
	limit := e.geo.Printable() - 2*t.CardPad - items[0].h
	colW := e.columnWidth(innerW)
	for i := 0; i < len(c.Entries); i += 2 {
		row := c.Entries[i:min(i+2, len(c.Entries))]
		cells := make([]cell, len(row))
		h := 0.0
		for j, entry := range row {
			cells[j] = e.cellFor(entry, colW)
			h = max(h, e.cellHeight(cells[j]))
		}
		if h+t.RowGap > limit {
			items = append(items, e.flowItems(row, innerW)...)
			continue
		}
		items = append(items, cardItem{h: h + t.RowGap, draw: func(x, y float64) {
			for j, c := range cells {
				e.drawCell(c, x+float64(j)*(colW+t.ColumnGap), y)
			}
		}})
	}

	for _, g := range c.Groups {
		if len(g.Notes) == 0 {
			continue
		}
		title := g.Title
		items = append(items, cardItem{h: t.Label.LineHeight() + 1, draw: func(x, y float64) {
			e.s.DrawText(x, y+0.5, title, t.Label)
		}})
		for _, n := range g.Notes {
			st := e.noteStyle(n.Color)
			lines := Wrap(e.s, n.Text, innerW-3, st)
			for i, l := range lines {
				bullet := i == 0
				text := l
				items = append(items, cardItem{h: st.LineHeight(), draw: func(x, y float64) {
					if bullet {
						e.s.DrawText(x, y, "-", st)
					}
					e.s.DrawText(x+3, y, text, st)
				}})
			}
		}
	}
	return items
}

// flowItems writes each entry of row across the full card width, one item
// per line.
func (e *Engine) flowItems(row []domain.GridEntry, w float64) []cardItem {
	t := e.theme
	var items []cardItem
	addLines := func(text string, st Style) {
		for _, l := range Wrap(e.s, text, w, st) {
			line := l
			items = append(items, cardItem{h: st.LineHeight(), draw: func(x, y float64) {
				e.s.DrawText(x, y, line, st)
			}})
		}
	}
	for _, entry := range row {
		addLines(entry.Label, t.Label)
		addLines(entry.Value, e.valueStyle(entry.Color))
		items = append(items, cardItem{h: t.RowGap, draw: func(float64, float64) {}})
	}
	return items
}

func (e *Engine) noteStyle(c domain.Color) Style {
	st := e.theme.Note
	switch c {
	case domain.ColorGood:
		st.Color = e.theme.Good
	case domain.ColorBad:
		st.Color = e.theme.Bad
	}
	return st
}

func (e *Engine) cardHeader(title, badge string, color domain.Color, innerW float64) cardItem {
	t := e.theme
	st := t.SubTitle
	st.Size = 9.5
	return cardItem{h: st.LineHeight() + 2, draw: func(x, y float64) {
		e.s.DrawText(x, y, title, st)
		if badge == "" {
			return
		}
		bs := Style{Size: 7.5, Bold: true, Color: chart.RGB{R: 255, G: 255, B: 255}}
		bw := e.s.TextWidth(badge, bs) + 4
		bx := x + innerW - bw
		e.s.Rect(bx, y-0.5, bw, bs.LineHeight()+1, e.accent(color))
		e.s.DrawText(bx+2, y, badge, bs)
	}}
}

func (e *Engine) accent(c domain.Color) chart.RGB {
	switch c {
	case domain.ColorGood:
		return e.theme.Good
	case domain.ColorBad:
		return e.theme.Bad
	}
	return e.theme.Accent
}

// card keeps the whole card on one page. Only a card taller than a page is
// split, into chunks headed "continued".
func (e *Engine) card(c *domain.Card, x, w float64) {
	t := e.theme
	pad := t.CardPad
	innerW := w - 2*pad
	items := e.cardItems(c, innerW)

	if total := e.cardHeight(items); total <= e.geo.Printable() {
		e.ensure(total)
	} else {
		e.ensure(2*pad + items[0].h)
	}

	start := e.cur.Y
	y := start + pad
	for i, it := range items {
		if i > 0 && y+it.h+pad > e.geo.Bottom {
			e.frame(x, start, w, y+pad-start, c.Color)
			e.commit("card", y+pad-start)
			e.newPage()

			cont := e.cardHeader(c.Title+" (continued)", "", c.Color, innerW)
			start = e.cur.Y
			y = start + pad
			cont.draw(x+pad, y)
			y += cont.h
		}
		it.draw(x+pad, y)
		y += it.h
	}
	e.frame(x, start, w, y+pad-start, c.Color)
	e.commit("card", y+pad-start)
	e.advance(t.Gap / 2)
}

func (e *Engine) frame(x, y, w, h float64, c domain.Color) {
	rule := e.theme.Rule
	e.s.Line(x, y, x+w, y, rule, 0.2)
	e.s.Line(x+w, y, x+w, y+h, rule, 0.2)
	e.s.Line(x, y+h, x+w, y+h, rule, 0.2)
	e.s.Line(x, y, x, y+h, rule, 0.2)
	e.s.Rect(x, y, 1.2, h, e.accent(c))
}

func (e *Engine) chartBlockHeight() float64 {
	return e.theme.SubTitle.LineHeight() + 1 + chartHeight + e.theme.Gap
}

func (e *Engine) lineChart(c *domain.LineChart, x, w float64) {
	if len(c.Points) < 2 {
		return
	}
	h := e.chartBlockHeight()
	e.ensure(h)
	y := e.chartTitle(c.Title, x)
	chart.DrawMileage(e.s, chart.Frame{X: x + 4, Y: y, W: w - 8, H: chartHeight}, c.Points, e.theme.Chart)
	e.commit("chart", h)
}

func (e *Engine) barChart(c *domain.BarChart, x, w float64) {
	if len(c.Bars) == 0 {
		return
	}
	h := e.chartBlockHeight()
	e.ensure(h)
	y := e.chartTitle(c.Title, x)
	chart.DrawFuelBars(e.s, chart.Frame{X: x + 4, Y: y, W: w - 8, H: chartHeight}, c.Bars, c.Unit, e.theme.Chart)
	e.commit("chart", h)
}

func (e *Engine) chartTitle(title string, x float64) float64 {
	st := e.theme.SubTitle
	e.s.DrawText(x, e.cur.Y, title, st)
	return e.cur.Y + st.LineHeight() + 1
}

// imageBox scales image data to fit the column, keeping its aspect ratio.
// Undecodable data gets a fixed placeholder box.
func (e *Engine) imageBox(data []byte, w float64) (float64, float64) {
	bw := min(w, imageMaxWidth)
	iw, ih, ok := imageSize(data)
	if !ok || iw <= 0 || ih <= 0 {
		return bw, bw * 0.6
	}
	bh := bw * ih / iw
	if bh > imageMaxHeight {
		bh = imageMaxHeight
		bw = bh * iw / ih
	}
	return bw, bh
}

func (e *Engine) captionHeight(caption string, w float64) float64 {
	if caption == "" {
		return e.theme.RowGap
	}
	return TextHeight(e.s, caption, w, e.theme.Small) + e.theme.RowGap
}

func (e *Engine) image(img *domain.Image, x, w float64) {
	bw, bh := e.imageBox(img.Data, w)
	capH := e.captionHeight(img.Caption, w)
	e.ensure(bh + capH)

	y := e.cur.Y
	if len(img.Data) == 0 || e.s.Image(img.Name, img.Data, x, y, bw, bh) != nil {
		e.s.Rect(x, y, bw, bh, e.theme.BlurShade)
		e.s.Text(x+bw/2, y+bh/2-2, "Image unavailable", e.theme.Small.Size, e.theme.Muted)
	}
	cy := y + bh + 0.5
	for _, l := range Wrap(e.s, img.Caption, w, e.theme.Small) {
		if l == "" {
			continue
		}
		e.s.DrawText(x, cy, l, e.theme.Small)
		cy += e.theme.Small.LineHeight()
	}
	e.commit("image", bh+capH)
}

func imageSize(data []byte) (float64, float64, bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return float64(cfg.Width), float64(cfg.Height), true
}
