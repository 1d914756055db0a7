package layout

import (
	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

const blurHeight = 30

// UpgradeMessage is shown over a blurred section.
const UpgradeMessage = "Upgrade to the full report to view this section"

// RenderSection lays out sec and its children. Depth only indents; every level
// keeps the two-column grid.
func (e *Engine) RenderSection(sec domain.Section, depth int) {
	e.Start()
	x, w := e.column(depth)

	titleH := e.titleHeight(depth)
	if first := e.firstContentHeight(sec, w); titleH+first <= e.geo.Printable() {
		e.ensure(titleH + first)
	} else {
		e.ensure(titleH)
	}
	e.title(sec.Title, depth, x, w)

	if sec.Blurred {
		e.blur(x, w)
		e.advance(e.theme.Gap)
		return
	}

	e.grid(sec.Entries, x, w)
	for _, b := range sec.Blocks {
		e.block(b, x, w)
	}
	if len(sec.Entries) == 0 && len(sec.Blocks) == 0 && len(sec.Children) == 0 && sec.Empty != "" {
		e.paragraph(sec.Empty, x, w, e.theme.Small)
	}
	for _, child := range sec.Children {
		e.RenderSection(child, depth+1)
	}

	if depth == 0 {
		e.advance(e.theme.Gap)
	} else {
		e.advance(e.theme.Gap / 2)
	}
}

func (e *Engine) titleHeight(depth int) float64 {
	if depth == 0 {
		return e.theme.SectionTitle.LineHeight() + 4 + e.theme.RowGap
	}
	return e.theme.SubTitle.LineHeight() + 2 + e.theme.RowGap
}

// firstContentHeight is the height of whatever must share a page with the
// section title.
func (e *Engine) firstContentHeight(sec domain.Section, w float64) float64 {
	switch {
	case sec.Blurred:
		return blurHeight
	case len(sec.Entries) > 0:
		end := min(2, len(sec.Entries))
		return e.rowHeight(sec.Entries[:end], w)
	case len(sec.Blocks) > 0:
		return e.blockHeight(sec.Blocks[0], w)
	case len(sec.Children) > 0:
		return e.titleHeight(1)
	case sec.Empty != "":
		return e.theme.Small.LineHeight()
	}
	return 0
}

func (e *Engine) title(text string, depth int, x, w float64) {
	t := e.theme
	h := e.titleHeight(depth)
	y := e.cur.Y
	if depth == 0 {
		st := t.SectionTitle
		band := st.LineHeight() + 4
		e.s.Rect(x, y, w, band, t.Accent)
		e.s.DrawText(x+2.5, y+2, text, st)
	} else {
		st := t.SubTitle
		e.s.DrawText(x, y+0.5, text, st)
		lineY := y + st.LineHeight() + 1
		e.s.Line(x, lineY, x+w, lineY, t.Rule, 0.2)
	}
	e.commit("title", h)
}

type cell struct {
	label []string
	value []string
	color domain.Color
}

func (e *Engine) columnWidth(w float64) float64 {
	return (w - e.theme.ColumnGap) / 2
}

func (e *Engine) cellFor(entry domain.GridEntry, colW float64) cell {
	return cell{
		label: Wrap(e.s, entry.Label, colW, e.theme.Label),
		value: Wrap(e.s, entry.Value, colW, e.theme.Value),
		color: entry.Color,
	}
}

func (e *Engine) cellHeight(c cell) float64 {
	return float64(len(c.label))*e.theme.Label.LineHeight() + 0.5 + float64(len(c.value))*e.theme.Value.LineHeight()
}

// rowHeight is the committed height of a grid row: the taller cell plus the
// row gap.
func (e *Engine) rowHeight(entries []domain.GridEntry, w float64) float64 {
	colW := e.columnWidth(w)
	h := 0.0
	for _, entry := range entries {
		h = max(h, e.cellHeight(e.cellFor(entry, colW)))
	}
	return h + e.theme.RowGap
}

// grid consumes entries two at a time. Each row is measured completely before
// any space is committed.
func (e *Engine) grid(entries []domain.GridEntry, x, w float64) {
	colW := e.columnWidth(w)
	for i := 0; i < len(entries); i += 2 {
		row := entries[i:min(i+2, len(entries))]
		cells := make([]cell, len(row))
		h := 0.0
		for j, entry := range row {
			cells[j] = e.cellFor(entry, colW)
			h = max(h, e.cellHeight(cells[j]))
		}
		h += e.theme.RowGap

		if h > e.geo.Printable() {
			e.flowRow(row, x, w)
			continue
		}

		e.ensure(h)
		for j, c := range cells {
			e.drawCell(c, x+float64(j)*(colW+e.theme.ColumnGap), e.cur.Y)
		}
		e.commit("row", h)
	}
}

func (e *Engine) drawCell(c cell, x, y float64) {
	t := e.theme
	for _, l := range c.label {
		e.s.DrawText(x, y, l, t.Label)
		y += t.Label.LineHeight()
	}
	y += 0.5
	st := e.valueStyle(c.color)
	for _, l := range c.value {
		e.s.DrawText(x, y, l, st)
		y += st.LineHeight()
	}
}

func (e *Engine) valueStyle(c domain.Color) Style {
	st := e.theme.Value
	switch c {
	case domain.ColorGood:
		st.Color = e.theme.Good
		st.Bold = true
	case domain.ColorBad:
		st.Color = e.theme.Bad
		st.Bold = true
	}
	return st
}

// flowRow handles a row taller than a page: entries are written one line at a
// time across the full width, breaking pages between lines.
func (e *Engine) flowRow(row []domain.GridEntry, x, w float64) {
	t := e.theme
	for _, entry := range row {
		for _, l := range Wrap(e.s, entry.Label, w, t.Label) {
			e.line(l, x, t.Label)
		}
		st := e.valueStyle(entry.Color)
		for _, l := range Wrap(e.s, entry.Value, w, st) {
			e.line(l, x, st)
		}
		e.advance(t.RowGap)
	}
}

func (e *Engine) line(s string, x float64, st Style) {
	h := st.LineHeight()
	e.ensure(h)
	e.s.DrawText(x, e.cur.Y, s, st)
	e.commit("line", h)
}

func (e *Engine) paragraph(text string, x, w float64, st Style) {
	for _, l := range Wrap(e.s, text, w, st) {
		e.line(l, x, st)
	}
	e.advance(e.theme.RowGap)
}

func (e *Engine) blur(x, w float64) {
	t := e.theme
	e.ensure(blurHeight)
	y := e.cur.Y
	e.s.Rect(x, y, w, blurHeight, t.BlurShade)
	for i := 0; i < 4; i++ {
		barY := y + 4 + float64(i)*5
		e.s.Rect(x+4, barY, w*0.35, 2, t.BlurBar)
		e.s.Rect(x+w/2+2, barY, w*0.3, 2, t.BlurBar)
	}
	e.s.Text(x+w/2, y+blurHeight-7, UpgradeMessage, t.Note.Size, t.Muted)
	e.commit("blur", blurHeight)
}
