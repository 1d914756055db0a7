package layout

import (
	"strconv"
)

// Placement records one committed block, for diagnostics and tests.
type Placement struct {
	Kind   string
	Page   int
	Y      float64
	Height float64
}

type Options struct {
	Theme Theme
	// Header is printed in the band at the top of continuation pages.
	Header string
	// Footer is printed on the left of every page footer.
	Footer string
}

// Engine lays out one document. It owns the cursor and must not be shared
// between renders.
type Engine struct {
	s     Surface
	geo   Geometry
	theme Theme
	opts  Options

	cur        Cursor
	pageTop    float64
	placements []Placement
}

func NewEngine(s Surface, geo Geometry, opts Options) *Engine {
	if opts.Theme.Value.Size == 0 {
		opts.Theme = DefaultTheme()
	}
	return &Engine{s: s, geo: geo, theme: opts.Theme, opts: opts}
}

func (e *Engine) Cursor() Cursor {
	return e.cur
}

func (e *Engine) Pages() int {
	return e.cur.Page
}

func (e *Engine) Geometry() Geometry {
	return e.geo
}

func (e *Engine) Placements() []Placement {
	return append([]Placement(nil), e.placements...)
}

// Start opens the first page.
func (e *Engine) Start() {
	if e.cur.Page == 0 {
		e.newPage()
	}
}

// Finish draws the footer of the last page.
func (e *Engine) Finish() {
	if e.cur.Page > 0 {
		e.footer()
	}
}

func (e *Engine) newPage() {
	if e.cur.Page > 0 {
		e.footer()
	}
	e.s.AddPage()
	e.cur.Page++
	if e.cur.Page == 1 {
		e.cur.Y = e.geo.FirstTop
	} else {
		e.headerBand()
		e.cur.Y = e.geo.ContinuationTop
	}
	e.pageTop = e.cur.Y
}

// ensure starts a new page unless h more millimetres fit below the cursor. A
// fresh page is never abandoned, so oversized blocks must be split by the
// caller.
func (e *Engine) ensure(h float64) {
	if e.cur.Page == 0 {
		e.newPage()
	}
	if e.cur.Y+h > e.geo.Bottom && e.cur.Y > e.pageTop {
		e.newPage()
	}
}

func (e *Engine) fits(h float64) bool {
	return e.cur.Y+h <= e.geo.Bottom
}

func (e *Engine) commit(kind string, h float64) {
	e.placements = append(e.placements, Placement{Kind: kind, Page: e.cur.Page, Y: e.cur.Y, Height: h})
	e.cur.Y += h
}

// advance moves the cursor without committing a block. Space past the bottom
// is harmless because the next ensure breaks the page.
func (e *Engine) advance(h float64) {
	e.cur.Y += h
}

func (e *Engine) headerBand() {
	const bandHeight = 20
	t := e.theme
	e.s.Rect(0, 0, e.geo.PageWidth, bandHeight, t.Band)
	e.s.Rect(0, bandHeight, e.geo.PageWidth, 0.6, t.Accent)

	st := t.SubTitle
	y := (bandHeight - st.LineHeight()) / 2
	e.s.DrawText(e.geo.MarginLeft, y, e.opts.Header, st)
	page := "Page " + strconv.Itoa(e.cur.Page)
	e.rightText(page, y, st)
}

func (e *Engine) footer() {
	t := e.theme
	e.s.Line(e.geo.MarginLeft, e.geo.Bottom+1.5, e.geo.PageWidth-e.geo.MarginRight, e.geo.Bottom+1.5, t.Rule, 0.2)
	if e.opts.Footer != "" {
		e.s.DrawText(e.geo.MarginLeft, e.geo.FooterY, e.opts.Footer, t.Small)
	}
	e.rightText("Page "+strconv.Itoa(e.cur.Page), e.geo.FooterY, t.Small)
}

func (e *Engine) rightText(s string, y float64, st Style) {
	x := e.geo.PageWidth - e.geo.MarginRight - e.s.TextWidth(s, st)
	e.s.DrawText(x, y, s, st)
}

// Heading draws the document title block on the first page, with the logo on
// the right when one is supplied.
func (e *Engine) Heading(title string, lines []string, logo []byte) {
	e.Start()
	t := e.theme
	top := e.cur.Y
	x := e.geo.MarginLeft

	if len(logo) > 0 {
		const logoHeight = 14
		if iw, ih, ok := imageSize(logo); ok && ih > 0 {
			w := logoHeight * iw / ih
			lx := e.geo.PageWidth - e.geo.MarginRight - w
			if err := e.s.Image("logo", logo, lx, top, w, logoHeight); err != nil {
				e.s.Rect(lx, top, w, logoHeight, t.BlurShade)
			}
		}
	}

	y := top
	e.s.DrawText(x, y, title, t.Title)
	y += t.Title.LineHeight() + 1
	for _, l := range lines {
		e.s.DrawText(x, y, l, t.Value)
		y += t.Value.LineHeight()
	}
	y += 2
	e.s.Rect(x, y, e.geo.ContentWidth(), 0.6, t.Accent)
	y += 0.6 + t.Gap

	e.commit("heading", y-top)
}

// column returns the left edge and width for a nesting depth.
func (e *Engine) column(depth int) (float64, float64) {
	indent := float64(depth) * e.theme.Indent
	return e.geo.MarginLeft + indent, e.geo.ContentWidth() - indent
}
