package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

const ContentType = "text/plain; charset=utf-8"

type TableConfig struct {
	LabelWidth int
	ValueWidth int
	BarWidth   int
	Color      bool
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 32,
		ValueWidth: 48,
		BarWidth:   30,
	}
}

// Reporter writes the report as plain text tables. Risk colors are ANSI and
// only emitted when the config asks for them.
type Reporter struct {
	title  string
	config TableConfig
	good   *color.Color
	bad    *color.Color
}

func NewReporter(title string, config TableConfig) *Reporter {
	if title == "" {
		title = layout.DefaultTitle
	}
	r := &Reporter{
		title:  title,
		config: config,
		good:   color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{r.good, r.bad} {
		if config.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// NewRenderer is the registry factory for the "text" format.
func NewRenderer(opts registry.Options) (registry.Renderer, error) {
	return NewReporter(opts.Title, DefaultTableConfig()), nil
}

func (r *Reporter) ContentType() string { return ContentType }

func (r *Reporter) Extension() string { return "txt" }

func (r *Reporter) Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Handle(&buf, report); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("bytes", buf.Len()).Msg("text rendered")
	return buf.Bytes(), nil
}

func (r *Reporter) Handle(w io.Writer, report *domain.Report) error {
	if report == nil {
		return fmt.Errorf("failed to render text: nil report")
	}
	funcMap := template.FuncMap{
		"section": func(sec domain.Section) string {
			var sb strings.Builder
			r.section(&sb, sec, 0)
			return sb.String()
		},
		"underline": func(s string) string {
			return strings.Repeat("=", runewidth.StringWidth(s))
		},
	}

	tmpl := `{{.Title}}
{{underline .Title}}
{{range .Lines}}{{.}}
{{end}}
{{range .Sections}}{{section .}}
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	data := struct {
		Title    string
		Lines    []string
		Sections []domain.Section
	}{r.title, layout.HeadingLines(report.Context), report.Sections}
	return t.Execute(w, data)
}

func (r *Reporter) section(sb *strings.Builder, sec domain.Section, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(sb, "=== %s ===\n", sec.Title)
	} else {
		fmt.Fprintf(sb, "%s--- %s ---\n", indent, sec.Title)
	}

	if sec.Blurred {
		fmt.Fprintf(sb, "%s[%s]\n", indent, layout.UpgradeMessage)
		return
	}

	if len(sec.Entries) > 0 {
		writeIndented(sb, indent, r.entries(sec.Entries))
	}
	for _, b := range sec.Blocks {
		r.block(sb, b, indent)
	}
	if len(sec.Entries) == 0 && len(sec.Blocks) == 0 && len(sec.Children) == 0 && sec.Empty != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, sec.Empty)
	}
	for _, child := range sec.Children {
		r.section(sb, child, depth+1)
	}
}

func (r *Reporter) entries(entries []domain.GridEntry) string {
	tbl := r.newTable()
	for _, e := range entries {
		tbl.AppendRow(table.Row{r.label(e.Label), r.colorize(e.Value, e.Color)})
	}
	return tbl.Render()
}

func (r *Reporter) newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: r.config.LabelWidth},
		{Number: 2, WidthMax: r.config.ValueWidth},
	})
	return tbl
}

// label truncates to the label column so long field names never wrap.
func (r *Reporter) label(s string) string {
	return runewidth.Truncate(s, r.config.LabelWidth, "…")
}

func (r *Reporter) colorize(s string, c domain.Color) string {
	switch c {
	case domain.ColorGood:
		return r.good.Sprint(s)
	case domain.ColorBad:
		return r.bad.Sprint(s)
	}
	return s
}

func (r *Reporter) block(sb *strings.Builder, b domain.Block, indent string) {
	switch v := b.(type) {
	case *domain.Card:
		r.card(sb, v, indent)
	case *domain.LineChart:
		if len(v.Points) < 2 {
			return
		}
		fmt.Fprintf(sb, "%s%s\n", indent, v.Title)
		values := make([]float64, len(v.Points))
		labels := make([]string, len(v.Points))
		for i, p := range v.Points {
			values[i], labels[i] = p.Value, p.Label
		}
		writeIndented(sb, indent, r.bars(labels, values, func(f float64) string {
			return humanize.Comma(int64(math.Round(f)))
		}))
	case *domain.BarChart:
		if len(v.Bars) == 0 {
			return
		}
		fmt.Fprintf(sb, "%s%s\n", indent, v.Title)
		values := make([]float64, len(v.Bars))
		labels := make([]string, len(v.Bars))
		for i, bar := range v.Bars {
			values[i], labels[i] = bar.Value, bar.Label
		}
		writeIndented(sb, indent, r.bars(labels, values, func(f float64) string {
			return strings.TrimSpace(fmt.Sprintf("%.1f %s", f, v.Unit))
		}))
	case *domain.Image:
		caption := v.Caption
		if caption == "" {
			caption = v.Name
		}
		fmt.Fprintf(sb, "%s[image: %s]\n", indent, caption)
	case *domain.Paragraph:
		fmt.Fprintf(sb, "%s%s\n", indent, v.Text)
	}
}

func (r *Reporter) card(sb *strings.Builder, c *domain.Card, indent string) {
	tbl := r.newTable()
	title := c.Title
	if c.Badge != "" {
		title += "  " + r.colorize(c.Badge, c.Color)
	}
	tbl.SetTitle(title)
	for _, e := range c.Entries {
		tbl.AppendRow(table.Row{r.label(e.Label), r.colorize(e.Value, e.Color)})
	}
	for _, g := range c.Groups {
		for i, n := range g.Notes {
			name := ""
			if i == 0 {
				name = g.Title
			}
			tbl.AppendRow(table.Row{r.label(name), "- " + r.colorize(n.Text, n.Color)})
		}
	}
	writeIndented(sb, indent, tbl.Render())
}

// bars draws one row per value with a bar scaled to the largest value.
func (r *Reporter) bars(labels []string, values []float64, format func(float64) string) string {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	tbl := r.newTable()
	for i, v := range values {
		n := 0
		if peak > 0 && v > 0 {
			n = int(math.Round(v / peak * float64(r.config.BarWidth)))
		}
		tbl.AppendRow(table.Row{r.label(labels[i]), strings.Repeat("█", n) + " " + format(v)})
	}
	return tbl.Render()
}

func writeIndented(sb *strings.Builder, indent, block string) {
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
