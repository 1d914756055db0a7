// Package html renders the report tree as a single self-contained page.
// Charts are inline SVG and images are data URIs, so nothing is fetched.
package html

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

const ContentType = "text/html; charset=utf-8"

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

type Renderer struct {
	title string
}

// NewRenderer is the registry factory for the "html" format.
func NewRenderer(opts registry.Options) (registry.Renderer, error) {
	title := opts.Title
	if title == "" {
		title = layout.DefaultTitle
	}
	return &Renderer{title: title}, nil
}

func (r *Renderer) ContentType() string { return ContentType }

func (r *Renderer) Extension() string { return "html" }

func (r *Renderer) Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("failed to render html: nil report")
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, newDocument(report, r.title)); err != nil {
		return nil, fmt.Errorf("failed to execute html template: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Int("sections", len(report.Sections)).
		Int("bytes", buf.Len()).
		Msg("html rendered")
	return buf.Bytes(), nil
}
