package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

const ContentType = "application/pdf"

type Renderer struct {
	engine *Engine
	title  string
}

// NewRenderer is the registry factory for the "pdf" format.
func NewRenderer(opts registry.Options) (registry.Renderer, error) {
	engine, err := Default()
	if err != nil {
		return nil, err
	}
	title := opts.Title
	if title == "" {
		title = layout.DefaultTitle
	}
	return &Renderer{engine: engine, title: title}, nil
}

func (r *Renderer) ContentType() string { return ContentType }

func (r *Renderer) Extension() string { return "pdf" }

func (r *Renderer) Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("failed to render pdf: nil report")
	}
	doc := r.engine.NewDocument(r.title, report.Context.DateOfCheck)
	s := newSurface(doc, r.engine.translate)

	e := layout.RenderReport(s, r.engine.Geometry(), report, r.title)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("failed to draw pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Int("pages", e.Pages()).
		Int("bytes", buf.Len()).
		Str("registration", report.Context.Registration).
		Msg("pdf rendered")
	return buf.Bytes(), nil
}
