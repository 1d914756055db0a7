package layout

import (
	"strings"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

const DefaultTitle = "Vehicle History Report"

// HeadingLines are the context lines printed under the document title.
func HeadingLines(rc domain.RenderContext) []string {
	lines := []string{"Registration: " + registration(rc)}
	if !rc.DateOfCheck.IsZero() {
		lines = append(lines, "Date of check: "+format.FormatDate(rc.DateOfCheck))
	}
	if rc.Reference != "" {
		lines = append(lines, "Reference: "+rc.Reference)
	}
	if rc.Package != "" {
		lines = append(lines, "Package: "+rc.Package)
	}
	return lines
}

// PageHeader is the text of the band on continuation pages.
func PageHeader(rc domain.RenderContext) string {
	parts := []string{registration(rc)}
	if rc.Reference != "" {
		parts = append(parts, "Ref "+rc.Reference)
	}
	return strings.Join(parts, " | ")
}

func registration(rc domain.RenderContext) string {
	if rc.Registration == "" {
		return "-"
	}
	return strings.ToUpper(rc.Registration)
}

// RenderReport lays out a whole report on s and returns the finished engine.
func RenderReport(s Surface, geo Geometry, r *domain.Report, title string) *Engine {
	if title == "" {
		title = DefaultTitle
	}
	e := NewEngine(s, geo, Options{
		Header: PageHeader(r.Context),
		Footer: title + " for " + registration(r.Context),
	})
	e.Heading(title, HeadingLines(r.Context), r.Context.Assets.Logo)
	for _, sec := range r.Sections {
		e.RenderSection(sec, 0)
	}
	e.Finish()
	return e
}
