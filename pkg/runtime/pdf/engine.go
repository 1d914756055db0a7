// Package pdf draws the report on go-pdf/fpdf with the core fonts. It is the
// authoritative output; HTML and text mirror what it lays out.
package pdf

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
)

// epoch stands in for the creation date when none is known, so output never
// depends on the clock.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Engine holds what every document shares: the page geometry and the cp1252
// translator for the core fonts. It is read-only once built.
type Engine struct {
	geometry  layout.Geometry
	translate func(string) string
}

var defaultEngine = sync.OnceValues(newEngine)

// Default returns the process-wide engine, building it on first use.
func Default() (*Engine, error) {
	return defaultEngine()
}

func newEngine() (*Engine, error) {
	probe := fpdf.New("P", "mm", "A4", "")
	translate := probe.UnicodeTranslatorFromDescriptor("")
	if err := probe.Error(); err != nil {
		return nil, fmt.Errorf("failed to load cp1252 translator: %w", err)
	}
	return &Engine{geometry: layout.A4(), translate: translate}, nil
}

func (e *Engine) Geometry() layout.Geometry {
	return e.geometry
}

// NewDocument starts an empty document. Page breaks are driven by the layout
// engine, so fpdf's own are off.
func (e *Engine) NewDocument(title string, created time.Time) *fpdf.Fpdf {
	if created.IsZero() {
		created = epoch
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(e.geometry.MarginLeft, e.geometry.FirstTop, e.geometry.MarginRight)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(created)
	doc.SetModificationDate(created)
	doc.SetTitle(title, true)
	doc.SetCreator("vehicle-atlas", true)
	return doc
}
