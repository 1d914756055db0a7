package layout

import "github.com/de-tools/vehicle-atlas/pkg/runtime/chart"

// Surface is what the engine draws on. The PDF renderer implements it over a
// real document; tests use a recording surface.
type Surface interface {
	chart.Canvas
	Measurer

	AddPage()
	// DrawText writes one line with its top-left corner at (x, y).
	DrawText(x, y float64, s string, st Style)
	// Image draws pre-decoded image bytes scaled into the box. Unsupported
	// data is reported as an error and nothing is drawn.
	Image(name string, data []byte, x, y, w, h float64) error
}
