package html

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func render(t *testing.T, report *domain.Report) string {
	t.Helper()
	r, err := NewRenderer(registry.Options{})
	require.NoError(t, err)
	out, err := r.Render(context.Background(), report)
	require.NoError(t, err)
	return string(out)
}

func TestRender_SectionsAndEntries(t *testing.T) {
	// Given
	report := &domain.Report{
		Context: domain.RenderContext{Registration: "ab12cde", Reference: "R-1"},
		Sections: []domain.Section{{
			Title: "PNC Details",
			Entries: []domain.GridEntry{
				{Label: "Reported Stolen", Value: "No", Color: domain.ColorGood},
				{Label: "Note", Value: "<script>alert(1)</script>"},
			},
			Children: []domain.Section{{Title: "Keeper", Entries: []domain.GridEntry{{Label: "Count", Value: "2"}}}},
		}},
	}

	// When
	out := render(t, report)

	// Then
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h2>PNC Details</h2>")
	assert.Contains(t, out, "<h3>Keeper</h3>")
	assert.Contains(t, out, `class="value good">No<`)
	assert.Contains(t, out, "Registration: AB12CDE")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>alert")
}

func TestRender_BlurredSectionHidesContent(t *testing.T) {
	out := render(t, &domain.Report{Sections: []domain.Section{{
		Title:   "Finance Details",
		Blurred: true,
		Entries: []domain.GridEntry{{Label: "Agreement", Value: "secret"}},
	}}})

	assert.Contains(t, out, "Finance Details")
	assert.Contains(t, out, layout.UpgradeMessage)
	assert.NotContains(t, out, "secret")
}

func TestRender_BlocksAndFallbacks(t *testing.T) {
	out := render(t, &domain.Report{Sections: []domain.Section{
		{Title: "MOT History Details", Blocks: []domain.Block{
			&domain.LineChart{Title: "Mileage", Points: []domain.Point{{Label: "2021", Value: 12453}, {Label: "2025", Value: 38972}}},
			&domain.LineChart{Title: "Too short", Points: []domain.Point{{Label: "2021", Value: 1}}},
			&domain.Card{Title: "14 March 2025", Badge: "FAIL", Color: domain.ColorBad,
				Groups: []domain.NoteGroup{{Title: "Failures", Notes: []domain.Note{{Text: "Brake pipe corroded", Color: domain.ColorBad}}}}},
			&domain.Image{Name: "front", Caption: "Front view", Data: pngBytes(t)},
			&domain.Image{Name: "rear", Caption: "Rear view", Data: []byte("nope")},
		}},
		{Title: "Mileage Check Details", Empty: "No mileage records"},
	}})

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "38,972")
	assert.NotContains(t, out, "Too short")
	assert.Contains(t, out, `<span class="badge bad">FAIL</span>`)
	assert.Contains(t, out, "Brake pipe corroded")
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.Contains(t, out, "Image unavailable")
	assert.Contains(t, out, "No mileage records")
}

func TestRender_NilReport(t *testing.T) {
	r, err := NewRenderer(registry.Options{Title: "Custom"})
	require.NoError(t, err)
	_, err = r.Render(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, "html", r.Extension())
}
