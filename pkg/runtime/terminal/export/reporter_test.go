package export

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/layout"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Context: domain.RenderContext{Registration: "AB12CDE"},
		Sections: []domain.Section{
			{
				Title: "PNC Details",
				Entries: []domain.GridEntry{
					{Label: "Reported Stolen", Value: "No", Color: domain.ColorGood},
					{Label: "A label that is far too long for the label column", Value: "x"},
				},
				Children: []domain.Section{{Title: "Keeper", Entries: []domain.GridEntry{{Label: "Count", Value: "2"}}}},
			},
			{
				Title: "MOT History Details",
				Blocks: []domain.Block{
					&domain.LineChart{Title: "Mileage", Points: []domain.Point{{Label: "2021", Value: 12453}, {Label: "2025", Value: 38972}}},
					&domain.Card{Title: "14 March 2025", Badge: "FAIL", Color: domain.ColorBad,
						Groups: []domain.NoteGroup{{Title: "Failures", Notes: []domain.Note{{Text: "Brake pipe corroded", Color: domain.ColorBad}}}}},
					&domain.BarChart{Title: "Fuel Economy", Unit: "mpg", Bars: []domain.Bar{{Label: "Urban", Value: 40}, {Label: "Combined", Value: 46.3}}},
				},
			},
			{Title: "Finance Details", Blurred: true, Entries: []domain.GridEntry{{Label: "Agreement", Value: "secret"}}},
			{Title: "Mileage Check Details", Empty: "No mileage records"},
		},
	}
}

func TestReporter_PlainText(t *testing.T) {
	r := NewReporter("", DefaultTableConfig())

	out, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, layout.DefaultTitle+"\n"))
	assert.Contains(t, text, "Registration: AB12CDE")
	assert.Contains(t, text, "=== PNC Details ===")
	assert.Contains(t, text, "  --- Keeper ---")
	assert.Contains(t, text, "Reported Stolen")
	assert.Contains(t, text, "…")
	assert.Contains(t, text, "38,972")
	assert.Contains(t, text, "46.3 mpg")
	assert.Contains(t, text, "Brake pipe corroded")
	assert.Contains(t, text, layout.UpgradeMessage)
	assert.NotContains(t, text, "secret")
	assert.Contains(t, text, "No mileage records")
	assert.NotContains(t, text, "\x1b[")
}

func TestReporter_Colors(t *testing.T) {
	cfg := DefaultTableConfig()
	cfg.Color = true
	r := NewReporter("", cfg)

	out, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Contains(t, string(out), "\x1b[")
}

func TestReporter_NilReport(t *testing.T) {
	_, err := NewReporter("", DefaultTableConfig()).Render(context.Background(), nil)
	assert.Error(t, err)
}
