package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/models/api"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
)

func TestMapRenderContextApiToDomain(t *testing.T) {
	rc, err := MapRenderContextApiToDomain(api.RenderContext{
		Registration: " AB12CDE ",
		DateOfCheck:  "2025-03-14",
		Reference:    "R-1",
		Premium:      true,
		Package:      "full",
		Logo:         []byte("logo"),
	})

	require.NoError(t, err)
	assert.Equal(t, "AB12CDE", rc.Registration)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), rc.DateOfCheck)
	assert.Equal(t, "R-1", rc.Reference)
	assert.True(t, rc.Premium)
	assert.Equal(t, "full", rc.Package)
	assert.Equal(t, []byte("logo"), rc.Assets.Logo)

	rc, err = MapRenderContextApiToDomain(api.RenderContext{})
	require.NoError(t, err)
	assert.True(t, rc.DateOfCheck.IsZero())

	_, err = MapRenderContextApiToDomain(api.RenderContext{DateOfCheck: "14/03/2025"})
	assert.EqualError(t, err, "invalid 'date_of_check' format. Expected format: YYYY-MM-DD")
}

func TestMapSectionsToApi(t *testing.T) {
	sections := MapSectionsToApi(report.Sections())

	require.Len(t, sections, len(report.Sections()))
	assert.Equal(t, report.Sections()[0].Title, sections[0].Title)
	assert.NotEmpty(t, sections[0].Candidates)
}
