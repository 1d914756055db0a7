package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/fields"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", name))
	require.NoError(t, err)
	return data
}

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	resolver, err := fields.NewDefaultResolver(format.DefaultOptions())
	require.NoError(t, err)
	return NewAssembler(fields.NewBuilder(resolver))
}

func assemble(t *testing.T, name string, rc domain.RenderContext, vis domain.SectionVisibility) *domain.Report {
	t.Helper()
	p, err := domain.DecodePayload(fixture(t, name))
	require.NoError(t, err)
	return newAssembler(t).Assemble(context.Background(), p, rc, vis)
}

func docs(r *domain.Report) []string {
	out := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = s.Doc
	}
	return out
}

func section(t *testing.T, r *domain.Report, doc string) domain.Section {
	t.Helper()
	for _, s := range r.Sections {
		if s.Doc == doc {
			return s
		}
	}
	require.Failf(t, "section not found", "%s", doc)
	return domain.Section{}
}

// findEntry searches sec and its children depth first.
func findEntry(sec domain.Section, label string) (domain.GridEntry, bool) {
	for _, e := range sec.Entries {
		if e.Label == label {
			return e, true
		}
	}
	for _, c := range sec.Children {
		if e, ok := findEntry(c, label); ok {
			return e, true
		}
	}
	return domain.GridEntry{}, false
}

func TestAssemble_FullPackageSectionOrder(t *testing.T) {
	r := assemble(t, "full.json", domain.RenderContext{Premium: true}, domain.SectionVisibility{})

	assert.Equal(t, []string{
		domain.DocVehicleDetails,
		domain.DocModelDetails,
		domain.DocVehicleTaxDetails,
		domain.DocPncDetails,
		domain.DocMiaftrDetails,
		domain.DocFinanceDetails,
		domain.DocValuationDetails,
		domain.DocSpecAndOptionsDetails,
		domain.DocTyreDetails,
		domain.DocVehicleImageDetails,
		domain.DocMileageCheckDetails,
		domain.DocMotHistoryDetails,
	}, docs(r))
}

func TestAssemble_FormattingAndRisk(t *testing.T) {
	r := assemble(t, "full.json", domain.RenderContext{Premium: true}, domain.SectionVisibility{})

	twelve, ok := findEntry(section(t, r, domain.DocVehicleTaxDetails), "Twelve Months")
	require.True(t, ok)
	assert.Equal(t, "£190.00", twelve.Value)

	stolen, ok := findEntry(section(t, r, domain.DocPncDetails), "Reported Stolen")
	require.True(t, ok)
	assert.Equal(t, "No", stolen.Value)
	assert.Equal(t, domain.ColorGood, stolen.Color)

	finance, ok := findEntry(section(t, r, domain.DocFinanceDetails), "Finance Agreements")
	require.True(t, ok)
	assert.Equal(t, domain.ColorBad, finance.Color)

	_, ok = findEntry(section(t, r, domain.DocVehicleDetails), "Document Version")
	assert.False(t, ok)
}

func TestAssemble_MotHistory(t *testing.T) {
	r := assemble(t, "full.json", domain.RenderContext{Premium: true}, domain.SectionVisibility{})
	sec := section(t, r, domain.DocMotHistoryDetails)

	rate, ok := findEntry(sec, "Pass Rate")
	require.True(t, ok)
	assert.Equal(t, "67%", rate.Value)

	require.Len(t, sec.Blocks, 4)
	first, ok := sec.Blocks[0].(*domain.Card)
	require.True(t, ok)
	assert.Equal(t, "1 March 2025", first.Title)
	assert.Equal(t, "PASS", first.Badge)
	assert.Equal(t, domain.ColorGood, first.Color)

	last := sec.Blocks[3].(*domain.Card)
	assert.Equal(t, "FAIL", last.Badge)
	require.Len(t, last.Groups, 1)
	assert.Equal(t, "Failures", last.Groups[0].Title)

	retest := sec.Blocks[2].(*domain.Card)
	assert.Equal(t, "PASS (RETEST)", retest.Badge)

	_, ok = findEntry(sec, "Record Count")
	assert.True(t, ok)
}

func TestAssemble_MileageAndFuel(t *testing.T) {
	r := assemble(t, "full.json", domain.RenderContext{Premium: true}, domain.SectionVisibility{})

	mileage := section(t, r, domain.DocMileageCheckDetails)
	covered, ok := findEntry(mileage, "Miles Covered")
	require.True(t, ok)
	assert.Equal(t, "26,519 miles", covered.Value)
	average, ok := findEntry(mileage, "Average Per Year")
	require.True(t, ok)
	assert.Equal(t, "6,630 miles", average.Value)
	require.Len(t, mileage.Blocks, 1)
	assert.Len(t, mileage.Blocks[0].(*domain.LineChart).Points, 4)

	model := section(t, r, domain.DocModelDetails)
	combined, ok := findEntry(model, "Combined")
	require.True(t, ok)
	assert.Equal(t, "46.3 mpg (6.1 L/100km)", combined.Value)
	rating, ok := findEntry(model, "Efficiency Rating")
	require.True(t, ok)
	assert.Equal(t, "Good, better than 75% of vehicles", rating.Value)
}

func TestAssemble_Images(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	rc := domain.RenderContext{Premium: true, Assets: domain.Assets{Images: map[string][]byte{
		"https://images.example.test/front.png": img,
	}}}
	r := assemble(t, "full.json", rc, domain.SectionVisibility{})

	sec := section(t, r, domain.DocVehicleImageDetails)
	require.Len(t, sec.Blocks, 1)
	image := sec.Blocks[0].(*domain.Image)
	assert.Equal(t, "Front", image.Caption)
	assert.Equal(t, img, image.Data)
	count, ok := findEntry(sec, "Image Count")
	require.True(t, ok)
	assert.Equal(t, "1", count.Value)
}

func TestAssemble_FreePackage(t *testing.T) {
	tests := []struct {
		name     string
		strategy domain.Strategy
		want     []string
		blurred  string
	}{
		{
			name:     "hide",
			strategy: domain.StrategyHide,
			want:     []string{domain.DocVehicleDetails, domain.DocModelDetails, domain.DocVehicleTaxDetails, domain.DocMotHistoryDetails},
		},
		{
			name:     "blur",
			strategy: domain.StrategyBlur,
			want:     []string{domain.DocVehicleDetails, domain.DocModelDetails, domain.DocVehicleTaxDetails, domain.DocPncDetails, domain.DocMotHistoryDetails},
			blurred:  domain.DocPncDetails,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assemble(t, "free.json", domain.RenderContext{}, Visibility(false, nil, tt.strategy))

			assert.Equal(t, tt.want, docs(r))
			for _, s := range r.Sections {
				assert.Equal(t, s.Doc == tt.blurred, s.Blurred, s.Doc)
			}
		})
	}
}

func TestAssemble_TaxFallsBackToVehicleStatus(t *testing.T) {
	r := assemble(t, "free.json", domain.RenderContext{}, domain.SectionVisibility{})

	twelve, ok := findEntry(section(t, r, domain.DocVehicleTaxDetails), "Twelve Months")
	require.True(t, ok)
	assert.Equal(t, "£190.00", twelve.Value)
}

// entryPaths collects the entry paths of sec and its children.
func entryPaths(sec domain.Section, into map[string]bool) {
	for _, e := range sec.Entries {
		into[e.Path] = true
	}
	for _, c := range sec.Children {
		entryPaths(c, into)
	}
}

func countTitled(sec domain.Section, title string) int {
	n := 0
	if sec.Title == title {
		n++
	}
	for _, c := range sec.Children {
		n += countTitled(c, title)
	}
	return n
}

func TestAssemble_RecordsRenderedOnce(t *testing.T) {
	tests := []struct {
		fixture string
		doc     string
		prefix  string
	}{
		{fixture: "free.json", doc: domain.DocVehicleTaxDetails, prefix: "VehicleDetails.VehicleStatus.VehicleExciseDutyDetails."},
		{fixture: "full.json", doc: domain.DocVehicleTaxDetails, prefix: "VehicleTaxDetails."},
		{fixture: "full.json", doc: domain.DocModelDetails, prefix: "FuelEconomy."},
	}
	for _, tt := range tests {
		t.Run(tt.fixture+"/"+tt.doc, func(t *testing.T) {
			r := assemble(t, tt.fixture, domain.RenderContext{Premium: true}, domain.SectionVisibility{})

			owner := map[string]string{}
			for _, sec := range r.Sections {
				paths := map[string]bool{}
				entryPaths(sec, paths)
				for p := range paths {
					prev, seen := owner[p]
					assert.False(t, seen, "%s rendered by %s and %s", p, prev, sec.Doc)
					owner[p] = sec.Doc
				}
			}

			found := false
			for p, doc := range owner {
				if strings.HasPrefix(p, tt.prefix) {
					found = true
					assert.Equal(t, tt.doc, doc, p)
				}
			}
			assert.True(t, found, "no entry under %s", tt.prefix)
		})
	}

	r := assemble(t, "full.json", domain.RenderContext{Premium: true}, domain.SectionVisibility{})
	model := section(t, r, domain.DocModelDetails)
	assert.Equal(t, 1, countTitled(model, "Fuel Economy"))
	paths := map[string]bool{}
	entryPaths(model, paths)
	for p := range paths {
		assert.False(t, strings.HasPrefix(p, "ModelDetails.Performance.FuelEconomy."), p)
	}
	_, ok := findEntry(model, "Urban")
	assert.True(t, ok)
}

func TestAssemble_UnknownMotShapeFallsBack(t *testing.T) {
	p, err := domain.DecodePayload([]byte(`{"Results":{"MotHistoryDetails":{"Unexpected":{"Shape":[1]}}}}`))
	require.NoError(t, err)

	r := newAssembler(t).Assemble(context.Background(), p, domain.RenderContext{}, domain.SectionVisibility{})

	sec := section(t, r, domain.DocMotHistoryDetails)
	assert.Equal(t, noMotHistory, sec.Empty)
	assert.Empty(t, sec.Blocks)
	assert.Empty(t, sec.Children)
}

func TestVisibility(t *testing.T) {
	full := Visibility(true, nil, domain.StrategyHide)
	assert.True(t, full.Includes(domain.DocFinanceDetails))

	pkg := map[string]bool{domain.DocVehicleDetails: true, domain.DocFinanceDetails: true}
	free := Visibility(false, pkg, domain.StrategyHide)
	assert.True(t, free.Includes(domain.DocVehicleDetails))
	assert.False(t, free.Includes(domain.DocFinanceDetails))
	assert.False(t, free.Includes(domain.DocModelDetails))

	premium := Visibility(true, pkg, domain.StrategyBlur)
	assert.True(t, premium.Includes(domain.DocFinanceDetails))
	assert.False(t, premium.Includes(domain.DocModelDetails))
}

func TestSections(t *testing.T) {
	sections := Sections()
	require.Len(t, sections, 13)
	assert.Equal(t, "Vehicle Details", sections[0].Title)
	assert.True(t, sections[0].Free)
	assert.False(t, sections[3].Free)
	assert.Equal(t, "MOT History Details", sections[12].Title)

	sections[0].Candidates[0] = "changed"
	assert.Equal(t, "VehicleDetails", Sections()[0].Candidates[0])
}

// MockRenderer implements registry.Renderer for testing
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) ContentType() string { return "application/test" }
func (m *MockRenderer) Extension() string   { return "test" }
func (m *MockRenderer) Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	args := m.Called(ctx, report)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type staticPackages map[string]map[string]bool

func (p staticPackages) Docs(name string) (map[string]bool, error) {
	docs, ok := p[name]
	if !ok {
		return nil, errors.New("unknown package")
	}
	return docs, nil
}

func newService(t *testing.T, renderers map[string]*MockRenderer, fallback string) *Service {
	t.Helper()
	factories := make(map[string]registry.Factory, len(renderers))
	for name, r := range renderers {
		factories[name] = func(registry.Options) (registry.Renderer, error) { return r, nil }
	}
	svc, err := NewService(Options{
		Registry:       registry.NewRegistry(factories),
		Assembler:      newAssembler(t),
		Packages:       staticPackages{"basic": {domain.DocVehicleDetails: true}},
		FallbackFormat: fallback,
	})
	require.NoError(t, err)
	return svc
}

func TestService_Render(t *testing.T) {
	ctx := context.Background()

	t.Run("renders requested format", func(t *testing.T) {
		pdf := &MockRenderer{}
		pdf.On("Render", ctx, mock.Anything).Return([]byte("%PDF"), nil).Once()
		svc := newService(t, map[string]*MockRenderer{"pdf": pdf}, "")

		art, err := svc.Render(ctx, fixture(t, "full.json"), domain.RenderContext{Premium: true}, "pdf")

		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(art.Body))
		assert.Equal(t, "pdf", art.Format)
		assert.Equal(t, "application/test", art.ContentType)
		assert.False(t, art.Fallback)
		pdf.AssertExpectations(t)
	})

	t.Run("falls back when the renderer fails", func(t *testing.T) {
		pdf := &MockRenderer{}
		pdf.On("Render", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()
		html := &MockRenderer{}
		html.On("Render", ctx, mock.Anything).Return([]byte("<html>"), nil).Once()
		svc := newService(t, map[string]*MockRenderer{"pdf": pdf, "html": html}, "html")

		art, err := svc.Render(ctx, fixture(t, "full.json"), domain.RenderContext{}, "pdf")

		require.NoError(t, err)
		assert.True(t, art.Fallback)
		assert.Equal(t, "html", art.Format)
		pdf.AssertExpectations(t)
		html.AssertExpectations(t)
	})

	t.Run("no fallback for unknown format", func(t *testing.T) {
		svc := newService(t, map[string]*MockRenderer{"html": {}}, "html")

		_, err := svc.Render(ctx, fixture(t, "full.json"), domain.RenderContext{}, "docx")

		assert.ErrorIs(t, err, registry.ErrUnsupportedFormat)
	})

	t.Run("invalid payload", func(t *testing.T) {
		svc := newService(t, map[string]*MockRenderer{}, "")

		_, err := svc.Render(ctx, []byte(`{"Results": 3}`), domain.RenderContext{}, "pdf")

		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})

	t.Run("package restricts sections", func(t *testing.T) {
		svc := newService(t, map[string]*MockRenderer{}, "")

		report, err := svc.Assemble(ctx, fixture(t, "full.json"), domain.RenderContext{Premium: true, Package: "basic"})

		require.NoError(t, err)
		assert.Equal(t, []string{domain.DocVehicleDetails}, docs(report))

		_, err = svc.Assemble(ctx, fixture(t, "full.json"), domain.RenderContext{Package: "missing"})
		assert.Error(t, err)
	})
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Options{})
	assert.Error(t, err)
	_, err = NewService(Options{Registry: registry.NewRegistry(nil)})
	assert.Error(t, err)
}
