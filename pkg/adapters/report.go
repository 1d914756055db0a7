package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/vehicle-atlas/pkg/models/api"
	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
)

const DateLayout = "2006-01-02"

func MapRenderContextApiToDomain(c api.RenderContext) (domain.RenderContext, error) {
	rc := domain.RenderContext{
		Registration: strings.TrimSpace(c.Registration),
		Reference:    strings.TrimSpace(c.Reference),
		Premium:      c.Premium,
		Package:      strings.TrimSpace(c.Package),
		Assets: domain.Assets{
			Logo:   c.Logo,
			Images: c.Images,
		},
	}
	if c.DateOfCheck != "" {
		date, err := time.Parse(DateLayout, c.DateOfCheck)
		if err != nil {
			return domain.RenderContext{}, fmt.Errorf("invalid 'date_of_check' format. Expected format: YYYY-MM-DD")
		}
		rc.DateOfCheck = date
	}
	return rc, nil
}

func MapSectionInfoToApi(s report.SectionInfo) api.Section {
	return api.Section{
		Doc:        s.Doc,
		Title:      s.Title,
		Candidates: s.Candidates,
		Free:       s.Free,
	}
}

func MapSectionsToApi(sections []report.SectionInfo) []api.Section {
	res := make([]api.Section, 0, len(sections))
	for _, s := range sections {
		res = append(res, MapSectionInfoToApi(s))
	}
	return res
}
