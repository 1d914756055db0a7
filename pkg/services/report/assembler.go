// Package report assembles the payload into the section tree shared by every
// renderer and drives rendering through the renderer registry.
package report

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/analytics"
	"github.com/de-tools/vehicle-atlas/pkg/services/fields"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
	"github.com/de-tools/vehicle-atlas/pkg/services/mot"
)

// motListKeys are rendered as cards, never as generic sub-sections.
var motListKeys = []string{"MotTestDetailsList", "MotHistory", "MotTests", "Tests"}

// Assembler turns a payload into a report tree. It is read-only after
// construction and safe for concurrent use.
type Assembler struct {
	builder *fields.Builder
	format  *format.Formatter
}

func NewAssembler(builder *fields.Builder) *Assembler {
	return &Assembler{builder: builder, format: builder.Resolver().Formatter()}
}

// source is the data found for a section.
type source struct {
	value domain.Value
	path  string
}

func (s source) found() bool {
	return s.value.Present() && !domain.IsEmpty(s.value.Raw())
}

// input is what every section builder may read.
type input struct {
	results *domain.Object
	context domain.RenderContext
	tests   []domain.MotTest
	fuel    analytics.FuelEconomy
	// claimed are the results paths a section renders itself, so no other
	// section walks them again.
	claimed []string
}

// skipsUnder returns the claimed paths nested below root, relative to it.
func (in input) skipsUnder(root string) []string {
	var out []string
	for _, p := range in.claimed {
		if rest, ok := strings.CutPrefix(p, root+"."); ok {
			out = append(out, rest)
		}
	}
	return out
}

// Assemble builds the sections in catalog order. Sections without data are
// skipped; sections outside vis are hidden or blurred by its strategy.
func (a *Assembler) Assemble(ctx context.Context, p *domain.Payload, rc domain.RenderContext, vis domain.SectionVisibility) *domain.Report {
	log := zerolog.Ctx(ctx)
	results := p.Results()
	in := input{
		results: results,
		context: rc,
		tests:   mot.Normalize(domain.Get(results, domain.DocMotHistoryDetails).Raw()),
		fuel:    analytics.ResolveFuelEconomy(results),
	}

	sources := make([]source, len(catalog))
	for i, info := range catalog {
		sources[i] = lookup(results, info.Candidates)
		if sources[i].found() {
			in.claimed = append(in.claimed, sources[i].path)
			if info.Doc == domain.DocModelDetails && in.fuel.Source != "" && len(in.fuel.Metrics()) > 0 {
				in.claimed = append(in.claimed, in.fuel.Source)
			}
		}
	}

	report := &domain.Report{Context: rc}
	for i, info := range catalog {
		src := sources[i]
		sec, ok := a.section(info, src, in)
		if !ok {
			log.Debug().Str("section", info.Doc).Msg("section skipped, no data")
			continue
		}
		sec.Doc = info.Doc
		if !vis.Includes(info.Doc) {
			if vis.Strategy == domain.StrategyBlur {
				log.Debug().Str("section", info.Doc).Msg("section blurred by package")
				report.Sections = append(report.Sections, domain.Section{Doc: info.Doc, Title: info.Title, Blurred: true})
			} else {
				log.Debug().Str("section", info.Doc).Msg("section hidden by package")
			}
			continue
		}
		report.Sections = append(report.Sections, sec)
	}
	return report
}

func lookup(results *domain.Object, candidates []string) source {
	for _, c := range candidates {
		v := domain.Get(results, domain.SplitPath(c)...)
		if s := (source{value: v, path: c}); s.found() {
			return s
		}
	}
	return source{}
}

func (a *Assembler) section(info SectionInfo, src source, in input) (domain.Section, bool) {
	switch info.Doc {
	case domain.DocModelDetails:
		return a.modelSection(info, src, in)
	case domain.DocVehicleImageDetails:
		return a.imageSection(info, src, in)
	case domain.DocMileageCheckDetails:
		return a.mileageSection(info, src, in)
	case domain.DocMotHistoryDetails:
		return a.motSection(info, src, in)
	}
	if !src.found() {
		return domain.Section{}, false
	}
	sec := a.generic(info.Title, src, in)
	return sec, !sec.IsEmpty()
}

// generic walks the section data, leaving out records other sections claim.
// A bare list is treated as the only field of its parent.
func (a *Assembler) generic(title string, src source, in input, skip ...string) domain.Section {
	if obj := src.value.Object(); obj != nil {
		return a.builder.Object(title, obj, src.path, slices.Concat(skip, in.skipsUnder(src.path))...)
	}
	if list := src.value.List(); list != nil {
		leaf := domain.Leaf(src.path)
		parent := strings.TrimSuffix(strings.TrimSuffix(src.path, leaf), ".")
		return a.builder.Object(title, domain.NewObject().Set(leaf, list), parent)
	}
	return domain.Section{Title: title}
}

func (a *Assembler) modelSection(info SectionInfo, src source, in input) (domain.Section, bool) {
	if !src.found() {
		return domain.Section{}, false
	}
	sec := a.generic(info.Title, src, in)
	if fuel, ok := a.fuelSection(in.fuel); ok {
		sec.Children = append(sec.Children, fuel)
	}
	return sec, !sec.IsEmpty()
}

func (a *Assembler) imageSection(info SectionInfo, src source, in input) (domain.Section, bool) {
	if !src.found() {
		return domain.Section{}, false
	}
	const listKey = "VehicleImageList"
	sec := a.generic(info.Title, src, in, listKey)

	for i, item := range domain.Get(src.value.Object(), listKey).List() {
		obj, ok := item.(*domain.Object)
		if !ok {
			continue
		}
		url := domain.First(obj, "ImageUrl", "Url", "ImageURL").String()
		if url == "" {
			continue
		}
		caption := domain.First(obj, "ViewDescription", "Description", "Caption").String()
		sec.Blocks = append(sec.Blocks, &domain.Image{
			Name:    "vehicle-image-" + strconv.Itoa(i+1),
			Caption: caption,
			Data:    in.context.Assets.Images[url],
		})
	}
	return sec, !sec.IsEmpty()
}

func entry(path, label, value string) domain.GridEntry {
	return domain.GridEntry{Path: path, Label: label, Value: value}
}
