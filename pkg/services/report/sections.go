package report

import (
	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

// SectionInfo describes one top-level report section.
type SectionInfo struct {
	Doc   string `json:"doc"`
	Title string `json:"title"`
	// Candidates are the Results paths tried in order for the section data.
	Candidates []string `json:"candidates"`
	Free       bool     `json:"free"`
}

// catalog is the fixed section order of every report.
var catalog = []SectionInfo{
	{Doc: domain.DocVehicleDetails, Title: "Vehicle Details", Candidates: []string{"VehicleDetails"}},
	{Doc: domain.DocModelDetails, Title: "Model Details", Candidates: []string{"ModelDetails"}},
	{Doc: domain.DocVehicleTaxDetails, Title: "Vehicle Tax Details", Candidates: []string{
		"VehicleTaxDetails",
		"VehicleDetails.VehicleStatus.VehicleExciseDutyDetails",
	}},
	{Doc: domain.DocPncDetails, Title: "PNC Details", Candidates: []string{"PncDetails"}},
	{Doc: domain.DocMiaftrDetails, Title: "Write-off (MIAFTR) Details", Candidates: []string{"MiaftrDetails"}},
	{Doc: domain.DocFinanceDetails, Title: "Finance Details", Candidates: []string{"FinanceDetails"}},
	{Doc: domain.DocValuationDetails, Title: "Valuation Details", Candidates: []string{"ValuationDetails"}},
	{Doc: domain.DocSpecAndOptionsDetails, Title: "Spec & Options Details", Candidates: []string{"SpecAndOptionsDetails"}},
	{Doc: domain.DocBatteryDetails, Title: "Battery Details", Candidates: []string{"BatteryDetails"}},
	{Doc: domain.DocTyreDetails, Title: "Tyre Details", Candidates: []string{"TyreDetails"}},
	{Doc: domain.DocVehicleImageDetails, Title: "Vehicle Images", Candidates: []string{"VehicleImageDetails"}},
	{Doc: domain.DocMileageCheckDetails, Title: "Mileage Check Details", Candidates: []string{"MileageCheckDetails"}},
	{Doc: domain.DocMotHistoryDetails, Title: "MOT History Details", Candidates: []string{"MotHistoryDetails"}},
}

// freeDocs may render without a premium package.
var freeDocs = map[string]bool{
	domain.DocVehicleDetails:    true,
	domain.DocModelDetails:      true,
	domain.DocVehicleTaxDetails: true,
	domain.DocMotHistoryDetails: true,
}

func init() {
	for i := range catalog {
		catalog[i].Free = freeDocs[catalog[i].Doc]
	}
}

// Sections returns the section catalog in rendering order.
func Sections() []SectionInfo {
	out := make([]SectionInfo, len(catalog))
	for i, s := range catalog {
		s.Candidates = append([]string(nil), s.Candidates...)
		out[i] = s
	}
	return out
}

// Visibility combines the package's documents with the free allow-list. A
// nil docs map means the package includes everything.
func Visibility(premium bool, docs map[string]bool, strategy domain.Strategy) domain.SectionVisibility {
	v := domain.SectionVisibility{Strategy: strategy}
	if premium {
		v.Docs = docs
		return v
	}
	v.Docs = make(map[string]bool, len(freeDocs))
	for doc := range freeDocs {
		if docs == nil || docs[doc] {
			v.Docs[doc] = true
		}
	}
	return v
}
