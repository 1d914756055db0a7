package domain

import "fmt"

// Document names, one per top-level report section, in rendering order.
const (
	DocVehicleDetails        = "VehicleDetails"
	DocModelDetails          = "ModelDetails"
	DocVehicleTaxDetails     = "VehicleTaxDetails"
	DocPncDetails            = "PncDetails"
	DocMiaftrDetails         = "MiaftrDetails"
	DocFinanceDetails        = "FinanceDetails"
	DocValuationDetails      = "ValuationDetails"
	DocSpecAndOptionsDetails = "SpecAndOptionsDetails"
	DocBatteryDetails        = "BatteryDetails"
	DocTyreDetails           = "TyreDetails"
	DocVehicleImageDetails   = "VehicleImageDetails"
	DocMileageCheckDetails   = "MileageCheckDetails"
	DocMotHistoryDetails     = "MotHistoryDetails"
)

// Documents lists every document name in rendering order.
var Documents = []string{
	DocVehicleDetails,
	DocModelDetails,
	DocVehicleTaxDetails,
	DocPncDetails,
	DocMiaftrDetails,
	DocFinanceDetails,
	DocValuationDetails,
	DocSpecAndOptionsDetails,
	DocBatteryDetails,
	DocTyreDetails,
	DocVehicleImageDetails,
	DocMileageCheckDetails,
	DocMotHistoryDetails,
}

// Strategy decides what happens to a section the package does not include.
type Strategy string

const (
	StrategyHide Strategy = "hide"
	StrategyBlur Strategy = "blur"
)

// ParseStrategy accepts "hide" or "blur"; empty means hide.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyHide:
		return StrategyHide, nil
	case StrategyBlur:
		return StrategyBlur, nil
	}
	return "", fmt.Errorf("unknown visibility strategy %q (expected hide or blur)", s)
}

// SectionVisibility says which documents the current package includes.
// A nil Docs map includes everything.
type SectionVisibility struct {
	Docs     map[string]bool
	Strategy Strategy
}

// Includes reports whether doc is part of the package.
func (v SectionVisibility) Includes(doc string) bool {
	if v.Docs == nil {
		return true
	}
	return v.Docs[doc]
}
