package analytics

import (
	"math"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

// mpgL100Factor converts UK miles per gallon to litres per 100 km and back.
const mpgL100Factor = 282.481

func MpgFromL100(l100 float64) float64 {
	if l100 <= 0 {
		return 0
	}
	return mpgL100Factor / l100
}

func L100FromMpg(mpg float64) float64 {
	if mpg <= 0 {
		return 0
	}
	return mpgL100Factor / mpg
}

// FuelMetric is one fuel economy figure in both units, rounded to one decimal.
type FuelMetric struct {
	Name string
	Mpg  float64
	L100 float64
	Set  bool
}

type FuelEconomy struct {
	// Source is the results path of the fuel record, empty when none exists.
	Source     string
	Urban      FuelMetric
	ExtraUrban FuelMetric
	Combined   FuelMetric
}

// Metrics returns the metrics that carry a value, in chart order.
func (f FuelEconomy) Metrics() []FuelMetric {
	out := make([]FuelMetric, 0, 3)
	for _, m := range []FuelMetric{f.Urban, f.Combined, f.ExtraUrban} {
		if m.Set {
			out = append(out, m)
		}
	}
	return out
}

var fuelRecords = []string{
	"ModelDetails.Performance.FuelEconomy",
	"ModelDetails.FuelEconomy",
	"SpecAndOptionsDetails.FuelEconomy",
}

// alternateCombined holds combined MPG figures kept outside the fuel record.
var alternateCombined = []string{
	"VehicleDetails.DvlaTechnicalDetails.CombinedMpg",
	"VehicleDetails.CombinedMpg",
	"ModelDetails.CombinedMpg",
}

type metricKeys struct {
	name string
	mpg  []string
	l100 []string
}

var (
	urbanKeys      = metricKeys{name: "Urban", mpg: []string{"UrbanColdMpg", "UrbanMpg"}, l100: []string{"UrbanColdLPer100Km", "UrbanLPer100Km"}}
	extraUrbanKeys = metricKeys{name: "Extra Urban", mpg: []string{"ExtraUrbanMpg"}, l100: []string{"ExtraUrbanLPer100Km"}}
	combinedKeys   = metricKeys{name: "Combined", mpg: []string{"CombinedMpg"}, l100: []string{"CombinedLPer100Km"}}
)

// ResolveFuelEconomy reads fuel figures from results, backfilling each metric
// from whichever unit is present.
func ResolveFuelEconomy(results *domain.Object) FuelEconomy {
	var rec *domain.Object
	source := ""
	for _, path := range fuelRecords {
		if rec = domain.Get(results, path).Object(); rec != nil {
			source = path
			break
		}
	}

	fe := FuelEconomy{
		Source:     source,
		Urban:      resolveMetric(rec, urbanKeys),
		ExtraUrban: resolveMetric(rec, extraUrbanKeys),
		Combined:   resolveMetric(rec, combinedKeys),
	}
	if !fe.Combined.Set {
		if mpg, ok := positive(domain.First(results, alternateCombined...).Raw()); ok {
			fe.Combined = metric(combinedKeys.name, mpg, L100FromMpg(mpg))
		}
	}
	return fe
}

func resolveMetric(rec *domain.Object, keys metricKeys) FuelMetric {
	mpg, hasMpg := positive(domain.First(rec, keys.mpg...).Raw())
	l100, hasL100 := positive(domain.First(rec, keys.l100...).Raw())
	switch {
	case hasMpg && hasL100:
		return metric(keys.name, mpg, l100)
	case hasMpg:
		return metric(keys.name, mpg, L100FromMpg(mpg))
	case hasL100:
		return metric(keys.name, MpgFromL100(l100), l100)
	}
	return FuelMetric{Name: keys.name}
}

func metric(name string, mpg, l100 float64) FuelMetric {
	return FuelMetric{Name: name, Mpg: round1(mpg), L100: round1(l100), Set: true}
}

func positive(v any) (float64, bool) {
	n, ok := format.ParseNumber(v)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

type efficiencyBand struct {
	minMpg     float64
	percentile int
	category   string
}

var efficiencyBands = []efficiencyBand{
	{60, 95, "Excellent"},
	{50, 85, "Very Good"},
	{40, 75, "Good"},
	{30, 65, "Average"},
	{20, 50, "Below Average"},
}

// Efficiency places a combined MPG figure on a fixed percentile scale.
func Efficiency(mpg float64) (int, string) {
	for _, b := range efficiencyBands {
		if mpg >= b.minMpg {
			return b.percentile, b.category
		}
	}
	return 35, "Below Average"
}
