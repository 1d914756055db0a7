package format

import (
	"slices"
	"strings"
	"unicode"
)

// Unit describes how a numeric value is annotated.
type Unit struct {
	Name     string
	Symbol   string
	Prefix   bool // symbol goes before the number
	Spaced   bool // a space separates number and symbol
	Decimals int  // fixed decimals, or -1 to print up to two
}

var (
	UnitNone       = Unit{Name: "none", Decimals: -1}
	UnitCurrency   = Unit{Name: "currency", Symbol: "£", Prefix: true, Decimals: 2}
	UnitKilograms  = Unit{Name: "kg", Symbol: "kg", Spaced: true, Decimals: -1}
	UnitKilowatts  = Unit{Name: "kw", Symbol: "kW", Spaced: true, Decimals: -1}
	UnitBhp        = Unit{Name: "bhp", Symbol: "bhp", Spaced: true, Decimals: -1}
	UnitMph        = Unit{Name: "mph", Symbol: "mph", Spaced: true, Decimals: -1}
	UnitCC         = Unit{Name: "cc", Symbol: "cc", Spaced: true, Decimals: -1}
	UnitLitres     = Unit{Name: "litres", Symbol: "litres", Spaced: true, Decimals: -1}
	UnitEmissions  = Unit{Name: "gkm", Symbol: "g/km", Spaced: true, Decimals: -1}
	UnitMiles      = Unit{Name: "miles", Symbol: "miles", Spaced: true, Decimals: -1}
	UnitMillimetre = Unit{Name: "mm", Symbol: "mm", Spaced: true, Decimals: -1}
	UnitTorque     = Unit{Name: "nm", Symbol: "Nm", Spaced: true, Decimals: -1}
	UnitMpg        = Unit{Name: "mpg", Symbol: "mpg", Spaced: true, Decimals: -1}
	UnitPercent    = Unit{Name: "percent", Symbol: "%", Decimals: -1}
	UnitSeconds    = Unit{Name: "seconds", Symbol: "s", Spaced: true, Decimals: -1}
	UnitKwh        = Unit{Name: "kwh", Symbol: "kWh", Spaced: true, Decimals: -1}
)

var unitsByName = map[string]Unit{}

func init() {
	for _, u := range []Unit{
		UnitNone, UnitCurrency, UnitKilograms, UnitKilowatts, UnitBhp, UnitMph, UnitCC, UnitLitres,
		UnitEmissions, UnitMiles, UnitMillimetre, UnitTorque, UnitMpg, UnitPercent, UnitSeconds, UnitKwh,
	} {
		unitsByName[u.Name] = u
	}
}

// unitAliases are the spellings, after Normalize, that a value may already
// carry for a unit. Symbols made only of punctuation normalize to "".
var unitAliases = map[string][]string{
	"currency": {"gbp"},
	"kg":       {"kg", "kgs", "kilogram", "kilograms"},
	"kw":       {"kw", "kilowatt", "kilowatts"},
	"bhp":      {"bhp"},
	"mph":      {"mph"},
	"cc":       {"cc", "cm3"},
	"litres":   {"l", "litre", "litres", "liter", "liters"},
	"gkm":      {"gkm"},
	"miles":    {"mi", "mile", "miles"},
	"mm":       {"mm"},
	"nm":       {"nm"},
	"mpg":      {"mpg"},
	"seconds":  {"s", "sec", "secs", "second", "seconds"},
	"kwh":      {"kwh"},
}

// Matches reports whether suffix, as found after a number, names u.
func (u Unit) Matches(suffix string) bool {
	norm := Normalize(suffix)
	if norm == "" || norm == Normalize(u.Symbol) {
		return true
	}
	return slices.Contains(unitAliases[u.Name], norm)
}

// UnitByName resolves a unit name used in override tables.
func UnitByName(name string) (Unit, bool) {
	u, ok := unitsByName[strings.ToLower(strings.TrimSpace(name))]
	return u, ok
}

type unitRule struct {
	keyword string
	unit    Unit
}

// unitHeuristics is tried top to bottom against the normalized label; the
// first keyword contained in the label wins, so more specific words come first.
var unitHeuristics = []unitRule{
	{"ratio", UnitNone},
	{"count", UnitNone},
	{"number", UnitNone},
	{"seat", UnitNone},
	{"door", UnitNone},
	{"year", UnitNone},
	{"rpm", UnitNone},
	{"band", UnitNone},
	{"zeroto", UnitSeconds},
	{"kwh", UnitKwh},
	{"fueltank", UnitLitres},
	{"litres", UnitLitres},
	{"mpg", UnitMpg},
	{"weight", UnitKilograms},
	{"mass", UnitKilograms},
	{"kerb", UnitKilograms},
	{"bhp", UnitBhp},
	{"power", UnitKilowatts},
	{"kw", UnitKilowatts},
	{"torque", UnitTorque},
	{"speed", UnitMph},
	{"mph", UnitMph},
	{"capacity", UnitCC},
	{"co2", UnitEmissions},
	{"emission", UnitEmissions},
	{"mileage", UnitMiles},
	{"odometer", UnitMiles},
	{"distance", UnitMiles},
	{"miles", UnitMiles},
	{"height", UnitMillimetre},
	{"width", UnitMillimetre},
	{"length", UnitMillimetre},
	{"wheelbase", UnitMillimetre},
	{"price", UnitCurrency},
	{"cost", UnitCurrency},
	{"valuation", UnitCurrency},
	{"amount", UnitCurrency},
	{"percentage", UnitPercent},
	{"percent", UnitPercent},
	{"rate", UnitPercent},
}

// labelOverrides are exact normalized labels whose meaning the heuristics
// would get wrong.
var labelOverrides = map[string]Unit{
	"sixmonths":       UnitCurrency,
	"twelvemonths":    UnitCurrency,
	"height":          UnitMillimetre,
	"width":           UnitMillimetre,
	"length":          UnitMillimetre,
	"wheelbaselength": UnitMillimetre,
}

// Normalize lower-cases s and drops every non-alphanumeric rune.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func heuristicUnit(label string) (Unit, bool) {
	norm := Normalize(label)
	if norm == "" {
		return Unit{}, false
	}
	if u, ok := labelOverrides[norm]; ok {
		return u, true
	}
	for _, rule := range unitHeuristics {
		if strings.Contains(norm, rule.keyword) {
			return rule.unit, true
		}
	}
	return Unit{}, false
}
