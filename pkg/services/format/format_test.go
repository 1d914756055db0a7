package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormat_NullLikeValuesUsePlaceholder(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	for _, v := range []any{nil, "", "   ", "\t\n", []any{}, []any{nil, " "}, domain.NewObject(), time.Time{}} {
		for _, label := range []string{"Make", "TwelveMonths", "GrossWeightKg", "DateFirstRegistered"} {
			assert.Equal(t, "-", f.Format(v, "", label), "value %#v label %s", v, label)
		}
	}
}

func TestFormat_ZeroIsNeverEmpty(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	tests := []struct {
		name     string
		value    any
		label    string
		expected string
	}{
		{name: "plain zero", value: json.Number("0"), label: "ColourChangeCount", expected: "0"},
		{name: "int zero", value: 0, label: "NumberOfSeats", expected: "0"},
		{name: "currency zero", value: json.Number("0"), label: "TwelveMonths", expected: "£0.00"},
		{name: "currency zero float", value: 0.0, label: "OtrPrice", expected: "£0.00"},
		{name: "currency zero string", value: "0", label: "Six Months", expected: "£0.00"},
		{name: "unit zero", value: json.Number("0"), label: "GrossWeightKg", expected: "0 kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(tt.value, "", tt.label))
		})
	}
}

func TestFormat_Units(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	tests := []struct {
		label    string
		value    any
		expected string
	}{
		{label: "Twelve Months", value: json.Number("190"), expected: "£190.00"},
		{label: "SixMonths", value: json.Number("104.5"), expected: "£104.50"},
		{label: "OtrPrice", value: json.Number("23450"), expected: "£23,450.00"},
		{label: "GrossWeightKg", value: json.Number("1870"), expected: "1,870 kg"},
		{label: "MaxNetPowerKw", value: json.Number("110"), expected: "110 kW"},
		{label: "Bhp", value: json.Number("148"), expected: "148 bhp"},
		{label: "MaxSpeedMph", value: json.Number("134"), expected: "134 mph"},
		{label: "EngineCapacityCc", value: json.Number("1968"), expected: "1,968 cc"},
		{label: "EngineCapacityLitres", value: json.Number("2.0"), expected: "2 litres"},
		{label: "FuelTankCapacityLitres", value: json.Number("55"), expected: "55 litres"},
		{label: "DvlaCo2", value: json.Number("119"), expected: "119 g/km"},
		{label: "OdometerReading", value: json.Number("38972"), expected: "38,972 miles"},
		{label: "Height", value: json.Number("1452"), expected: "1,452 mm"},
		{label: "WheelbaseLength", value: json.Number("2637"), expected: "2,637 mm"},
		{label: "LengthMm", value: json.Number("4258"), expected: "4,258 mm"},
		{label: "CombinedMpg", value: json.Number("46.3"), expected: "46.3 mpg"},
		{label: "PassRatePercentage", value: json.Number("67"), expected: "67%"},
		{label: "PowerToWeightRatio", value: json.Number("80.1"), expected: "80.1"},
		{label: "NumberOfSeats", value: json.Number("5"), expected: "5"},
		{label: "YearOfManufacture", value: json.Number("2015"), expected: "2015"},
		{label: "ZeroToSixtyMph", value: json.Number("8.4"), expected: "8.4 s"},
		{label: "BatteryCapacityKwh", value: json.Number("64"), expected: "64 kWh"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(tt.value, "", tt.label))
		})
	}
}

func TestFormat_UnitNotAppendedTwice(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	assert.Equal(t, "1,870 kg", f.Format("1,870 kg", "", "KerbWeight"))
	assert.Equal(t, "12,453 miles", f.Format("12,453 miles", "", "Mileage"))
	assert.Equal(t, "45%", f.Format("45%", "", "Percentage"))
	assert.Equal(t, "12,453 miles", f.Format("12453 mi", "", "Mileage"))
	assert.Equal(t, "£1,200.00", f.Format("£1,200", "", "Price"))
}

func TestFormat_ForeignUnitKept(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	tests := []struct {
		name     string
		value    string
		path     string
		expected string
	}{
		{name: "bhp in a kW field", value: "150 bhp", path: "ModelDetails.Power", expected: "150 bhp"},
		{name: "km in a miles field", value: "12,453 km", path: "MileageCheckDetails.LastMileage", expected: "12,453 km"},
		{name: "litres in a cc field", value: "1.6 litres", path: "ModelDetails.EngineCapacity", expected: "1.6 litres"},
		{name: "km/h in a mph field", value: "120 km/h", path: "ModelDetails.MaxSpeed", expected: "120 km/h"},
		{name: "lbs in a kg field", value: "1200 lbs", path: "ModelDetails.KerbWeight", expected: "1200 lbs"},
		{name: "years in a miles field", value: "3 years", path: "Mileage", expected: "3 years"},
		{name: "matching alias", value: "1200 kgs", path: "ModelDetails.KerbWeight", expected: "1,200 kg"},
		{name: "matching symbol", value: "119g/km", path: "ModelDetails.DvlaCo2", expected: "119 g/km"},
		{name: "bare number", value: "1968", path: "ModelDetails.EngineCapacity", expected: "1,968 cc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(tt.value, tt.path, ""))
		})
	}
}

func TestFormat_NumericCoercion(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	assert.Equal(t, "-", f.Format("--", "", "GrossWeightKg"))
	assert.Equal(t, "-", f.Format("£", "", "Price"))
	assert.Equal(t, "-", f.Format("Not available", "", "GrossWeightKg"))
	assert.Equal(t, "-", f.Format("N/A", "", "MaxSpeedMph"))
	assert.Equal(t, "Approx 1200", f.Format("Approx 1200", "", "Mileage"))
	assert.Equal(t, "F", f.Format("F", "", "DvlaCo2Band"))
	assert.Equal(t, "123456789012", f.Format("123456789012", "", "TestNumber"))
}

func TestFormat_NegativeCurrency(t *testing.T) {
	f := NewFormatter(DefaultOptions())
	assert.Equal(t, "-£1,234.50", f.Format(json.Number("-1234.5"), "", "Cost"))
}

func TestFormat_BooleansAndLists(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	assert.Equal(t, "Yes", f.Format(true, "", "IsImported"))
	assert.Equal(t, "No", f.Format(false, "", "IsImported"))
	assert.Equal(t, "Red, Blue", f.Format([]any{"Red", nil, "Blue"}, "", "Colours"))
	assert.Equal(t, "1,200 kg, 1,300 kg", f.Format([]any{json.Number("1200"), json.Number("1300")}, "", "Weights"))
	assert.Equal(t, "a", f.Format([]any{"a", domain.NewObject().Set("x", 1)}, "", "Mixed"))
}

func TestFormat_Dates(t *testing.T) {
	f := NewFormatter(DefaultOptions())

	assert.Equal(t, "10 March 2024", f.Format("2024-03-10", "", "TestDate"))
	assert.Equal(t, "10 March 2024, 14:05", f.Format("2024-03-10T14:05:00Z", "", "TestDate"))
	assert.Equal(t, "1 February 2019", f.Format("01/02/2019", "", "DateFirstRegistered"))
	assert.Equal(t, "sometime in spring", f.Format("sometime in spring", "", "DateImported"))
	assert.Equal(t, "5 May 2020", f.Format(time.Date(2020, 5, 5, 0, 0, 0, 0, time.UTC), "", "Anything"))
}

func TestFormat_PathOverrides(t *testing.T) {
	f := NewFormatter(Options{
		PathUnits: map[string]Unit{
			"VehicleDetails.Odd.Band": UnitCurrency,
		},
		PrefixUnits: map[string]Unit{
			"ValuationDetails.ValuationList": UnitCurrency,
			"ValuationDetails":               UnitNone,
		},
	})

	assert.Equal(t, "£12.00", f.Format(json.Number("12"), "VehicleDetails.Odd.Band", ""))
	assert.Equal(t, "£9,250.00", f.Format(json.Number("9250"), "ValuationDetails.ValuationList.DealerForecourt", ""))
	assert.Equal(t, "38972", f.Format(json.Number("38972"), "ValuationDetails.Mileage", ""))
}

func TestFormat_CustomSymbolAndPlaceholder(t *testing.T) {
	f := NewFormatter(Options{Placeholder: "n/a", CurrencySymbol: "€"})

	assert.Equal(t, "n/a", f.Format(nil, "", "Price"))
	assert.Equal(t, "€10.00", f.Format(json.Number("10"), "", "Price"))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in       any
		expected float64
		ok       bool
	}{
		{in: "38,972", expected: 38972, ok: true},
		{in: "38,972 mi", expected: 38972, ok: true},
		{in: " 12453km ", expected: 12453, ok: true},
		{in: "-4.5", expected: -4.5, ok: true},
		{in: "N/A", ok: false},
		{in: "", ok: false},
		{in: nil, ok: false},
		{in: true, ok: false},
		{in: json.Number("7"), expected: 7, ok: true},
		{in: 3, expected: 3, ok: true},
		{in: 2.5, expected: 2.5, ok: true},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "input %#v", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.expected, got, 1e-9, "input %#v", tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-03-10", "2024-03-10T00:00:00", "2024-03-10T00:00:00Z", "10/03/2024", "10 March 2024", "2024.03.10", "2024.03.10 14:13:05"} {
		got, ok := ParseDate(s)
		if assert.True(t, ok, s) {
			assert.Equal(t, 2024, got.Year(), s)
			assert.Equal(t, time.March, got.Month(), s)
			assert.Equal(t, 10, got.Day(), s)
		}
	}

	_, ok := ParseDate("not a date")
	assert.False(t, ok)
}
