package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMileage_TrendScenario(t *testing.T) {
	// newest first, as the MOT normalizer returns them
	tests := []domain.MotTest{
		{Date: date(2025, 3, 1), HasDate: true, Mileage: 38972, HasMileage: true},
		{Date: date(2021, 3, 1), HasDate: true, Mileage: 12453, HasMileage: true},
	}

	s, ok := Mileage(tests)
	require.True(t, ok)
	assert.Equal(t, 12453, s.First.Miles)
	assert.Equal(t, 38972, s.Last.Miles)
	assert.Equal(t, 26519, s.Total)
	assert.InDelta(t, 4.0, s.Years, 0.01)
	assert.InDelta(t, 6630, s.AveragePerYear, 1)
	assert.Zero(t, s.Decreases)
}

func TestMileage_NeedsTwoPoints(t *testing.T) {
	_, ok := Mileage(nil)
	assert.False(t, ok)

	_, ok = Mileage([]domain.MotTest{
		{Date: date(2024, 1, 1), HasDate: true, Mileage: 100, HasMileage: true},
		{Date: date(2023, 1, 1), HasDate: true},
		{Mileage: 50, HasMileage: true},
	})
	assert.False(t, ok)
}

func TestMileage_ZeroElapsedTime(t *testing.T) {
	s, ok := Mileage([]domain.MotTest{
		{Date: date(2024, 1, 1), HasDate: true, Mileage: 100, HasMileage: true},
		{Date: date(2024, 1, 1), HasDate: true, Mileage: 120, HasMileage: true},
	})
	require.True(t, ok)
	assert.Equal(t, 20, s.Total)
	assert.Zero(t, s.AveragePerYear)
}

func TestMileageSeries(t *testing.T) {
	series := MileageSeries([]domain.MotTest{
		{Date: date(2023, 1, 1), HasDate: true, Mileage: 10000, HasMileage: true, MileageUnit: "km"},
		{Date: date(2022, 1, 1), HasDate: true, Mileage: 9000, HasMileage: true, MileageUnit: "mi"},
		{Date: date(2024, 1, 1), HasDate: true, Mileage: 5000, HasMileage: true},
	})

	require.Len(t, series, 3)
	assert.Equal(t, 9000, series[0].Miles)
	assert.Equal(t, 6214, series[1].Miles)
	assert.Equal(t, 5000, series[2].Miles)

	s, ok := Mileage([]domain.MotTest{
		{Date: date(2022, 1, 1), HasDate: true, Mileage: 9000, HasMileage: true},
		{Date: date(2023, 1, 1), HasDate: true, Mileage: 8000, HasMileage: true},
	})
	require.True(t, ok)
	assert.Equal(t, 1, s.Decreases)
	assert.Equal(t, -1000, s.Total)
}

func TestFuelConversions(t *testing.T) {
	assert.InDelta(t, 46.3, MpgFromL100(6.1), 0.05)
	assert.InDelta(t, 6.1, L100FromMpg(46.3), 0.01)
	assert.Zero(t, MpgFromL100(0))
	assert.Zero(t, L100FromMpg(-3))

	for _, v := range []float64{3.2, 5.5, 8.9, 12} {
		assert.InDelta(t, v, L100FromMpg(MpgFromL100(v)), 1e-9)
	}
}

func resultsOf(t *testing.T, raw string) *domain.Object {
	t.Helper()
	obj := domain.NewObject()
	require.NoError(t, json.Unmarshal([]byte(raw), obj))
	return obj
}

func TestResolveFuelEconomy_Backfill(t *testing.T) {
	fe := ResolveFuelEconomy(resultsOf(t, `{
		"ModelDetails": {"Performance": {"FuelEconomy": {
			"CombinedLPer100Km": 6.1,
			"UrbanColdMpg": "38.2",
			"ExtraUrbanMpg": 0
		}}}
	}`))

	assert.Equal(t, "ModelDetails.Performance.FuelEconomy", fe.Source)
	assert.True(t, fe.Combined.Set)
	assert.Equal(t, 46.3, fe.Combined.Mpg)
	assert.Equal(t, 6.1, fe.Combined.L100)

	assert.True(t, fe.Urban.Set)
	assert.Equal(t, 38.2, fe.Urban.Mpg)
	assert.Equal(t, 7.4, fe.Urban.L100)

	assert.False(t, fe.ExtraUrban.Set)

	metrics := fe.Metrics()
	require.Len(t, metrics, 2)
	assert.Equal(t, "Urban", metrics[0].Name)
	assert.Equal(t, "Combined", metrics[1].Name)
}

func TestResolveFuelEconomy_AlternateCombined(t *testing.T) {
	fe := ResolveFuelEconomy(resultsOf(t, `{
		"VehicleDetails": {"DvlaTechnicalDetails": {"CombinedMpg": "52.3 mpg"}}
	}`))
	assert.True(t, fe.Combined.Set)
	assert.Equal(t, 52.3, fe.Combined.Mpg)
	assert.Equal(t, 5.4, fe.Combined.L100)
	assert.Empty(t, fe.Source)

	assert.Empty(t, ResolveFuelEconomy(resultsOf(t, `{}`)).Metrics())
	assert.Empty(t, ResolveFuelEconomy(nil).Metrics())
}

func TestEfficiency(t *testing.T) {
	tests := []struct {
		mpg        float64
		percentile int
		category   string
	}{
		{72, 95, "Excellent"},
		{60, 95, "Excellent"},
		{59.9, 85, "Very Good"},
		{46.3, 75, "Good"},
		{30, 65, "Average"},
		{25, 50, "Below Average"},
		{12, 35, "Below Average"},
		{0, 35, "Below Average"},
	}
	for _, tt := range tests {
		p, c := Efficiency(tt.mpg)
		assert.Equal(t, tt.percentile, p, "mpg %v", tt.mpg)
		assert.Equal(t, tt.category, c, "mpg %v", tt.mpg)
	}
}
