package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/analytics"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
	"github.com/de-tools/vehicle-atlas/pkg/services/mot"
)

const (
	noMotHistory = "No MOT history is recorded for this vehicle."
	dateUnknown  = "Date unknown"
)

func (a *Assembler) fuelSection(fe analytics.FuelEconomy) (domain.Section, bool) {
	metrics := fe.Metrics()
	if len(metrics) == 0 {
		return domain.Section{}, false
	}

	sec := domain.Section{Title: "Fuel Economy"}
	bars := &domain.BarChart{Title: "Fuel Economy (mpg)", Unit: "mpg"}
	for _, m := range metrics {
		value := fmt.Sprintf("%s (%s L/100km)", a.format.Number(m.Mpg, format.UnitMpg), a.format.Number(m.L100, format.UnitNone))
		sec.Entries = append(sec.Entries, entry("FuelEconomy."+m.Name, m.Name, value))
		bars.Bars = append(bars.Bars, domain.Bar{Label: m.Name, Value: m.Mpg})
	}
	if fe.Combined.Set {
		pct, category := analytics.Efficiency(fe.Combined.Mpg)
		sec.Entries = append(sec.Entries, entry("FuelEconomy.Efficiency", "Efficiency Rating",
			fmt.Sprintf("%s, better than %d%% of vehicles", category, pct)))
	}
	sec.Blocks = append(sec.Blocks, bars)
	return sec, true
}

// mileageSection exists when the provider sent mileage checks or the MOT
// history carries a trend of at least two readings.
func (a *Assembler) mileageSection(info SectionInfo, src source, in input) (domain.Section, bool) {
	sec := domain.Section{Title: info.Title}
	if src.found() {
		sec = a.generic(info.Title, src, in)
	}

	if summary, ok := analytics.Mileage(in.tests); ok {
		const base = "MileageCheckDetails.Trend"
		trend := []domain.GridEntry{
			entry(base+".First", "First Recorded Reading", a.reading(summary.First)),
			entry(base+".Last", "Latest Recorded Reading", a.reading(summary.Last)),
			entry(base+".Total", "Miles Covered", a.format.Number(float64(summary.Total), format.UnitMiles)),
			entry(base+".Years", "Period", strconv.FormatFloat(math.Round(summary.Years*10)/10, 'f', 1, 64)+" years"),
			entry(base+".Average", "Average Per Year", a.format.Number(math.Round(summary.AveragePerYear), format.UnitMiles)),
			a.decreases(base+".Decreases", summary.Decreases),
		}
		sec.Entries = append(trend, sec.Entries...)

		chart := &domain.LineChart{Title: "Mileage Trend", Unit: "miles"}
		for _, p := range analytics.MileageSeries(in.tests) {
			chart.Points = append(chart.Points, domain.Point{Label: p.Date.Format("Jan 2006"), Value: float64(p.Miles)})
		}
		sec.Blocks = append(sec.Blocks, chart)
	}
	return sec, !sec.IsEmpty()
}

func (a *Assembler) reading(p analytics.MileagePoint) string {
	return a.format.Number(float64(p.Miles), format.UnitMiles) + " on " + format.FormatDate(p.Date)
}

func (a *Assembler) decreases(path string, n int) domain.GridEntry {
	e := entry(path, "Mileage Decreases", strconv.Itoa(n))
	e.Color = domain.ColorGood
	if n > 0 {
		e.Color = domain.ColorBad
	}
	return e
}

// motSection renders whenever the provider sent MOT data. A shape that yields
// no tests shows only the fallback message.
func (a *Assembler) motSection(info SectionInfo, src source, in input) (domain.Section, bool) {
	if !src.found() {
		return domain.Section{}, false
	}
	if len(in.tests) == 0 {
		return domain.Section{Title: info.Title, Empty: noMotHistory}, true
	}

	sec := domain.Section{Title: info.Title}
	if src.value.Object() != nil {
		sec = a.generic(info.Title, src, in, motListKeys...)
	}

	sec.Entries = append(a.motSummary(mot.Summarize(in.tests)), sec.Entries...)
	for _, t := range in.tests {
		sec.Blocks = append(sec.Blocks, a.motCard(t))
	}
	return sec, true
}

func (a *Assembler) motSummary(s mot.Summary) []domain.GridEntry {
	const base = "MotHistoryDetails.Summary"
	out := []domain.GridEntry{
		entry(base+".Total", "Total Tests", strconv.Itoa(s.Total)),
		entry(base+".PassRate", "Pass Rate", strconv.Itoa(s.PassRate)+"%"),
		entry(base+".Passed", "Passed", strconv.Itoa(s.Passed)),
		entry(base+".Failed", "Failed", strconv.Itoa(s.Failed)),
		entry(base+".Advisories", "Advisories", strconv.Itoa(s.Advisories)),
		entry(base+".Failures", "Failure Items", strconv.Itoa(s.Failures)),
	}
	if latest := s.Latest; latest != nil {
		result := entry(base+".LatestResult", "Latest Result", badge(*latest))
		result.Color = resultColor(*latest)
		out = append(out, result)
		if latest.HasExpiry {
			out = append(out, entry(base+".Expiry", "MOT Expiry", format.FormatDate(latest.ExpiryDate)))
		}
	}
	return out
}

func (a *Assembler) motCard(t domain.MotTest) *domain.Card {
	title := dateUnknown
	if t.HasDate {
		title = format.FormatDate(t.Date)
	}
	card := &domain.Card{Title: title, Badge: badge(t), Color: resultColor(t)}

	const base = "MotHistoryDetails.Test"
	if t.HasMileage {
		reading := a.format.Number(float64(t.Mileage), format.UnitMiles)
		if t.MileageUnit == "km" {
			reading = a.format.Number(float64(t.Mileage), format.UnitNone) + " km"
		}
		card.Entries = append(card.Entries, entry(base+".Mileage", "Mileage", reading))
	}
	if t.TestNumber != "" {
		card.Entries = append(card.Entries, entry(base+".TestNumber", "Test Number", t.TestNumber))
	}
	if t.Location != "" {
		card.Entries = append(card.Entries, entry(base+".Location", "Test Station", t.Location))
	}
	if t.HasExpiry {
		card.Entries = append(card.Entries, entry(base+".Expiry", "Expiry Date", format.FormatDate(t.ExpiryDate)))
	}

	if len(t.Failures) > 0 {
		card.Groups = append(card.Groups, notes("Failures", t.Failures, domain.ColorBad))
	}
	if len(t.Advisories) > 0 {
		card.Groups = append(card.Groups, notes("Advisories", t.Advisories, domain.ColorNone))
	}
	return card
}

func badge(t domain.MotTest) string {
	b := "FAIL"
	if t.Passed {
		b = "PASS"
	}
	if t.IsRetest {
		b += " (RETEST)"
	}
	return b
}

func resultColor(t domain.MotTest) domain.Color {
	if t.Passed {
		return domain.ColorGood
	}
	return domain.ColorBad
}

func notes(title string, list []domain.Annotation, c domain.Color) domain.NoteGroup {
	g := domain.NoteGroup{Title: title}
	for _, an := range list {
		text := an.Text
		if an.Type != "" {
			text = an.Type + ": " + an.Text
		}
		g.Notes = append(g.Notes, domain.Note{Text: text, Color: c})
	}
	return g
}
