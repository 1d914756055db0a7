package format

import (
	"strings"
	"time"
)

const (
	DateLayout     = "2 January 2006"
	DateTimeLayout = "2 January 2006, 15:04"
)

// dateLayouts are tried in order; the provider mixes ISO and UK styles.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2006.01.02",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01",
}

// ParseDate parses s with the first layout that accepts it. Times without a
// zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as "day month year", adding the time of day when it is
// not midnight.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

func looksLikeDate(label string) bool {
	norm := Normalize(label)
	return strings.Contains(norm, "date") || strings.HasSuffix(norm, "expiry") || strings.HasSuffix(norm, "time")
}
