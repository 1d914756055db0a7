package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// ParseNumber extracts a finite number from loosely typed input. Strings have
// thousands separators, currency symbols and unit suffixes stripped first.
func ParseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parseNumericString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumericString keeps the leading run of digits, one decimal point and a
// leading minus sign; everything else is dropped.
func parseNumericString(s string) (float64, bool) {
	var b strings.Builder
	seenDigit, seenPoint := false, false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			seenDigit = true
		case r == '.' && seenDigit && !seenPoint:
			b.WriteRune(r)
			seenPoint = true
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == ',' || r == ' ' || r == '£' || r == '$' || r == '€':
			// separators and symbols
		default:
			if seenDigit {
				return finiteString(b.String())
			}
		}
	}
	if !seenDigit {
		return 0, false
	}
	return finiteString(b.String())
}

func finiteString(s string) (float64, bool) {
	s = strings.TrimSuffix(s, ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// hasWords reports whether s contains a run of two or more letters, which
// marks it as text rather than a number with a unit glued on.
func hasWords(s string) bool {
	run := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			run++
			if run >= 2 {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

// plainNumber prints f without grouping, trimming a ".0" tail.
func plainNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// groupedNumber prints f with thousands separators and at most two decimals.
func groupedNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return humanize.Comma(int64(f))
	}
	s := humanize.FormatFloat("#,###.##", f)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// Currency prints f with two decimals and the symbol in front of the digits.
func Currency(symbol string, f float64) string {
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + symbol + humanize.FormatFloat("#,###.##", f)
}
