// Package format turns loosely typed payload scalars into display strings.
package format

import (
	"strings"
	"time"
	"unicode"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

const (
	DefaultPlaceholder    = "-"
	DefaultCurrencySymbol = "£"
	listSeparator         = ", "
)

// Options configures a Formatter.
type Options struct {
	Placeholder    string
	CurrencySymbol string
	// PathUnits force a unit for an exact field path.
	PathUnits map[string]Unit
	// PrefixUnits force a unit for every field under a path prefix.
	PrefixUnits map[string]Unit
}

// DefaultOptions returns the options used for UK reports.
func DefaultOptions() Options {
	return Options{
		Placeholder:    DefaultPlaceholder,
		CurrencySymbol: DefaultCurrencySymbol,
	}
}

// Formatter converts raw values to display strings. It holds no mutable state
// and is safe for concurrent use.
type Formatter struct {
	opts Options
}

func NewFormatter(opts Options) *Formatter {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = DefaultCurrencySymbol
	}
	return &Formatter{opts: opts}
}

func (f *Formatter) Placeholder() string {
	return f.opts.Placeholder
}

// Format renders value for the field at path. fallbackLabel names the field
// when path is empty and drives the unit heuristics.
func (f *Formatter) Format(value any, path, fallbackLabel string) string {
	label := fallbackLabel
	if label == "" {
		label = domain.Leaf(path)
	}

	switch v := value.(type) {
	case nil:
		return f.opts.Placeholder
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case time.Time:
		if v.IsZero() {
			return f.opts.Placeholder
		}
		return FormatDate(v)
	case []any:
		return f.formatList(v, path, label)
	case *domain.Object:
		return f.opts.Placeholder
	case string:
		return f.formatString(v, path, label)
	}

	n, ok := ParseNumber(value)
	if !ok {
		return f.opts.Placeholder
	}
	unit, hasUnit := f.unitFor(path, label)
	if !hasUnit {
		return plainNumber(n)
	}
	return f.withUnit(n, unit)
}

// Unit reports the unit that would annotate a numeric value at path.
func (f *Formatter) Unit(path, label string) (Unit, bool) {
	if label == "" {
		label = domain.Leaf(path)
	}
	return f.unitFor(path, label)
}

// Number formats n with the given unit, for values computed by the renderer.
func (f *Formatter) Number(n float64, unit Unit) string {
	if unit.Name == UnitNone.Name || unit.Name == "" {
		return groupedNumber(n)
	}
	return f.withUnit(n, unit)
}

func (f *Formatter) formatString(s, path, label string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return f.opts.Placeholder
	}

	if looksLikeDate(label) {
		if t, ok := ParseDate(s); ok {
			return FormatDate(t)
		}
		return s
	}

	unit, hasUnit := f.unitFor(path, label)
	if !hasUnit || unit.Name == UnitNone.Name {
		return s
	}
	n, ok := parseNumericString(s)
	if !ok {
		return f.opts.Placeholder
	}
	if first := []rune(s)[0]; hasWords(s) && !unicode.IsDigit(first) && !strings.ContainsRune("£$€-", first) {
		// "Approx 1200" style text keeps its wording
		return s
	}
	if suffix := unitSuffix(s); suffix != "" && !unit.Matches(suffix) {
		// the value carries its own unit, e.g. "150 bhp" in a kW field
		return s
	}
	return f.withUnit(n, unit)
}

// unitSuffix is the text after the last digit of s.
func unitSuffix(s string) string {
	i := strings.LastIndexFunc(s, unicode.IsDigit)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+1:])
}

func (f *Formatter) formatList(items []any, path, label string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case nil, *domain.Object, []any:
			continue
		}
		if s, ok := item.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, f.Format(item, path, label))
	}
	if len(parts) == 0 {
		return f.opts.Placeholder
	}
	return strings.Join(parts, listSeparator)
}

func (f *Formatter) withUnit(n float64, unit Unit) string {
	if unit.Name == UnitCurrency.Name {
		return Currency(f.opts.CurrencySymbol, n)
	}
	if unit.Name == UnitNone.Name {
		return plainNumber(n)
	}

	num := groupedNumber(n)
	if unit.Prefix {
		return unit.Symbol + num
	}
	if unit.Spaced {
		return num + " " + unit.Symbol
	}
	return num + unit.Symbol
}

func (f *Formatter) unitFor(path, label string) (Unit, bool) {
	if path != "" {
		if u, ok := f.opts.PathUnits[path]; ok {
			return u, true
		}
		best, bestLen := Unit{}, -1
		for prefix, u := range f.opts.PrefixUnits {
			if (path == prefix || strings.HasPrefix(path, prefix+".")) && len(prefix) > bestLen {
				best, bestLen = u, len(prefix)
			}
		}
		if bestLen >= 0 {
			return best, true
		}
	}
	return heuristicUnit(label)
}
