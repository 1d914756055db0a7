// Package fields turns payload records into labeled, formatted grid entries
// and nested report sections.
package fields

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

// Resolver decides whether a field is shown and how it is labeled, formatted
// and colored. It is read-only after construction.
type Resolver struct {
	formatter *format.Formatter
	hidden    map[string]struct{}
	labels    map[string]string
	risk      map[string][]string
}

// NewResolver builds a resolver from rules. opts supplies placeholder and
// currency settings; unit overrides come from the rules.
func NewResolver(rules Rules, opts format.Options) (*Resolver, error) {
	fo, err := rules.formatOptions(opts)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		formatter: format.NewFormatter(fo),
		hidden:    make(map[string]struct{}, len(rules.Hidden)),
		labels:    rules.Labels,
		risk:      make(map[string][]string, len(rules.Risk)),
	}
	for _, h := range rules.Hidden {
		r.hidden[h] = struct{}{}
	}
	for path, values := range rules.Risk {
		lowered := make([]string, len(values))
		for i, v := range values {
			lowered[i] = strings.ToLower(strings.TrimSpace(v))
		}
		r.risk[path] = lowered
	}
	return r, nil
}

// NewDefaultResolver uses the embedded rules.
func NewDefaultResolver(opts format.Options) (*Resolver, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return NewResolver(rules, opts)
}

func (r *Resolver) Formatter() *format.Formatter {
	return r.formatter
}

// Hidden reports whether the path, or its last key, is on the denylist.
func (r *Resolver) Hidden(path string) bool {
	if _, ok := r.hidden[path]; ok {
		return true
	}
	_, ok := r.hidden[domain.Leaf(path)]
	return ok
}

// ResolveEntry produces the grid entry for one scalar field. The second result
// is false when the field must be omitted.
func (r *Resolver) ResolveEntry(path, fallbackLabel string, value any) (domain.GridEntry, bool) {
	if r.Hidden(path) || domain.IsEmpty(value) {
		return domain.GridEntry{}, false
	}
	if fallbackLabel == "" {
		fallbackLabel = domain.Leaf(path)
	}

	formatted := r.formatter.Format(value, path, fallbackLabel)
	return domain.GridEntry{
		Path:  path,
		Label: r.Label(path, fallbackLabel),
		Value: formatted,
		Color: r.Risk(path, formatted),
	}, true
}

// Label returns the override for path, or a humanized form of fallbackLabel.
func (r *Resolver) Label(path, fallbackLabel string) string {
	if l, ok := r.labels[path]; ok {
		return l
	}
	if fallbackLabel == "" {
		fallbackLabel = domain.Leaf(path)
	}
	return Humanize(fallbackLabel)
}

// Risk colors a formatted value for paths that carry a risk rule.
func (r *Resolver) Risk(path, formatted string) domain.Color {
	good, ok := r.risk[path]
	if !ok {
		return domain.ColorNone
	}
	v := strings.ToLower(strings.TrimSpace(formatted))
	for _, g := range good {
		if v == g {
			return domain.ColorGood
		}
	}
	return domain.ColorBad
}

// Humanize splits a camel-case or snake-case key into title-cased words.
// Acronym runs are kept together: "VINNumber" becomes "VIN Number".
func Humanize(key string) string {
	runes := []rune(strings.TrimSpace(key))
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, cur := range runes {
		if cur == '_' || cur == '-' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(cur) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(cur)
	}

	words := strings.Fields(b.String())
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}
