package fields

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules is the declarative part of field resolution.
type Rules struct {
	Hidden []string            `yaml:"hidden"`
	Labels map[string]string   `yaml:"labels"`
	Units  UnitRules           `yaml:"units"`
	Risk   map[string][]string `yaml:"risk"`
}

type UnitRules struct {
	Paths    map[string]string `yaml:"paths"`
	Prefixes map[string]string `yaml:"prefixes"`
}

var defaultRules = sync.OnceValues(func() (Rules, error) {
	return ParseRules(defaultRulesYAML)
})

// DefaultRules returns the embedded rule set. The result is a copy and may be
// modified by the caller.
func DefaultRules() (Rules, error) {
	r, err := defaultRules()
	if err != nil {
		return Rules{}, err
	}
	return Rules{}.Merge(r), nil
}

func ParseRules(data []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("failed to parse field rules: %w", err)
	}
	return r, nil
}

// LoadRules reads a rules file from disk.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read field rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// Merge returns r extended by other. Entries in other win on conflict; hidden
// lists are unioned.
func (r Rules) Merge(other Rules) Rules {
	out := Rules{
		Hidden: slices.Clone(r.Hidden),
		Labels: maps.Clone(r.Labels),
		Units: UnitRules{
			Paths:    maps.Clone(r.Units.Paths),
			Prefixes: maps.Clone(r.Units.Prefixes),
		},
		Risk: maps.Clone(r.Risk),
	}
	for _, h := range other.Hidden {
		if !slices.Contains(out.Hidden, h) {
			out.Hidden = append(out.Hidden, h)
		}
	}
	out.Labels = mergeMap(out.Labels, other.Labels)
	out.Units.Paths = mergeMap(out.Units.Paths, other.Units.Paths)
	out.Units.Prefixes = mergeMap(out.Units.Prefixes, other.Units.Prefixes)
	out.Risk = mergeMap(out.Risk, other.Risk)
	return out
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// formatOptions turns the unit tables into formatter options.
func (r Rules) formatOptions(base format.Options) (format.Options, error) {
	paths, err := unitTable(r.Units.Paths)
	if err != nil {
		return format.Options{}, err
	}
	prefixes, err := unitTable(r.Units.Prefixes)
	if err != nil {
		return format.Options{}, err
	}
	base.PathUnits = mergeMap(paths, base.PathUnits)
	base.PrefixUnits = mergeMap(prefixes, base.PrefixUnits)
	return base, nil
}

func unitTable(names map[string]string) (map[string]format.Unit, error) {
	out := make(map[string]format.Unit, len(names))
	for path, name := range names {
		u, ok := format.UnitByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q for %s", name, path)
		}
		out[path] = u
	}
	return out, nil
}
