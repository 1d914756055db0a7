package fields

import (
	"slices"
	"strconv"
	"strings"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

// Builder walks a payload record into a section tree. Keys are visited once,
// in payload order.
type Builder struct {
	resolver *Resolver
}

func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

func (b *Builder) Resolver() *Resolver {
	return b.resolver
}

// Object builds the section for obj. Paths of nested fields are rooted at
// basePath. Paths in skip are relative to obj and may name nested records;
// callers use it for sub-trees rendered elsewhere.
func (b *Builder) Object(title string, obj *domain.Object, basePath string, skip ...string) domain.Section {
	sec := domain.Section{Title: title}
	if obj == nil {
		return sec
	}

	for _, key := range obj.Keys() {
		if slices.Contains(skip, key) {
			continue
		}
		raw, _ := obj.Get(key)
		path := domain.JoinPath(basePath, key)
		if b.resolver.Hidden(path) || domain.IsEmpty(raw) {
			continue
		}

		switch v := raw.(type) {
		case *domain.Object:
			child := b.Object(b.resolver.Label(path, key), v, path, below(skip, key)...)
			if !child.IsEmpty() {
				sec.Children = append(sec.Children, child)
			}
		case []any:
			b.list(&sec, path, key, v)
		default:
			if entry, ok := b.resolver.ResolveEntry(path, key, v); ok {
				sec.Entries = append(sec.Entries, entry)
			}
		}
	}
	return sec
}

// below returns the skip paths nested under key, relative to it.
func below(skip []string, key string) []string {
	var out []string
	for _, p := range skip {
		if rest, ok := strings.CutPrefix(p, key+"."); ok {
			out = append(out, rest)
		}
	}
	return out
}

// list adds the scalars of items as one entry and each object as a child
// section.
func (b *Builder) list(sec *domain.Section, path, key string, items []any) {
	var objects []*domain.Object
	scalars := make([]any, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case *domain.Object:
			if v.Len() > 0 {
				objects = append(objects, v)
			}
		case []any:
			// nested lists carry no renderable shape
		default:
			if !domain.IsEmpty(v) {
				scalars = append(scalars, v)
			}
		}
	}

	if len(scalars) > 0 {
		if entry, ok := b.resolver.ResolveEntry(path, key, scalars); ok {
			sec.Entries = append(sec.Entries, entry)
		}
	}

	base := ItemTitle(b.resolver.Label(path, key))
	for i, obj := range objects {
		title := base
		if len(objects) > 1 {
			title = base + " " + strconv.Itoa(i+1)
		}
		child := b.Object(title, obj, path)
		if !child.IsEmpty() {
			sec.Children = append(sec.Children, child)
		}
	}
}

// ItemTitle names one element of a list: "Valuation List" becomes "Valuation".
func ItemTitle(label string) string {
	trimmed := strings.TrimSpace(strings.TrimSuffix(label, "List"))
	if trimmed == "" {
		return label
	}
	return trimmed
}
