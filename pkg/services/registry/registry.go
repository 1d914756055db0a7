package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

// ErrUnsupportedFormat is returned when no renderer is registered for a format.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Renderer turns an assembled report into a document
type Renderer interface {
	ContentType() string
	// Extension is the file extension without the dot
	Extension() string
	Render(ctx context.Context, report *domain.Report) ([]byte, error)
}

// Options configure a renderer at creation time
type Options struct {
	Title string
}

// Factory is a function type that creates a Renderer
type Factory func(opts Options) (Renderer, error)

// Registry manages renderer factories by output format
type Registry interface {
	// Register adds a new renderer factory
	Register(format string, factory Factory) error
	// Create instantiates a renderer for the specified format
	Create(format string, opts Options) (Renderer, error)
	// ListFormats returns the registered formats in sorted order
	ListFormats() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry pre-filled with factories
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{factories: make(map[string]Factory, len(factories))}
	maps.Copy(r.factories, factories)
	return r
}

func (r *registry) Register(format string, factory Factory) error {
	if format == "" {
		return fmt.Errorf("format name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %q is already registered", format)
	}

	r.factories[format] = factory
	return nil
}

func (r *registry) Create(format string, opts Options) (Renderer, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return factory(opts)
}

func (r *registry) ListFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}
