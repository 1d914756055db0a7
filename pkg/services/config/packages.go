package config

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/ini.v1"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

//go:embed packages.ini
var defaultPackages []byte

var ErrUnknownPackage = errors.New("unknown package")

// Packages maps product package names to the report documents they include.
type Packages struct {
	cfg *ini.File
}

// LoadPackages reads the package file at path, or the built-in packages when
// path is empty. Unknown document names are rejected.
func LoadPackages(path string) (*Packages, error) {
	var source any = defaultPackages
	if path != "" {
		source = path
	}
	cfg, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	p := &Packages{cfg: cfg}
	for _, name := range p.Names() {
		for _, key := range cfg.Section(name).Keys() {
			if !slices.Contains(domain.Documents, key.Name()) {
				return nil, fmt.Errorf("package %q: unknown document %q", name, key.Name())
			}
			if _, err := key.Bool(); err != nil {
				return nil, fmt.Errorf("package %q: document %q: %w", name, key.Name(), err)
			}
		}
	}
	return p, nil
}

// Names lists the packages that declare at least one document.
func (p *Packages) Names() []string {
	var names []string
	for _, section := range p.cfg.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}
	return names
}

func (p *Packages) Docs(name string) (map[string]bool, error) {
	section, err := p.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, name)
	}

	docs := make(map[string]bool, len(section.Keys()))
	for _, key := range section.Keys() {
		if key.MustBool(false) {
			docs[key.Name()] = true
		}
	}
	return docs, nil
}
