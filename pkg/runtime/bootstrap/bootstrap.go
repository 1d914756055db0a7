// Package bootstrap wires configuration into a ready report service. The CLI
// and the web server share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/html"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/pdf"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
	"github.com/de-tools/vehicle-atlas/pkg/services/fields"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
	"github.com/de-tools/vehicle-atlas/pkg/store/artifact"
)

// Renderers are the built-in output formats.
func Renderers() map[string]registry.Factory {
	return map[string]registry.Factory{
		"pdf":  pdf.NewRenderer,
		"html": html.NewRenderer,
		"text": export.NewRenderer,
	}
}

type Runtime struct {
	Config   *config.Config
	Service  *report.Service
	Packages *config.Packages
	// Store is nil when no artifact backend is configured.
	Store artifact.Store
}

func New(ctx context.Context, cfg *config.Config, renderers map[string]registry.Factory) (*Runtime, error) {
	rules, err := fields.DefaultRules()
	if err != nil {
		return nil, err
	}
	if cfg.Render.RulesPath != "" {
		extra, err := fields.LoadRules(cfg.Render.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = rules.Merge(extra)
	}

	resolver, err := fields.NewResolver(rules, cfg.FormatOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to build field resolver: %w", err)
	}

	packages, err := config.LoadPackages(cfg.Packages.Path)
	if err != nil {
		return nil, err
	}

	svc, err := report.NewService(report.Options{
		Registry:       registry.NewRegistry(renderers),
		Assembler:      report.NewAssembler(fields.NewBuilder(resolver)),
		Packages:       packages,
		Strategy:       cfg.Strategy(),
		FallbackFormat: cfg.Render.FallbackFormat,
		Title:          cfg.Render.Title,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Service: svc, Packages: packages}
	if cfg.Artifacts.Backend != config.BackendNone {
		rt.Store, err = artifact.New(ctx, cfg.Artifacts)
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact store: %w", err)
		}
	}
	return rt, nil
}
