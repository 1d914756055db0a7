package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

// PackageSource resolves a product package to the documents it includes. A
// nil map includes every document.
type PackageSource interface {
	Docs(name string) (map[string]bool, error)
}

// Artifact is one rendered document.
type Artifact struct {
	Format      string
	ContentType string
	Extension   string
	Body        []byte
	// Fallback is set when the requested format failed and the fallback
	// format was rendered instead.
	Fallback bool
}

type Options struct {
	Registry  registry.Registry
	Assembler *Assembler
	Packages  PackageSource
	Strategy  domain.Strategy
	// FallbackFormat is rendered when the requested renderer fails.
	FallbackFormat string
	Title          string
}

type Service struct {
	registry  registry.Registry
	assembler *Assembler
	packages  PackageSource
	strategy  domain.Strategy
	fallback  string
	title     string
}

func NewService(opts Options) (*Service, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("renderer registry is required")
	}
	if opts.Assembler == nil {
		return nil, fmt.Errorf("assembler is required")
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = domain.StrategyHide
	}
	return &Service{
		registry:  opts.Registry,
		assembler: opts.Assembler,
		packages:  opts.Packages,
		strategy:  strategy,
		fallback:  opts.FallbackFormat,
		title:     opts.Title,
	}, nil
}

// Formats lists the formats the service can render.
func (s *Service) Formats() []string {
	return s.registry.ListFormats()
}

// Validate checks the top-level structure of a payload.
func (s *Service) Validate(payload []byte) error {
	return domain.ValidatePayload(payload)
}

// Assemble decodes payload and builds the report tree without rendering it.
func (s *Service) Assemble(ctx context.Context, payload []byte, rc domain.RenderContext) (*domain.Report, error) {
	p, err := domain.DecodePayload(payload)
	if err != nil {
		return nil, err
	}

	var docs map[string]bool
	if rc.Package != "" && s.packages != nil {
		docs, err = s.packages.Docs(rc.Package)
		if err != nil {
			return nil, err
		}
	}

	vis := Visibility(rc.Premium, docs, s.strategy)
	return s.assembler.Assemble(ctx, p, rc, vis), nil
}

// Render assembles payload and renders it in format.
func (s *Service) Render(ctx context.Context, payload []byte, rc domain.RenderContext, format string) (Artifact, error) {
	report, err := s.Assemble(ctx, payload, rc)
	if err != nil {
		return Artifact{}, err
	}

	art, err := s.renderAs(ctx, report, format)
	if err == nil {
		return art, nil
	}
	if errors.Is(err, registry.ErrUnsupportedFormat) || s.fallback == "" || s.fallback == format {
		return Artifact{}, err
	}

	zerolog.Ctx(ctx).Warn().Err(err).
		Str("format", format).
		Str("fallback", s.fallback).
		Msg("renderer failed, using fallback format")
	art, fbErr := s.renderAs(ctx, report, s.fallback)
	if fbErr != nil {
		return Artifact{}, fmt.Errorf("failed to render fallback %s after %s error: %w", s.fallback, format, errors.Join(err, fbErr))
	}
	art.Fallback = true
	return art, nil
}

func (s *Service) renderAs(ctx context.Context, report *domain.Report, format string) (Artifact, error) {
	renderer, err := s.registry.Create(format, registry.Options{Title: s.title})
	if err != nil {
		return Artifact{}, err
	}
	body, err := renderer.Render(ctx, report)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render %s report: %w", format, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("format", format).
		Int("sections", len(report.Sections)).
		Int("bytes", len(body)).
		Msg("report rendered")
	return Artifact{
		Format:      format,
		ContentType: renderer.ContentType(),
		Extension:   renderer.Extension(),
		Body:        body,
	}, nil
}
