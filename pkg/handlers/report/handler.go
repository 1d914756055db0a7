package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/vehicle-atlas/pkg/adapters"
	"github.com/de-tools/vehicle-atlas/pkg/models/api"
	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
	"github.com/de-tools/vehicle-atlas/pkg/services/report"
	"github.com/de-tools/vehicle-atlas/pkg/store/artifact"
)

const maxBodyBytes = 32 << 20

type Service interface {
	Formats() []string
	Validate(payload []byte) error
	Render(ctx context.Context, payload []byte, rc domain.RenderContext, format string) (report.Artifact, error)
}

type Handler struct {
	svc      Service
	store    artifact.Store
	onRender func(report.Artifact)
}

type Options struct {
	// Store receives published reports; nil disables ?publish=true.
	Store artifact.Store
	// OnRender is called after every successful render.
	OnRender func(report.Artifact)
}

func NewHandler(svc Service, opts Options) *Handler {
	return &Handler{svc: svc, store: opts.Store, onRender: opts.OnRender}
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	format := chi.URLParam(r, "format")

	var req api.RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Payload) == 0 {
		writeError(w, http.StatusBadRequest, "payload is required")
		return
	}
	rc, err := adapters.MapRenderContextApiToDomain(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	publish, _ := strconv.ParseBool(r.URL.Query().Get("publish"))
	if publish && h.store == nil {
		writeError(w, http.StatusBadRequest, "publishing is not configured")
		return
	}

	art, err := h.svc.Render(ctx, req.Payload, rc, format)
	if err != nil {
		logger.Error().Err(err).Str("format", format).Msg("failed to render report")
		writeError(w, statusFor(err), err.Error())
		return
	}
	if h.onRender != nil {
		h.onRender(art)
	}

	key := artifact.Key(rc, art.Extension)
	if publish {
		location, err := h.store.Put(ctx, key, art.ContentType, art.Body)
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("failed to publish report")
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		w.Header().Set("X-Artifact-Location", location)
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.Header().Set("X-Report-Format", art.Format)
	if art.Fallback {
		w.Header().Set("X-Report-Fallback", "true")
	}
	if _, err := w.Write(art.Body); err != nil {
		logger.Error().Err(err).Msg("failed to write report")
	}
}

// Validate accepts a bare payload and reports whether it can be rendered.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.Validate(body); err != nil {
		writeJSON(r.Context(), w, http.StatusUnprocessableEntity, api.ValidationResult{Error: err.Error()})
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, api.ValidationResult{Valid: true})
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, adapters.MapSectionsToApi(report.Sections()))
}

func (h *Handler) ListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, api.Formats{Formats: h.svc.Formats()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnsupportedFormat):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPayload), errors.Is(err, config.ErrUnknownPackage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
