// Package artifact publishes rendered reports to a local directory or an S3
// bucket.
package artifact

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
)

// Store persists one rendered document and returns where it was written.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// New builds the store selected by cfg. Callers skip publishing when no
// backend is configured.
func New(ctx context.Context, cfg config.ArtifactsConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Directory), nil
	case config.BackendS3:
		return NewS3StoreFromConfig(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	}
	return nil, fmt.Errorf("no artifact backend configured")
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Key names a report artifact: registration, then date of check and
// reference.
func Key(rc domain.RenderContext, ext string) string {
	reg := clean(strings.ToUpper(rc.Registration))
	if reg == "" {
		reg = "UNKNOWN"
	}
	name := "undated"
	if !rc.DateOfCheck.IsZero() {
		name = rc.DateOfCheck.UTC().Format("20060102")
	}
	if ref := clean(rc.Reference); ref != "" {
		name += "-" + ref
	}
	return reg + "/" + name + "." + ext
}

func clean(s string) string {
	return strings.Trim(unsafeKeyChars.ReplaceAllString(s, ""), ".")
}
