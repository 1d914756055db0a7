package domain

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed payload.schema.json
var payloadSchema []byte

// ValidatePayload checks the top-level shape of a raw payload. Only the
// envelope is enforced; section contents vary by package and stay loose.
func ValidatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(payloadSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(problems, "; "))
}
