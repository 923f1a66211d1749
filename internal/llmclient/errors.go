package llmclient

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthMissing means no API credential is configured.
	ErrAuthMissing = errors.New("llmclient: api key not configured")
	// ErrEmptyResponse means the provider returned no usable payload.
	ErrEmptyResponse = errors.New("llmclient: provider returned empty response")
	// ErrNoImage means an image generation response had no image part.
	ErrNoImage = errors.New("llmclient: response contains no image part")
)

// SchemaError reports a response that does not satisfy the declared
// output schema. Stage failures caused by it are fatal and not retried.
type SchemaError struct {
	Stage   string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("llmclient: schema violation")
	if e.Stage != "" {
		fmt.Fprintf(&b, " in %s", e.Stage)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required fields %v", e.Missing)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

// IsSchemaViolation reports whether err is (or wraps) a SchemaError.
func IsSchemaViolation(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
