package llmclient

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// Client is the model gateway. Implementations perform a single outbound
// call per invocation; cross-cutting concerns (rate limiting, logging,
// hooks) are layered on via llm.Middleware. The gateway never retries.
type Client interface {
	Name() string
	// GenerateJSON asks for application/json output. When req.Schema is set
	// the provider is constrained to it; the raw payload is still validated
	// by the caller against its declared field list.
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)
	// GenerateImage renders a single image for the prompt, or fails if the
	// response carries no image part.
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
	Close() error
}

// Request describes one text or vision invocation.
type Request struct {
	System string
	Prompt string
	// Input is marshaled to JSON and appended to the prompt, the same way
	// structured inputs are handed to every stage.
	Input any
	// Image attaches inline bytes for vision calls.
	Image *ImageInput
	// Schema constrains the response shape when non-nil.
	Schema *genai.Schema
	Tools  ToolGrants
}

// ToolGrants enables provider-side tools for a single call.
type ToolGrants struct {
	WebSearch bool
	URLFetch  bool
}

// ImageInput carries inline image bytes.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// ImageRequest describes one image-generation invocation.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
	// Size is the resolution tier ("1K", "2K"). Empty means provider default.
	Size      string
	Reference *ImageInput
}

// Image is a rendered image.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURI encodes the image as a data URI for transport to the UI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64Encode(i.Data)
}
