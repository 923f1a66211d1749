package agent

import (
	"context"
	"fmt"

	"adforge/internal/llmclient"
)

// Renderer wraps image generation for a single prompt.
type Renderer struct {
	llm llmclient.Client
}

func NewRenderer(c llmclient.Client) *Renderer { return &Renderer{llm: c} }

// aspectRemap maps ratios the backing model does not support to the
// nearest supported one. 4:5 (feed portrait) renders as 3:4.
var aspectRemap = map[string]string{
	"4:5": "3:4",
}

// RemapAspectRatio returns the ratio actually sent to the model.
// Supported ratios (1:1, 9:16, 16:9, 3:4, 4:3) pass through unchanged.
func RemapAspectRatio(ratio string) string {
	if mapped, ok := aspectRemap[ratio]; ok {
		return mapped
	}
	return ratio
}

// Render generates one image. Generation is non-deterministic; two calls
// with identical inputs may differ.
func (r *Renderer) Render(ctx context.Context, prompt, aspectRatio, size string) (llmclient.Image, error) {
	ctx = llmclient.WithStage(ctx, "render")
	img, err := r.llm.GenerateImage(ctx, llmclient.ImageRequest{
		Prompt:      prompt,
		AspectRatio: RemapAspectRatio(aspectRatio),
		Size:        size,
	})
	if err != nil {
		return llmclient.Image{}, fmt.Errorf("render: %w", err)
	}
	return img, nil
}
