package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It focuses on the API call itself; rate limiting, logging and hooks
// are applied via llm.Middleware.
type GeminiClient struct {
	cli        *genai.Client
	textModel  string
	imageModel string
}

func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAuthMissing
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	return &GeminiClient{cli: cli, textModel: textModel, imageModel: imageModel}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.textModel }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	parts := []*genai.Part{{Text: buildPromptText(req)}}
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: req.Image.MIMEType,
			Data:     req.Image.Data,
		}})
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		cfg.ResponseSchema = req.Schema
	}
	cfg.Tools = toolsFor(req.Tools)
	if len(cfg.Tools) > 0 {
		// Tool use and constrained decoding are mutually exclusive on the
		// Gemini API; the caller validates the payload after parsing.
		cfg.ResponseSchema = nil
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.textModel,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}}, cfg)
	if err != nil {
		return nil, err
	}
	txt := firstText(resp)
	if txt == "" {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(stripCodeFence(txt)), nil
}

func (g *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: req.Reference.MIMEType,
			Data:     req.Reference.Data,
		}})
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if req.AspectRatio != "" || req.Size != "" {
		cfg.ImageConfig = &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.Size,
		}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}}, cfg)
	if err != nil {
		return Image{}, err
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return Image{Data: part.InlineData.Data, MIMEType: mime}, nil
			}
		}
	}
	return Image{}, ErrNoImage
}

func buildPromptText(req Request) string {
	if req.Input == nil {
		return req.Prompt
	}
	in, _ := json.MarshalIndent(req.Input, "", "  ")
	return req.Prompt + "\n\n[INPUT JSON]\n" + string(in)
}

func toolsFor(grants ToolGrants) []*genai.Tool {
	var tools []*genai.Tool
	if grants.WebSearch {
		tools = append(tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if grants.URLFetch {
		tools = append(tools, &genai.Tool{URLContext: &genai.URLContext{}})
	}
	return tools
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// stripCodeFence trims a ```json fence some models wrap around tool-mode
// responses, where constrained decoding is unavailable.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
