package agent

import (
	"context"
	"fmt"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// Scorer predicts creative performance for an image or ad copy.
type Scorer struct {
	llm llmclient.Client
}

func NewScorer(c llmclient.Client) *Scorer { return &Scorer{llm: c} }

// ScoreInput carries either inline image bytes or text, plus the mode.
type ScoreInput struct {
	Mode      domain.AnalysisMode `json:"mode"`
	Text      string              `json:"text,omitempty"`
	ImageData []byte              `json:"-"`
	ImageMIME string              `json:"-"`
}

func scorerFields(mode domain.AnalysisMode) []promptkit.Field {
	fields := []promptkit.Field{
		{Name: "scores", Type: "object", Required: true, Fields: []promptkit.Field{
			{Name: "attention", Type: "number", Required: true, Description: "0-100"},
			{Name: "clarity", Type: "number", Required: true, Description: "0-100"},
			{Name: "branding", Type: "number", Required: true, Description: "0-100"},
			{Name: "conversion", Type: "number", Required: true, Description: "0-100"},
			{Name: "overall", Type: "number", Required: true, Description: "0-100"},
		}},
		{Name: "feedback", Type: "string", Required: true, Description: "What to improve, concretely."},
	}
	if mode == domain.AnalyzeCreative {
		fields = append(fields, promptkit.Field{
			Name: "focalPoints", Type: "[]object", Required: true,
			Description: "Predicted gaze targets for a heatmap overlay.",
			Fields: []promptkit.Field{
				{Name: "x", Type: "number", Required: true, Description: "0-100, left to right"},
				{Name: "y", Type: "number", Required: true, Description: "0-100, top to bottom"},
				{Name: "intensity", Type: "number", Required: true, Description: "0-1 relative pull"},
			},
		})
	}
	return fields
}

func (s *Scorer) Score(ctx context.Context, in ScoreInput) (domain.CreativeScore, error) {
	if len(in.ImageData) == 0 && in.Text == "" {
		return domain.CreativeScore{}, fmt.Errorf("scorer: image bytes or text required")
	}

	fields := scorerFields(in.Mode)
	purpose := "Predict how this ad will perform and score it on each axis."
	if in.Mode == domain.AnalyzeCreative {
		purpose = "Analyze this creative: score each axis and predict where the viewer's eye lands first."
	}
	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      purpose,
		Input:        in,
		OutputFields: fields,
	})
	if err != nil {
		return domain.CreativeScore{}, err
	}

	req := llmclient.Request{
		System: "You are a creative-performance analyst with access to large-scale ad benchmarks.",
		Prompt: prompt,
		Input:  in,
		Schema: promptkit.ObjectSchema(fields),
	}
	if len(in.ImageData) > 0 {
		req.Image = &llmclient.ImageInput{Data: in.ImageData, MIMEType: in.ImageMIME}
	}
	return invoke[domain.CreativeScore](ctx, s.llm, "scorer", req, fields)
}
