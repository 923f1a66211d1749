package agent

import (
	"context"
	"fmt"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// CompetitorAnalyzer dissects a rival's ad creative or landing page.
type CompetitorAnalyzer struct {
	llm llmclient.Client
}

func NewCompetitorAnalyzer(c llmclient.Client) *CompetitorAnalyzer {
	return &CompetitorAnalyzer{llm: c}
}

// CompetitorInput is discriminated by InputType: an inline image or a URL.
type CompetitorInput struct {
	InputType domain.CompetitorInputType `json:"inputType"`
	URL       string                     `json:"url,omitempty"`
	ImageData []byte                     `json:"-"`
	ImageMIME string                     `json:"-"`
}

var competitorFields = []promptkit.Field{
	{Name: "visualStyle", Type: "string", Required: true, Description: "The dominant visual language of the creative."},
	{Name: "detectedHook", Type: "string", Required: true, Description: "The persuasion hook the competitor leads with."},
	{Name: "weaknesses", Type: "[]string", Required: true, Description: "Exploitable weaknesses; aim for three."},
	{Name: "opportunityAngle", Type: "string", Required: true, Description: "The angle a challenger should take instead."},
}

func (a *CompetitorAnalyzer) Analyze(ctx context.Context, in CompetitorInput) (domain.CompetitorAnalysis, error) {
	req := llmclient.Request{
		System: "You are a competitive-intelligence analyst for ad creative.",
		Schema: promptkit.ObjectSchema(competitorFields),
	}

	switch in.InputType {
	case domain.CompetitorInputImage:
		if len(in.ImageData) == 0 {
			return domain.CompetitorAnalysis{}, fmt.Errorf("competitor: image input requires image bytes")
		}
		prompt, err := promptkit.Build(promptkit.Spec{
			Purpose:      "Analyze the attached competitor ad creative.",
			Input:        in,
			OutputFields: competitorFields,
		})
		if err != nil {
			return domain.CompetitorAnalysis{}, err
		}
		req.Prompt = prompt
		req.Image = &llmclient.ImageInput{Data: in.ImageData, MIMEType: in.ImageMIME}
	case domain.CompetitorInputURL:
		if in.URL == "" {
			return domain.CompetitorAnalysis{}, fmt.Errorf("competitor: url input requires a url")
		}
		prompt, err := promptkit.Build(promptkit.Spec{
			Purpose:      "Research the competitor at the URL in INPUT and analyze their positioning and creative.",
			Input:        in,
			OutputFields: competitorFields,
			Rules:        []string{"Use web search to inspect the page before answering."},
		})
		if err != nil {
			return domain.CompetitorAnalysis{}, err
		}
		req.Prompt = prompt
		req.Tools = llmclient.ToolGrants{WebSearch: true}
	default:
		return domain.CompetitorAnalysis{}, fmt.Errorf("competitor: unknown input type %q", in.InputType)
	}

	req.Input = in
	out, err := invoke[domain.CompetitorAnalysis](ctx, a.llm, "competitor", req, competitorFields)
	if err != nil {
		return domain.CompetitorAnalysis{}, err
	}
	out.InputType = in.InputType
	out.SourceURL = in.URL
	return out, nil
}
