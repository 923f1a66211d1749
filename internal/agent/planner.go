package agent

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// Planner turns a product brief into a marketing strategy.
type Planner struct {
	llm llmclient.Client
}

func NewPlanner(c llmclient.Client) *Planner { return &Planner{llm: c} }

// PlannerInput is the brief subset the planner consumes.
type PlannerInput struct {
	Product     string                     `json:"product"`
	Description string                     `json:"description"`
	Audience    string                     `json:"audience"`
	Brand       *domain.BrandProfile       `json:"brand,omitempty"`
	Competitor  *domain.CompetitorAnalysis `json:"competitor,omitempty"`
}

func plannerFields(withCompetitor bool) []promptkit.Field {
	fields := []promptkit.Field{
		{Name: "hook", Type: "string", Required: true, Description: "Scroll-stopping opener, 8 words or fewer."},
		{Name: "angle", Type: "string", Required: true, Description: "The persuasion angle for this audience."},
		{Name: "emotion", Type: "string", Required: true, Description: "Primary emotion the ad should trigger."},
		{Name: "visualConcept", Type: "string", Required: true, Description: "One concrete scene that carries the angle."},
		{Name: "composition", Type: "string", Required: true, Description: "Framing and subject placement."},
		{Name: "colorDirection", Type: "string", Required: true, Description: "Palette direction for the creative."},
		{Name: "textOverlayIdeas", Type: "[]string", Required: true, Description: "Short overlay lines, 2-4 ideas."},
		{Name: "ctaIdeas", Type: "[]string", Required: true, Description: "Call-to-action candidates."},
	}
	if withCompetitor {
		fields = append(fields, promptkit.Field{
			Name: "competitorContrast", Type: "string", Required: false,
			Description: "How this strategy deliberately departs from the competitor.",
		})
	}
	return fields
}

func (p *Planner) Plan(ctx context.Context, in PlannerInput) (domain.PlannerOutput, error) {
	fields := plannerFields(in.Competitor != nil)
	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      "Design a high-performing ad strategy for the product described in INPUT.",
		Background:   patternCatalog(),
		Input:        in,
		OutputFields: fields,
		Rules: []string{
			"Ground every field in the product and audience; no generic filler.",
			"The hook must work without the visual.",
			"Draw on the viral patterns above only when one genuinely fits.",
		},
	})
	if err != nil {
		return domain.PlannerOutput{}, err
	}

	return invoke[domain.PlannerOutput](ctx, p.llm, "planner", llmclient.Request{
		System: "You are a senior performance-marketing strategist.",
		Prompt: prompt,
		Input:  in,
		Schema: promptkit.ObjectSchema(fields),
	}, fields)
}

// patternCatalog renders the viral-pattern catalog as inspirational
// background for the planner prompt.
func patternCatalog() string {
	var b strings.Builder
	b.WriteString("Named viral ad patterns you may draw from:\n")
	for _, p := range domain.ViralPatterns() {
		fmt.Fprintf(&b, "- %s: %s (example: %q)\n", p.Name, p.Description, p.Example)
	}
	return strings.TrimRight(b.String(), "\n")
}
