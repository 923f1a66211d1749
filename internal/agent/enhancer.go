package agent

import (
	"context"
	"fmt"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// PatternEnhancer rewrites a strategy to conform to a named viral
// pattern. The emotion is held fixed; only hook and visual fields move.
type PatternEnhancer struct {
	llm llmclient.Client
}

func NewPatternEnhancer(c llmclient.Client) *PatternEnhancer {
	return &PatternEnhancer{llm: c}
}

type enhancerInput struct {
	Planner domain.PlannerOutput `json:"planner"`
	Pattern domain.ViralPattern  `json:"pattern"`
}

func (e *PatternEnhancer) Enhance(ctx context.Context, planner domain.PlannerOutput, patternName string) (domain.PlannerOutput, error) {
	pattern, ok := domain.FindPattern(patternName)
	if !ok {
		return domain.PlannerOutput{}, fmt.Errorf("enhancer: unknown pattern %q", patternName)
	}

	fields := plannerFields(planner.CompetitorContrast != "")
	in := enhancerInput{Planner: planner, Pattern: pattern}
	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      "Rewrite the strategy in INPUT so its hook and visual treatment follow the named viral pattern.",
		Input:        in,
		OutputFields: fields,
		Rules: []string{
			"Keep angle and emotion exactly as given; they are not yours to change.",
			"Rework hook, visualConcept, composition and textOverlayIdeas to embody the pattern.",
			"Return the complete strategy object, not a diff.",
		},
	})
	if err != nil {
		return domain.PlannerOutput{}, err
	}

	out, err := invoke[domain.PlannerOutput](ctx, e.llm, "enhancer", llmclient.Request{
		System: "You are a viral-format specialist for paid social.",
		Prompt: prompt,
		Input:  in,
		Schema: promptkit.ObjectSchema(fields),
	}, fields)
	if err != nil {
		return domain.PlannerOutput{}, err
	}
	// Emotion is pinned regardless of what the model returned.
	out.Emotion = planner.Emotion
	return out, nil
}
