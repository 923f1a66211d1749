package agent

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// Director refines a strategy into concrete image-generation prompts.
type Director struct {
	llm llmclient.Client
}

func NewDirector(c llmclient.Client) *Director { return &Director{llm: c} }

// DirectorInput parameterizes one direction pass.
type DirectorInput struct {
	Planner        domain.PlannerOutput `json:"planner"`
	Platform       string               `json:"platform"`
	VariationCount int                  `json:"variationCount"`
	// Feedback carries the user's free-text adjustment on regeneration.
	Feedback string                   `json:"feedback,omitempty"`
	Controls *domain.CreativeControls `json:"controls,omitempty"`
	Scene    *domain.SceneConfig      `json:"scene,omitempty"`
}

var directorFields = []promptkit.Field{
	{Name: "improvedConcept", Type: "string", Required: true, Description: "The strategy's visual concept, sharpened."},
	{Name: "technicalPrompt", Type: "string", Required: true, Description: "The champion image-generation prompt: subject, setting, lens, light, palette."},
	{Name: "generationPrompts", Type: "[]string", Required: true, Description: "Distinct full prompts, one per requested variation."},
	{Name: "creativeStrength", Type: "object", Required: true, Fields: []promptkit.Field{
		{Name: "attention", Type: "number", Required: true, Description: "0-100"},
		{Name: "clarity", Type: "number", Required: true, Description: "0-100"},
		{Name: "conversion", Type: "number", Required: true, Description: "0-100"},
		{Name: "overall", Type: "number", Required: true, Description: "0-100"},
		{Name: "reasoning", Type: "string", Required: true, Description: "Why these scores."},
	}},
	{Name: "variations", Type: "[]object", Required: false, Fields: []promptkit.Field{
		{Name: "angle", Type: "string", Required: true},
		{Name: "promptAdjustment", Type: "string", Required: true},
	}},
}

func (d *Director) Direct(ctx context.Context, in DirectorInput) (domain.DirectorOutput, error) {
	switch in.VariationCount {
	case 1, 3, 5:
	default:
		return domain.DirectorOutput{}, fmt.Errorf("director: variation count must be 1, 3 or 5, got %d", in.VariationCount)
	}

	rules := []string{
		fmt.Sprintf("Produce exactly %d entries in generationPrompts, each visually distinct.", in.VariationCount),
		"Every prompt must be self-contained and renderable without the others.",
		fmt.Sprintf("Write for placement on %s.", in.Platform),
	}
	rules = append(rules, controlRules(in.Controls)...)
	rules = append(rules, sceneRules(in.Scene)...)
	if in.Feedback != "" {
		rules = append(rules, "Apply this user feedback to every prompt: "+in.Feedback)
	}

	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      "Act as creative director: turn the strategy in INPUT into production-ready image-generation prompts.",
		Input:        in,
		OutputFields: directorFields,
		Rules:        rules,
	})
	if err != nil {
		return domain.DirectorOutput{}, err
	}

	out, err := invoke[domain.DirectorOutput](ctx, d.llm, "director", llmclient.Request{
		System: "You are an award-winning art director for paid social campaigns.",
		Prompt: prompt,
		Input:  in,
		Schema: promptkit.ObjectSchema(directorFields),
	}, directorFields)
	if err != nil {
		return domain.DirectorOutput{}, err
	}

	// The prompt count is part of the contract, not a soft preference.
	if len(out.GenerationPrompts) != in.VariationCount {
		return domain.DirectorOutput{}, &llmclient.SchemaError{
			Stage:  "director",
			Reason: fmt.Sprintf("expected %d generation prompts, got %d", in.VariationCount, len(out.GenerationPrompts)),
		}
	}
	if bad, v := outOfRange(out.CreativeStrength); bad {
		return domain.DirectorOutput{}, &llmclient.SchemaError{
			Stage:  "director",
			Reason: fmt.Sprintf("creative strength score %.1f outside [0,100]", v),
		}
	}
	return out, nil
}

// controlRules folds the 0-100 sliders into qualitative directing
// instructions at fixed breakpoints.
func controlRules(c *domain.CreativeControls) []string {
	if c == nil {
		return nil
	}
	var rules []string
	switch {
	case c.Minimalism > 80:
		rules = append(rules, "Extreme minimalism: one subject, generous negative space, no clutter.")
	case c.Minimalism < 30:
		rules = append(rules, "Busy, detailed scenes: layered props, texture, visual density.")
	}
	switch {
	case c.Vibrancy > 80:
		rules = append(rules, "Hyper-saturated, punchy color throughout.")
	case c.Vibrancy < 30:
		rules = append(rules, "Muted, desaturated palette.")
	}
	switch {
	case c.LightingDrama > 80:
		rules = append(rules, "Dramatic chiaroscuro lighting with hard shadows.")
	case c.LightingDrama < 30:
		rules = append(rules, "Soft, even, diffused lighting.")
	}
	if c.Mood != "" {
		rules = append(rules, "Overall mood: "+c.Mood+".")
	}
	return rules
}

// sceneRules turns the requested physical staging into directing
// instructions carried by every prompt.
func sceneRules(sc *domain.SceneConfig) []string {
	if sc == nil {
		return nil
	}
	var rules []string
	if sc.Environment != "" {
		rules = append(rules, "Stage every shot in this environment: "+sc.Environment+".")
	}
	if sc.TimeOfDay != "" {
		rules = append(rules, "Set the scene at this time of day: "+sc.TimeOfDay+".")
	}
	if len(sc.Props) > 0 {
		rules = append(rules, "Feature these props in frame: "+strings.Join(sc.Props, ", ")+".")
	}
	return rules
}

func outOfRange(cs domain.CreativeStrength) (bool, float64) {
	for _, v := range []float64{cs.Attention, cs.Clarity, cs.Conversion, cs.Overall} {
		if v < 0 || v > 100 {
			return true, v
		}
	}
	return false, 0
}
