package llmclient

import (
	"context"
	"encoding/json"
	"sync"
)

// Fake returns deterministic payloads per stage for offline runs and tests.
type Fake struct {
	// Err, when set, is returned from every GenerateJSON call.
	Err error
	// ImageErr, when set, is returned from every GenerateImage call.
	ImageErr error
	// Responses overrides the canned payload for a stage.
	Responses map[string]json.RawMessage

	mu    sync.Mutex
	calls []string
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Name() string { return "FakeLLM" }
func (f *Fake) Close() error { return nil }

// Calls returns the stages invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *Fake) record(stage string) {
	f.mu.Lock()
	f.calls = append(f.calls, stage)
	f.mu.Unlock()
}

func (f *Fake) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	f.record(stage)
	if f.Err != nil {
		return nil, f.Err
	}
	if raw, ok := f.Responses[stage]; ok {
		return raw, nil
	}

	var obj any
	switch stage {
	case "planner":
		obj = map[string]any{
			"hook":             "Fuel the grind",
			"angle":            "performance under pressure",
			"emotion":          "determination",
			"visualConcept":    "athlete mid-motion under neon light",
			"composition":      "subject centered, shallow depth of field",
			"colorDirection":   "electric blue on matte black",
			"textOverlayIdeas": []string{"POWER UP", "NO LIMITS"},
			"ctaIdeas":         []string{"Shop now", "Try it today"},
		}
	case "director":
		n := variationCountFrom(req.Input)
		prompts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			prompts = append(prompts, "fake generation prompt")
		}
		obj = map[string]any{
			"improvedConcept": "refined neon athlete concept",
			"technicalPrompt": "fake champion prompt",
			"generationPrompts": prompts,
			"creativeStrength": map[string]any{
				"attention":  82,
				"clarity":    74,
				"conversion": 68,
				"overall":    75,
				"reasoning":  "fake rationale",
			},
			"variations": []any{},
		}
	case "copywriter":
		obj = map[string]any{
			"headline":    "Fuel the grind.",
			"primaryText": "Fake primary text for the ad.",
			"cta":         "Shop now",
		}
	case "competitor":
		obj = map[string]any{
			"visualStyle":      "flat pastel studio shots",
			"detectedHook":     "cheaper alternative",
			"weaknesses":       []string{"generic styling", "weak CTA", "no emotion"},
			"opportunityAngle": "own the premium end",
		}
	case "enhancer":
		obj = map[string]any{
			"hook":             "POV: you open the fridge at 2am",
			"angle":            "performance under pressure",
			"emotion":          "determination",
			"visualConcept":    "first-person fridge shot, neon can front and center",
			"composition":      "POV framing, hands visible",
			"colorDirection":   "electric blue on matte black",
			"textOverlayIdeas": []string{"POV", "2AM FUEL"},
			"ctaIdeas":         []string{"Shop now"},
		}
	case "scorer":
		obj = map[string]any{
			"scores": map[string]any{
				"attention": 71, "clarity": 80, "branding": 65, "conversion": 62, "overall": 70,
			},
			"feedback":    "fake feedback",
			"focalPoints": []any{map[string]any{"x": 50, "y": 40, "intensity": 0.9}},
		}
	case "scraper":
		obj = map[string]any{
			"productName": "Fake Product",
			"description": "Fake description scraped from the page.",
			"audience":    "fake audience",
			"brandProfile": map[string]any{
				"name":    "FakeBrand",
				"tone":    "bold",
				"palette": []string{"#0A84FF", "#111111"},
			},
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

func (f *Fake) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	f.record("render")
	if f.ImageErr != nil {
		return Image{}, f.ImageErr
	}
	return Image{Data: []byte("fake-png-bytes"), MIMEType: "image/png"}, nil
}

func variationCountFrom(input any) int {
	b, err := json.Marshal(input)
	if err != nil {
		return 1
	}
	var probe struct {
		VariationCount int `json:"variationCount"`
	}
	if err := json.Unmarshal(b, &probe); err != nil || probe.VariationCount <= 0 {
		return 1
	}
	return probe.VariationCount
}
