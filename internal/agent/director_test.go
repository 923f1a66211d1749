package agent

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestDirectorPromptCountMatchesVariationCount(t *testing.T) {
	fake := llmclient.NewFake()
	d := NewDirector(fake)

	for _, n := range []int{1, 3, 5} {
		out, err := d.Direct(context.Background(), DirectorInput{
			Planner:        testPlanner(),
			Platform:       "instagram",
			VariationCount: n,
		})
		tester.NoErr(t, err)
		tester.Eq(t, len(out.GenerationPrompts), n)
	}
}

func TestDirectorRejectsInvalidVariationCount(t *testing.T) {
	d := NewDirector(llmclient.NewFake())
	for _, n := range []int{0, 2, 4, 6, -1} {
		_, err := d.Direct(context.Background(), DirectorInput{
			Planner:        testPlanner(),
			Platform:       "instagram",
			VariationCount: n,
		})
		tester.Err(t, err, n)
	}
}

func TestDirectorCountMismatchIsSchemaViolation(t *testing.T) {
	fake := llmclient.NewFake()
	fake.Responses = map[string]json.RawMessage{
		"director": json.RawMessage(`{
			"improvedConcept": "c",
			"technicalPrompt": "p",
			"generationPrompts": ["one", "two"],
			"creativeStrength": {"attention": 80, "clarity": 70, "conversion": 60, "overall": 70, "reasoning": "r"},
			"variations": []
		}`),
	}
	d := NewDirector(fake)

	_, err := d.Direct(context.Background(), DirectorInput{
		Planner:        testPlanner(),
		Platform:       "instagram",
		VariationCount: 3,
	})
	tester.Err(t, err)
	tester.True(t, llmclient.IsSchemaViolation(err), "count mismatch must be a schema violation")
}

func TestDirectorRejectsOutOfRangeStrength(t *testing.T) {
	fake := llmclient.NewFake()
	fake.Responses = map[string]json.RawMessage{
		"director": json.RawMessage(`{
			"improvedConcept": "c",
			"technicalPrompt": "p",
			"generationPrompts": ["one"],
			"creativeStrength": {"attention": 130, "clarity": 70, "conversion": 60, "overall": 70, "reasoning": "r"},
			"variations": []
		}`),
	}
	d := NewDirector(fake)

	_, err := d.Direct(context.Background(), DirectorInput{
		Planner:        testPlanner(),
		Platform:       "instagram",
		VariationCount: 1,
	})
	tester.True(t, llmclient.IsSchemaViolation(err))
}

func TestControlRulesBreakpoints(t *testing.T) {
	rules := controlRules(&domain.CreativeControls{Minimalism: 90, Vibrancy: 10, LightingDrama: 50, Mood: "moody"})
	tester.Eq(t, len(rules), 3) // minimalism, vibrancy, mood; lighting mid-range adds nothing

	mid := controlRules(&domain.CreativeControls{Minimalism: 50, Vibrancy: 50, LightingDrama: 50})
	tester.Eq(t, len(mid), 0)

	tester.Eq(t, len(controlRules(nil)), 0)
}

func TestSceneRules(t *testing.T) {
	tester.Eq(t, len(sceneRules(nil)), 0)
	tester.Eq(t, len(sceneRules(&domain.SceneConfig{})), 0)

	rules := sceneRules(&domain.SceneConfig{Environment: "gym floor", Props: []string{"chalk"}})
	tester.Eq(t, len(rules), 2)
}

// promptCapture records the prompts handed to the gateway.
type promptCapture struct {
	llmclient.Client
	mu      sync.Mutex
	prompts []string
}

func (p *promptCapture) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, req.Prompt)
	p.mu.Unlock()
	return p.Client.GenerateJSON(ctx, req)
}

func TestDirectorCarriesSceneIntoPrompt(t *testing.T) {
	capture := &promptCapture{Client: llmclient.NewFake()}
	d := NewDirector(capture)

	_, err := d.Direct(context.Background(), DirectorInput{
		Planner:        testPlanner(),
		Platform:       "instagram",
		VariationCount: 1,
		Scene: &domain.SceneConfig{
			Environment: "rooftop bar",
			TimeOfDay:   "golden hour",
			Props:       []string{"ice bucket", "neon sign"},
		},
	})
	tester.NoErr(t, err)
	tester.Eq(t, len(capture.prompts), 1)

	prompt := capture.prompts[0]
	tester.True(t, strings.Contains(prompt, "rooftop bar"), "environment reaches the prompt")
	tester.True(t, strings.Contains(prompt, "golden hour"), "time of day reaches the prompt")
	tester.True(t, strings.Contains(prompt, "ice bucket, neon sign"), "props reach the prompt")
}

func testPlanner() domain.PlannerOutput {
	return domain.PlannerOutput{
		Hook:           "Fuel the grind",
		Angle:          "performance",
		Emotion:        "determination",
		VisualConcept:  "athlete under neon",
		Composition:    "centered",
		ColorDirection: "blue on black",
	}
}
