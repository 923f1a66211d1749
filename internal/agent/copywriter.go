package agent

import (
	"context"
	"strings"

	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// Copywriter produces ad copy from the planner's strategy. It runs
// independently of the director.
type Copywriter struct {
	llm llmclient.Client
}

func NewCopywriter(c llmclient.Client) *Copywriter { return &Copywriter{llm: c} }

// CopyInput keys the copy off the strategy, platform and audience.
type CopyInput struct {
	Product  string               `json:"product"`
	Planner  domain.PlannerOutput `json:"planner"`
	Platform string               `json:"platform"`
	Audience string               `json:"audience"`
}

var copyFields = []promptkit.Field{
	{Name: "headline", Type: "string", Required: true, Description: "The headline, built on the strategy's hook."},
	{Name: "primaryText", Type: "string", Required: true, Description: "Body copy sized for the platform."},
	{Name: "cta", Type: "string", Required: true, Description: "One call to action."},
}

func (w *Copywriter) Write(ctx context.Context, in CopyInput) (domain.AdCopy, error) {
	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      "Write the ad copy for the strategy in INPUT.",
		Input:        in,
		OutputFields: copyFields,
		Rules:        platformRules(in.Platform),
	})
	if err != nil {
		return domain.AdCopy{}, err
	}

	return invoke[domain.AdCopy](ctx, w.llm, "copywriter", llmclient.Request{
		System: "You are a direct-response copywriter.",
		Prompt: prompt,
		Input:  in,
		Schema: promptkit.ObjectSchema(copyFields),
	}, copyFields)
}

// platformRules conditions tone and structure on the target platform.
func platformRules(platform string) []string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "linkedin":
		return []string{
			"Professional register; lead with a business outcome.",
			"Primary text 2-3 short paragraphs, no emoji walls.",
			"CTA phrased as a next step, not hype.",
		}
	case "instagram":
		return []string{
			"Casual, visual-first register; the copy supports the image.",
			"Primary text under 125 characters before the fold.",
			"Emoji allowed, at most two.",
		}
	case "tiktok":
		return []string{
			"Native, unpolished voice; write like a creator, not a brand.",
			"Primary text one or two punchy lines.",
		}
	case "facebook":
		return []string{
			"Conversational register with a clear benefit in the first line.",
			"Primary text 2-4 sentences.",
		}
	default:
		return []string{"Concise, benefit-led copy appropriate for paid social."}
	}
}
