package domain

import "strings"

// ViralPattern is a named ad format the planner may draw on and the
// pattern enhancer can rewrite a strategy toward.
type ViralPattern struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// ViralPatterns is the built-in catalog injected into planner prompts as
// inspirational material.
func ViralPatterns() []ViralPattern {
	return []ViralPattern{
		{
			Name:        "POV Hook",
			Description: "First-person framing that drops the viewer into a relatable moment.",
			Example:     "POV: it's 2am and you still have three deadlines left.",
		},
		{
			Name:        "Us vs Them",
			Description: "Contrasts the product against the tired default everyone settles for.",
			Example:     "Everyone else sells caffeine. We sell focus.",
		},
		{
			Name:        "Before/After",
			Description: "Split visual showing the transformation the product delivers.",
			Example:     "Monday inbox: 312 unread. Monday inbox with us: zero.",
		},
		{
			Name:        "Unexpected Stat",
			Description: "Leads with a jarring number that earns the next second of attention.",
			Example:     "You'll spend 90,000 hours at work. Make 8 of them count.",
		},
		{
			Name:        "Anti-Ad",
			Description: "Deadpan honesty that breaks the advertising register.",
			Example:     "This is an ad. But the product is actually good.",
		},
		{
			Name:        "Tiny Ritual",
			Description: "Frames the product as a small daily ritual with outsized payoff.",
			Example:     "One can. Twenty minutes. A different afternoon.",
		},
	}
}

// FindPattern returns the catalog entry matching name, case-insensitive.
func FindPattern(name string) (ViralPattern, bool) {
	for _, p := range ViralPatterns() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return ViralPattern{}, false
}
