package domain

// DirectorOutput refines the planner's strategy into concrete
// image-generation prompts.
type DirectorOutput struct {
	ImprovedConcept string `json:"improvedConcept"`
	// TechnicalPrompt is the champion prompt, the director's
	// highest-confidence rendering instruction.
	TechnicalPrompt string `json:"technicalPrompt"`
	// GenerationPrompts has exactly the requested variation count;
	// any other length is rejected as a schema violation.
	GenerationPrompts []string         `json:"generationPrompts"`
	CreativeStrength  CreativeStrength `json:"creativeStrength"`
	Variations        []Variation      `json:"variations"`
}

// CreativeStrength scores the concept on a 0-100 scale per axis.
type CreativeStrength struct {
	Attention  float64 `json:"attention"`
	Clarity    float64 `json:"clarity"`
	Conversion float64 `json:"conversion"`
	Overall    float64 `json:"overall"`
	Reasoning  string  `json:"reasoning"`
}

// Variation describes how one generation prompt departs from the champion.
type Variation struct {
	Angle            string `json:"angle"`
	PromptAdjustment string `json:"promptAdjustment"`
}

// CreativeControls are the user's stylistic sliders (0-100) plus a
// categorical mood. They bias the director's wording without altering
// the strategic concept.
type CreativeControls struct {
	Minimalism    int    `json:"minimalism"`
	Vibrancy      int    `json:"vibrancy"`
	LightingDrama int    `json:"lightingDrama"`
	Mood          string `json:"mood"`
}
