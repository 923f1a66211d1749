package domain

// PlannerOutput is the marketing strategy produced by the planner stage.
// All required fields are non-empty once the stage has validated the
// model response; a missing field fails the stage.
type PlannerOutput struct {
	// Hook is the scroll-stopping opener, conventionally eight words or fewer.
	Hook             string   `json:"hook"`
	Angle            string   `json:"angle"`
	Emotion          string   `json:"emotion"`
	VisualConcept    string   `json:"visualConcept"`
	Composition      string   `json:"composition"`
	ColorDirection   string   `json:"colorDirection"`
	TextOverlayIdeas []string `json:"textOverlayIdeas"`
	CTAIdeas         []string `json:"ctaIdeas"`
	// CompetitorContrast is set when a competitor analysis informed the plan.
	CompetitorContrast string `json:"competitorContrast,omitempty"`
}
