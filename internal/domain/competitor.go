package domain

// CompetitorInputType discriminates what the competitor agent analyzes.
type CompetitorInputType string

const (
	CompetitorInputImage CompetitorInputType = "image"
	CompetitorInputURL   CompetitorInputType = "url"
)

// CompetitorAnalysis is the competitor agent's read on a rival ad or page.
type CompetitorAnalysis struct {
	ID           string              `json:"id"`
	InputType    CompetitorInputType `json:"inputType"`
	SourceURL    string              `json:"sourceUrl,omitempty"`
	VisualStyle  string              `json:"visualStyle"`
	DetectedHook string              `json:"detectedHook"`
	// Weaknesses conventionally holds three items; the count is advisory,
	// not enforced.
	Weaknesses       []string `json:"weaknesses"`
	OpportunityAngle string   `json:"opportunityAngle"`
}
