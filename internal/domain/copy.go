package domain

// AdCopy is the written creative for one campaign, generated
// independently of the director from the planner output.
type AdCopy struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primaryText"`
	CTA         string `json:"cta"`
}
