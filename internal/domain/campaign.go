package domain

import "time"

// Status tracks a campaign through the wizard pipeline. The pipeline
// persists only completed campaigns; the in-flight states exist for the
// wire contract with clients that track partial runs.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPlanning   Status = "planning"
	StatusDirecting  Status = "directing"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Brief is the user's form input that seeds a pipeline run.
type Brief struct {
	Product     string `json:"product"`
	Description string `json:"description"`
	Audience    string `json:"audience"`
	Platform    string `json:"platform"`
	// BrandID selects a stored brand profile. When empty and a scrape
	// produced a brand, the scraped brand is used instead.
	BrandID        string              `json:"brandId,omitempty"`
	ScrapedBrand   *BrandProfile       `json:"scrapedBrand,omitempty"`
	Competitor     *CompetitorAnalysis `json:"competitor,omitempty"`
	VariationCount int                 `json:"variationCount"`
	AspectRatio    string              `json:"aspectRatio"`
	Resolution     string              `json:"resolution,omitempty"`
	Controls       CreativeControls    `json:"controls"`
	Scene          SceneConfig         `json:"scene"`
}

// SceneConfig describes the physical staging the user asked for.
type SceneConfig struct {
	Environment string   `json:"environment,omitempty"`
	TimeOfDay   string   `json:"timeOfDay,omitempty"`
	Props       []string `json:"props,omitempty"`
}

// GeneratedImage is one successfully rendered variation.
type GeneratedImage struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"` // data URI before upload, storage URL after
	Prompt      string    `json:"prompt"`
	AspectRatio string    `json:"aspectRatio"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Campaign is the aggregate root binding one pipeline run's outputs.
// It is assembled only after production completes; the pipeline never
// persists a partial campaign.
type Campaign struct {
	ID         string              `json:"id"`
	Brief      Brief               `json:"brief"`
	Planner    PlannerOutput       `json:"planner"`
	Director   DirectorOutput      `json:"director"`
	Copy       AdCopy              `json:"copy"`
	Competitor *CompetitorAnalysis `json:"competitor,omitempty"`
	Images     []GeneratedImage    `json:"images"`
	Status     Status              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}
