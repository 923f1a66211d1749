package domain

// BrandProfile carries the brand voice and palette threaded into prompts.
type BrandProfile struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Tone    string   `json:"tone,omitempty"`
	Palette []string `json:"palette,omitempty"` // hex color codes
}

// ScrapedProduct is the scraper agent's inference from a landing page.
type ScrapedProduct struct {
	ProductName string       `json:"productName"`
	Description string       `json:"description"`
	Audience    string       `json:"audience"`
	Brand       BrandProfile `json:"brandProfile"`
}
