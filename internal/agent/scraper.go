package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adforge/internal/cache/memory"
	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/promptkit"
)

// Scraper infers product and brand details from a landing page URL so
// the brief can be prefilled. Results are cached by normalized URL.
type Scraper struct {
	llm   llmclient.Client
	cache *memory.LRUTTL[string, domain.ScrapedProduct]
}

func NewScraper(c llmclient.Client) *Scraper {
	return &Scraper{
		llm:   c,
		cache: memory.NewLRUTTL[string, domain.ScrapedProduct](256, 15*time.Minute),
	}
}

var scraperFields = []promptkit.Field{
	{Name: "productName", Type: "string", Required: true, Description: "The product as named on the page."},
	{Name: "description", Type: "string", Required: true, Description: "One-paragraph product description."},
	{Name: "audience", Type: "string", Required: true, Description: "Who the page is selling to."},
	{Name: "brandProfile", Type: "object", Required: true, Fields: []promptkit.Field{
		{Name: "name", Type: "string", Required: true},
		{Name: "tone", Type: "string", Required: false, Description: "Brand voice in a few words."},
		{Name: "palette", Type: "[]string", Required: false, Description: "Dominant brand colors as hex codes."},
	}},
}

func (s *Scraper) Scrape(ctx context.Context, url string) (domain.ScrapedProduct, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.ScrapedProduct{}, fmt.Errorf("scraper: url required")
	}
	key := normalizeURL(url)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	prompt, err := promptkit.Build(promptkit.Spec{
		Purpose:      "Visit the URL in INPUT and extract the product, its audience and the brand identity.",
		Input:        map[string]string{"url": url},
		OutputFields: scraperFields,
		Rules: []string{
			"Fetch the page; do not answer from memory alone.",
			"Palette colors must be hex codes actually present on the page.",
		},
	})
	if err != nil {
		return domain.ScrapedProduct{}, err
	}

	out, err := invoke[domain.ScrapedProduct](ctx, s.llm, "scraper", llmclient.Request{
		System: "You are a product researcher extracting structured facts from landing pages.",
		Prompt: prompt,
		Tools:  llmclient.ToolGrants{WebSearch: true, URLFetch: true},
	}, scraperFields)
	if err != nil {
		return domain.ScrapedProduct{}, err
	}
	s.cache.Set(key, out)
	return out, nil
}

func normalizeURL(url string) string {
	url = strings.ToLower(url)
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	return strings.TrimSuffix(url, "/")
}
