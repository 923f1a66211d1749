package agent

import (
	"context"
	"testing"

	"adforge/internal/llmclient"
	"adforge/internal/tester"
)

func TestScraperExtractsProduct(t *testing.T) {
	s := NewScraper(llmclient.NewFake())

	out, err := s.Scrape(context.Background(), "https://shop.example/product")
	tester.NoErr(t, err)
	tester.True(t, out.ProductName != "")
	tester.True(t, out.Audience != "")
	tester.True(t, out.Brand.Name != "")
}

func TestScraperCachesByURL(t *testing.T) {
	fake := llmclient.NewFake()
	s := NewScraper(fake)
	ctx := context.Background()

	_, err := s.Scrape(ctx, "https://shop.example/product")
	tester.NoErr(t, err)
	_, err = s.Scrape(ctx, "HTTPS://shop.example/product/")
	tester.NoErr(t, err)

	tester.Eq(t, len(fake.Calls()), 1, "second scrape of the same page must hit the cache")

	_, err = s.Scrape(ctx, "https://other.example")
	tester.NoErr(t, err)
	tester.Eq(t, len(fake.Calls()), 2)
}

func TestScraperRequiresURL(t *testing.T) {
	s := NewScraper(llmclient.NewFake())
	_, err := s.Scrape(context.Background(), "  ")
	tester.Err(t, err)
}
