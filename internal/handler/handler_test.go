package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"adforge/internal/agent"
	"adforge/internal/domain"
	"adforge/internal/llmclient"
	"adforge/internal/pipeline"
	"adforge/internal/store/campaignstore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gateway := llmclient.NewFake()
	store := campaignstore.New(filepath.Join(t.TempDir(), "campaigns.json"))
	pipe := pipeline.NewService(pipeline.Deps{
		Planner:    agent.NewPlanner(gateway),
		Director:   agent.NewDirector(gateway),
		Copywriter: agent.NewCopywriter(gateway),
		Renderer:   agent.NewRenderer(gateway),
		Enhancer:   agent.NewPatternEnhancer(gateway),
		Campaigns:  store,
	})
	h := New(pipe, store,
		agent.NewScraper(gateway),
		agent.NewCompetitorAnalyzer(gateway),
		agent.NewScorer(gateway),
	)
	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestFullWizardOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/runs", domain.Brief{
		Product:        "Energy drink",
		Audience:       "gym-goers",
		Platform:       "instagram",
		VariationCount: 3,
		AspectRatio:    "4:5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[startRunResponse](t, resp)
	require.NotEmpty(t, started.Run.ID)
	require.NotEmpty(t, started.Planner.Hook)

	resp = postJSON(t, srv.URL+"/api/runs/"+started.Run.ID+"/direct", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	director := decode[domain.DirectorOutput](t, resp)
	require.Len(t, director.GenerationPrompts, 3)

	resp = postJSON(t, srv.URL+"/api/runs/"+started.Run.ID+"/produce", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	campaign := decode[domain.Campaign](t, resp)
	require.Len(t, campaign.Images, 3)

	resp = postJSON(t, srv.URL+"/api/campaigns/"+campaign.ID+"/regenerate", regenerateRequest{Feedback: "make it darker"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regenerated := decode[domain.Campaign](t, resp)
	require.Len(t, regenerated.Images, 4)

	listResp, err := http.Get(srv.URL + "/api/campaigns")
	require.NoError(t, err)
	listed := decode[map[string][]domain.Campaign](t, listResp)
	require.Len(t, listed["campaigns"], 1)

	logResp, err := http.Get(srv.URL + "/api/runs/" + started.Run.ID + "/log")
	require.NoError(t, err)
	logs := decode[map[string][]string](t, logResp)
	require.NotEmpty(t, logs["log"])
}

func TestStartRunRejectsBadBrief(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/runs", domain.Brief{Product: "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOutOfOrderTriggerConflicts(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/runs", domain.Brief{
		Product:        "Energy drink",
		Audience:       "gym-goers",
		Platform:       "instagram",
		VariationCount: 1,
		AspectRatio:    "1:1",
	})
	started := decode[startRunResponse](t, resp)

	// Strategy already completed; production needs direction first.
	resp = postJSON(t, srv.URL+"/api/runs/"+started.Run.ID+"/produce", struct{}{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestScrapeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/scrape", scrapeRequest{URL: "https://shop.example"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[domain.ScrapedProduct](t, resp)
	require.NotEmpty(t, out.ProductName)

	resp = postJSON(t, srv.URL+"/api/scrape", scrapeRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCompetitorAnalyzeEndpointPersists(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/competitor/analyze", competitorRequest{
		InputType: domain.CompetitorInputURL,
		URL:       "https://rival.example",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[domain.CompetitorAnalysis](t, resp)
	require.NotEmpty(t, out.ID)
	require.Equal(t, domain.CompetitorInputURL, out.InputType)
}

func TestCreativeScoreEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/creative/score", scoreRequest{
		Mode: domain.AnalyzeCreative,
		Text: "Fuel the grind",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[domain.CreativeScore](t, resp)
	require.NotEmpty(t, out.FocalPoints)
}

func TestBrandEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/brands", domain.BrandProfile{Name: "Acme", Tone: "bold"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[domain.BrandProfile](t, resp)
	require.NotEmpty(t, created.ID)

	listResp, err := http.Get(srv.URL + "/api/brands")
	require.NoError(t, err)
	listed := decode[map[string][]domain.BrandProfile](t, listResp)
	require.Len(t, listed["brands"], 1)
}
