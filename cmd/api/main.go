package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adforge/internal/agent"
	"adforge/internal/config"
	"adforge/internal/handler"
	"adforge/internal/llm"
	"adforge/internal/llmclient"
	"adforge/internal/pipeline"
	"adforge/internal/server"
	"adforge/internal/store/campaignstore"
	"adforge/internal/store/imagestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	gateway := buildGateway(ctx, cfg)
	defer gateway.Close()

	campaigns := buildCampaignStore(cfg)
	defer campaigns.Close()

	var images pipeline.ImageStore
	if cfg.Image.Enabled {
		s3, err := imagestore.NewS3Store(imagestore.S3Config{
			Endpoint:  cfg.Image.Endpoint,
			Region:    cfg.Image.Region,
			AccessKey: cfg.Image.AccessKey,
			SecretKey: cfg.Image.SecretKey,
			Bucket:    cfg.Image.Bucket,
			UseSSL:    cfg.Image.UseSSL,
		})
		if err != nil {
			log.Printf("image store disabled: %v", err)
		} else {
			images = s3
		}
	}

	pipe := pipeline.NewService(pipeline.Deps{
		Planner:      agent.NewPlanner(gateway),
		Director:     agent.NewDirector(gateway),
		Copywriter:   agent.NewCopywriter(gateway),
		Renderer:     agent.NewRenderer(gateway),
		Enhancer:     agent.NewPatternEnhancer(gateway),
		Campaigns:    campaigns,
		Images:       images,
		StageTimeout: cfg.StageTimeout,
	})

	h := handler.New(pipe, campaigns,
		agent.NewScraper(gateway),
		agent.NewCompetitorAnalyzer(gateway),
		agent.NewScorer(gateway),
	)

	mux := http.NewServeMux()
	h.Routes(mux)

	srv := server.New(cfg.Port, server.CORS(mux))
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// buildGateway assembles the model gateway with its middleware chain.
// Without an API key the fake client serves deterministic payloads so
// the wizard can be exercised offline.
func buildGateway(ctx context.Context, cfg *config.Config) llmclient.Client {
	var inner llmclient.Client
	gemini, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.ImageModel)
	if err != nil {
		log.Printf("gemini unavailable (%v), using fake LLM client", err)
		inner = llmclient.NewFake()
	} else {
		inner = gemini
	}
	return llm.Wrap(inner,
		llm.MultiLimit(cfg.Gemini.RPM, cfg.Gemini.RPD, cfg.Gemini.TPM),
		llm.WithLogging(nil),
		llm.WithHooks(),
	)
}

func buildCampaignStore(cfg *config.Config) *campaignstore.Store {
	if cfg.Campaign.PostgresDSN != "" {
		s, err := campaignstore.NewPostgres(cfg.Campaign.PostgresDSN)
		if err == nil {
			return s
		}
		log.Printf("campaign store postgres unavailable (%v), using file store", err)
	}
	return campaignstore.New(cfg.Campaign.FilePath)
}
