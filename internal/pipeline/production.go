package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"adforge/internal/agent"
	"adforge/internal/domain"
	"adforge/internal/llmclient"
)

// RenderedImage is one successful render, paired with its prompt.
type RenderedImage struct {
	Prompt string
	Image  llmclient.Image
}

// RenderFailure is one failed render, paired with its prompt.
type RenderFailure struct {
	Prompt string
	Err    error
}

// RenderBatch collects the outcome of a concurrent render fan-out.
// Order within each slice follows prompt order, not completion order.
type RenderBatch struct {
	Succeeded []RenderedImage
	Failed    []RenderFailure
}

// BatchFatal is the escalation policy for a render batch: partial
// failure is tolerated, an empty batch is not.
func BatchFatal(b RenderBatch) bool {
	return len(b.Succeeded) == 0
}

// Produce runs the Production step: ad copy and all N renders launched
// concurrently, joined, then assembled into a persisted Campaign.
func (s *Service) Produce(ctx context.Context, runID string) (domain.Campaign, error) {
	r, ok := s.Run(runID)
	if !ok {
		return domain.Campaign{}, ErrRunNotFound
	}
	if err := s.beginStage(r, StepProduction); err != nil {
		return domain.Campaign{}, err
	}

	r.mu.Lock()
	planner, director := r.Planner, r.Director
	r.mu.Unlock()
	if planner == nil || director == nil {
		err := fmt.Errorf("pipeline: production requires strategy and direction: %w", ErrWrongStep)
		s.failStage(r, StepProduction, err)
		return domain.Campaign{}, err
	}

	s.progress(r, fmt.Sprintf("🎨 Rendering %d variation(s) and writing copy…", len(director.GenerationPrompts)))

	sctx, cancel := s.stageContext(ctx, r)
	defer cancel()

	var (
		wg      sync.WaitGroup
		adCopy  domain.AdCopy
		copyErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		adCopy, copyErr = s.copywriter.Write(sctx, agent.CopyInput{
			Product:  r.Brief.Product,
			Planner:  *planner,
			Platform: r.Brief.Platform,
			Audience: r.Brief.Audience,
		})
	}()

	batch := s.renderAll(sctx, r, director.GenerationPrompts)
	wg.Wait()

	if copyErr != nil {
		s.failStage(r, StepProduction, copyErr)
		return domain.Campaign{}, copyErr
	}
	if BatchFatal(batch) {
		err := fmt.Errorf("pipeline: all %d renders failed", len(director.GenerationPrompts))
		s.failStage(r, StepProduction, err)
		return domain.Campaign{}, err
	}

	campaign, err := s.assembleCampaign(sctx, r, *planner, *director, adCopy, batch)
	if err != nil {
		s.failStage(r, StepProduction, err)
		return domain.Campaign{}, err
	}

	r.mu.Lock()
	r.CampaignID = campaign.ID
	r.mu.Unlock()
	s.completeStage(r, StepProduction, StepProduction,
		fmt.Sprintf("✅ Campaign ready: %d of %d variation(s) rendered.", len(batch.Succeeded), len(director.GenerationPrompts)))
	s.broker.publish(r.ID, Event{Type: EventComplete, RunID: r.ID, Message: campaign.ID})
	s.broker.ScheduleCleanup(r.ID)
	s.scheduleRunCleanup(r.ID)
	return campaign, nil
}

// renderAll fans out one render per prompt and joins them. Individual
// failures are logged and dropped from the result set.
func (s *Service) renderAll(ctx context.Context, r *Run, prompts []string) RenderBatch {
	type slot struct {
		img llmclient.Image
		err error
	}
	slots := make([]slot, len(prompts))

	var wg sync.WaitGroup
	for i, prompt := range prompts {
		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()
			img, err := s.renderer.Render(ctx, prompt, r.Brief.AspectRatio, r.Brief.Resolution)
			slots[i] = slot{img: img, err: err}
		}(i, prompt)
	}
	wg.Wait()

	var batch RenderBatch
	for i, sl := range slots {
		if sl.err != nil {
			batch.Failed = append(batch.Failed, RenderFailure{Prompt: prompts[i], Err: sl.err})
			s.progress(r, fmt.Sprintf("⚠️ Variation %d failed to render: %v", i+1, sl.err))
			continue
		}
		batch.Succeeded = append(batch.Succeeded, RenderedImage{Prompt: prompts[i], Image: sl.img})
	}
	return batch
}

// assembleCampaign uploads each rendered image, swaps its data for the
// storage URL and persists the aggregate. Base64 never reaches the store.
func (s *Service) assembleCampaign(ctx context.Context, r *Run, planner domain.PlannerOutput, director domain.DirectorOutput, adCopy domain.AdCopy, batch RenderBatch) (domain.Campaign, error) {
	now := time.Now()
	campaign := domain.Campaign{
		ID:         uuid.NewString(),
		Brief:      r.Brief,
		Planner:    planner,
		Director:   director,
		Copy:       adCopy,
		Competitor: r.Brief.Competitor,
		Status:     domain.StatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, rendered := range batch.Succeeded {
		img, err := s.uploadImage(ctx, campaign.ID, r.Brief.AspectRatio, rendered)
		if err != nil {
			return domain.Campaign{}, err
		}
		campaign.Images = append(campaign.Images, img)
	}

	if err := s.campaigns.PutCampaign(ctx, campaign); err != nil {
		return domain.Campaign{}, fmt.Errorf("pipeline: persist campaign: %w", err)
	}
	return campaign, nil
}

// uploadImage pushes the bytes to blob storage and records the URL. With
// no image store configured, the data URI is kept for direct display.
func (s *Service) uploadImage(ctx context.Context, campaignID, aspectRatio string, rendered RenderedImage) (domain.GeneratedImage, error) {
	img := domain.GeneratedImage{
		ID:          uuid.NewString(),
		Prompt:      rendered.Prompt,
		AspectRatio: aspectRatio,
		CreatedAt:   time.Now(),
	}
	if s.images == nil {
		img.URL = rendered.Image.DataURI()
		return img, nil
	}
	key := campaignID + "/" + img.ID + extensionFor(rendered.Image.MIMEType)
	url, err := s.images.PutImage(ctx, key, rendered.Image.Data, rendered.Image.MIMEType)
	if err != nil {
		return domain.GeneratedImage{}, fmt.Errorf("pipeline: upload image: %w", err)
	}
	img.URL = url
	return img, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
