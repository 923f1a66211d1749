package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"adforge/internal/agent"
	"adforge/internal/domain"
)

// Regenerate re-directs a completed campaign with the user's feedback,
// renders exactly one new image and prepends it. Prior images stay.
// Concurrent regeneration of the same campaign is rejected.
func (s *Service) Regenerate(ctx context.Context, campaignID, feedback string) (domain.Campaign, error) {
	if err := s.acquireRegen(campaignID); err != nil {
		return domain.Campaign{}, err
	}
	defer s.releaseRegen(campaignID)

	campaign, ok, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("pipeline: load campaign: %w", err)
	}
	if !ok {
		return domain.Campaign{}, fmt.Errorf("pipeline: campaign %q not found", campaignID)
	}
	if campaign.Status != domain.StatusCompleted {
		return domain.Campaign{}, fmt.Errorf("pipeline: campaign %q is %s, only completed campaigns regenerate", campaignID, campaign.Status)
	}

	// Regeneration runs outside any wizard run, so no run hook.
	sctx, cancel := s.stageContext(ctx, nil)
	defer cancel()

	director, err := s.director.Direct(sctx, agent.DirectorInput{
		Planner:        campaign.Planner,
		Platform:       campaign.Brief.Platform,
		VariationCount: 1,
		Feedback:       feedback,
		Controls:       &campaign.Brief.Controls,
		Scene:          &campaign.Brief.Scene,
	})
	if err != nil {
		return domain.Campaign{}, err
	}

	rendered, err := s.renderer.Render(sctx, director.GenerationPrompts[0], campaign.Brief.AspectRatio, campaign.Brief.Resolution)
	if err != nil {
		return domain.Campaign{}, err
	}

	img, err := s.uploadImage(sctx, campaign.ID, campaign.Brief.AspectRatio, RenderedImage{
		Prompt: director.GenerationPrompts[0],
		Image:  rendered,
	})
	if err != nil {
		return domain.Campaign{}, err
	}

	campaign.Director = director
	campaign.Images = append([]domain.GeneratedImage{img}, campaign.Images...)
	campaign.UpdatedAt = time.Now()
	if err := s.campaigns.PutCampaign(ctx, campaign); err != nil {
		return domain.Campaign{}, fmt.Errorf("pipeline: persist campaign: %w", err)
	}
	log.Printf("pipeline: campaign %s regenerated, %d images", campaign.ID, len(campaign.Images))
	return campaign, nil
}

func (s *Service) acquireRegen(campaignID string) error {
	s.regenMu.Lock()
	defer s.regenMu.Unlock()
	if _, busy := s.regens[campaignID]; busy {
		return ErrRegenInFlight
	}
	s.regens[campaignID] = struct{}{}
	return nil
}

func (s *Service) releaseRegen(campaignID string) {
	s.regenMu.Lock()
	delete(s.regens, campaignID)
	s.regenMu.Unlock()
}
