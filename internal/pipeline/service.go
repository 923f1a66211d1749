// Package pipeline drives the campaign wizard: Brief, Strategy and
// Production steps, each advanced by an explicit user trigger. Stage
// failures revert the wizard to the prior completed step; nothing is
// retried automatically.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"adforge/internal/agent"
	"adforge/internal/domain"
	"adforge/internal/llm"
)

var (
	// ErrRunNotFound is returned for unknown run IDs.
	ErrRunNotFound = errors.New("pipeline: run not found")
	// ErrStageInFlight rejects a trigger while another stage of the same
	// run is still executing.
	ErrStageInFlight = errors.New("pipeline: stage already in flight")
	// ErrWrongStep rejects a trigger fired out of wizard order.
	ErrWrongStep = errors.New("pipeline: trigger does not match current step")
	// ErrRegenInFlight rejects concurrent regeneration of one campaign.
	ErrRegenInFlight = errors.New("pipeline: regeneration already in flight for campaign")
)

// CampaignStore is the slice of persistence the orchestrator needs.
type CampaignStore interface {
	PutCampaign(ctx context.Context, c domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, bool, error)
	GetBrand(ctx context.Context, id string) (domain.BrandProfile, bool, error)
}

// ImageStore uploads rendered creatives and returns their durable URL.
type ImageStore interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service is the wizard orchestrator.
type Service struct {
	planner    *agent.Planner
	director   *agent.Director
	copywriter *agent.Copywriter
	renderer   *agent.Renderer
	enhancer   *agent.PatternEnhancer

	campaigns CampaignStore
	images    ImageStore
	broker    *EventBroker

	// stageTimeout bounds each agent invocation; zero disables the bound.
	stageTimeout time.Duration
	// runRetention is how long a finished run stays readable.
	runRetention time.Duration

	mu   sync.RWMutex
	runs map[string]*Run

	regenMu sync.Mutex
	regens  map[string]struct{}
}

type Deps struct {
	Planner    *agent.Planner
	Director   *agent.Director
	Copywriter *agent.Copywriter
	Renderer   *agent.Renderer
	Enhancer   *agent.PatternEnhancer

	Campaigns CampaignStore
	Images    ImageStore
	Broker    *EventBroker

	StageTimeout time.Duration
	// RunRetention overrides how long finished runs stay readable.
	// Zero means the broker's retention window.
	RunRetention time.Duration
}

func NewService(d Deps) *Service {
	broker := d.Broker
	if broker == nil {
		broker = NewEventBroker()
	}
	retention := d.RunRetention
	if retention <= 0 {
		retention = completedRunRetention
	}
	return &Service{
		planner:      d.Planner,
		director:     d.Director,
		copywriter:   d.Copywriter,
		renderer:     d.Renderer,
		enhancer:     d.Enhancer,
		campaigns:    d.Campaigns,
		images:       d.Images,
		broker:       broker,
		stageTimeout: d.StageTimeout,
		runRetention: retention,
		runs:         make(map[string]*Run),
		regens:       make(map[string]struct{}),
	}
}

// Broker exposes the event broker for the watch endpoint.
func (s *Service) Broker() *EventBroker { return s.broker }

// Run returns the run by ID.
func (s *Service) Run(runID string) (*Run, bool) {
	s.mu.RLock()
	r, ok := s.runs[runID]
	s.mu.RUnlock()
	return r, ok
}

// StartRun validates the brief and registers a new wizard run at step 1.
func (s *Service) StartRun(brief domain.Brief) (*Run, error) {
	if err := validateBrief(brief); err != nil {
		return nil, err
	}
	r := newRun(uuid.NewString(), brief)
	s.mu.Lock()
	s.runs[r.ID] = r
	s.mu.Unlock()
	s.broker.Allocate(r.ID, 64)
	return r, nil
}

func validateBrief(b domain.Brief) error {
	if b.Product == "" {
		return fmt.Errorf("pipeline: brief requires a product")
	}
	if b.Audience == "" {
		return fmt.Errorf("pipeline: brief requires an audience")
	}
	if b.Platform == "" {
		return fmt.Errorf("pipeline: brief requires a platform")
	}
	switch b.VariationCount {
	case 1, 3, 5:
	default:
		return fmt.Errorf("pipeline: variation count must be 1, 3 or 5, got %d", b.VariationCount)
	}
	if b.AspectRatio == "" {
		return fmt.Errorf("pipeline: brief requires an aspect ratio")
	}
	return nil
}

// GenerateStrategy advances Brief -> Strategy by running the planner.
func (s *Service) GenerateStrategy(ctx context.Context, runID string) (domain.PlannerOutput, error) {
	r, ok := s.Run(runID)
	if !ok {
		return domain.PlannerOutput{}, ErrRunNotFound
	}
	if err := s.beginStage(r, StepBrief); err != nil {
		return domain.PlannerOutput{}, err
	}

	s.progress(r, "🧠 Analyzing target audience psychology…")
	brand, err := s.resolveBrand(ctx, r.Brief)
	if err != nil {
		s.failStage(r, StepBrief, err)
		return domain.PlannerOutput{}, err
	}

	sctx, cancel := s.stageContext(ctx, r)
	defer cancel()
	out, err := s.planner.Plan(sctx, agent.PlannerInput{
		Product:     r.Brief.Product,
		Description: r.Brief.Description,
		Audience:    r.Brief.Audience,
		Brand:       brand,
		Competitor:  r.Brief.Competitor,
	})
	if err != nil {
		s.failStage(r, StepBrief, err)
		return domain.PlannerOutput{}, err
	}

	r.mu.Lock()
	r.Planner = &out
	r.mu.Unlock()
	s.completeStage(r, StepBrief, StepStrategy, "✨ Strategy locked in.")
	return out, nil
}

// resolveBrand picks the effective brand: explicit selection first, then
// the scraped brand carried on the brief, else none.
func (s *Service) resolveBrand(ctx context.Context, brief domain.Brief) (*domain.BrandProfile, error) {
	if brief.BrandID != "" {
		b, ok, err := s.campaigns.GetBrand(ctx, brief.BrandID)
		if err != nil {
			return nil, fmt.Errorf("pipeline: resolve brand: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("pipeline: brand %q not found", brief.BrandID)
		}
		return &b, nil
	}
	return brief.ScrapedBrand, nil
}

// EnhanceStrategy rewrites the stored strategy to a named viral pattern.
// The wizard stays at Strategy; this is a sidegrade, not a transition.
func (s *Service) EnhanceStrategy(ctx context.Context, runID, patternName string) (domain.PlannerOutput, error) {
	r, ok := s.Run(runID)
	if !ok {
		return domain.PlannerOutput{}, ErrRunNotFound
	}
	r.mu.Lock()
	if r.Loading {
		r.mu.Unlock()
		return domain.PlannerOutput{}, ErrStageInFlight
	}
	if r.Planner == nil {
		r.mu.Unlock()
		return domain.PlannerOutput{}, fmt.Errorf("pipeline: no strategy to enhance: %w", ErrWrongStep)
	}
	planner := *r.Planner
	r.Loading = true
	r.mu.Unlock()

	s.progress(r, fmt.Sprintf("🎭 Reworking the strategy as %q…", patternName))
	sctx, cancel := s.stageContext(ctx, r)
	defer cancel()
	out, err := s.enhancer.Enhance(sctx, planner, patternName)

	r.mu.Lock()
	r.Loading = false
	if err == nil {
		r.Planner = &out
	}
	r.mu.Unlock()
	if err != nil {
		s.notifyFailure(r, err)
		return domain.PlannerOutput{}, err
	}
	s.progress(r, "🎭 Pattern applied.")
	return out, nil
}

// Direct advances Strategy -> Production by running the director.
func (s *Service) Direct(ctx context.Context, runID string) (domain.DirectorOutput, error) {
	r, ok := s.Run(runID)
	if !ok {
		return domain.DirectorOutput{}, ErrRunNotFound
	}
	if err := s.beginStage(r, StepStrategy); err != nil {
		return domain.DirectorOutput{}, err
	}

	r.mu.Lock()
	planner := r.Planner
	r.mu.Unlock()
	if planner == nil {
		err := fmt.Errorf("pipeline: no strategy on run: %w", ErrWrongStep)
		s.failStage(r, StepStrategy, err)
		return domain.DirectorOutput{}, err
	}

	s.progress(r, "🎬 Directing the creative: prompts, framing, light…")
	sctx, cancel := s.stageContext(ctx, r)
	defer cancel()
	out, err := s.director.Direct(sctx, agent.DirectorInput{
		Planner:        *planner,
		Platform:       r.Brief.Platform,
		VariationCount: r.Brief.VariationCount,
		Controls:       &r.Brief.Controls,
		Scene:          &r.Brief.Scene,
	})
	if err != nil {
		s.failStage(r, StepStrategy, err)
		return domain.DirectorOutput{}, err
	}

	r.mu.Lock()
	r.Director = &out
	r.mu.Unlock()
	s.completeStage(r, StepStrategy, StepProduction, "🎬 Direction ready.")
	return out, nil
}

// beginStage takes the loading guard and checks the wizard position.
func (s *Service) beginStage(r *Run, step Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Loading {
		return ErrStageInFlight
	}
	if r.Step != step {
		return fmt.Errorf("%w: run is at %s, trigger is for %s", ErrWrongStep, r.Step, step)
	}
	r.Loading = true
	r.Steps[step] = StepActive
	return nil
}

// completeStage marks the step done and advances the wizard.
func (s *Service) completeStage(r *Run, done, next Step, msg string) {
	r.mu.Lock()
	r.Loading = false
	r.Steps[done] = StepCompleted
	r.Step = next
	if next != done {
		r.Steps[next] = StepActive
	}
	r.Log = append(r.Log, msg)
	r.mu.Unlock()
	log.Printf("pipeline: run %s: %s completed", r.ID, done)
	s.broker.publish(r.ID, Event{Type: EventStep, RunID: r.ID, Step: done, Status: StepCompleted, Message: msg})
}

// failStage reverts to the prior completed step. The wizard position
// itself never advanced, so reverting is clearing the guard and the
// active marker.
func (s *Service) failStage(r *Run, step Step, err error) {
	r.mu.Lock()
	r.Loading = false
	if r.Steps[step] == StepActive && step != r.Step {
		r.Steps[step] = StepPending
	}
	line := fmt.Sprintf("⚠️ %s failed: %v", step, err)
	r.Log = append(r.Log, line)
	r.mu.Unlock()
	log.Printf("pipeline: run %s: %s failed: %v", r.ID, step, err)
	s.broker.publish(r.ID, Event{Type: EventError, RunID: r.ID, Step: step, Message: err.Error()})
}

func (s *Service) notifyFailure(r *Run, err error) {
	r.mu.Lock()
	r.Log = append(r.Log, fmt.Sprintf("⚠️ %v", err))
	r.mu.Unlock()
	s.broker.publish(r.ID, Event{Type: EventError, RunID: r.ID, Message: err.Error()})
}

// progress appends a human-readable log line and publishes it.
func (s *Service) progress(r *Run, msg string) {
	r.mu.Lock()
	r.Log = append(r.Log, msg)
	r.mu.Unlock()
	s.broker.publish(r.ID, Event{Type: EventLog, RunID: r.ID, Message: msg})
}

// stageContext bounds an agent invocation and, when the call belongs to
// a run, installs the hook mirroring its gateway calls into the run log.
func (s *Service) stageContext(ctx context.Context, r *Run) (context.Context, context.CancelFunc) {
	if r != nil {
		ctx = llm.WithHook(ctx, runHook{s: s, r: r})
	}
	if s.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.stageTimeout)
}

// runHook surfaces individual model calls to watchers, between the
// coarser step transitions. Errors are left to failStage so the log
// reports each failure once.
type runHook struct {
	s *Service
	r *Run
}

func (h runHook) Before(_ context.Context, stage, _ string, _ any) {
	h.s.progress(h.r, fmt.Sprintf("🤖 %s: calling the model…", stage))
}

func (h runHook) After(_ context.Context, stage string, _ json.RawMessage, err error) {
	if err == nil {
		h.s.progress(h.r, fmt.Sprintf("🤖 %s: model responded.", stage))
	}
}

// scheduleRunCleanup drops a finished run after the retention window so
// the run map does not grow without bound.
func (s *Service) scheduleRunCleanup(runID string) {
	time.AfterFunc(s.runRetention, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}
