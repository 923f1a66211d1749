package pipeline

import (
	"sync"
	"time"

	"adforge/internal/domain"
)

// Step is a wizard position.
type Step int

const (
	StepBrief      Step = 1
	StepStrategy   Step = 2
	StepProduction Step = 3
)

func (s Step) String() string {
	switch s {
	case StepBrief:
		return "brief"
	case StepStrategy:
		return "strategy"
	case StepProduction:
		return "production"
	}
	return "unknown"
}

// StepState is the sub-status of a wizard step, surfaced to the UI.
type StepState string

const (
	StepPending   StepState = "pending"
	StepActive    StepState = "active"
	StepCompleted StepState = "completed"
)

// Run is one pass through the wizard. Stage outputs accumulate on the
// run until production assembles them into a Campaign. Mutations go
// through the service under r.mu; handlers read via Snapshot.
type Run struct {
	ID    string
	Brief domain.Brief

	Step  Step
	Steps map[Step]StepState
	// Loading gates re-entrancy: a second trigger while a stage is in
	// flight is rejected, never queued.
	Loading bool

	Planner  *domain.PlannerOutput
	Director *domain.DirectorOutput

	// CampaignID is set once production completes.
	CampaignID string

	// Log is the append-only, human-readable progress log.
	Log []string

	CreatedAt time.Time

	mu sync.Mutex
}

// RunView is the JSON shape of a run handed to clients.
type RunView struct {
	ID         string                 `json:"id"`
	Brief      domain.Brief           `json:"brief"`
	Step       Step                   `json:"step"`
	Steps      map[Step]StepState     `json:"steps"`
	Loading    bool                   `json:"loading"`
	Planner    *domain.PlannerOutput  `json:"planner,omitempty"`
	Director   *domain.DirectorOutput `json:"director,omitempty"`
	CampaignID string                 `json:"campaignId,omitempty"`
	Log        []string               `json:"log"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func newRun(id string, brief domain.Brief) *Run {
	return &Run{
		ID:    id,
		Brief: brief,
		Step:  StepBrief,
		Steps: map[Step]StepState{
			StepBrief:      StepActive,
			StepStrategy:   StepPending,
			StepProduction: StepPending,
		},
		CreatedAt: time.Now(),
	}
}

// Snapshot returns a copy safe to marshal while the run may be mutating.
func (r *Run) Snapshot() RunView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := RunView{
		ID:         r.ID,
		Brief:      r.Brief,
		Step:       r.Step,
		Loading:    r.Loading,
		Planner:    r.Planner,
		Director:   r.Director,
		CampaignID: r.CampaignID,
		CreatedAt:  r.CreatedAt,
	}
	out.Steps = make(map[Step]StepState, len(r.Steps))
	for k, v := range r.Steps {
		out.Steps[k] = v
	}
	out.Log = append([]string(nil), r.Log...)
	return out
}
