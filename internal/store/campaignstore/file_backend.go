package campaignstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"adforge/internal/domain"
)

var errEmptyID = errors.New("campaignstore: empty id")

// fileState is the on-disk shape of the JSON fallback.
type fileState struct {
	Campaigns []domain.Campaign           `json:"campaigns"`
	Brands    []domain.BrandProfile       `json:"brands"`
	Analyses  []domain.CompetitorAnalysis `json:"analyses"`
}

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var state fileState
		if err := json.Unmarshal(b, &state); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, c := range state.Campaigns {
			if c.ID != "" {
				s.campaigns[c.ID] = c
			}
		}
		for _, b := range state.Brands {
			if b.ID != "" {
				s.brands[b.ID] = b
			}
		}
		for _, a := range state.Analyses {
			if a.ID != "" {
				s.analyses[a.ID] = a
			}
		}
	})
}

func (s *Store) saveFile() error {
	s.mu.RLock()
	state := fileState{
		Campaigns: make([]domain.Campaign, 0, len(s.campaigns)),
		Brands:    make([]domain.BrandProfile, 0, len(s.brands)),
		Analyses:  make([]domain.CompetitorAnalysis, 0, len(s.analyses)),
	}
	for _, c := range s.campaigns {
		state.Campaigns = append(state.Campaigns, c)
	}
	for _, b := range s.brands {
		state.Brands = append(state.Brands, b)
	}
	for _, a := range s.analyses {
		state.Analyses = append(state.Analyses, a)
	}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) putCampaignFile(c domain.Campaign) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.campaigns[c.ID] = c
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) getCampaignFile(id string) (domain.Campaign, bool, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	c, ok := s.campaigns[id]
	s.mu.RUnlock()
	return c, ok, nil
}

func (s *Store) listCampaignsFile() ([]domain.Campaign, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) putBrandFile(b domain.BrandProfile) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.brands[b.ID] = b
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) getBrandFile(id string) (domain.BrandProfile, bool, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	b, ok := s.brands[id]
	s.mu.RUnlock()
	return b, ok, nil
}

func (s *Store) listBrandsFile() ([]domain.BrandProfile, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]domain.BrandProfile, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) putAnalysisFile(a domain.CompetitorAnalysis) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.analyses[a.ID] = a
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) getAnalysisFile(id string) (domain.CompetitorAnalysis, bool, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	a, ok := s.analyses[id]
	s.mu.RUnlock()
	return a, ok, nil
}
