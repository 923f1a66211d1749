// Package campaignstore persists campaigns, brands and competitor
// analyses. Records are upserted keyed by UUID. With a Postgres DSN the
// store runs on the database; otherwise it keeps an in-memory map backed
// by a JSON file.
package campaignstore

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"adforge/internal/domain"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce  sync.Once
	mu        sync.RWMutex
	campaigns map[string]domain.Campaign
	brands    map[string]domain.BrandProfile
	analyses  map[string]domain.CompetitorAnalysis

	schemaOnce sync.Once
	schemaErr  error

	listCache *lru.Cache[string, []domain.Campaign]
}

// New returns a file-backed store at path.
func New(path string) *Store {
	return &Store{
		path:      path,
		campaigns: make(map[string]domain.Campaign),
		brands:    make(map[string]domain.BrandProfile),
		analyses:  make(map[string]domain.CompetitorAnalysis),
	}
}

// NewPostgres returns a database-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []domain.Campaign](8)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, listCache: cache}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) PutCampaign(ctx context.Context, c domain.Campaign) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return errEmptyID
	}
	if s.db != nil {
		if err := s.putCampaignDB(ctx, c); err != nil {
			return err
		}
		s.listCache.Purge()
		return nil
	}
	return s.putCampaignFile(c)
}

func (s *Store) GetCampaign(ctx context.Context, id string) (domain.Campaign, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Campaign{}, false, nil
	}
	if s.db != nil {
		return s.getCampaignDB(ctx, id)
	}
	return s.getCampaignFile(id)
}

// ListCampaigns returns all campaigns, newest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if s.db != nil {
		if cached, ok := s.listCache.Get(listCacheKey); ok {
			return cached, nil
		}
		out, err := s.listCampaignsDB(ctx)
		if err != nil {
			return nil, err
		}
		s.listCache.Add(listCacheKey, out)
		return out, nil
	}
	return s.listCampaignsFile()
}

func (s *Store) PutBrand(ctx context.Context, b domain.BrandProfile) error {
	b.ID = strings.TrimSpace(b.ID)
	if b.ID == "" {
		return errEmptyID
	}
	if s.db != nil {
		return s.putBrandDB(ctx, b)
	}
	return s.putBrandFile(b)
}

func (s *Store) GetBrand(ctx context.Context, id string) (domain.BrandProfile, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.BrandProfile{}, false, nil
	}
	if s.db != nil {
		return s.getBrandDB(ctx, id)
	}
	return s.getBrandFile(id)
}

func (s *Store) ListBrands(ctx context.Context) ([]domain.BrandProfile, error) {
	if s.db != nil {
		return s.listBrandsDB(ctx)
	}
	return s.listBrandsFile()
}

func (s *Store) PutAnalysis(ctx context.Context, a domain.CompetitorAnalysis) error {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return errEmptyID
	}
	if s.db != nil {
		return s.putAnalysisDB(ctx, a)
	}
	return s.putAnalysisFile(a)
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (domain.CompetitorAnalysis, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.CompetitorAnalysis{}, false, nil
	}
	if s.db != nil {
		return s.getAnalysisDB(ctx, id)
	}
	return s.getAnalysisFile(id)
}

const listCacheKey = "campaigns"
