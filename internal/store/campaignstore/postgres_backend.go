package campaignstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"adforge/internal/domain"
)

// Records are stored as JSONB documents keyed by UUID; the schema stays
// a dumb document table on purpose.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS campaigns (
  id TEXT PRIMARY KEY,
  doc JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  doc JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS competitor_analyses (
  id TEXT PRIMARY KEY,
  doc JSONB NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *Store) upsertDoc(ctx context.Context, table, id string, v any) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, doc) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, id, doc)
	return err
}

func getDoc[T any](ctx context.Context, s *Store, table, id string) (T, bool, error) {
	var zero T
	if err := s.ensureSchema(ctx); err != nil {
		return zero, false, err
	}
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM `+table+` WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var out T
	if err := json.Unmarshal(doc, &out); err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func listDocs[T any](ctx context.Context, s *Store, query string) ([]T, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0, 32)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) putCampaignDB(ctx context.Context, c domain.Campaign) error {
	return s.upsertDoc(ctx, "campaigns", c.ID, c)
}

func (s *Store) getCampaignDB(ctx context.Context, id string) (domain.Campaign, bool, error) {
	return getDoc[domain.Campaign](ctx, s, "campaigns", id)
}

func (s *Store) listCampaignsDB(ctx context.Context) ([]domain.Campaign, error) {
	return listDocs[domain.Campaign](ctx, s, `SELECT doc FROM campaigns ORDER BY created_at DESC`)
}

func (s *Store) putBrandDB(ctx context.Context, b domain.BrandProfile) error {
	return s.upsertDoc(ctx, "brands", b.ID, b)
}

func (s *Store) getBrandDB(ctx context.Context, id string) (domain.BrandProfile, bool, error) {
	return getDoc[domain.BrandProfile](ctx, s, "brands", id)
}

func (s *Store) listBrandsDB(ctx context.Context) ([]domain.BrandProfile, error) {
	return listDocs[domain.BrandProfile](ctx, s, `SELECT doc FROM brands ORDER BY id`)
}

func (s *Store) putAnalysisDB(ctx context.Context, a domain.CompetitorAnalysis) error {
	return s.upsertDoc(ctx, "competitor_analyses", a.ID, a)
}

func (s *Store) getAnalysisDB(ctx context.Context, id string) (domain.CompetitorAnalysis, bool, error) {
	return getDoc[domain.CompetitorAnalysis](ctx, s, "competitor_analyses", id)
}
