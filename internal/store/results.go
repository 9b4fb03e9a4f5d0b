// Package store persists match results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Peter211231231231232131/basketbgallgame/internal/models"
)

var ErrNotFound = errors.New("store: not found")

const MaxRecent = 100

// Results stores finished matches. Save assigns ID and CreatedAt.
type Results interface {
	Save(ctx context.Context, r *models.MatchResult) error
	Recent(ctx context.Context, limit int) ([]models.MatchResult, error)
	Get(ctx context.Context, id string) (models.MatchResult, error)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxRecent {
		return MaxRecent
	}
	return limit
}

// SQLResults is the postgres Results store.
type SQLResults struct {
	db *sqlx.DB
}

func NewSQLResults(db *sqlx.DB) *SQLResults {
	return &SQLResults{db: db}
}

func (s *SQLResults) Save(ctx context.Context, r *models.MatchResult) error {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO match_results (id, room_id, home_score, away_score, winner, duration_ms, created_at)
		VALUES (:id, :room_id, :home_score, :away_score, :winner, :duration_ms, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("store: save result: %w", err)
	}
	return nil
}

func (s *SQLResults) Recent(ctx context.Context, limit int) ([]models.MatchResult, error) {
	out := []models.MatchResult{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, room_id, home_score, away_score, winner, duration_ms, created_at
		   FROM match_results ORDER BY created_at DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: recent results: %w", err)
	}
	return out, nil
}

func (s *SQLResults) Get(ctx context.Context, id string) (models.MatchResult, error) {
	var r models.MatchResult
	err := s.db.GetContext(ctx, &r,
		`SELECT id, room_id, home_score, away_score, winner, duration_ms, created_at
		   FROM match_results WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("store: get result: %w", err)
	}
	return r, nil
}

// MemoryResults keeps results in process; used when no database is set.
type MemoryResults struct {
	mu      sync.RWMutex
	results map[string]models.MatchResult
}

func NewMemoryResults() *MemoryResults {
	return &MemoryResults{results: make(map[string]models.MatchResult)}
}

func (m *MemoryResults) Save(_ context.Context, r *models.MatchResult) error {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	m.mu.Lock()
	m.results[r.ID] = *r
	m.mu.Unlock()
	return nil
}

func (m *MemoryResults) Recent(_ context.Context, limit int) ([]models.MatchResult, error) {
	m.mu.RLock()
	out := make([]models.MatchResult, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryResults) Get(_ context.Context, id string) (models.MatchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[id]
	if !ok {
		return models.MatchResult{}, ErrNotFound
	}
	return r, nil
}
