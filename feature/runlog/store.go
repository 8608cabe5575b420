package runlog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// totalsTTL bounds how stale the cached aggregate may get.
const totalsTTL = 30 * time.Second

// Store persists and queries migration runs.
type Store struct {
	db *gorm.DB

	mu          sync.RWMutex
	totals      Totals
	totalsBuilt time.Time
	sf          singleflight.Group
}

// NewStore creates a run store on db. Call Migrate once before use.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the runs table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Run{})
}

// Save appends one run record. Run rows are never updated afterwards.
func (s *Store) Save(ctx context.Context, run *Run) error {
	return s.db.WithContext(ctx).Create(run).Error
}

// Recent returns the newest runs first, at most limit rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// GetTotals returns aggregate counts across all runs, served from a
// short-lived cache. Singleflight collapses concurrent rebuilds when
// the cache expires under polling load.
func (s *Store) GetTotals(ctx context.Context) (Totals, error) {
	s.mu.RLock()
	totals, built := s.totals, s.totalsBuilt
	s.mu.RUnlock()

	if !built.IsZero() && time.Since(built) < totalsTTL {
		return totals, nil
	}

	result, err, _ := s.sf.Do("totals", func() (any, error) {
		// Double-check after winning the flight.
		s.mu.RLock()
		totals, built := s.totals, s.totalsBuilt
		s.mu.RUnlock()
		if !built.IsZero() && time.Since(built) < totalsTTL {
			return totals, nil
		}

		fresh, err := s.queryTotals(ctx)
		if err != nil {
			return Totals{}, err
		}

		s.mu.Lock()
		s.totals = fresh
		s.totalsBuilt = time.Now()
		s.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return Totals{}, err
	}
	return result.(Totals), nil
}

func (s *Store) queryTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := s.db.WithContext(ctx).
		Model(&Run{}).
		Select("COUNT(*) AS runs, COALESCE(SUM(created),0) AS created, COALESCE(SUM(updated),0) AS updated, COALESCE(SUM(skipped),0) AS skipped, COALESCE(SUM(failed),0) AS failed").
		Scan(&totals).Error
	if err != nil {
		return Totals{}, err
	}
	return totals, nil
}
