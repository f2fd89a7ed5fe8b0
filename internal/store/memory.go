// Package store keeps the latest calculated rows per tab in memory. Nothing
// is persisted; a restart starts empty until the next refresh.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

type snapshot struct {
	rows      []models.CalculatedMetricRow
	fetchedAt time.Time
}

type MemoryStore struct {
	mu   sync.RWMutex
	tabs map[models.Tab]snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tabs: make(map[models.Tab]snapshot)}
}

// Set replaces the snapshot for tab.
func (s *MemoryStore) Set(tab models.Tab, rows []models.CalculatedMetricRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[tab] = snapshot{rows: rows, fetchedAt: time.Now()}
}

// Rows returns the current snapshot for tab. The returned slice is shared;
// callers must not mutate it.
func (s *MemoryStore) Rows(tab models.Tab) ([]models.CalculatedMetricRow, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.tabs[tab]
	return snap.rows, snap.fetchedAt, ok
}

// Tabs lists loaded tabs in deterministic order.
func (s *MemoryStore) Tabs() []models.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tab, 0, len(s.tabs))
	for t := range s.tabs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
