package store

import (
	"testing"

	"github.com/mikedeiure/CustomApp-V1/internal/calc"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

func TestSetAndRows(t *testing.T) {
	s := NewMemoryStore()

	if _, _, ok := s.Rows(models.TabDaily); ok {
		t.Fatal("expected miss on empty store")
	}

	rows := calc.CalculateAll([]models.RawMetricRow{{Campaign: "Brand", Impressions: 10}})
	s.Set(models.TabDaily, rows)

	got, fetchedAt, ok := s.Rows(models.TabDaily)
	if !ok || len(got) != 1 || got[0].Campaign != "Brand" {
		t.Fatalf("bad snapshot: ok=%v rows=%+v", ok, got)
	}
	if fetchedAt.IsZero() {
		t.Fatal("expected fetchedAt to be set")
	}
}

func TestTabsDeterministic(t *testing.T) {
	s := NewMemoryStore()
	s.Set(models.TabSearchTerms, nil)
	s.Set(models.TabAdGroups, nil)
	s.Set(models.TabDaily, nil)

	tabs := s.Tabs()
	if len(tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(tabs))
	}
	for i := 1; i < len(tabs); i++ {
		if tabs[i-1] >= tabs[i] {
			t.Fatalf("tabs not sorted: %v", tabs)
		}
	}
}
