package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/refnetlabs/refnet/pkg/errors"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		err := s.Save(ctx, Report{
			ID:        ids[i],
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Kind:      "rank",
			Summary:   "top referrers",
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	t.Run("Get", func(t *testing.T) {
		r, err := s.Get(ctx, ids[1])
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if r.ID != ids[1] || r.Kind != "rank" {
			t.Errorf("Get = %+v, want report %s", r, ids[1])
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, uuid.New())
		if !errors.Is(err, errors.ErrCodeReportNotFound) {
			t.Errorf("error = %v, want REPORT_NOT_FOUND", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		reports, err := s.List(ctx, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(reports) != 3 {
			t.Fatalf("len = %d, want 3", len(reports))
		}
		for i := 1; i < len(reports); i++ {
			if reports[i].CreatedAt.After(reports[i-1].CreatedAt) {
				t.Error("reports not in reverse chronological order")
			}
		}
		if reports[0].ID != ids[2] {
			t.Errorf("newest = %s, want %s", reports[0].ID, ids[2])
		}
	})

	t.Run("ListLimit", func(t *testing.T) {
		reports, err := s.List(ctx, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(reports) != 2 {
			t.Errorf("len = %d, want 2", len(reports))
		}
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		err := s.Save(ctx, Report{ID: ids[0], CreatedAt: base, Kind: "centrality"})
		if err != nil {
			t.Fatal(err)
		}
		r, err := s.Get(ctx, ids[0])
		if err != nil {
			t.Fatal(err)
		}
		if r.Kind != "centrality" {
			t.Errorf("Kind = %s, want centrality after overwrite", r.Kind)
		}
		reports, _ := s.List(ctx, 0)
		if len(reports) != 3 {
			t.Errorf("len = %d, want 3 after overwrite", len(reports))
		}
	})
}
