package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/leasing-calc/pkg/testutil"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(zap.NewNop(), filepath.Join(t.TempDir(), "leasings.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_CreateAndGetLeasing(t *testing.T) {
	s := newTestStore(t)

	leasing := &Leasing{Name: "Delivery van", Config: testutil.SampleLeasing()}
	if err := s.CreateLeasing(leasing); err != nil {
		t.Fatalf("Failed to create leasing: %v", err)
	}
	if leasing.ID == uuid.Nil {
		t.Fatal("CreateLeasing did not assign an id")
	}
	if leasing.CreatedAt.IsZero() || !leasing.UpdatedAt.Equal(leasing.CreatedAt) {
		t.Errorf("unexpected timestamps: %v %v", leasing.CreatedAt, leasing.UpdatedAt)
	}

	fetched, err := s.GetLeasing(leasing.ID)
	if err != nil {
		t.Fatalf("Failed to get leasing: %v", err)
	}
	if fetched.Name != leasing.Name {
		t.Errorf("Expected Name %s, got %s", leasing.Name, fetched.Name)
	}
	if fetched.Config.SellingPrice != 50000 || len(fetched.Config.Extras) != 3 {
		t.Errorf("Config did not survive the round trip: %+v", fetched.Config)
	}
	if len(fetched.Config.GracePeriods) != 1 || fetched.Config.GracePeriods[0] != "total" {
		t.Errorf("Grace periods did not survive the round trip: %v", fetched.Config.GracePeriods)
	}
	if !fetched.CreatedAt.Equal(leasing.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", leasing.CreatedAt, fetched.CreatedAt)
	}
}

func TestSQLiteStore_UpdateLeasing(t *testing.T) {
	s := newTestStore(t)

	leasing := &Leasing{Name: "Van", Config: testutil.SampleLeasing()}
	if err := s.CreateLeasing(leasing); err != nil {
		t.Fatalf("Failed to create leasing: %v", err)
	}

	created := leasing.UpdatedAt
	leasing.Name = "Truck"
	leasing.Config.SellingPrice = 80000
	if err := s.UpdateLeasing(leasing); err != nil {
		t.Fatalf("Failed to update leasing: %v", err)
	}
	if leasing.UpdatedAt.Before(created) {
		t.Errorf("UpdatedAt moved backwards")
	}

	fetched, err := s.GetLeasing(leasing.ID)
	if err != nil {
		t.Fatalf("Failed to get leasing: %v", err)
	}
	if fetched.Name != "Truck" || fetched.Config.SellingPrice != 80000 {
		t.Errorf("update was not persisted: %+v", fetched)
	}

	missing := &Leasing{ID: uuid.New(), Name: "ghost"}
	if err := s.UpdateLeasing(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteLeasing(t *testing.T) {
	s := newTestStore(t)

	leasing := &Leasing{Name: "Van", Config: testutil.SampleLeasing()}
	if err := s.CreateLeasing(leasing); err != nil {
		t.Fatalf("Failed to create leasing: %v", err)
	}
	if err := s.DeleteLeasing(leasing.ID); err != nil {
		t.Fatalf("Failed to delete leasing: %v", err)
	}
	if _, err := s.GetLeasing(leasing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteLeasing(leasing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteStore_ListLeasings(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		leasing := &Leasing{
			Name:      string(rune('A' + i)),
			Config:    testutil.SampleLeasing(),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.CreateLeasing(leasing); err != nil {
			t.Fatalf("Failed to create leasing: %v", err)
		}
	}

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []string
	}{
		{name: "first page", limit: 2, offset: 0, expected: []string{"E", "D"}},
		{name: "second page", limit: 2, offset: 2, expected: []string{"C", "B"}},
		{name: "last page", limit: 2, offset: 4, expected: []string{"A"}},
		{name: "past the end", limit: 2, offset: 10, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leasings, err := s.ListLeasings(tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("Failed to list leasings: %v", err)
			}
			if len(leasings) != len(tt.expected) {
				t.Fatalf("expected %d leasings, got %d", len(tt.expected), len(leasings))
			}
			for i, name := range tt.expected {
				if leasings[i].Name != name {
					t.Errorf("position %d: expected %s, got %s", i, name, leasings[i].Name)
				}
			}
		})
	}

	count, err := s.CountLeasings()
	if err != nil {
		t.Fatalf("Failed to count leasings: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 leasings, got %d", count)
	}
}
