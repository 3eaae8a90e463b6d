package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/natded/natded/internal/driver"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndHistory(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	result := &driver.VerifyResult{RequestID: uuid.New()}
	if err := s.Save(ctx, "atom P; sorry : P", "a.nd", result); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(history))
	}
	if history[0].FilePath != "a.nd" {
		t.Errorf("expected file path %q, got %q", "a.nd", history[0].FilePath)
	}
	if history[0].SourceHash != SourceHash("atom P; sorry : P") {
		t.Errorf("expected source hash to match SourceHash helper")
	}
}

func TestStore_HistoryReturnsEverySavedRow(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := &driver.VerifyResult{RequestID: uuid.New()}
		if err := s.Save(ctx, "p", "f.nd", result); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	history, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}
}

func TestStore_ByFileFiltersCorrectly(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	if err := s.Save(ctx, "p", "a.nd", &driver.VerifyResult{RequestID: uuid.New()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "q", "b.nd", &driver.VerifyResult{RequestID: uuid.New()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	history, err := s.ByFile(ctx, "a.nd")
	if err != nil {
		t.Fatalf("ByFile: %v", err)
	}
	if len(history) != 1 || history[0].FilePath != "a.nd" {
		t.Fatalf("expected exactly one record for a.nd, got %+v", history)
	}
}

func TestStore_SaveRecordsSolvedGoals(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	result := &driver.VerifyResult{
		RequestID: uuid.New(),
		Goals: []*driver.GoalResult{
			{Solvability: driver.Solvable},
			{Solvability: driver.Unknown},
		},
	}
	if err := s.Save(ctx, "p", "a.nd", result); err != nil {
		t.Fatalf("Save: %v", err)
	}
	history, err := s.History(ctx, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if history[0].Goals != 2 || history[0].SolvedGoals != 1 {
		t.Errorf("expected goals=2 solved=1, got goals=%d solved=%d", history[0].Goals, history[0].SolvedGoals)
	}
}
