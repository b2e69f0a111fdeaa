package corpus

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestStore creates a new SQLite database and Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "frank", "It was on a dreary\tnight of November"); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := s.Get(ctx, "frank")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	want := "It was on a dreary night of November"
	if got != want {
		t.Errorf("Get() = %q, want %q (text must be stored cleaned)", got, want)
	}
}

func TestPutReplaces(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "c", "old text"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "c", "new text"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "c")
	if err != nil {
		t.Fatal(err)
	}
	if got != "new text" {
		t.Errorf("Get() after replace = %q", got)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("expected a single corpus after replace, got %d", len(infos))
	}
}

func TestGetMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNoCorpus) {
		t.Errorf("expected ErrNoCorpus, got %v", err)
	}
}

func TestList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha"} {
		if err := s.Put(ctx, name, "some text"); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 corpora, got %d", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "zeta" {
		t.Errorf("expected name order [alpha zeta], got [%s %s]", infos[0].Name, infos[1].Name)
	}
	if infos[0].Size != len("some text") {
		t.Errorf("expected byte size %d, got %d", len("some text"), infos[0].Size)
	}
}

func TestRemove(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "doomed", "text"); err != nil {
		t.Fatal(err)
	}
	if err := s.LogGeneration(ctx, "doomed", "some output.", "terminal"); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(ctx, "doomed"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	if _, err := s.Get(ctx, "doomed"); !errors.Is(err, ErrNoCorpus) {
		t.Errorf("corpus should be gone, got %v", err)
	}
	gens, err := s.Generations(ctx, "doomed", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 0 {
		t.Errorf("generation log should be gone, got %d entries", len(gens))
	}
}

func TestGenerationLog(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	outputs := []string{"First one.", "Second one!", "Third one?"}
	for _, out := range outputs {
		if err := s.LogGeneration(ctx, "frank", out, "terminal"); err != nil {
			t.Fatalf("LogGeneration() failed: %v", err)
		}
	}

	gens, err := s.Generations(ctx, "frank", 2)
	if err != nil {
		t.Fatalf("Generations() failed: %v", err)
	}
	if len(gens) != 2 {
		t.Fatalf("expected 2 entries with limit 2, got %d", len(gens))
	}
	if gens[0].Output != "Third one?" || gens[1].Output != "Second one!" {
		t.Errorf("expected newest first, got [%q %q]", gens[0].Output, gens[1].Output)
	}
	if gens[0].Reason != "terminal" {
		t.Errorf("expected stop reason 'terminal', got %q", gens[0].Reason)
	}
}
