package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/aviaquiz/aviaquiz-bot/internal/db"
	"github.com/aviaquiz/aviaquiz-bot/internal/service"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	database, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func bank(n int) []service.Question {
	questions := make([]service.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, service.Question{
			ID:      i,
			Text:    fmt.Sprintf("question %d", i),
			Options: []string{"a", "b", "c", "d"},
			Correct: i % 4,
		})
	}
	return questions
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	inserted, err := store.EnsureLoaded(ctx, "aviation", bank(5))
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if inserted != 5 {
		t.Errorf("first load inserted %d, want 5", inserted)
	}

	inserted, err = store.EnsureLoaded(ctx, "aviation", bank(5))
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second load inserted %d, want 0", inserted)
	}

	n, err := store.Count(ctx, "aviation")
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("count after double load = %d, want 5", n)
	}
}

func TestEnsureLoadedSkipsExistingIDs(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	if _, err := store.EnsureLoaded(ctx, "aviation", bank(3)); err != nil {
		t.Fatal(err)
	}
	inserted, err := store.EnsureLoaded(ctx, "aviation", bank(5))
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 2 {
		t.Errorf("overlapping load inserted %d, want 2", inserted)
	}
}

func TestQuestionIDsAreSubjectScoped(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	if _, err := store.EnsureLoaded(ctx, "aviation", bank(3)); err != nil {
		t.Fatal(err)
	}
	inserted, err := store.EnsureLoaded(ctx, "meteorology", bank(3))
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 3 {
		t.Errorf("same qids under another subject inserted %d, want 3", inserted)
	}

	n, _ := store.Count(ctx, "meteorology")
	if n != 3 {
		t.Errorf("meteorology count = %d, want 3", n)
	}
}

func TestCountEmptySubject(t *testing.T) {
	store := NewQuestionStore(openTestDB(t))
	n, err := store.Count(context.Background(), "navigation")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("count of empty subject = %d, want 0", n)
	}
}

func TestSampleRandomWithoutReplacement(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	if _, err := store.EnsureLoaded(ctx, "aviation", bank(service.QuizLength)); err != nil {
		t.Fatal(err)
	}

	questions, err := store.SampleRandom(ctx, "aviation", service.QuizLength)
	if err != nil {
		t.Fatalf("SampleRandom: %v", err)
	}
	if len(questions) != service.QuizLength {
		t.Fatalf("sampled %d questions, want %d", len(questions), service.QuizLength)
	}

	seen := make(map[int]bool)
	for _, q := range questions {
		if seen[q.ID] {
			t.Errorf("question %d sampled twice", q.ID)
		}
		seen[q.ID] = true
		if len(q.Options) != 4 {
			t.Errorf("question %d options round-tripped to %d entries", q.ID, len(q.Options))
		}
		if q.Correct != q.ID%4 {
			t.Errorf("question %d correct index = %d, want %d", q.ID, q.Correct, q.ID%4)
		}
	}
}

func TestSampleRandomSmallerLimit(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore(openTestDB(t))

	if _, err := store.EnsureLoaded(ctx, "aviation", bank(50)); err != nil {
		t.Fatal(err)
	}
	questions, err := store.SampleRandom(ctx, "aviation", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 10 {
		t.Errorf("sampled %d, want 10", len(questions))
	}
}
