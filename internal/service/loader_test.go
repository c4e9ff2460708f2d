package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleBank = `[
	{"id": 1, "question": "first", "options": ["a", "b", "c", "d"], "correct_answer": 1},
	{"id": 2, "question": "second", "options": ["a", "b", "c", "d"], "correct_answer": "C"},
	{"id": 3, "question": "third", "options": ["a", "b", "c", "d"], "correct_answer": "2"},
	{"id": 4, "question": "bad index", "options": ["a", "b"], "correct_answer": 3},
	{"id": 5, "question": "bad value", "options": ["a", "b", "c", "d"], "correct_answer": "E"},
	{"id": 6, "question": "no options", "options": [], "correct_answer": 0}
]`

func writeBank(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadQuestionFile(t *testing.T) {
	path := writeBank(t, "bank.json", sampleBank)

	questions, err := LoadQuestionFile(path)
	if err != nil {
		t.Fatalf("LoadQuestionFile: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("loaded %d questions, want 3 (bad records skipped)", len(questions))
	}

	wantCorrect := map[int]int{1: 1, 2: 2, 3: 2}
	for _, q := range questions {
		if want, ok := wantCorrect[q.ID]; !ok {
			t.Errorf("unexpected question id %d survived", q.ID)
		} else if q.Correct != want {
			t.Errorf("question %d normalized to %d, want %d", q.ID, q.Correct, want)
		}
	}
}

func TestLoadQuestionFileErrors(t *testing.T) {
	if _, err := LoadQuestionFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := LoadQuestionFile(writeBank(t, "bad.json", "not json")); err == nil {
		t.Error("malformed file accepted")
	}
	onlyBad := `[{"id": 1, "question": "q", "options": ["a"], "correct_answer": "Z"}]`
	if _, err := LoadQuestionFile(writeBank(t, "empty.json", onlyBad)); err == nil {
		t.Error("file with no usable question accepted")
	}
}

func TestPreloadSubjectsIdempotent(t *testing.T) {
	store := newFakeStore()
	path := writeBank(t, "aviation.json", sampleBank)
	files := []SubjectFile{{Subject: "aviation", Path: path}}

	PreloadSubjects(context.Background(), store, files)
	n, _ := store.Count(context.Background(), "aviation")
	if n != 3 {
		t.Fatalf("preload inserted %d questions, want 3", n)
	}

	// second preload sees a populated subject and leaves it alone
	PreloadSubjects(context.Background(), store, files)
	n, _ = store.Count(context.Background(), "aviation")
	if n != 3 {
		t.Errorf("count after second preload = %d, want 3", n)
	}
}

func TestPreloadSubjectsMissingFile(t *testing.T) {
	store := newFakeStore()
	files := []SubjectFile{{Subject: "navigation", Path: filepath.Join(t.TempDir(), "nope.json")}}

	// a missing bank must not panic or insert anything
	PreloadSubjects(context.Background(), store, files)
	if n, _ := store.Count(context.Background(), "navigation"); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}
