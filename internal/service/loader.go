package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// LoadQuestionFile parses a subject question bank from a JSON file.
// Records with a bad correct_answer are skipped with a warning.
func LoadQuestionFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw []rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var questions []Question
	for _, r := range raw {
		if len(r.Options) == 0 {
			log.Printf("Warning: question %d in %s has no options, skipping", r.ID, path)
			continue
		}
		correct, err := NormalizeCorrect(r.CorrectAnswer, len(r.Options))
		if err != nil {
			log.Printf("Warning: question %d in %s: %v, skipping", r.ID, path, err)
			continue
		}
		questions = append(questions, Question{
			ID:      r.ID,
			Text:    r.Question,
			Options: r.Options,
			Correct: correct,
		})
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("no usable questions found in %s", path)
	}
	return questions, nil
}

// SubjectFile names the question bank file for one subject.
type SubjectFile struct {
	Subject string
	Path    string
}

// PreloadSubjects loads each subject's question file into the store when
// the store holds nothing for that subject. File or store trouble is
// logged and treated as no data; the bot still starts.
func PreloadSubjects(ctx context.Context, store QuestionStore, files []SubjectFile) {
	for _, f := range files {
		n, err := store.Count(ctx, f.Subject)
		if err != nil {
			log.Printf("Warning: counting %s questions: %v", f.Subject, err)
			continue
		}
		if n > 0 {
			continue
		}
		if _, err := os.Stat(f.Path); err != nil {
			log.Printf("Warning: question file for %s: %v", f.Subject, err)
			continue
		}
		questions, err := LoadQuestionFile(f.Path)
		if err != nil {
			log.Printf("Warning: loading %s: %v", f.Path, err)
			continue
		}
		inserted, err := store.EnsureLoaded(ctx, f.Subject, questions)
		if err != nil {
			log.Printf("Warning: inserting %s questions: %v", f.Subject, err)
			continue
		}
		log.Printf("Inserted %d questions for %s from %s", inserted, f.Subject, f.Path)
	}
}
