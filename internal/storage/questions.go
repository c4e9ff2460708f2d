package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/aviaquiz/aviaquiz-bot/internal/service"
)

// QuestionStore persists question banks per subject. Options are stored
// as a JSON array in a text column; the correct answer is stored only as
// the canonical zero-based index.
type QuestionStore struct {
	db *sql.DB
}

func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// EnsureLoaded bulk-inserts records for a subject, skipping any whose
// (subject, qid) pair already exists. Re-loading the same file is a
// no-op; the count of rows actually inserted is returned.
func (s *QuestionStore) EnsureLoaded(ctx context.Context, subject string, records []service.Question) (int, error) {
	inserted := 0
	for _, q := range records {
		oj, err := json.Marshal(q.Options)
		if err != nil {
			return inserted, err
		}
		res, err := s.db.ExecContext(ctx, `INSERT INTO questions (qid, subject, question, options, correct_answer)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (subject, qid) DO NOTHING`,
			q.ID, subject, q.Text, string(oj), q.Correct)
		if err != nil {
			return inserted, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(n)
	}
	return inserted, nil
}

func (s *QuestionStore) Count(ctx context.Context, subject string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE subject=$1`, subject).Scan(&n)
	return n, err
}

// SampleRandom returns n questions drawn uniformly without replacement
// from the subject's pool. Callers check Count(subject) >= n first.
func (s *QuestionStore) SampleRandom(ctx context.Context, subject string, n int) ([]service.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT qid, question, options, correct_answer FROM questions
		WHERE subject=$1 ORDER BY RANDOM() LIMIT $2`, subject, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []service.Question
	for rows.Next() {
		var q service.Question
		var oj string
		if err := rows.Scan(&q.ID, &q.Text, &oj, &q.Correct); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
