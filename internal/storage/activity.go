package storage

import (
	"context"
	"database/sql"
	"time"
)

// Activity kinds recorded against the log.
const (
	ActivityBotStarted    = "bot_started"
	ActivityTestStarted   = "test_started"
	ActivityTestCompleted = "test_completed"
)

// Entry is one immutable activity record. Subject is empty for activities
// not tied to a subject.
type Entry struct {
	UserID    int64
	Username  string
	FirstName string
	Activity  string
	Subject   string
	Timestamp time.Time
}

// TopUser is one row of the started-tests ranking.
type TopUser struct {
	UserID    int64
	FirstName string
	Username  string
	Tests     int
}

// Summary is a point-in-time aggregate over the full log.
type Summary struct {
	UniqueUsers    int
	StartedTests   int
	CompletedTests int
	TopUsers       []TopUser
}

// ActivityStore is the append-only usage log. Writes never feed back into
// the quiz flow; callers log failures and move on.
type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Record(ctx context.Context, e Entry) error {
	subject := sql.NullString{String: e.Subject, Valid: e.Subject != ""}
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_activity (user_id, username, first_name, activity, subject, timestamp)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.UserID, e.Username, e.FirstName, e.Activity, subject, e.Timestamp.Format(time.RFC3339))
	return err
}

// Summary recomputes the aggregates from the full log on every call.
func (s *ActivityStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM user_activity`).Scan(&sum.UniqueUsers); err != nil {
		return Summary{}, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_activity WHERE activity=$1`, ActivityTestStarted).Scan(&sum.StartedTests); err != nil {
		return Summary{}, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_activity WHERE activity=$1`, ActivityTestCompleted).Scan(&sum.CompletedTests); err != nil {
		return Summary{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT user_id, MAX(first_name), MAX(username), COUNT(*) AS tests
		FROM user_activity WHERE activity=$1
		GROUP BY user_id ORDER BY tests DESC LIMIT 5`, ActivityTestStarted)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var u TopUser
		var firstName, username sql.NullString
		if err := rows.Scan(&u.UserID, &firstName, &username, &u.Tests); err != nil {
			return Summary{}, err
		}
		u.FirstName = firstName.String
		u.Username = username.String
		sum.TopUsers = append(sum.TopUsers, u)
	}
	return sum, rows.Err()
}
