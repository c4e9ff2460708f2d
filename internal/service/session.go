package service

import (
	"context"
	"log"
	"sync"
)

// QuizLength is the number of questions served per quiz.
const QuizLength = 30

// QuestionStore is the persistence contract the session manager (and the
// startup preload) need from the question bank.
type QuestionStore interface {
	EnsureLoaded(ctx context.Context, subject string, records []Question) (int, error)
	Count(ctx context.Context, subject string) (int, error)
	SampleRandom(ctx context.Context, subject string, n int) ([]Question, error)
}

// answer is the recorded outcome at one quiz position.
type answer struct {
	Choice  int
	Correct bool
}

// session is one user's quiz attempt. Cursor runs from 0 to QuizLength,
// where QuizLength means finished. CorrectCount always equals the number
// of Answers entries marked correct.
type session struct {
	Subject      string
	Questions    []Question
	Cursor       int
	CorrectCount int
	Answers      []*answer
}

// Progress is a point-in-time view of a session.
type Progress struct {
	Position int // 1-based, clamped to Total once finished
	Total    int
	Correct  int
}

// SessionManager holds at most one quiz session per user and serializes
// all operations on them. Actions for the same user may arrive from the
// update loop and from a scheduled transition at once; later operations
// win.
type SessionManager struct {
	store QuestionStore

	mu        sync.Mutex
	sessions  map[int64]*session
	languages map[int64]string
}

func NewSessionManager(store QuestionStore) *SessionManager {
	return &SessionManager{
		store:     store,
		sessions:  make(map[int64]*session),
		languages: make(map[int64]string),
	}
}

// StartQuiz samples a fresh batch of questions and replaces any existing
// session for the user. It returns false when the subject's pool holds
// fewer than QuizLength questions or the store fails; no session is
// created or replaced in that case.
func (m *SessionManager) StartQuiz(ctx context.Context, userID int64, subject string) bool {
	n, err := m.store.Count(ctx, subject)
	if err != nil {
		log.Printf("Error counting %s questions: %v", subject, err)
		return false
	}
	if n < QuizLength {
		log.Printf("Warning: subject %s has %d questions, need at least %d", subject, n, QuizLength)
		return false
	}

	questions, err := m.store.SampleRandom(ctx, subject, QuizLength)
	if err != nil || len(questions) < QuizLength {
		log.Printf("Error sampling %s questions: %v", subject, err)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &session{
		Subject:   subject,
		Questions: questions,
		Answers:   make([]*answer, QuizLength),
	}
	return true
}

// CurrentQuestion returns the question under the cursor, or false when
// the user has no session or the quiz is finished.
func (m *SessionManager) CurrentQuestion(userID int64) (Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok || s.Cursor >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Cursor], true
}

// SubmitAnswer records the user's choice at the current position and
// reports whether it was correct. A choice outside the options range is
// simply incorrect. Re-answering a position replaces the previous record
// and adjusts the correct counter by the delta, so the counter never
// drifts from the tally of correct positions.
func (m *SessionManager) SubmitAnswer(userID int64, choice int) (isCorrect, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, okSess := m.sessions[userID]
	if !okSess || s.Cursor >= len(s.Questions) {
		return false, false
	}

	q := s.Questions[s.Cursor]
	correct := choice == q.Correct

	if prev := s.Answers[s.Cursor]; prev != nil && prev.Correct {
		s.CorrectCount--
	}
	s.Answers[s.Cursor] = &answer{Choice: choice, Correct: correct}
	if correct {
		s.CorrectCount++
	}
	return correct, true
}

// Advance moves the cursor forward, possibly past the last question;
// callers check IsFinished before rendering. The cursor saturates at the
// quiz length. False only when the user has no session.
func (m *SessionManager) Advance(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return false
	}
	if s.Cursor < len(s.Questions) {
		s.Cursor++
	}
	return true
}

// Retreat steps back one position and clears whatever answer was recorded
// there, so the question must be answered again and cannot be counted
// twice. Returns whether a retreat happened.
func (m *SessionManager) Retreat(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok || s.Cursor == 0 {
		return false
	}
	s.Cursor--
	if prev := s.Answers[s.Cursor]; prev != nil {
		if prev.Correct {
			s.CorrectCount--
		}
		s.Answers[s.Cursor] = nil
	}
	return true
}

func (m *SessionManager) Progress(userID int64) (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Progress{}, false
	}
	pos := s.Cursor + 1
	if pos > len(s.Questions) {
		pos = len(s.Questions)
	}
	return Progress{Position: pos, Total: len(s.Questions), Correct: s.CorrectCount}, true
}

// IsFinished reports whether there is nothing left to show: no session at
// all, or the cursor ran past the last question.
func (m *SessionManager) IsFinished(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return !ok || s.Cursor >= len(s.Questions)
}

// Subject returns the subject of the user's session, for restarts.
func (m *SessionManager) Subject(userID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	return s.Subject, true
}

// SetLanguage stores the user's interface language. Language choice
// survives quiz restarts.
func (m *SessionManager) SetLanguage(userID int64, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages[userID] = lang
}

// Language returns the user's interface language, defaulting to Uzbek.
func (m *SessionManager) Language(userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lang, ok := m.languages[userID]; ok {
		return lang
	}
	return "uz"
}
