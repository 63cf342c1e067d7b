package interview

import (
	"encoding/json"
	"sync"
	"time"
)

// Difficulty is the requested interview difficulty
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the supported difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Status is the lifecycle state of a session. It only ever moves active → completed.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Speaker tags a transcript turn
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// Turn is one entry of the transcript
type Turn struct {
	Role    Speaker `json:"role"`
	Content string  `json:"content"`
}

// Answer records a candidate submission against the question it answered
type Answer struct {
	QuestionNumber int    `json:"questionNumber"`
	Answer         string `json:"answer"`
}

// Session is the in-memory interview record. The chat handle and locks are
// owned by the session and never leave this package. turn serialises
// operations that talk to the model; mu guards the fields and is only held
// briefly, so reads never wait on a model call.
type Session struct {
	ID            string
	Role          string
	Topic         string
	Difficulty    Difficulty
	MaxQuestions  int
	QuestionCount int
	Status        Status
	StartedAt     time.Time
	CompletedAt   *time.Time
	LastActiveAt  time.Time
	History       []Turn
	Answers       []Answer

	chat   Chat
	report *Report
	turn   sync.Mutex
	mu     sync.RWMutex
}

// snapshot copies the caller-visible state. Caller must hold s.mu for reading.
func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		SessionID:     s.ID,
		Role:          s.Role,
		Topic:         s.Topic,
		Difficulty:    s.Difficulty,
		MaxQuestions:  s.MaxQuestions,
		QuestionCount: s.QuestionCount,
		Status:        s.Status,
		StartedAt:     s.StartedAt,
		History:       append([]Turn(nil), s.History...),
		Answers:       append([]Answer{}, s.Answers...),
	}
	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		snap.CompletedAt = &completedAt
	}
	return snap
}

func (s *Session) summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Summary{
		SessionID:     s.ID,
		Role:          s.Role,
		Topic:         s.Topic,
		Status:        s.Status,
		QuestionCount: s.QuestionCount,
		MaxQuestions:  s.MaxQuestions,
		StartedAt:     s.StartedAt,
	}
}

func (s *Session) lastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastActiveAt
}

// Snapshot is the full session view returned to callers (no chat handle)
type Snapshot struct {
	SessionID     string     `json:"sessionId"`
	Role          string     `json:"role"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	MaxQuestions  int        `json:"maxQuestions"`
	QuestionCount int        `json:"questionCount"`
	Status        Status     `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	History       []Turn     `json:"history"`
	Answers       []Answer   `json:"answers"`
}

// Summary is the list view of a session
type Summary struct {
	SessionID     string    `json:"sessionId"`
	Role          string    `json:"role"`
	Topic         string    `json:"topic"`
	Status        Status    `json:"status"`
	QuestionCount int       `json:"questionCount"`
	MaxQuestions  int       `json:"maxQuestions"`
	StartedAt     time.Time `json:"startedAt"`
}

// CreateSessionRequest represents a request to start a new interview
type CreateSessionRequest struct {
	Role         string
	Topic        string
	Difficulty   Difficulty
	MaxQuestions int
}

// CreateSessionResult carries the interviewer's opening message
type CreateSessionResult struct {
	SessionID      string
	Message        string
	QuestionNumber int
	TotalQuestions int
}

// SubmitAnswerRequest represents a candidate answer for the current question
type SubmitAnswerRequest struct {
	SessionID string
	Answer    string
}

// SubmitAnswerResult carries the interviewer's reply and the updated counters
type SubmitAnswerResult struct {
	Message        string
	QuestionNumber int
	TotalQuestions int
	Completed      bool
}

// QuestionScore is the per-question entry of a report breakdown
type QuestionScore struct {
	QuestionNumber int     `json:"questionNumber"`
	Score          float64 `json:"score"`
	Comment        string  `json:"comment"`
}

// Report is the structured final evaluation produced by the model. Document
// holds the full object the model emitted and is what gets encoded, so keys
// outside the typed fields are kept. When the model reply could not be parsed
// only Raw is set, and the report encodes as {"raw": "..."}.
type Report struct {
	OverallScore   float64         `json:"overallScore"`
	Grade          string          `json:"grade"`
	Summary        string          `json:"summary"`
	Strengths      []string        `json:"strengths"`
	Improvements   []string        `json:"improvements"`
	Recommendation string          `json:"recommendation"`
	Breakdown      []QuestionScore `json:"breakdown"`
	Document       json.RawMessage `json:"-"`
	Raw            string          `json:"-"`
}

// IsRaw reports whether the report is the unparsed fallback.
func (r *Report) IsRaw() bool {
	return r.Raw != ""
}

func (r Report) MarshalJSON() ([]byte, error) {
	if r.Raw != "" {
		return json.Marshal(struct {
			Raw string `json:"raw"`
		}{Raw: r.Raw})
	}
	if len(r.Document) > 0 {
		return r.Document, nil
	}
	type plain Report
	return json.Marshal(plain(r))
}

// ReportResult is a report enriched with session metadata
type ReportResult struct {
	SessionID      string     `json:"sessionId"`
	Role           string     `json:"role"`
	Topic          string     `json:"topic"`
	Difficulty     Difficulty `json:"difficulty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	TotalQuestions int        `json:"totalQuestions"`
	Report         *Report    `json:"report"`
}
