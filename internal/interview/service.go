package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the InterviewManager interface
type Service struct {
	store             SessionStore
	gateway           ChatGateway
	logger            *zap.Logger
	maxQuestionsLimit int
	now               func() time.Time
	newID             func() string
}

// Option customises a Service
type Option func(*Service)

// WithMaxQuestionsLimit caps the maxQuestions a caller may request. 0 means no cap.
func WithMaxQuestionsLimit(limit int) Option {
	return func(s *Service) {
		s.maxQuestionsLimit = limit
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new interview service
func NewService(store SessionStore, gateway ChatGateway, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession opens a chat, sends the opening prompt and records the new
// session. Nothing is stored if the model call fails.
func (s *Service) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResult, error) {
	role := strings.TrimSpace(req.Role)
	topic := strings.TrimSpace(req.Topic)

	if role == "" {
		return nil, NewValidationError("role is required.")
	}
	if topic == "" {
		return nil, NewValidationError("topic is required.")
	}
	if !req.Difficulty.Valid() {
		return nil, NewValidationError("difficulty must be easy | medium | hard.")
	}
	if req.MaxQuestions < 1 {
		return nil, NewValidationError("maxQuestions must be a positive integer.")
	}
	if s.maxQuestionsLimit > 0 && req.MaxQuestions > s.maxQuestionsLimit {
		return nil, NewValidationError(fmt.Sprintf("maxQuestions cannot exceed %d.", s.maxQuestionsLimit))
	}

	log := s.logger.With(
		zap.String("role", role),
		zap.String("topic", topic),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("max_questions", req.MaxQuestions))

	chat, err := s.gateway.OpenChat(ctx)
	if err != nil {
		log.Error("Failed to open model chat", zap.Error(err))
		return nil, fmt.Errorf("failed to open chat: %w", err)
	}

	prompt := BuildOpeningPrompt(role, req.Difficulty, topic, req.MaxQuestions)
	opening, err := chat.Send(ctx, prompt)
	if err != nil {
		log.Error("Failed to get opening message", zap.Error(err))
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}

	now := s.now()
	session := &Session{
		ID:            s.newID(),
		Role:          role,
		Topic:         topic,
		Difficulty:    req.Difficulty,
		MaxQuestions:  req.MaxQuestions,
		QuestionCount: 1,
		Status:        StatusActive,
		StartedAt:     now,
		LastActiveAt:  now,
		History:       []Turn{{Role: SpeakerInterviewer, Content: opening}},
		Answers:       []Answer{},
		chat:          chat,
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.Info("Interview session started", zap.String("session_id", session.ID))

	return &CreateSessionResult{
		SessionID:      session.ID,
		Message:        opening,
		QuestionNumber: session.QuestionCount,
		TotalQuestions: session.MaxQuestions,
	}, nil
}

// SubmitAnswer records the candidate's answer to the current question and the
// interviewer's reply. Submissions for one session are serialised.
func (s *Service) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	if req.SessionID == "" {
		return nil, NewValidationError("sessionId is required.")
	}
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, NewValidationError("answer cannot be empty.")
	}

	session, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	session.turn.Lock()
	defer session.turn.Unlock()

	session.mu.RLock()
	status, questionNumber := session.Status, session.QuestionCount
	session.mu.RUnlock()

	if status == StatusCompleted {
		return nil, NewConflictError(session.ID, "Interview is already completed. Fetch the report.")
	}

	log := s.logger.With(
		zap.String("session_id", session.ID),
		zap.Int("question_number", questionNumber))

	// The model is called before any mutation so a failed call leaves the
	// session untouched and the candidate can resubmit.
	reply, err := session.chat.Send(ctx, answer)
	if err != nil {
		log.Error("Failed to get interviewer reply", zap.Error(err))
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.History = append(session.History,
		Turn{Role: SpeakerCandidate, Content: answer},
		Turn{Role: SpeakerInterviewer, Content: reply})
	session.Answers = append(session.Answers, Answer{QuestionNumber: questionNumber, Answer: answer})

	now := s.now()
	session.LastActiveAt = now
	if session.QuestionCount >= session.MaxQuestions {
		session.Status = StatusCompleted
		session.CompletedAt = &now
		log.Info("Interview completed")
	} else {
		session.QuestionCount++
	}

	return &SubmitAnswerResult{
		Message:        reply,
		QuestionNumber: session.QuestionCount,
		TotalQuestions: session.MaxQuestions,
		Completed:      session.Status == StatusCompleted,
	}, nil
}

// GetSession returns a snapshot of the session without its chat handle
func (s *Service) GetSession(ctx context.Context, sessionID string) (*Snapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.RLock()
	defer session.mu.RUnlock()

	return session.snapshot(), nil
}

// GetReport extracts the final report of a completed session. The last
// interviewer turn is parsed first; if it has no report the model is asked
// once more, and if that reply does not parse either it is returned raw.
func (s *Service) GetReport(ctx context.Context, sessionID string) (*ReportResult, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.turn.Lock()
	defer session.turn.Unlock()

	session.mu.RLock()
	status, cached := session.Status, session.report
	last, _ := lastInterviewerTurn(session.History)
	session.mu.RUnlock()

	if status != StatusCompleted {
		return nil, NewConflictError(session.ID, "Interview is not completed yet.")
	}

	report := cached
	if report == nil {
		report, err = s.extractReport(ctx, session, last)
		if err != nil {
			return nil, err
		}
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.LastActiveAt = s.now()
	if !report.IsRaw() {
		session.report = report
	}

	snap := session.snapshot()
	return &ReportResult{
		SessionID:      snap.SessionID,
		Role:           snap.Role,
		Topic:          snap.Topic,
		Difficulty:     snap.Difficulty,
		StartedAt:      snap.StartedAt,
		CompletedAt:    snap.CompletedAt,
		TotalQuestions: snap.MaxQuestions,
		Report:         report,
	}, nil
}

// extractReport runs the scan-then-re-request policy on the final interviewer
// turn. Only an unparseable reply degrades to the raw text; a failed model
// call is returned to the caller. Caller must hold session.turn.
func (s *Service) extractReport(ctx context.Context, session *Session, last string) (*Report, error) {
	log := s.logger.With(zap.String("session_id", session.ID))

	if report, ok := ParseReport(last); ok {
		return report, nil
	}

	log.Info("No report in final turn, requesting it explicitly")
	reply, err := session.chat.Send(ctx, ReportRequestMessage)
	if err != nil {
		log.Error("Report re-request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to request report: %w", err)
	}

	if report, ok := ParseReport(reply); ok {
		return report, nil
	}

	log.Warn("Report re-request had no structured data, returning raw reply")
	return &Report{Raw: reply}, nil
}

// DeleteSession deletes a session
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("Interview session deleted", zap.String("session_id", sessionID))
	return nil
}

// ListSessions lists every session in start order
func (s *Service) ListSessions(ctx context.Context) ([]Summary, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]Summary, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, session.summary())
	}
	return out, nil
}

var _ InterviewManager = (*Service)(nil)
