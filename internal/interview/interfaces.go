package interview

import "context"

// InterviewManager defines the interface for interview session operations
type InterviewManager interface {
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResult, error)
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResult, error)
	GetSession(ctx context.Context, sessionID string) (*Snapshot, error)
	GetReport(ctx context.Context, sessionID string) (*ReportResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]Summary, error)
}

// SessionStore is the only mutation surface for session records. Get and
// Delete return a not-found *Error for unknown identifiers.
type SessionStore interface {
	Put(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]*Session, error)
}

// ChatGateway opens stateful conversations with the external model
type ChatGateway interface {
	OpenChat(ctx context.Context) (Chat, error)
}

// Chat is one stateful conversation. The model keeps the full context, so
// callers only send the new message.
type Chat interface {
	Send(ctx context.Context, text string) (string, error)
}
