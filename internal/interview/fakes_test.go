package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const fencedReport = "Thanks for your time.\n\n```json\n" + `{
  "overallScore": 72,
  "grade": "B-",
  "summary": "Solid fundamentals.",
  "strengths": ["Indexing", "Clear answers"],
  "improvements": ["Transactions"],
  "recommendation": "Consider",
  "breakdown": [
    {"questionNumber": 1, "score": 7, "comment": "Good"},
    {"questionNumber": 2, "score": 7.5, "comment": "Decent"}
  ]
}` + "\n```"

// scriptedChat replies with the next entry of replies, or "Question N" once they run out.
type scriptedChat struct {
	mu      sync.Mutex
	replies []string
	sent    []string
	failOn  int // 1-based send index that fails; 0 never fails
}

func (c *scriptedChat) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, text)
	if c.failOn == len(c.sent) {
		return "", NewServiceUnavailableError("model unavailable", errors.New("connection refused"))
	}
	if len(c.replies) > 0 {
		reply := c.replies[0]
		c.replies = c.replies[1:]
		return reply, nil
	}
	return fmt.Sprintf("Question %d", len(c.sent)), nil
}

func (c *scriptedChat) sends() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type fakeGateway struct {
	chat    *scriptedChat
	openErr error
	opened  int
}

func (g *fakeGateway) OpenChat(ctx context.Context) (Chat, error) {
	if g.openErr != nil {
		return nil, g.openErr
	}
	g.opened++
	return g.chat, nil
}

func countCandidateTurns(history []Turn) int {
	n := 0
	for _, turn := range history {
		if turn.Role == SpeakerCandidate {
			n++
		}
	}
	return n
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
