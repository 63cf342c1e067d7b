package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eion/mock-interview/internal/interview"
)

var (
	totalQuestionsPattern = regexp.MustCompile(`Total Questions:\s*(\d+)`)
	topicPattern          = regexp.MustCompile(`Topic/Technology:\s*(.+)`)
)

// MockClient is an offline ChatGateway for local development and tests. It
// follows the interview protocol: one numbered question per turn, then a
// fenced JSON report after the final answer.
type MockClient struct {
	logger *zap.Logger
}

// NewMockClient creates a mock gateway
func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{logger: logger}
}

// OpenChat returns a fresh scripted conversation
func (m *MockClient) OpenChat(ctx context.Context) (interview.Chat, error) {
	m.logger.Debug("Opening mock chat")
	return &mockChat{}, nil
}

type mockChat struct {
	mu       sync.Mutex
	started  bool
	total    int
	topic    string
	answered int
}

func (c *mockChat) Send(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", interview.NewServiceUnavailableError("The AI model request failed.", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		c.started = true
		c.total = 1
		if m := totalQuestionsPattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				c.total = n
			}
		}
		c.topic = "the topic"
		if m := topicPattern.FindStringSubmatch(text); m != nil {
			c.topic = strings.TrimSpace(m[1])
		}
		return fmt.Sprintf("Hello, and welcome! I'm your interviewer today. Question 1: What first drew you to %s?", c.topic), nil
	}

	if text == interview.ReportRequestMessage {
		return c.report()
	}

	c.answered++
	feedback := fmt.Sprintf("Thanks. Your answer covered %d words.", len(strings.Fields(text)))
	if c.answered >= c.total {
		report, err := c.report()
		if err != nil {
			return "", err
		}
		return feedback + " That concludes the interview.\n\n" + report, nil
	}
	return fmt.Sprintf("%s Question %d: Describe a hard problem you solved with %s.", feedback, c.answered+1, c.topic), nil
}

// report renders a fenced report with one breakdown entry per answered question.
// Caller must hold c.mu.
func (c *mockChat) report() (string, error) {
	breakdown := make([]interview.QuestionScore, 0, c.answered)
	for i := 1; i <= c.answered; i++ {
		breakdown = append(breakdown, interview.QuestionScore{
			QuestionNumber: i,
			Score:          7,
			Comment:        "Reasonable answer.",
		})
	}

	body, err := json.MarshalIndent(interview.Report{
		OverallScore:   70,
		Grade:          "B",
		Summary:        fmt.Sprintf("Mock evaluation of %d answers on %s.", c.answered, c.topic),
		Strengths:      []string{"Clear communication"},
		Improvements:   []string{"Add more concrete examples"},
		Recommendation: "Consider",
		Breakdown:      breakdown,
	}, "", "  ")
	if err != nil {
		return "", interview.NewServiceUnavailableError("Failed to render mock report.", err)
	}
	return "```json\n" + string(body) + "\n```", nil
}

var _ interview.ChatGateway = (*MockClient)(nil)
