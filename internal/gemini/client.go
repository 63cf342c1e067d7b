// Package gemini adapts Google's Gemini chat API to the interview ChatGateway.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/eion/mock-interview/internal/interview"
)

// Config holds the model settings used for every chat
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration
}

// Client implements interview.ChatGateway on top of the genai SDK. The
// underlying SDK client is created on first use and reused afterwards.
type Client struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewClient creates a gateway. It does not contact the API; a missing key is
// reported when the first chat is opened.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.cfg.APIKey == "" {
		return nil, interview.NewConfigurationError("GEMINI_API_KEY is not set. Add it to your .env file.")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, interview.NewServiceUnavailableError("Failed to initialise the AI model client.", err)
	}

	c.logger.Info("Gemini client initialised", zap.String("model", c.cfg.Model))
	c.client = client
	return client, nil
}

// OpenChat starts a new stateful conversation with the configured model
func (c *Client) OpenChat(ctx context.Context) (interview.Chat, error) {
	client, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	temperature := c.cfg.Temperature
	chat, err := client.Chats.Create(ctx, c.cfg.Model, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}, nil)
	if err != nil {
		return nil, interview.NewServiceUnavailableError("Failed to open a chat with the AI model.", err)
	}

	return &chatSession{
		chat:    chat,
		timeout: c.cfg.RequestTimeout,
	}, nil
}

type chatSession struct {
	chat    *genai.Chat
	timeout time.Duration
}

// Send forwards one message and returns the model's text reply. The genai
// chat keeps its own history, so only the new text is sent.
func (s *chatSession) Send(ctx context.Context, text string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", interview.NewServiceUnavailableError("The AI model did not respond in time.", err)
		}
		return "", interview.NewServiceUnavailableError("The AI model request failed.", err)
	}

	reply := res.Text()
	if reply == "" {
		return "", interview.NewServiceUnavailableError("The AI model returned an empty reply.", fmt.Errorf("empty response"))
	}
	return reply, nil
}

var _ interview.ChatGateway = (*Client)(nil)
