// Package client is a typed HTTP client for the interview API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eion/mock-interview/internal/interview"
)

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one interview server
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:5000
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type StartRequest struct {
	Role         string `json:"role"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty,omitempty"`
	MaxQuestions int    `json:"maxQuestions,omitempty"`
}

type StartResponse struct {
	SessionID      string `json:"sessionId"`
	Message        string `json:"message"`
	QuestionNumber int    `json:"questionNumber"`
	TotalQuestions int    `json:"totalQuestions"`
}

type AnswerResponse struct {
	Message        string `json:"message"`
	QuestionNumber int    `json:"questionNumber"`
	TotalQuestions int    `json:"totalQuestions"`
	Completed      bool   `json:"completed"`
}

// ReportResponse keeps the report body undecoded; use Parsed to read it.
type ReportResponse struct {
	SessionID      string          `json:"sessionId"`
	Role           string          `json:"role"`
	Topic          string          `json:"topic"`
	Difficulty     string          `json:"difficulty"`
	StartedAt      time.Time       `json:"startedAt"`
	CompletedAt    *time.Time      `json:"completedAt"`
	TotalQuestions int             `json:"totalQuestions"`
	Report         json.RawMessage `json:"report"`
}

// Parsed decodes the report. A raw fallback comes back with only Raw set.
func (r *ReportResponse) Parsed() (*interview.Report, error) {
	var fallback struct {
		Raw *string `json:"raw"`
	}
	if err := json.Unmarshal(r.Report, &fallback); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if fallback.Raw != nil {
		return &interview.Report{Raw: *fallback.Raw}, nil
	}

	report, err := interview.DecodeReport(r.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

type ListResponse struct {
	Count    int                 `json:"count"`
	Sessions []interview.Summary `json:"sessions"`
}

func (c *Client) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	var out StartResponse
	if err := c.do(ctx, http.MethodPost, "/api/interview/start", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Answer(ctx context.Context, sessionID, answer string) (*AnswerResponse, error) {
	body := map[string]string{"sessionId": sessionID, "answer": answer}
	var out AnswerResponse
	if err := c.do(ctx, http.MethodPost, "/api/interview/answer", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Session(ctx context.Context, sessionID string) (*interview.Snapshot, error) {
	var out struct {
		Session interview.Snapshot `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/interview/session/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Session, nil
}

func (c *Client) Report(ctx context.Context, sessionID string) (*ReportResponse, error) {
	var out ReportResponse
	if err := c.do(ctx, http.MethodGet, "/api/interview/report/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/interview/session/"+url.PathEscape(sessionID), nil, nil)
}

func (c *Client) List(ctx context.Context) (*ListResponse, error) {
	var out ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/interview/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) != nil || envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
