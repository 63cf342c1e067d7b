package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestStartSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/interview/start", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SRE", body["role"])
		assert.NotContains(t, body, "difficulty")

		_, _ = w.Write([]byte(`{"success":true,"sessionId":"s1","message":"Q1","questionNumber":1,"totalQuestions":3}`))
	})

	out, err := c.Start(context.Background(), StartRequest{Role: "SRE", Topic: "Linux"})
	require.NoError(t, err)
	assert.Equal(t, "s1", out.SessionID)
	assert.Equal(t, 3, out.TotalQuestions)
}

func TestErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Session not found"}`))
	})

	_, err := c.Answer(context.Background(), "missing", "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Session not found", apiErr.Message)
}

func TestReportParsed(t *testing.T) {
	tests := []struct {
		name   string
		report string
		raw    string
		grade  string
	}{
		{name: "structured", report: `{"overallScore":80,"grade":"A-","breakdown":[]}`, grade: "A-"},
		{name: "raw fallback", report: `{"raw":"free text"}`, raw: "free text"},
		{name: "off-schema score", report: `{"overallScore":"70","grade":"B","extra":true}`, grade: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/interview/report/abc", r.URL.Path)
				_, _ = w.Write([]byte(`{"success":true,"sessionId":"abc","totalQuestions":2,"report":` + tt.report + `}`))
			})

			out, err := c.Report(context.Background(), "abc")
			require.NoError(t, err)
			assert.Equal(t, 2, out.TotalQuestions)

			report, err := out.Parsed()
			require.NoError(t, err)
			assert.Equal(t, tt.raw, report.Raw)
			assert.Equal(t, tt.grade, report.Grade)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/interview/sessions":
			_, _ = w.Write([]byte(`{"success":true,"count":1,"sessions":[{"sessionId":"a","status":"active","questionCount":1,"maxQuestions":5}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/interview/session/a":
			_, _ = w.Write([]byte(`{"success":true,"message":"Session deleted."}`))
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "a", list.Sessions[0].SessionID)

	require.NoError(t, c.Delete(context.Background(), "a"))

	err = c.Delete(context.Background(), "b")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusText(http.StatusTeapot), apiErr.Message)
}
