package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eion/mock-interview/internal/config"
	"github.com/eion/mock-interview/internal/interview"
)

type startInterviewRequest struct {
	Role         string  `json:"role"`
	Difficulty   *string `json:"difficulty"`
	Topic        string  `json:"topic"`
	MaxQuestions *int    `json:"maxQuestions"`
}

type submitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

func banner() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Interview Chatbot API is live!",
			"version": serviceVersion,
			"endpoints": gin.H{
				"startInterview": "POST   /api/interview/start",
				"submitAnswer":   "POST   /api/interview/answer",
				"getSession":     "GET    /api/interview/session/:sessionId",
				"getReport":      "GET    /api/interview/report/:sessionId",
				"deleteSession":  "DELETE /api/interview/session/:sessionId",
				"listSessions":   "GET    /api/interview/sessions",
			},
		})
	}
}

func health(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"sessions":  as.Store.Len(),
		})
	}
}

func startInterview(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startInterviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, as, badBody(err))
			return
		}

		// only an absent difficulty takes the default; "" is rejected by validation
		difficulty := interview.DifficultyMedium
		if req.Difficulty != nil {
			difficulty = interview.Difficulty(*req.Difficulty)
		}
		maxQuestions := config.Interview().DefaultMaxQuestions
		if req.MaxQuestions != nil {
			maxQuestions = *req.MaxQuestions
		}

		out, err := as.Interview.CreateSession(c.Request.Context(), &interview.CreateSessionRequest{
			Role:         req.Role,
			Topic:        req.Topic,
			Difficulty:   difficulty,
			MaxQuestions: maxQuestions,
		})
		if err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"sessionId":      out.SessionID,
			"message":        out.Message,
			"questionNumber": out.QuestionNumber,
			"totalQuestions": out.TotalQuestions,
		})
	}
}

func submitAnswer(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitAnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, as, badBody(err))
			return
		}

		out, err := as.Interview.SubmitAnswer(c.Request.Context(), &interview.SubmitAnswerRequest{
			SessionID: req.SessionID,
			Answer:    req.Answer,
		})
		if err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        out.Message,
			"questionNumber": out.QuestionNumber,
			"totalQuestions": out.TotalQuestions,
			"completed":      out.Completed,
		})
	}
}

func getSession(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := as.Interview.GetSession(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"session": session,
		})
	}
}

func getReport(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := as.Interview.GetReport(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"sessionId":      out.SessionID,
			"role":           out.Role,
			"topic":          out.Topic,
			"difficulty":     out.Difficulty,
			"startedAt":      out.StartedAt,
			"completedAt":    out.CompletedAt,
			"totalQuestions": out.TotalQuestions,
			"report":         out.Report,
		})
	}
}

func deleteSession(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := as.Interview.DeleteSession(c.Request.Context(), c.Param("sessionId")); err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Session deleted.",
		})
	}
}

func listSessions(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions, err := as.Interview.ListSessions(c.Request.Context())
		if err != nil {
			respondError(c, as, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"count":    len(sessions),
			"sessions": sessions,
		})
	}
}

// badBody wraps a JSON binding failure as a validation error
func badBody(err error) error {
	return &interview.Error{
		Kind:    interview.KindValidation,
		Message: "Invalid request body.",
		Cause:   err,
	}
}
