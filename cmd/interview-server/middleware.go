package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eion/mock-interview/internal/config"
	"github.com/eion/mock-interview/internal/interview"
)

// RequestLogger logs every request once it has been handled
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Info("Request handled", fields...)
		}
	}
}

// Recovery turns a panic in a handler into the standard error envelope
func Recovery(as *AppState) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		as.Logger.Error("Recovered from panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))

		respondError(c, as, fmt.Errorf("panic: %v", recovered))
	})
}

// MaxBodySize caps request bodies. A non-positive limit disables the cap.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// RateLimit rejects clients that exceed the configured request rate
func RateLimit(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !as.Limiter.Allow(c.ClientIP()) {
			as.Logger.Warn("Rate limit exceeded", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests. Please slow down.",
			})
			return
		}
		c.Next()
	}
}

// RateLimiter implements a per-client token bucket. Each key may burst up to
// limit requests and refills at limit per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   int
	window  time.Duration
	done    chan struct{}
	once    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter and starts the background eviction
// goroutine. A non-positive limit or window allows every request.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		window:  window,
		done:    make(chan struct{}),
	}
	if rl.enabled() {
		go rl.evict()
	}
	return rl
}

func (r *RateLimiter) enabled() bool {
	return r.limit > 0 && r.window > 0
}

// Allow reports whether a request for key may proceed.
func (r *RateLimiter) Allow(key string) bool {
	if !r.enabled() {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[key]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(r.window/time.Duration(r.limit)), r.limit),
		}
		r.clients[key] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// evict drops clients idle for a full window so the map does not grow unbounded.
func (r *RateLimiter) evict() {
	ticker := time.NewTicker(r.window)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.window)
			r.mu.Lock()
			for key, client := range r.clients {
				if client.lastSeen.Before(cutoff) {
					delete(r.clients, key)
				}
			}
			r.mu.Unlock()
		}
	}
}

// Stop ends the eviction goroutine
func (r *RateLimiter) Stop() {
	r.once.Do(func() { close(r.done) })
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind interview.Kind) int {
	switch kind {
	case interview.KindValidation, interview.KindConflict:
		return http.StatusBadRequest
	case interview.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the uniform error envelope. Outside production the full
// error chain is included as detail.
func respondError(c *gin.Context, as *AppState, err error) {
	kind := interview.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		as.Logger.Error("Request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}

	body := gin.H{
		"success": false,
		"error":   interview.MessageOf(err),
	}
	if !config.IsProduction() {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
