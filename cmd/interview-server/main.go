package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eion/mock-interview/internal/config"
	"github.com/eion/mock-interview/internal/gemini"
	"github.com/eion/mock-interview/internal/interview"
)

const (
	serviceName    = "interview-server"
	serviceVersion = "1.0.0"
)

// AppState holds all application services
type AppState struct {
	Interview interview.InterviewManager
	Store     *interview.InMemoryStore
	Sweeper   *interview.Sweeper
	Limiter   *RateLimiter
	Logger    *zap.Logger
}

func main() {
	// .env is optional; real environment variables still apply
	envErr := godotenv.Load()

	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	logger.Info("Configuration loaded", zap.String("env", config.Env()))
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	as := newAppState(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	as.Sweeper.Start(ctx)

	// Create HTTP server
	router := setupRouter(as)

	addr := config.Http().Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting interview server", zap.String("address", addr))

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState wires the store, model gateway and interview service from the loaded config
func newAppState(logger *zap.Logger) *AppState {
	geminiCfg := config.Gemini()
	interviewCfg := config.Interview()
	rateCfg := config.RateLimit()

	var gateway interview.ChatGateway
	if geminiCfg.UseMock {
		logger.Warn("Using offline mock model gateway")
		gateway = gemini.NewMockClient(logger.Named("gemini"))
	} else {
		if geminiCfg.APIKey == "" {
			// Startup still succeeds; the first interview start reports the missing key.
			logger.Warn("GEMINI_API_KEY is not set, interview requests will fail until it is configured")
		}
		gateway = gemini.NewClient(gemini.Config{
			APIKey:          geminiCfg.APIKey,
			Model:           geminiCfg.Model,
			Temperature:     geminiCfg.Temperature,
			MaxOutputTokens: geminiCfg.MaxOutputTokens,
			RequestTimeout:  geminiCfg.RequestTimeout,
		}, logger.Named("gemini"))
	}

	store := interview.NewInMemoryStore()
	service := interview.NewService(store, gateway, logger.Named("interview"),
		interview.WithMaxQuestionsLimit(interviewCfg.MaxQuestionsLimit))

	logger.Info("Interview service configured",
		zap.String("model", geminiCfg.Model),
		zap.Int("default_max_questions", interviewCfg.DefaultMaxQuestions),
		zap.Int("max_questions_limit", interviewCfg.MaxQuestionsLimit),
		zap.Duration("session_ttl", interviewCfg.SessionTTL))

	return &AppState{
		Interview: service,
		Store:     store,
		Sweeper:   interview.NewSweeper(store, interviewCfg.SessionTTL, interviewCfg.SweepInterval, logger.Named("sweeper")),
		Limiter:   NewRateLimiter(rateCfg.Requests, rateCfg.Window),
		Logger:    logger,
	}
}

// initLogger builds the root logger from the log section. Entries are named
// after the service and tagged with the environment.
func initLogger() *zap.Logger {
	logCfg := config.Logger()

	zapCfg := zap.NewDevelopmentConfig()
	if logCfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Sampling = nil
	}

	// unknown levels fall back to info
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]any{"env": config.Env()}

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger.Named(serviceName)
}

func setupRouter(as *AppState) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	httpCfg := config.Http()

	// c.ClientIP keys the rate limiter; only listed proxies may set it via headers
	if err := router.SetTrustedProxies(httpCfg.TrustedProxies); err != nil {
		as.Logger.Error("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	corsConfig := cors.DefaultConfig()
	origins := httpCfg.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	router.Use(RequestLogger(as.Logger))
	router.Use(Recovery(as))
	router.Use(MaxBodySize(httpCfg.MaxRequestSize))
	router.Use(RateLimit(as))

	router.GET("/", banner())
	router.GET("/health", health(as))

	api := router.Group("/api/interview")
	{
		api.POST("/start", startInterview(as))
		api.POST("/answer", submitAnswer(as))
		api.GET("/session/:sessionId", getSession(as))
		api.GET("/report/:sessionId", getReport(as))
		api.DELETE("/session/:sessionId", deleteSession(as))
		api.GET("/sessions", listSessions(as))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Route %s %s not found.", c.Request.Method, c.Request.URL.Path),
		})
	})

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		as.Sweeper.Stop()
		as.Limiter.Stop()
		_ = logger.Sync()

		done <- struct{}{}
	}()

	return done
}
