package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// IsProduction reports whether c describes a production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Common.Env, "production")
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	LoadDefault()

	configFile := os.Getenv("INTERVIEW_CONFIG_FILE")
	if configFile == "" {
		configFile = "interview.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Loaded config from file: %s", configFile)
	}

	ApplyEnvOverrides()
}

// LoadDefault installs a fresh copy of the defaults.
func LoadDefault() {
	cfg := defaultConfig()
	_loaded = &cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig()

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
func defaultConfig() Config {
	return Config{
		Common: Common{
			Env: "development",
			Log: logConfig{
				Level:  "info",
				Format: "json",
			},
			Http: httpConfig{
				Host:           "0.0.0.0",
				Port:           5000,
				MaxRequestSize: 1048576,
				CORSOrigins:    []string{"*"},
			},
			RateLimit: rateLimitConfig{
				Requests: 60,
				Window:   time.Minute,
			},
			Gemini: geminiConfig{
				Model:           "gemini-2.5-flash",
				Temperature:     0.8,
				MaxOutputTokens: 1024,
				RequestTimeout:  90 * time.Second,
			},
			Interview: interviewConfig{
				DefaultMaxQuestions: 5,
				MaxQuestionsLimit:   20,
				SessionTTL:          2 * time.Hour,
				SweepInterval:       5 * time.Minute,
			},
		},
	}
}

type Common struct {
	Env       string          `yaml:"env"`
	Log       logConfig       `yaml:"log"`
	Http      httpConfig      `yaml:"http"`
	RateLimit rateLimitConfig `yaml:"rate_limit"`
	Gemini    geminiConfig    `yaml:"gemini"`
	Interview interviewConfig `yaml:"interview"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	MaxRequestSize int64    `yaml:"max_request_size"`
	CORSOrigins    []string `yaml:"cors_origins"`
	// proxies whose X-Forwarded-For is believed when resolving the client IP; empty trusts none
	TrustedProxies []string `yaml:"trusted_proxies"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type rateLimitConfig struct {
	Requests int           `yaml:"requests"` // requests allowed per client within Window; 0 disables
	Window   time.Duration `yaml:"window"`
}

type geminiConfig struct {
	APIKey          string        `yaml:"api_key"`
	Model           string        `yaml:"model"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int32         `yaml:"max_output_tokens"`
	RequestTimeout  time.Duration `yaml:"request_timeout"` // 0 means no per-call deadline
	UseMock         bool          `yaml:"use_mock"`
}

type interviewConfig struct {
	DefaultMaxQuestions int           `yaml:"default_max_questions"`
	MaxQuestionsLimit   int           `yaml:"max_questions_limit"`
	SessionTTL          time.Duration `yaml:"session_ttl"` // idle sessions older than this are swept; 0 disables
	SweepInterval       time.Duration `yaml:"sweep_interval"`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Env() string {
	return mustLoaded().Common.Env
}

// IsProduction reports whether error details should be hidden from clients.
func IsProduction() bool {
	return mustLoaded().IsProduction()
}

func Logger() logConfig {
	return mustLoaded().Common.Log
}

func Http() httpConfig {
	return mustLoaded().Common.Http
}

func RateLimit() rateLimitConfig {
	return mustLoaded().Common.RateLimit
}

func Gemini() geminiConfig {
	return mustLoaded().Common.Gemini
}

func Interview() interviewConfig {
	return mustLoaded().Common.Interview
}

// Get returns the full configuration
func Get() *Config {
	return mustLoaded()
}

func mustLoaded() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

// ApplyEnvOverrides applies environment variables over the loaded config (highest priority)
func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}
	c := &_loaded.Common

	if env := os.Getenv("INTERVIEW_ENV"); env != "" {
		c.Env = env
	}
	if level := os.Getenv("INTERVIEW_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("INTERVIEW_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}

	if host := os.Getenv("INTERVIEW_HTTP_HOST"); host != "" {
		c.Http.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Http.Port = p
		}
	}
	if origins := os.Getenv("INTERVIEW_CORS_ORIGINS"); origins != "" {
		c.Http.CORSOrigins = splitList(origins)
	}
	if proxies := os.Getenv("INTERVIEW_TRUSTED_PROXIES"); proxies != "" {
		c.Http.TrustedProxies = splitList(proxies)
	}

	if limit := os.Getenv("INTERVIEW_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.RateLimit.Requests = n
		}
	}
	if window := os.Getenv("INTERVIEW_RATE_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			c.RateLimit.Window = d
		}
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if timeout := os.Getenv("GEMINI_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Gemini.RequestTimeout = d
		}
	}
	if useMock := os.Getenv("INTERVIEW_USE_MOCK_LLM"); useMock != "" {
		if enabled, err := strconv.ParseBool(useMock); err == nil {
			c.Gemini.UseMock = enabled
		}
	}

	if ttl := os.Getenv("INTERVIEW_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Interview.SessionTTL = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
