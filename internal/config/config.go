// Package config provides application configuration sourced from the
// environment, constructed once at process start and passed into each
// component's constructor.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig describes transport-level settings.
type ServerConfig interface {
	GetServerPort() string
	GetEnvironment() string
	IsProduction() bool
	GetFrontendURL() string
	GetFrontendDist() string
}

// SecurityConfig describes session-credential settings.
type SecurityConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
}

// GitHubConfig describes identity-provider settings. The URL getters
// default to the public GitHub endpoints and exist so tests can point
// the exchanger and proxy at local stubs.
type GitHubConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetGitHubAuthURL() string
	GetGitHubTokenURL() string
	GetGitHubAPIBaseURL() string
}

// OpenAIConfig describes completion-API settings.
type OpenAIConfig interface {
	GetOpenAIKey() string
	GetOpenAIModel() string
	GetOpenAIBaseURL() string
}

// RateLimitConfig describes the process-wide request ceiling.
type RateLimitConfig interface {
	GetRateLimitRequests() int
	GetRateLimitWindow() time.Duration
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

// insecureDefaultSecret signs sessions when SESSION_SECRET is unset.
// A deployment hazard, not a crash: startup logs a warning instead.
const insecureDefaultSecret = "default-secret"

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort         string
	environment        string
	frontendURL        string
	frontendDist       string
	sessionSecret      string
	sessionTTL         time.Duration
	githubClientID     string
	githubClientSecret string
	githubAuthURL      string
	githubTokenURL     string
	githubAPIBaseURL   string
	openAIKey          string
	openAIModel        string
	openAIBaseURL      string
	rateLimitRequests  int
	rateLimitWindow    time.Duration
	redisAddr          string
	redisPassword      string
	redisDB            int
}

// NewConfig builds a configuration from the environment with defaults
// matching the deployed service.
func NewConfig() *AppConfig {
	return &AppConfig{
		serverPort:         getEnvString("PORT", "3001"),
		environment:        getEnvString("ENVIRONMENT", "development"),
		frontendURL:        getEnvString("FRONTEND_URL", "http://localhost:5173"),
		frontendDist:       getEnvString("FRONTEND_DIST", ""),
		sessionSecret:      getEnvString("SESSION_SECRET", insecureDefaultSecret),
		sessionTTL:         7 * 24 * time.Hour,
		githubClientID:     getEnvString("GITHUB_CLIENT_ID", ""),
		githubClientSecret: getEnvString("GITHUB_CLIENT_SECRET", ""),
		githubAuthURL:      getEnvString("GITHUB_AUTH_URL", "https://github.com/login/oauth/authorize"),
		githubTokenURL:     getEnvString("GITHUB_TOKEN_URL", "https://github.com/login/oauth/access_token"),
		githubAPIBaseURL:   getEnvString("GITHUB_API_BASE_URL", ""),
		openAIKey:          getEnvString("OPENAI_API_KEY", ""),
		openAIModel:        getEnvString("OPENAI_MODEL", "gpt-4"),
		openAIBaseURL:      getEnvString("OPENAI_BASE_URL", ""),
		rateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 100),
		rateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", "15m"),
		redisAddr:          getEnvString("REDIS_ADDR", ""),
		redisPassword:      getEnvString("REDIS_PASSWORD", ""),
		redisDB:            getEnvInt("REDIS_DB", 0),
	}
}

// GetServerPort returns the listening port.
func (c *AppConfig) GetServerPort() string { return c.serverPort }

// GetEnvironment returns the application environment.
func (c *AppConfig) GetEnvironment() string { return c.environment }

// IsProduction reports whether the service runs in production.
func (c *AppConfig) IsProduction() bool { return c.environment == "production" }

// GetFrontendURL returns the allowed cross-origin URL.
func (c *AppConfig) GetFrontendURL() string { return c.frontendURL }

// GetFrontendDist returns the frontend build directory served in
// production, empty when static serving is disabled.
func (c *AppConfig) GetFrontendDist() string { return c.frontendDist }

// GetSessionSecret returns the session signing secret.
func (c *AppConfig) GetSessionSecret() string { return c.sessionSecret }

// GetSessionTTL returns the fixed session credential lifetime.
func (c *AppConfig) GetSessionTTL() time.Duration { return c.sessionTTL }

// GetGitHubClientID returns the OAuth app client id.
func (c *AppConfig) GetGitHubClientID() string { return c.githubClientID }

// GetGitHubClientSecret returns the OAuth app client secret.
func (c *AppConfig) GetGitHubClientSecret() string { return c.githubClientSecret }

// GetGitHubAuthURL returns the provider authorize endpoint.
func (c *AppConfig) GetGitHubAuthURL() string { return c.githubAuthURL }

// GetGitHubTokenURL returns the provider token endpoint.
func (c *AppConfig) GetGitHubTokenURL() string { return c.githubTokenURL }

// GetGitHubAPIBaseURL returns the GitHub API base URL override, empty
// for the public API.
func (c *AppConfig) GetGitHubAPIBaseURL() string { return c.githubAPIBaseURL }

// GetOpenAIKey returns the completion API key.
func (c *AppConfig) GetOpenAIKey() string { return c.openAIKey }

// GetOpenAIModel returns the completion model identifier.
func (c *AppConfig) GetOpenAIModel() string { return c.openAIModel }

// GetOpenAIBaseURL returns the completion API base URL override,
// empty for the public API.
func (c *AppConfig) GetOpenAIBaseURL() string { return c.openAIBaseURL }

// GetRateLimitRequests returns the request ceiling per window.
func (c *AppConfig) GetRateLimitRequests() int { return c.rateLimitRequests }

// GetRateLimitWindow returns the rate-limit window size.
func (c *AppConfig) GetRateLimitWindow() time.Duration { return c.rateLimitWindow }

// GetRedisAddr returns the Redis address for distributed rate
// limiting, empty when the in-memory limiter is used.
func (c *AppConfig) GetRedisAddr() string { return c.redisAddr }

// GetRedisPassword returns the Redis password.
func (c *AppConfig) GetRedisPassword() string { return c.redisPassword }

// GetRedisDB returns the Redis database number.
func (c *AppConfig) GetRedisDB() int { return c.redisDB }

// UsesDefaultSecret reports whether the insecure fallback secret is in
// use, so startup can warn about the deployment hazard.
func (c *AppConfig) UsesDefaultSecret() bool { return c.sessionSecret == insecureDefaultSecret }

// Validate checks the configuration. The completion-API key is the
// only hard requirement: the service cannot provide its core service
// without it, so startup fails fast.
func (c *AppConfig) Validate() error {
	if c.openAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.serverPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.rateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
