package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultLocalOrigin is the origin the dev front end is served from
const DefaultLocalOrigin = "http://localhost:3000"

// Config represents the complete application configuration
type Config struct {
	Client        ClientConfig
	Server        ServerConfig
	Cognito       CognitoConfig
	Session       SessionConfig
	Observability ObservabilityConfig
	Environment   string
}

// ClientConfig holds settings for the API client and the auth bootstrap
type ClientConfig struct {
	// APIURL is set only when running against a local/dev backend.
	// Its presence is the development-mode signal.
	APIURL      string
	AppOrigin   string // Base URL used when APIURL is empty
	LocalOrigin string // Rewrite target for OAuth redirect URIs in dev mode
	HTTPTimeout time.Duration
}

// ServerConfig holds HTTP server configuration for the auth-config server
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// CognitoConfig holds the user pool settings served from GET /api/auth
type CognitoConfig struct {
	Region       string
	UserPoolID   string
	ClientID     string
	Domain       string // Hosted UI domain; enables the oauth block when set
	CDNDomainURL string // Redirect target for hosted UI sign-in and sign-out
}

// SessionConfig holds tokens used to restore a session at startup.
// They are read from the environment only and never written back.
type SessionConfig struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "production"),
		Client: ClientConfig{
			APIURL:      strings.TrimSuffix(getEnv("API_URL", ""), "/"),
			AppOrigin:   strings.TrimSuffix(getEnv("APP_ORIGIN", ""), "/"),
			LocalOrigin: getEnv("LOCAL_ORIGIN", DefaultLocalOrigin),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{DefaultLocalOrigin}),
		},
		Cognito: CognitoConfig{
			Region:       getEnv("COGNITO_REGION", "us-east-1"),
			UserPoolID:   getEnv("COGNITO_USER_POOL_ID", ""),
			ClientID:     getEnv("COGNITO_CLIENT_ID", ""),
			Domain:       getEnv("COGNITO_DOMAIN", ""),
			CDNDomainURL: getEnv("CDN_DOMAIN_URL", ""),
		},
		Session: SessionConfig{
			IDToken:      getEnv("SHOTLOCKER_ID_TOKEN", ""),
			AccessToken:  getEnv("SHOTLOCKER_ACCESS_TOKEN", ""),
			RefreshToken: getEnv("SHOTLOCKER_REFRESH_TOKEN", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings shared by the client and the server
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"API_URL":      c.Client.APIURL,
		"APP_ORIGIN":   c.Client.AppOrigin,
		"LOCAL_ORIGIN": c.Client.LocalOrigin,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.Client.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// ValidateClient checks that the client has somewhere to send requests
func (c *Config) ValidateClient() error {
	if c.APIBaseURL() == "" {
		return fmt.Errorf("API_URL or APP_ORIGIN is required")
	}
	return nil
}

// ValidateServer checks the settings the auth-config server needs
func (c *Config) ValidateServer() error {
	if c.Cognito.UserPoolID == "" {
		return fmt.Errorf("cognito user pool ID is required")
	}
	if c.Cognito.ClientID == "" {
		return fmt.Errorf("cognito client ID is required")
	}
	if c.Cognito.Domain != "" && c.Cognito.CDNDomainURL == "" {
		return fmt.Errorf("CDN_DOMAIN_URL is required when COGNITO_DOMAIN is set")
	}
	return nil
}

// IsDevelopment reports whether the client targets a local/dev backend.
// The API base URL being set is the only signal; ENVIRONMENT is not consulted.
func (c *Config) IsDevelopment() bool {
	return c.Client.APIURL != ""
}

// APIBaseURL returns the origin API requests are sent to
func (c *Config) APIBaseURL() string {
	if c.Client.APIURL != "" {
		return c.Client.APIURL
	}
	return c.Client.AppOrigin
}

// HasRestoredSession reports whether session tokens were supplied
func (c *SessionConfig) HasRestoredSession() bool {
	return c.IDToken != ""
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := os.Getenv(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
