// Package config holds dashboard server configuration.
package config

import "os"

// ServerConfig holds configuration for the DealerDash server.
type ServerConfig struct {
	Addr       string // Listen address (default ":8080")
	APIBaseURL string // Dealer REST API base URL (or DEALER_API env)
	LogLevel   string // Log level: debug, info, warn, error
	LogFormat  string // Log format: text, json
	DBPath     string // SQLite path for sessions/preferences (":memory:" for tests)
	Secure     bool   // Use secure cookies (set when serving HTTPS)
}

// DefaultServerConfig returns sensible defaults. The API base URL honors the
// DEALER_API environment variable.
func DefaultServerConfig() ServerConfig {
	api := os.Getenv("DEALER_API")
	if api == "" {
		api = "http://localhost:5000/api"
	}
	return ServerConfig{
		Addr:       ":8080",
		APIBaseURL: api,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}
