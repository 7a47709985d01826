// Package config handles configuration for the viewer component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the NoteGuard viewer.
//
// Fields:
//   - ServerBaseURL: base URL of the NoteGuard backend.
//   - UserID: the authenticated user id forwarded on requests.
//   - DatabasePath: sqlite file holding the checkout resume record.
//   - HeartbeatInterval: how often the progress heartbeat reports.
//   - PollInterval / PollBudget: payment poll cadence and upper bound.
type Config struct {
	ServerBaseURL     string
	UserID            string
	DatabasePath      string
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	PollBudget        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.UserID = ""
	c.DatabasePath = "viewer.db"
	c.HeartbeatInterval = 20 * time.Second
	c.PollInterval = 3 * time.Second
	c.PollBudget = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
