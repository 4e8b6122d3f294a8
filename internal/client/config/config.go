package config

import "time"

// Config holds runtime settings for the session client.
//
// Fields:
//   - ServerURL: base URL of the identity service.
//   - DatabasePath: SQLite file holding the token, UI hints and throttle record.
//   - VerifyTimeout: upper bound on one verification call.
//   - RedirectGrace: delay before an anonymous visitor is sent to sign in.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL     string
	DatabasePath  string
	VerifyTimeout time.Duration
	RedirectGrace time.Duration
	LogLevel      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "gatekeeper.db"
	c.VerifyTimeout = 10 * time.Second
	c.RedirectGrace = 100 * time.Millisecond
	c.LogLevel = "warn"
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
