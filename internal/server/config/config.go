// Package config handles configuration for the identity server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the identity server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps users in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenTTL: token and auth cookie lifetime.
//   - Production: marks the auth cookie Secure.
//   - SeedAdminEmail / SeedAdminPassword: admin account created on start when absent.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr              string
	DatabaseDSN       string
	SecretKey         string
	TokenTTL          time.Duration
	Production        bool
	SeedAdminEmail    string
	SeedAdminPassword string
	LogLevel          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.Production = false
	c.SeedAdminEmail = "admin@example.com"
	c.SeedAdminPassword = "admin123"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
