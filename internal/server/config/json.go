package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
	"github.com/dmitrijs2005/gatekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration, so both "24h" and integer nanoseconds are accepted.
// Pointer fields distinguish an absent key from a zero value.
type JsonConfig struct {
	Addr              string          `json:"addr"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         string          `json:"secret_key"`
	TokenTTL          *timex.Duration `json:"token_ttl"`
	Production        *bool           `json:"production"`
	SeedAdminEmail    *string         `json:"seed_admin_email"`
	SeedAdminPassword string          `json:"seed_admin_password"`
	LogLevel          string          `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without one it does nothing. Keys missing from the file
// leave earlier values untouched. It panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.Production != nil {
		config.Production = *c.Production
	}
	if c.SeedAdminEmail != nil {
		config.SeedAdminEmail = *c.SeedAdminEmail
	}
	if c.SeedAdminPassword != "" {
		config.SeedAdminPassword = c.SeedAdminPassword
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
