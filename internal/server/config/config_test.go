package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.False(t, c.Production)
	assert.Equal(t, "admin@example.com", c.SeedAdminEmail)
	assert.Equal(t, "admin123", c.SeedAdminPassword)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"addr":       ":9000",
		"secret_key": "from-json",
		"token_ttl":  "30m",
	})
	os.Args = []string{"testbin", "-c", path, "-s", "from-flag"}

	c := LoadConfig()

	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "from-flag", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)
}
