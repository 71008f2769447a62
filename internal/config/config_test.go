package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
botToken = "123456:ABC-DEF"
adminID = 42
dbPath = "bot.db"
predictEndpoint = "https://example.com/run/predict"
defaultLanguage = "en"

[logConfig]
level = "info"
format = "console"
file = ""
`

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "123456:ABC-DEF", cfg.BotToken)
	assert.Equal(t, int64(42), cfg.AdminID)
	assert.Equal(t, "bot.db", cfg.DBPath)
	assert.Equal(t, "https://example.com/run/predict", cfg.PredictEndpoint)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, "info", cfg.LogConfig.Level)

	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, validConfig)
	t.Setenv("BOT_TOKEN", "999999:ENV-TOKEN")
	t.Setenv("ADMIN_ID", "7777")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "999999:ENV-TOKEN", cfg.BotToken)
	assert.Equal(t, int64(7777), cfg.AdminID)
}

func TestLoadConfigBadAdminIDEnv(t *testing.T) {
	path := writeConfigFile(t, validConfig)
	t.Setenv("ADMIN_ID", "not-a-number")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigDefaultLanguage(t *testing.T) {
	path := writeConfigFile(t, `
botToken = "t"
adminID = 1
dbPath = "bot.db"
predictEndpoint = "https://example.com"
[logConfig]
level = "info"
format = "json"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestValidateConfigMissingFields(t *testing.T) {
	base := func() *Config {
		return &Config{
			BotToken:        "t",
			AdminID:         1,
			DBPath:          "bot.db",
			PredictEndpoint: "https://example.com",
			LogConfig:       LogConfig{Level: "info", Format: "json"},
		}
	}

	require.NoError(t, ValidateConfig(base()))

	for name, mutate := range map[string]func(*Config){
		"token":    func(c *Config) { c.BotToken = "" },
		"admin":    func(c *Config) { c.AdminID = 0 },
		"db":       func(c *Config) { c.DBPath = "" },
		"endpoint": func(c *Config) { c.PredictEndpoint = "" },
		"level":    func(c *Config) { c.LogConfig.Level = "" },
		"format":   func(c *Config) { c.LogConfig.Format = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestMaskedPrint(t *testing.T) {
	assert.Equal(t, "****", MaskedPrint("abcd"))
	assert.Equal(t, "******-DEF", MaskedPrint("123456-DEF"))
	assert.Equal(t, "", MaskedPrint(""))
}
