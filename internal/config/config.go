package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	BotToken        string    `toml:"botToken"`
	AdminID         int64     `toml:"adminID"`
	DBPath          string    `toml:"dbPath"`
	PredictEndpoint string    `toml:"predictEndpoint"`
	DefaultLanguage string    `toml:"defaultLanguage"`
	LogConfig       LogConfig `toml:"logConfig"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// LoadConfig reads the TOML file and applies environment overrides.
// BOT_TOKEN and ADMIN_ID take precedence over the file values, matching
// the deployment convention of supplying credentials via the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.BotToken = token
	}
	if admin := os.Getenv("ADMIN_ID"); admin != "" {
		id, err := strconv.ParseInt(admin, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_ID must be an integer: %w", err)
		}
		cfg.AdminID = id
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}

	return &cfg, nil
}

func ValidateURL(urlString string) bool {
	if urlString == "" {
		return false
	}
	if _, err := url.Parse(urlString); err != nil {
		return false
	}
	return true
}

func MaskedPrint(str string) string {
	// only show the last 4 characters
	if len(str) <= 4 {
		return strings.Repeat("*", len(str))
	}
	return strings.Repeat("*", len(str)-4) + str[len(str)-4:]
}

func PrintConfig(cfg *Config) {
	fmt.Println()
	fmt.Println("--------------------------------")
	fmt.Println("Config:")
	fmt.Printf("\tBotToken: %s\n", MaskedPrint(cfg.BotToken))
	fmt.Printf("\tAdminID: %d\n", cfg.AdminID)
	fmt.Printf("\tDBPath: %s\n", cfg.DBPath)
	fmt.Printf("\tPredictEndpoint: %s\n", cfg.PredictEndpoint)
	fmt.Printf("\tDefaultLanguage: %s\n", cfg.DefaultLanguage)
	fmt.Printf("\tLogConfig: %v\n", cfg.LogConfig)
	fmt.Println("--------------------------------")
	fmt.Println()
}

func ValidateConfig(cfg *Config) error {
	PrintConfig(cfg)
	if cfg.BotToken == "" {
		return fmt.Errorf("botToken is required (file or BOT_TOKEN env)")
	}
	if cfg.AdminID == 0 {
		return fmt.Errorf("adminID is required (file or ADMIN_ID env)")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("dbPath is required")
	}
	if cfg.PredictEndpoint == "" || !ValidateURL(cfg.PredictEndpoint) {
		return fmt.Errorf("predictEndpoint is required and must be a valid URL")
	}
	if cfg.LogConfig.Level == "" {
		return fmt.Errorf("logLevel is required")
	}
	if cfg.LogConfig.Format == "" {
		return fmt.Errorf("logFormat is required")
	}
	return nil
}
