package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Data     DataConfig     `yaml:"data"`
	CFBD     CFBDConfig     `yaml:"cfbd"`
	Strength StrengthConfig `yaml:"strength"`
	LogLevel string         `yaml:"log_level"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DataConfig locates the tabular CSV exports and scopes a run.
type DataConfig struct {
	Dir   string   `yaml:"dir"`
	Years []int    `yaml:"years"`
	Week  int      `yaml:"week"`  // zero means every week
	Teams []string `yaml:"teams"` // empty means all FBS teams
}

// CFBDConfig configures the CollegeFootballData API client.
type CFBDConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// StrengthConfig sets the fallback national averages used by the
// opponent-strength adjustment when no live averages row exists.
type StrengthConfig struct {
	NationalOffense float64 `yaml:"national_offense"`
	NationalDefense float64 `yaml:"national_defense"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./gridfact.db"},
		Data: DataConfig{
			Dir:   "./data",
			Years: []int{2024},
		},
		Strength: StrengthConfig{
			NationalOffense: 10.0,
			NationalDefense: 40.0,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
// A .env file in the working directory is read first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRIDFACT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GRIDFACT_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("CFBD_API_KEY"); v != "" {
		cfg.CFBD.Token = v
	}
	if v := os.Getenv("YEAR"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			cfg.Data.Years = []int{year}
		}
	}
	if v := os.Getenv("WEEK"); v != "" {
		if week, err := strconv.Atoi(v); err == nil {
			cfg.Data.Week = week
		}
	}
	if v := os.Getenv("TEAM"); v != "" {
		cfg.Data.Teams = []string{v}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
