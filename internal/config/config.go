package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
)

const (
	DefaultConnectionString = "file:./voltra.db?cache=shared&mode=rwc"
	devConnectionString     = "file:./local.db?cache=shared&mode=rwc"
)

type Config struct {
	DB      DBConfig      `toml:"database"`
	Planner PlannerConfig `toml:"planner"`
	Log     LogConfig     `toml:"log"`
}

type DBConfig struct {
	ConnectionString string `toml:"connection_string"` // The entire DB connection string.
}

type PlannerConfig struct {
	DefaultGoal      models.TrainingGoal  `toml:"default_goal"`
	DefaultLevel     models.TrainingLevel `toml:"default_level"`
	WorkingSets      int                  `toml:"working_sets"`
	ApplyProgression bool                 `toml:"apply_progression"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

func Default() *Config {
	return &Config{
		DB: DBConfig{ConnectionString: DefaultConnectionString},
		Planner: PlannerConfig{
			DefaultGoal:  models.GoalHypertrophy,
			DefaultLevel: models.LevelIntermediate,
			WorkingSets:  planning.DefaultWorkingSets,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "voltra")
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path, or at GetConfigPath when path is
// empty. A missing file yields the defaults. Values from a .env file in the
// working directory and the environment are applied on top.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("Failed to read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// The .env file is optional.
	_ = godotenv.Load()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies TURSO_DATABASE_URL (with TURSO_AUTH_TOKEN) and
// DEV_MODE, in that order.
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("TURSO_DATABASE_URL"); url != "" {
		if token := os.Getenv("TURSO_AUTH_TOKEN"); token != "" && !strings.Contains(url, "authToken=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "authToken=" + token
		}
		c.DB.ConnectionString = url
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		c.DB.ConnectionString = devConnectionString
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DB.ConnectionString == "" {
		errs = append(errs, errors.New("database.connection_string is empty"))
	}
	if !c.Planner.DefaultGoal.Valid() {
		errs = append(errs, fmt.Errorf("planner.default_goal: unknown goal %q", c.Planner.DefaultGoal))
	}
	if !c.Planner.DefaultLevel.Valid() {
		errs = append(errs, fmt.Errorf("planner.default_level: unknown level %q", c.Planner.DefaultLevel))
	}
	if n := c.Planner.WorkingSets; n < planning.MinWorkingSets || n > planning.MaxWorkingSets {
		errs = append(errs, fmt.Errorf("planner.working_sets: %d is outside [%d, %d]", n, planning.MinWorkingSets, planning.MaxWorkingSets))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Save writes the configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("Failed to encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
