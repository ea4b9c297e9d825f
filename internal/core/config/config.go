package config

import (
	"fmt"
	"strings"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
	"github.com/aevon-lab/microbatch/internal/core/microbatch"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config plus resolved model-loading config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Models   ModelsConfig   `koanf:"models"`
	Planning PlanningConfig `koanf:"planning"`

	// ModelLoading is populated by Load after parsing model files.
	ModelLoading ModelLoadingConfig `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

// DatabaseConfig configures the optional plan ledger.
type DatabaseConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type ModelsConfig struct {
	ConfigDir     string `koanf:"config_dir"`
	RequireModels bool   `koanf:"require_models"`
}

// PlanningConfig holds run-wide planning inputs. The event_time_* overrides
// are RFC 3339 strings and only apply to one-shot CLI plans.
type PlanningConfig struct {
	DefaultLookback int    `koanf:"default_lookback"`
	WorkerCount     int    `koanf:"worker_count"`
	FullRefresh     bool   `koanf:"full_refresh"`
	EventTimeStart  string `koanf:"event_time_start"`
	EventTimeEnd    string `koanf:"event_time_end"`
}

type ModelLoadingConfig struct {
	ConfigDir string
	Models    []microbatch.Model
}

// PlanRequest returns the configured run inputs as a plan request template.
func (c PlanningConfig) PlanRequest() v1.PlanRequest {
	return v1.PlanRequest{
		EventTimeStart: c.EventTimeStart,
		EventTimeEnd:   c.EventTimeEnd,
		FullRefresh:    c.FullRefresh,
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Database.Enabled {
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required when database.enabled is true")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
		if c.Database.Type != "" && c.Database.Type != "postgres" {
			return fmt.Errorf("unsupported database.type %q", c.Database.Type)
		}
	}

	if strings.TrimSpace(c.Models.ConfigDir) == "" {
		return fmt.Errorf("models.config_dir is required")
	}

	if c.Planning.DefaultLookback < 0 {
		return fmt.Errorf("planning.default_lookback must be >= 0")
	}
	if c.Planning.WorkerCount <= 0 {
		return fmt.Errorf("planning.worker_count must be > 0")
	}
	req := c.Planning.PlanRequest()
	if _, err := req.Parse(); err != nil {
		return fmt.Errorf("invalid planning overrides: %w", err)
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and validates model definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":               8080,
		"server.host":               "0.0.0.0",
		"server.mode":               "release",
		"database.enabled":          false,
		"database.type":             "postgres",
		"database.dsn":              "",
		"database.max_open_conns":   10,
		"database.max_idle_conns":   10,
		"database.auto_migrate":     true,
		"models.config_dir":         "./models",
		"models.require_models":     true,
		"planning.default_lookback": 1,
		"planning.worker_count":     4,
		"planning.full_refresh":     false,
		"planning.event_time_start": "",
		"planning.event_time_end":   "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// MICROBATCH_PLANNING__WORKER_COUNT=8 overrides planning.worker_count
	if err := k.Load(env.Provider("MICROBATCH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "MICROBATCH_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := microbatch.NewFileSystemModelRepository(cfg.Models.ConfigDir, cfg.Planning.DefaultLookback)
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}
	models := repo.List()
	if cfg.Models.RequireModels && len(models) == 0 {
		return nil, fmt.Errorf("no models found in %q", cfg.Models.ConfigDir)
	}

	cfg.ModelLoading = ModelLoadingConfig{
		ConfigDir: cfg.Models.ConfigDir,
		Models:    models,
	}

	return &cfg, nil
}
