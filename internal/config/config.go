// Package config provides Viper-based configuration loading for the
// wasteland simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig names the directories game data is loaded from.
type ContentConfig struct {
	// EffectsDir holds effect type YAML files.
	EffectsDir string `mapstructure:"effects_dir"`
	// MonstersDir holds monster, NPC and player template YAML files.
	MonstersDir string `mapstructure:"monsters_dir"`
	// ScriptsDir holds Lua hook scripts. Empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// SimulationConfig controls a headless simulation run.
type SimulationConfig struct {
	// Seed fixes the dice stream. Zero draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// Turns is the number of turns to simulate.
	Turns int `mapstructure:"turns"`
	// ScriptInstructionLimit bounds every outermost Lua hook call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
	// TurretRange is the auto-targeting range of the mounted turret.
	TurretRange int `mapstructure:"turret_range"`
	// TurretArea is the blast radius of the turret's ammunition.
	TurretArea int `mapstructure:"turret_area"`
}

// MemorialConfig controls where and how memorial entries are persisted.
type MemorialConfig struct {
	// Backend is "postgres", "sqlite" or "none".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
	// BufferSize is the journal channel capacity and batch size.
	BufferSize int `mapstructure:"buffer_size"`
	// FlushInterval is the longest an entry waits before being written.
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Memorial   MemorialConfig   `mapstructure:"memorial"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Memorial.Backend == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMemorial(c.Memorial); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.EffectsDir == "" {
		errs = append(errs, "content.effects_dir must not be empty")
	}
	if c.MonstersDir == "" {
		errs = append(errs, "content.monsters_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Turns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.turns must be >= 1, got %d", s.Turns))
	}
	if s.ScriptInstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("simulation.script_instruction_limit must be >= 1, got %d", s.ScriptInstructionLimit))
	}
	if s.TurretRange < 1 {
		errs = append(errs, fmt.Sprintf("simulation.turret_range must be >= 1, got %d", s.TurretRange))
	}
	if s.TurretArea < 0 {
		errs = append(errs, fmt.Sprintf("simulation.turret_area must be >= 0, got %d", s.TurretArea))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMemorial(m MemorialConfig) error {
	var errs []string
	switch m.Backend {
	case "postgres", "none":
	case "sqlite":
		if m.SQLitePath == "" {
			errs = append(errs, "memorial.sqlite_path must not be empty for the sqlite backend")
		}
	default:
		return fmt.Errorf("memorial.backend must be one of [postgres, sqlite, none], got %q", m.Backend)
	}
	if m.BufferSize < 1 {
		errs = append(errs, fmt.Sprintf("memorial.buffer_size must be >= 1, got %d", m.BufferSize))
	}
	if m.FlushInterval <= 0 {
		errs = append(errs, "memorial.flush_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with WASTELAND_ prefix
	v.SetEnvPrefix("WASTELAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "wasteland")
	v.SetDefault("database.password", "wasteland")
	v.SetDefault("database.name", "wasteland")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.scripts_dir", "content/scripts")

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.turns", 20)
	v.SetDefault("simulation.script_instruction_limit", 100000)
	v.SetDefault("simulation.turret_range", 30)
	v.SetDefault("simulation.turret_area", 0)

	v.SetDefault("memorial.backend", "none")
	v.SetDefault("memorial.sqlite_path", "wasteland.db")
	v.SetDefault("memorial.buffer_size", 64)
	v.SetDefault("memorial.flush_interval", "1s")
}
