// Package config loads the TOML run configuration for the planet
// simulation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Planet     PlanetConfig     `toml:"planet"`
	Simulation SimulationConfig `toml:"simulation"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
	Logging    LoggingConfig    `toml:"logging"`
}

type PlanetConfig struct {
	SubdivisionDepth int     `toml:"subdivision_depth"`
	Radius           float32 `toml:"radius"`        // km
	Seed             int64   `toml:"seed"`          // 0 = fixed default
	SeaLevel         float32 `toml:"sea_level"`     // km
	MaxElevation     float32 `toml:"max_elevation"` // km
}

type SimulationConfig struct {
	TickInterval     time.Duration `toml:"tick_interval"`
	Speed            float64       `toml:"speed"`
	TimeScale        float32       `toml:"time_scale"`
	SolarConstant    float32       `toml:"solar_constant"`
	Conductivity     float32       `toml:"conductivity"`
	DayLength        float32       `toml:"day_length"` // game seconds per revolution
	InitialLifeforms int           `toml:"initial_lifeforms"`
	LifeSeed         int64         `toml:"life_seed"`
}

type SnapshotConfig struct {
	Path       string `toml:"path"`
	EveryTicks uint64 `toml:"every_ticks"` // 0 disables periodic snapshots
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns a configuration that runs a mid-size planet at real time.
func Default() *Config {
	return &Config{
		Planet: PlanetConfig{
			SubdivisionDepth: 5,
			Radius:           6371,
			Seed:             42,
			SeaLevel:         5.0,
			MaxElevation:     10.0,
		},
		Simulation: SimulationConfig{
			TickInterval:     50 * time.Millisecond,
			Speed:            1.0,
			TimeScale:        20,
			SolarConstant:    1361,
			Conductivity:     2.5e5,
			DayLength:        1200,
			InitialLifeforms: 12,
			LifeSeed:         1,
		},
		Snapshot: SnapshotConfig{
			Path:       "data/planet.db",
			EveryTicks: 1200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Planet.SubdivisionDepth < 0 || c.Planet.SubdivisionDepth > 8 {
		return fmt.Errorf("subdivision_depth %d out of range [0, 8]", c.Planet.SubdivisionDepth)
	}
	if c.Planet.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %f", c.Planet.Radius)
	}
	if c.Simulation.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.Simulation.TickInterval)
	}
	if c.Simulation.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %f", c.Simulation.TimeScale)
	}
	return nil
}

// SlogLevel maps the configured level name onto a slog level, defaulting
// to info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
