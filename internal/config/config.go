// Package config loads outbreak scenarios from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Outbreak/internal/sim"
)

// EnvConfigPath names the scenario file when no path is given.
const EnvConfigPath = "OUTBREAK_CONFIG"

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Config is the root of a scenario file.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Run     RunConfig     `yaml:"run"`
	Display DisplayConfig `yaml:"display"`
	Audio   AudioConfig   `yaml:"audio"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type WorldConfig struct {
	Entities           int     `yaml:"entities"`
	CopFraction        float64 `yaml:"cop_fraction"`
	InfectedFraction   float64 `yaml:"infected_fraction"`
	IncubatingFraction float64 `yaml:"incubating_fraction"`
	Seed               int64   `yaml:"seed"`
	CopLineOfSight     bool    `yaml:"cop_line_of_sight"`
	VerboseLog         bool    `yaml:"verbose_log"`
}

type RunConfig struct {
	TickRate    int `yaml:"tick_rate"`    // simulation ticks per second
	MaxTicks    int `yaml:"max_ticks"`    // headless stop condition
	Runs        int `yaml:"runs"`         // headless seeds to sweep
	ReportEvery int `yaml:"report_every"` // ticks between reporter samples
}

type DisplayConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Zoom   float64 `yaml:"zoom"` // pixels per metre
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"` // 0..1
	SampleRate int     `yaml:"sample_rate"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// GetAddr returns the metrics listen address: config, then
// OUTBREAK_METRICS_ADDR, then empty (disabled).
func (m *MetricsConfig) GetAddr() string {
	if m.Addr != "" {
		return m.Addr
	}
	return os.Getenv("OUTBREAK_METRICS_ADDR")
}

// GetTickRate returns the tick rate with OUTBREAK_TICK_RATE as fallback.
func (r *RunConfig) GetTickRate() int {
	if r.TickRate > 0 {
		return r.TickRate
	}
	if v := os.Getenv("OUTBREAK_TICK_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 60
}

// Default returns the built-in scenario.
func Default() *Config {
	g := sim.DefaultGenConfig()
	return &Config{
		World: WorldConfig{
			Entities:         g.Entities,
			CopFraction:      g.CopFraction,
			InfectedFraction: g.InfectedFraction,
			Seed:             g.Seed,
		},
		Run: RunConfig{
			TickRate:    60,
			MaxTicks:    3600,
			Runs:        1,
			ReportEvery: 60,
		},
		Display: DisplayConfig{Width: 1280, Height: 720, Zoom: 8},
		Audio:   AudioConfig{Enabled: true, Volume: 0.5, SampleRate: 44100},
	}
}

// Load reads a YAML scenario on top of Default. An empty path falls back to
// $OUTBREAK_CONFIG; with neither set the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section. Population errors from the generator are
// reported too, wrapped in ErrInvalidScenario.
func (c *Config) Validate() error {
	if _, err := c.GenConfig().Population(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	switch {
	case c.Run.TickRate < 0:
		return fmt.Errorf("%w: tick_rate %d is negative", ErrInvalidScenario, c.Run.TickRate)
	case c.Run.MaxTicks < 0:
		return fmt.Errorf("%w: max_ticks %d is negative", ErrInvalidScenario, c.Run.MaxTicks)
	case c.Run.Runs < 0:
		return fmt.Errorf("%w: runs %d is negative", ErrInvalidScenario, c.Run.Runs)
	case c.Display.Zoom < 0:
		return fmt.Errorf("%w: zoom %.2f is negative", ErrInvalidScenario, c.Display.Zoom)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: volume %.2f outside [0,1]", ErrInvalidScenario, c.Audio.Volume)
	}
	return nil
}

// GenConfig converts the world section for sim.Generate.
func (c *Config) GenConfig() sim.GenConfig {
	return sim.GenConfig{
		Entities:           c.World.Entities,
		CopFraction:        c.World.CopFraction,
		InfectedFraction:   c.World.InfectedFraction,
		IncubatingFraction: c.World.IncubatingFraction,
		Seed:               c.World.Seed,
		CopLineOfSight:     c.World.CopLineOfSight,
		VerboseLog:         c.World.VerboseLog,
	}
}

// TickDT is the fixed step length in seconds.
func (c *Config) TickDT() float64 {
	return 1 / float64(c.Run.GetTickRate())
}

// Marshal renders the config back to YAML, e.g. to write a template.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
