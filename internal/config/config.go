package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Insight  InsightConfig  `yaml:"insight"`
	Engine   EngineConfig   `yaml:"engine"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

// InsightConfig points at the optional narrative-enrichment service. An
// empty URL disables enrichment entirely.
type InsightConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type EngineConfig struct {
	SweepIntervalMs int  `yaml:"sweep_interval_ms"`
	Enabled         bool `yaml:"enabled"`
}

type ScoringConfig struct {
	Weights         ScoringWeights `yaml:"weights"`
	FrontierEnabled bool           `yaml:"frontier_enabled"`
}

type ScoringWeights struct {
	ConfidenceHigh     float64 `yaml:"confidence_high"`
	ConfidenceMedium   float64 `yaml:"confidence_medium"`
	ConfidenceLow      float64 `yaml:"confidence_low"`
	ConfidenceUnset    float64 `yaml:"confidence_unset"`
	EvidenceBonus      float64 `yaml:"evidence_bonus"`
	PositiveMultiplier float64 `yaml:"positive_multiplier"`
	NegativeMultiplier float64 `yaml:"negative_multiplier"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Engine.SweepIntervalMs) * time.Millisecond
}

func (c *Config) InsightTimeout() time.Duration {
	return time.Duration(c.Insight.TimeoutMs) * time.Millisecond
}

// Policy materializes the scoring weights into a policy, keeping the
// tier cutoffs and secondary credits at their standard values.
func (c *Config) Policy() scoring.Policy {
	p := scoring.DefaultPolicy()
	w := c.Scoring.Weights
	p.ConfidenceHigh = w.ConfidenceHigh
	p.ConfidenceMedium = w.ConfidenceMedium
	p.ConfidenceLow = w.ConfidenceLow
	p.ConfidenceUnset = w.ConfidenceUnset
	p.EvidenceBonus = w.EvidenceBonus
	p.PositiveMultiplier = w.PositiveMultiplier
	p.NegativeMultiplier = w.NegativeMultiplier
	return p
}

func Load(path string) (*Config, error) {
	def := scoring.DefaultPolicy()
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Insight: InsightConfig{
			TimeoutMs: 5000,
		},
		Engine: EngineConfig{
			SweepIntervalMs: 5000,
			Enabled:         true,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				ConfidenceHigh:     def.ConfidenceHigh,
				ConfidenceMedium:   def.ConfidenceMedium,
				ConfidenceLow:      def.ConfidenceLow,
				ConfidenceUnset:    def.ConfidenceUnset,
				EvidenceBonus:      def.EvidenceBonus,
				PositiveMultiplier: def.PositiveMultiplier,
				NegativeMultiplier: def.NegativeMultiplier,
			},
			FrontierEnabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMPASS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("COMPASS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("COMPASS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("COMPASS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("COMPASS_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("COMPASS_INSIGHT_URL"); v != "" {
		cfg.Insight.URL = v
	}
	if v := os.Getenv("COMPASS_SWEEP_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.SweepIntervalMs = n
		}
	}
	if v := os.Getenv("COMPASS_ENGINE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.Enabled = b
		}
	}
	if v := os.Getenv("COMPASS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
