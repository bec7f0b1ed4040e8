package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultPaths are searched in order by LoadAppConfig.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// LoadAppConfig loads the first config file found in DefaultPaths into Config.
// A missing file is not an error: defaults and environment overrides still apply.
func LoadAppConfig() error {
	var data []byte
	for _, p := range DefaultPaths {
		b, err := os.ReadFile(p)
		if err == nil {
			data = b
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", p, err)
		}
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load reads and validates one config file.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides, validates and fills defaults.
// Empty input yields the default configuration.
func Parse(data []byte) (AppConfig, error) {
	cfg := AppConfig{Simulator: SimulatorConfig{MoveProbability: defaultMoveProbability}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("env overrides: %w", err)
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	applyDefaults(&cfg)
	if cfg.Simulator.HistoryEndHour <= cfg.Simulator.HistoryStartHour {
		return AppConfig{}, fmt.Errorf("invalid config: historyEndHour %d must be after historyStartHour %d",
			cfg.Simulator.HistoryEndHour, cfg.Simulator.HistoryStartHour)
	}
	return cfg, nil
}

// defaultMoveProbability is seeded before decoding so an explicit 0 survives.
const defaultMoveProbability = 0.5

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16181
	}
	if cfg.Simulator.IntervalMS == 0 {
		cfg.Simulator.IntervalMS = 3000
	}
	if cfg.Simulator.StepDegrees == 0 {
		cfg.Simulator.StepDegrees = 0.01
	}
	if cfg.Simulator.HistoryStartHour == 0 && cfg.Simulator.HistoryEndHour == 0 {
		cfg.Simulator.HistoryStartHour = 9
		cfg.Simulator.HistoryEndHour = 12
	}
	if cfg.Simulator.HistoryStepMin == 0 {
		cfg.Simulator.HistoryStepMin = 5
	}
	if cfg.Playback.BaseSteps == 0 {
		cfg.Playback.BaseSteps = 60
	}
	if cfg.Playback.FrameIntervalMS == 0 {
		cfg.Playback.FrameIntervalMS = 16
	}
	if len(cfg.Playback.Speeds) == 0 {
		cfg.Playback.Speeds = []float64{0.5, 1, 2, 3}
	}
	if cfg.Geocoder.TimeoutMS == 0 {
		cfg.Geocoder.TimeoutMS = 5000
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "salestrack/1.0"
	}
	if len(cfg.Agents) == 0 {
		cfg.Agents = DefaultAgents()
	}
}

// DefaultAgents are the four field agents tracked out of the box.
func DefaultAgents() []AgentConfig {
	return []AgentConfig{
		{ID: 1, Name: "Raj", Lat: 23.0225, Lng: 72.5714},
		{ID: 2, Name: "Harsh", Lat: 19.076, Lng: 72.8777},
		{ID: 3, Name: "Chandani", Lat: 28.7041, Lng: 77.1025},
		{ID: 4, Name: "HK", Lat: 22.3039, Lng: 70.8022},
	}
}

// SpeedAllowed reports whether speed is one of the configured playback speeds.
func (c PlaybackConfig) SpeedAllowed(speed float64) bool {
	for _, s := range c.Speeds {
		if s == speed {
			return true
		}
	}
	return false
}
