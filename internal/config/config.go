package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/blocksim/internal/dynamo"
)

const (
	DefaultDt           = 0.01
	DefaultDuration     = 10.0
	DefaultFinalTime    = 40.0
	DefaultPoints       = 200
	DefaultSamplePeriod = 0.1
	DefaultAddr         = ":8080"
	DefaultCORSOrigin   = "*"
	DefaultMaxSteps     = 1_000_000
	DefaultDataDir      = ".blocksim"
	DefaultLogLevel     = "info"

	// MinStep is the smallest accepted step size or horizon.
	MinStep = 1e-6
)

type Config struct {
	DataDir    string              `yaml:"data_dir"`
	LogLevel   string              `yaml:"log_level"`
	Simulation SimulationConfig    `yaml:"simulation"`
	Solver     dynamo.SolverConfig `yaml:"solver"`
	Server     ServerConfig        `yaml:"server"`
}

type SimulationConfig struct {
	Dt           float64 `yaml:"dt"`
	Duration     float64 `yaml:"duration"`
	FinalTime    float64 `yaml:"t_final"`
	Points       int     `yaml:"n_points"`
	SamplePeriod float64 `yaml:"ts"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
	// MaxSteps caps floor(duration/dt) per request.
	MaxSteps int `yaml:"max_steps"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Simulation: SimulationConfig{
			Dt:           DefaultDt,
			Duration:     DefaultDuration,
			FinalTime:    DefaultFinalTime,
			Points:       DefaultPoints,
			SamplePeriod: DefaultSamplePeriod,
		},
		Solver: dynamo.DefaultSolverConfig(),
		Server: ServerConfig{
			Addr:       DefaultAddr,
			CORSOrigin: DefaultCORSOrigin,
			MaxSteps:   DefaultMaxSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Sim returns the engine config for the simulation section, with dt and
// duration passed through Sanitize.
func (c *Config) Sim() dynamo.Config {
	return dynamo.Config{
		Dt:       Sanitize(c.Simulation.Dt, DefaultDt),
		Duration: Sanitize(c.Simulation.Duration, DefaultDuration),
		Solver:   c.Solver.WithDefaults(),
	}
}

// Sanitize maps a missing (zero or NaN) value to def and clamps the rest
// to at least MinStep.
func Sanitize(v, def float64) float64 {
	if v == 0 || math.IsNaN(v) {
		v = def
	}
	return math.Max(MinStep, v)
}
