package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/bubblesim/internal/dynamo"
	"github.com/san-kum/bubblesim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultV0          = 0.0
	DefaultT0          = 0.0
	DefaultDt          = 1e-9
	DefaultTolerance   = 1e-5
	DefaultMaxSteps    = dynamo.DefaultMaxSteps
	DefaultStopRule    = "signed"
	DefaultPlotFormat  = "png"
	DefaultPlotWidth   = 8.0
	DefaultPlotHeight  = 6.0
	DefaultPlotDPI     = 300
	DefaultAsciiWidth  = 80
	DefaultAsciiHeight = 15
)

var ErrNoMethods = errors.New("config: at least one method is required")

type Config struct {
	Methods   []string       `yaml:"methods"`
	V0        float64        `yaml:"v0"`
	T0        float64        `yaml:"t0"`
	Dt        float64        `yaml:"dt"`
	Tolerance float64        `yaml:"tolerance"`
	MaxSteps  int            `yaml:"max_steps"`
	StopRule  string         `yaml:"stop_rule"`
	Bubble    physics.Bubble `yaml:"bubble"`
	Plot      PlotConfig     `yaml:"plot"`
}

// PlotConfig sizes are in inches for image output and in characters for
// terminal charts.
type PlotConfig struct {
	Dir         string  `yaml:"dir"`
	Format      string  `yaml:"format"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	DPI         int     `yaml:"dpi"`
	AsciiWidth  int     `yaml:"ascii_width"`
	AsciiHeight int     `yaml:"ascii_height"`
}

func DefaultConfig() *Config {
	return &Config{
		Methods:   []string{"euler", "heun", "rk4"},
		V0:        DefaultV0,
		T0:        DefaultT0,
		Dt:        DefaultDt,
		Tolerance: DefaultTolerance,
		MaxSteps:  DefaultMaxSteps,
		StopRule:  DefaultStopRule,
		Bubble:    *physics.NewBubble(),
		Plot: PlotConfig{
			Dir:         "plots",
			Format:      DefaultPlotFormat,
			Width:       DefaultPlotWidth,
			Height:      DefaultPlotHeight,
			DPI:         DefaultPlotDPI,
			AsciiWidth:  DefaultAsciiWidth,
			AsciiHeight: DefaultAsciiHeight,
		},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Params converts the run section into integrator parameters.
func (c *Config) Params() (dynamo.Params, error) {
	rule, err := dynamo.ParseStopRule(c.StopRule)
	if err != nil {
		return dynamo.Params{}, err
	}
	return dynamo.Params{
		Y0:        c.V0,
		X0:        c.T0,
		H:         c.Dt,
		Tolerance: c.Tolerance,
		MaxSteps:  c.MaxSteps,
		Rule:      rule,
	}, nil
}

func (c *Config) Validate() error {
	if len(c.Methods) == 0 {
		return ErrNoMethods
	}
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return c.Bubble.Validate()
}
