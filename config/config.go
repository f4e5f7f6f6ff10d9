package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/DaniruKun/grid-motion/motion"
)

// Config holds runtime configuration for motion analysis, frame selection and
// visualization. Fields may be loaded from a JSON file and overridden by
// command-line flags.
type Config struct {
	// Motion estimation; the fields are inlined in the JSON document.
	motion.Config
	Workers int `json:"workers"`

	// Video processing
	FrameSkip  int `json:"frame_skip"`  // process every nth frame
	MaxFrames  int `json:"max_frames"`  // 0 processes the whole stream
	SkipFrames int `json:"skip_frames"` // frames dropped before processing

	// Visualization
	ShowMotionVectors    bool    `json:"show_motion_vectors"`
	ShowGridLines        bool    `json:"show_grid_lines"`
	ColorCodeMotion      bool    `json:"color_code_motion"`
	VectorScale          float64 `json:"vector_scale"`
	ShowCompass          bool    `json:"show_compass"`
	ShowOverallDirection bool    `json:"show_overall_direction"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Config:  motion.DefaultConfig(),
		Workers: 1,

		FrameSkip:  1,
		MaxFrames:  0,
		SkipFrames: 0,

		ShowMotionVectors:    false,
		ShowGridLines:        true,
		ColorCodeMotion:      true,
		VectorScale:          3.0,
		ShowCompass:          false,
		ShowOverallDirection: true,
	}
}

// Motion returns the estimator settings.
func (c *Config) Motion() motion.Config { return c.Config }

// Validate rejects invalid motion settings with a *motion.ConfigError and
// clamps video and visualization values to safe ranges.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.FrameSkip < 1 {
		c.FrameSkip = 1
	}
	if c.MaxFrames < 0 {
		c.MaxFrames = 0
	}
	if c.SkipFrames < 0 {
		c.SkipFrames = 0
	}
	if c.VectorScale <= 0 {
		c.VectorScale = 3.0
	}
	return nil
}

// Load reads configuration from the given JSON file path. If the file does
// not exist it returns DefaultConfig(). Decode and validation errors are
// returned alongside the partially loaded config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
