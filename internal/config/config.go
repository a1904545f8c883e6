// Package config loads the topo CLI configuration file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	topoerrors "github.com/matzehuels/topo/pkg/errors"
	"github.com/matzehuels/topo/pkg/topo"
)

const appName = "topo"

// Config is the on-disk configuration.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Physics Physics `toml:"physics"`
	Demo    Demo    `toml:"demo"`
}

// Canvas sets the drawing area in pixels.
type Canvas struct {
	Width      float64 `toml:"width" validate:"gt=0"`
	Height     float64 `toml:"height" validate:"gt=0"`
	Background string  `toml:"background"`
}

// Physics overrides simulation tuning. Zero values keep engine defaults.
type Physics struct {
	ChargeStrength    float64 `toml:"charge_strength" validate:"lte=0"`
	LinkDistance      float64 `toml:"link_distance" validate:"gte=0"`
	CollideMargin     float64 `toml:"collide_margin" validate:"gte=0"`
	CollideIterations int     `toml:"collide_iterations" validate:"gte=0,lte=16"`
	VelocityDecay     float64 `toml:"velocity_decay" validate:"gte=0,lt=1"`
	DragAlphaTarget   float64 `toml:"drag_alpha_target" validate:"gte=0,lte=1"`
	Seed              int64   `toml:"seed"`
}

// Demo configures the interactive terminal host.
type Demo struct {
	FrameInterval time.Duration `toml:"frame_interval" validate:"gt=0"`
	MetricsAddr   string        `toml:"metrics_addr" validate:"omitempty,hostname_port"`
	Labels        bool          `toml:"labels"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	p := topo.DefaultPhysics()
	return &Config{
		Canvas: Canvas{Width: 600, Height: 600},
		Physics: Physics{
			ChargeStrength:    p.ChargeStrength,
			LinkDistance:      p.LinkDistance,
			CollideMargin:     p.CollideMargin,
			CollideIterations: p.CollideIterations,
			VelocityDecay:     p.VelocityDecay,
			DragAlphaTarget:   p.DragAlphaTarget,
		},
		Demo: Demo{FrameInterval: 33 * time.Millisecond},
	}
}

// Dir returns the config directory ($XDG_CONFIG_HOME/topo).
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the file at path over [Default]. An empty path reads the
// default location, where a missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return cfg, nil
			}
			return nil, topoerrors.Wrap(topoerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, err
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, topoerrors.Wrap(topoerrors.ErrCodeInvalidInput, err, "%s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, topoerrors.New(topoerrors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	return topoerrors.ValidateStruct(c)
}

// EnginePhysics converts the physics section into engine tuning.
func (c *Config) EnginePhysics() topo.Physics {
	return topo.Physics{
		ChargeStrength:    c.Physics.ChargeStrength,
		LinkDistance:      c.Physics.LinkDistance,
		CollideMargin:     c.Physics.CollideMargin,
		CollideIterations: c.Physics.CollideIterations,
		VelocityDecay:     c.Physics.VelocityDecay,
		DragAlphaTarget:   c.Physics.DragAlphaTarget,
		Seed:              c.Physics.Seed,
	}
}
