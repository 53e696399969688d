// Package config holds the layout and cutting settings. Values are read
// from a TOML file and can be overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/facesvg/pkg/relief"
)

// Units.
const (
	Inches      = "in"
	Millimetres = "mm"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "facesvg.toml"

// Config is the complete set of settings for one session.
type Config struct {
	Units           string      `toml:"units"`
	LayoutWidth     float64     `toml:"layout_width"`
	LayoutSpacing   float64     `toml:"layout_spacing"`
	PocketMax       float64     `toml:"pocket_max"`
	CutDepth        float64     `toml:"cut_depth"`
	BitDiameter     float64     `toml:"bit_diameter"`
	CornerRelief    relief.Mode `toml:"corner_relief"`
	ReliefClearance float64     `toml:"relief_clearance"`
	AutoReliefMax   float64     `toml:"auto_relief_max"`
	OutputDir       string      `toml:"output_dir,omitempty"`
}

// Defaults returns the settings for a unit. Unknown units fall back to
// inches.
func Defaults(unit string) Config {
	if unit == Millimetres {
		return Config{
			Units:           Millimetres,
			LayoutWidth:     625,
			LayoutSpacing:   15,
			PocketMax:       20,
			CutDepth:        5,
			BitDiameter:     8,
			CornerRelief:    relief.ModeNone,
			ReliefClearance: 0.25,
			AutoReliefMax:   50,
		}
	}
	return Config{
		Units:           Inches,
		LayoutWidth:     24,
		LayoutSpacing:   0.5,
		PocketMax:       0.75,
		CutDepth:        0.25,
		BitDiameter:     0.25,
		CornerRelief:    relief.ModeNone,
		ReliefClearance: 0.01,
		AutoReliefMax:   2.0,
	}
}

// ToolRadius is half the bit diameter.
func (c Config) ToolRadius() float64 {
	return c.BitDiameter / 2
}

// ReliefOptions returns the corner relief settings for the configured mode.
func (c Config) ReliefOptions() relief.Options {
	return relief.Options{
		Mode:         c.CornerRelief,
		ToolRadius:   c.ToolRadius(),
		Clearance:    c.ReliefClearance,
		MinClearance: c.ReliefClearance,
		AutoMaxSize:  c.AutoReliefMax,
	}
}

// Validate rejects settings the layout or relief code cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Units != Inches && c.Units != Millimetres {
		errs = append(errs, fmt.Errorf("units %q must be %q or %q", c.Units, Inches, Millimetres))
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"layout_width", c.LayoutWidth},
		{"layout_spacing", c.LayoutSpacing},
		{"pocket_max", c.PocketMax},
		{"cut_depth", c.CutDepth},
		{"bit_diameter", c.BitDiameter},
		{"auto_relief_max", c.AutoReliefMax},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("%s is %g, must be positive", p.name, p.v))
		}
	}
	if c.ReliefClearance < 0 {
		errs = append(errs, fmt.Errorf("relief_clearance is %g, must not be negative", c.ReliefClearance))
	}
	if c.LayoutSpacing >= c.LayoutWidth {
		errs = append(errs, fmt.Errorf("layout_spacing %g must be smaller than layout_width %g", c.LayoutSpacing, c.LayoutWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Load reads a TOML file over the defaults of the unit it names (inches
// when it names none). A missing file is an error; callers that treat the
// file as optional check errors.Is(err, fs.ErrNotExist).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the unit defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var header struct {
		Units string `toml:"units"`
	}
	if err := toml.Unmarshal(data, &header); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := Defaults(header.Units)
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
