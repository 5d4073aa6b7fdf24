// Package config loads pipeline settings from TOML files.
//
// A pipeline file has one table per stage:
//
//	[detect]
//	background_mode = "white"
//	method = "hybrid"
//
//	[mask]
//	mode = "merge_close_lines"
//
//	[centerline]
//	algorithm = "ridge"
//
//	[paths]
//	merge_distance = 2.0
//
// Keys that are absent keep their stage defaults. Unknown keys are rejected
// so that typos do not silently fall back to a default.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ironsheep/lineart-vectorizer/internal/centerline"
	"github.com/ironsheep/lineart-vectorizer/internal/detection"
	"github.com/ironsheep/lineart-vectorizer/internal/maskclean"
	"github.com/ironsheep/lineart-vectorizer/internal/pathclean"
)

// Config holds the options of every pipeline stage.
type Config struct {
	Detect     detection.Options  `toml:"detect"`
	Mask       maskclean.Options  `toml:"mask"`
	Centerline centerline.Options `toml:"centerline"`
	Paths      pathclean.Options  `toml:"paths"`
}

// Default returns the defaults of every stage.
func Default() Config {
	return Config{
		Detect:     detection.DefaultOptions(),
		Mask:       maskclean.DefaultOptions(),
		Centerline: centerline.DefaultOptions(),
		Paths:      pathclean.DefaultOptions(),
	}
}

// Load reads a pipeline file and overlays it on Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every stage.
func (c Config) Validate() error {
	if err := c.Detect.Validate(); err != nil {
		return fmt.Errorf("[detect] %w", err)
	}
	if err := c.Mask.Validate(); err != nil {
		return fmt.Errorf("[mask] %w", err)
	}
	if err := c.Centerline.Validate(); err != nil {
		return fmt.Errorf("[centerline] %w", err)
	}
	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("[paths] %w", err)
	}
	return nil
}

// WithLogger returns a copy of c whose stages log to l.
func (c Config) WithLogger(l *log.Logger) Config {
	c.Detect.Logger = l
	c.Mask.Logger = l
	c.Centerline.Logger = l
	c.Paths.Logger = l
	return c
}

// Write encodes c as a pipeline file.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
