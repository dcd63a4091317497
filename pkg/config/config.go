// Package config loads the Curtain TOML configuration file.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	"github.com/ChrisMcGann/Curtain/pkg/source"
)

// StoreConfig names the settings store and the record within it.
type StoreConfig struct {
	DSN string `toml:"dsn"`
	Key string `toml:"key"`
}

// Config is the on-disk configuration. Unset optional values leave the
// stored settings untouched; command-line flags override everything here.
type Config struct {
	LogLevel string `toml:"log_level"`

	Raw          core.RawForm          `toml:"raw"`
	Differential core.DifferentialForm `toml:"differential"`
	Store        StoreConfig           `toml:"store"`
	S3           source.S3Config       `toml:"s3"`

	Palette          []string `toml:"palette,omitempty"`
	PCutoff          *float64 `toml:"p_cutoff,omitempty"`
	Log2FCCutoff     *float64 `toml:"log2fc_cutoff,omitempty"`
	BackgroundGrey   *bool    `toml:"background_grey,omitempty"`
	PlotTitle        string   `toml:"plot_title,omitempty"`
	CustomTextColumn string   `toml:"custom_text_column,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store:    StoreConfig{DSN: "curtain.db", Key: "default"},
		Differential: core.DifferentialForm{
			TransformSignificance: true,
		},
	}
}

// Load reads path over Default. An empty path returns Default. Keys that
// do not map to a field are reported as an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Apply returns s with the display options set in c.
func (c Config) Apply(s core.Settings) core.Settings {
	s = s.Clone()
	if len(c.Palette) > 0 {
		s.DefaultPalette = append([]string(nil), c.Palette...)
	}
	if c.PCutoff != nil {
		s.PCutoff = *c.PCutoff
	}
	if c.Log2FCCutoff != nil {
		s.Log2FCCutoff = *c.Log2FCCutoff
	}
	if c.BackgroundGrey != nil {
		s.BackgroundGrey = *c.BackgroundGrey
	}
	if c.PlotTitle != "" {
		s.PlotTitle = c.PlotTitle
	}
	if c.CustomTextColumn != "" {
		s.CustomVolcanoTextCol = c.CustomTextColumn
	}
	return s
}
