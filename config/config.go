package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/errors"
)

const appName = "placard"

var (
	homePath       string
	configHomePath string
	dataHomePath   string
	stateHomePath  string
)

type Config struct {
	// Default target language name or code for ad-hoc cards
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	// Font source, e.g. embed:goregular or a path to a TTF file
	Font       string  `yaml:"font,omitempty" json:"font,omitempty"`
	FontSize   float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`     // px
	LineHeight float64 `yaml:"lineHeight,omitempty" json:"lineHeight,omitempty"` // factor of fontSize
	Width      float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height     float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Padding    float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
	Background string  `yaml:"background,omitempty" json:"background,omitempty"` // #RRGGBB
	Color      string  `yaml:"color,omitempty" json:"color,omitempty"`           // #RRGGBB
	// Rendering backend: canvas or raster
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`
	// Fonts registers TTF files by name so cards can use them as font src.
	// Relative paths are resolved against the config directory.
	Fonts      map[string]string `yaml:"fonts,omitempty" json:"fonts,omitempty"`
	Translator Translator        `yaml:"translator,omitempty" json:"translator,omitempty"`
}

type Translator struct {
	Endpoint string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	RetryMax *int          `yaml:"retryMax,omitempty" json:"retryMax,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Default returns the built-in settings used when no config file overrides them.
func Default() *Config {
	return &Config{
		Language:   "English",
		Font:       "embed:goregular",
		FontSize:   48,
		LineHeight: 1.2,
		Width:      1080,
		Height:     1080,
		Padding:    60,
		Background: "#FFFFFF",
		Color:      "#1E1E1E",
		Backend:    "canvas",
	}
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file on top of Default().
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/placard/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/placard/config.yml
// If no config file is found, it returns the defaults.
func Load(profile string) (_ *Config, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	cfg := Default()
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			p := basePath + ext
			if b, err := os.ReadFile(p); err == nil {
				if err := yaml.Unmarshal(b, cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config %s: %w", p, err)
				}
				if err := cfg.validate(); err != nil {
					return nil, fmt.Errorf("invalid config %s: %w", p, err)
				}
				cfg.resolveFonts(filepath.Dir(p))
				return cfg, nil
			}
		}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "canvas", "raster":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size must be positive: %vx%v", c.Width, c.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("fontSize must be positive: %v", c.FontSize)
	}
	if c.Translator.RetryMax != nil && *c.Translator.RetryMax < 0 {
		return fmt.Errorf("translator.retryMax must not be negative")
	}
	for name, path := range c.Fonts {
		if name == "" || path == "" {
			return fmt.Errorf("fonts entries need both a name and a path: %q: %q", name, path)
		}
	}
	return nil
}

func (c *Config) resolveFonts(dir string) {
	for name, path := range c.Fonts {
		if !filepath.IsAbs(path) {
			c.Fonts[name] = filepath.Join(dir, path)
		}
	}
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, appName)
	} else {
		configHomePath = filepath.Join(homePath, ".config", appName)
	}
	return configHomePath
}

// DataHomePath returns the path to the data home directory.
func DataHomePath() string {
	if dataHomePath != "" {
		return dataHomePath
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dataHomePath = filepath.Join(v, appName)
	} else {
		dataHomePath = filepath.Join(homePath, ".local", "share", appName)
	}
	return dataHomePath
}

// StateHomePath returns the path to the state directory holding logs and error dumps.
func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, appName)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", appName)
	}
	return stateHomePath
}
