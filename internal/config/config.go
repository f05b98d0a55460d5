// Package config stores CLI report preferences in a YAML file under the
// user config directory. Analysis thresholds are deliberately not here: they
// are fixed constants in the analyzer and phase packages.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

var configDirFunc = configDir

// Config holds the report preferences the commands consult.
type Config struct {
	// Format is the default output format: "text" or "json".
	Format string `yaml:"format,omitempty"`
	// Color disables ANSI colors in text output when false.
	Color *bool `yaml:"color,omitempty"`
}

func (c *Config) ResolveFormat(flag string) string {
	if flag != "" {
		return flag
	}
	if c != nil && c.Format != "" {
		return c.Format
	}
	return "text"
}

// Load reads the config file. A missing file yields an empty config.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

func Save(cfg *Config) error {
	if err := ensureConfigDir(); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}

	return nil
}

// Set updates one preference by name.
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "format":
		if value != "text" && value != "json" {
			return fmt.Errorf("invalid format %q: must be \"text\" or \"json\"", value)
		}
		cfg.Format = value
	case "color":
		b := value == "true"
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid color %q: must be \"true\" or \"false\"", value)
		}
		cfg.Color = &b
	default:
		return fmt.Errorf("unknown preference %q", key)
	}

	return Save(cfg)
}

// Unset clears one preference by name.
func Unset(key string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case "format":
		cfg.Format = ""
	case "color":
		cfg.Color = nil
	default:
		return fmt.Errorf("unknown preference %q", key)
	}

	return Save(cfg)
}

// Init writes a template config file. Refuses to overwrite unless forced.
func Init(force bool) (string, error) {
	if err := ensureConfigDir(); err != nil {
		return "", err
	}

	path, err := configPath()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
	}

	template := "# dprof report preferences\n" +
		"# format: text | json\n" +
		"format: text\n" +
		"color: true\n"

	if err := os.WriteFile(path, []byte(template), 0600); err != nil {
		return "", fmt.Errorf("writing config %s: %w", path, err)
	}

	return path, nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(base, "dprof"), nil
}

func configPath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func ensureConfigDir() error {
	dir, err := configDirFunc()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}
