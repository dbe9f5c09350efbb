// Package config loads optional per-project rvasm settings from a TOML
// file, the same way lookbusy1344's arm-emu config package loads its
// own: a struct of sane defaults, overridden field-by-field by
// whatever the file on disk actually sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds assembler defaults a project can pin in rvasm.toml
// instead of repeating on every invocation.
type Config struct {
	Assemble struct {
		Compress    bool     `toml:"compress"`
		IncludeDirs []string `toml:"include_dirs"`
	} `toml:"assemble"`

	Output struct {
		Path        string `toml:"path"`
		ListingFile string `toml:"listing_file"`
	} `toml:"output"`
}

// DefaultConfig returns a Config with rvasm's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assemble.Compress = false
	cfg.Assemble.IncludeDirs = nil
	cfg.Output.Path = "a.out"
	cfg.Output.ListingFile = ""
	return cfg
}

// GetConfigPath returns the platform-specific path rvasm.toml is
// expected at when no explicit --config flag is given.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rvasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "rvasm.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rvasm")

	default:
		return "rvasm.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "rvasm.toml"
	}

	return filepath.Join(configDir, "rvasm.toml")
}

// Load loads configuration from the default config path, falling back
// to DefaultConfig if no such file exists.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to
// DefaultConfig if path does not exist. A project-local "./rvasm.toml"
// is checked first by callers that want project settings to win over
// the user-global config; LoadFrom itself just reads one path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to path in TOML form.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
