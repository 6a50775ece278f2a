package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// LocalConfigFile is read from the working directory before the user config
const LocalConfigFile = "config.cfg"

// Config represents the application configuration
type Config struct {
	OpponentRefreshRate int    `toml:"opponent_refresh_rate"` // Mirror view poll interval in milliseconds
	Catalog             string `toml:"catalog"`               // Card list, id,name[,category]
	CardImageDir        string `toml:"card_image_dir"`        // <id>.png card images
	ResourceDir         string `toml:"resource_dir"`          // Card backs, playmats, fallback images
	DeckDir             string `toml:"deck_dir"`              // Default directory for deck files
	SaveDir             string `toml:"save_dir"`              // Default directory for board saves
	BoardWidth          int    `toml:"board_width"`
	BoardHeight         int    `toml:"board_height"`
	HandThreshold       int    `toml:"hand_threshold"`   // Cards below this y are hidden from the opponent
	RevealOnReturn      bool   `toml:"reveal_on_return"` // Cards put back into the deck count as revealed
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		OpponentRefreshRate: 120,
		Catalog:             "CardList.csv",
		CardImageDir:        "card-img",
		ResourceDir:         "resource",
		DeckDir:             "deck",
		SaveDir:             "save",
		BoardWidth:          960,
		BoardHeight:         720,
		HandThreshold:       440,
		RevealOnReturn:      true,
	}
}

// RefreshInterval returns the mirror refresh period
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.OpponentRefreshRate) * time.Millisecond
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the user config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "myriad", "config.toml")
}

// GetDataDir returns the directory for decks and saves when no local
// directory exists
func GetDataDir() string {
	return filepath.Join(GetXDGDataHome(), "myriad")
}

// Load finds and decodes the configuration.
//
// ./config.cfg wins over the user config. A missing or unreadable file is
// not an error: defaults are used and a warning is returned instead.
// Keys absent from the file keep their default values.
func Load() (*Config, []string) {
	for _, path := range []string{LocalConfigFile, GetConfigFilePath()} {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return Default(), []string{fmt.Sprintf("%s not found, using defaults (refresh rate %dms)", LocalConfigFile, Default().OpponentRefreshRate)}
}

// LoadFile decodes the config at path on top of the defaults
func LoadFile(path string) (*Config, []string) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return Default(), []string{fmt.Sprintf("error reading %s: %v, using defaults", path, err)}
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %s", path, key))
	}
	warnings = append(warnings, cfg.sanitize()...)
	return cfg, warnings
}

// sanitize replaces unusable values with defaults
func (c *Config) sanitize() []string {
	var warnings []string
	d := Default()
	if c.OpponentRefreshRate <= 0 {
		warnings = append(warnings, fmt.Sprintf("opponent_refresh_rate must be positive, using %d", d.OpponentRefreshRate))
		c.OpponentRefreshRate = d.OpponentRefreshRate
	}
	if c.BoardWidth <= 0 || c.BoardHeight <= 0 {
		warnings = append(warnings, fmt.Sprintf("board size must be positive, using %dx%d", d.BoardWidth, d.BoardHeight))
		c.BoardWidth, c.BoardHeight = d.BoardWidth, d.BoardHeight
	}
	return warnings
}

// Init writes the default config to the user config path unless one
// already exists, and returns the path
func Init() (string, error) {
	configPath := GetConfigFilePath()
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}
	if err := Save(configPath, Default()); err != nil {
		return "", err
	}
	return configPath, nil
}

// Save encodes cfg as TOML to path
func Save(path string, cfg *Config) error {
	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// ResolveDir returns dir if it exists relative to the working directory,
// otherwise the same name under the data directory
func ResolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return filepath.Join(GetDataDir(), dir)
}
