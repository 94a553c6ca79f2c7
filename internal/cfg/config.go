package cfg

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Version is the current version of the application. Set at compile time for production builds using ldflags.
var Version = "development"

//go:embed default-config.json
var defaultConfig embed.FS

const (
	configFileName   = "config.json"
	patternsFileName = "patterns.ini"
)

// Config stores and manages the configuration for the application.
// Although all fields are public, this is only for use by the JSON marshaller.
// All access to the Config should be done through the exported methods.
type Config struct {
	sync.RWMutex

	Storage struct {
		// PatternsFile overrides the default location of the patterns file.
		PatternsFile string `json:"patternsFile"`
	} `json:"storage"`
	Logging struct {
		ToFile bool `json:"toFile"`
	} `json:"logging"`

	// path is the location the config is saved to.
	path string
	// dataDir is the directory the patterns file is stored in by default.
	dataDir string
	// firstLaunch is true if the application is being run for the first time.
	firstLaunch bool
}

// NewConfig loads the config from the platform config directory, creating it from the embedded default on first launch.
func NewConfig() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}
	dataDir, err := getDataDir()
	if err != nil {
		return nil, fmt.Errorf("get data dir: %w", err)
	}

	return Load(filepath.Join(configDir, configFileName), dataDir)
}

// Load loads the config stored at path. dataDir is the directory the patterns file defaults to.
func Load(path, dataDir string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	c := &Config{
		path:    path,
		dataDir: dataDir,
	}

	configData, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		configData, err = defaultConfig.ReadFile("default-config.json")
		if err != nil {
			return nil, fmt.Errorf("read default config file: %w", err)
		}
		if err := os.WriteFile(path, configData, 0644); err != nil {
			return nil, fmt.Errorf("write config file: %w", err)
		}
		c.firstLaunch = true
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(configData, c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return c, nil
}

// Save saves the config to disk.
// It is not thread-safe, and should only be called if the caller has
// a lock on the config.
func (c *Config) Save() error {
	configData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, configData, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// GetPatternsFile returns the path of the patterns file.
func (c *Config) GetPatternsFile() string {
	c.RLock()
	defer c.RUnlock()

	if c.Storage.PatternsFile != "" {
		return c.Storage.PatternsFile
	}
	return filepath.Join(c.dataDir, patternsFileName)
}

// SetPatternsFile sets the path of the patterns file. An empty path restores the default.
func (c *Config) SetPatternsFile(path string) error {
	c.Lock()
	defer c.Unlock()

	c.Storage.PatternsFile = path
	if err := c.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// GetLogToFile returns whether logs are written to a rotated file in addition to stderr.
func (c *Config) GetLogToFile() bool {
	c.RLock()
	defer c.RUnlock()

	return c.Logging.ToFile
}

// IsFirstLaunch returns true if the config was created by this run.
func (c *Config) IsFirstLaunch() bool {
	return c.firstLaunch
}
