// Package config loads the settings shared by the command line tools
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/limaJavier/coursegen/internal/logging"
	"github.com/limaJavier/coursegen/pkg/generator"
)

const (
	defaultDatabase    = "coursegen.db"
	defaultTimezone    = "America/Vancouver"
	defaultStalePolicy = "restart"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
)

// Candidate file names looked up next to the executable
var defaultFiles = []string{"config.yaml", "config.yml", "config.json"}

// Config is the top-level configuration
type Config struct {
	// Database is the SQLite file holding the catalog
	Database string `mapstructure:"database"`

	// Catalog, if set, is a JSON or CSV catalog served straight from memory instead of the database
	Catalog string `mapstructure:"catalog"`

	// Timezone is the IANA timezone meetings take place in
	Timezone string `mapstructure:"timezone"`

	// StalePolicy decides what happens to positions that no longer match the courses: restart, reconcile or fail
	StalePolicy string `mapstructure:"stalePolicy"`

	Log logging.Config `mapstructure:"log"`
}

func Default() *Config {
	config := &Config{}
	config.Normalize()
	return config
}

// Normalize fills in missing values with defaults
func (c *Config) Normalize() {
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.StalePolicy == "" {
		c.StalePolicy = defaultStalePolicy
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Validate checks the values that are parsed later on
func (c *Config) Validate() error {
	if _, err := generator.ParseStalePolicy(c.StalePolicy); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone \"%v\": %v", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Policy returns the configured stale position policy
func (c *Config) Policy() (generator.StalePolicy, error) {
	return generator.ParseStalePolicy(c.StalePolicy)
}

// Load reads a YAML or JSON (by extension) configuration file. Missing values are defaulted.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %v", err)
	}

	var configMap map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(bytes, &configMap)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &configMap)
	default:
		return nil, fmt.Errorf("unsupported config format \"%v\"", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse config file: %v", err)
	}

	config := &Config{}
	if err := mapstructure.Decode(configMap, config); err != nil {
		return nil, fmt.Errorf("cannot decode config: %v", err)
	}
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Find returns the first default config file present in dir, or the empty string
func Find(dir string) string {
	for _, name := range defaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
