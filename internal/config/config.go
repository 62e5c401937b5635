// Package config loads CLI configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for Graft configuration.
const envPrefix = "GRAFT"

// Config holds the resolved CLI configuration.
type Config struct {
	// CacheDir is the pretrained weight cache (GRAFT_CACHE_DIR).
	CacheDir string `mapstructure:"cacheDir"`

	// HubURL is the weight registry base URL (GRAFT_HUB_URL).
	HubURL string `mapstructure:"hubURL"`

	// Verbose enables debug logging (GRAFT_VERBOSE).
	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfigFile returns the default config file path (~/.graft/config.yaml).
func DefaultConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".graft", "config.yaml"), nil
}

// Load reads configuration from the given file, falling back to the default
// path when empty. A missing file is not an error; environment variables
// take precedence over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("cacheDir", "GRAFT_CACHE_DIR")
	_ = v.BindEnv("hubURL", "GRAFT_HUB_URL")
	_ = v.BindEnv("verbose", "GRAFT_VERBOSE")

	if configFile == "" {
		var err error
		configFile, err = DefaultConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
