/*
Package config manages the TOML config for reelserve.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Supported wire encodings for server mode.
const (
	EncodingMsgpack = "msgpack"
	EncodingJSON    = "json"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	Cache  CacheConfig  `toml:"cache"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	Encoding          string `toml:"encoding"`
	MinPrefix         int    `toml:"min_prefix"`
	MaxPrefix         int    `toml:"max_prefix"`
	ResponseCacheSize int    `toml:"response_cache_size"`
}

// IndexConfig holds dataset options.
type IndexConfig struct {
	DataFile               string `toml:"data_file"`
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`
}

// CacheConfig holds feed cache options.
type CacheConfig struct {
	FeedTTLSeconds       int `toml:"feed_ttl_seconds"`
	CleanIntervalSeconds int `toml:"clean_interval_seconds"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultMinLen int `toml:"default_min_len"`
	DefaultMaxLen int `toml:"default_max_len"`
}

// RefreshInterval is how often the server rebuilds. Zero disables refreshing.
func (c IndexConfig) RefreshInterval() time.Duration {
	return seconds(c.RefreshIntervalSeconds)
}

// FeedTTL is how long fetched records stay cached.
func (c CacheConfig) FeedTTL() time.Duration {
	return seconds(c.FeedTTLSeconds)
}

// CleanInterval is how often expired feed entries are swept.
func (c CacheConfig) CleanInterval() time.Duration {
	return seconds(c.CleanIntervalSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Encoding:          EncodingMsgpack,
			MinPrefix:         1,
			MaxPrefix:         60,
			ResponseCacheSize: 100,
		},
		Index: IndexConfig{
			DataFile:               "data/films.json",
			RefreshIntervalSeconds: 0,
		},
		Cache: CacheConfig{
			FeedTTLSeconds:       864000,
			CleanIntervalSeconds: 3600,
		},
		CLI: CliConfig{
			DefaultMinLen: 1,
			DefaultMaxLen: 60,
		},
	}
}

// Validate reports the first setting that cannot be served.
func (c *Config) Validate() error {
	switch c.Server.Encoding {
	case EncodingMsgpack, EncodingJSON:
	default:
		return fmt.Errorf("unknown encoding %q", c.Server.Encoding)
	}
	if c.Server.MinPrefix < 0 || c.Server.MaxPrefix < c.Server.MinPrefix {
		return fmt.Errorf("invalid prefix bounds [%d, %d]", c.Server.MinPrefix, c.Server.MaxPrefix)
	}
	if c.CLI.DefaultMinLen < 0 || c.CLI.DefaultMaxLen < c.CLI.DefaultMinLen {
		return fmt.Errorf("invalid cli bounds [%d, %d]", c.CLI.DefaultMinLen, c.CLI.DefaultMaxLen)
	}
	if c.Index.DataFile == "" {
		return fmt.Errorf("index.data_file is empty")
	}
	return nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/reelserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that fails validation is
// replaced by defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	if err := config.Validate(); err != nil {
		log.Warnf("Invalid config in %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// tryPartialParse keeps every value that still has the right type and
// leaves the rest at their defaults.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		extractCacheConfig(section, &config.Cache)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if err := config.Validate(); err != nil {
		log.Warnf("Recovered config from %s is invalid: %v. Using all defaults.", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		server.Encoding = val
	}
	if val, ok := utils.ExtractInt64(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "response_cache_size"); ok {
		server.ResponseCacheSize = val
	}
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractString(data, "data_file"); ok {
		index.DataFile = val
	}
	if val, ok := utils.ExtractInt64(data, "refresh_interval_seconds"); ok {
		index.RefreshIntervalSeconds = val
	}
}

func extractCacheConfig(data map[string]any, c *CacheConfig) {
	if val, ok := utils.ExtractInt64(data, "feed_ttl_seconds"); ok {
		c.FeedTTLSeconds = val
	}
	if val, ok := utils.ExtractInt64(data, "clean_interval_seconds"); ok {
		c.CleanIntervalSeconds = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
