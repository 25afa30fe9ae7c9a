/*
Package config manages TOML config for the name analytics services.
*/
package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Recommend RecommendConfig `toml:"recommend"`
	CLI       CliConfig       `toml:"cli"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQueryLen int `toml:"max_query_len"`
}

// DataConfig locates the ingested dataset.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// RecommendConfig holds recommendation options.
type RecommendConfig struct {
	ProviderTimeoutMs int `toml:"provider_timeout_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int    `toml:"default_limit"`
	DefaultSort  string `toml:"default_sort"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:    64,
			MaxQueryLen: 60,
		},
		Data: DataConfig{
			Dir: "data/",
		},
		Recommend: RecommendConfig{
			ProviderTimeoutMs: 8000,
		},
		CLI: CliConfig{
			DefaultLimit: 15,
			DefaultSort:  "popularity",
		},
	}
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to salvage valid sections from a broken TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dataSection, ok := utils.ExtractSection(tempConfig, "data"); ok {
		extractDataConfig(dataSection, &config.Data)
	}
	if recSection, ok := utils.ExtractSection(tempConfig, "recommend"); ok {
		extractRecommendConfig(recSection, &config.Recommend)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
}

// extractDataConfig extracts dataset configuration from a map
func extractDataConfig(data map[string]any, dataCfg *DataConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		dataCfg.Dir = val
	}
}

// extractRecommendConfig extracts recommendation config from a map
func extractRecommendConfig(data map[string]any, rec *RecommendConfig) {
	if val, ok := utils.ExtractInt64(data, "provider_timeout_ms"); ok {
		rec.ProviderTimeoutMs = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractString(data, "default_sort"); ok {
		cli.DefaultSort = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server config values and saves to file
func (c *Config) Update(configPath string, maxLimit, maxQueryLen *int) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if maxQueryLen != nil {
		c.Server.MaxQueryLen = *maxQueryLen
	}
	return SaveConfig(c, configPath)
}
