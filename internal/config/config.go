// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Downloader DownloaderConfig `mapstructure:"downloader"`
}

// CatalogConfig controls where the metadata file lives and how it is viewed.
type CatalogConfig struct {
	SourcePath string `mapstructure:"source_path"`
	CoversPath string `mapstructure:"covers_path"`
	PageSize   int    `mapstructure:"page_size"`
	TopTags    int    `mapstructure:"top_tags"`
	// ReimportInterval is in minutes. 0 disables scheduled re-imports.
	ReimportInterval int  `mapstructure:"reimport_interval"`
	Watch            bool `mapstructure:"watch"`
}

// DownloaderConfig points at the external downloader executable.
type DownloaderConfig struct {
	Path          string `mapstructure:"path"`
	OutputPath    string `mapstructure:"output_path"`
	RatePerMinute int    `mapstructure:"rate_per_minute"`
}

// New returns a Viper instance with defaults, environment overrides and
// config file search paths applied. Callers may bind flags to it before
// passing it to LoadFrom.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")    // or "yaml"
	v.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// e.g., NOVELSHELF_CATALOG_SOURCE_PATH will override `catalog.source_path`.
	v.SetEnvPrefix("NOVELSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("database.path", "./novelshelf.db")
	v.SetDefault("catalog.source_path", "./novelpia_metadata.jsonl")
	v.SetDefault("catalog.covers_path", "./novelpia_covers")
	v.SetDefault("catalog.page_size", 8)
	v.SetDefault("catalog.top_tags", 30)
	v.SetDefault("catalog.reimport_interval", 0)
	v.SetDefault("catalog.watch", false)
	v.SetDefault("downloader.path", "./programs/NovelpiaDownloader")
	v.SetDefault("downloader.output_path", "./downloads")
	v.SetDefault("downloader.rate_per_minute", 6)
	return v
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	return LoadFrom(New())
}

// LoadFrom reads the config file (if any) known to v and unmarshals it.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Catalog.PageSize <= 0 {
		config.Catalog.PageSize = 8
	}
	return &config, nil
}
