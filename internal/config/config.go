package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	LogLevel         string   `mapstructure:"log_level"`
	LogFormat        string   `mapstructure:"log_format"`
	CompressionLevel string   `mapstructure:"compression_level"`
	Database         string   `mapstructure:"database"`
	Root             string   `mapstructure:"root"`
	Language         string   `mapstructure:"language"`
	Classes          []string `mapstructure:"classes"`
}

// Load reads configuration from cfgFile, or from i18npack.yaml in the home
// or working directory when cfgFile is empty. A missing default file is not
// an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("compression_level", "default")
	v.SetDefault("database", "i18npack.db")
	v.SetDefault("root", ".")
	v.SetDefault("language", LanguageEnglish)
	v.SetDefault("classes", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName("i18npack")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field; the CLI calls it again after flag overrides
func (c *Config) Validate() error {
	if err := validateLogging(c.LogLevel, c.LogFormat); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	if err := validateCompressionLevel(c.CompressionLevel); err != nil {
		return fmt.Errorf("invalid compression configuration: %w", err)
	}

	if err := validateLanguage(c.Language); err != nil {
		return fmt.Errorf("invalid language configuration: %w", err)
	}

	if err := validateClasses(c.Classes); err != nil {
		return fmt.Errorf("invalid class configuration: %w", err)
	}

	return nil
}
