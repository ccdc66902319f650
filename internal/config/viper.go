// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/speech-expense/internal/parsererror"
	"fjacquet/speech-expense/internal/speechparser"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SPEECH"

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig controls batch input and output files.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// CategoriesConfig locates the category list.
type CategoriesConfig struct {
	File          string `mapstructure:"file" yaml:"file"`
	IncludeHidden bool   `mapstructure:"include_hidden" yaml:"include_hidden"`
}

// ParserConfig tunes the speech parser.
type ParserConfig struct {
	SubcategoryThreshold float64 `mapstructure:"subcategory_threshold" yaml:"subcategory_threshold"`
	CategoryThreshold    float64 `mapstructure:"category_threshold" yaml:"category_threshold"`
	AmbiguityGap         float64 `mapstructure:"ambiguity_gap" yaml:"ambiguity_gap"`
	ProximityWindow      int     `mapstructure:"proximity_window" yaml:"proximity_window"`
	DescriptionPrefix    string  `mapstructure:"description_prefix" yaml:"description_prefix"`
}

// BatchConfig controls the batch worker pool. Zero workers means one per CPU.
type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// SuggestionsConfig controls "did you mean" hints for unmatched transcripts.
type SuggestionsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Limit   int  `mapstructure:"limit" yaml:"limit"`
}

// CurrencyConfig controls amount display.
type CurrencyConfig struct {
	Code string `mapstructure:"code" yaml:"code"`
}

// AccountConfig holds the account drafts are posted against by default.
type AccountConfig struct {
	DefaultID string `mapstructure:"default_id" yaml:"default_id"`
}

// Config represents the complete application configuration
type Config struct {
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	CSV         CSVConfig         `mapstructure:"csv" yaml:"csv"`
	Categories  CategoriesConfig  `mapstructure:"categories" yaml:"categories"`
	Parser      ParserConfig      `mapstructure:"parser" yaml:"parser"`
	Batch       BatchConfig       `mapstructure:"batch" yaml:"batch"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions" yaml:"suggestions"`
	Currency    CurrencyConfig    `mapstructure:"currency" yaml:"currency"`
	Account     AccountConfig     `mapstructure:"account" yaml:"account"`
}

// LoadConfig initializes Viper configuration with hierarchical loading:
// defaults, then the config file, then SPEECH_* environment variables.
// An explicit configFile must exist; the standard locations are optional.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.speech-expense")
		v.AddConfigPath(".speech-expense")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	th := speechparser.DefaultThresholds()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("categories.file", "")
	v.SetDefault("categories.include_hidden", false)

	v.SetDefault("parser.subcategory_threshold", th.SubcategoryThreshold)
	v.SetDefault("parser.category_threshold", th.CategoryThreshold)
	v.SetDefault("parser.ambiguity_gap", th.AmbiguityGap)
	v.SetDefault("parser.proximity_window", th.ProximityWindow)
	v.SetDefault("parser.description_prefix", th.DescriptionPrefix)

	v.SetDefault("batch.workers", 0)

	v.SetDefault("suggestions.enabled", true)
	v.SetDefault("suggestions.limit", 3)

	v.SetDefault("currency.code", "USD")

	v.SetDefault("account.default_id", "")
}

func invalid(reason string, args ...interface{}) error {
	return &parsererror.ValidationError{Subject: "configuration", Reason: fmt.Sprintf(reason, args...)}
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return invalid("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return invalid("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return invalid("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	for name, value := range map[string]float64{
		"parser.subcategory_threshold": config.Parser.SubcategoryThreshold,
		"parser.category_threshold":    config.Parser.CategoryThreshold,
		"parser.ambiguity_gap":         config.Parser.AmbiguityGap,
	} {
		if value < 0.0 || value > 1.0 {
			return invalid("%s must be between 0.0 and 1.0, got: %f", name, value)
		}
	}

	if config.Parser.ProximityWindow < 0 {
		return invalid("parser.proximity_window must not be negative, got: %d", config.Parser.ProximityWindow)
	}

	if config.Batch.Workers < 0 {
		return invalid("batch.workers must not be negative, got: %d", config.Batch.Workers)
	}

	if config.Suggestions.Limit < 0 {
		return invalid("suggestions.limit must not be negative, got: %d", config.Suggestions.Limit)
	}

	if len(config.Currency.Code) != 3 {
		return invalid("currency.code must be a 3-letter ISO code, got: %s", config.Currency.Code)
	}

	return nil
}

// Thresholds returns the parser settings.
func (c *Config) Thresholds() speechparser.Thresholds {
	return speechparser.Thresholds{
		SubcategoryThreshold: c.Parser.SubcategoryThreshold,
		CategoryThreshold:    c.Parser.CategoryThreshold,
		AmbiguityGap:         c.Parser.AmbiguityGap,
		ProximityWindow:      c.Parser.ProximityWindow,
		DescriptionPrefix:    c.Parser.DescriptionPrefix,
	}
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
