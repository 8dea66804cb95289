package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the orchestra project configuration
type Config struct {
	TracksDir string       `mapstructure:"tracks_dir"`
	OutDir    string       `mapstructure:"out_dir"`
	Formats   []string     `mapstructure:"formats"`
	AssetsDir string       `mapstructure:"assets_dir"`
	Log       LogConfig    `mapstructure:"log"`
	Render    RenderConfig `mapstructure:"render"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// RenderConfig represents audio render configuration
type RenderConfig struct {
	OutDir   string   `mapstructure:"out_dir"`
	Formats  []string `mapstructure:"formats"`
	Duration float64  `mapstructure:"duration"`
	Warmup   float64  `mapstructure:"warmup"`
}

var logLevels = map[string]bool{
	"silent": true,
	"error":  true,
	"warn":   true,
	"info":   true,
	"debug":  true,
}

// Load loads the configuration from orchestra.yml or orchestra.yaml in
// the working directory, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("tracks_dir", "tracks")
	v.SetDefault("out_dir", "dist")
	v.SetDefault("formats", []string{"json", "md", "raw"})
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("render.out_dir", "audio")
	v.SetDefault("render.formats", []string{"wav", "mp3"})
	v.SetDefault("render.duration", 8.0)
	v.SetDefault("render.warmup", 4.0)

	v.SetConfigName("orchestra")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if !logLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level must be one of silent, error, warn, info, debug; got: %s", cfg.Log.Level)
	}
	if cfg.Render.Duration <= 0 {
		return fmt.Errorf("render.duration must be positive, got: %v", cfg.Render.Duration)
	}
	if cfg.Render.Warmup < 0 {
		return fmt.Errorf("render.warmup must not be negative, got: %v", cfg.Render.Warmup)
	}
	return nil
}
