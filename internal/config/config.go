package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justinabrahms/asyncchess/internal/chess"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Rules       chess.Rules       `mapstructure:"rules"`
	TimeControl chess.TimeControl `mapstructure:"time_control"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads config.yaml from the working directory or ./config, layered
// under CHESS_-prefixed environment variables. A missing file is fine.
func Load() (*Config, error) {
	return load(viper.New(), "")
}

// LoadFile reads the given file instead of searching for config.yaml.
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variables
	v.SetEnvPrefix("CHESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("rules.castling", true)
	v.SetDefault("rules.en_passant", true)
	v.SetDefault("time_control.type", "correspondence")
	v.SetDefault("time_control.days_per_move", 3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := cfg.Logging.ZerologLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ZerologLevel parses Level, treating an empty value as info.
func (l LoggingConfig) ZerologLevel() (zerolog.Level, error) {
	if l.Level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid logging.level %q: %w", l.Level, err)
	}
	return lvl, nil
}
