// Package config is Centotype's layered configuration (spec §6.2):
// flags override environment variables, which override a config file,
// which overrides built-in defaults. Binding happens in cmd/centotype;
// Load only reads back whatever viper has resolved.
package config

import (
	"github.com/spf13/viper"

	"github.com/centotype/centotype/internal/cache"
)

// Config holds Centotype's runtime configuration.
type Config struct {
	DefaultLevel    int
	PreloadStrategy string
	CacheSoftLimit  int64
	CacheHardLimit  int64
	ColorMode       string
	KeybindPause    string
	KeybindAbort    string
	LastPlayedLevel int
}

// Load reads configuration from viper (spec §6.2): flags > env
// (CENTOTYPE_* prefix) > config file > defaults, all set up by
// cmd/centotype's cobra command before calling Load.
func Load() Config {
	return Config{
		DefaultLevel:    viper.GetInt("default_level"),
		PreloadStrategy: viper.GetString("preload_strategy"),
		CacheSoftLimit:  viper.GetInt64("cache_soft_limit"),
		CacheHardLimit:  viper.GetInt64("cache_hard_limit"),
		ColorMode:       viper.GetString("color_mode"),
		KeybindPause:    viper.GetString("keybind_pause"),
		KeybindAbort:    viper.GetString("keybind_abort"),
		LastPlayedLevel: viper.GetInt("last_played_level"),
	}
}

// PreloadStrategy maps the configured string to a cache.Strategy,
// defaulting to Adaptive on an unrecognized value.
func (c Config) Strategy() cache.Strategy {
	switch c.PreloadStrategy {
	case "off":
		return cache.StrategyOff
	case "sequential":
		return cache.StrategySequential
	case "adaptive":
		return cache.StrategyAdaptive
	default:
		return cache.StrategyAdaptive
	}
}
