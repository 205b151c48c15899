package speech

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// SetDefaults registers every speech default with Viper so a freshly
// written config file round-trips the same values the code assumes.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("speech.engine", defaults.Engine)
	viper.SetDefault("speech.language", defaults.Language)
	viper.SetDefault("speech.voice", defaults.Voice)
	viper.SetDefault("speech.rate", defaults.Rate)
	viper.SetDefault("speech.interval", defaults.Interval.String())
	viper.SetDefault("speech.long_break_factor", defaults.LongBreakFactor)
	viper.SetDefault("speech.prefetch_count", defaults.PrefetchCount)
	viper.SetDefault("speech.min_segment_length", defaults.MinSegmentLength)
	viper.SetDefault("speech.cache_ttl", defaults.CacheTTL.String())
	viper.SetDefault("speech.highlight_color", defaults.HighlightColor)
	viper.SetDefault("speech.idle_threshold", defaults.IdleThreshold.String())

	viper.SetDefault("speech.piper.binary", defaults.Piper.Binary)
	viper.SetDefault("speech.piper.model_path", defaults.Piper.ModelPath)
	viper.SetDefault("speech.piper.sample_rate", defaults.Piper.SampleRate)
}

// LoadConfigFromViper builds a Config from Viper, overlays READALOUD_*
// environment variables on top, and validates the result.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("speech.engine") {
		cfg.Engine = viper.GetString("speech.engine")
	}
	if viper.IsSet("speech.language") {
		cfg.Language = viper.GetString("speech.language")
	}
	if viper.IsSet("speech.voice") {
		cfg.Voice = viper.GetString("speech.voice")
	}
	if viper.IsSet("speech.rate") {
		cfg.Rate = viper.GetFloat64("speech.rate")
	}
	if viper.IsSet("speech.interval") {
		if d, err := time.ParseDuration(viper.GetString("speech.interval")); err == nil {
			cfg.Interval = d
		}
	}
	if viper.IsSet("speech.long_break_factor") {
		cfg.LongBreakFactor = viper.GetFloat64("speech.long_break_factor")
	}
	if viper.IsSet("speech.prefetch_count") {
		cfg.PrefetchCount = viper.GetInt("speech.prefetch_count")
	}
	if viper.IsSet("speech.min_segment_length") {
		cfg.MinSegmentLength = viper.GetInt("speech.min_segment_length")
	}
	if viper.IsSet("speech.cache_ttl") {
		if d, err := time.ParseDuration(viper.GetString("speech.cache_ttl")); err == nil {
			cfg.CacheTTL = d
		}
	}
	if viper.IsSet("speech.highlight_color") {
		cfg.HighlightColor = viper.GetString("speech.highlight_color")
	}
	if viper.IsSet("speech.idle_threshold") {
		if d, err := time.ParseDuration(viper.GetString("speech.idle_threshold")); err == nil {
			cfg.IdleThreshold = d
		}
	}

	cfg.Piper = loadPiperConfig()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid speech configuration: %w", err)
	}
	return cfg, nil
}

func loadPiperConfig() PiperConfig {
	cfg := DefaultConfig().Piper

	if viper.IsSet("speech.piper.binary") {
		cfg.Binary = viper.GetString("speech.piper.binary")
	}
	if viper.IsSet("speech.piper.model_path") {
		cfg.ModelPath = viper.GetString("speech.piper.model_path")
	}
	if viper.IsSet("speech.piper.sample_rate") {
		cfg.SampleRate = viper.GetInt("speech.piper.sample_rate")
	}
	return cfg
}
