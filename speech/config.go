package speech

import (
	"fmt"
	"time"
)

// Config holds every tunable of the reading pipeline. Values load from the
// config file, then the READALOUD_* environment overlays them.
type Config struct {
	// Engine selects the synthesis backend ("piper" or "mock").
	Engine string `yaml:"engine" env:"READALOUD_ENGINE"`

	// Language and Voice select the rendering voice.
	Language string `yaml:"language" env:"READALOUD_LANGUAGE"`
	Voice    string `yaml:"voice" env:"READALOUD_VOICE"`

	// Rate is the speech rate multiplier.
	Rate float64 `yaml:"rate" env:"READALOUD_RATE"`

	// Interval is the pause between consecutive segments.
	Interval time.Duration `yaml:"interval" env:"READALOUD_INTERVAL"`

	// LongBreakFactor scales Interval at paragraph boundaries.
	LongBreakFactor float64 `yaml:"long_break_factor" env:"READALOUD_LONG_BREAK_FACTOR"`

	// PrefetchCount is how many upcoming segments render ahead of playback.
	PrefetchCount int `yaml:"prefetch_count" env:"READALOUD_PREFETCH_COUNT"`

	// MinSegmentLength merges shorter adjacent segments, in bytes.
	MinSegmentLength int `yaml:"min_segment_length" env:"READALOUD_MIN_SEGMENT_LENGTH"`

	// CacheTTL bounds how long rendered audio stays reusable.
	CacheTTL time.Duration `yaml:"cache_ttl" env:"READALOUD_CACHE_TTL"`

	// HighlightColor styles the active-segment marker.
	HighlightColor string `yaml:"highlight_color" env:"READALOUD_HIGHLIGHT_COLOR"`

	// IdleThreshold is how long the view must be untouched before
	// auto-scroll resumes against recent user input.
	IdleThreshold time.Duration `yaml:"idle_threshold" env:"READALOUD_IDLE_THRESHOLD"`

	Piper PiperConfig `yaml:"piper"`
}

// PiperConfig configures the piper subprocess engine.
type PiperConfig struct {
	// Binary is the piper executable path, resolved via PATH when bare.
	Binary string `yaml:"binary" env:"READALOUD_PIPER_BINARY"`

	// ModelPath points at the voice model (.onnx).
	ModelPath string `yaml:"model_path" env:"READALOUD_PIPER_MODEL"`

	// SampleRate of the model output.
	SampleRate int `yaml:"sample_rate" env:"READALOUD_PIPER_SAMPLE_RATE"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Engine:           "mock",
		Language:         "en-US",
		Voice:            "default",
		Rate:             1.0,
		Interval:         400 * time.Millisecond,
		LongBreakFactor:  3.0,
		PrefetchCount:    2,
		MinSegmentLength: 20,
		CacheTTL:         60 * time.Second,
		HighlightColor:   "yellow",
		IdleThreshold:    2 * time.Second,
		Piper: PiperConfig{
			Binary:     "piper",
			SampleRate: 22050,
		},
	}
}

// Validate checks ranges and rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("engine must be set")
	}
	if c.Rate < 0.25 || c.Rate > 4.0 {
		return fmt.Errorf("rate %.2f out of range [0.25, 4.0]", c.Rate)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	if c.LongBreakFactor < 1.0 {
		return fmt.Errorf("long_break_factor %.2f must be at least 1.0", c.LongBreakFactor)
	}
	if c.PrefetchCount < 0 {
		return fmt.Errorf("prefetch_count must not be negative")
	}
	if c.MinSegmentLength < 1 {
		return fmt.Errorf("min_segment_length must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if c.IdleThreshold < 0 {
		return fmt.Errorf("idle_threshold must not be negative")
	}
	return nil
}

// VoiceConfig derives the cache-identity voice settings from the config.
func (c Config) VoiceConfig() VoiceConfig {
	return VoiceConfig{
		Language: c.Language,
		Voice:    c.Voice,
		Rate:     c.Rate,
	}
}

// LongInterval returns the pause used at hard paragraph boundaries.
func (c Config) LongInterval() time.Duration {
	return time.Duration(float64(c.Interval) * c.LongBreakFactor)
}
