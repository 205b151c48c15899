package speech

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty engine", func(c *Config) { c.Engine = "" }},
		{"rate too low", func(c *Config) { c.Rate = 0.1 }},
		{"rate too high", func(c *Config) { c.Rate = 5.0 }},
		{"negative interval", func(c *Config) { c.Interval = -time.Second }},
		{"break factor below one", func(c *Config) { c.LongBreakFactor = 0.5 }},
		{"negative prefetch", func(c *Config) { c.PrefetchCount = -1 }},
		{"zero min segment", func(c *Config) { c.MinSegmentLength = 0 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"negative idle threshold", func(c *Config) { c.IdleThreshold = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfigLongInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 400 * time.Millisecond
	cfg.LongBreakFactor = 3.0

	if got, want := cfg.LongInterval(), 1200*time.Millisecond; got != want {
		t.Errorf("LongInterval() = %v, want %v", got, want)
	}
}

func TestConfigVoiceConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Language = "de-DE"
	cfg.Voice = "thorsten"
	cfg.Rate = 1.25

	v := cfg.VoiceConfig()
	if v.Language != "de-DE" || v.Voice != "thorsten" || v.Rate != 1.25 {
		t.Errorf("VoiceConfig() = %+v", v)
	}
}

func TestVoiceConfigKeyStable(t *testing.T) {
	a := VoiceConfig{Language: "en-US", Voice: "x", Rate: 1.0}
	b := VoiceConfig{Language: "en-US", Voice: "x", Rate: 1.0}
	if a.Key() != b.Key() {
		t.Error("equal configs produced different keys")
	}

	b.Voice = "y"
	if a.Key() == b.Key() {
		t.Error("different voices produced the same key")
	}
}
