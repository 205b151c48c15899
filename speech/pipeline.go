package speech

import (
	"context"

	"github.com/charmbracelet/log"
)

// Pipeline turns segment text into playable audio through the engine, with
// a render cache in front and speculative prefetch behind.
type Pipeline struct {
	engine Engine
	cache  *Cache
	voice  VoiceConfig
	logger *log.Logger
}

// NewPipeline wires an engine and cache together for one voice. A nil
// logger falls back to the package default.
func NewPipeline(engine Engine, cache *Cache, voice VoiceConfig, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		engine: engine,
		cache:  cache,
		voice:  voice,
		logger: logger,
	}
}

// RenderFirst returns audio for text, from cache when possible, rendering
// synchronously otherwise. This is the awaited path: the caller blocks on
// it and its error decides the session's fate.
func (p *Pipeline) RenderFirst(ctx context.Context, text string) (*Audio, error) {
	if audio, ok := p.cache.Get(text, p.voice); ok {
		p.logger.Debug("render cache hit", "bytes", len(audio.Data))
		return audio, nil
	}

	audio, err := p.engine.Render(ctx, text, p.voice)
	if err != nil {
		return nil, err
	}
	p.cache.Put(text, p.voice, audio)
	return audio, nil
}

// PrefetchRest renders upcoming segments in the background. Results land
// in the cache; failures are logged at debug level and otherwise dropped,
// since the awaited render of each segment retries on its own.
func (p *Pipeline) PrefetchRest(ctx context.Context, texts []string) {
	for _, text := range texts {
		if _, ok := p.cache.Get(text, p.voice); ok {
			continue
		}
		go func(text string) {
			audio, err := p.engine.Render(ctx, text, p.voice)
			if err != nil {
				p.logger.Debug("prefetch render failed", "err", err)
				return
			}
			p.cache.Put(text, p.voice, audio)
		}(text)
	}
}

// Clear drops all cached renders. Called after each spoken segment so
// stale audio never outlives its usefulness.
func (p *Pipeline) Clear() {
	p.cache.Clear()
}
