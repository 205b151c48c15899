// Package audio plays rendered PCM through the system output device.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/dgnsrekt/readaloud/speech"
)

// Player owns the process-wide audio context and plays one utterance at a
// time. The oto context cannot be torn down and recreated, so a Player is
// built once and reused for every segment.
type Player struct {
	ctx        *oto.Context
	ready      chan struct{}
	sampleRate int
	channels   int
}

// NewPlayer opens the audio device for the given PCM format (signed
// 16-bit little-endian).
func NewPlayer(sampleRate, channels int) (*Player, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("audio: invalid format %dHz/%dch", sampleRate, channels)
	}

	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: opening output device: %w", err)
	}

	return &Player{
		ctx:        octx,
		ready:      ready,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// Play blocks until the audio has drained or ctx is cancelled. On
// cancellation playback stops immediately and the context error is
// returned.
func (p *Player) Play(ctx context.Context, a *speech.Audio) error {
	if a == nil || len(a.Data) == 0 {
		return speech.ErrNoAudio
	}

	select {
	case <-p.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	player := p.ctx.NewPlayer(bytes.NewReader(a.Data))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}

// Close releases the player. The underlying device context outlives it by
// oto's design, so this is bookkeeping only.
func (p *Player) Close() error { return nil }

// Duration computes playback length for raw samples in this player's
// format.
func (p *Player) Duration(data []byte) time.Duration {
	bytesPerSecond := p.sampleRate * p.channels * 2
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(data)) * time.Second / time.Duration(bytesPerSecond)
}
