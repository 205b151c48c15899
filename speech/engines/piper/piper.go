// Package piper renders speech through the piper binary and plays it on
// the system audio device.
package piper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/speech"
	"github.com/dgnsrekt/readaloud/speech/audio"
)

// Engine shells out to piper per segment. One subprocess per Render keeps
// cancellation trivial: killing the process is the context's job.
type Engine struct {
	binary string
	cfg    speech.PiperConfig
	player *audio.Player
	logger *log.Logger
}

// New resolves the piper binary and opens the audio device. Returns
// ErrEngineUnavailable (wrapped) when the binary or model is missing.
func New(cfg speech.PiperConfig, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}

	binary, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: piper binary %q not found", speech.ErrEngineUnavailable, cfg.Binary)
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: piper model path not configured", speech.ErrEngineUnavailable)
	}

	player, err := audio.NewPlayer(cfg.SampleRate, 1)
	if err != nil {
		return nil, err
	}

	return &Engine{
		binary: binary,
		cfg:    cfg,
		player: player,
		logger: logger,
	}, nil
}

// Render feeds text to a piper subprocess and collects raw PCM from its
// stdout. Cancelling ctx kills the subprocess.
func (e *Engine) Render(ctx context.Context, text string, voice speech.VoiceConfig) (*speech.Audio, error) {
	args := []string{
		"--model", e.cfg.ModelPath,
		"--output-raw",
	}
	if voice.Rate > 0 {
		// piper's length scale is inverse of speech rate
		args = append(args, "--length-scale", fmt.Sprintf("%.2f", 1.0/voice.Rate))
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("piper render", "bytes_in", len(text))
	if err := cmd.Run(); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("piper render: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	data := stdout.Bytes()
	if len(data) == 0 {
		return nil, fmt.Errorf("piper render: no audio produced")
	}

	return &speech.Audio{
		Data:       data,
		SampleRate: e.cfg.SampleRate,
		Channels:   1,
		Duration:   e.player.Duration(data),
	}, nil
}

// Play sends the audio to the output device.
func (e *Engine) Play(ctx context.Context, a *speech.Audio) error {
	return e.player.Play(ctx, a)
}

func (e *Engine) Close() error {
	return e.player.Close()
}
