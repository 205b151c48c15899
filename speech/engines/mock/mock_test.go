package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/speech"
)

func TestRenderProducesProportionalAudio(t *testing.T) {
	e := New()
	voice := speech.VoiceConfig{Language: "en-US", Voice: "default", Rate: 1.0}

	short, err := e.Render(context.Background(), "short", voice)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	long, err := e.Render(context.Background(), "a considerably longer utterance", voice)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(long.Data) <= len(short.Data) {
		t.Error("longer text did not produce more audio")
	}
	if short.SampleRate <= 0 || short.Channels <= 0 {
		t.Errorf("bad audio format: %dHz/%dch", short.SampleRate, short.Channels)
	}
	if short.Duration <= 0 {
		t.Error("audio has no duration")
	}
	if e.RenderCalls() != 2 {
		t.Errorf("RenderCalls() = %d, want 2", e.RenderCalls())
	}
}

func TestFailureInjection(t *testing.T) {
	e := New()
	voice := speech.VoiceConfig{}
	boom := errors.New("boom")

	e.FailRenderOn(2, boom)

	if _, err := e.Render(context.Background(), "first", voice); err != nil {
		t.Fatalf("call 1 failed: %v", err)
	}
	if _, err := e.Render(context.Background(), "second", voice); !errors.Is(err, boom) {
		t.Errorf("call 2 err = %v, want %v", err, boom)
	}
	if _, err := e.Render(context.Background(), "third", voice); err != nil {
		t.Errorf("call 3 failed: %v", err)
	}

	e.SetRenderError(boom)
	if _, err := e.Render(context.Background(), "fourth", voice); !errors.Is(err, boom) {
		t.Errorf("persistent error not applied: %v", err)
	}
}

func TestRenderHonorsCancellation(t *testing.T) {
	e := New()
	e.SetRenderDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.Render(ctx, "text", speech.VoiceConfig{})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled render never returned")
	}
}

func TestPlayRecordsAndValidates(t *testing.T) {
	e := New()

	if err := e.Play(context.Background(), nil); !errors.Is(err, speech.ErrNoAudio) {
		t.Errorf("nil audio err = %v, want ErrNoAudio", err)
	}

	audio := &speech.Audio{Data: []byte{1, 2}, SampleRate: 22050, Channels: 1}
	if err := e.Play(context.Background(), audio); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := e.Played(); len(got) != 1 || got[0] != audio {
		t.Errorf("Played() = %v", got)
	}
}

func TestClose(t *testing.T) {
	e := New()
	if e.Closed() {
		t.Fatal("engine starts closed")
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !e.Closed() {
		t.Error("Close not recorded")
	}
}
