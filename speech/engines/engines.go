// Package engines selects and constructs a speech engine by name.
package engines

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/speech"
	"github.com/dgnsrekt/readaloud/speech/engines/mock"
	"github.com/dgnsrekt/readaloud/speech/engines/piper"
)

// Names lists the engines this build knows about.
func Names() []string {
	return []string{"mock", "piper"}
}

// New constructs the engine cfg.Engine names. Construction probes
// availability, so an unusable backend fails here rather than mid-read.
func New(cfg speech.Config, logger *log.Logger) (speech.Engine, error) {
	switch cfg.Engine {
	case "mock":
		return mock.New(), nil
	case "piper":
		return piper.New(cfg.Piper, logger)
	default:
		return nil, fmt.Errorf("%w: unknown engine %q (have %v)",
			speech.ErrEngineUnavailable, cfg.Engine, Names())
	}
}
