package display

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

var ErrUnknownMode = errors.New("display: unknown mode")

// UI is the status surface driven by the monitor. Implementations must be
// safe for concurrent use, MQTT callbacks update the status icons from their
// own goroutines.
type UI interface {
	Init() error
	DisplayStatus(kind model.StatusKind, value model.StatusValue)
	ClearValues()
	DisplayTemp(value int)
	DisplayPressure(value int)
	DisplayLux(value int)
	DisplayError(text string)
}

// Screen is what the display currently shows. Nil readouts are blank.
type Screen struct {
	Wifi        model.StatusValue
	MQTT        model.StatusValue
	Temp        *int
	Pressure    *int
	Lux         *int
	Error       string
	Initialised bool
}

func (s Screen) clone() Screen {
	s.Temp = cloneInt(s.Temp)
	s.Pressure = cloneInt(s.Pressure)
	s.Lux = cloneInt(s.Lux)
	return s
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// New picks the surface for the configured mode. w is only used by the
// terminal surface, which redraws in place and so owns w exclusively.
func New(mode string, w io.Writer, logger *zap.Logger) (UI, error) {
	switch mode {
	case config.DisplayTerminal:
		return NewTerminal(w, logger, WithClearScreen()), nil
	case config.DisplayLog:
		return NewLog(logger), nil
	}
	return nil, ErrUnknownMode
}

// surface holds the screen state shared by every implementation. flush is
// called with mu held after each change.
type surface struct {
	mu     sync.Mutex
	screen Screen
	logger *zap.Logger
	flush  func(s Screen, change string)
}

func newSurface(logger *zap.Logger, flush func(Screen, string)) *surface {
	if logger == nil {
		logger = zap.L()
	}
	return &surface{
		logger: logger,
		flush:  flush,
	}
}

func (s *surface) update(change string, fn func(*Screen)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.screen)
	if s.screen.Initialised {
		s.flush(s.screen.clone(), change)
	}
}

// Snapshot returns a copy of the current screen.
func (s *surface) Snapshot() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.clone()
}

func (s *surface) DisplayStatus(kind model.StatusKind, value model.StatusValue) {
	if !kind.Valid() || !value.Valid() {
		s.logger.Warn("ignoring status update", zap.Int("kind", int(kind)), zap.Int("value", int(value)))
		return
	}
	s.update("status", func(sc *Screen) {
		switch kind {
		case model.StatusWifi:
			sc.Wifi = value
		case model.StatusMQTT:
			sc.MQTT = value
		}
	})
}

func (s *surface) ClearValues() {
	s.update("clear", func(sc *Screen) {
		sc.Temp = nil
		sc.Pressure = nil
		sc.Lux = nil
	})
}

func (s *surface) DisplayTemp(value int) {
	s.update("temperature", func(sc *Screen) { sc.Temp = &value })
}

func (s *surface) DisplayPressure(value int) {
	s.update("pressure", func(sc *Screen) { sc.Pressure = &value })
}

func (s *surface) DisplayLux(value int) {
	s.update("lux", func(sc *Screen) { sc.Lux = &value })
}

func (s *surface) DisplayError(text string) {
	s.update("error", func(sc *Screen) { sc.Error = text })
}
