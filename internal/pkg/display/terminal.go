package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/model"
)

const clearScreen = "\033[H\033[2J"

type Terminal struct {
	*surface
	w           io.Writer
	clearScreen bool
	lastErr     error
}

func WithClearScreen() func(*Terminal) {
	return func(t *Terminal) {
		t.clearScreen = true
	}
}

// NewTerminal renders the screen as text on w after every change.
func NewTerminal(w io.Writer, logger *zap.Logger, opts ...func(*Terminal)) *Terminal {
	t := &Terminal{w: w}
	t.surface = newSurface(logger, func(s Screen, _ string) {
		t.lastErr = t.write(s)
		if t.lastErr != nil {
			t.logger.Error("failed to render display", zap.Error(t.lastErr))
		}
	})
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Terminal) Init() error {
	t.update("init", func(sc *Screen) { sc.Initialised = true })
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *Terminal) write(s Screen) error {
	out := Render(s)
	if t.clearScreen {
		out = clearScreen + out
	}
	_, err := io.WriteString(t.w, out)
	return err
}

// Render lays out the screen as four or five lines of text.
func Render(s Screen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WiFi %s  MQTT %s\n", icon(s.Wifi), icon(s.MQTT))
	fmt.Fprintf(&b, "Temp     %s\n", readout(s.Temp, model.UnitDegreeC))
	fmt.Fprintf(&b, "Pressure %s\n", readout(s.Pressure, model.UnitHectoPascal))
	fmt.Fprintf(&b, "Lux      %s\n", readout(s.Lux, model.UnitLux))
	if s.Error != "" {
		fmt.Fprintf(&b, "! %s\n", s.Error)
	}
	return b.String()
}

func icon(v model.StatusValue) string {
	if v == model.StatusConnected {
		return "[ok]"
	}
	return "[..]"
}

func readout(v *int, unit model.Unit) string {
	if v == nil {
		return "--"
	}
	return strconv.Itoa(*v) + " " + unit.String()
}
