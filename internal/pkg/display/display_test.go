package display

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

type snapshotter interface {
	UI
	Snapshot() Screen
}

func surfaces(t *testing.T) map[string]snapshotter {
	t.Helper()
	return map[string]snapshotter{
		"terminal": NewTerminal(&bytes.Buffer{}, zaptest.NewLogger(t)),
		"log":      NewLog(zaptest.NewLogger(t)),
	}
}

func TestDisplayStatusAllCombinations(t *testing.T) {
	for name, ui := range surfaces(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, ui.Init())
			for _, kind := range model.StatusKinds {
				for _, value := range model.StatusValues {
					ui.DisplayStatus(kind, value)
					s := ui.Snapshot()
					if kind == model.StatusWifi {
						assert.Equal(t, value, s.Wifi)
					} else {
						assert.Equal(t, value, s.MQTT)
					}
				}
			}
		})
	}
}

func TestZeroReadingsWithoutPriorData(t *testing.T) {
	for name, ui := range surfaces(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, ui.Init())
			ui.DisplayTemp(0)
			ui.DisplayPressure(0)
			ui.DisplayLux(0)

			s := ui.Snapshot()
			require.NotNil(t, s.Temp)
			require.NotNil(t, s.Pressure)
			require.NotNil(t, s.Lux)
			assert.Equal(t, 0, *s.Temp)
			assert.Equal(t, 0, *s.Pressure)
			assert.Equal(t, 0, *s.Lux)
		})
	}
}

func TestClearValuesThenDisplay(t *testing.T) {
	for name, ui := range surfaces(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, ui.Init())
			ui.DisplayTemp(21)
			ui.DisplayStatus(model.StatusMQTT, model.StatusConnected)
			ui.DisplayError("sensor timeout")

			ui.ClearValues()
			s := ui.Snapshot()
			assert.Nil(t, s.Temp)
			assert.Nil(t, s.Pressure)
			assert.Nil(t, s.Lux)
			assert.Equal(t, model.StatusConnected, s.MQTT)
			assert.Equal(t, "sensor timeout", s.Error)

			ui.DisplayLux(-5)
			ui.DisplayStatus(model.StatusWifi, model.StatusConnected)
			s = ui.Snapshot()
			require.NotNil(t, s.Lux)
			assert.Equal(t, -5, *s.Lux)
		})
	}
}

func TestDisplayErrorLengths(t *testing.T) {
	long := strings.Repeat("some long text ", 500)
	for name, ui := range surfaces(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, ui.Init())
			ui.DisplayError(long)
			assert.Equal(t, long, ui.Snapshot().Error)
			ui.DisplayError("")
			assert.Equal(t, "", ui.Snapshot().Error)
		})
	}
}

func TestOutOfRangeStatusIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ui := NewLog(zap.New(core))
	require.NoError(t, ui.Init())

	ui.DisplayStatus(model.StatusKind(5), model.StatusConnected)
	ui.DisplayStatus(model.StatusWifi, model.StatusValue(-1))

	s := ui.Snapshot()
	assert.Equal(t, model.StatusConnecting, s.Wifi)
	assert.Equal(t, model.StatusConnecting, s.MQTT)
	assert.Equal(t, 2, logs.FilterMessage("ignoring status update").Len())
}

func TestCallsBeforeInitAreRecorded(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTerminal(buf, zaptest.NewLogger(t))

	ui.DisplayTemp(19)
	assert.Empty(t, buf.String(), "nothing is rendered before Init")

	require.NoError(t, ui.Init())
	assert.Contains(t, buf.String(), "Temp     19 °C")
}

func TestSnapshotIsACopy(t *testing.T) {
	ui := NewLog(zaptest.NewLogger(t))
	ui.DisplayTemp(10)
	s := ui.Snapshot()
	*s.Temp = 99
	assert.Equal(t, 10, *ui.Snapshot().Temp)
}

func TestConcurrentUpdates(t *testing.T) {
	ui := NewTerminal(&bytes.Buffer{}, zap.NewNop())
	require.NoError(t, ui.Init())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ui.DisplayStatus(model.StatusKind(i%2), model.StatusValue(i%2))
			ui.DisplayTemp(i)
			ui.ClearValues()
			ui.DisplayError("x")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, "x", ui.Snapshot().Error)
}

func TestRender(t *testing.T) {
	temp, pressure, lux := 21, 1013, 340
	tests := map[string]struct {
		screen Screen
		want   string
	}{
		"blank": {
			screen: Screen{},
			want: "WiFi [..]  MQTT [..]\n" +
				"Temp     --\n" +
				"Pressure --\n" +
				"Lux      --\n",
		},
		"values and error": {
			screen: Screen{
				Wifi:     model.StatusConnected,
				MQTT:     model.StatusConnecting,
				Temp:     &temp,
				Pressure: &pressure,
				Lux:      &lux,
				Error:    "publish failed",
			},
			want: "WiFi [ok]  MQTT [..]\n" +
				"Temp     21 °C\n" +
				"Pressure 1013 hPa\n" +
				"Lux      340 lx\n" +
				"! publish failed\n",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.screen))
		})
	}
}

func TestTerminalClearScreen(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTerminal(buf, zaptest.NewLogger(t), WithClearScreen())
	require.NoError(t, ui.Init())
	assert.True(t, strings.HasPrefix(buf.String(), clearScreen))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestTerminalInitWriteError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	ui := NewTerminal(failingWriter{}, zap.New(core))

	assert.EqualError(t, ui.Init(), "broken pipe")
	// later calls keep going and log instead
	ui.DisplayTemp(1)
	assert.Equal(t, 2, logs.FilterMessage("failed to render display").Len())
}

func TestNewTerminalRedrawsInPlace(t *testing.T) {
	buf := &bytes.Buffer{}
	ui, err := New(config.DisplayTerminal, buf, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, ui.Init())
	ui.DisplayStatus(model.StatusWifi, model.StatusConnected)
	ui.DisplayTemp(21)
	ui.DisplayPressure(1013)
	ui.DisplayLux(300)
	ui.DisplayError("")

	frames := strings.Split(buf.String(), clearScreen)
	assert.Empty(t, frames[0], "output starts with the clear sequence")
	frames = frames[1:]
	require.Len(t, frames, 6)
	for _, f := range frames {
		assert.True(t, strings.HasPrefix(f, "WiFi "), "each render is one full frame: %q", f)
	}
	assert.Contains(t, frames[5], "Lux      300 lx")
}

func TestNew(t *testing.T) {
	ui, err := New(config.DisplayTerminal, &bytes.Buffer{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Terminal{}, ui)

	ui, err = New(config.DisplayLog, nil, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Log{}, ui)

	_, err = New("oled", nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownMode)
}
