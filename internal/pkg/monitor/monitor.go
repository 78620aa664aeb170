package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/contxt"
	"github.com/anicoll/envmonitor/internal/pkg/display"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

const (
	readTimeout    = 5 * time.Second
	publishTimeout = 10 * time.Second
)

type sensor interface {
	Read(ctx context.Context) (model.Reading, error)
}

type publisher interface {
	PublishReading(ctx context.Context, reading model.Reading) error
}

type linkChecker interface {
	Check() (model.StatusValue, error)
}

// Monitor runs the poll cycle: refresh the wifi icon, read the sensor, show
// the readings and publish them. It is the only caller of DisplayError.
type Monitor struct {
	sensor    sensor
	publisher publisher
	wifi      linkChecker
	ui        display.UI
	interval  time.Duration
	logger    *zap.Logger
}

func New(s sensor, p publisher, wifi linkChecker, ui display.UI, interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.L()
	}
	return &Monitor{
		sensor:    s,
		publisher: p,
		wifi:      wifi,
		ui:        ui,
		interval:  interval,
		logger:    logger,
	}
}

// Poll runs one cycle. A sensor failure blanks the readouts, a publish
// failure keeps them, both are shown on the error line.
func (m *Monitor) Poll(ctx context.Context) error {
	if m.wifi != nil {
		if _, err := m.wifi.Check(); err != nil {
			m.logger.Debug("wifi check failed", zap.Error(err))
		}
	}

	readCtx, cancel := contxt.NewContext(ctx, readTimeout)
	reading, err := m.sensor.Read(readCtx)
	cancel()
	if err != nil {
		m.logger.Error("failed to read sensor", zap.Error(err))
		m.ui.ClearValues()
		m.ui.DisplayError(err.Error())
		return err
	}

	m.ui.DisplayTemp(reading.Temperature)
	m.ui.DisplayPressure(reading.Pressure)
	m.ui.DisplayLux(reading.Lux)

	pubCtx, cancel := contxt.NewContext(ctx, publishTimeout)
	defer cancel()
	if err := m.publisher.PublishReading(pubCtx, reading); err != nil {
		m.ui.DisplayError(err.Error())
		return err
	}
	m.ui.DisplayError("")
	return nil
}

// Run polls once straight away and then on the interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	_ = m.Poll(ctx)

	c := cron.New(
		cron.WithLogger(cronLogger{m.logger.Sugar()}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{m.logger.Sugar()})),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.interval), func() {
		_ = m.Poll(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	m.logger.Info("polling sensor", zap.Duration("interval", m.interval))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
