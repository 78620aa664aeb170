package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/display"
	"github.com/anicoll/envmonitor/internal/pkg/model"
	"github.com/anicoll/envmonitor/internal/pkg/monitor"
	"github.com/anicoll/envmonitor/internal/pkg/mqtt"
	"github.com/anicoll/envmonitor/internal/pkg/publisher"
	"github.com/anicoll/envmonitor/internal/pkg/sensor"
	"github.com/anicoll/envmonitor/internal/pkg/wifi"
)

func MonitorCommand(ctx *cli.Context) error {
	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}
	return run(ctx.Context, cfg, os.Stdout)
}

// logOutput keeps stdout for the terminal display when it is in use.
func logOutput(displayMode string) string {
	if displayMode == config.DisplayTerminal {
		return "stderr"
	}
	return "stdout"
}

func newLogger(level, output string) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{output}
	logCfg.ErrorOutputPaths = []string{output}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger, err := newLogger(cfg.LogLevel, logOutput(cfg.Display.Mode))
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)
	logger.Info("starting envmonitor", zap.Object("net", cfg.Net), zap.Duration("poll_interval", cfg.PollInterval))

	ui, err := display.New(cfg.Display.Mode, out, logger)
	if err != nil {
		return err
	}
	if err := ui.Init(); err != nil {
		return err
	}
	ui.DisplayStatus(model.StatusWifi, model.StatusConnecting)
	ui.DisplayStatus(model.StatusMQTT, model.StatusConnecting)

	src, err := sensor.New(cfg.Sensor, logger)
	if err != nil {
		ui.DisplayError(err.Error())
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	broker := mqtt.New(cfg.Net, ui, logger)
	fanout := publisher.New(logger)
	if err := fanout.RegisterPublisher("mqtt", broker); err != nil {
		return err
	}
	link := wifi.New(cfg.Wifi, cfg.Net.WifiSSID, ui, logger)
	mon := monitor.New(src, fanout, link, ui, cfg.PollInterval, logger)

	return serve(ctx, broker, mon, logger)
}

// serve runs until ctx is cancelled. A cancelled context is a clean
// shutdown and returns nil.
func serve(ctx context.Context, broker Broker, poller Poller, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		err := broker.Connect(ctx)
		if errors.Is(err, mqtt.ErrConnectTimeout) {
			logger.Warn("broker not reachable yet, retrying in background", zap.Error(err))
			return nil
		}
		return err
	})

	eg.Go(func() error {
		return poller.Run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("context done")
		return broker.Close()
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
