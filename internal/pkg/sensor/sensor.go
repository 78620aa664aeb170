package sensor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

var (
	ErrReadFailed    = errors.New("sensor: read failed")
	ErrUnknownSource = errors.New("sensor: unknown source")
)

type Sensor interface {
	Read(ctx context.Context) (model.Reading, error)
	Close() error
}

func New(cfg config.SensorConfig, logger *zap.Logger) (Sensor, error) {
	if logger == nil {
		logger = zap.L()
	}
	switch cfg.Source {
	case config.SensorSimulated:
		logger.Info("using simulated sensor", zap.Int64("seed", cfg.Seed))
		return NewSimulated(cfg.Seed), nil
	case config.SensorModbus:
		logger.Info("using modbus sensor", zap.String("address", cfg.ModbusAddress), zap.Uint8("slave_id", cfg.ModbusSlaveID))
		return NewModbus(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
}
