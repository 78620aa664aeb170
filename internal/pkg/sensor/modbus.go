package sensor

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/goburrow/modbus"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

// Holding register layout of the sensor module, starting at registerBase:
//
//	+0 temperature, signed, tenths of °C
//	+1 pressure, hPa
//	+2 illuminance, lux
const (
	registerBase  = 0
	registerCount = 3
)

type Modbus struct {
	client  modbus.Client
	handler io.Closer
	now     func() time.Time
}

func NewModbus(cfg config.SensorConfig) (*Modbus, error) {
	handler := modbus.NewTCPClientHandler(cfg.ModbusAddress)
	handler.SlaveId = cfg.ModbusSlaveID
	handler.Timeout = cfg.ModbusTimeout
	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return &Modbus{
		client:  modbus.NewClient(handler),
		handler: handler,
		now:     time.Now,
	}, nil
}

func (m *Modbus) Read(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	results, err := m.client.ReadHoldingRegisters(registerBase, registerCount)
	if err != nil {
		return model.Reading{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	reading, err := decodeRegisters(results)
	if err != nil {
		return model.Reading{}, err
	}
	reading.TakenAt = m.now()
	return reading, nil
}

func decodeRegisters(b []byte) (model.Reading, error) {
	if len(b) != registerCount*2 {
		return model.Reading{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrReadFailed, registerCount*2, len(b))
	}
	deciC := int16(binary.BigEndian.Uint16(b[0:2]))
	return model.Reading{
		Temperature: int(math.Round(float64(deciC) / 10)),
		Pressure:    int(binary.BigEndian.Uint16(b[2:4])),
		Lux:         int(binary.BigEndian.Uint16(b[4:6])),
	}, nil
}

func (m *Modbus) Close() error {
	if m.handler == nil {
		return nil
	}
	return m.handler.Close()
}
