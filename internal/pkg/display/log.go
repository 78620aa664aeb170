package display

import (
	"go.uber.org/zap"
)

// Log is a headless surface, each change is written to the logger.
type Log struct {
	*surface
}

func NewLog(logger *zap.Logger) *Log {
	l := &Log{}
	l.surface = newSurface(logger, func(s Screen, change string) {
		l.logger.Info("display updated",
			zap.String("change", change),
			zap.Stringer("wifi", s.Wifi),
			zap.Stringer("mqtt", s.MQTT),
			zap.Intp("temperature", s.Temp),
			zap.Intp("pressure", s.Pressure),
			zap.Intp("lux", s.Lux),
			zap.String("error", s.Error),
		)
	})
	return l
}

func (l *Log) Init() error {
	l.update("init", func(sc *Screen) { sc.Initialised = true })
	return nil
}
