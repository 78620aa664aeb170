package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/model"
)

var ErrAlreadyRegistered = errors.New("publisher already registered")

type publisher interface {
	PublishReading(ctx context.Context, reading model.Reading) error
}

// Fanout hands each new reading to every registered publisher. A publisher
// is skipped when the reading equals the last one it accepted.
type Fanout struct {
	mu         sync.Mutex
	publishers map[string]publisher
	last       map[string]model.Reading
	logger     *zap.Logger
}

func New(logger *zap.Logger) *Fanout {
	if logger == nil {
		logger = zap.L()
	}
	return &Fanout{
		publishers: make(map[string]publisher),
		last:       make(map[string]model.Reading),
		logger:     logger,
	}
}

func (f *Fanout) RegisterPublisher(name string, p publisher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.publishers[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	f.publishers[name] = p
	return nil
}

// PublishReading returns the joined errors of the publishers that failed.
// Only those publishers get an unchanged reading again on the next poll.
func (f *Fanout) PublishReading(ctx context.Context, reading model.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for _, name := range lo.Keys(f.publishers) {
		if !f.shouldUpdate(name, reading) {
			f.logger.Debug("reading unchanged, skipping publish", zap.String("publisher", name))
			continue
		}
		if err := f.publishers[name].PublishReading(ctx, reading); err != nil {
			f.logger.Error("failed to publish reading", zap.Error(err), zap.String("publisher", name))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		f.last[name] = reading
		f.logger.Debug("published reading", zap.String("publisher", name))
	}
	return errors.Join(errs...)
}

func (f *Fanout) shouldUpdate(name string, reading model.Reading) bool {
	last, ok := f.last[name]
	return !ok || !last.Equal(reading)
}
