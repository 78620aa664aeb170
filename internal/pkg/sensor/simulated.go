package sensor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/anicoll/envmonitor/internal/pkg/model"
)

// Simulated produces a bounded random walk around typical indoor values.
// The same seed gives the same sequence.
type Simulated struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	current model.Reading
	now     func() time.Time
}

type bounds struct {
	min, max, step int
}

var (
	temperatureBounds = bounds{min: -10, max: 40, step: 1}
	pressureBounds    = bounds{min: 950, max: 1050, step: 2}
	luxBounds         = bounds{min: 0, max: 2000, step: 25}
)

func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		rnd: rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
		current: model.Reading{
			Temperature: 21,
			Pressure:    1013,
			Lux:         300,
		},
		now: time.Now,
	}
}

func (s *Simulated) Read(ctx context.Context) (model.Reading, error) {
	if err := ctx.Err(); err != nil {
		return model.Reading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Temperature = s.walk(s.current.Temperature, temperatureBounds)
	s.current.Pressure = s.walk(s.current.Pressure, pressureBounds)
	s.current.Lux = s.walk(s.current.Lux, luxBounds)
	s.current.TakenAt = s.now()
	return s.current, nil
}

func (s *Simulated) walk(v int, b bounds) int {
	v += s.rnd.IntN(2*b.step+1) - b.step
	return min(max(v, b.min), b.max)
}

func (s *Simulated) Close() error {
	return nil
}
