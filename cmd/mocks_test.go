package cmd

import (
	"context"
	"sync/atomic"
)

// MockBroker is a mock implementation of the Broker interface.
type MockBroker struct {
	ConnectFunc func(ctx context.Context) error
	CloseFunc   func() error
	closed      atomic.Bool
}

func (m *MockBroker) Connect(ctx context.Context) error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

func (m *MockBroker) Close() error {
	m.closed.Store(true)
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockPoller is a mock implementation of the Poller interface. By default
// Run blocks until the context is done, like the real monitor.
type MockPoller struct {
	RunFunc func(ctx context.Context) error
}

func (m *MockPoller) Run(ctx context.Context) error {
	if m.RunFunc != nil {
		return m.RunFunc(ctx)
	}
	<-ctx.Done()
	return ctx.Err()
}
