package cmd

import (
	"context"
)

// Broker is what serve expects from the MQTT client.
type Broker interface {
	Connect(ctx context.Context) error
	Close() error
}

// Poller is what serve expects from the monitor.
type Poller interface {
	Run(ctx context.Context) error
}
