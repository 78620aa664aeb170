package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/config"
	"github.com/anicoll/envmonitor/internal/pkg/display"
	"github.com/anicoll/envmonitor/internal/pkg/model"
)

const (
	connectTimeout       = 5 * time.Second
	publishTimeout       = 10 * time.Second
	disconnectQuiesceMs  = 250
	keepAlive            = 30 * time.Second
	maxReconnectInterval = 5 * time.Minute
	connectRetryInterval = 10 * time.Second
)

// Client publishes readings to the configured topic and mirrors the broker
// connection state on the MQTT status icon. Reconnects are left to paho.
type Client struct {
	client    paho_mqtt.Client
	cfg       config.NetConfig
	ui        display.UI
	logger    *zap.Logger
	connected atomic.Bool
}

func New(cfg config.NetConfig, ui display.UI, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.L()
	}
	c := &Client{
		cfg:    cfg,
		ui:     ui,
		logger: logger,
	}
	opts := clientOptions(cfg)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)
	c.client = paho_mqtt.NewClient(opts)
	return c
}

func clientOptions(cfg config.NetConfig) *paho_mqtt.ClientOptions {
	opts := paho_mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL())
	if cfg.MQTTUser != "" {
		opts.SetUsername(cfg.MQTTUser)
	}
	if cfg.MQTTPass != "" {
		opts.SetPassword(cfg.MQTTPass)
	}
	opts.SetClientID(ClientID(cfg.MQTTTopic))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(connectRetryInterval)
	opts.SetKeepAlive(keepAlive)
	opts.SetMaxReconnectInterval(maxReconnectInterval)
	return opts
}

// ClientID derives a stable client id from the topic, e.g. monitor/2 gives
// envmonitor-monitor-2.
func ClientID(topic string) string {
	return slug.Make("envmonitor-" + topic)
}

func (c *Client) onConnect(_ paho_mqtt.Client) {
	c.connected.Store(true)
	c.logger.Info("connected to broker", zap.String("broker", c.cfg.BrokerURL()))
	c.ui.DisplayStatus(model.StatusMQTT, model.StatusConnected)
}

func (c *Client) onConnectionLost(_ paho_mqtt.Client, err error) {
	c.connected.Store(false)
	c.logger.Warn("lost broker connection", zap.Error(err))
	c.ui.DisplayStatus(model.StatusMQTT, model.StatusConnecting)
}

func (c *Client) onReconnecting(_ paho_mqtt.Client, _ *paho_mqtt.ClientOptions) {
	c.logger.Debug("reconnecting to broker")
	c.ui.DisplayStatus(model.StatusMQTT, model.StatusConnecting)
}

// Connect starts the connection. ErrConnectTimeout is not fatal, paho keeps
// retrying in the background and onConnect flips the icon when it succeeds.
func (c *Client) Connect(ctx context.Context) error {
	c.ui.DisplayStatus(model.StatusMQTT, model.StatusConnecting)
	c.logger.Debug("connecting to broker", zap.String("broker", c.cfg.BrokerURL()))

	if err := wait(ctx, c.client.Connect(), connectTimeout, ErrConnectTimeout, ErrConnectFailed); err != nil {
		return err
	}
	// onConnect runs asynchronously and may not have fired yet.
	c.connected.Store(true)
	return nil
}

func (c *Client) IsConnected() bool {
	return c.connected.Load() && c.client.IsConnectionOpen()
}

func (c *Client) Close() error {
	c.client.Disconnect(disconnectQuiesceMs)
	c.connected.Store(false)
	return nil
}

// wait blocks until the token completes, the context ends or the timeout
// passes. Token errors are wrapped with failErr.
func wait(ctx context.Context, token paho_mqtt.Token, timeout time.Duration, timeoutErr, failErr error) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("%w: %w", failErr, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return timeoutErr
	}
}
