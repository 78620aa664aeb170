package mqtt

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/anicoll/envmonitor/internal/pkg/model"
)

// PublishReading sends the reading as JSON to the configured topic, QoS 0 and
// not retained.
func (c *Client) PublishReading(ctx context.Context, reading model.Reading) error {
	if c.cfg.MQTTTopic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(model.NewReadingMessage(reading))
	if err != nil {
		return err
	}

	token := c.client.Publish(c.cfg.MQTTTopic, 0, false, payload)
	if err := wait(ctx, token, publishTimeout, ErrPublishTimeout, ErrPublishFailed); err != nil {
		return err
	}
	c.logger.Debug("published reading", zap.String("topic", c.cfg.MQTTTopic), zap.ByteString("payload", payload))
	return nil
}
