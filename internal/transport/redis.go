// Package transport connects the control loop to the vehicle's message bus.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/ui"
)

func NewRedisClient(ctx context.Context, config configuration.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", config.Addr, err)
	}
	return client, nil
}

// FrameHandler receives every decoded camera image
type FrameHandler func(image perception.Image) error

// FrameSubscriber receives camera images from a redis pub/sub channel
type FrameSubscriber struct {
	client  *redis.Client
	topic   string
	handler FrameHandler
}

func NewFrameSubscriber(client *redis.Client, topic string, handler FrameHandler) *FrameSubscriber {
	return &FrameSubscriber{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

// Run receives images until ctx is cancelled or the connection is lost
func (s *FrameSubscriber) Run(ctx context.Context) error {
	subscription := s.client.Subscribe(ctx, s.topic)
	defer func(subscription *redis.PubSub) {
		_ = subscription.Close()
	}(subscription)

	ui.Info("Waiting for camera frames on '%s'", s.topic)
	for {
		msg, err := subscription.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			// the connection is lost, there is no reconnect
			return fmt.Errorf("frame subscription on '%s': %w", s.topic, err)
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			ui.Debug("Redis subscription %s: %s", m.Kind, m.Channel)
		case *redis.Message:
			s.handleMessage(m.Payload)
		}
	}
}

func (s *FrameSubscriber) handleMessage(payload string) {
	image, err := DecodeImage([]byte(payload))
	if err != nil {
		ui.Warning("Dropping undecodable frame: %v", err)
		return
	}
	if err := s.handler(image); err != nil {
		ui.Warning("Dropping frame: %v", err)
	}
}

// DecodeImage parses a JSON encoded camera image, the pixel data is expected as base64
func DecodeImage(payload []byte) (perception.Image, error) {
	var image perception.Image
	err := json.Unmarshal(payload, &image)
	return image, err
}

func EncodeImage(image perception.Image) ([]byte, error) {
	return json.Marshal(image)
}

// RedisSink publishes commands as JSON on a redis pub/sub channel
type RedisSink struct {
	client *redis.Client
	topic  string
}

func NewRedisSink(client *redis.Client, topic string) *RedisSink {
	return &RedisSink{
		client: client,
		topic:  topic,
	}
}

func (s *RedisSink) Name() string {
	return "redis channel '" + s.topic + "'"
}

func (s *RedisSink) Send(ctx context.Context, command actuation.Command) error {
	payload, err := json.Marshal(command)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.topic, payload).Err()
}
