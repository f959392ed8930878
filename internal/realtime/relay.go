package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// roomMessage is what crosses instance boundaries
type roomMessage struct {
	Room  string `json:"room"`
	Event Event  `json:"event"`
}

// MultiPublisher publishes to every member and joins their errors
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, room string, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, room, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RedisRelay carries events between instances over a pub/sub channel.
// Every instance runs Run to feed what it hears into its local hub.
type RedisRelay struct {
	client      *redis.Client
	channel     string
	presenceKey string
	local       Publisher
}

func NewRedisRelay(client *redis.Client, channel string, local Publisher) *RedisRelay {
	return &RedisRelay{
		client:      client,
		channel:     channel,
		presenceKey: channel + ":presence",
		local:       local,
	}
}

func (r *RedisRelay) Publish(ctx context.Context, room string, event Event) error {
	data, err := json.Marshal(roomMessage{Room: room, Event: event})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Run forwards relayed events to the local publisher until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", r.channel, err)
	}
	logger.Log.Info("Redis relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m roomMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				logger.Log.Warn("Dropping malformed relay message", zap.Error(err))
				continue
			}
			if err := r.local.Publish(ctx, m.Room, m.Event); err != nil {
				logger.Log.Warn("Local delivery failed", zap.String("room", m.Room), zap.Error(err))
			}
		}
	}
}

// SetOnline keeps a per-room connection count shared by all instances
func (r *RedisRelay) SetOnline(ctx context.Context, room string, online bool) error {
	delta := int64(1)
	if !online {
		delta = -1
	}
	n, err := r.client.HIncrBy(ctx, r.presenceKey, room, delta).Result()
	if err != nil {
		return err
	}
	if n <= 0 {
		return r.client.HDel(ctx, r.presenceKey, room).Err()
	}
	return nil
}

// IsOnline reports whether any instance holds a connection for room
func (r *RedisRelay) IsOnline(ctx context.Context, room string) (bool, error) {
	n, err := r.client.HGet(ctx, r.presenceKey, room).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// KafkaPublisher appends every live event to a topic for downstream consumers
type KafkaPublisher struct {
	w MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kgo.Writer{
		Addr:                   kgo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kgo.Hash{},
		RequiredAcks:           kgo.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// Publish keys messages by room so a user's events stay ordered
func (k *KafkaPublisher) Publish(ctx context.Context, room string, event Event) error {
	data, err := json.Marshal(roomMessage{Room: room, Event: event})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return k.w.WriteMessages(ctx, kgo.Message{
		Key:   []byte(room),
		Value: data,
		Time:  event.CreatedAt,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.w.Close()
}
