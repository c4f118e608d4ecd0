package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"adhub/internal/domain"
	"adhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRelay shares order status events between server instances. Publishing
// is a notification sink; Start subscribes and replays foreign events into
// the local hub.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	origin  string
	log     *logger.Logger
	pubsub  *redis.PubSub
}

type relayEnvelope struct {
	Origin string                  `json:"origin"`
	Event  domain.OrderStatusEvent `json:"event"`
}

func NewRedisRelay(rdb *redis.Client, channel string, hub *Hub, log *logger.Logger) *RedisRelay {
	return &RedisRelay{
		rdb:     rdb,
		channel: channel,
		hub:     hub,
		origin:  uuid.NewString(),
		log:     log.Named("redis-relay"),
	}
}

func (r *RedisRelay) Name() string { return "redis" }

func (r *RedisRelay) NotifyOrderStatus(ctx context.Context, ev domain.OrderStatusEvent) error {
	payload, err := json.Marshal(relayEnvelope{Origin: r.origin, Event: ev})
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, payload).Err()
}

func (r *RedisRelay) Start(ctx context.Context) error {
	r.pubsub = r.rdb.Subscribe(ctx, r.channel)
	if _, err := r.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.log.Infow("subscribed", "channel", r.channel)
	go r.listen(ctx)
	return nil
}

func (r *RedisRelay) listen(ctx context.Context) {
	ch := r.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.pubsub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handle(ctx, msg.Payload)
		}
	}
}

// handle rebroadcasts an event published by another instance.
func (r *RedisRelay) handle(ctx context.Context, payload string) {
	var env relayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.log.Warnw("dropping malformed relay message", "error", err)
		return
	}
	if env.Origin == r.origin {
		return
	}
	_ = r.hub.NotifyOrderStatus(ctx, env.Event)
}
