package realtime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/notify"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	slog.Info("redis client created", "addr", addr)
	return rdb
}

// Relay forwards every message published on notifications:<userId> to that
// user's websockets on this instance. It returns when ctx is cancelled.
func Relay(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.PSubscribe(ctx, notify.ChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			forward(hub, msg.Channel, msg.Payload)
		}
	}
}

func forward(hub *Hub, channel, payload string) {
	uid, err := uuid.Parse(strings.TrimPrefix(channel, notify.ChannelPrefix))
	if err != nil {
		slog.Warn("relay: unexpected channel", "channel", channel)
		return
	}
	hub.SendRawToUser(uid, []byte(payload))
}
