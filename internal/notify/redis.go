package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes events on the recipient's pub/sub channel so any
// API instance holding the recipient's websocket can forward them.
type RedisNotifier struct {
	RDB *redis.Client
}

func (n *RedisNotifier) Notify(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.RDB.Publish(ctx, Channel(ev.RecipientID), payload).Err()
}
