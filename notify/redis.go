package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrenhq/wellnest/utils"
)

// Redis fans out changes through redis pub/sub so every app instance sees
// writes made by any of them.
type Redis struct {
	rc *redis.Client
}

// NewRedis builds a redis-backed notifier.
func NewRedis(rc *redis.Client) *Redis {
	return &Redis{rc: rc}
}

func channelFor(userID uint) string {
	return fmt.Sprintf("wellnest:changes:%d", userID)
}

func (r *Redis) Publish(ctx context.Context, ch Change) {
	payload, err := json.Marshal(ch)
	if err != nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.rc.Publish(pctx, channelFor(ch.UserID), payload).Err(); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("notify: publish failed for user %d: %v", ch.UserID, err)
		}
	}
}

func (r *Redis) Subscribe(ctx context.Context, userID uint) (<-chan Change, func()) {
	sub := r.rc.Subscribe(ctx, channelFor(userID))
	out := make(chan Change, 8)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ch Change
			if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
				continue
			}
			select {
			case out <- ch:
			default: // drop instead of blocking; a client only needs "something changed"
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel
}
