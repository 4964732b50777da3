package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/otakulog/otakulog/internal/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WatchlistChannel is the Redis pub/sub channel shared by every instance.
const WatchlistChannel = "otakulog:watchlist"

const (
	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

var errSubscriptionClosed = errors.New("watchlist subscription closed")

// Broadcaster fans watchlist events out to the live connections of the user
// that owns the entry. With a Redis client, events go through pub/sub so
// sockets held by other instances see them too.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}

	redis *redis.Client
	log   *zap.Logger

	// subscribed is set while Run holds a live subscription. Until then
	// Publish also delivers locally.
	subscribed atomic.Bool
	retryDelay time.Duration
}

func NewBroadcaster(rdb *redis.Client, log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}

	return &Broadcaster{
		clients: make(map[uint]map[*Client]struct{}),
		redis:      rdb,
		log:        log,
		retryDelay: minRetryDelay,
	}
}

func (b *Broadcaster) Register(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.clients[c.userID] == nil {
		b.clients[c.userID] = make(map[*Client]struct{})
	}
	b.clients[c.userID][c] = struct{}{}
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (b *Broadcaster) Unregister(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, ok := b.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)

	if len(clients) == 0 {
		delete(b.clients, c.userID)
	}
}

// Publish announces event. Events go out through Redis when configured; the
// caller's own sockets are served directly whenever this instance is not
// subscribed or the publish fails.
func (b *Broadcaster) Publish(ctx context.Context, event types.WatchlistEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Error("Failed to marshal watchlist event", zap.Error(err))
		return
	}

	if b.redis != nil {
		err := b.redis.Publish(ctx, WatchlistChannel, data).Err()
		if err == nil && b.subscribed.Load() {
			return
		}
		if err != nil {
			b.log.Warn("Redis publish failed, delivering locally", zap.Error(err))
		}
	}

	b.deliver(event.UserID, data)
}

// Run relays events from Redis to local sockets until ctx is done, retrying
// the subscription with exponential backoff when it fails. Without Redis it
// only waits for ctx.
func (b *Broadcaster) Run(ctx context.Context) {
	if b.redis == nil {
		<-ctx.Done()
		return
	}

	delay := b.retryDelay
	for {
		err := b.subscribe(ctx)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, errSubscriptionClosed) {
			delay = b.retryDelay
		}

		b.log.Warn("Watchlist subscription lost, retrying",
			zap.Error(err),
			zap.Duration("retry_in", delay),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (b *Broadcaster) subscribe(ctx context.Context) error {
	sub := b.redis.Subscribe(ctx, WatchlistChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	b.subscribed.Store(true)
	defer b.subscribed.Store(false)

	b.log.Info("Subscribed to watchlist events", zap.String("channel", WatchlistChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errSubscriptionClosed
			}

			var event types.WatchlistEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn("Dropping malformed watchlist event", zap.Error(err))
				continue
			}

			b.deliver(event.UserID, []byte(msg.Payload))
		}
	}
}

func (b *Broadcaster) deliver(userID uint, data []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients[userID] {
		select {
		case c.send <- data:
		default:
			b.log.Warn("Client send buffer full, dropping event", zap.Uint("user_id", userID))
		}
	}
}
