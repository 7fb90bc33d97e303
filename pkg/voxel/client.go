package voxel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WorldEventType identifies what happened to a persisted world.
type WorldEventType string

const (
	// WorldEventSaved is published after a world has been written.
	WorldEventSaved WorldEventType = "saved"

	// WorldEventCleared is published after a world has been deleted.
	WorldEventCleared WorldEventType = "cleared"
)

// WorldEvent is published on the session's world_events channel.
type WorldEvent struct {
	ID          string         `json:"id"`
	Type        WorldEventType `json:"type"`
	Session     string         `json:"session"`
	VoxelCount  int            `json:"voxel_count"`
	GridSize    int            `json:"grid_size"`
	TimestampMs int64          `json:"timestamp"`
}

// Client persists worlds in Redis for one session.
// All keys and channels are namespaced with the session name.
// The client is safe for concurrent use.
type Client struct {
	rdb     *redis.Client
	session string
}

// NewClient creates a Redis world client for the given session.
// Returns an error if session is empty.
func NewClient(redisOpts *redis.Options, session string) (*Client, error) {
	if session == "" {
		return nil, fmt.Errorf("session name cannot be empty")
	}

	return &Client{
		rdb:     redis.NewClient(redisOpts),
		session: session,
	}, nil
}

// Session returns the session name this client is scoped to.
func (c *Client) Session() string {
	return c.session
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SaveWorld replaces the session's persisted world in a single MULTI/EXEC
// transaction and then publishes a saved event.
func (c *Client) SaveWorld(ctx context.Context, w *World) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid world: %w", err)
	}

	meta, voxels, err := WorldToHashes(w)
	if err != nil {
		return fmt.Errorf("failed to serialize world: %w", err)
	}

	worldKey := WorldKey(c.session)
	voxelsKey := VoxelsKey(c.session)

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, worldKey, voxelsKey)
		pipe.HSet(ctx, worldKey, meta)
		if len(voxels) > 0 {
			pipe.HSet(ctx, voxelsKey, voxels)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write world to Redis: %w", err)
	}

	return c.publish(ctx, WorldEvent{
		Type:        WorldEventSaved,
		VoxelCount:  len(w.Voxels),
		GridSize:    w.GridSize,
		TimestampMs: w.TimestampMs,
	})
}

// LoadWorld reads the session's persisted world.
// Both hashes are read in one transaction so a concurrent save is never seen
// half-applied. Returns an error wrapping ErrWorldNotFound if nothing has been
// saved; use IsNotFound to check.
func (c *Client) LoadWorld(ctx context.Context) (*World, error) {
	var metaCmd, voxelsCmd *redis.MapStringStringCmd

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		metaCmd = pipe.HGetAll(ctx, WorldKey(c.session))
		voxelsCmd = pipe.HGetAll(ctx, VoxelsKey(c.session))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read world from Redis: %w", err)
	}

	meta := metaCmd.Val()
	// HGetAll returns an empty map for non-existent keys
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: session '%s'", ErrWorldNotFound, c.session)
	}

	w, err := HashesToWorld(meta, voxelsCmd.Val())
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize world: %w", err)
	}
	return w, nil
}

// ClearWorld deletes the session's persisted world and publishes a cleared event.
// Clearing a session with no saved world is not an error.
func (c *Client) ClearWorld(ctx context.Context) error {
	if err := c.rdb.Del(ctx, WorldKey(c.session), VoxelsKey(c.session)).Err(); err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}

	return c.publish(ctx, WorldEvent{
		Type:        WorldEventCleared,
		TimestampMs: time.Now().UnixMilli(),
	})
}

func (c *Client) publish(ctx context.Context, ev WorldEvent) error {
	ev.ID = uuid.New().String()
	ev.Session = c.session

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal world event: %w", err)
	}

	if err := c.rdb.Publish(ctx, WorldEventsChannel(c.session), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish world event: %w", err)
	}
	return nil
}

// Subscription is an active Pub/Sub subscription to world events.
// Caller must call Close() when done.
type Subscription struct {
	events <-chan *WorldEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of world events.
// The channel is closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *WorldEvent {
	return s.events
}

// Errors returns the channel of non-fatal subscription errors.
// Undecodable messages are reported here and skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Implements io.Closer.
// Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeWorldEvents subscribes to the session's world events.
// Delivery is at-most-once: a slow subscriber may miss events.
func (c *Client) SubscribeWorldEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, WorldEventsChannel(c.session))

	// Wait for the subscription to be confirmed so no event published after
	// this call returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to world events: %w", err)
	}

	eventsChan := make(chan *WorldEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev WorldEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal world event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound reports whether err means no world has been saved.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorldNotFound)
}
