package ws

import (
	"context"
	"encoding/json"

	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/priyanshu442004/WatchParty/internal/app"
)

// BusEvent is one outbound signaling event replicated between instances.
// Exactly one of RoomID / TargetConn is set: RoomID fans out to every local
// member of the room, TargetConn delivers to a single connection if it is
// local. Origin lets an instance skip its own publications.
type BusEvent struct {
	Origin     string          `json:"origin"`
	RoomID     string          `json:"roomId,omitempty"`
	TargetConn string          `json:"targetConn,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

type RedisBus struct {
	rdb *redis.Client
	log *slog.Logger
	id  string
}

// NewRedisBus connects to redis and verifies connectivity
func NewRedisBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb, log: log, id: uuid.NewString()}, nil
}

// PublishRoom replicates a room-scoped event to peer instances.
func (b *RedisBus) PublishRoom(ctx context.Context, roomID string, payload []byte) error {
	raw, _ := json.Marshal(BusEvent{Origin: b.id, RoomID: roomID, Payload: payload})
	return b.rdb.Publish(ctx, roomChannel(roomID), raw).Err()
}

// PublishConn forwards a directed event for a connection that is not local.
func (b *RedisBus) PublishConn(ctx context.Context, connID string, payload []byte) error {
	raw, _ := json.Marshal(BusEvent{Origin: b.id, TargetConn: connID, Payload: payload})
	return b.rdb.Publish(ctx, connChannel(connID), raw).Err()
}

// Subscribe listens to all room and connection channels and invokes fn for
// each event published by another instance.
func (b *RedisBus) Subscribe(ctx context.Context, fn func(BusEvent)) {
	pubsub := b.rdb.PSubscribe(ctx, roomChannel("*"), connChannel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var ev BusEvent
			_ = json.Unmarshal([]byte(msg.Payload), &ev)
			if ev.Origin == b.id || ev.Origin == "" {
				continue // our own publish echoed back
			}
			fn(ev)
		}
	}
}

// Close shuts down the redis connection
func (b *RedisBus) Close() { _ = b.rdb.Close() }

// channel namespacing for pub/sub
func roomChannel(roomID string) string { return "room:" + roomID }
func connChannel(connID string) string { return "conn:" + connID }
