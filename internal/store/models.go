package store

import "time"

// Room is a directory entry. Directory rooms are durable metadata; live
// signaling membership is tracked separately and never persisted.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
