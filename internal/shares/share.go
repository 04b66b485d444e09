package shares

import (
	"errors"
	"time"
)

var ErrShareNotFound = errors.New("share not found")

// Share is an append-only record of a user sharing a blog. It carries no
// content of its own; only the sharer may take it back.
type Share struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
