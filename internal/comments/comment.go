package comments

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCommentNotFound covers both a missing comment and a comment owned by
// someone else. Callers never learn which of the two it was.
var ErrCommentNotFound = errors.New("comment not found")

var ErrCommentInvalid = errors.New("comment invalid")

type Comment struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog_id"`
	AuthorID  int       `json:"author_id"` // set once at creation, never reassigned
	Content   string    `json:"content"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("%w: content empty", ErrCommentInvalid)
	}
	return nil
}
