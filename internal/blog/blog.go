package blog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrBlogInvalid   = errors.New("blog invalid")
	ErrNotBlogAuthor = errors.New("not the blog author")
)

type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryDesign     Category = "design"
	CategoryBusiness   Category = "business"
	CategoryLifestyle  Category = "lifestyle"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryDesign, CategoryBusiness, CategoryLifestyle:
		return true
	}
	return false
}

type Blog struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail"`
	Category   Category  `json:"category"`
	Sections   []Section `json:"sections"`
	AuthorID   int       `json:"author_id"` // set once at creation, never reassigned
	Likes      []int64   `json:"likes"`
	CommentIDs []int64   `json:"comment_ids"`
	IsDeleted  bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the persist invariants: title, thumbnail and a known
// category present, plus at least one section with non-empty content.
func (b *Blog) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("%w: title empty", ErrBlogInvalid)
	}
	if b.Thumbnail == "" {
		return fmt.Errorf("%w: thumbnail empty", ErrBlogInvalid)
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: unknown category [%s]", ErrBlogInvalid, b.Category)
	}
	if !sectionsHaveContent(b.Sections) {
		return fmt.Errorf("%w: no section with content", ErrBlogInvalid)
	}
	return nil
}

func sectionsHaveContent(sections []Section) bool {
	for _, s := range sections {
		if strings.TrimSpace(s.Content) != "" {
			return true
		}
	}
	return false
}

// LikedBy reports whether the given user is in the blog's like list.
func (b *Blog) LikedBy(userID int) bool {
	for _, id := range b.Likes {
		if id == int64(userID) {
			return true
		}
	}
	return false
}
