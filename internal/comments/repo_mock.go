package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog"
)

var _ commentsRepo = (*repoMock)(nil)

// repoMock mirrors the transactional comment store: it keeps the parent
// blogs' comment id lists in sync with the stored comments.
type repoMock struct {
	Comments       map[int]*Comment
	BlogCommentIDs map[int][]int64
	nextID         int
	mutex          sync.Mutex
}

func newRepoMock(blogIDs ...int) *repoMock {
	blogCommentIDs := make(map[int][]int64)
	for _, id := range blogIDs {
		blogCommentIDs[id] = []int64{}
	}
	return &repoMock{
		Comments:       make(map[int]*Comment),
		BlogCommentIDs: blogCommentIDs,
		nextID:         1,
	}
}

func (r *repoMock) Add(_ context.Context, comment *Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.BlogCommentIDs[comment.BlogID]; !ok {
		return blog.ErrBlogNotFound
	}

	comment.ID = r.nextID
	r.nextID++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	r.Comments[comment.ID] = comment
	r.BlogCommentIDs[comment.BlogID] = append(r.BlogCommentIDs[comment.BlogID], int64(comment.ID))
	return nil
}

func (r *repoMock) Update(_ context.Context, id, callerID int, content string) (*Comment, error) {
	probe := &Comment{ID: id, Content: content}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.Comments[id]
	if !ok || c.IsDeleted || c.AuthorID != callerID {
		return nil, ErrCommentNotFound
	}

	c.Content = content
	updated := *c
	return &updated, nil
}

func (r *repoMock) Delete(_ context.Context, id, callerID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, ok := r.Comments[id]
	if !ok || c.IsDeleted || c.AuthorID != callerID {
		return ErrCommentNotFound
	}

	c.IsDeleted = true

	ids := r.BlogCommentIDs[c.BlogID]
	kept := make([]int64, 0, len(ids))
	for _, commentID := range ids {
		if commentID != int64(id) {
			kept = append(kept, commentID)
		}
	}
	r.BlogCommentIDs[c.BlogID] = kept
	return nil
}

func (r *repoMock) ListForBlog(_ context.Context, blogID int) ([]*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.BlogCommentIDs[blogID]; !ok {
		return nil, blog.ErrBlogNotFound
	}

	var comments []*Comment
	for _, c := range r.Comments {
		if c.BlogID == blogID && !c.IsDeleted {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
