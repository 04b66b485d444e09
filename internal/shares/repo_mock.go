package shares

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog"
)

var _ sharesRepo = (*repoMock)(nil)

type repoMock struct {
	Shares  map[int]*Share
	BlogIDs map[int]struct{}
	nextID  int
	mutex   sync.Mutex
}

func newRepoMock(blogIDs ...int) *repoMock {
	knownBlogs := make(map[int]struct{})
	for _, id := range blogIDs {
		knownBlogs[id] = struct{}{}
	}
	return &repoMock{
		Shares:  make(map[int]*Share),
		BlogIDs: knownBlogs,
		nextID:  1,
	}
}

func (r *repoMock) Add(_ context.Context, share *Share) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.BlogIDs[share.BlogID]; !ok {
		return blog.ErrBlogNotFound
	}

	share.ID = r.nextID
	r.nextID++
	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now()
	}

	r.Shares[share.ID] = share
	return nil
}

func (r *repoMock) Delete(_ context.Context, id, callerID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.Shares[id]
	if !ok || s.UserID != callerID {
		return ErrShareNotFound
	}

	delete(r.Shares, id)
	return nil
}

func (r *repoMock) ListForBlog(_ context.Context, blogID int) ([]*Share, error) {
	return r.listWhere(func(s *Share) bool { return s.BlogID == blogID }), nil
}

func (r *repoMock) ListForUser(_ context.Context, userID int) ([]*Share, error) {
	return r.listWhere(func(s *Share) bool { return s.UserID == userID }), nil
}

func (r *repoMock) listWhere(match func(*Share) bool) []*Share {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var shares []*Share
	for _, s := range r.Shares {
		if match(s) {
			shares = append(shares, s)
		}
	}
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].ID < shares[j].ID
	})
	return shares
}
