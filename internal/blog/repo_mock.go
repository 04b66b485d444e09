package blog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var _ blogRepo = (*repoMock)(nil)

type repoMock struct {
	Posts  map[int]*Blog
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts:  make(map[int]*Blog),
		nextID: 1,
	}
}

func (r *repoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	count := 0
	for _, b := range r.Posts {
		if !b.IsDeleted {
			count++
		}
	}
	return count
}

func (r *repoMock) Add(_ context.Context, blog *Blog) error {
	if err := blog.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if blog.ID == 0 {
		blog.ID = r.nextID
	}
	r.nextID = blog.ID + 1

	if _, ok := r.Posts[blog.ID]; ok {
		return errors.New("blog exists already")
	}

	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now()
	}
	blog.UpdatedAt = blog.CreatedAt

	r.Posts[blog.ID] = blog
	return nil
}

func (r *repoMock) Update(_ context.Context, id, callerID int, params UpdateBlogParams) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	b, ok := r.Posts[id]
	if !ok || b.IsDeleted {
		return nil, ErrBlogNotFound
	}
	if b.AuthorID != callerID {
		return nil, ErrNotBlogAuthor
	}

	updated := *b
	if params.Title != nil {
		updated.Title = *params.Title
	}
	if params.Thumbnail != nil {
		updated.Thumbnail = *params.Thumbnail
	}
	if params.Category != nil {
		updated.Category = *params.Category
	}
	if params.Sections != nil {
		updated.Sections = *params.Sections
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now()
	r.Posts[id] = &updated
	return &updated, nil
}

func (r *repoMock) Delete(_ context.Context, id, callerID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	b, ok := r.Posts[id]
	if !ok || b.IsDeleted {
		return ErrBlogNotFound
	}
	if b.AuthorID != callerID {
		return ErrNotBlogAuthor
	}

	b.IsDeleted = true
	return nil
}

func (r *repoMock) Like(_ context.Context, id, userID int) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	b, ok := r.Posts[id]
	if !ok || b.IsDeleted {
		return false, ErrBlogNotFound
	}

	if b.LikedBy(userID) {
		likes := make([]int64, 0, len(b.Likes))
		for _, likeUserID := range b.Likes {
			if likeUserID != int64(userID) {
				likes = append(likes, likeUserID)
			}
		}
		b.Likes = likes
		return false, nil
	}

	b.Likes = append(b.Likes, int64(userID))
	return true, nil
}

func (r *repoMock) All(_ context.Context) ([]*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.allSorted(), nil
}

func (r *repoMock) allSorted() []*Blog {
	var blogs []*Blog
	for id := range r.Posts {
		if r.Posts[id].IsDeleted {
			continue
		}
		blogs = append(blogs, r.Posts[id])
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].ID > blogs[j].ID
	})
	return blogs
}

func (r *repoMock) Count(_ context.Context) (int, error) {
	return r.PostsCount(), nil
}

func (r *repoMock) GetPage(_ context.Context, page, size int) ([]*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	allPosts := r.allSorted()

	startIndex := (page - 1) * size
	if startIndex >= len(allPosts) {
		return []*Blog{}, nil
	}

	endIndex := startIndex + size
	if endIndex > len(allPosts) {
		endIndex = len(allPosts)
	}

	return allPosts[startIndex:endIndex], nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Blog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	b, ok := r.Posts[id]
	if !ok || b.IsDeleted {
		return nil, ErrBlogNotFound
	}
	return b, nil
}
