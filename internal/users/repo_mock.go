package users

import (
	"context"
	"sync"
	"time"
)

var _ usersRepo = (*repoMock)(nil)

type repoMock struct {
	Users  map[int]*User
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Users:  make(map[int]*User),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.Users {
		if existing.Username == user.Username && !existing.IsDeleted {
			return ErrUsernameTaken
		}
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	r.Users[user.ID] = user
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.Users[id]
	if !ok || u.IsDeleted {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *repoMock) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.Users {
		if u.Username == username && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *repoMock) Update(_ context.Context, id int, params UpdateUserParams) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.Users[id]
	if !ok || u.IsDeleted {
		return nil, ErrUserNotFound
	}

	if params.Email != nil {
		u.Email = *params.Email
	}

	updated := *u
	return &updated, nil
}
