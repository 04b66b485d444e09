package auth

import (
	"context"
	"sync"
)

// LoginTestChecker - used in unit tests in place of the redis backed LoginChecker
type LoginTestChecker struct {
	mutex sync.Mutex
	// token -> user id
	LoggedSessions map[string]int
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]int{},
	}
}

func (c *LoginTestChecker) Login(token string, userID int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.LoggedSessions[token] = userID
}

func (c *LoginTestChecker) LoggedUserID(_ context.Context, token string) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	userID, ok := c.LoggedSessions[token]
	if !ok {
		return 0, ErrNotLoggedIn
	}
	return userID, nil
}
