package auth

import (
	"context"
	"errors"
)

var ErrNotLoggedIn = errors.New("not logged in")

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the id of the logged in user.
// ErrNotLoggedIn is returned for unknown and expired tokens.
type Checker interface {
	LoggedUserID(ctx context.Context, token string) (int, error)
}
