package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserInvalid   = errors.New("user invalid")
	ErrUsernameTaken = errors.New("username taken")
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsDeleted    bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username empty", ErrUserInvalid)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash empty", ErrUserInvalid)
	}
	return nil
}
