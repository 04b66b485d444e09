//go:build integration_test || all_tests

package users

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellhq/inkwell/internal/db"
	"github.com/inkwellhq/inkwell/pkg"
)

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "inkwell_blogs",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func TestRepo_Add_Get(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	passwordHash, err := pkg.HashPassword(gofakeit.Password(true, true, true, false, false, 12))
	require.NoError(t, err)

	user := &User{
		Username:     gofakeit.Username() + gofakeit.DigitN(6),
		Email:        gofakeit.Email(),
		PasswordHash: passwordHash,
	}
	require.NoError(t, repo.Add(ctx, user))
	require.NotZero(t, user.ID)

	stored, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, stored.Username)
	assert.Equal(t, user.Email, stored.Email)
	assert.Equal(t, passwordHash, stored.PasswordHash)

	byUsername, err := repo.GetByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	// a taken username is refused
	err = repo.Add(ctx, &User{
		Username:     user.Username,
		Email:        gofakeit.Email(),
		PasswordHash: passwordHash,
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = repo.Get(ctx, 25342523)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByUsername(ctx, "nobody-here-"+gofakeit.DigitN(10))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepo_Update(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	passwordHash, err := pkg.HashPassword("whatever1234")
	require.NoError(t, err)

	user := &User{
		Username:     gofakeit.Username() + gofakeit.DigitN(6),
		Email:        gofakeit.Email(),
		PasswordHash: passwordHash,
	}
	require.NoError(t, repo.Add(ctx, user))

	newEmail := gofakeit.Email()
	updated, err := repo.Update(ctx, user.ID, UpdateUserParams{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)
	assert.Equal(t, user.Username, updated.Username)

	stored, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, newEmail, stored.Email)

	_, err = repo.Update(ctx, 25342523, UpdateUserParams{Email: &newEmail})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
