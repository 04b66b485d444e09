package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
	"github.com/inkwellhq/inkwell/pkg"
)

var _ usersRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user *User) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Add")
	defer span.End()

	if err := user.Validate(); err != nil {
		return err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO site_user (username, email, password_hash, is_deleted, created_at)
			VALUES ($1, $2, $3, FALSE, $4) RETURNING id;`,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)
	if pkg.IsUniqueViolationError(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *Repo) Get(ctx context.Context, id int) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	return r.getWhere(ctx, `WHERE id = $1 AND is_deleted = FALSE`, id)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.GetByUsername")
	defer span.End()

	return r.getWhere(ctx, `WHERE username = $1 AND is_deleted = FALSE`, username)
}

func (r *Repo) getWhere(ctx context.Context, where string, arg any) (*User, error) {
	var user User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, is_deleted, created_at FROM site_user `+where+`;`,
		arg,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsDeleted, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserParams is the partial update payload of a user. The username and
// the password hash are fixed at registration and not updatable here.
type UpdateUserParams struct {
	Email *string `json:"email,omitempty"`
}

func (r *Repo) Update(ctx context.Context, id int, params UpdateUserParams) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.Update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil {
		user.Email = *params.Email
	}

	cmdTag, err := r.db.Exec(
		ctx,
		`UPDATE site_user SET email = $1 WHERE id = $2 AND is_deleted = FALSE;`,
		user.Email, id,
	)
	if err != nil {
		return nil, err
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return user, nil
}
