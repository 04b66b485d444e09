package shares

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
	"github.com/inkwellhq/inkwell/pkg"
)

var _ sharesRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, share *Share) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sharesRepo.Add")
	span.SetAttributes(attribute.Int("blogId", share.BlogID))
	defer span.End()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM blog WHERE id = $1 AND is_deleted = FALSE);`,
		share.BlogID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return blog.ErrBlogNotFound
	}

	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO share (blog_id, user_id, created_at) VALUES ($1, $2, $3) RETURNING id;`,
		share.BlogID, share.UserID, share.CreatedAt,
	).Scan(&share.ID)
	if pkg.IsForeignKeyViolationError(err) {
		// blog vanished between the existence check and the insert
		return blog.ErrBlogNotFound
	}
	return err
}

// Delete removes a share. Shares are append-only records, so this is the one
// mutation they support, and only for the user who made the share.
func (r *Repo) Delete(ctx context.Context, id, callerID int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sharesRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	cmdTag, err := r.db.Exec(
		ctx,
		`DELETE FROM share WHERE id = $1 AND user_id = $2;`,
		id, callerID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

func (r *Repo) ListForBlog(ctx context.Context, blogID int) ([]*Share, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sharesRepo.ListForBlog")
	span.SetAttributes(attribute.Int("blogId", blogID))
	defer span.End()

	return r.list(ctx, `SELECT id, blog_id, user_id, created_at FROM share WHERE blog_id = $1 ORDER BY id;`, blogID)
}

func (r *Repo) ListForUser(ctx context.Context, userID int) ([]*Share, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sharesRepo.ListForUser")
	span.SetAttributes(attribute.Int("userId", userID))
	defer span.End()

	return r.list(ctx, `SELECT id, blog_id, user_id, created_at FROM share WHERE user_id = $1 ORDER BY id;`, userID)
}

func (r *Repo) list(ctx context.Context, query string, arg int) ([]*Share, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var shares []*Share
	for rows.Next() {
		var s Share
		if err := rows.Scan(&s.ID, &s.BlogID, &s.UserID, &s.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, &s)
	}

	return shares, nil
}
