package comments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkwellhq/inkwell/internal/blog"
	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
)

var _ commentsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add inserts the comment and attaches its id to the parent blog's comment id
// list. Both writes happen in one transaction so the blog never references a
// comment that was not stored, and vice versa.
func (r *Repo) Add(ctx context.Context, comment *Comment) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.Add")
	span.SetAttributes(attribute.Int("blogId", comment.BlogID))
	defer span.End()

	if err := comment.Validate(); err != nil {
		return err
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("add comment to blog %d, rollback: %s", comment.BlogID, err)
		}
	}()

	// lock the parent blog row so the comment id list update cannot race
	var blogID int
	err = tx.QueryRow(
		ctx,
		`SELECT id FROM blog WHERE id = $1 AND is_deleted = FALSE FOR UPDATE;`,
		comment.BlogID,
	).Scan(&blogID)
	if errors.Is(err, pgx.ErrNoRows) {
		return blog.ErrBlogNotFound
	}
	if err != nil {
		return err
	}

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO comment (blog_id, author_id, content, is_deleted, created_at)
			VALUES ($1, $2, $3, FALSE, $4) RETURNING id;`,
		comment.BlogID, comment.AuthorID, comment.Content, comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE blog SET comment_ids = array_append(comment_ids, $1) WHERE id = $2;`,
		comment.ID, comment.BlogID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update replaces the content of the caller's own comment. A missing comment
// and someone else's comment are indistinguishable to the caller.
func (r *Repo) Update(ctx context.Context, id, callerID int, content string) (*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.Update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	comment := &Comment{ID: id, Content: content}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	err := r.db.QueryRow(
		ctx,
		`UPDATE comment SET content = $1
			WHERE id = $2 AND author_id = $3 AND is_deleted = FALSE
			RETURNING blog_id, author_id, created_at;`,
		content, id, callerID,
	).Scan(&comment.BlogID, &comment.AuthorID, &comment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete soft-deletes the caller's own comment and detaches its id from the
// parent blog, in one transaction.
func (r *Repo) Delete(ctx context.Context, id, callerID int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("delete comment %d, rollback: %s", id, err)
		}
	}()

	var blogID int
	err = tx.QueryRow(
		ctx,
		`UPDATE comment SET is_deleted = TRUE
			WHERE id = $1 AND author_id = $2 AND is_deleted = FALSE
			RETURNING blog_id;`,
		id, callerID,
	).Scan(&blogID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE blog SET comment_ids = array_remove(comment_ids, $1) WHERE id = $2;`,
		id, blogID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListForBlog returns the live comments of a blog, oldest first.
func (r *Repo) ListForBlog(ctx context.Context, blogID int) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.ListForBlog")
	span.SetAttributes(attribute.Int("blogId", blogID))
	defer span.End()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM blog WHERE id = $1 AND is_deleted = FALSE);`,
		blogID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, blog.ErrBlogNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, blog_id, author_id, content, is_deleted, created_at
			FROM comment WHERE blog_id = $1 AND is_deleted = FALSE ORDER BY created_at;`,
		blogID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(
			&c.ID, &c.BlogID, &c.AuthorID, &c.Content, &c.IsDeleted, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	return comments, nil
}
