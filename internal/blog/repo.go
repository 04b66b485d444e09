package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
)

var _ blogRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UpdateBlogParams is the partial update payload of a blog. Nil fields stay
// unchanged; section updates replace the whole section list (the editor always
// submits the full ordered list).
type UpdateBlogParams struct {
	Title     *string    `json:"title,omitempty"`
	Thumbnail *string    `json:"thumbnail,omitempty"`
	Category  *Category  `json:"category,omitempty"`
	Sections  *[]Section `json:"sections,omitempty"`
}

func (r *Repo) Add(ctx context.Context, blog *Blog) error {
	if err := blog.Validate(); err != nil {
		return err
	}

	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now()
	}
	blog.UpdatedAt = blog.CreatedAt

	sectionsJson, err := json.Marshal(blog.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO blog (title, thumbnail, category, sections, author_id, likes, comment_ids, is_deleted, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, '{}', '{}', FALSE, $6, $7) RETURNING id;`,
		blog.Title, blog.Thumbnail, blog.Category, sectionsJson, blog.AuthorID, blog.CreatedAt, blog.UpdatedAt,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			blog.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert blog")
}

// Update applies a partial merge onto the stored blog. Only the blog author
// may update it; the author reference itself is never reassigned.
func (r *Repo) Update(ctx context.Context, id, callerID int, params UpdateBlogParams) (*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Update")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("update blog %d, rollback: %s", id, err)
		}
	}()

	blog, err := getBlogForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != callerID {
		return nil, ErrNotBlogAuthor
	}

	if params.Title != nil {
		blog.Title = *params.Title
	}
	if params.Thumbnail != nil {
		blog.Thumbnail = *params.Thumbnail
	}
	if params.Category != nil {
		blog.Category = *params.Category
	}
	if params.Sections != nil {
		blog.Sections = *params.Sections
	}

	if err := blog.Validate(); err != nil {
		return nil, err
	}

	blog.UpdatedAt = time.Now()

	sectionsJson, err := json.Marshal(blog.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE blog SET title = $1, thumbnail = $2, category = $3, sections = $4, updated_at = $5 WHERE id = $6;`,
		blog.Title, blog.Thumbnail, blog.Category, sectionsJson, blog.UpdatedAt, blog.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return blog, nil
}

// Delete soft-deletes a blog. The row is kept; it just stops showing up in
// gets and listings. Only the author may delete their blog.
func (r *Repo) Delete(ctx context.Context, id, callerID int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("delete blog %d, rollback: %s", id, err)
		}
	}()

	blog, err := getBlogForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != callerID {
		return ErrNotBlogAuthor
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE blog SET is_deleted = TRUE, updated_at = $1 WHERE id = $2;`,
		time.Now(), id,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Like toggles the caller's like on a blog and reports whether the blog is
// liked after the call.
func (r *Repo) Like(ctx context.Context, id, userID int) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Like")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("like blog %d, rollback: %s", id, err)
		}
	}()

	blog, err := getBlogForUpdate(ctx, tx, id)
	if err != nil {
		return false, err
	}

	liked := !blog.LikedBy(userID)
	if liked {
		blog.Likes = append(blog.Likes, int64(userID))
	} else {
		likes := make([]int64, 0, len(blog.Likes))
		for _, likeUserID := range blog.Likes {
			if likeUserID != int64(userID) {
				likes = append(likes, likeUserID)
			}
		}
		blog.Likes = likes
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE blog SET likes = $1 WHERE id = $2;`,
		blog.Likes, id,
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return liked, nil
}

func (r *Repo) All(ctx context.Context) ([]*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, thumbnail, category, sections, author_id, likes, comment_ids, is_deleted, created_at, updated_at
			FROM blog WHERE is_deleted = FALSE ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2blogs(rows)
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Count")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM blog WHERE is_deleted = FALSE;`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get blogs count")
}

func (r *Repo) GetPage(ctx context.Context, page, size int) ([]*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	limit := size
	offset := (page - 1) * size
	blogsCount, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	if blogsCount <= limit {
		return r.All(ctx)
	}

	if blogsCount-offset < limit {
		offset = blogsCount - limit
	}

	log.Tracef("getting blogs, blogs count %d, limit %d, offset %d", blogsCount, limit, offset)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, thumbnail, category, sections, author_id, likes, comment_ids, is_deleted, created_at, updated_at
			FROM blog WHERE is_deleted = FALSE
			ORDER BY id DESC
			LIMIT $1
			OFFSET $2;`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2blogs(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (*Blog, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, thumbnail, category, sections, author_id, likes, comment_ids, is_deleted, created_at, updated_at
			FROM blog WHERE id = $1 AND is_deleted = FALSE;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrBlogNotFound
	}

	return scanBlog(rows)
}

func getBlogForUpdate(ctx context.Context, tx pgx.Tx, id int) (*Blog, error) {
	rows, err := tx.Query(
		ctx,
		`SELECT id, title, thumbnail, category, sections, author_id, likes, comment_ids, is_deleted, created_at, updated_at
			FROM blog WHERE id = $1 AND is_deleted = FALSE FOR UPDATE;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrBlogNotFound
	}

	return scanBlog(rows)
}

func scanBlog(rows pgx.Rows) (*Blog, error) {
	var b Blog
	var sectionsJson []byte
	if err := rows.Scan(
		&b.ID, &b.Title, &b.Thumbnail, &b.Category, &sectionsJson,
		&b.AuthorID, &b.Likes, &b.CommentIDs, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sectionsJson, &b.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections of blog %d: %w", b.ID, err)
	}
	return &b, nil
}

func rows2blogs(rows pgx.Rows) ([]*Blog, error) {
	var blogs []*Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, nil
}
