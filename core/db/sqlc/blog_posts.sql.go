package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const blogPostColumns = `id, author_id, title, slug, excerpt, content, tags, cover_image_url, status, published_at, is_active, created_at, updated_at`

func scanBlogPost(row scanner) (BlogPost, error) {
	var i BlogPost
	err := row.Scan(
		&i.ID,
		&i.AuthorID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.Tags,
		&i.CoverImageUrl,
		&i.Status,
		&i.PublishedAt,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBlogPost = `-- name: CreateBlogPost :one
INSERT INTO blog_posts (id, author_id, title, slug, excerpt, content, tags, cover_image_url, status, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + blogPostColumns

type CreateBlogPostParams struct {
	ID            int64
	AuthorID      int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Tags          []string
	CoverImageUrl *string
	Status        string
	PublishedAt   pgtype.Timestamptz
}

func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRow(ctx, createBlogPost,
		arg.ID,
		arg.AuthorID,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.Tags,
		arg.CoverImageUrl,
		arg.Status,
		arg.PublishedAt,
	)
	return scanBlogPost(row)
}

const getBlogPost = `-- name: GetBlogPost :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`

func (q *Queries) GetBlogPost(ctx context.Context, id int64) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRow(ctx, getBlogPost, id))
}

const getBlogPostBySlug = `-- name: GetBlogPostBySlug :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = $1`

func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRow(ctx, getBlogPostBySlug, slug))
}

const blogSlugExists = `-- name: BlogSlugExists :one
SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`

func (q *Queries) BlogSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, blogSlugExists, slug).Scan(&exists)
	return exists, err
}

const listBlogPosts = `-- name: ListBlogPosts :many
SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE is_active
  AND ($1::text IS NULL OR status = $1::text)
  AND ($2::text IS NULL OR $2::text = ANY(tags))
ORDER BY COALESCE(published_at, created_at) DESC
LIMIT $3 OFFSET $4`

type ListBlogPostsParams struct {
	Status *string
	Tag    *string
	Limit  int32
	Offset int32
}

func (q *Queries) ListBlogPosts(ctx context.Context, arg ListBlogPostsParams) ([]BlogPost, error) {
	rows, err := q.db.Query(ctx, listBlogPosts, arg.Status, arg.Tag, arg.Limit, arg.Offset)
	return collect(rows, err, scanBlogPost)
}

const updateBlogPost = `-- name: UpdateBlogPost :one
UPDATE blog_posts SET
    title = $2, slug = $3, excerpt = $4, content = $5, tags = $6,
    cover_image_url = $7, status = $8, published_at = $9, updated_at = now()
WHERE id = $1
RETURNING ` + blogPostColumns

type UpdateBlogPostParams struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Tags          []string
	CoverImageUrl *string
	Status        string
	PublishedAt   pgtype.Timestamptz
}

func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRow(ctx, updateBlogPost,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.Tags,
		arg.CoverImageUrl,
		arg.Status,
		arg.PublishedAt,
	)
	return scanBlogPost(row)
}

const deactivateBlogPost = `-- name: DeactivateBlogPost :execrows
UPDATE blog_posts SET is_active = FALSE, updated_at = now() WHERE id = $1 AND is_active`

func (q *Queries) DeactivateBlogPost(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateBlogPost, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countPublishedBlogPosts = `-- name: CountPublishedBlogPosts :one
SELECT count(*) FROM blog_posts WHERE is_active AND status = 'published'`

func (q *Queries) CountPublishedBlogPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPublishedBlogPosts).Scan(&count)
	return count, err
}
