package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type blogStore struct {
	queries *sqlc.Queries
}

func newBlogStore(queries *sqlc.Queries) BlogStore {
	return &blogStore{queries: queries}
}

func (s *blogStore) GetByID(ctx context.Context, id int64) (*model.BlogPost, error) {
	row, err := s.queries.GetBlogPost(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toBlogPostModel(row), nil
}

func (s *blogStore) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	row, err := s.queries.GetBlogPostBySlug(ctx, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	return toBlogPostModel(row), nil
}

func (s *blogStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.queries.BlogSlugExists(ctx, slug)
}

func (s *blogStore) List(ctx context.Context, filter model.BlogFilter) ([]model.BlogPost, error) {
	var status *string
	if filter.Status != nil {
		v := string(*filter.Status)
		status = &v
	}
	rows, err := s.queries.ListBlogPosts(ctx, sqlc.ListBlogPostsParams{
		Status: status,
		Tag:    filter.Tag,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.BlogPost, len(rows))
	for i, row := range rows {
		out[i] = *toBlogPostModel(row)
	}
	return out, nil
}

func (s *blogStore) Create(ctx context.Context, post *model.BlogPost) error {
	row, err := s.queries.CreateBlogPost(ctx, sqlc.CreateBlogPostParams{
		ID:            post.ID,
		AuthorID:      post.AuthorID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		Tags:          emptyIfNil(post.Tags),
		CoverImageUrl: post.CoverImageURL,
		Status:        string(post.Status),
		PublishedAt:   publishedAt(post),
	})
	if err != nil {
		return mapErr(err)
	}
	*post = *toBlogPostModel(row)
	return nil
}

func (s *blogStore) Update(ctx context.Context, post *model.BlogPost) error {
	row, err := s.queries.UpdateBlogPost(ctx, sqlc.UpdateBlogPostParams{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		Tags:          emptyIfNil(post.Tags),
		CoverImageUrl: post.CoverImageURL,
		Status:        string(post.Status),
		PublishedAt:   publishedAt(post),
	})
	if err != nil {
		return mapErr(err)
	}
	*post = *toBlogPostModel(row)
	return nil
}

func (s *blogStore) Deactivate(ctx context.Context, id int64) error {
	n, err := s.queries.DeactivateBlogPost(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *blogStore) CountPublished(ctx context.Context) (int64, error) {
	return s.queries.CountPublishedBlogPosts(ctx)
}

func publishedAt(post *model.BlogPost) pgtype.Timestamptz {
	if post.PublishedAt == nil {
		return pgtype.Timestamptz{}
	}
	return toTimestamptz(*post.PublishedAt)
}

func toBlogPostModel(row sqlc.BlogPost) *model.BlogPost {
	return &model.BlogPost{
		ID:            row.ID,
		AuthorID:      row.AuthorID,
		Title:         row.Title,
		Slug:          row.Slug,
		Excerpt:       row.Excerpt,
		Content:       row.Content,
		Tags:          emptyIfNil(row.Tags),
		CoverImageURL: row.CoverImageUrl,
		Status:        model.PostStatus(row.Status),
		PublishedAt:   timePtr(row.PublishedAt),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
