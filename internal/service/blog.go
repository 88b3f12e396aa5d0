package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hktplatform.app/api/common"
	"hktplatform.app/api/common/id"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrInvalidPost  = errors.New("title and content are required")
)

const excerptLength = 200

type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Tags          []string
	CoverImageURL *string
}

type BlogService interface {
	ListPublished(ctx context.Context, tag *string, limit, offset int32) ([]model.BlogPost, error)
	GetPublished(ctx context.Context, slug string) (*model.BlogPost, error)
	ListAll(ctx context.Context, filter model.BlogFilter) ([]model.BlogPost, error)
	Create(ctx context.Context, authorID int64, in PostInput) (*model.BlogPost, error)
	Update(ctx context.Context, postID int64, in PostInput) (*model.BlogPost, error)
	Publish(ctx context.Context, postID int64) (*model.BlogPost, error)
	Delete(ctx context.Context, postID int64) error
}

type blogService struct {
	blogStore store.BlogStore
	now       func() time.Time
}

func NewBlogService(blogStore store.BlogStore) BlogService {
	return &blogService{blogStore: blogStore, now: time.Now}
}

func (s *blogService) ListPublished(ctx context.Context, tag *string, limit, offset int32) ([]model.BlogPost, error) {
	status := model.PostStatusPublished
	return s.ListAll(ctx, model.BlogFilter{Status: &status, Tag: normalizeTag(tag), Limit: limit, Offset: offset})
}

func (s *blogService) GetPublished(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := s.blogStore.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	if !post.IsActive || post.Status != model.PostStatusPublished {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *blogService) ListAll(ctx context.Context, filter model.BlogFilter) ([]model.BlogPost, error) {
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)
	posts, err := s.blogStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (s *blogService) Create(ctx context.Context, authorID int64, in PostInput) (*model.BlogPost, error) {
	in, err := normalizePost(in)
	if err != nil {
		return nil, err
	}

	slug, err := common.UniqueSlug(ctx, in.Title, "post", s.blogStore.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("generating slug: %w", err)
	}

	post := &model.BlogPost{
		ID:            id.New(),
		AuthorID:      authorID,
		Title:         in.Title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Tags:          in.Tags,
		CoverImageURL: in.CoverImageURL,
		Status:        model.PostStatusDraft,
		IsActive:      true,
	}
	if err := s.blogStore.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	slog.InfoContext(ctx, "blog post created", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

func (s *blogService) Update(ctx context.Context, postID int64, in PostInput) (*model.BlogPost, error) {
	in, err := normalizePost(in)
	if err != nil {
		return nil, err
	}

	post, err := s.get(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Published slugs are stable so shared links keep working.
	if post.Status == model.PostStatusDraft && !strings.EqualFold(post.Title, in.Title) {
		slug, err := common.UniqueSlug(ctx, in.Title, "post", s.blogStore.SlugExists)
		if err != nil {
			return nil, fmt.Errorf("generating slug: %w", err)
		}
		post.Slug = slug
	}

	post.Title = in.Title
	post.Content = in.Content
	post.Excerpt = in.Excerpt
	post.Tags = in.Tags
	post.CoverImageURL = in.CoverImageURL

	if err := s.blogStore.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return post, nil
}

func (s *blogService) Publish(ctx context.Context, postID int64) (*model.BlogPost, error) {
	post, err := s.get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == model.PostStatusPublished {
		return post, nil
	}

	now := s.now().UTC()
	post.Status = model.PostStatusPublished
	post.PublishedAt = &now

	if err := s.blogStore.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("publishing post: %w", err)
	}

	slog.InfoContext(ctx, "blog post published", "post_id", post.ID)
	return post, nil
}

func (s *blogService) Delete(ctx context.Context, postID int64) error {
	if err := s.blogStore.Deactivate(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

func (s *blogService) get(ctx context.Context, postID int64) (*model.BlogPost, error) {
	post, err := s.blogStore.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	if !post.IsActive {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func normalizePost(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return in, ErrInvalidPost
	}

	in.Excerpt = strings.TrimSpace(in.Excerpt)
	if in.Excerpt == "" {
		in.Excerpt = truncateRunes(in.Content, excerptLength)
	}
	in.CoverImageURL = trimmedPtr(in.CoverImageURL)

	tags := make([]string, 0, len(in.Tags))
	seen := make(map[string]bool, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	in.Tags = tags
	return in, nil
}

func normalizeTag(tag *string) *string {
	if tag == nil {
		return nil
	}
	t := strings.ToLower(strings.TrimSpace(*tag))
	if t == "" {
		return nil
	}
	return &t
}
