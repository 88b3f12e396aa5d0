package dto

import (
	"time"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
)

type PostRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt" binding:"max=500"`
	Tags          []string `json:"tags" binding:"max=20,dive,max=50"`
	CoverImageURL *string  `json:"cover_image_url,omitempty" binding:"omitempty,max=2048"`
}

func (r PostRequest) ToInput() service.PostInput {
	return service.PostInput{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Tags:          r.Tags,
		CoverImageURL: r.CoverImageURL,
	}
}

type PostQuery struct {
	Tag    string `form:"tag" binding:"max=50"`
	Status string `form:"status" binding:"omitempty,oneof=draft published"`
	Limit  int32  `form:"limit" binding:"min=0,max=100"`
	Offset int32  `form:"offset" binding:"min=0"`
}

type PostResponse struct {
	ID            int64            `json:"id,string"`
	AuthorID      int64            `json:"author_id,string"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Excerpt       string           `json:"excerpt"`
	Content       string           `json:"content,omitempty"`
	Tags          []string         `json:"tags"`
	CoverImageURL *string          `json:"cover_image_url,omitempty"`
	Status        model.PostStatus `json:"status"`
	PublishedAt   *time.Time       `json:"published_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func ToPostResponse(p *model.BlogPost) *PostResponse {
	return &PostResponse{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Tags:          nonNil(p.Tags),
		CoverImageURL: p.CoverImageURL,
		Status:        p.Status,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPostSummaries drops the content for listings.
func ToPostSummaries(posts []model.BlogPost) []*PostResponse {
	resp := make([]*PostResponse, len(posts))
	for i := range posts {
		resp[i] = ToPostResponse(&posts[i])
		resp[i].Content = ""
	}
	return resp
}
