package dto

import "hktplatform.app/api/internal/service"

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

func (r ChatRequest) ToMessages() []service.ChatMessage {
	out := make([]service.ChatMessage, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = service.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}
