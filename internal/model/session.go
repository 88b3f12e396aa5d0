package model

import "time"

type Session struct {
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	UserAgent       *string   `json:"user_agent,omitempty"`
	IPAddress       *string   `json:"ip_address,omitempty"`
	WorkOSSessionID *string   `json:"workos_session_id,omitempty"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
