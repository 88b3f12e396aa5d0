package domain

import (
	"encoding/json"
	"time"
)

// EmailKind selects the template a notification is rendered with.
type EmailKind string

const (
	EmailWelcome          EmailKind = "welcome"
	EmailBookingConfirmed EmailKind = "booking_confirmed"
	EmailBookingCancelled EmailKind = "booking_cancelled"
	EmailContactMessage   EmailKind = "contact_message"
	EmailPasswordChanged  EmailKind = "password_changed"
)

func (k EmailKind) Valid() bool {
	switch k {
	case EmailWelcome, EmailBookingConfirmed, EmailBookingCancelled, EmailContactMessage, EmailPasswordChanged:
		return true
	}
	return false
}

// EmailJob is one entry on the notification stream.
type EmailJob struct {
	ID        int64             // snowflake assigned when enqueued
	Kind      EmailKind         // template selector
	To        string            // recipient address
	ReplyTo   string            // optional, set for contact messages
	Data      map[string]string // template variables
	TraceID   *string           // trace of the request that enqueued the job
	Attempt   int               // delivery attempt, starting at 1
	CreatedAt time.Time
}

func (j EmailJob) DataJSON() (string, error) {
	if len(j.Data) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(j.Data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
