package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and the notification worker enrich the request context once and every
// slog.*Context call below them picks the fields up.
type LogFields struct {
	UserID     *int64  // Authenticated user
	PropertyID *int64  // Property being read or modified
	BookingID  *int64  // Booking being quoted, paid or cancelled
	MessageID  *string // Redis stream message ID
	JobKind    *string // Email job kind, e.g. "booking_confirmed"
	Component  string  // Component name, e.g. "hkt.worker.mailer"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.PropertyID != nil {
		result.PropertyID = next.PropertyID
	}
	if next.BookingID != nil {
		result.BookingID = next.BookingID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.JobKind != nil {
		result.JobKind = next.JobKind
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
