package queue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hktplatform.app/api/internal/domain"
)

const (
	fieldJobID     = "job_id"
	fieldKind      = "kind"
	fieldTo        = "to"
	fieldReplyTo   = "reply_to"
	fieldData      = "data"
	fieldTraceID   = "trace_id"
	fieldAttempt   = "attempt"
	fieldCreatedAt = "created_at"
)

type Message struct {
	ID      string
	Job     domain.EmailJob
	Attempt int
	TraceID string
	Raw     redis.XMessage
}

func jobValues(job domain.EmailJob) (map[string]any, error) {
	data, err := job.DataJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}

	attempt := job.Attempt
	if attempt <= 0 {
		attempt = 1
	}
	createdAt := job.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	values := map[string]any{
		fieldJobID:     job.ID,
		fieldKind:      string(job.Kind),
		fieldTo:        job.To,
		fieldData:      data,
		fieldAttempt:   attempt,
		fieldCreatedAt: createdAt.Format(time.RFC3339Nano),
	}
	if job.ReplyTo != "" {
		values[fieldReplyTo] = job.ReplyTo
	}
	if job.TraceID != nil && *job.TraceID != "" {
		values[fieldTraceID] = *job.TraceID
	}
	return values, nil
}

// messageValues rebuilds stream fields for a requeue or DLQ copy of msg.
func messageValues(msg Message, attempt int) map[string]any {
	job := msg.Job
	job.Attempt = attempt
	if msg.TraceID != "" {
		job.TraceID = &msg.TraceID
	}
	values, err := jobValues(job)
	if err != nil {
		// Data came from a parsed message, so re-encoding only fails on a corrupted map.
		values = map[string]any{}
		for k, v := range msg.Raw.Values {
			values[k] = v
		}
		values[fieldAttempt] = attempt
	}
	return values
}

func ParseMessage(msg redis.XMessage) (Message, error) {
	jobID, err := parseOptionalInt64(msg.Values, fieldJobID)
	if err != nil {
		return Message{}, err
	}
	kind, err := parseString(msg.Values, fieldKind)
	if err != nil {
		return Message{}, err
	}
	if !domain.EmailKind(kind).Valid() {
		return Message{}, fmt.Errorf("unknown kind %q", kind)
	}
	to, err := parseString(msg.Values, fieldTo)
	if err != nil {
		return Message{}, err
	}
	if to == "" {
		return Message{}, fmt.Errorf("empty %s", fieldTo)
	}
	replyTo, err := parseOptionalString(msg.Values, fieldReplyTo)
	if err != nil {
		return Message{}, err
	}
	traceID, err := parseOptionalString(msg.Values, fieldTraceID)
	if err != nil {
		return Message{}, err
	}
	attempt, err := parseOptionalInt(msg.Values, fieldAttempt)
	if err != nil {
		return Message{}, err
	}
	if attempt == 0 {
		attempt = 1
	}

	data := map[string]string{}
	rawData, err := parseOptionalString(msg.Values, fieldData)
	if err != nil {
		return Message{}, err
	}
	if rawData != "" {
		if err := json.Unmarshal([]byte(rawData), &data); err != nil {
			return Message{}, fmt.Errorf("parsing %s: %w", fieldData, err)
		}
	}

	var createdAt time.Time
	if raw, _ := parseOptionalString(msg.Values, fieldCreatedAt); raw != "" {
		createdAt, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Message{}, fmt.Errorf("parsing %s: %w", fieldCreatedAt, err)
		}
	}

	job := domain.EmailJob{
		Kind:      domain.EmailKind(kind),
		To:        to,
		ReplyTo:   replyTo,
		Data:      data,
		Attempt:   attempt,
		CreatedAt: createdAt,
	}
	if jobID != nil {
		job.ID = *jobID
	}
	if traceID != "" {
		job.TraceID = &traceID
	}

	return Message{
		ID:      msg.ID,
		Job:     job,
		Attempt: attempt,
		TraceID: traceID,
		Raw:     msg,
	}, nil
}

func parseString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func parseOptionalInt64(values map[string]any, key string) (*int64, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	num, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	return &num, nil
}

func parseOptionalInt(values map[string]any, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	num, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return num, nil
}

func parseOptionalString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", nil
	}
	return fmt.Sprint(raw), nil
}
