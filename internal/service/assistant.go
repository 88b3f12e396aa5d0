package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/common/llm"
	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/internal/model"
)

var (
	ErrAssistantUnavailable = errors.New("assistant is not configured")
	ErrInvalidChat          = errors.New("invalid chat request")
)

const (
	maxToolRounds       = 4
	maxChatMessages     = 20
	maxChatMessageChars = 4000
	maxSearchResults    = 5
	defaultAnswerTokens = 1024
)

const assistantSystemPrompt = `You are the HKT Platform concierge. You help guests find and book stays
and help investors understand tokenized property ownership and the HKT token.

Use search_properties to look up real listings before recommending a property and
get_token_price for current token prices. Never invent properties, prices or availability.
Prices are in USD. Keep answers short and friendly. If a question is unrelated to travel,
the platform or its tokens, politely steer back.`

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type ChatResult struct {
	Reply     string    `json:"reply"`
	Model     string    `json:"model"`
	ToolCalls int       `json:"tool_calls"`
	Usage     ChatUsage `json:"usage"`
}

type SearchPropertiesParams struct {
	Location     string   `json:"location,omitempty" jsonschema:"description=City or area substring to match"`
	PropertyType string   `json:"property_type,omitempty" jsonschema:"description=Property type such as villa or apartment"`
	Guests       int32    `json:"guests,omitempty" jsonschema:"description=Number of guests the stay must fit"`
	MaxPrice     *float64 `json:"max_price,omitempty" jsonschema:"description=Maximum nightly price in USD"`
}

type GetTokenPriceParams struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Token symbol such as HKT or ETH"`
}

type AssistantService interface {
	Enabled() bool
	Chat(ctx context.Context, userID int64, messages []ChatMessage) (*ChatResult, error)
}

type assistantService struct {
	client     llm.AgentClient
	properties PropertyService
	prices     PriceService
	maxTokens  int
}

// NewAssistantService builds the assistant. A nil client yields a service
// whose Chat returns ErrAssistantUnavailable.
func NewAssistantService(client llm.AgentClient, properties PropertyService, prices PriceService, maxTokens int) AssistantService {
	if maxTokens <= 0 {
		maxTokens = defaultAnswerTokens
	}
	return &assistantService{client: client, properties: properties, prices: prices, maxTokens: maxTokens}
}

func (s *assistantService) Enabled() bool {
	return s.client != nil
}

func (s *assistantService) Chat(ctx context.Context, userID int64, incoming []ChatMessage) (*ChatResult, error) {
	if s.client == nil {
		return nil, ErrAssistantUnavailable
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &userID, Component: "hkt.assistant"})

	messages, err := buildChatMessages(incoming)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &ChatResult{Model: s.client.Model()}
	tools := s.tools()

	for round := 0; ; round++ {
		req := llm.AgentRequest{Messages: messages, MaxTokens: s.maxTokens}
		// The last round withholds tools so the model has to answer.
		if round < maxToolRounds {
			req.Tools = tools
		}

		resp, err := s.client.ChatWithTools(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("assistant chat round %d: %w", round+1, err)
		}
		result.Usage.PromptTokens += resp.PromptTokens
		result.Usage.CompletionTokens += resp.CompletionTokens

		if len(resp.ToolCalls) == 0 || round >= maxToolRounds {
			result.Reply = strings.TrimSpace(resp.Content)
			break
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			result.ToolCalls++
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    s.runTool(ctx, tc),
				ToolCallID: tc.ID,
			})
		}
	}

	slog.InfoContext(ctx, "assistant answered",
		"duration_ms", time.Since(start).Milliseconds(),
		"tool_calls", result.ToolCalls,
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens)
	return result, nil
}

func (s *assistantService) tools() []llm.Tool {
	return []llm.Tool{
		{
			Name:        "search_properties",
			Description: "Search active property listings by location, type, guest count and maximum nightly price.",
			Parameters:  llm.GenerateSchema[SearchPropertiesParams](),
		},
		{
			Name:        "get_token_price",
			Description: "Get the latest USD price of a tracked token.",
			Parameters:  llm.GenerateSchema[GetTokenPriceParams](),
		},
	}
}

// runTool executes one tool call and returns its result for the model.
// Failures are reported to the model rather than aborting the chat.
func (s *assistantService) runTool(ctx context.Context, tc llm.ToolCall) string {
	var (
		out any
		err error
	)
	switch tc.Name {
	case "search_properties":
		out, err = s.searchProperties(ctx, tc.Arguments)
	case "get_token_price":
		out, err = s.tokenPrice(ctx, tc.Arguments)
	default:
		err = fmt.Errorf("unknown tool %q", tc.Name)
	}
	if err != nil {
		slog.WarnContext(ctx, "assistant tool failed", "tool", tc.Name, "error", err)
		return toolError(err)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return toolError(err)
	}
	return string(b)
}

func toolError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

type propertySummary struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Location      string          `json:"location"`
	PropertyType  string          `json:"property_type"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	MaxGuests     int32           `json:"max_guests"`
	MinNights     int32           `json:"min_nights"`
	Bedrooms      int32           `json:"bedrooms"`
}

func (s *assistantService) searchProperties(ctx context.Context, arguments string) ([]propertySummary, error) {
	params, err := llm.ParseToolArguments[SearchPropertiesParams](arguments)
	if err != nil {
		return nil, err
	}

	filter := model.PropertyFilter{Limit: maxSearchResults}
	if v := strings.TrimSpace(params.Location); v != "" {
		filter.Location = &v
	}
	if v := strings.TrimSpace(params.PropertyType); v != "" {
		filter.PropertyType = &v
	}
	if params.Guests > 0 {
		filter.Guests = &params.Guests
	}
	if params.MaxPrice != nil {
		maxPrice := decimal.NewFromFloat(*params.MaxPrice)
		filter.MaxPrice = &maxPrice
	}

	properties, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]propertySummary, 0, len(properties))
	for _, p := range properties {
		out = append(out, propertySummary{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Location:      p.Location,
			PropertyType:  p.PropertyType,
			PricePerNight: p.PricePerNight,
			MaxGuests:     p.MaxGuests,
			MinNights:     p.MinNights,
			Bedrooms:      p.Bedrooms,
		})
	}
	return out, nil
}

func (s *assistantService) tokenPrice(ctx context.Context, arguments string) (*model.Price, error) {
	params, err := llm.ParseToolArguments[GetTokenPriceParams](arguments)
	if err != nil {
		return nil, err
	}
	return s.prices.Get(ctx, params.Symbol)
}

func buildChatMessages(incoming []ChatMessage) ([]llm.Message, error) {
	if len(incoming) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", ErrInvalidChat)
	}
	if len(incoming) > maxChatMessages {
		return nil, fmt.Errorf("%w: at most %d messages are allowed", ErrInvalidChat, maxChatMessages)
	}

	messages := make([]llm.Message, 0, len(incoming)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: assistantSystemPrompt})
	for i, m := range incoming {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: message %d is empty", ErrInvalidChat, i+1)
		}
		if utf8.RuneCountInString(content) > maxChatMessageChars {
			return nil, fmt.Errorf("%w: message %d exceeds %d characters", ErrInvalidChat, i+1, maxChatMessageChars)
		}
		// Clients cannot inject system or tool turns.
		switch m.Role {
		case llm.RoleUser, llm.RoleAssistant:
		default:
			return nil, fmt.Errorf("%w: message %d has unsupported role %q", ErrInvalidChat, i+1, m.Role)
		}
		messages = append(messages, llm.Message{Role: m.Role, Content: content})
	}
	if incoming[len(incoming)-1].Role != llm.RoleUser {
		return nil, fmt.Errorf("%w: the last message must come from the user", ErrInvalidChat)
	}
	return messages, nil
}
