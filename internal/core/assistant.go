package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Message is one turn of a conversation snapshot, oldest first.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Conversation is the ordered history handed to the assistant.
type Conversation []Message

// Assistant turns a conversation into a Reply through a rate-limited, retried model call.
type Assistant struct {
	provider          ModelProvider
	limiter           *RateLimiter
	retry             RetryPolicy
	config            GenerationConfig
	systemInstruction string
	metrics           *Metrics
	debug             bool
}

type AssistantOption func(*Assistant)

func WithRetryPolicy(p RetryPolicy) AssistantOption {
	return func(a *Assistant) { a.retry = p }
}

func WithMetrics(m *Metrics) AssistantOption {
	return func(a *Assistant) { a.metrics = m }
}

func WithDebugLogging(enabled bool) AssistantOption {
	return func(a *Assistant) { a.debug = enabled }
}

// NewAssistant builds the pipeline. provider may be nil when no API key is configured;
// calls then fail with ErrMissingAPIKey.
func NewAssistant(provider ModelProvider, limiter *RateLimiter, opts ...AssistantOption) *Assistant {
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimit, DefaultRateWindow, nil)
	}
	a := &Assistant{
		provider:          provider,
		limiter:           limiter,
		retry:             DefaultRetryPolicy(),
		config:            DefaultGenerationConfig(),
		systemInstruction: plannerSystemInstruction,
	}
	for _, opt := range opts {
		opt(a)
	}
	onRetry := a.retry.OnRetry
	a.retry.OnRetry = func(attempt int, delay time.Duration, err error) {
		a.metrics.observeRetry()
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
	}
	return a
}

// shapeRequest splits the conversation into provider history and the trailing user prompt.
// History is trimmed to start at its first user turn.
func shapeRequest(conv Conversation) ([]Turn, string, error) {
	if len(conv) == 0 || conv[len(conv)-1].Role != "user" {
		return nil, "", ErrInvalidConversation
	}
	prompt := conv[len(conv)-1].Text
	prior := conv[:len(conv)-1]

	start := len(prior)
	for i, m := range prior {
		if m.Role == "user" {
			start = i
			break
		}
	}

	history := make([]Turn, 0, len(prior)-start)
	for _, m := range prior[start:] {
		role := providerRoleUser
		if m.Role == "assistant" {
			role = providerRoleModel
		}
		history = append(history, Turn{Role: role, Text: m.Text})
	}
	return history, prompt, nil
}

// Reply answers the last user turn of conv.
func (a *Assistant) Reply(ctx context.Context, conv Conversation) (Reply, error) {
	if a.provider == nil {
		a.metrics.observeFailure("config")
		return Reply{}, ErrMissingAPIKey
	}

	history, prompt, err := shapeRequest(conv)
	if err != nil {
		return Reply{}, err
	}

	if !a.limiter.Allow() {
		a.metrics.observeFailure("rate_limited")
		return Reply{}, ErrTooManyRequests
	}

	req := ModelRequest{
		SystemInstruction: a.systemInstruction,
		History:           history,
		Prompt:            prompt,
		Config:            a.config,
	}
	start := time.Now()
	raw, err := a.retry.Do(ctx, func(ctx context.Context) (string, error) {
		return a.provider.Generate(ctx, req)
	})
	if err != nil {
		log.Printf("Error fetching chat response: %v", err)
		a.metrics.observeFailure("provider")
		return Reply{}, &ProviderError{Cause: err}
	}

	result := Classify(raw)
	if a.debug {
		log.Printf("Assistant reply classified as %s (history=%d, raw=%.80q)", result.Mode, len(history), raw)
	}
	a.metrics.observeReply(result.Mode, time.Since(start))
	return result.Reply(), nil
}

// ExclusionNote is appended to a prompt to steer the model away from rejected tasks.
func ExclusionNote(rejected []string) string {
	if len(rejected) == 0 {
		return ""
	}
	return fmt.Sprintf(" (Do NOT suggest these again: %s). Give me completely different suggestions.", strings.Join(rejected, ", "))
}

// Regenerate asks again for suggestions to the latest user request in conv, excluding
// the rejected tasks. It returns nil, nil when conv has no user message with text.
func (a *Assistant) Regenerate(ctx context.Context, conv Conversation, rejected []string) ([]string, error) {
	var lastUser *Message
	for i := len(conv) - 1; i >= 0; i-- {
		if conv[i].Role == "user" && conv[i].Text != "" {
			lastUser = &conv[i]
			break
		}
	}
	if lastUser == nil {
		return nil, nil
	}

	request := make(Conversation, 0, len(conv)+1)
	request = append(request, conv...)
	request = append(request, Message{Role: "user", Text: lastUser.Text + ExclusionNote(rejected)})

	reply, err := a.Reply(ctx, request)
	if err != nil {
		return nil, err
	}
	if reply.Suggestions == nil {
		return []string{}, nil
	}
	return reply.Suggestions, nil
}

// Suggestions runs a single-turn planning request and returns its suggestions, if any.
func (a *Assistant) Suggestions(ctx context.Context, query string) ([]string, error) {
	reply, err := a.Reply(ctx, Conversation{{Role: "user", Text: query}})
	if err != nil {
		return nil, err
	}
	if reply.Suggestions == nil {
		return []string{}, nil
	}
	return reply.Suggestions, nil
}

// UserMessage maps pipeline errors to the text shown in a chat bubble.
func UserMessage(err error) string {
	var providerErr *ProviderError
	switch {
	case errors.Is(err, ErrTooManyRequests):
		return "Too many requests. Try again in a moment."
	case errors.As(err, &providerErr):
		return ProviderFailureMessage
	case err != nil:
		return "Sorry, I encountered an error. Please try again later."
	}
	return ""
}
