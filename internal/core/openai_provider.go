package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModelName = openai.GPT4oMini

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	client    *openai.Client
	modelName string
}

func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = defaultOpenAIModelName
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), modelName: modelName}
}

func (p *OpenAIProvider) Close() error { return nil }

func (p *OpenAIProvider) Generate(ctx context.Context, req ModelRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.modelName,
		Messages:    toOpenAIMessages(req),
		Temperature: req.Config.Temperature,
		TopP:        req.Config.TopP,
		MaxTokens:   int(req.Config.MaxOutputTokens),
	})
	if err != nil {
		if isOpenAIThrottle(err) {
			return "", &ThrottledError{Cause: err}
		}
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai response had no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(req ModelRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == providerRoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
}

func isOpenAIThrottle(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}
