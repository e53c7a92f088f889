package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestToOpenAIMessages(t *testing.T) {
	msgs := toOpenAIMessages(ModelRequest{
		SystemInstruction: "be brief",
		History: []Turn{
			{Role: providerRoleUser, Text: "plan a party"},
			{Role: providerRoleModel, Text: "how many guests?"},
		},
		Prompt: "twenty",
	})
	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}, roles)
	assert.Equal(t, "twenty", msgs[3].Content)
}

func TestThrottleDetection(t *testing.T) {
	assert.True(t, isGeminiThrottle(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, isGeminiThrottle(fmt.Errorf("wrapped: %w", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"))))
	assert.False(t, isGeminiThrottle(&googleapi.Error{Code: http.StatusBadRequest, Message: "bad"}))

	assert.True(t, isOpenAIThrottle(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, isOpenAIThrottle(&openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests, Err: errors.New("slow down")}))
	assert.False(t, isOpenAIThrottle(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized}))
}
