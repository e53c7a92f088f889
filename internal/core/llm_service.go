package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModelName = "gemini-2.0-flash-lite-001"

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModelName
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	if err := p.client.Close(); err != nil {
		log.Printf("Error closing GenAI client: %v", err)
		return err
	}
	log.Println("GenAI client closed.")
	return nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req ModelRequest) (string, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemInstruction)},
	}
	model.SetTemperature(req.Config.Temperature)
	model.SetTopP(req.Config.TopP)
	model.SetTopK(req.Config.TopK)
	model.SetMaxOutputTokens(req.Config.MaxOutputTokens)

	chatSession := model.StartChat()
	for _, turn := range req.History {
		chatSession.History = append(chatSession.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	resp, err := chatSession.SendMessage(ctx, genai.Text(req.Prompt))
	if err != nil {
		if isGeminiThrottle(err) {
			return "", &ThrottledError{Cause: err}
		}
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return responseText.String(), nil
}

func isGeminiThrottle(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
