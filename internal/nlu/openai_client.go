package nlu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAILLMClient implements LLMClient using the OpenAI chat API.
type OpenAILLMClient struct {
	client  *openai.Client
	modelID string
}

// NewOpenAILLMClient creates a new OpenAI LLM client.
func NewOpenAILLMClient(apiKey, modelID string) (*OpenAILLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("nlu: openai api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gpt-4o-mini"
	}
	return &OpenAILLMClient{
		client:  openai.NewClient(apiKey),
		modelID: modelID,
	}, nil
}

// Complete sends a completion request to OpenAI and returns the response.
func (c *OpenAILLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = c.modelID
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.System)+len(req.Messages))
	for _, sys := range req.System {
		if strings.TrimSpace(sys) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: sys,
		})
	}
	for _, msg := range req.Messages {
		role := msg.Role
		switch role {
		case ChatRoleSystem, ChatRoleUser, ChatRoleAssistant:
		default:
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	if len(messages) == 0 {
		return LLMResponse{}, errors.New("nlu: openai requires at least one message")
	}

	request := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		request.MaxTokens = int(req.MaxTokens)
	}
	if req.TopP > 0 {
		request.TopP = req.TopP
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return LLMResponse{}, fmt.Errorf("nlu: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return LLMResponse{}, errors.New("nlu: openai returned no choices")
	}

	choice := resp.Choices[0]
	return LLMResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: TokenUsage{
			InputTokens:  int32(resp.Usage.PromptTokens),
			OutputTokens: int32(resp.Usage.CompletionTokens),
			TotalTokens:  int32(resp.Usage.TotalTokens),
		},
	}, nil
}
