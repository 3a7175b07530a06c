package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ChatMessage is one role-tagged message of a chat request
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a provider-neutral chat completion request
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature *float64
	MaxTokens   int64
}

// ChatClient performs one chat completion call
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK. Gemini and Groq both expose
// OpenAI-compatible endpoints, so one client type serves either provider.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// A failed call is terminal; the user decides whether to try again
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client}
}

// CreateChatCompletion implements ChatClient
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case string(RoleAssistant):
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from provider")
	}
	return resp.Choices[0].Message.Content, nil
}
