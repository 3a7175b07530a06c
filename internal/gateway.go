package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Generator produces text from an instruction, a transcript and optional history.
// Implementations send at most the last HistoryWindow turns.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Provider() Provider
}

// GeneratorConfig holds the per-provider call settings
type GeneratorConfig struct {
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// GeneratorFactory builds a Generator for a provider and credential
type GeneratorFactory func(provider Provider, apiKey string) Generator

// NewGeneratorFactory returns a factory using the configured models and endpoints
func NewGeneratorFactory(config *Config, prompts *PromptManager) GeneratorFactory {
	return func(provider Provider, apiKey string) Generator {
		switch provider {
		case ProviderGroq:
			return NewGroqGenerator(apiKey, config.GeneratorConfig(ProviderGroq), prompts)
		default:
			return NewGeminiGenerator(apiKey, config.GeneratorConfig(ProviderGemini), prompts)
		}
	}
}

// chatGenerator holds what both providers share: credential, lazy client, call wrapping
type chatGenerator struct {
	provider   Provider
	apiKey     string
	config     GeneratorConfig
	prompts    *PromptManager
	client     ChatClient
	clientOnce sync.Once
}

// ensureClient validates the credential and initializes the client if needed
func (g *chatGenerator) ensureClient() error {
	if strings.TrimSpace(g.apiKey) == "" {
		return fmt.Errorf("%s: %w", g.provider.DisplayName(), ErrMissingCredential)
	}

	g.clientOnce.Do(func() {
		if g.client == nil {
			g.client = NewOpenAIClient(g.apiKey, g.config.BaseURL, g.config.HTTPClient)
		}
	})
	return nil
}

// complete runs one chat call and wraps any failure as a *ProviderError
func (g *chatGenerator) complete(ctx context.Context, req ChatRequest) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	content, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ProviderError{Provider: g.provider, Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return "", &ProviderError{Provider: g.provider, Err: errors.New("empty response")}
	}
	return content, nil
}

func (g *chatGenerator) Provider() Provider { return g.provider }

// GeminiGenerator talks to Google Gemini. Everything, including recent
// history, is inlined into a single prompt.
type GeminiGenerator struct {
	chatGenerator
}

// NewGeminiGenerator creates a Gemini generator
func NewGeminiGenerator(apiKey string, config GeneratorConfig, prompts *PromptManager) *GeminiGenerator {
	return &GeminiGenerator{chatGenerator{
		provider: ProviderGemini,
		apiKey:   apiKey,
		config:   config,
		prompts:  prompts,
	}}
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if err := g.ensureClient(); err != nil {
		return "", err
	}

	prompt, err := g.prompts.Combined(req)
	if err != nil {
		return "", fmt.Errorf("creating prompt: %w", err)
	}

	return g.complete(ctx, ChatRequest{
		Model:    g.config.Model,
		Messages: []ChatMessage{{Role: string(RoleUser), Content: prompt}},
	})
}

// GroqGenerator talks to Groq with a structured message list
type GroqGenerator struct {
	chatGenerator
}

// NewGroqGenerator creates a Groq generator
func NewGroqGenerator(apiKey string, config GeneratorConfig, prompts *PromptManager) *GroqGenerator {
	return &GroqGenerator{chatGenerator{
		provider: ProviderGroq,
		apiKey:   apiKey,
		config:   config,
		prompts:  prompts,
	}}
}

// Generate implements Generator
func (g *GroqGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if err := g.ensureClient(); err != nil {
		return "", err
	}

	userMessage, err := g.prompts.UserMessage(req)
	if err != nil {
		return "", fmt.Errorf("creating prompt: %w", err)
	}

	history := LastTurns(req.History, HistoryWindow)
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: req.Instruction})
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: string(RoleUser), Content: userMessage})

	temperature := g.config.Temperature
	return g.complete(ctx, ChatRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   g.config.MaxTokens,
	})
}
