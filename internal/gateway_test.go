package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	response string
	err      error
	requests []ChatRequest
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testPrompts(t *testing.T) *PromptManager {
	t.Helper()
	pm, err := NewPromptManager("")
	require.NoError(t, err)
	return pm
}

func fiveTurns() []Turn {
	return []Turn{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "a2"},
		{Role: RoleUser, Content: "q3"},
	}
}

func TestGroqGeneratorMessages(t *testing.T) {
	client := &fakeChatClient{response: "answer"}
	g := NewGroqGenerator("key", DefaultConfig().GeneratorConfig(ProviderGroq), testPrompts(t))
	g.client = client

	out, err := g.Generate(context.Background(), GenerationRequest{
		Instruction: QAInstruction,
		Transcript:  "Hello world",
		Question:    "What?",
		History:     fiveTurns(),
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", out)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "llama3-70b-8192", req.Model)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.7, *req.Temperature, 1e-9)
	assert.Equal(t, int64(4000), req.MaxTokens)

	require.Len(t, req.Messages, 5)
	assert.Equal(t, ChatMessage{Role: "system", Content: QAInstruction}, req.Messages[0])
	assert.Equal(t, ChatMessage{Role: "user", Content: "q2"}, req.Messages[1])
	assert.Equal(t, ChatMessage{Role: "assistant", Content: "a2"}, req.Messages[2])
	assert.Equal(t, ChatMessage{Role: "user", Content: "q3"}, req.Messages[3])
	assert.Equal(t, ChatMessage{Role: "user", Content: "Transcript: Hello world\n\nQuestion: What?"}, req.Messages[4])
}

func TestGroqGeneratorNotesMessage(t *testing.T) {
	client := &fakeChatClient{response: "# Notes"}
	g := NewGroqGenerator("key", DefaultConfig().GeneratorConfig(ProviderGroq), testPrompts(t))
	g.client = client

	_, err := g.Generate(context.Background(), GenerationRequest{Instruction: "Be brief.", Transcript: "Hello world"})
	require.NoError(t, err)

	req := client.requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "Generate notes for this transcript: Hello world", req.Messages[1].Content)
}

func TestGeminiGeneratorSinglePrompt(t *testing.T) {
	client := &fakeChatClient{response: "answer"}
	g := NewGeminiGenerator("key", DefaultConfig().GeneratorConfig(ProviderGemini), testPrompts(t))
	g.client = client

	_, err := g.Generate(context.Background(), GenerationRequest{
		Instruction: QAInstruction,
		Transcript:  "Hello world",
		Question:    "What?",
		History:     fiveTurns(),
	})
	require.NoError(t, err)

	req := client.requests[0]
	assert.Equal(t, "gemini-2.0-flash-001", req.Model)
	assert.Nil(t, req.Temperature)
	require.Len(t, req.Messages, 1)

	prompt := req.Messages[0].Content
	assert.True(t, strings.HasPrefix(prompt, "System Prompt: "+QAInstruction))
	assert.Contains(t, prompt, "User: q2\nAssistant: a2\nUser: q3")
	assert.NotContains(t, prompt, "q1")
	assert.NotContains(t, prompt, "a1")
	assert.Contains(t, prompt, "Question: What?")
}

func TestGeneratorMissingCredential(t *testing.T) {
	for _, provider := range Providers {
		t.Run(provider.String(), func(t *testing.T) {
			factory := NewGeneratorFactory(DefaultConfig(), testPrompts(t))
			g := factory(provider, "  ")
			assert.Equal(t, provider, g.Provider())

			_, err := g.Generate(context.Background(), GenerationRequest{Instruction: "x", Transcript: "y"})
			assert.ErrorIs(t, err, ErrMissingCredential)
			assert.Equal(t, KindMissingCredential, Kind(err))
		})
	}
}

func TestGeneratorProviderError(t *testing.T) {
	client := &fakeChatClient{err: errors.New("429 Too Many Requests")}
	g := NewGroqGenerator("key", DefaultConfig().GeneratorConfig(ProviderGroq), testPrompts(t))
	g.client = client

	_, err := g.Generate(context.Background(), GenerationRequest{Instruction: "x", Transcript: "y"})

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, ProviderGroq, providerErr.Provider)
	assert.Equal(t, "Error with Groq API: 429 Too Many Requests", UserMessage(err))
	assert.Len(t, client.requests, 1)
}

func TestGeneratorEmptyResponse(t *testing.T) {
	g := NewGeminiGenerator("key", DefaultConfig().GeneratorConfig(ProviderGemini), testPrompts(t))
	g.client = &fakeChatClient{response: "  "}

	_, err := g.Generate(context.Background(), GenerationRequest{Instruction: "x", Transcript: "y"})
	assert.Equal(t, KindProviderError, Kind(err))
}

func chatCompletionJSON(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestGroqGeneratorOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer groq-key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}

		var payload struct {
			Model       string   `json:"model"`
			Temperature *float64 `json:"temperature"`
			MaxTokens   int64    `json:"max_tokens"`
			Messages    []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "llama3-70b-8192" {
			t.Fatalf("expected model llama3-70b-8192, got %s", payload.Model)
		}
		if payload.Temperature == nil || *payload.Temperature != 0.7 {
			t.Fatalf("expected temperature 0.7, got %v", payload.Temperature)
		}
		if payload.MaxTokens != 4000 {
			t.Fatalf("expected max_tokens 4000, got %d", payload.MaxTokens)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionJSON("# Notes"))
	}))
	defer server.Close()

	cfg := DefaultConfig().GeneratorConfig(ProviderGroq)
	cfg.BaseURL = server.URL + "/"
	cfg.HTTPClient = server.Client()

	out, err := NewGroqGenerator("groq-key", cfg, testPrompts(t)).Generate(context.Background(), GenerationRequest{
		Instruction: "Be brief.",
		Transcript:  "Hello world",
	})
	require.NoError(t, err)
	assert.Equal(t, "# Notes", out)
}

func TestGeminiGeneratorOverHTTPFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer server.Close()

	cfg := DefaultConfig().GeneratorConfig(ProviderGemini)
	cfg.BaseURL = server.URL + "/"
	cfg.HTTPClient = server.Client()

	_, err := NewGeminiGenerator("gemini-key", cfg, testPrompts(t)).Generate(context.Background(), GenerationRequest{
		Instruction: "Be brief.",
		Transcript:  "Hello world",
	})
	assert.Equal(t, KindProviderError, Kind(err))
	assert.Equal(t, 1, calls)
}

func TestGeneratorTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := DefaultConfig().GeneratorConfig(ProviderGroq)
	cfg.BaseURL = server.URL + "/"
	cfg.HTTPClient = server.Client()
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewGroqGenerator("key", cfg, testPrompts(t)).Generate(context.Background(), GenerationRequest{
		Instruction: "x",
		Transcript:  "y",
	})
	assert.Equal(t, KindProviderError, Kind(err))
}
