package internal

import (
	"fmt"
	"strings"
)

// Phase represents where the session is in the URL → transcript flow
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseTranscriptReady
	PhaseTranscriptUnavailable
)

// String returns a human-readable representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseTranscriptReady:
		return "transcript ready"
	case PhaseTranscriptUnavailable:
		return "transcript unavailable"
	default:
		return "empty"
	}
}

// Provider identifies the hosted LLM used for generation
type Provider int

const (
	ProviderGemini Provider = iota
	ProviderGroq
)

// Providers lists every selectable provider in display order
var Providers = []Provider{ProviderGemini, ProviderGroq}

// String returns the short name used in flags and config
func (p Provider) String() string {
	switch p {
	case ProviderGroq:
		return "groq"
	default:
		return "gemini"
	}
}

// DisplayName returns the name shown to users
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGroq:
		return "Groq"
	default:
		return "Google Gemini"
	}
}

// EnvKey returns the environment variable holding the provider's default credential
func (p Provider) EnvKey() string {
	switch p {
	case ProviderGroq:
		return "GROQ_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// ParseProvider maps a flag or config value to a Provider
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "google", "google gemini":
		return ProviderGemini, nil
	case "groq":
		return ProviderGroq, nil
	default:
		return ProviderGemini, fmt.Errorf("unsupported provider: %q (supported: gemini, groq)", s)
	}
}

// Role tags a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the Q&A history
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest is what a Generator needs to produce text.
// An empty Question means the request asks for notes.
type GenerationRequest struct {
	Instruction string
	Transcript  string
	Question    string
	History     []Turn
}

// Notes is the result of a successful note generation
type Notes struct {
	VideoID  string
	Style    string
	Provider Provider
	Content  string
}
