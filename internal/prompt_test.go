package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedPromptNotes(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)

	prompt, err := pm.Combined(GenerationRequest{Instruction: "Be brief.", Transcript: "Hello world"})
	require.NoError(t, err)

	assert.Equal(t, "System Prompt: Be brief.\n\nTranscript: Hello world", prompt)
}

func TestCombinedPromptWithHistory(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)

	history := []Turn{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "a2"},
	}
	prompt, err := pm.Combined(GenerationRequest{
		Instruction: QAInstruction,
		Transcript:  "Hello world",
		Question:    "What was said?",
		History:     history,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Previous conversation:\nAssistant: a1\nUser: q2\nAssistant: a2")
	assert.NotContains(t, prompt, "q1")
	assert.True(t, strings.HasSuffix(prompt, "Question: What was said?"))
}

func TestPromptUserMessage(t *testing.T) {
	pm, err := NewPromptManager("")
	require.NoError(t, err)

	msg, err := pm.UserMessage(GenerationRequest{Transcript: "Hello world"})
	require.NoError(t, err)
	assert.Equal(t, "Generate notes for this transcript: Hello world", msg)

	msg, err = pm.UserMessage(GenerationRequest{Transcript: "Hello world", Question: "Who?"})
	require.NoError(t, err)
	assert.Equal(t, "Transcript: Hello world\n\nQuestion: Who?", msg)
}

func TestCustomPromptTemplate(t *testing.T) {
	pm, err := NewPromptManager("tldr: {{.Transcript}}")
	require.NoError(t, err)

	prompt, err := pm.Combined(GenerationRequest{Transcript: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "tldr: Hello", prompt)
}

func TestCustomPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("{{.Instruction}} | {{.Transcript}}"), 0644))

	pm, err := NewPromptManager(path)
	require.NoError(t, err)

	prompt, err := pm.Combined(GenerationRequest{Instruction: "I", Transcript: "T"})
	require.NoError(t, err)
	assert.Equal(t, "I | T", prompt)
}

func TestInvalidPromptTemplate(t *testing.T) {
	_, err := NewPromptManager("{{.Transcript")
	assert.Error(t, err)
}

func TestIsLikelyFilePath(t *testing.T) {
	assert.True(t, IsLikelyFilePath("/tmp/prompt.txt"))
	assert.True(t, IsLikelyFilePath("prompt.tmpl"))
	assert.False(t, IsLikelyFilePath("tldr: {{.Transcript}}"))
	assert.False(t, IsLikelyFilePath("summarize this please"))
}
