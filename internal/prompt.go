package internal

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// QAInstruction is the instruction used when answering questions about a transcript
const QAInstruction = `You are a helpful assistant answering questions about a YouTube video using its transcript.
Answer accurately and concisely using only information from the transcript. If the transcript
does not contain the answer, say so. Format the answer in markdown.`

const notesUserTemplate = `Generate notes for this transcript: {{.Transcript}}`

const questionUserTemplate = `Transcript: {{.Transcript}}

Question: {{.Question}}`

// PromptData for template injection
type PromptData struct {
	Instruction string
	Transcript  string
	Question    string
	History     []Turn
}

var promptFuncs = template.FuncMap{
	"roleLabel": func(r Role) string {
		if r == RoleAssistant {
			return "Assistant"
		}
		return "User"
	},
}

// PromptManager renders the text sent to providers
type PromptManager struct {
	combined *template.Template
	notes    *template.Template
	question *template.Template
}

// NewPromptManager creates a prompt manager. promptSetting optionally replaces
// the combined prompt template and may be a template string or a file path.
func NewPromptManager(promptSetting string) (*PromptManager, error) {
	combinedContent, err := defaultFS.ReadFile("prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("reading embedded prompt template: %w", err)
	}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			combinedContent, err = os.ReadFile(promptSetting)
			if err != nil {
				return nil, fmt.Errorf("reading prompt template: %w", err)
			}
		} else {
			combinedContent = []byte(promptSetting)
		}
	}

	pm := &PromptManager{}
	if pm.combined, err = template.New("combined").Funcs(promptFuncs).Parse(string(combinedContent)); err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	pm.notes = template.Must(template.New("notes").Parse(notesUserTemplate))
	pm.question = template.Must(template.New("question").Parse(questionUserTemplate))
	return pm, nil
}

// Combined renders a single prompt carrying instruction, transcript, history and question
func (pm *PromptManager) Combined(req GenerationRequest) (string, error) {
	prompt, err := execute(pm.combined, dataFor(req))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(prompt), nil
}

// UserMessage renders the final user message of a chat request
func (pm *PromptManager) UserMessage(req GenerationRequest) (string, error) {
	if req.Question != "" {
		return execute(pm.question, dataFor(req))
	}
	return execute(pm.notes, dataFor(req))
}

func dataFor(req GenerationRequest) PromptData {
	return PromptData{
		Instruction: req.Instruction,
		Transcript:  req.Transcript,
		Question:    req.Question,
		History:     LastTurns(req.History, HistoryWindow),
	}
}

func execute(tmpl *template.Template, data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "{{") {
		return false
	}

	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// If it's longer than 200 characters, it's likely a prompt string
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
