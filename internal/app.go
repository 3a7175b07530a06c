package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// App wires URL → transcript → style → generator and owns the session state
type App struct {
	fetcher      *TranscriptFetcher
	youtube      *YouTube
	newGenerator GeneratorFactory
	prompts      *PromptManager
	config       *Config
	ui           UIManager
	session      *Session
}

// NewApp initializes the application and starts a session
func NewApp(config *Config, options ...AppOption) (*App, error) {
	prompts, err := NewPromptManager(config.Prompt)
	if err != nil {
		return nil, err
	}

	youtube := NewYouTube(config.CaptionLanguages, config.TempDir, config.Verbose)
	app := &App{
		fetcher:      NewTranscriptFetcher(youtube),
		youtube:      youtube,
		newGenerator: NewGeneratorFactory(config, prompts),
		prompts:      prompts,
		config:       config,
		ui:           NewUIManager(config.Verbose, config.Quiet),
	}

	for _, option := range options {
		option(app)
	}

	if err := app.NewSession(); err != nil {
		return nil, err
	}
	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithCaptionSource sets a custom captioning service
func WithCaptionSource(source CaptionSource) AppOption {
	return func(a *App) {
		a.fetcher = NewTranscriptFetcher(source)
	}
}

// WithGeneratorFactory sets how generators are built
func WithGeneratorFactory(factory GeneratorFactory) AppOption {
	return func(a *App) {
		a.newGenerator = factory
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// NewSession discards the current session and starts an empty one
func (app *App) NewSession() error {
	provider, err := ParseProvider(app.config.Provider)
	if err != nil {
		return err
	}

	defaults := make(map[Provider]string, len(Providers))
	for _, p := range Providers {
		defaults[p] = app.config.Credential(p)
	}

	style := app.config.Style
	if style == "" {
		style = StyleDetailed
	}
	app.session = NewSession(provider, style, defaults)
	return nil
}

// SetPromptManager replaces the prompt templates used for generation
func (app *App) SetPromptManager(prompts *PromptManager) {
	app.prompts = prompts
	app.newGenerator = NewGeneratorFactory(app.config, prompts)
}

// Session returns the current session state
func (app *App) Session() *Session {
	return app.session
}

// Phase reports the current session phase
func (app *App) Phase() Phase {
	return app.session.Phase()
}

// YouTube returns the yt-dlp backed caption source
func (app *App) YouTube() *YouTube {
	return app.youtube
}

// SubmitURL resolves input and fetches its transcript. Submitting the same
// input again while its transcript is loaded is a no-op; after a failure the
// same input is resolved and fetched again.
func (app *App) SubmitURL(ctx context.Context, input string) (Phase, error) {
	s := app.session
	input = strings.TrimSpace(input)

	if input != "" && input == s.LastInput && s.Phase() == PhaseTranscriptReady {
		app.ui.Verbose("Input unchanged, keeping current transcript\n")
		return s.Phase(), nil
	}
	s.LastInput = input

	videoID, ok := ResolveVideoID(input)
	if !ok {
		s.resetVideo()
		return s.Phase(), ErrInputUnresolvable
	}

	if app.config.ClearHistoryOnNewVideo && s.VideoID != "" && s.VideoID != videoID {
		app.ui.Verbose("New video, clearing conversation history\n")
		s.Conversation.Clear()
	}
	s.resetVideo()
	s.VideoID = videoID

	spinner := app.ui.NewSpinner("Fetching transcript...")
	app.ui.Verbose("Fetching transcript for %s\n", videoID)
	transcript, err := app.fetcher.Fetch(ctx, videoID)
	spinner.Finish()
	if err != nil {
		s.FetchErr = err
		return s.Phase(), err
	}

	app.ui.Verbose("Transcript has %d fragments (%d characters)\n", len(transcript.Fragments), len(transcript.Text))
	s.Transcript = transcript
	return s.Phase(), nil
}

// GenerateNotes creates notes for the loaded transcript in the given style.
// An empty style uses the session's selected style. Conversation history is untouched.
func (app *App) GenerateNotes(ctx context.Context, style string) (*Notes, error) {
	s := app.session
	if style == "" {
		style = s.Style
	}

	generator, err := app.generator()
	if err != nil {
		return nil, err
	}
	transcript, err := app.requireTranscript()
	if err != nil {
		return nil, err
	}

	spinner := app.ui.NewSpinner(fmt.Sprintf("Generating %s notes with %s...", style, s.Provider.DisplayName()))
	content, err := generator.Generate(ctx, GenerationRequest{
		Instruction: s.Styles.Resolve(style),
		Transcript:  transcript.Text,
	})
	spinner.Finish()
	if err != nil {
		return nil, err
	}

	notes := &Notes{
		VideoID:  transcript.VideoID,
		Style:    style,
		Provider: s.Provider,
		Content:  content,
	}
	s.LastNotes = notes
	return notes, nil
}

// Ask answers a question about the loaded transcript. The question and the
// answer are added to the history only when generation succeeds.
func (app *App) Ask(ctx context.Context, question string) (string, error) {
	s := app.session
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	generator, err := app.generator()
	if err != nil {
		return "", err
	}
	transcript, err := app.requireTranscript()
	if err != nil {
		return "", err
	}

	spinner := app.ui.NewSpinner("Thinking...")
	answer, err := generator.Generate(ctx, GenerationRequest{
		Instruction: QAInstruction,
		Transcript:  transcript.Text,
		Question:    question,
		History:     s.Conversation.LastN(HistoryWindow),
	})
	spinner.Finish()
	if err != nil {
		return "", err
	}

	s.Conversation.Append(Turn{Role: RoleUser, Content: question})
	s.Conversation.Append(Turn{Role: RoleAssistant, Content: answer})
	return answer, nil
}

// ClearConversation drops the Q&A history
func (app *App) ClearConversation() {
	app.session.Conversation.Clear()
}

// RegisterStyle adds or replaces a custom style
func (app *App) RegisterStyle(name, description string) error {
	return app.session.Styles.Register(name, description)
}

// LoadStyles registers the custom styles found in a YAML file
func (app *App) LoadStyles(path string) error {
	return app.session.Styles.LoadStyles(path)
}

// SelectStyle makes name the default style for note generation
func (app *App) SelectStyle(name string) error {
	name = strings.TrimSpace(name)
	if !slices.Contains(app.session.Styles.Names(), name) {
		return fmt.Errorf("unknown style %q (available: %s)", name, strings.Join(app.session.Styles.Names(), ", "))
	}
	app.session.Style = name
	return nil
}

// SelectProvider switches the provider used for generation
func (app *App) SelectProvider(p Provider) {
	app.session.Provider = p
}

// SetCredential overrides the API key of the selected provider
func (app *App) SetCredential(key string) {
	app.session.SetCredential(app.session.Provider, strings.TrimSpace(key))
}

// ExportNotes packages the last generated notes as a markdown download
func (app *App) ExportNotes() (*Export, error) {
	notes := app.session.LastNotes
	if notes == nil {
		return nil, ErrNoNotes
	}
	return NewExport(notes), nil
}

// SaveNotes writes the last generated notes into dir and returns the file path.
// An empty dir uses the configured export directory.
func (app *App) SaveNotes(dir string) (string, error) {
	export, err := app.ExportNotes()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = app.config.ExportDir
	}
	if err := EnsureDirs(dir); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, export.Filename)
	if err := os.WriteFile(path, export.Data, 0644); err != nil {
		return "", fmt.Errorf("saving notes: %w", err)
	}
	return path, nil
}

// generator builds the generator for the selected provider and its credential
func (app *App) generator() (Generator, error) {
	s := app.session
	key := s.Credential(s.Provider)
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%s: %w", s.Provider.DisplayName(), ErrMissingCredential)
	}
	return app.newGenerator(s.Provider, key), nil
}

// requireTranscript returns the loaded transcript or the reason there is none
func (app *App) requireTranscript() (*Transcript, error) {
	s := app.session
	if s.Transcript != nil && s.Transcript.Text != "" {
		return s.Transcript, nil
	}
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return nil, ErrNoTranscript
}
