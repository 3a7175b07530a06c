package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const transcriptPreviewChars = 1200

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

const replHelp = `Commands:
  <url>                      load a YouTube video (URL or 11 character ID)
  /provider [gemini|groq]    show or select the AI provider
  /key [value]               enter the API key for the selected provider
  /style [name]              show or select the note style
  /styles                    list note styles
  /newstyle NAME | DESC      create a custom note style
  /notes [style]             generate notes for the loaded video
  /ask QUESTION              ask a question about the video
  /history                   show the conversation
  /clear                     clear the conversation
  /save [dir]                save the last notes as notes_<id>.md
  /copy                      copy the last notes to the clipboard
  /transcript                show the start of the transcript
  /info                      show the loaded video
  /help                      show this help
  /quit                      end the session`

// REPL is the interactive terminal driver for an App session
type REPL struct {
	app        *App
	in         *bufio.Scanner
	out        io.Writer
	readSecret func() (string, error)
	copyText   func(string) error
	render     func(string) string
}

// REPLOption customizes a REPL
type REPLOption func(*REPL)

// WithSecretReader sets how masked input (API keys) is read
func WithSecretReader(read func() (string, error)) REPLOption {
	return func(r *REPL) { r.readSecret = read }
}

// WithClipboard sets how notes are copied
func WithClipboard(copyText func(string) error) REPLOption {
	return func(r *REPL) { r.copyText = copyText }
}

// WithRenderer sets how markdown is displayed
func WithRenderer(render func(string) string) REPLOption {
	return func(r *REPL) { r.render = render }
}

// NewREPL creates a session driver reading commands from in
func NewREPL(app *App, in io.Reader, out io.Writer, options ...REPLOption) *REPL {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	r := &REPL{
		app:    app,
		in:     scanner,
		out:    out,
		render: func(s string) string { return s },
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Run processes commands until /quit, end of input or context cancellation
func (r *REPL) Run(ctx context.Context) error {
	s := r.app.Session()
	r.printf("%s\n", headerStyle.Render("YouTube Transcript to Notes"))
	r.printf("Provider: %s | Style: %s | /help for commands\n", s.Provider.DisplayName(), s.Style)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.printf("> ")
		if !r.in.Scan() {
			r.printf("\n")
			return r.in.Err()
		}
		if quit := r.Handle(ctx, r.in.Text()); quit {
			return nil
		}
	}
}

// Handle executes one input line and reports whether the session should end
func (r *REPL) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, "/") {
		r.submit(ctx, line)
		return false
	}

	command, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "url":
		r.submit(ctx, arg)
	case "provider":
		r.provider(arg)
	case "key":
		r.key(arg)
	case "style":
		r.style(arg)
	case "styles":
		r.styles()
	case "newstyle":
		r.newStyle(arg)
	case "notes":
		r.notes(ctx, arg)
	case "ask":
		r.ask(ctx, arg)
	case "history":
		r.history()
	case "clear":
		r.app.ClearConversation()
		r.success("Conversation cleared")
	case "save":
		r.save(arg)
	case "copy":
		r.copyNotes()
	case "transcript":
		r.transcript()
	case "info":
		r.info()
	case "help":
		r.printf("%s\n", replHelp)
	case "quit", "exit", "q":
		return true
	default:
		r.warn(fmt.Sprintf("Unknown command /%s (try /help)", command))
	}
	return false
}

func (r *REPL) submit(ctx context.Context, input string) {
	phase, err := r.app.SubmitURL(ctx, input)
	if errors.Is(err, ErrInputUnresolvable) {
		r.fail(err)
		return
	}

	r.info()
	if err != nil {
		r.fail(err)
		return
	}
	if phase == PhaseTranscriptReady {
		transcript := r.app.Session().Transcript
		r.success(fmt.Sprintf("Transcript loaded (%d characters)", len(transcript.Text)))
	}
}

func (r *REPL) info() {
	s := r.app.Session()
	if s.VideoID == "" {
		r.printf("No video loaded\n")
		return
	}
	r.printf("%s %s\n", headerStyle.Render("Video ID:"), s.VideoID)
	r.printf("Thumbnail: %s\n", ThumbnailURL(s.VideoID))
	r.printf("Open video on YouTube: %s\n", WatchURL(s.VideoID))
	r.printf("%s\n", dimStyle.Render("Status: "+s.Phase().String()))
}

func (r *REPL) provider(arg string) {
	if arg == "" {
		r.printf("Provider: %s\n", r.app.Session().Provider.DisplayName())
		return
	}
	p, err := ParseProvider(arg)
	if err != nil {
		r.fail(err)
		return
	}
	r.app.SelectProvider(p)
	r.success("Provider set to " + p.DisplayName())
	if r.app.Session().Credential(p) == "" {
		r.warn(fmt.Sprintf("No API key for %s yet; use /key or set %s", p.DisplayName(), p.EnvKey()))
	}
}

func (r *REPL) key(arg string) {
	key := arg
	if key == "" {
		r.printf("Enter your %s API key: ", r.app.Session().Provider.DisplayName())
		secret, err := r.secret()
		if err != nil {
			r.fail(fmt.Errorf("reading API key: %w", err))
			return
		}
		key = secret
	}
	if strings.TrimSpace(key) == "" {
		r.fail(ErrMissingCredential)
		return
	}
	r.app.SetCredential(key)
	r.success("API key set")
}

// secret reads masked input, or the next line when no secret reader is set
func (r *REPL) secret() (string, error) {
	if r.readSecret != nil {
		return r.readSecret()
	}
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}

func (r *REPL) style(arg string) {
	if arg == "" {
		r.printf("Style: %s\n", r.app.Session().Style)
		return
	}
	if err := r.app.SelectStyle(arg); err != nil {
		r.fail(err)
		return
	}
	r.success("Style set to " + arg)
}

func (r *REPL) styles() {
	s := r.app.Session()
	for _, style := range s.Styles.Styles() {
		marker := "  "
		if style.Name == s.Style {
			marker = "* "
		}
		kind := "custom"
		if style.BuiltIn {
			kind = "built-in"
		}
		r.printf("%s%s %s\n", marker, style.Name, dimStyle.Render("("+kind+")"))
	}
}

func (r *REPL) newStyle(arg string) {
	name, description, _ := strings.Cut(arg, "|")
	if err := r.app.RegisterStyle(name, description); err != nil {
		r.fail(err)
		return
	}
	r.success(fmt.Sprintf("Custom style '%s' saved", strings.TrimSpace(name)))
}

func (r *REPL) notes(ctx context.Context, style string) {
	notes, err := r.app.GenerateNotes(ctx, style)
	if err != nil {
		r.fail(err)
		return
	}
	r.success(fmt.Sprintf("Successfully generated %s notes!", notes.Style))
	r.printf("%s\n", r.render(notes.Content))
	r.printf("%s\n", dimStyle.Render("Use /save to write "+ExportFilename(notes.VideoID)+" or /copy to copy the markdown"))
}

func (r *REPL) ask(ctx context.Context, question string) {
	answer, err := r.app.Ask(ctx, question)
	if err != nil {
		r.fail(err)
		return
	}
	r.printf("%s\n", r.render(answer))
}

func (r *REPL) history() {
	turns := r.app.Session().Conversation.Turns()
	if len(turns) == 0 {
		r.printf("No conversation yet\n")
		return
	}
	for _, turn := range turns {
		label := "You"
		if turn.Role == RoleAssistant {
			label = "Assistant"
		}
		r.printf("%s %s\n", headerStyle.Render(label+":"), turn.Content)
	}
}

func (r *REPL) save(dir string) {
	path, err := r.app.SaveNotes(dir)
	if err != nil {
		r.fail(err)
		return
	}
	r.success("Notes saved to " + path)
}

func (r *REPL) copyNotes() {
	export, err := r.app.ExportNotes()
	if err != nil {
		r.fail(err)
		return
	}
	if r.copyText == nil {
		r.warn("Clipboard is not available")
		return
	}
	if err := r.copyText(string(export.Data)); err != nil {
		r.fail(fmt.Errorf("copying notes to clipboard: %w", err))
		return
	}
	r.success("Notes copied to clipboard")
}

func (r *REPL) transcript() {
	transcript := r.app.Session().Transcript
	if transcript == nil {
		r.fail(ErrNoTranscript)
		return
	}
	preview := truncate.StringWithTail(transcript.Text, transcriptPreviewChars, "...")
	r.printf("%s\n", wordwrap.String(preview, 80))
}

func (r *REPL) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *REPL) success(msg string) {
	r.printf("%s\n", successStyle.Render(msg))
}

func (r *REPL) warn(msg string) {
	r.printf("%s\n", warnStyle.Render(msg))
}

// fail shows err using the single user-facing error conversion
func (r *REPL) fail(err error) {
	msg := UserMessage(err)
	if IsWarning(err) {
		r.warn(msg)
		return
	}
	r.printf("%s\n", errorStyle.Render(msg))
}
