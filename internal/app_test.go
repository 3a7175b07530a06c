package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoID = "dQw4w9WgXcQ"

type fakeGenerator struct {
	provider Provider
	apiKey   string
	response string
	err      error
	requests *[]GenerationRequest
}

func (g *fakeGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	*g.requests = append(*g.requests, req)
	if g.err != nil {
		return "", &ProviderError{Provider: g.provider, Err: g.err}
	}
	return g.response, nil
}

func (g *fakeGenerator) Provider() Provider { return g.provider }

type testHarness struct {
	app      *App
	source   *fakeCaptionSource
	requests []GenerationRequest
	keys     []string
	response string
	err      error
}

func newTestHarness(t *testing.T, configure ...func(*Config)) *testHarness {
	t.Helper()

	config := DefaultConfig()
	config.GoogleAPIKey = "google-key"
	config.GroqAPIKey = "groq-key"
	config.ExportDir = t.TempDir()
	for _, fn := range configure {
		fn(config)
	}

	h := &testHarness{
		source: &fakeCaptionSource{fragments: map[string][]Fragment{
			testVideoID:   {{Text: "Hello"}, {Text: "world"}},
			"abc123XYZ_-": {{Text: "Second"}, {Text: "video"}},
		}},
		response: "# Notes",
	}

	app, err := NewApp(config,
		WithCaptionSource(h.source),
		WithUI(NewWriterUIManager(io.Discard, false, true)),
		WithGeneratorFactory(func(provider Provider, apiKey string) Generator {
			h.keys = append(h.keys, apiKey)
			return &fakeGenerator{provider: provider, apiKey: apiKey, response: h.response, err: h.err, requests: &h.requests}
		}),
	)
	require.NoError(t, err)
	h.app = app
	return h
}

func TestSubmitURLLoadsTranscript(t *testing.T) {
	h := newTestHarness(t)

	phase, err := h.app.SubmitURL(context.Background(), "https://www.youtube.com/watch?v="+testVideoID)
	require.NoError(t, err)
	assert.Equal(t, PhaseTranscriptReady, phase)
	assert.Equal(t, testVideoID, h.app.Session().VideoID)
	assert.Equal(t, "Hello world", h.app.Session().Transcript.Text)
}

func TestSubmitURLIsIdempotent(t *testing.T) {
	h := newTestHarness(t)
	url := "https://youtu.be/" + testVideoID

	_, err := h.app.SubmitURL(context.Background(), url)
	require.NoError(t, err)
	_, err = h.app.SubmitURL(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, 1, h.source.calls)
}

func TestSubmitURLRepeatedUnresolvable(t *testing.T) {
	h := newTestHarness(t)

	for i := 0; i < 2; i++ {
		phase, err := h.app.SubmitURL(context.Background(), "not a url")
		assert.ErrorIs(t, err, ErrInputUnresolvable)
		assert.Equal(t, PhaseEmpty, phase)
	}
	assert.Equal(t, 0, h.source.calls)
}

func TestSubmitURLRetriesAfterFailedFetch(t *testing.T) {
	h := newTestHarness(t)
	h.source.err = errors.New("HTTP Error 403: Forbidden")

	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.Error(t, err)

	_, err = h.app.SubmitURL(context.Background(), testVideoID)
	assert.Equal(t, KindTranscriptUnavailable, Kind(err))
	assert.Equal(t, 2, h.source.calls)

	h.source.err = nil
	phase, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	assert.Equal(t, PhaseTranscriptReady, phase)
	assert.Equal(t, 3, h.source.calls)

	_, err = h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	assert.Equal(t, 3, h.source.calls)
}

func TestSubmitURLUnresolvable(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	phase, err := h.app.SubmitURL(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInputUnresolvable)
	assert.Equal(t, PhaseEmpty, phase)
	assert.Empty(t, h.app.Session().VideoID)
	assert.Nil(t, h.app.Session().Transcript)
	assert.Equal(t, 1, h.source.calls)
}

func TestSubmitURLForbidden(t *testing.T) {
	h := newTestHarness(t)
	h.source.err = errors.New("HTTP Error 403: Forbidden")

	phase, err := h.app.SubmitURL(context.Background(), testVideoID)
	assert.Equal(t, PhaseTranscriptUnavailable, phase)

	var transcriptErr *TranscriptError
	require.ErrorAs(t, err, &transcriptErr)
	assert.Equal(t, ReasonAccessForbidden, transcriptErr.Reason)

	s := h.app.Session()
	assert.Equal(t, testVideoID, s.VideoID)
	assert.Nil(t, s.Transcript)

	_, err = h.app.GenerateNotes(context.Background(), StyleConcise)
	assert.Equal(t, KindTranscriptUnavailable, Kind(err))
	assert.Empty(t, h.requests)
}

func TestGenerateNotesEndToEnd(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	notes, err := h.app.GenerateNotes(context.Background(), StyleConcise)
	require.NoError(t, err)
	assert.Equal(t, "# Notes", notes.Content)
	assert.Equal(t, StyleConcise, notes.Style)
	assert.Equal(t, ProviderGemini, notes.Provider)

	require.Len(t, h.requests, 1)
	assert.Equal(t, h.app.Session().Styles.Resolve(StyleConcise), h.requests[0].Instruction)
	assert.Equal(t, "Hello world", h.requests[0].Transcript)
	assert.Empty(t, h.requests[0].Question)
	assert.Empty(t, h.requests[0].History)
	assert.Equal(t, []string{"google-key"}, h.keys)

	export, err := h.app.ExportNotes()
	require.NoError(t, err)
	assert.Equal(t, "notes_dQw4w9WgXcQ.md", export.Filename)
	assert.Equal(t, "text/markdown", export.MIMEType)
	assert.Equal(t, []byte("# Notes"), export.Data)

	assert.Equal(t, 0, h.app.Session().Conversation.Len())
}

func TestGenerateNotesUsesSelectedStyle(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	require.NoError(t, h.app.RegisterStyle("Flashcards", "Make flashcards."))
	require.NoError(t, h.app.SelectStyle("Flashcards"))

	notes, err := h.app.GenerateNotes(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Flashcards", notes.Style)
	assert.Equal(t, "Make flashcards.", h.requests[0].Instruction)

	assert.Error(t, h.app.SelectStyle("Nope"))
}

func TestGenerateNotesMissingCredential(t *testing.T) {
	h := newTestHarness(t, func(c *Config) { c.GroqAPIKey = "" })
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	h.app.SelectProvider(ProviderGroq)
	_, err = h.app.GenerateNotes(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, h.requests)

	h.app.SetCredential(" typed-key ")
	_, err = h.app.GenerateNotes(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"typed-key"}, h.keys)
}

func TestGenerateNotesWithoutVideo(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.app.GenerateNotes(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestAskAppendsHistory(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	for _, q := range []string{"q1", "q2", "q3"} {
		h.response = "answer to " + q
		_, err := h.app.Ask(context.Background(), q)
		require.NoError(t, err)
	}

	assert.Equal(t, 6, h.app.Session().Conversation.Len())
	last := h.requests[len(h.requests)-1]
	assert.Equal(t, "q3", last.Question)
	assert.Equal(t, QAInstruction, last.Instruction)
	assert.Equal(t, []Turn{
		{Role: RoleAssistant, Content: "answer to q1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "answer to q2"},
	}, last.History)
}

func TestAskFailureLeavesHistory(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	_, err = h.app.Ask(context.Background(), "q1")
	require.NoError(t, err)

	h.err = errors.New("rate limited")
	_, err = h.app.Ask(context.Background(), "q2")
	assert.Equal(t, KindProviderError, Kind(err))
	assert.Equal(t, 2, h.app.Session().Conversation.Len())
}

func TestAskEmptyQuestion(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)

	_, err = h.app.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, h.requests)
}

func TestHistoryKeptAcrossVideosByDefault(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	_, err = h.app.Ask(context.Background(), "q1")
	require.NoError(t, err)

	_, err = h.app.SubmitURL(context.Background(), "abc123XYZ_-")
	require.NoError(t, err)
	assert.Equal(t, 2, h.app.Session().Conversation.Len())
	assert.Nil(t, h.app.Session().LastNotes)
}

func TestHistoryClearedOnNewVideo(t *testing.T) {
	h := newTestHarness(t, func(c *Config) { c.ClearHistoryOnNewVideo = true })
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	_, err = h.app.Ask(context.Background(), "q1")
	require.NoError(t, err)

	_, err = h.app.SubmitURL(context.Background(), "https://youtu.be/"+testVideoID)
	require.NoError(t, err)
	assert.Equal(t, 2, h.app.Session().Conversation.Len())

	_, err = h.app.SubmitURL(context.Background(), "abc123XYZ_-")
	require.NoError(t, err)
	assert.Equal(t, 0, h.app.Session().Conversation.Len())
}

func TestClearConversation(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	_, err = h.app.Ask(context.Background(), "q1")
	require.NoError(t, err)

	h.app.ClearConversation()
	assert.Equal(t, 0, h.app.Session().Conversation.Len())
	assert.Equal(t, PhaseTranscriptReady, h.app.Phase())
}

func TestSaveNotes(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.app.SaveNotes("")
	assert.ErrorIs(t, err, ErrNoNotes)

	_, err = h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	_, err = h.app.GenerateNotes(context.Background(), "")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := h.app.SaveNotes(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes_dQw4w9WgXcQ.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes", string(data))
}

func TestNewSessionResetsState(t *testing.T) {
	h := newTestHarness(t)
	_, err := h.app.SubmitURL(context.Background(), testVideoID)
	require.NoError(t, err)
	require.NoError(t, h.app.RegisterStyle("Flashcards", "Make flashcards."))

	require.NoError(t, h.app.NewSession())
	assert.Equal(t, PhaseEmpty, h.app.Phase())
	assert.Len(t, h.app.Session().Styles.Names(), 5)
	assert.Equal(t, StyleDetailed, h.app.Session().Style)
}
