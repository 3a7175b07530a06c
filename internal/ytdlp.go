package internal

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"
)

// Fragment is one timed caption line as returned by the captioning service
type Fragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// CaptionSource is the external captioning service
type CaptionSource interface {
	Captions(ctx context.Context, videoID string) ([]Fragment, error)
}

// CaptionErrorCode is a structured failure reported by a CaptionSource
type CaptionErrorCode int

const (
	CaptionNotFound CaptionErrorCode = iota + 1
	CaptionLanguageMissing
	CaptionForbidden
)

// CaptionError lets a CaptionSource report why captions could not be retrieved
// without callers having to inspect error text
type CaptionError struct {
	Code CaptionErrorCode
	Err  error
}

func (e *CaptionError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	switch e.Code {
	case CaptionNotFound:
		return "no captions available"
	case CaptionLanguageMissing:
		return "no captions in requested language"
	case CaptionForbidden:
		return "access forbidden"
	default:
		return "caption error"
	}
}

func (e *CaptionError) Unwrap() error { return e.Err }

// VideoMetadata contains the parts of yt-dlp's info JSON the notes tool uses
type VideoMetadata struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Channel           string           `json:"channel"`
	Duration          float64          `json:"duration"`
	Subtitles         map[string][]any `json:"subtitles"`
	AutomaticCaptions map[string][]any `json:"automatic_captions"`
}

// HasCaptions reports whether any manual or automatic captions exist
func (m *VideoMetadata) HasCaptions() bool {
	return len(m.Subtitles) > 0 || len(m.AutomaticCaptions) > 0
}

// CaptionLanguages returns every caption language code, manual first
func (m *VideoMetadata) CaptionLanguages() []string {
	var langs []string
	for lang := range m.Subtitles {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	var auto []string
	for lang := range m.AutomaticCaptions {
		if !slices.Contains(langs, lang) {
			auto = append(auto, lang)
		}
	}
	slices.Sort(auto)
	return append(langs, auto...)
}

// HasLanguage reports whether captions exist for any of the requested languages.
// A requested "en" also matches regional variants such as "en-US".
func (m *VideoMetadata) HasLanguage(languages []string) bool {
	for _, lang := range m.CaptionLanguages() {
		for _, want := range languages {
			if lang == want || strings.HasPrefix(lang, want+"-") {
				return true
			}
		}
	}
	return false
}

// YouTube fetches captions and metadata through yt-dlp
type YouTube struct {
	languages   []string
	tempDir     string
	verbose     bool
	installOnce sync.Once
	installErr  error
}

// NewYouTube creates a caption source backed by yt-dlp
func NewYouTube(languages []string, tempDir string, verbose bool) *YouTube {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	return &YouTube{
		languages: languages,
		tempDir:   tempDir,
		verbose:   verbose,
	}
}

// ensureInstalled downloads the yt-dlp binary on first use
func (yt *YouTube) ensureInstalled(ctx context.Context) error {
	yt.installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			yt.installErr = fmt.Errorf("installing yt-dlp: %w", err)
		}
	})
	return yt.installErr
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	if err := yt.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	if yt.verbose {
		fmt.Printf("Extracting metadata for %s...\n", videoID)
	}

	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		return nil, ytdlpError("extracting video metadata", result, err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	if yt.verbose {
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Caption languages: %s\n", strings.Join(metadata.CaptionLanguages(), ", "))
	}

	return &metadata, nil
}

// Captions implements CaptionSource: it checks caption availability, downloads
// the timed-text track for the configured languages and parses it into fragments
func (yt *YouTube) Captions(ctx context.Context, videoID string) ([]Fragment, error) {
	metadata, err := yt.Metadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	// Skip the download when the metadata already tells us it would fail
	if !metadata.HasCaptions() {
		return nil, &CaptionError{Code: CaptionNotFound}
	}
	if !metadata.HasLanguage(yt.languages) {
		return nil, &CaptionError{
			Code: CaptionLanguageMissing,
			Err: fmt.Errorf("no captions in %s (available: %s)",
				strings.Join(yt.languages, ", "), strings.Join(metadata.CaptionLanguages(), ", ")),
		}
	}

	path, err := yt.downloadTimedText(ctx, videoID)
	if err != nil {
		return nil, err
	}
	defer cleanupFiles(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading caption file: %w", err)
	}

	return parseTimedText(content)
}

// downloadTimedText writes the srv1 caption track into the temp dir and returns its path
func (yt *YouTube) downloadTimedText(ctx context.Context, videoID string) (string, error) {
	if err := EnsureDirs(yt.tempDir); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	dl := ytdlp.New().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(strings.Join(yt.languages, ",")).
		SubFormat("srv1").
		SkipDownload().
		Output(filepath.Join(yt.tempDir, "%(id)s"))

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		return "", ytdlpError("downloading captions", result, err)
	}

	pattern := filepath.Join(yt.tempDir, videoID+"*.srv1")
	files, err := filepath.Glob(pattern)
	if err != nil || len(files) == 0 {
		if yt.verbose {
			fmt.Printf("Searched for pattern: %s\n", pattern)
		}
		return "", &CaptionError{Code: CaptionNotFound, Err: errors.New("no caption files found after download")}
	}

	// Prefer the first requested language when several tracks were written
	for _, lang := range yt.languages {
		for _, f := range files {
			if strings.Contains(filepath.Base(f), "."+lang+".") {
				cleanupFiles(slices.DeleteFunc(slices.Clone(files), func(s string) bool { return s == f })...)
				return f, nil
			}
		}
	}
	cleanupFiles(files[1:]...)
	return files[0], nil
}

// ytdlpError wraps a yt-dlp failure, keeping its stderr for classification
func ytdlpError(action string, result *ytdlp.Result, err error) error {
	stderr := ""
	if result != nil {
		stderr = strings.TrimSpace(result.Stderr)
	}
	if strings.Contains(stderr, "HTTP Error 403") {
		return &CaptionError{Code: CaptionForbidden, Err: fmt.Errorf("%s: %w: %s", action, err, stderr)}
	}
	if stderr != "" {
		return fmt.Errorf("%s: %w: %s", action, err, stderr)
	}
	return fmt.Errorf("%s: %w", action, err)
}

type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText converts YouTube's srv1 XML (<transcript><text start dur>) to fragments
func parseTimedText(content []byte) ([]Fragment, error) {
	var doc timedText
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing caption track: %w", err)
	}

	fragments := make([]Fragment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.Join(strings.Fields(html.UnescapeString(t.Body)), " ")
		if text == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:     text,
			Start:    parseSeconds(t.Start),
			Duration: parseSeconds(t.Dur),
		})
	}
	return fragments, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
