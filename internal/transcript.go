package internal

import (
	"context"
	"errors"
	"strings"
)

// Transcript is the flattened caption text of one video
type Transcript struct {
	VideoID   string
	Text      string
	Fragments []Fragment
}

// TranscriptFetcher turns caption fragments into a Transcript and classifies failures
type TranscriptFetcher struct {
	source CaptionSource
}

// NewTranscriptFetcher creates a fetcher on top of a caption source
func NewTranscriptFetcher(source CaptionSource) *TranscriptFetcher {
	return &TranscriptFetcher{source: source}
}

// Fetch retrieves the transcript for videoID. Failures are always *TranscriptError
// and are never retried.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	fragments, err := f.source.Captions(ctx, videoID)
	if err != nil {
		return nil, &TranscriptError{VideoID: videoID, Reason: classifyCaptionError(err), Err: err}
	}
	if len(fragments) == 0 {
		return nil, &TranscriptError{VideoID: videoID, Reason: ReasonNoCaptions, Err: errors.New("caption track is empty")}
	}

	return &Transcript{
		VideoID:   videoID,
		Text:      JoinFragments(fragments),
		Fragments: fragments,
	}, nil
}

// JoinFragments joins fragment texts with single spaces, preserving order
func JoinFragments(fragments []Fragment) string {
	texts := make([]string, len(fragments))
	for i, fragment := range fragments {
		texts[i] = fragment.Text
	}
	return strings.Join(texts, " ")
}

// classifyCaptionError prefers a structured code and falls back to the error text
func classifyCaptionError(err error) FailureReason {
	var captionErr *CaptionError
	if errors.As(err, &captionErr) {
		switch captionErr.Code {
		case CaptionNotFound:
			return ReasonNoCaptions
		case CaptionLanguageMissing:
			return ReasonLanguageUnavailable
		case CaptionForbidden:
			return ReasonAccessForbidden
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "403"), strings.Contains(msg, "forbidden"):
		return ReasonAccessForbidden
	case strings.Contains(msg, "language"), strings.Contains(msg, "no transcript found"):
		return ReasonLanguageUnavailable
	case strings.Contains(msg, "disabled"),
		strings.Contains(msg, "no captions"),
		strings.Contains(msg, "no subtitles"),
		strings.Contains(msg, "no transcript"):
		return ReasonNoCaptions
	default:
		return ReasonUnknown
	}
}
