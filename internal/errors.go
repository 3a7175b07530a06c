package internal

import (
	"errors"
	"fmt"
)

var (
	ErrInputUnresolvable = errors.New("could not extract a video ID from input")
	ErrNoTranscript      = errors.New("no transcript loaded")
	ErrMissingCredential = errors.New("API key is required")
	ErrInvalidStyle      = errors.New("style name and description must not be empty")
	ErrEmptyQuestion     = errors.New("question must not be empty")
	ErrNoNotes           = errors.New("no notes generated yet")
)

// ErrorKind is the coarse failure class of an error
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInputUnresolvable
	KindTranscriptUnavailable
	KindMissingCredential
	KindProviderError
	KindInvalidStyle
	KindInvalidRequest
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInputUnresolvable:
		return "input_unresolvable"
	case KindTranscriptUnavailable:
		return "transcript_unavailable"
	case KindMissingCredential:
		return "missing_credential"
	case KindProviderError:
		return "provider_error"
	case KindInvalidStyle:
		return "invalid_style_definition"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "other"
	}
}

// FailureReason sub-classifies transcript failures
type FailureReason int

const (
	ReasonUnknown FailureReason = iota
	ReasonNoCaptions
	ReasonLanguageUnavailable
	ReasonAccessForbidden
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNoCaptions:
		return "no_captions_available"
	case ReasonLanguageUnavailable:
		return "language_unavailable"
	case ReasonAccessForbidden:
		return "access_forbidden"
	default:
		return "unknown"
	}
}

// TranscriptError reports a failed transcript fetch
type TranscriptError struct {
	VideoID string
	Reason  FailureReason
	Err     error
}

func (e *TranscriptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transcript unavailable for %s (%s)", e.VideoID, e.Reason)
	}
	return fmt.Sprintf("transcript unavailable for %s (%s): %v", e.VideoID, e.Reason, e.Err)
}

func (e *TranscriptError) Unwrap() error { return e.Err }

// ProviderError reports a failed completion call
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider.DisplayName(), e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Kind classifies err into the failure taxonomy
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var transcriptErr *TranscriptError
	var providerErr *ProviderError
	switch {
	case errors.Is(err, ErrInputUnresolvable):
		return KindInputUnresolvable
	case errors.As(err, &transcriptErr), errors.Is(err, ErrNoTranscript):
		return KindTranscriptUnavailable
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.As(err, &providerErr):
		return KindProviderError
	case errors.Is(err, ErrInvalidStyle):
		return KindInvalidStyle
	case errors.Is(err, ErrEmptyQuestion), errors.Is(err, ErrNoNotes):
		return KindInvalidRequest
	default:
		return KindOther
	}
}

// IsWarning reports whether err should be shown as a warning rather than an error
func IsWarning(err error) bool {
	switch Kind(err) {
	case KindMissingCredential, KindInvalidStyle, KindInvalidRequest:
		return true
	default:
		return false
	}
}

// UserMessage converts a failure into text suitable for display
func UserMessage(err error) string {
	var transcriptErr *TranscriptError
	var providerErr *ProviderError

	switch Kind(err) {
	case KindNone:
		return ""
	case KindInputUnresolvable:
		return "Could not extract video ID from URL. Please check the URL format."
	case KindTranscriptUnavailable:
		if !errors.As(err, &transcriptErr) {
			return "No transcript loaded. Submit a YouTube URL with captions first."
		}
		switch transcriptErr.Reason {
		case ReasonNoCaptions:
			return "This video has no captions available. Try a video with subtitles or auto-generated captions."
		case ReasonLanguageUnavailable:
			return "Captions exist for this video, but not in a supported language."
		case ReasonAccessForbidden:
			return "YouTube refused access to the captions (HTTP 403). The video may be private, age-restricted, or rate limited."
		default:
			return fmt.Sprintf("Error retrieving transcript: %v", transcriptErr.Err)
		}
	case KindMissingCredential:
		return "Please enter your API key (or set it in the environment)."
	case KindProviderError:
		if errors.As(err, &providerErr) {
			return fmt.Sprintf("Error with %s API: %v", providerErr.Provider.DisplayName(), providerErr.Err)
		}
		return err.Error()
	case KindInvalidStyle:
		return "Please provide both a style name and a description."
	default:
		return err.Error()
	}
}
