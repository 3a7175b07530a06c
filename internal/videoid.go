package internal

import (
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ResolveVideoID extracts a video ID from a YouTube URL or a bare ID.
//
// Recognized shapes, in order of precedence: youtu.be short links,
// the v= query parameter, /embed/<id>, /shorts/<id> and a bare 11 character ID.
// An input that matches none of them is not an error; ok is false.
func ResolveVideoID(input string) (id string, ok bool) {
	defer func() {
		if recover() != nil {
			id, ok = "", false
		}
	}()

	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	var candidate string
	switch {
	case strings.Contains(input, "youtu.be/"):
		parts := strings.Split(input, "/")
		candidate = stripSuffixes(parts[len(parts)-1], "?", "#")
	case strings.Contains(input, "v="):
		candidate = stripSuffixes(strings.SplitN(input, "v=", 2)[1], "&", "#")
	case strings.Contains(input, "embed/"):
		candidate = pathSegmentAfter(input, "embed/")
	case strings.Contains(input, "shorts/"):
		candidate = pathSegmentAfter(input, "shorts/")
	default:
		candidate = input
	}

	if !IsValidYouTubeID(candidate) {
		return "", false
	}
	return candidate, true
}

// pathSegmentAfter returns the path segment following marker
func pathSegmentAfter(s, marker string) string {
	rest := strings.SplitN(s, marker, 2)[1]
	return stripSuffixes(rest, "/", "?", "&", "#")
}

// stripSuffixes cuts s at the first occurrence of any separator
func stripSuffixes(s string, separators ...string) string {
	for _, sep := range separators {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return s
}

// ThumbnailURL returns the default thumbnail for a video
func ThumbnailURL(videoID string) string {
	return "http://img.youtube.com/vi/" + videoID + "/0.jpg"
}

// WatchURL returns the canonical watch page for a video
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
