package internal

// Session holds all mutable state of one user's interaction.
// It is created when a session starts and dropped when it ends.
type Session struct {
	// LastInput is the last URL submitted; it skips refetching a loaded transcript
	LastInput string
	VideoID   string
	// Transcript is nil unless the last fetch succeeded
	Transcript *Transcript
	// FetchErr is the failure of the last fetch, if any
	FetchErr error

	Conversation *Conversation
	Styles       *StyleCatalog
	Provider     Provider
	Style        string
	LastNotes    *Notes

	credentials map[Provider]string
}

// NewSession creates an empty session. defaults seeds the credential of each provider.
func NewSession(provider Provider, style string, defaults map[Provider]string) *Session {
	credentials := make(map[Provider]string, len(defaults))
	for p, key := range defaults {
		credentials[p] = key
	}
	return &Session{
		Conversation: NewConversation(),
		Styles:       NewStyleCatalog(),
		Provider:     provider,
		Style:        style,
		credentials:  credentials,
	}
}

// Phase reports the session's position in the URL → transcript flow
func (s *Session) Phase() Phase {
	switch {
	case s.VideoID == "":
		return PhaseEmpty
	case s.Transcript != nil:
		return PhaseTranscriptReady
	default:
		return PhaseTranscriptUnavailable
	}
}

// Credential returns the credential for the given provider
func (s *Session) Credential(p Provider) string {
	return s.credentials[p]
}

// SetCredential overrides the credential for a provider
func (s *Session) SetCredential(p Provider, key string) {
	s.credentials[p] = key
}

// resetVideo forgets the current video and transcript
func (s *Session) resetVideo() {
	s.VideoID = ""
	s.Transcript = nil
	s.FetchErr = nil
	s.LastNotes = nil
}
