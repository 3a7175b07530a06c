package internal

// MarkdownMIMEType is the content type of exported notes
const MarkdownMIMEType = "text/markdown"

// Export is a downloadable notes file
type Export struct {
	Filename string
	MIMEType string
	Data     []byte
}

// ExportFilename returns the default notes filename for a video
func ExportFilename(videoID string) string {
	return "notes_" + videoID + ".md"
}

// NewExport packages notes as a markdown file
func NewExport(notes *Notes) *Export {
	return &Export{
		Filename: ExportFilename(notes.VideoID),
		MIMEType: MarkdownMIMEType,
		Data:     []byte(notes.Content),
	}
}
