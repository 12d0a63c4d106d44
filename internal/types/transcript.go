package types

import "strings"

// TranscriptEntry is one utterance of an interview transcript.
type TranscriptEntry struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// FormatTranscript renders the transcript as plain text, one "- role: content" line per entry in order.
func FormatTranscript(entries []TranscriptEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString("- ")
		sb.WriteString(e.Role)
		sb.WriteString(": ")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
