package output

import (
	"strings"
	"unicode/utf8"
)

// EllipsisMarker is appended to a line cut short by the splitter.
const EllipsisMarker = "..."

// TruncatedSuffix is appended to a structured body that exceeded the message limit.
const TruncatedSuffix = "\n\n... (truncated)"

// RuneLen returns the length of s in Unicode code points.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateRunes returns at most n runes of s. It never splits a multi-byte character.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateWithMarker shortens s so that it fits in max runes including EllipsisMarker.
func TruncateWithMarker(s string, max int) string {
	if RuneLen(s) <= max {
		return s
	}
	markerLen := RuneLen(EllipsisMarker)
	if max <= markerLen {
		return TruncateRunes(s, max)
	}
	return TruncateRunes(s, max-markerLen) + EllipsisMarker
}

// Splitter partitions formatted text into delivery-safe chunks.
type Splitter struct {
	maxLength   int
	maxMessages int
}

// NewSplitter creates a splitter bound to the limits of config.
func NewSplitter(config *Config) *Splitter {
	if config == nil {
		config = DefaultConfig()
	}
	validated := config.Validate()
	return &Splitter{
		maxLength:   validated.MaxMessageLength,
		maxMessages: validated.MaxMessages,
	}
}

// Split breaks message into chunks of at most MaxMessageLength runes.
//
// Lines are packed greedily. A line longer than the limit on its own is cut
// with EllipsisMarker and becomes its own chunk. At most MaxMessages chunks are
// returned; anything beyond that is dropped.
func (s *Splitter) Split(message string) []string {
	if strings.TrimSpace(message) == "" {
		return []string{}
	}

	if RuneLen(message) <= s.maxLength {
		return []string{message}
	}

	chunks := make([]string, 0, s.maxMessages)
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, line := range strings.Split(message, "\n") {
		if len(chunks) >= s.maxMessages {
			break
		}

		lineLen := RuneLen(line)
		if currentLen+lineLen+1 <= s.maxLength {
			current.WriteString(line)
			current.WriteByte('\n')
			currentLen += lineLen + 1
			continue
		}

		flush()
		if lineLen > s.maxLength {
			chunks = append(chunks, TruncateWithMarker(line, s.maxLength))
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		currentLen = lineLen + 1
	}
	flush()

	if len(chunks) > s.maxMessages {
		chunks = chunks[:s.maxMessages]
	}
	return chunks
}
