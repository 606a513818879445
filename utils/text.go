// Package utils holds small text helpers shared by storage and
// presentation: bounded truncation and chunking of outbound messages.
package utils

// Truncate cuts s to at most max characters (runes, not bytes, so a
// multi-byte character is never split).
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// TruncateWithMarker behaves like Truncate but appends marker when the
// text was actually cut.
func TruncateWithMarker(s string, max int, marker string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + marker
}

// ChunkLines packs header plus lines into messages of at most max
// characters each, splitting before the line that would overflow.
// Telegram rejects messages over ~4096 characters, so callers pass a
// slightly smaller budget.
func ChunkLines(header string, lines []string, max int) []string {
	var chunks []string
	chunk := header
	for _, line := range lines {
		if chunk != "" && len(chunk)+len(line) > max {
			chunks = append(chunks, chunk)
			chunk = ""
		}
		chunk += line
	}
	if chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
