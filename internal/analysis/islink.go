package analysis

import "strings"

// videoHostPatterns are substrings identifying known video hosts whose
// links need web grounding before extraction.
var videoHostPatterns = []string{
	"youtube.com/",
	"youtu.be/",
}

// IsLink classifies an input as link-shaped: a known video-host URL or
// anything starting with an HTTP scheme. Link-shaped inputs are grounded
// via web search before extraction; raw text is analyzed as-is.
func IsLink(input string) bool {
	trimmed := strings.TrimSpace(input)
	for _, pattern := range videoHostPatterns {
		if strings.Contains(trimmed, pattern) {
			return true
		}
	}
	return strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://")
}
