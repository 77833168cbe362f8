package llm

import "strings"

// CleanJSONBlock strips markdown code fences from a model response before
// it reaches schema validation and strict decoding. Gemini wraps JSON in
// ```json ... ``` fences often enough, even under a response schema, that
// every extraction path cleans its output through here first.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A bare fence may carry a language tag on its first line. A tag
		// is short, has no spaces, and is not already JSON.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.Contains(tag, " ") && !strings.Contains(tag, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
