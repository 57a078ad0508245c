package ai

import (
	"strings"
)

// extractJSONObject returns the first balanced top-level JSON object embedded
// in text, or "" when none exists. Unlike naive brace counting, the scanner
// tracks string and escape state, so braces inside string values do not
// unbalance the match.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// stripCodeFences removes markdown code-fence markers around the reply, with
// or without a language tag.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.Contains(t, "```") {
		return t
	}
	t = strings.ReplaceAll(t, "```json", "```")
	if i := strings.Index(t, "```"); i >= 0 {
		rest := t[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			inner := strings.TrimSpace(rest[:j])
			if inner != "" {
				return inner
			}
		}
	}
	t = strings.ReplaceAll(t, "```", "")
	return strings.TrimSpace(t)
}
