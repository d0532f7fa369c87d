package llm

import (
	"fmt"
	"strings"
)

// extractObject isolates the first top-level JSON object embedded in free
// model text. Markdown code fences are stripped first; the object itself is
// located by brace matching. Returns an error when no complete object is
// present.
func extractObject(text string) (string, error) {
	text = stripCodeFences(text)

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON object in response")
}

func stripCodeFences(text string) string {
	fenceStart := strings.Index(text, "```")
	if fenceStart == -1 {
		return text
	}

	inner := text[fenceStart+3:]
	if strings.HasPrefix(inner, "json") {
		inner = inner[4:]
	}
	fenceEnd := strings.Index(inner, "```")
	if fenceEnd == -1 {
		return text
	}

	fenced := strings.TrimSpace(inner[:fenceEnd])
	if fenced == "" {
		return text
	}
	return fenced
}
