package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
)

// fenceOpenPattern matches an opening markdown code fence, optionally tagged
// with a language ("```" or "```json", case-insensitive).
var fenceOpenPattern = regexp.MustCompile("(?i)^```[a-z]*[ \t]*\r?\n?")

// fenceClosePattern matches a closing markdown code fence at the end.
var fenceClosePattern = regexp.MustCompile("\r?\n?```[ \t]*$")

// StripCodeFences removes a surrounding markdown code fence from model output.
// Output wrapped in ```json ... ``` decodes identically to the bare text.
func StripCodeFences(response string) string {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = fenceOpenPattern.ReplaceAllString(trimmed, "")
	trimmed = fenceClosePattern.ReplaceAllString(trimmed, "")
	return strings.TrimSpace(trimmed)
}

// ExtractJSON extracts JSON content from a model response that may be wrapped
// in markdown code fences or surrounded by prose.
// Returns apperrors.ErrMalformedModelOutput if no valid JSON can be found.
func ExtractJSON(response string) (string, error) {
	cleaned := StripCodeFences(response)

	// Find the first occurrence of { or [ to determine JSON type.
	objStart := strings.IndexByte(cleaned, '{')
	arrStart := strings.IndexByte(cleaned, '[')

	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if jsonStr, ok := extractBalancedJSON(cleaned, '{', '}'); ok {
			if json.Valid([]byte(jsonStr)) {
				return jsonStr, nil
			}
		}
	}

	if arrStart >= 0 {
		if jsonStr, ok := extractBalancedJSON(cleaned, '[', ']'); ok {
			if json.Valid([]byte(jsonStr)) {
				return jsonStr, nil
			}
		}
	}

	trimmed := strings.TrimSpace(cleaned)
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	return "", fmt.Errorf("%w: no valid JSON found in response", apperrors.ErrMalformedModelOutput)
}

// extractBalancedJSON finds the first balanced JSON structure starting with
// openChar, counting bracket depth and honoring string escapes.
func extractBalancedJSON(s string, openChar, closeChar byte) (string, bool) {
	start := strings.IndexByte(s, openChar)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// ParseJSONResponse extracts JSON from a response and unmarshals it into the target.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrMalformedModelOutput, err)
	}

	return result, nil
}
