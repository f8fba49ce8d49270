package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	arraySpan  = regexp.MustCompile(`(?s)\[.*\]`)
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// ErrNoJSON is returned when neither the full text nor a bracketed span of
// it parses as JSON.
var ErrNoJSON = errors.New("no JSON found in model response")

// CleanJSON strips a surrounding markdown code fence from a model response.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// ParseArray parses a JSON array out of a model response. When the cleaned
// text is not valid JSON, the span from the first '[' to the last ']' is
// tried.
func ParseArray(text string) ([]any, error) {
	var out []any
	if err := parseWithFallback(text, arraySpan, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseObject is ParseArray for a JSON object.
func ParseObject(text string) (map[string]any, error) {
	var out map[string]any
	if err := parseWithFallback(text, objectSpan, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode unmarshals a model response into v using the object fallback.
func Decode(text string, v any) error {
	return parseWithFallback(text, objectSpan, v)
}

// DecodeArray unmarshals a model response into v using the array fallback.
func DecodeArray(text string, v any) error {
	return parseWithFallback(text, arraySpan, v)
}

func parseWithFallback(text string, span *regexp.Regexp, v any) error {
	clean := CleanJSON(text)
	err := json.Unmarshal([]byte(clean), v)
	if err == nil {
		return nil
	}
	match := span.FindString(clean)
	if match == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(match), v); err != nil {
		return ErrNoJSON
	}
	return nil
}
