package content

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	fenceOpenRegex  = regexp.MustCompile("(?m)^```[a-zA-Z0-9_-]*[ \t]*\n")
	fenceCloseRegex = regexp.MustCompile("(?m)^```[ \t]*$\n?")
)

// contentTypes a follow-up question may carry. Anything else is coerced to
// "question".
var contentTypes = map[string]bool{
	"explanation": true,
	"example":     true,
	"question":    true,
	"summary":     true,
}

// StripCodeFences removes fenced code block markers while keeping the code
// inside them. Text without fences passes through unchanged, so sanitizing
// twice is the same as sanitizing once.
func StripCodeFences(s string) string {
	s = fenceOpenRegex.ReplaceAllString(s, "")
	s = fenceCloseRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeFollowUps coerces a raw model response into a valid JSON array of
// follow-up questions. The array is located between the first '[' and the
// last ']' so surrounding prose or fences don't matter. Elements are
// normalized: missing ids are filled in, the contentType is forced into the
// allowed set, and elements without a question are dropped. Any failure to
// parse degrades to the literal "[]" rather than an error.
func SanitizeFollowUps(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return "[]"
	}

	candidate := raw[start : end+1]
	if !gjson.Valid(candidate) {
		return "[]"
	}

	parsed := gjson.Parse(candidate)
	if !parsed.IsArray() {
		return "[]"
	}

	items := make([]string, 0, 8)
	for _, item := range parsed.Array() {
		if !item.IsObject() {
			continue
		}

		question := item.Get("question")
		if question.Type != gjson.String || question.String() == "" {
			continue
		}

		normalized := item.Raw
		if item.Get("id").Type != gjson.String || item.Get("id").String() == "" {
			normalized, _ = sjson.Set(normalized, "id", uuid.NewString())
		}
		if !contentTypes[item.Get("contentType").String()] {
			normalized, _ = sjson.Set(normalized, "contentType", "question")
		}

		items = append(items, normalized)
	}

	if len(items) == 0 {
		return "[]"
	}
	return "[" + strings.Join(items, ",") + "]"
}
