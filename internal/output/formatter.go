package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/studygen/studygen/internal/content"
	"github.com/studygen/studygen/internal/prompt"
)

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Kind     string          `json:"kind"`
	Topic    string          `json:"topic"`
	Content  string          `json:"content,omitempty"`
	Items    json.RawMessage `json:"items,omitempty"` // follow-up kind only
	Metadata *Metadata       `json:"metadata,omitempty"`
}

// Metadata represents metadata about the generation
type Metadata struct {
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	TokensInput  int      `json:"tokens_input"`
	TokensOutput int      `json:"tokens_output"`
	Cached       bool     `json:"cached"`
	Cost         *float64 `json:"cost,omitempty"` // nil for local models
}

// FormatJSON formats a generation result as JSON. The follow-up kind's text
// is already a JSON array, so it is embedded raw instead of double-encoded.
func FormatJSON(result *content.Result, cost *float64) (string, error) {
	out := JSONOutput{
		Kind:  string(result.Kind),
		Topic: result.Topic,
		Metadata: &Metadata{
			Provider:     result.Provider,
			Model:        result.Model,
			TokensInput:  result.TokensInput,
			TokensOutput: result.TokensOutput,
			Cached:       result.Cached,
			Cost:         cost,
		},
	}

	if result.Kind == prompt.KindFollowUp {
		out.Items = json.RawMessage(result.Text)
	} else {
		out.Content = result.Text
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return string(data), nil
}

// FormatPlain formats a generation result for the terminal. Follow-up
// arrays are rendered as a numbered question list.
func FormatPlain(result *content.Result) string {
	if result.Kind != prompt.KindFollowUp {
		return result.Text
	}

	items := gjson.Parse(result.Text).Array()
	if len(items) == 0 {
		return "No follow-up questions."
	}

	var b strings.Builder
	b.WriteString("Follow-up questions:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, item.Get("question").String())
	}
	return strings.TrimRight(b.String(), "\n")
}
