package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the style of generation requested. Each kind is bound to
// exactly one template; the set is fixed at process start.
type Kind string

const (
	KindExplainSimply    Kind = "explain-simply"
	KindDeepDive         Kind = "deep-dive"
	KindRealWorldExample Kind = "real-world-example"
	KindSummary          Kind = "summary"
	KindQuiz             Kind = "quiz"
	KindFollowUp         Kind = "follow-up"
	KindFollowUpAnswer   Kind = "follow-up-answer"
)

// TopicPlaceholder is the literal substituted with the caller's topic when
// a template is rendered.
const TopicPlaceholder = "%TOPIC%"

const tutorSystemPrompt = `You are a patient, knowledgeable tutor. Explain concepts accurately
and at the level the prompt asks for. Use Markdown formatting. Never invent
facts; say so when you are unsure.`

const followUpSystemPrompt = `You are a tutor generating follow-up questions. Respond with ONLY a
JSON array, no prose, no code fences. Each element must be an object with
the fields "id" (string), "question" (string) and "contentType" (one of
"explanation", "example", "question", "summary").`

// Template is the static configuration behind one request kind: the system
// instruction, the user prompt text with its topic placeholder, and the
// sampling parameters fixed for that kind.
type Template struct {
	System      string  `yaml:"system"`
	Text        string  `yaml:"text"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Render substitutes the literal topic into the template's placeholder.
func (t Template) Render(topic string) string {
	return strings.ReplaceAll(t.Text, TopicPlaceholder, topic)
}

// Catalog maps request kinds to their templates.
type Catalog map[Kind]Template

// DefaultCatalog returns the built-in template catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		KindExplainSimply: {
			System:      tutorSystemPrompt,
			Text:        "Explain %TOPIC% in simple terms, as if to a motivated beginner. Use short paragraphs and one concrete everyday analogy.",
			Temperature: 0.7,
			MaxTokens:   1200,
		},
		KindDeepDive: {
			System:      tutorSystemPrompt,
			Text:        "Give a thorough, technically precise explanation of %TOPIC%. Cover the underlying principles, the standard formalism, common misconceptions, and where it connects to neighboring concepts.",
			Temperature: 0.5,
			MaxTokens:   2500,
		},
		KindRealWorldExample: {
			System:      tutorSystemPrompt,
			Text:        "Describe two or three real-world situations where %TOPIC% shows up, and walk through how it applies in each.",
			Temperature: 0.8,
			MaxTokens:   1200,
		},
		KindSummary: {
			System:      tutorSystemPrompt,
			Text:        "Summarize %TOPIC% in at most five bullet points a student could revise from the night before an exam.",
			Temperature: 0.4,
			MaxTokens:   600,
		},
		KindQuiz: {
			System:      tutorSystemPrompt,
			Text:        "Write five practice questions about %TOPIC%, from easy to hard, each followed by its answer on the next line.",
			Temperature: 0.8,
			MaxTokens:   1500,
		},
		KindFollowUp: {
			System:      followUpSystemPrompt,
			Text:        "A student just read an explanation of %TOPIC%. Produce 5 follow-up questions they might ask next, as a JSON array.",
			Temperature: 0.9,
			MaxTokens:   800,
		},
		KindFollowUpAnswer: {
			System:      tutorSystemPrompt,
			Text:        "Answer this follow-up question from a student: %TOPIC%. Be direct and concrete; two or three paragraphs at most.",
			Temperature: 0.6,
			MaxTokens:   1200,
		},
	}
}

// Get returns the template for a kind.
func (c Catalog) Get(kind Kind) (Template, bool) {
	t, ok := c[kind]
	return t, ok
}

// Kinds returns the catalog's kinds in sorted order.
func (c Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a user-supplied kind against the catalog.
func (c Catalog) ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if _, ok := c[kind]; !ok {
		names := make([]string, 0, len(c))
		for _, k := range c.Kinds() {
			names = append(names, string(k))
		}
		return "", fmt.Errorf("unknown request kind %q (available: %s)", s, strings.Join(names, ", "))
	}
	return kind, nil
}
