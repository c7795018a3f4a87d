// Package providers contains the AI provider adapters for the medsafe API.
// Each adapter wraps one LLM vendor's API behind a uniform contract:
// plain text generation, structured generation, and a connectivity test.
// Adapters own their error classification and their local retry policy;
// cross-provider failover lives in the orchestrator.
package providers

import (
	"encoding/json"
	"strings"
)

// Output is the result of a structured generation call. Exactly one shape is
// populated: JSON when the provider returned a JSON object, Text otherwise.
// Callers must branch on Kind.
type Output struct {
	Kind OutputKind
	Text string
	JSON map[string]any
}

// OutputKind discriminates the Output union.
type OutputKind int

const (
	// KindText means the provider returned free text.
	KindText OutputKind = iota
	// KindJSON means the provider returned a parseable JSON object.
	KindJSON
)

// TextOutput wraps raw provider text.
func TextOutput(text string) *Output {
	return &Output{Kind: KindText, Text: text}
}

// JSONOutput wraps a pre-parsed provider object.
func JSONOutput(parsed map[string]any) *Output {
	return &Output{Kind: KindJSON, JSON: parsed}
}

// SniffJSON returns a JSON output when the raw text is syntactically a JSON
// object (starts with '{', ends with '}') and parses cleanly. Anything else,
// including malformed JSON-looking text, is wrapped as plain text.
func SniffJSON(raw string) *Output {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return JSONOutput(parsed)
		}
	}
	return TextOutput(raw)
}
