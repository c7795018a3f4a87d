// Package names resolves brand and colloquial medicine names to generic
// compositions. Resolution is dictionary-first; AI identification only runs
// when the dictionary has no exact hit and the query is long enough to be
// descriptive.
package names

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/prompts"
)

// ErrIdentificationFailed is returned when the AI identification round-trip
// itself fails. Unparseable AI output is not an error, it falls back to
// token scanning.
var ErrIdentificationFailed = errors.New("medicine identification failed")

// Compile-time check to ensure Mapper implements the NameResolver interface
var _ interfaces.NameResolver = (*Mapper)(nil)

var (
	nonWordPattern   = regexp.MustCompile(`[^\w\s]`)
	wordSplitPattern = regexp.MustCompile(`[\s,.\-]+`)
	fencePattern     = regexp.MustCompile("```json|```")
)

// Mapper resolves medicine names against the built-in dictionary and,
// optionally, an AI orchestrator for descriptive queries. The zero
// orchestrator disables AI identification.
type Mapper struct {
	orchestrator interfaces.Orchestrator
}

// NewMapper creates a Mapper. orchestrator may be nil, which restricts
// Search to dictionary results.
func NewMapper(orchestrator interfaces.Orchestrator) *Mapper {
	return &Mapper{orchestrator: orchestrator}
}

// Normalize lowercases, trims and strips punctuation from a medicine name so
// dictionary lookups tolerate casing and stray characters.
func Normalize(name string) string {
	return nonWordPattern.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), "")
}

// GenericName returns the generic composition for a brand name, or false
// when the dictionary has no entry.
func (m *Mapper) GenericName(commonName string) (string, bool) {
	generic, ok := commonMedicineMap[Normalize(commonName)]
	return generic, ok
}

// Suggestions returns up to limit fuzzy dictionary matches for a partial
// name. Prefix matches rank before substring matches, shorter names first
// within each group.
func (m *Mapper) Suggestions(partialName string, limit int) []report.Suggestion {
	normalized := Normalize(partialName)
	suggestions := []report.Suggestion{}

	for commonName, genericName := range commonMedicineMap {
		if !strings.Contains(commonName, normalized) && !strings.Contains(normalized, commonName) {
			continue
		}
		match := "contains"
		if strings.HasPrefix(commonName, normalized) {
			match = "prefix"
		}
		suggestions = append(suggestions, report.Suggestion{
			CommonName:  capitalizeWords(commonName),
			GenericName: genericName,
			Match:       match,
		})
	}

	// Candidates come from map iteration, so a final name key keeps the
	// order stable across runs.
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Match != suggestions[j].Match {
			return suggestions[i].Match == "prefix"
		}
		if len(suggestions[i].CommonName) != len(suggestions[j].CommonName) {
			return len(suggestions[i].CommonName) < len(suggestions[j].CommonName)
		}
		return suggestions[i].CommonName < suggestions[j].CommonName
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// identification carries the outcome of one AI identification round-trip.
type identification struct {
	Identified  []report.IdentifiedMedicine
	Suggestions []string
	RawResponse string
}

// identificationPayload mirrors the JSON shape the identification prompt
// asks for.
type identificationPayload struct {
	IdentifiedMedicines []report.IdentifiedMedicine `json:"identifiedMedicines"`
	Suggestions         []string                    `json:"suggestions"`
}

// IdentifyFromDescription asks an AI provider to identify a medicine from a
// free-text description. Unparseable responses degrade to scanning the text
// for known dictionary names.
func (m *Mapper) IdentifyFromDescription(ctx context.Context, description string) (identification, error) {
	if m.orchestrator == nil {
		return identification{}, ErrIdentificationFailed
	}

	response, serviceUsed, err := m.orchestrator.GenerateContent(ctx, prompts.Identification(description))
	if err != nil {
		logging.Error("AI medicine identification failed", "error", err)
		return identification{}, ErrIdentificationFailed
	}
	logging.Info("Medicine identification provided", "service", serviceUsed)

	clean := strings.TrimSpace(fencePattern.ReplaceAllString(response, ""))
	var parsed identificationPayload
	if err := json.Unmarshal([]byte(clean), &parsed); err == nil {
		result := identification{
			Identified:  parsed.IdentifiedMedicines,
			Suggestions: parsed.Suggestions,
			RawResponse: response,
		}
		if result.Identified == nil {
			result.Identified = []report.IdentifiedMedicine{}
		}
		if result.Suggestions == nil {
			result.Suggestions = []string{}
		}
		return result, nil
	}

	logging.Warn("Failed to parse AI medicine identification response as JSON")

	identified := []report.IdentifiedMedicine{}
	for _, name := range m.extractKnownNames(response) {
		generic, ok := m.GenericName(name)
		if !ok {
			generic = name
		}
		identified = append(identified, report.IdentifiedMedicine{
			CommonName:  name,
			GenericName: generic,
			Confidence:  0.7,
			Reasoning:   "Extracted from AI text response",
		})
	}

	return identification{
		Identified:  identified,
		Suggestions: []string{},
		RawResponse: response,
	}, nil
}

// extractKnownNames scans free text for dictionary names, deduplicated in
// order of first appearance.
func (m *Mapper) extractKnownNames(text string) []string {
	words := wordSplitPattern.Split(strings.ToLower(text), -1)
	seen := map[string]bool{}
	var found []string

	for _, word := range words {
		if word == "" || seen[word] {
			continue
		}
		if _, ok := m.GenericName(word); ok {
			seen[word] = true
			found = append(found, word)
		}
	}
	return found
}

// Search combines exact dictionary mapping, fuzzy suggestions and AI
// identification into one result. AI failure is non-fatal: the dictionary
// portion of the result is still returned.
func (m *Mapper) Search(ctx context.Context, searchQuery string) *report.SearchResult {
	result := &report.SearchResult{
		Suggestions:  []report.Suggestion{},
		AIIdentified: []report.IdentifiedMedicine{},
		SearchQuery:  searchQuery,
	}

	if generic, ok := m.GenericName(searchQuery); ok {
		result.ExactMatch = &report.ExactMatch{
			CommonName:  capitalizeWords(searchQuery),
			GenericName: generic,
			Source:      "exact_mapping",
		}
	}

	result.Suggestions = m.Suggestions(searchQuery, 5)

	if result.ExactMatch == nil && len(searchQuery) > 3 {
		aiResult, err := m.IdentifyFromDescription(ctx, searchQuery)
		if err != nil {
			logging.Warn("AI medicine identification failed, using only local mapping")
			return result
		}
		result.AIIdentified = aiResult.Identified

		for _, name := range aiResult.Suggestions {
			generic, ok := m.GenericName(name)
			if !ok {
				generic = name
			}
			result.Suggestions = append(result.Suggestions, report.Suggestion{
				CommonName:  name,
				GenericName: generic,
				Match:       "ai_suggested",
			})
		}
	}

	return result
}

func capitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
