package analysis

import (
	"regexp"
	"strings"

	"github.com/medsafe/medsafe-api/analysis/report"
)

// medicationNamePattern matches capitalized words with common drug name
// suffixes. Crude, but good enough to pull candidate names out of prose.
var medicationNamePattern = regexp.MustCompile(`[A-Z][a-z]+(?:in|ol|ide|ine|ate|pam|zole|cin|xin|mab|nib)`)

// ParseAlternatives extracts an alternatives report from provider text.
func (p *Parser) ParseAlternatives(content string) *report.AlternativesReport {
	return &report.AlternativesReport{
		ByPopulation: report.AlternativesByPopulation{
			WomenReproductiveAge: extractMedicationNames(extractSection(content, `women.*reproductive|reproductive.*age`)),
			Pregnant:             extractMedicationNames(extractSection(content, `pregnant|pregnancy`)),
			Pediatric:            extractMedicationNames(extractSection(content, `pediatric|children|child`)),
			Elderly:              extractMedicationNames(extractSection(content, `elderly|geriatric`)),
		},
		ByMechanism:          extractMedicationNames(extractSection(content, `mechanism.*based|same.*class|different.*mechanism`)),
		SafetyComparisons:    sectionOrDefault(content, `safety.*comparison|efficacy.*comparison|versus`, "Safety comparison data not available."),
		TransitionStrategies: sectionOrDefault(content, `transition|switching|taper|cross.*taper`, "Transition guidance not available."),
		EvidenceLevel:        assessEvidenceQuality(content),
		Recommendations:      extractRecommendations(content),
	}
}

// extractMedicationNames pulls deduplicated candidate medication names from
// a text fragment, in order of first appearance.
func extractMedicationNames(text string) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, m := range medicationNamePattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			names = append(names, m)
		}
	}
	return names
}

// extractRecommendations collects advisory lines from the content.
func extractRecommendations(content string) []string {
	var recommendations []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "recommend") || strings.Contains(lower, "should") ||
			strings.Contains(lower, "consider") || strings.Contains(lower, "consult") {
			recommendations = append(recommendations, trimmed)
		}
	}

	if len(recommendations) == 0 {
		return []string{"Consult your healthcare provider for personalized recommendations."}
	}
	return recommendations
}
