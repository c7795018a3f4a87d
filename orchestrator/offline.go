package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medsafe/medsafe-api/providers"
)

// offlineMed is one entry of the canned medication table used when every
// provider fails and degraded mode is on.
type offlineMed struct {
	overview          string
	safety            string
	sideEffects       []string
	contraindications string
	dosing            string
}

var offlineMeds = map[string]offlineMed{
	"paracetamol": {
		overview:          "Paracetamol (acetaminophen) is a widely used analgesic and antipyretic medication available over-the-counter.",
		safety:            "Generally well-tolerated when used as directed. Maximum daily dose should not exceed 4000mg for adults.",
		sideEffects:       []string{"Nausea (rare)", "Allergic reactions (very rare)", "Liver damage (with overdose)"},
		contraindications: "Severe liver disease, known hypersensitivity to paracetamol",
		dosing:            "Adults: 500-1000mg every 4-6 hours, maximum 4000mg/24 hours",
	},
	"ibuprofen": {
		overview:          "Ibuprofen is a nonsteroidal anti-inflammatory drug (NSAID) used for pain, fever, and inflammation.",
		safety:            "Use with caution in elderly, those with heart/kidney disease, or stomach ulcers.",
		sideEffects:       []string{"Stomach upset", "Nausea", "Dizziness", "Headache"},
		contraindications: "Active peptic ulcer, severe heart failure, severe kidney disease",
		dosing:            "Adults: 200-400mg every 4-6 hours, maximum 1200mg/24 hours for OTC use",
	},
	"aspirin": {
		overview:          "Aspirin is an NSAID and antiplatelet medication used for pain, fever, inflammation, and cardiovascular protection.",
		safety:            "Increased bleeding risk. Not recommended for children under 16 due to Reye's syndrome risk.",
		sideEffects:       []string{"Stomach irritation", "Increased bleeding", "Nausea", "Tinnitus (high doses)"},
		contraindications: "Active bleeding, severe liver disease, children under 16 with viral infections",
		dosing:            "Pain/fever: 300-600mg every 4 hours; Cardioprotection: 75-100mg daily",
	},
}

var medicineNamePattern = regexp.MustCompile(`(?i)medication["\s]*([a-zA-Z0-9\s]+)["\s]`)

// extractMedicineName pulls the quoted medicine name out of an analysis
// prompt. Best effort: any prompt wording that does not embed the name after
// the word "medication" yields the generic placeholder.
func extractMedicineName(prompt string) string {
	m := medicineNamePattern.FindStringSubmatch(prompt)
	if len(m) < 2 {
		return "this medication"
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "this medication"
	}
	return name
}

// offlineAnalysis fabricates a structured analysis from the canned table.
// Matching is substring based in both directions so "Paracetamol 650mg"
// still hits the paracetamol entry.
func offlineAnalysis(medicineName string) *providers.Output {
	name := strings.ToLower(medicineName)

	var med offlineMed
	found := false
	for key, info := range offlineMeds {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			med = info
			found = true
			break
		}
	}

	if !found {
		med = offlineMed{
			overview:          fmt.Sprintf("%s analysis requires access to current medical databases.", medicineName),
			safety:            "Complete safety information is not available in offline mode.",
			sideEffects:       []string{"Information unavailable - consult healthcare provider"},
			contraindications: "Consult healthcare provider for contraindications",
			dosing:            "Follow healthcare provider instructions or official prescribing information",
		}
	}

	return providers.JSONOutput(map[string]any{
		"medicationOverview": med.overview,
		"generalSafety":      med.safety,
		"womensSafety":       "Consult healthcare provider for women-specific considerations.",
		"pediatricSafety":    "Consult pediatrician for children's dosing and safety.",
		"pregnancySafety":    "Consult healthcare provider before use during pregnancy or breastfeeding.",
		"clinicalTrials":     "Refer to medical literature and clinical databases for current research.",
		"sideEffects": map[string]any{
			"common":         med.sideEffects,
			"serious":        []string{"Severe allergic reactions", "Organ toxicity (with misuse)"},
			"rare":           []string{"Anaphylaxis", "Stevens-Johnson syndrome"},
			"genderSpecific": []string{},
			"ageSpecific":    []string{},
			"summary":        fmt.Sprintf("Common side effects may include: %s", strings.Join(med.sideEffects, ", ")),
		},
		"contraindications": med.contraindications,
		"dosing":            med.dosing,
		"interactions":      "Check with pharmacist for drug interactions.",
		"monitoring":        "Follow healthcare provider monitoring recommendations.",
		"summary":           fmt.Sprintf("%s Always consult healthcare providers for personalized medical advice.", med.overview),
		"riskLevel":         "low-moderate",
		"confidenceLevel":   "low",
		"evidenceQuality":   "offline_database",
		"blackBoxWarnings":  nil,
		"specialPopulations": map[string]any{
			"renalImpairment":   "Dose adjustment may be needed",
			"hepaticImpairment": "Use with caution",
			"elderly":           "Consider reduced dosing",
			"pediatric":         "Consult pediatrician for appropriate dosing",
		},
	})
}
