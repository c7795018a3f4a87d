package analysis

import (
	"regexp"
	"strings"

	"github.com/medsafe/medsafe-api/analysis/report"
)

var (
	pediatricContraindicated = regexp.MustCompile(`(?s)pediatric.*contraindicated`)
	notApprovedForChildren   = regexp.MustCompile(`(?s)not.*approved.*children`)

	highConfidencePattern = regexp.MustCompile(`(?s)well.*established|extensive.*data`)
	lowConfidencePattern  = regexp.MustCompile(`(?s)limited.*data|case.*reports`)

	highEvidencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)randomized.*controlled.*trial`),
		regexp.MustCompile(`(?s)meta.*analysis`),
		regexp.MustCompile(`(?s)systematic.*review`),
	}
	moderateEvidencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)cohort.*study`),
		regexp.MustCompile(`(?s)case.*control`),
		regexp.MustCompile(`observational`),
	}
	lowEvidencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)case.*report`),
		regexp.MustCompile(`(?s)expert.*opinion`),
		regexp.MustCompile(`theoretical`),
	}

	lifeThreateningPattern = regexp.MustCompile(`(?s)life.*threatening`)
)

// assessRiskLevel scores warning language in the content, with extra weight
// for pregnancy and pediatric red flags when the patient profile applies.
func assessRiskLevel(content string, patient report.PatientInfo) string {
	lower := strings.ToLower(content)
	score := 0

	if strings.Contains(lower, "contraindicated") || strings.Contains(lower, "black box") {
		score += 3
	}
	if strings.Contains(lower, "avoid") || strings.Contains(lower, "not recommended") {
		score += 2
	}
	if strings.Contains(lower, "caution") || strings.Contains(lower, "monitor") {
		score += 1
	}

	if patient.IsPregnant {
		if strings.Contains(lower, "category d") || strings.Contains(lower, "category x") {
			score += 2
		}
		if strings.Contains(lower, "teratogenic") {
			score += 2
		}
	}

	if patient.IsChild {
		if pediatricContraindicated.MatchString(lower) {
			score += 2
		}
		if notApprovedForChildren.MatchString(lower) {
			score += 1
		}
	}

	switch {
	case score >= 3:
		return "high"
	case score >= 2:
		return "moderate"
	case score >= 1:
		return "low-moderate"
	}
	return "low"
}

func assessConfidenceLevel(content string) string {
	lower := strings.ToLower(content)
	if highConfidencePattern.MatchString(lower) {
		return "high"
	}
	if lowConfidencePattern.MatchString(lower) {
		return "low"
	}
	return "moderate"
}

// assessEvidenceQuality classifies by study-design markers, strongest first.
func assessEvidenceQuality(content string) string {
	lower := strings.ToLower(content)

	for _, p := range highEvidencePatterns {
		if p.MatchString(lower) {
			return "high"
		}
	}
	for _, p := range moderateEvidencePatterns {
		if p.MatchString(lower) {
			return "moderate"
		}
	}
	for _, p := range lowEvidencePatterns {
		if p.MatchString(lower) {
			return "low"
		}
	}
	return "moderate"
}

func assessInteractionSeverity(content string) string {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "severe") || lifeThreateningPattern.MatchString(lower) {
		return "severe"
	}
	if strings.Contains(lower, "moderate") || strings.Contains(lower, "significant") {
		return "moderate"
	}
	return "mild"
}

func assessInteractionRisk(content string) string {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "severe") || strings.Contains(lower, "major") || strings.Contains(lower, "contraindicated") {
		return "high"
	}
	if strings.Contains(lower, "moderate") || strings.Contains(lower, "caution") || strings.Contains(lower, "monitor") {
		return "medium"
	}
	return "low"
}
