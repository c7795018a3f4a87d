// Package analysis turns raw AI provider output into structured medicine
// safety reports. Parsing is heuristic and total: every report field carries
// a usable fallback, and a parser failure degrades to a fully defaulted
// report rather than an error.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/providers"
)

// Parser extracts analysis reports from provider output. The clock is
// injectable so report timestamps are deterministic under test.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

func (p *Parser) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// ParseAnalysis builds an analysis report from provider output. Structured
// JSON output is adopted field-for-field with gaps backfilled; plain text
// goes through section extraction. Never returns nil.
func (p *Parser) ParseAnalysis(out *providers.Output, medicineName string, patient report.PatientInfo) (analysis *report.AnalysisReport) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Failed to parse analysis response", "medicine", medicineName, "panic", r)
			analysis = p.fallbackAnalysis(out, medicineName)
		}
	}()

	content := ""
	if out != nil && out.Kind == providers.KindJSON {
		if _, ok := out.JSON["medicationOverview"]; ok {
			rep, err := p.adoptStructured(out.JSON)
			if err == nil {
				return rep
			}
			logging.Warn("Failed to adopt structured analysis response", "error", err)
			return p.fallbackAnalysis(out, medicineName)
		}
		if nested, ok := out.JSON["content"].(map[string]any); ok {
			rep, err := p.adoptNested(nested, patient)
			if err == nil {
				return rep
			}
			logging.Warn("Failed to adopt nested analysis response", "error", err)
			return p.fallbackAnalysis(out, medicineName)
		}
		if s, ok := out.JSON["content"].(string); ok {
			content = s
		} else {
			content = stringifyJSON(out.JSON)
		}
	} else if out != nil {
		content = out.Text
	}

	return p.parseText(content, medicineName, patient)
}

// adoptStructured takes a response that already carries the report shape,
// stamping defaults only where fields are missing.
func (p *Parser) adoptStructured(m map[string]any) (*report.AnalysisReport, error) {
	rep, err := decodeReport(m)
	if err != nil {
		return nil, err
	}

	rep.LastUpdated = p.timestamp()
	if rep.RiskLevel == "" {
		rep.RiskLevel = "low"
	}
	if rep.ConfidenceLevel == "" {
		rep.ConfidenceLevel = "moderate"
	}
	if rep.EvidenceQuality == "" {
		rep.EvidenceQuality = "moderate"
	}
	return rep, nil
}

// adoptNested takes a response wrapping the report under a content key.
// Missing assessments are recomputed from the serialized content.
func (p *Parser) adoptNested(m map[string]any, patient report.PatientInfo) (*report.AnalysisReport, error) {
	rep, err := decodeReport(m)
	if err != nil {
		return nil, err
	}

	blob := stringifyJSON(m)
	rep.LastUpdated = p.timestamp()
	if rep.RiskLevel == "" {
		rep.RiskLevel = assessRiskLevel(blob, patient)
	}
	if rep.ConfidenceLevel == "" {
		rep.ConfidenceLevel = "moderate"
	}
	if rep.EvidenceQuality == "" {
		rep.EvidenceQuality = "moderate"
	}
	if _, ok := m["sideEffects"]; !ok {
		rep.SideEffects = parseSideEffects(blob)
	}
	if _, ok := m["specialPopulations"]; !ok {
		rep.SpecialPopulations = extractSpecialPopulations(blob)
	}
	return rep, nil
}

// parseText runs the full heuristic extraction over a plain text response.
func (p *Parser) parseText(content, medicineName string, patient report.PatientInfo) *report.AnalysisReport {
	summary := extractSummary(content)
	if summary == "" {
		summary = fmt.Sprintf("Analysis for %s with limited details available.", medicineName)
	}

	analysis := &report.AnalysisReport{
		MedicationOverview: sectionOrDefault(content, overviewKeywords, "Medication information not available."),
		GeneralSafety:      sectionOrDefault(content, generalSafetyKeywords, "General safety information not available."),
		WomensSafety:       sectionOrDefault(content, womensSafetyKeywords, "Women-specific safety information not available."),
		PediatricSafety:    sectionOrDefault(content, pediatricSafetyKeywords, "Pediatric safety information not available."),
		PregnancySafety:    sectionOrDefault(content, pregnancySafetyKeywords, "Pregnancy safety information not available."),
		ClinicalTrials:     sectionOrDefault(content, clinicalTrialsKeywords, "Clinical trial information not available."),
		SideEffects:        parseSideEffects(content),
		Contraindications:  sectionOrDefault(content, contraindicationKeywords, "Contraindication information not available."),
		Dosing:             sectionOrDefault(content, dosingKeywords, "Dosing information not available."),
		Interactions:       sectionOrDefault(content, interactionKeywords, "Drug interaction information not available."),
		Monitoring:         sectionOrDefault(content, monitoringKeywords, "Monitoring recommendations not available."),
		Summary:            summary,
		RiskLevel:          assessRiskLevel(content, patient),
		ConfidenceLevel:    assessConfidenceLevel(content),
		EvidenceQuality:    assessEvidenceQuality(content),
		BlackBoxWarnings:   extractBlackBoxWarnings(content),
		SpecialPopulations: extractSpecialPopulations(content),
		LastUpdated:        p.timestamp(),
	}

	// When no section matched at all, serve the raw content rather than a
	// wall of "not available" placeholders.
	hasRealContent := false
	for _, section := range []string{
		analysis.MedicationOverview,
		analysis.GeneralSafety,
		analysis.WomensSafety,
		analysis.PediatricSafety,
		analysis.PregnancySafety,
	} {
		if !strings.Contains(section, "not available") {
			hasRealContent = true
			break
		}
	}
	if !hasRealContent && len(content) > 50 {
		logging.Info("No structured sections found, using raw content as general information")
		analysis.MedicationOverview = fmt.Sprintf("Comprehensive analysis for %s", medicineName)
		analysis.GeneralSafety = truncate(content, 1000)
		analysis.Summary = fmt.Sprintf("AI analysis of %s. %s", medicineName, truncate(content, 200))
	}

	return analysis
}

// parseSideEffects extracts categorized side effects. Common, serious and
// rare lists come from the side effect section; gender and age specific
// lists scan the whole content.
func parseSideEffects(content string) report.SideEffects {
	section := extractSection(content, sideEffectKeywords)

	result := report.SideEffects{
		Common:         extractListFromText(section, `common|frequent|≥.*%|>.*%|most`),
		Serious:        extractListFromText(section, `serious|severe|life.*threatening|danger`),
		Rare:           extractListFromText(section, `rare|uncommon|<.*%|infre`),
		GenderSpecific: extractListFromText(content, `women|female|gender|estrogen|menstr`),
		AgeSpecific:    extractListFromText(content, `children|pediatric|elderly|geriatric|age`),
		Summary:        section,
	}
	if result.Summary == "" {
		result.Summary = "Side effect information not available."
	}

	// No categorized lists but a prose section: surface its first
	// substantial paragraph as the common entry.
	if len(result.Common) == 0 && len(result.Serious) == 0 && len(result.Rare) == 0 && section != "" {
		for _, para := range strings.Split(strings.ReplaceAll(section, "\r\n\r\n", "\n\n"), "\n\n") {
			if len(strings.TrimSpace(para)) > 20 {
				result.Common = []string{para}
				break
			}
		}
	}

	return result
}

func extractSpecialPopulations(content string) report.SpecialPopulations {
	return report.SpecialPopulations{
		RenalImpairment:   sectionOrNil(content, `renal|kidney|creatinine`),
		HepaticImpairment: sectionOrNil(content, `hepatic|liver|ast|alt`),
		Elderly:           sectionOrNil(content, `elderly|geriatric|age.*65`),
		Pediatric:         sectionOrNil(content, `pediatric|children|infant`),
	}
}

// fallbackAnalysis is the last-resort report when parsing itself failed.
func (p *Parser) fallbackAnalysis(out *providers.Output, medicineName string) *report.AnalysisReport {
	content := "Analysis data not available"
	if out != nil {
		switch out.Kind {
		case providers.KindJSON:
			if s, ok := out.JSON["content"].(string); ok {
				content = s
			} else {
				content = stringifyJSON(out.JSON)
			}
		default:
			if out.Text != "" {
				content = out.Text
			}
		}
	}

	return &report.AnalysisReport{
		MedicationOverview: fmt.Sprintf("Analysis for %s", medicineName),
		GeneralSafety:      content,
		WomensSafety:       "Please consult healthcare provider for women-specific information.",
		PediatricSafety:    "Please consult healthcare provider for pediatric information.",
		PregnancySafety:    "Please consult healthcare provider for pregnancy safety information.",
		ClinicalTrials:     "Clinical trial information not available.",
		SideEffects: report.SideEffects{
			Common:         []string{},
			Serious:        []string{},
			Rare:           []string{},
			GenderSpecific: []string{},
			AgeSpecific:    []string{},
			Summary:        "Please refer to medication packaging for side effects.",
		},
		Contraindications: "Please refer to medication packaging for contraindications.",
		Dosing:            "Please follow healthcare provider instructions for dosing.",
		Interactions:      "Please consult healthcare provider for drug interactions.",
		Monitoring:        "Please follow healthcare provider monitoring recommendations.",
		Summary:           "Consult your healthcare provider for comprehensive medication information.",
		RiskLevel:         "unknown",
		ConfidenceLevel:   "low",
		EvidenceQuality:   "insufficient",
		LastUpdated:       p.timestamp(),
	}
}

func decodeReport(m map[string]any) (*report.AnalysisReport, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var rep report.AnalysisReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func stringifyJSON(m map[string]any) string {
	raw, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(raw)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
