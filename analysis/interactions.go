package analysis

import (
	"github.com/medsafe/medsafe-api/analysis/report"
)

// ParseInteractions extracts a drug interaction report from provider text.
func (p *Parser) ParseInteractions(content string, medicines []string) *report.InteractionReport {
	return &report.InteractionReport{
		Medicines:                   medicines,
		PharmacokineticInteractions: sectionOrDefault(content, `pharmacokinetic|cyp|absorption|metabolism|elimination`, "Pharmacokinetic interaction data not available."),
		PharmacodynamicInteractions: sectionOrDefault(content, `pharmacodynamic|synergistic|antagonistic|additive`, "Pharmacodynamic interaction data not available."),
		PopulationSpecific: report.PopulationInteractions{
			Women:     sectionOrNil(content, `women|female`),
			Pediatric: sectionOrNil(content, `pediatric|children`),
			Pregnancy: sectionOrNil(content, `pregnancy|pregnant`),
		},
		SeverityAssessment:     assessInteractionSeverity(content),
		ManagementStrategies:   sectionOrDefault(content, `management|strategy|prevention|mitigation`, "Management strategies not available."),
		MonitoringRequirements: sectionOrDefault(content, `monitoring|surveillance|laboratory|clinical.*assessment`, "Monitoring requirements not available."),
		RiskLevel:              assessInteractionRisk(content),
		CheckedAt:              p.timestamp(),
	}
}
