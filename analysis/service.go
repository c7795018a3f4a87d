package analysis

import (
	"context"
	"strconv"
	"sync"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/interfaces"
	"github.com/medsafe/medsafe-api/logging"
	"github.com/medsafe/medsafe-api/prompts"
	"github.com/medsafe/medsafe-api/providers"
)

// Compile-time check to ensure Service implements the MedicineAnalyzer interface
var _ interfaces.MedicineAnalyzer = (*Service)(nil)

// Service composes name resolution, prompt building, provider orchestration
// and parsing into the end-to-end analysis operations.
type Service struct {
	orchestrator interfaces.Orchestrator
	resolver     interfaces.NameResolver
	parser       *Parser
}

func NewService(orchestrator interfaces.Orchestrator, resolver interfaces.NameResolver) *Service {
	return &Service{
		orchestrator: orchestrator,
		resolver:     resolver,
		parser:       NewParser(),
	}
}

// Analyze resolves the medicine name, runs the main analysis round-trip and
// fans out the applicable specialized sub-analyses concurrently. Only the
// main round-trip can fail; every sub-analysis degrades in place.
func (s *Service) Analyze(ctx context.Context, medicineName string, patient report.PatientInfo) (*report.AnalysisReport, error) {
	resolved := medicineName
	generic, wasResolved := s.resolver.GenericName(medicineName)
	if wasResolved {
		logging.Info("Resolved medicine to generic name", "original", medicineName, "generic", generic)
		resolved = generic
	}

	logging.Info("Analyzing medicine", "medicine", resolved, "original", medicineName,
		"pregnant", patient.IsPregnant, "child", patient.IsChild)

	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.Analysis(resolved, patient))
	if err != nil {
		logging.Error("Medicine analysis failed", "medicine", medicineName, "error", err)
		return nil, err
	}
	logging.Info("Medicine analysis provided", "service", serviceUsed)

	analysis := s.parser.ParseAnalysis(out, resolved, patient)
	analysis.ServiceUsed = serviceUsed
	analysis.MedicineNames = &report.MedicineNames{
		Original:    medicineName,
		Resolved:    resolved,
		WasResolved: wasResolved,
	}

	// Specialized analyses are independent round-trips. Each writes its own
	// report field, so no mutex is needed across the goroutines.
	var wg sync.WaitGroup

	if patient.IsFemale() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis.SpecializedWomensHealth = s.womensHealthAnalysis(ctx, resolved)
		}()
	}
	if patient.IsPediatric() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis.SpecializedPediatric = s.pediatricAnalysis(ctx, resolved, patient.Age)
		}()
	}
	if patient.IsPregnant {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis.SpecializedPregnancy = s.pregnancyAnalysis(ctx, resolved)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		analysis.Alternatives = s.GetAlternatives(ctx, resolved, "")
	}()

	wg.Wait()
	return analysis, nil
}

func (s *Service) womensHealthAnalysis(ctx context.Context, medicineName string) *report.SubAnalysis {
	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.WomensHealth(medicineName))
	if err != nil {
		logging.Warn("Women's health analysis failed", "medicine", medicineName, "error", err)
		return &report.SubAnalysis{
			Analysis:  "Specialized women's health analysis unavailable. Please consult your healthcare provider.",
			Focus:     "women_health",
			Error:     true,
			Timestamp: s.parser.timestamp(),
		}
	}
	logging.Info("Women's health analysis provided", "service", serviceUsed)

	return &report.SubAnalysis{
		Analysis:  outputText(out),
		Focus:     "women_health",
		Timestamp: s.parser.timestamp(),
	}
}

func (s *Service) pediatricAnalysis(ctx context.Context, medicineName string, age *int) *report.SubAnalysis {
	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.Pediatric(medicineName, ageString(age)))
	if err != nil {
		logging.Warn("Pediatric analysis failed", "medicine", medicineName, "error", err)
		return &report.SubAnalysis{
			Analysis:  "Specialized pediatric analysis unavailable. Please consult a pediatrician.",
			Focus:     "pediatric",
			Error:     true,
			Timestamp: s.parser.timestamp(),
		}
	}
	logging.Info("Pediatric analysis provided", "service", serviceUsed)

	return &report.SubAnalysis{
		Analysis:  outputText(out),
		Focus:     "pediatric",
		AgeGroup:  ageGroup(age),
		Timestamp: s.parser.timestamp(),
	}
}

func (s *Service) pregnancyAnalysis(ctx context.Context, medicineName string) *report.SubAnalysis {
	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.Pregnancy(medicineName))
	if err != nil {
		logging.Warn("Pregnancy analysis failed", "medicine", medicineName, "error", err)
		return &report.SubAnalysis{
			Analysis:  "Specialized pregnancy analysis unavailable. Please consult your obstetrician.",
			Focus:     "pregnancy",
			Error:     true,
			Timestamp: s.parser.timestamp(),
		}
	}
	logging.Info("Pregnancy analysis provided", "service", serviceUsed)

	return &report.SubAnalysis{
		Analysis:  outputText(out),
		Focus:     "pregnancy",
		Timestamp: s.parser.timestamp(),
	}
}

// GetAlternatives looks up safer alternatives. Always returns a report; AI
// failure yields a degraded report carrying an error note.
func (s *Service) GetAlternatives(ctx context.Context, medicineName, condition string) *report.AlternativesReport {
	logging.Info("Getting medicine alternatives", "medicine", medicineName, "condition", condition)

	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.Alternatives(medicineName, condition))
	if err != nil {
		logging.Error("Failed to get alternatives", "medicine", medicineName, "error", err)
		return &report.AlternativesReport{
			ByPopulation: report.AlternativesByPopulation{
				WomenReproductiveAge: []string{},
				Pregnant:             []string{},
				Pediatric:            []string{},
				Elderly:              []string{},
			},
			ByMechanism:          []string{},
			SafetyComparisons:    "Safety comparison data not available.",
			TransitionStrategies: "Transition guidance not available.",
			EvidenceLevel:        "insufficient",
			Recommendations:      []string{"Consult your healthcare provider for alternative medication options."},
			Error:                "Unable to retrieve alternative medications at this time.",
		}
	}
	logging.Info("Alternatives provided", "service", serviceUsed)

	return s.parser.ParseAlternatives(outputText(out))
}

// CheckInteractions checks drug interactions between two or more medicines.
// Always returns a report; AI failure yields a fully defaulted report with
// unknown risk.
func (s *Service) CheckInteractions(ctx context.Context, medicines []string) *report.InteractionReport {
	logging.Info("Checking drug interactions", "medicines", medicines)

	out, serviceUsed, err := s.orchestrator.GenerateStructuredContent(ctx, prompts.Interaction(medicines))
	if err != nil {
		logging.Error("Interaction check failed", "medicines", medicines, "error", err)
		return &report.InteractionReport{
			Medicines:                   medicines,
			PharmacokineticInteractions: "Pharmacokinetic interaction data not available.",
			PharmacodynamicInteractions: "Pharmacodynamic interaction data not available.",
			SeverityAssessment:          "unknown",
			ManagementStrategies:        "Consult your healthcare provider for interaction management.",
			MonitoringRequirements:      "Monitoring requirements should be discussed with your healthcare provider.",
			RiskLevel:                   "unknown",
			CheckedAt:                   s.parser.timestamp(),
			Error:                       "Unable to retrieve interaction data at this time. Please consult your healthcare provider.",
		}
	}
	logging.Info("Interaction check provided", "service", serviceUsed)

	return s.parser.ParseInteractions(outputText(out), medicines)
}

// outputText flattens provider output to a string for the text parsers.
func outputText(out *providers.Output) string {
	if out == nil {
		return ""
	}
	if out.Kind == providers.KindJSON {
		if s, ok := out.JSON["content"].(string); ok {
			return s
		}
		return stringifyJSON(out.JSON)
	}
	return out.Text
}

func ageString(age *int) string {
	if age == nil {
		return "unknown"
	}
	return strconv.Itoa(*age)
}

func ageGroup(age *int) string {
	if age == nil {
		return "unknown"
	}
	switch a := *age; {
	case a < 1:
		return "neonate"
	case a < 2:
		return "infant"
	case a < 12:
		return "child"
	case a < 18:
		return "adolescent"
	}
	return "adult"
}
