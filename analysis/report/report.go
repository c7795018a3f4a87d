// Package report defines the entities produced by the medicine analysis
// pipeline. Every field carries a non-empty fallback when extraction fails:
// a report is never partially undefined.
package report

// PatientInfo carries the optional patient attributes of an analysis request.
type PatientInfo struct {
	Age        *int   `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	IsPregnant bool   `json:"isPregnant,omitempty"`
	IsChild    bool   `json:"isChild,omitempty"`
}

// IsFemale reports whether gender-specific women's analysis applies.
func (p PatientInfo) IsFemale() bool {
	return p.Gender == "female" || p.IsPregnant
}

// IsPediatric reports whether pediatric analysis applies.
func (p PatientInfo) IsPediatric() bool {
	return p.IsChild || (p.Age != nil && *p.Age < 18)
}

// SideEffects groups extracted side effects by category.
type SideEffects struct {
	Common         []string `json:"common"`
	Serious        []string `json:"serious"`
	Rare           []string `json:"rare"`
	GenderSpecific []string `json:"genderSpecific"`
	AgeSpecific    []string `json:"ageSpecific"`
	Summary        string   `json:"summary"`
}

// SpecialPopulations holds population-specific dosing notes. Fields are nil
// when the source text had nothing to extract.
type SpecialPopulations struct {
	RenalImpairment   *string `json:"renalImpairment"`
	HepaticImpairment *string `json:"hepaticImpairment"`
	Elderly           *string `json:"elderly"`
	Pediatric         *string `json:"pediatric"`
}

// MedicineNames records the brand-to-generic resolution attached to a report.
type MedicineNames struct {
	Original    string `json:"original"`
	Resolved    string `json:"resolved"`
	WasResolved bool   `json:"wasResolved"`
}

// SubAnalysis is a specialized population analysis issued as an independent
// orchestration round-trip.
type SubAnalysis struct {
	Analysis  string `json:"analysis"`
	Focus     string `json:"focus"`
	AgeGroup  string `json:"ageGroup,omitempty"`
	Error     bool   `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// AnalysisReport is the canonical output of a medicine analysis.
type AnalysisReport struct {
	MedicationOverview string             `json:"medicationOverview"`
	GeneralSafety      string             `json:"generalSafety"`
	WomensSafety       string             `json:"womensSafety"`
	PediatricSafety    string             `json:"pediatricSafety"`
	PregnancySafety    string             `json:"pregnancySafety"`
	ClinicalTrials     string             `json:"clinicalTrials"`
	SideEffects        SideEffects        `json:"sideEffects"`
	Contraindications  string             `json:"contraindications"`
	Dosing             string             `json:"dosing"`
	Interactions       string             `json:"interactions"`
	Monitoring         string             `json:"monitoring"`
	Summary            string             `json:"summary"`
	RiskLevel          string             `json:"riskLevel"`
	ConfidenceLevel    string             `json:"confidenceLevel"`
	EvidenceQuality    string             `json:"evidenceQuality"`
	BlackBoxWarnings   *string            `json:"blackBoxWarnings"`
	SpecialPopulations SpecialPopulations `json:"specialPopulations"`
	LastUpdated        string             `json:"lastUpdated"`

	MedicineNames           *MedicineNames      `json:"medicineNames,omitempty"`
	SpecializedWomensHealth *SubAnalysis        `json:"specializedWomensHealth,omitempty"`
	SpecializedPediatric    *SubAnalysis        `json:"specializedPediatric,omitempty"`
	SpecializedPregnancy    *SubAnalysis        `json:"specializedPregnancy,omitempty"`
	Alternatives            *AlternativesReport `json:"alternatives,omitempty"`
	ServiceUsed             string              `json:"serviceUsed,omitempty"`
}

// PopulationInteractions holds interaction notes per population cohort.
// Fields are nil when nothing population-specific was found.
type PopulationInteractions struct {
	Women     *string `json:"women"`
	Pediatric *string `json:"pediatric"`
	Pregnancy *string `json:"pregnancy"`
}

// InteractionReport is the output of a drug interaction check.
type InteractionReport struct {
	Medicines                   []string               `json:"medicines"`
	PharmacokineticInteractions string                 `json:"pharmacokineticInteractions"`
	PharmacodynamicInteractions string                 `json:"pharmacodynamicInteractions"`
	PopulationSpecific          PopulationInteractions `json:"populationSpecific"`
	SeverityAssessment          string                 `json:"severityAssessment"`
	ManagementStrategies        string                 `json:"managementStrategies"`
	MonitoringRequirements      string                 `json:"monitoringRequirements"`
	RiskLevel                   string                 `json:"riskLevel"`
	CheckedAt                   string                 `json:"checkedAt"`
	Error                       string                 `json:"error,omitempty"`
}

// AlternativesByPopulation lists alternative medication names per cohort.
type AlternativesByPopulation struct {
	WomenReproductiveAge []string `json:"womenReproductiveAge"`
	Pregnant             []string `json:"pregnant"`
	Pediatric            []string `json:"pediatric"`
	Elderly              []string `json:"elderly"`
}

// AlternativesReport is the output of an alternatives lookup.
type AlternativesReport struct {
	ByPopulation         AlternativesByPopulation `json:"byPopulation"`
	ByMechanism          []string                 `json:"byMechanism"`
	SafetyComparisons    string                   `json:"safetyComparisons"`
	TransitionStrategies string                   `json:"transitionStrategies"`
	EvidenceLevel        string                   `json:"evidenceLevel"`
	Recommendations      []string                 `json:"recommendations"`
	Error                string                   `json:"error,omitempty"`
}

// Suggestion is one ranked name-lookup suggestion.
type Suggestion struct {
	CommonName  string `json:"commonName"`
	GenericName string `json:"genericName"`
	Match       string `json:"match"`
}

// IdentifiedMedicine is one AI-assisted identification result.
type IdentifiedMedicine struct {
	CommonName  string  `json:"commonName"`
	GenericName string  `json:"genericName"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// ExactMatch is a direct dictionary hit in a search result.
type ExactMatch struct {
	CommonName  string `json:"commonName"`
	GenericName string `json:"genericName"`
	Source      string `json:"source"`
}

// SearchResult combines dictionary and AI-assisted name resolution.
type SearchResult struct {
	ExactMatch   *ExactMatch          `json:"exactMatch"`
	Suggestions  []Suggestion         `json:"suggestions"`
	AIIdentified []IdentifiedMedicine `json:"aiIdentified"`
	SearchQuery  string               `json:"searchQuery"`
}
