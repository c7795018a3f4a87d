// Package prompts builds the text sent to AI providers. Prompt wording is
// centralized here so the analysis service and the name resolver never embed
// raw prompt strings.
package prompts

import (
	"fmt"
	"strings"

	"github.com/medsafe/medsafe-api/analysis/report"
)

// Analysis builds the main safety analysis prompt for a medicine and an
// optional patient profile.
func Analysis(medicineName string, patient report.PatientInfo) string {
	age := "not specified"
	if patient.Age != nil {
		age = fmt.Sprintf("%d", *patient.Age)
	}
	gender := patient.Gender
	if gender == "" {
		gender = "not specified"
	}

	var flags strings.Builder
	if patient.IsPregnant {
		flags.WriteString(", Pregnant")
	}
	if patient.IsChild {
		flags.WriteString(", Child")
	}

	return fmt.Sprintf(`Analyze the medication "%s" for safety. Provide a concise analysis covering:

1. **Medication Overview**: Generic name, drug class, primary uses
2. **General Safety**: Common side effects, contraindications
3. **Special Populations**:
   - Women's health considerations
   - Pediatric safety (if age < 18)
   - Pregnancy safety (if applicable)
4. **Key Warnings**: Important safety alerts or black box warnings
5. **Dosing Guidelines**: Standard dosing information

Patient Info: Age %s, Gender %s%s

Keep the response concise but medically accurate. Focus on practical safety information.`,
		medicineName, age, gender, flags.String())
}

// WomensHealth builds the focused women's health prompt.
func WomensHealth(medicineName string) string {
	return fmt.Sprintf(`Provide women's health analysis for %s. Focus on:
- Hormonal interactions
- Reproductive health effects
- Pregnancy safety
- Menstrual cycle impacts
Keep response brief and practical.`, medicineName)
}

// Pediatric builds the focused pediatric safety prompt. The age string may
// be a number or "unknown" when the profile only sets the child flag.
func Pediatric(medicineName, age string) string {
	return fmt.Sprintf(`Analyze %s for pediatric safety (age: %s). Include:
- Age-appropriate dosing
- Developmental considerations
- Safety concerns for children
- Contraindications
Keep response brief and practical.`, medicineName, age)
}

// Pregnancy builds the focused pregnancy safety prompt.
func Pregnancy(medicineName string) string {
	return fmt.Sprintf(`Analyze %s for pregnancy safety. Include:
- Pregnancy category/classification
- Trimester-specific risks
- Breastfeeding safety
- Alternative options
Keep response brief and practical.`, medicineName)
}

// Alternatives builds the safer-alternatives prompt. The condition is
// optional and narrows the recommendation when present.
func Alternatives(medicineName, condition string) string {
	forCondition := ""
	if condition != "" {
		forCondition = fmt.Sprintf(" for %s", condition)
	}
	return fmt.Sprintf(`Suggest safer alternatives to %s%s. Include:
- Similar efficacy medications
- Lower risk options
- Non-pharmaceutical alternatives
- Population-specific recommendations
Keep response brief and practical.`, medicineName, forCondition)
}

// Interaction builds the drug interaction prompt for two or more medicines.
func Interaction(medicines []string) string {
	return fmt.Sprintf(`Check drug interactions between: %s. Include:
- Pharmacokinetic interactions
- Pharmacodynamic interactions
- Severity levels
- Management recommendations
Keep response brief and practical.`, strings.Join(medicines, ", "))
}

// Identification builds the prompt used to identify an unknown brand or
// colloquial medicine name, or a free-text description, via an AI provider.
func Identification(description string) string {
	return fmt.Sprintf(`You are a medicine identification expert. Based on the following description, identify the most likely medicine name (both brand and generic if applicable). The user might describe:
- Common/brand names used in India
- Symptoms the medicine treats
- Physical description of the medicine
- Usage context

Description: "%s"

Please respond in this exact JSON format:
{
  "identifiedMedicines": [
    {
      "commonName": "Brand/Common name",
      "genericName": "Generic name",
      "confidence": 0.95,
      "reasoning": "Why this medicine was identified"
    }
  ],
  "suggestions": [
    "Alternative medicine 1",
    "Alternative medicine 2"
  ]
}

Focus on commonly available medicines in India. If unsure, provide multiple options with confidence scores.`, description)
}
