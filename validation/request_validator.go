// Package validation provides request validation for the medsafe API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medsafe/medsafe-api/analysis/report"
	"github.com/medsafe/medsafe-api/interfaces"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Medicine names: alphanumeric plus the punctuation found in real
	// product names ("Dolo-650", "Liv. 52", "Vitamin D3 (Cholecalciferol)")
	medicineNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-.,()]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "union select", "drop table", "delete from",
		"../", "..\\", "file://",
	}
)

// RequestValidatorImpl implements the interfaces.RequestValidator interface
type RequestValidatorImpl struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() interfaces.RequestValidator {
	return &RequestValidatorImpl{}
}

// ValidateAnalyzeRequest checks the analyze payload: medicine name plus the
// optional patient profile fields.
func (v *RequestValidatorImpl) ValidateAnalyzeRequest(medicineName string, patient report.PatientInfo) []interfaces.FieldError {
	var errs []interfaces.FieldError

	if err := validateMedicineName(medicineName); err != nil {
		errs = append(errs, interfaces.FieldError{Field: "medicineName", Message: err.Error()})
	}

	if patient.Age != nil && (*patient.Age < 0 || *patient.Age > 120) {
		errs = append(errs, interfaces.FieldError{
			Field:   "patientInfo.age",
			Message: "Age must be between 0 and 120",
		})
	}

	switch patient.Gender {
	case "", "male", "female", "other":
	default:
		errs = append(errs, interfaces.FieldError{
			Field:   "patientInfo.gender",
			Message: "Gender must be male, female, or other",
		})
	}

	return errs
}

// ValidateInteractionRequest checks the interaction payload: 2 to 10
// medicine names, each individually valid.
func (v *RequestValidatorImpl) ValidateInteractionRequest(medicines []string) []interfaces.FieldError {
	if len(medicines) < 2 || len(medicines) > 10 {
		return []interfaces.FieldError{{
			Field:   "medicines",
			Message: "Please provide 2-10 medicines for interaction check",
		}}
	}

	var errs []interfaces.FieldError
	for i, medicine := range medicines {
		if err := validateMedicineName(medicine); err != nil {
			errs = append(errs, interfaces.FieldError{
				Field:   fmt.Sprintf("medicines[%d]", i),
				Message: err.Error(),
			})
		}
	}
	return errs
}

func validateMedicineName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < 1 || len(trimmed) > 200 {
		return fmt.Errorf("Medicine name is required and must be between 1-200 characters")
	}

	// Substring scan first: the character whitelist allows parentheses, so
	// patterns like "eval(" would otherwise slip through
	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("Medicine name contains potentially dangerous content")
		}
	}

	if !medicineNameRegex.MatchString(trimmed) {
		return fmt.Errorf("Medicine name contains invalid characters")
	}

	return nil
}
