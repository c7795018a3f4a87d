package validation

import (
	"strings"
	"testing"

	"github.com/medsafe/medsafe-api/analysis/report"
)

func TestValidateAnalyzeRequestValidNames(t *testing.T) {
	v := NewRequestValidator()

	valid := []string{
		"Paracetamol",
		"Dolo-650",
		"Liv. 52",
		"Vitamin D3 (Cholecalciferol)",
		"Amoxicillin",
		"  Crocin  ",
	}

	for _, name := range valid {
		if errs := v.ValidateAnalyzeRequest(name, report.PatientInfo{}); len(errs) != 0 {
			t.Errorf("Expected %q to be valid, got %v", name, errs)
		}
	}
}

func TestValidateAnalyzeRequestInvalidNames(t *testing.T) {
	v := NewRequestValidator()

	invalid := []string{
		"",
		"   ",
		strings.Repeat("a", 201),
		"med<script>alert(1)</script>",
		"drug; drop table users",
		"eval(payload)",
		"name_with_underscores",
	}

	for _, name := range invalid {
		if errs := v.ValidateAnalyzeRequest(name, report.PatientInfo{}); len(errs) == 0 {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestValidateAnalyzeRequestPatientInfo(t *testing.T) {
	v := NewRequestValidator()

	negative := -1
	tooOld := 121
	valid := 35

	if errs := v.ValidateAnalyzeRequest("Paracetamol", report.PatientInfo{Age: &negative}); len(errs) == 0 {
		t.Error("Expected negative age to be rejected")
	}
	if errs := v.ValidateAnalyzeRequest("Paracetamol", report.PatientInfo{Age: &tooOld}); len(errs) == 0 {
		t.Error("Expected age over 120 to be rejected")
	}
	if errs := v.ValidateAnalyzeRequest("Paracetamol", report.PatientInfo{Age: &valid, Gender: "female"}); len(errs) != 0 {
		t.Errorf("Expected valid patient info to pass, got %v", errs)
	}
	if errs := v.ValidateAnalyzeRequest("Paracetamol", report.PatientInfo{Gender: "unknown"}); len(errs) == 0 {
		t.Error("Expected invalid gender to be rejected")
	}
	if errs := v.ValidateAnalyzeRequest("Paracetamol", report.PatientInfo{}); len(errs) != 0 {
		t.Errorf("Expected empty patient info to pass, got %v", errs)
	}
}

func TestValidateAnalyzeRequestFieldAttribution(t *testing.T) {
	v := NewRequestValidator()

	age := 300
	errs := v.ValidateAnalyzeRequest("", report.PatientInfo{Age: &age, Gender: "robot"})
	if len(errs) != 3 {
		t.Fatalf("Expected 3 field errors, got %d: %v", len(errs), errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, expected := range []string{"medicineName", "patientInfo.age", "patientInfo.gender"} {
		if !fields[expected] {
			t.Errorf("Expected field error for %s", expected)
		}
	}
}

func TestValidateInteractionRequestCount(t *testing.T) {
	v := NewRequestValidator()

	if errs := v.ValidateInteractionRequest([]string{"Aspirin"}); len(errs) == 0 {
		t.Error("Expected single medicine to be rejected")
	}

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "Paracetamol"
	}
	if errs := v.ValidateInteractionRequest(eleven); len(errs) == 0 {
		t.Error("Expected 11 medicines to be rejected")
	}

	if errs := v.ValidateInteractionRequest([]string{"Aspirin", "Warfarin"}); len(errs) != 0 {
		t.Errorf("Expected 2 medicines to pass, got %v", errs)
	}
}

func TestValidateInteractionRequestItemErrors(t *testing.T) {
	v := NewRequestValidator()

	errs := v.ValidateInteractionRequest([]string{"Aspirin", "<script>"})
	if len(errs) != 1 {
		t.Fatalf("Expected 1 field error, got %d", len(errs))
	}
	if errs[0].Field != "medicines[1]" {
		t.Errorf("Expected error attributed to medicines[1], got %s", errs[0].Field)
	}
}
