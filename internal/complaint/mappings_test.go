package complaint

import (
	"strings"
	"testing"
)

func TestMapToCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		mappings []ValueMapping
		numeric  bool
		want     string
	}{
		{"exact synonym", "a&e", TypeOfCareMappings, true, "Emergency Department"},
		{"case insensitive", "PHARMACY", TypeOfCareMappings, true, "Pharmacy"},
		{"numeric selection", "3", TypeOfCareMappings, true, "Surgery or Day Surgery"},
		{"numeric with trailing text", "2 please", TypeOfCareMappings, true, "Specialist Clinic"},
		{"numeric out of range", "42", TypeOfCareMappings, true, ""},
		{"substring in input", "i went to the emergency room last week", TypeOfCareMappings, false, "Emergency Department"},
		{"input inside synonym", "haemo", ImpactMappings, false, ""},
		{"impact free text", "it caused me a lot of stress", ImpactMappings, true, "Emotional stress or anxiety"},
		{"insurance negative", "no", InsuranceStatusMappings, false, "No insurance"},
		{"empty input", "   ", TypeOfCareMappings, true, ""},
		{"no match", "zzqq", TypeOfCareMappings, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapToCanonical(tt.input, tt.mappings, tt.numeric)
			if got != tt.want {
				t.Errorf("MapToCanonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionsList(t *testing.T) {
	list := OptionsList(TypeOfCareMappings)
	lines := strings.Split(list, "\n")
	if len(lines) != len(TypeOfCareMappings) {
		t.Fatalf("expected %d lines, got %d", len(TypeOfCareMappings), len(lines))
	}
	if !strings.HasPrefix(lines[0], "1. Emergency Department") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "9. Dialysis") {
		t.Errorf("unexpected last line: %q", lines[len(lines)-1])
	}
}

func TestMappingsForField(t *testing.T) {
	if MappingsForField(FieldTypeOfCare) == nil {
		t.Error("expected typeOfCare mappings")
	}
	if MappingsForField(FieldImpact) == nil {
		t.Error("expected impact mappings")
	}
	if MappingsForField(FieldEventDate) != nil {
		t.Error("expected no mappings for free-form field")
	}
}

func TestFieldExcluded(t *testing.T) {
	if !FieldExcluded(SubFacilities, FieldTypeOfCare) {
		t.Error("facilities complaints should exclude typeOfCare")
	}
	if !FieldExcluded(SubFacilities, FieldPeopleRole) {
		t.Error("facilities complaints should exclude people.role")
	}
	if FieldExcluded(SubBilling, FieldBillingAmount) {
		t.Error("billing complaints must keep billing.amount")
	}
	if !FieldExcluded(SubAttitude, FieldBillingAmount) {
		t.Error("attitude complaints should exclude billing.amount")
	}
}

func TestRequiredFieldsHaveDefinitions(t *testing.T) {
	for sub, fields := range RequiredFieldsBySubcategory {
		for _, path := range fields {
			if _, ok := FieldDefinitionFor(path); !ok {
				t.Errorf("%s requires %s which has no definition", sub, path)
			}
		}
	}
	for _, path := range ContactFields {
		if _, ok := FieldDefinitionFor(path); !ok {
			t.Errorf("contact field %s has no definition", path)
		}
	}
}
