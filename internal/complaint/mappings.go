package complaint

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueMapping ties a canonical field value to the input variations
// users actually type.
type ValueMapping struct {
	Canonical string
	Synonyms  []string
}

// TypeOfCareMappings normalizes service descriptions to the hospital's
// canonical service names.
var TypeOfCareMappings = []ValueMapping{
	{
		Canonical: "Emergency Department",
		Synonyms:  []string{"emergency", "er", "accident and emergency", "a&e", "casualty", "urgent care", "emergency room"},
	},
	{
		Canonical: "Specialist Clinic",
		Synonyms:  []string{"specialist", "clinic", "cardiology", "orthopaedic", "ent", "endoscopy", "specialist clinic", "specialty"},
	},
	{
		Canonical: "Surgery or Day Surgery",
		Synonyms:  []string{"surgery", "operation", "surgical", "operating room", "or", "day surgery", "elective surgery", "procedure"},
	},
	{
		Canonical: "Outpatient Appointment",
		Synonyms:  []string{"outpatient", "appointment", "clinic appointment", "follow-up", "follow up", "consultation", "office visit"},
	},
	{
		Canonical: "Inpatient Ward",
		Synonyms:  []string{"inpatient", "ward", "admission", "hospitalised", "hospitalized", "stay", "admitted", "hospital ward"},
	},
	{
		Canonical: "Laboratory/Blood Test",
		Synonyms:  []string{"lab", "laboratory", "blood test", "lab test", "blood draw", "pathology", "testing"},
	},
	{
		Canonical: "Radiology/Imaging",
		Synonyms:  []string{"radiology", "imaging", "x-ray", "mri", "ct", "scan", "ultrasound", "ct scan", "mri scan"},
	},
	{
		Canonical: "Pharmacy",
		Synonyms:  []string{"pharmacy", "pharmacist", "prescription", "medication dispensing", "drug", "medicine"},
	},
	{
		Canonical: "Dialysis",
		Synonyms:  []string{"dialysis", "haemodialysis", "hemodialysis", "peritoneal", "kidney dialysis"},
	},
}

// ImpactMappings normalizes how the situation affected the complainant.
var ImpactMappings = []ValueMapping{
	{
		Canonical: "Physical symptoms worsened or new symptoms",
		Synonyms:  []string{"physical", "symptoms worsened", "new symptoms", "pain", "hurt", "injury", "illness", "sickness", "got worse", "worsened"},
	},
	{
		Canonical: "Emotional stress or anxiety",
		Synonyms:  []string{"emotional", "stress", "anxiety", "upset", "worried", "distressed", "angry", "sad", "depressed", "embarrassed", "humiliated"},
	},
	{
		Canonical: "Financial cost or unexpected charges",
		Synonyms:  []string{"financial", "cost", "charge", "money", "expensive", "bill", "payment", "unexpected fee", "extra cost", "out of pocket"},
	},
	{
		Canonical: "Treatment delay or missed care",
		Synonyms:  []string{"delay", "delayed", "missed", "postponed", "cancelled", "canceled", "didn't get", "didn't receive", "treatment delay", "care delayed"},
	},
	{
		Canonical: "Daily life affected (work/school/family)",
		Synonyms:  []string{"daily life", "work", "school", "family", "missed work", "absence", "inconvenience", "disrupted", "affected routine", "can't do activities"},
	},
	{
		Canonical: "Safety risk or harm",
		Synonyms:  []string{"safety", "risk", "harm", "danger", "unsafe", "dangerous", "risk to health", "potential harm", "endangered"},
	},
	{
		Canonical: "Other (please describe)",
		Synonyms:  []string{"other", "something else", "different", "not listed", "miscellaneous"},
	},
}

// InsuranceStatusMappings normalizes insurance coverage answers.
var InsuranceStatusMappings = []ValueMapping{
	{
		Canonical: "Employer insurance",
		Synonyms:  []string{"employer", "work insurance", "company insurance", "employee", "employment"},
	},
	{
		Canonical: "Government coverage",
		Synonyms:  []string{"government", "medicare", "medicaid", "public", "government program", "state insurance"},
	},
	{
		Canonical: "Private insurance",
		Synonyms:  []string{"private", "individual", "private policy", "personal insurance"},
	},
	{
		Canonical: "No insurance",
		Synonyms:  []string{"no", "none", "uninsured", "without insurance", "don't have insurance"},
	},
	{
		Canonical: "Unknown or unsure",
		Synonyms:  []string{"don't know", "not sure", "unsure", "not applicable", "prefer not to say"},
	},
}

// MappingsForField returns the mapping table for an enumerated field,
// or nil if the field is free-form.
func MappingsForField(path string) []ValueMapping {
	switch path {
	case FieldTypeOfCare:
		return TypeOfCareMappings
	case FieldImpact:
		return ImpactMappings
	case FieldInsuranceStatus:
		return InsuranceStatusMappings
	}
	return nil
}

// MapToCanonical resolves user input against a mapping table. Numeric
// input selects the 1-indexed option when allowNumeric is set; then an
// exact synonym match is tried, then a substring match in either
// direction. Returns "" when nothing matches.
func MapToCanonical(input string, mappings []ValueMapping, allowNumeric bool) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return ""
	}

	if allowNumeric {
		digits := leadingDigits(normalized)
		if digits != "" {
			if idx, err := strconv.Atoi(digits); err == nil && idx >= 1 && idx <= len(mappings) {
				return mappings[idx-1].Canonical
			}
		}
	}

	for _, m := range mappings {
		for _, syn := range m.Synonyms {
			if strings.ToLower(syn) == normalized {
				return m.Canonical
			}
		}
	}

	for _, m := range mappings {
		for _, syn := range m.Synonyms {
			s := strings.ToLower(syn)
			if strings.Contains(normalized, s) || strings.Contains(s, normalized) {
				return m.Canonical
			}
		}
	}

	return ""
}

// OptionsList renders a mapping table as a numbered menu for question
// prompts.
func OptionsList(mappings []ValueMapping) string {
	var b strings.Builder
	for i, m := range mappings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.Canonical)
	}
	return strings.TrimRight(b.String(), "\n")
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
