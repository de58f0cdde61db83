package complaint

import "testing"

func TestValueSetValueRoundTrip(t *testing.T) {
	tests := []struct {
		path  string
		value string
	}{
		{FieldEventDate, "24 Jun 2025"},
		{FieldEventLocation, "Ward 5A"},
		{FieldTypeOfCare, "Emergency Department"},
		{FieldBillingAmount, "120"},
		{FieldInsuranceStatus, "Private insurance"},
		{FieldMedicationName, "Aspirin"},
		{FieldPeopleRole, "nurse"},
		{FieldContactName, "Mary Tan"},
		{FieldContactEmail, "mary@example.org"},
	}

	for _, tt := range tests {
		r := &Record{}
		if r.Known(tt.path) {
			t.Errorf("%s: expected absent before set", tt.path)
		}
		if err := r.SetValue(tt.path, tt.value); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.path, err)
		}
		if got := r.Value(tt.path); got != tt.value {
			t.Errorf("%s: got %q, want %q", tt.path, got, tt.value)
		}
		if !r.Known(tt.path) {
			t.Errorf("%s: expected known after set", tt.path)
		}
	}
}

func TestSetValueBooleanFields(t *testing.T) {
	r := &Record{}
	if err := r.SetValue(FieldWantsContact, "yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Contact.WantsContact == nil || !*r.Contact.WantsContact {
		t.Fatal("expected wantsContact true")
	}
	if got := r.Value(FieldWantsContact); got != "true" {
		t.Errorf("got %q, want true", got)
	}

	if err := r.SetValue(FieldIsPatient, "no"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Contact.IsPatient == nil || *r.Contact.IsPatient {
		t.Fatal("expected isPatient false")
	}

	if err := r.SetValue(FieldWantsContact, "maybe"); err == nil {
		t.Fatal("expected error for non-boolean input")
	}
}

func TestSetValueUnknownPath(t *testing.T) {
	r := &Record{}
	if err := r.SetValue("no.such.field", "x"); err == nil {
		t.Fatal("expected error for unknown path")
	}
}

func TestSetUnknown(t *testing.T) {
	r := &Record{}
	r.SetUnknown(FieldEventDate)
	if got := r.Value(FieldEventDate); got != Unknown {
		t.Errorf("got %q, want %q", got, Unknown)
	}
	if !r.Known(FieldEventDate) {
		t.Error("expected unknown sentinel to count as known")
	}

	r.SetUnknown(FieldWantsContact)
	if r.Contact.WantsContact == nil || *r.Contact.WantsContact {
		t.Error("expected skipped wantsContact to resolve false")
	}

	r.SetUnknown(FieldImpact)
	if len(r.Impact) != 1 || r.Impact[0] != Unknown {
		t.Errorf("expected impact [unknown], got %v", r.Impact)
	}
}

func TestImpactAppend(t *testing.T) {
	r := &Record{}
	r.SetUnknown(FieldImpact)
	if err := r.SetValue(FieldImpact, "Emotional stress or anxiety"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Impact) != 1 || r.Impact[0] != "Emotional stress or anxiety" {
		t.Fatalf("expected skip to be replaced, got %v", r.Impact)
	}

	_ = r.SetValue(FieldImpact, "Safety risk or harm")
	_ = r.SetValue(FieldImpact, "emotional stress or anxiety")
	if len(r.Impact) != 2 {
		t.Fatalf("expected deduplicated list of 2, got %v", r.Impact)
	}
}

func TestAppendDetail(t *testing.T) {
	r := &Record{Description: "long wait at clinic"}
	r.AppendDetail("date", "24 Jun 2025")
	r.AppendDetail("location", Unknown)
	want := "long wait at clinic [date: 24 Jun 2025]"
	if r.Description != want {
		t.Errorf("got %q, want %q", r.Description, want)
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		sub  Subcategory
		want Domain
	}{
		{SubWaitTime, DomainManagement},
		{SubBilling, DomainManagement},
		{SubAttitude, DomainRelationship},
		{SubSafety, DomainClinical},
		{SubMedication, DomainClinical},
	}
	for _, tt := range tests {
		if got := DomainOf(tt.sub); got != tt.want {
			t.Errorf("DomainOf(%s) = %s, want %s", tt.sub, got, tt.want)
		}
	}
}
