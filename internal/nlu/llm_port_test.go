package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

// mockLLMClient returns canned responses for testing
type mockLLMClient struct {
	response string
	err      error
	requests []LLMRequest
}

func (m *mockLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return LLMResponse{}, m.err
	}
	return LLMResponse{Text: m.response}, nil
}

func TestClassify(t *testing.T) {
	mock := &mockLLMClient{response: `Here is the classification:
{
  "domain": "MANAGEMENT",
  "subcategory": "WAIT_TIME",
  "description": "Long wait at the specialist clinic",
  "extractedFields": {
    "eventDate": "yesterday",
    "eventLocation": "Specialist Clinic",
    "billingAmount": "null"
  }
}`}
	port := NewLLMPort(mock, nil)

	result, err := port.Classify(context.Background(), "I waited four hours yesterday at the specialist clinic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Domain != complaint.DomainManagement {
		t.Errorf("domain = %s, want MANAGEMENT", result.Domain)
	}
	if result.Subcategory != complaint.SubWaitTime {
		t.Errorf("subcategory = %s, want WAIT_TIME", result.Subcategory)
	}
	if result.Extracted[complaint.FieldEventDate] != "yesterday" {
		t.Errorf("expected extracted date, got %v", result.Extracted)
	}
	// "null" values must be dropped
	if _, ok := result.Extracted[complaint.FieldBillingAmount]; ok {
		t.Error("null extracted field should be dropped")
	}
}

func TestClassifyRejectsUnknownSubcategory(t *testing.T) {
	mock := &mockLLMClient{response: `{"domain": "MANAGEMENT", "subcategory": "PARKING"}`}
	port := NewLLMPort(mock, nil)

	if _, err := port.Classify(context.Background(), "parking was terrible"); err == nil {
		t.Fatal("expected error for unrecognized subcategory")
	}
}

func TestClassifyNoJSON(t *testing.T) {
	mock := &mockLLMClient{response: "I'm sorry, I can't help with that."}
	port := NewLLMPort(mock, nil)

	if _, err := port.Classify(context.Background(), "some complaint"); err == nil {
		t.Fatal("expected error when response has no JSON")
	}
}

func TestSelectMissingFields(t *testing.T) {
	mock := &mockLLMClient{response: `["event.date", "typeOfCare"]`}
	port := NewLLMPort(mock, nil)

	rec := &complaint.Record{Subcategory: complaint.SubWaitTime}
	fields, err := port.SelectMissingFields(context.Background(), rec, []string{"event.date", "event.location", "typeOfCare"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 2 || fields[0] != "event.date" || fields[1] != "typeOfCare" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plain value", "24 Jun 2025", "24 Jun 2025"},
		{"quoted value", `"Ward 5A"`, "Ward 5A"},
		{"unknown", "UNKNOWN", ValueUnknown},
		{"empty", "", ValueUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := NewLLMPort(&mockLLMClient{response: tt.response}, nil)
			got, err := port.ExtractValue(context.Background(), "When did this happen?", complaint.FieldEventDate, "it was on the 24th")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJudgeValidity(t *testing.T) {
	mock := &mockLLMClient{response: `{"hasContradiction": false, "isVague": true, "isInvalid": false, "clarificationQuestion": "Could you say how this affected you specifically?"}`}
	port := NewLLMPort(mock, nil)

	j, err := port.JudgeValidity(context.Background(), "How did this affect you?", "im angry", "subcategory: ATTITUDE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !j.Failed() {
		t.Error("expected vague judgement to fail")
	}
	if j.Contradiction || j.Invalid || !j.Vague {
		t.Errorf("unexpected judgement: %+v", j)
	}
	if j.Clarification == "" {
		t.Error("expected clarification question")
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		response string
		want     string
	}{
		{"SKIP", IntentSkip},
		{"clarify", IntentClarify},
		{"ANSWER", IntentAnswer},
		{"something else entirely", IntentAnswer},
	}
	for _, tt := range tests {
		port := NewLLMPort(&mockLLMClient{response: tt.response}, nil)
		got, err := port.ClassifyIntent(context.Background(), "When did this happen?", "hm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("response %q: got %s, want %s", tt.response, got, tt.want)
		}
	}
}

func TestExtractContact(t *testing.T) {
	mock := &mockLLMClient{response: `{"name": "Mary Tan", "email": "mary@example.org", "isPatient": "null", "wantsContact": true}`}
	port := NewLLMPort(mock, nil)

	details, err := port.ExtractContact(context.Background(), "I'm Mary Tan, mary@example.org, yes please contact me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Name != "Mary Tan" || details.Email != "mary@example.org" {
		t.Errorf("unexpected details: %+v", details)
	}
	if details.IsPatient != nil {
		t.Error("expected isPatient absent")
	}
	if details.WantsContact == nil || !*details.WantsContact {
		t.Error("expected wantsContact true")
	}
}

func TestPortPropagatesClientError(t *testing.T) {
	mock := &mockLLMClient{err: errors.New("timeout")}
	port := NewLLMPort(mock, nil)

	if _, err := port.Classify(context.Background(), "text"); err == nil {
		t.Error("expected classify error")
	}
	if _, err := port.ExtractValue(context.Background(), "q", complaint.FieldEventDate, "r"); err == nil {
		t.Error("expected extract error")
	}
	if _, err := port.JudgeValidity(context.Background(), "q", "r", "ctx"); err == nil {
		t.Error("expected judge error")
	}
}

func TestKnownFieldSummary(t *testing.T) {
	rec := &complaint.Record{}
	if got := KnownFieldSummary(rec); got != "Only basic complaint classification" {
		t.Errorf("unexpected empty summary: %q", got)
	}

	rec.Description = "long wait"
	_ = rec.SetValue(complaint.FieldEventDate, "yesterday")
	summary := KnownFieldSummary(rec)
	if summary == "" || summary == "Only basic complaint classification" {
		t.Fatalf("expected populated summary, got %q", summary)
	}
}
