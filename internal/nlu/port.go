package nlu

import (
	"context"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

// ValueUnknown is returned by ExtractValue when the reply carries no
// usable value for the field.
const ValueUnknown = "UNKNOWN"

// Intent labels returned by ClassifyIntent for replies the
// deterministic matcher could not resolve.
const (
	IntentAnswer  = "ANSWER"
	IntentClarify = "CLARIFY"
	IntentSkip    = "SKIP"
)

// Classification is the result of analyzing the opening complaint
// narrative. Extracted maps field paths to raw values already
// mentioned in the narrative.
type Classification struct {
	Domain      complaint.Domain
	Subcategory complaint.Subcategory
	Description string
	Extracted   map[string]string
}

// Judgement is the contextual validity verdict for an extracted
// answer.
type Judgement struct {
	Contradiction bool
	Vague         bool
	Invalid       bool
	Clarification string
}

// Failed reports whether any validity check flagged the answer.
func (j *Judgement) Failed() bool {
	return j != nil && (j.Contradiction || j.Vague || j.Invalid)
}

// ContactDetails holds whatever contact information could be pulled
// out of a single reply. Nil pointers mean the field was not
// mentioned.
type ContactDetails struct {
	Name         string
	Email        string
	IsPatient    *bool
	WantsContact *bool
}

// Port is the language-understanding capability the dialogue engine
// depends on. Every call may fail; callers must degrade to a
// deterministic default rather than surfacing the error to the user.
type Port interface {
	// Classify assigns domain and subcategory to the opening
	// narrative and extracts any field values it already mentions.
	Classify(ctx context.Context, text string) (*Classification, error)

	// SelectMissingFields trims the candidate field list to those a
	// human intake officer would actually still ask, given what the
	// record already holds.
	SelectMissingFields(ctx context.Context, rec *complaint.Record, candidates []string) ([]string, error)

	// GenerateQuestion produces a short user-facing question for a
	// field, given a summary of the conversation so far.
	GenerateQuestion(ctx context.Context, fieldPath, conversationContext string) (string, error)

	// ExtractValue pulls the answer to a question out of a reply,
	// returning ValueUnknown when the reply carries none.
	ExtractValue(ctx context.Context, question, fieldPath, reply string) (string, error)

	// JudgeValidity checks an extracted answer for contradiction,
	// vagueness, or invalidity not caught deterministically.
	JudgeValidity(ctx context.Context, question, reply, recordContext string) (*Judgement, error)

	// ClassifyIntent resolves an ambiguous short reply into exactly
	// one of IntentAnswer, IntentClarify, or IntentSkip.
	ClassifyIntent(ctx context.Context, question, reply string) (string, error)

	// ExtractContact pulls any bundled contact details out of a
	// single reply.
	ExtractContact(ctx context.Context, reply string) (*ContactDetails, error)
}
