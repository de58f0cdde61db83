// Package dialogue implements the slot-filling conversation engine
// that turns a patient complaint narrative into a validated record,
// one question per turn.
package dialogue

import (
	"time"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

// Phase names the conversation states.
type Phase string

const (
	PhaseAwaitingClassification Phase = "AWAITING_CLASSIFICATION"
	PhaseCollecting             Phase = "COLLECTING"
	PhaseFinalizing             Phase = "FINALIZING"
	PhaseDone                   Phase = "DONE"
)

const (
	// attemptCeiling is the maximum number of times a field may be
	// asked before it is force-skipped.
	attemptCeiling = 3

	// skippedAttempts permanently suppresses a field after an
	// explicit skip or force-skip.
	skippedAttempts = 99
)

// RoleUser and RoleAssistant tag transcript turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// State is the per-conversation dialogue state. It is owned
// exclusively by the engine for the duration of a turn and persisted
// by the caller between turns.
type State struct {
	SessionID  string           `json:"sessionId"`
	Phase      Phase            `json:"phase"`
	Record     complaint.Record `json:"record"`
	Transcript []Turn           `json:"transcript"`

	MissingFields   []string       `json:"missingFields"`
	CurrentQuestion string         `json:"currentQuestion,omitempty"`
	CurrentField    string         `json:"currentField,omitempty"`
	FieldAttempts   map[string]int `json:"fieldAttempts"`

	// QuestionsAsked counts distinct fields asked, not re-asks of the
	// same field. The global cap applies to this number.
	QuestionsAsked int  `json:"questionsAsked"`
	NeedsMoreInfo  bool `json:"needsMoreInfo"`
	IsComplete     bool `json:"isComplete"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewState creates the dialogue state for a fresh session.
func NewState(sessionID string, now time.Time) *State {
	return &State{
		SessionID:     sessionID,
		Phase:         PhaseAwaitingClassification,
		FieldAttempts: map[string]int{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Attempts returns the attempt count for a field.
func (s *State) Attempts(field string) int {
	return s.FieldAttempts[field]
}

// RecordAttempt increments the attempt counter for a field, counting
// it against the question budget the first time the field is asked.
func (s *State) RecordAttempt(field string) {
	if s.FieldAttempts == nil {
		s.FieldAttempts = map[string]int{}
	}
	if s.FieldAttempts[field] == 0 {
		s.QuestionsAsked++
	}
	s.FieldAttempts[field]++
}

// Suppress permanently retires a field so it never reappears in the
// missing-field list.
func (s *State) Suppress(field string) {
	if s.FieldAttempts == nil {
		s.FieldAttempts = map[string]int{}
	}
	s.FieldAttempts[field] = skippedAttempts
	s.RemoveMissing(field)
}

// ResetAttempts clears the counter for a field after its value is
// committed.
func (s *State) ResetAttempts(field string) {
	delete(s.FieldAttempts, field)
}

// RemoveMissing drops a field from the outstanding list.
func (s *State) RemoveMissing(field string) {
	out := s.MissingFields[:0]
	for _, f := range s.MissingFields {
		if f != field {
			out = append(out, f)
		}
	}
	s.MissingFields = out
}

// ClearQuestion ends the outstanding question, if any.
func (s *State) ClearQuestion() {
	s.CurrentQuestion = ""
	s.CurrentField = ""
	s.NeedsMoreInfo = false
}

// AppendTurn records a transcript entry.
func (s *State) AppendTurn(role, text string, at time.Time) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Text: text, At: at})
	s.UpdatedAt = at
}
