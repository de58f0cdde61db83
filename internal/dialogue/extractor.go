package dialogue

import (
	"context"
	"strconv"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/nlu"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

// handleAnswer runs the two-tier validation and extraction for a reply
// classified as an answer to the outstanding question.
func (e *Engine) handleAnswer(ctx context.Context, st *State, field, reply string, logger *logging.Logger) string {
	question := st.CurrentQuestion

	// Users often hand over several contact details in one message;
	// harvest them all before falling back to single-field extraction.
	if isContactField(field) {
		if committed := e.extractContactBundle(ctx, st, reply, logger); committed {
			return e.continueOrFinalize(ctx, st, logger, "")
		}
	}

	// Deterministic tier first: cheap checks that need no model.
	switch field {
	case complaint.FieldEventDate:
		if res := ValidateDate(reply, e.now()); !res.Valid {
			return e.retryOrForceSkip(ctx, st, field, res.Message, "deterministic", logger)
		}
	case complaint.FieldBillingAmount:
		if res := ValidateAmount(reply); !res.Valid {
			return e.retryOrForceSkip(ctx, st, field, res.Message, "deterministic", logger)
		}
	}

	var value string
	if mappings := complaint.MappingsForField(field); mappings != nil {
		value = complaint.MapToCanonical(reply, mappings, true)
	}

	// Contextual tier only when the deterministic tier produced no
	// canonical value. Impact answers are accepted as given to reduce
	// back-and-forth.
	if value == "" && field != complaint.FieldImpact {
		judgement, err := e.port.JudgeValidity(ctx, question, reply, nlu.KnownFieldSummary(&st.Record))
		if err != nil {
			e.metrics.ObservePortFailure("judge_validity")
			logger.Warn("validity judgement failed, accepting answer", "field", field, "error", err.Error())
		} else if judgement.Failed() {
			message := judgement.Clarification
			if message == "" {
				message = reaskPrompt(field)
			}
			return e.retryOrForceSkip(ctx, st, field, message, "contextual", logger)
		}
	}

	if value == "" {
		extracted, err := e.port.ExtractValue(ctx, question, field, reply)
		if err != nil {
			e.metrics.ObservePortFailure("extract_value")
			logger.Warn("extraction failed, treating as unknown", "field", field, "error", err.Error())
			extracted = nlu.ValueUnknown
		}
		value = extracted
	}

	if value == nlu.ValueUnknown {
		return e.handleSkip(ctx, st, field, logger, true)
	}

	if e.isYesNoQuestion(field) {
		if _, err := strconv.ParseBool(normalizeBoolAnswer(value)); err != nil {
			return e.retryOrForceSkip(ctx, st, field, reaskPrompt(field), "deterministic", logger)
		}
	}

	e.commitValue(st, field, value)
	logger.Info("field collected", "field", field)
	return e.continueOrFinalize(ctx, st, logger, "")
}

// retryOrForceSkip re-asks the same field with a clarification, adds
// fallback guidance on the second failed attempt, and force-skips once
// the attempt ceiling is reached.
func (e *Engine) retryOrForceSkip(ctx context.Context, st *State, field, message, tier string, logger *logging.Logger) string {
	e.metrics.ObserveValidationFailure(field, tier)

	attempts := st.Attempts(field)
	if attempts >= attemptCeiling {
		return e.handleSkip(ctx, st, field, logger, true)
	}
	if attempts == 2 {
		message += "\n\nAn approximate answer is fine, or just say 'unsure' and we'll move on."
	}

	st.RecordAttempt(field)
	st.CurrentQuestion = message
	st.CurrentField = field
	st.NeedsMoreInfo = true
	return message
}

// extractContactBundle pulls every contact detail out of one reply and
// commits them all. Reports whether anything was committed.
func (e *Engine) extractContactBundle(ctx context.Context, st *State, reply string, logger *logging.Logger) bool {
	details, err := e.port.ExtractContact(ctx, reply)
	if err != nil {
		e.metrics.ObservePortFailure("extract_contact")
		logger.Warn("contact extraction failed, falling back to single field", "error", err.Error())
		return false
	}

	committed := false
	if details.Name != "" {
		e.commitValue(st, complaint.FieldContactName, details.Name)
		committed = true
	}
	if details.Email != "" {
		e.commitValue(st, complaint.FieldContactEmail, details.Email)
		committed = true
	}
	if details.WantsContact != nil {
		e.commitValue(st, complaint.FieldWantsContact, strconv.FormatBool(*details.WantsContact))
		committed = true
	}
	if details.IsPatient != nil {
		e.commitValue(st, complaint.FieldIsPatient, strconv.FormatBool(*details.IsPatient))
		committed = true
	}
	if committed {
		logger.Info("contact details collected")
	}
	return committed
}

func isContactField(field string) bool {
	switch field {
	case complaint.FieldContactName, complaint.FieldContactEmail,
		complaint.FieldWantsContact, complaint.FieldIsPatient:
		return true
	}
	return false
}

func reaskPrompt(field string) string {
	if def, ok := complaint.FieldDefinitionFor(field); ok {
		return "Sorry, I didn't quite catch that. " + def.Prompt
	}
	return "Sorry, I didn't quite catch that. Could you rephrase your answer?"
}

func normalizeBoolAnswer(value string) string {
	switch value {
	case "yes", "Yes", "y":
		return "true"
	case "no", "No", "n":
		return "false"
	}
	return value
}
