package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

// empathyBySubcategory keys the opener of the bundled first question.
var empathyBySubcategory = map[complaint.Subcategory]string{
	complaint.SubAttitude:        "I'm sorry you experienced that.",
	complaint.SubCommunication:   "I'm sorry you experienced that.",
	complaint.SubRespect:         "I'm sorry you were made to feel that way.",
	complaint.SubProfessionalism: "I'm sorry you experienced that.",
	complaint.SubMedication:      "I'm sorry to hear about this medication concern.",
	complaint.SubWaitTime:        "I understand waiting can be frustrating.",
	complaint.SubBilling:         "I understand billing concerns can be stressful.",
	complaint.SubAppointment:     "I'm sorry about the issue with your appointment.",
	complaint.SubFacilities:      "I'm sorry about the facility issue you experienced.",
	complaint.SubSafety:          "I'm sorry to hear this happened; your safety matters to us.",
}

// bulletDescriptions are the short sub-question lines used in the
// bundled first question.
var bulletDescriptions = map[string]string{
	complaint.FieldEventDate:       "When did this happen?",
	complaint.FieldEventLocation:   "Where exactly did this occur?",
	complaint.FieldTypeOfCare:      "Which department or service? (Emergency, Clinic, Ward, etc.)",
	complaint.FieldPeopleRole:      "Who was involved? (role or name if known)",
	complaint.FieldMedicationName:  "Which medication was involved?",
	complaint.FieldBillingAmount:   "What was the amount charged?",
	complaint.FieldInsuranceStatus: "Insurance coverage details (if relevant)",
	complaint.FieldImpact:          "How did this affect you?",
	complaint.FieldDescription:     "What happened, in your own words?",
}

const dontKnowAffordance = "If you don't know, just say so and we'll move on."

// askNext composes the question for the first outstanding field and
// performs the emission bookkeeping: attempt increment, budget count,
// currentQuestion.
func (e *Engine) askNext(ctx context.Context, st *State) string {
	field := st.MissingFields[0]

	// Reaching the ceiling here means repeated re-asks went nowhere;
	// force-skip and move on.
	if st.Attempts(field) >= attemptCeiling {
		return e.handleSkip(ctx, st, field, e.logger.WithSession(st.SessionID), true)
	}

	question := e.composeQuestion(ctx, st, field)

	st.RecordAttempt(field)
	st.CurrentQuestion = question
	st.CurrentField = field
	st.NeedsMoreInfo = true
	e.metrics.ObserveQuestion(field)
	return question
}

func (e *Engine) composeQuestion(ctx context.Context, st *State, field string) string {
	// The opening question bundles several sub-questions behind an
	// empathetic preamble to minimize total turns.
	if st.QuestionsAsked == 0 && len(st.MissingFields) >= 2 {
		return bundledFirstQuestion(st)
	}

	def, ok := complaint.FieldDefinitionFor(field)
	if !ok {
		return fmt.Sprintf("Could you tell me about %s? %s", field, dontKnowAffordance)
	}

	switch {
	case def.YesNo:
		return def.Prompt

	case def.Enumerated:
		options := complaint.OptionsList(complaint.MappingsForField(field))
		return fmt.Sprintf("%s\n\n%s\n\nYou can reply with the number or a few words. %s",
			def.Prompt, options, dontKnowAffordance)

	default:
		question, err := e.port.GenerateQuestion(ctx, field, conversationContext(st))
		if err != nil {
			e.metrics.ObservePortFailure("generate_question")
			question = def.Prompt
		}
		return question + " " + dontKnowAffordance
	}
}

func bundledFirstQuestion(st *State) string {
	empathy, ok := empathyBySubcategory[st.Record.Subcategory]
	if !ok {
		empathy = "I'm sorry this happened."
	}

	fields := st.MissingFields
	if len(fields) > 4 {
		fields = fields[:4]
	}
	var bullets []string
	for _, field := range fields {
		desc, ok := bulletDescriptions[field]
		if !ok {
			desc = field
		}
		bullets = append(bullets, "- "+desc)
	}

	return fmt.Sprintf("%s To help us investigate and provide feedback, could you share:\n\n%s\n\nShare what you remember - approximate details are fine.",
		empathy, strings.Join(bullets, "\n"))
}

// fieldExplanation answers a clarification request with the templated
// explanation, including the options menu for enumerated fields.
func fieldExplanation(field string) string {
	def, ok := complaint.FieldDefinitionFor(field)
	if !ok {
		return "I understand you need clarification. If you're not sure how to answer or don't have this information, that's completely okay - just let me know and we can move on."
	}
	explanation := def.Explanation
	if def.Enumerated {
		explanation += "\n\n" + complaint.OptionsList(complaint.MappingsForField(field))
	}
	return explanation
}
