package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/nlu"
	"github.com/carebridge/complaint-intake/internal/observability/metrics"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

var tracer = otel.Tracer("dialogue")

// DefaultMaxQuestions caps the number of distinct fields asked in one
// conversation.
const DefaultMaxQuestions = 5

// Engine drives one conversation turn at a time. It owns the
// DialogueState exclusively for the duration of a turn; callers must
// not process turns for one session concurrently.
type Engine struct {
	port            nlu.Port
	logger          *logging.Logger
	metrics         *metrics.IntakeMetrics
	maxQuestions    int
	defaultLocation string
	now             func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the intake metrics sink.
func WithMetrics(m *metrics.IntakeMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxQuestions overrides the global question budget.
func WithMaxQuestions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxQuestions = n
		}
	}
}

// WithDefaultLocation sets the location assumed when the narrative
// does not mention one.
func WithDefaultLocation(location string) Option {
	return func(e *Engine) { e.defaultLocation = location }
}

// WithClock injects the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates the dialogue engine. Panics if port is nil since
// the engine cannot classify or extract without it.
func NewEngine(port nlu.Port, opts ...Option) *Engine {
	if port == nil {
		panic("dialogue: engine requires a language-understanding port")
	}
	e := &Engine{
		port:         port,
		maxQuestions: DefaultMaxQuestions,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

// TurnResult is what the transport layer sends back to the user.
type TurnResult struct {
	Reply     string
	Completed bool
}

const restatePrompt = "I'm having trouble understanding your complaint. Could you provide more details about what happened?"

const detailNudge = "Hello - I'm here to help with any concerns about your hospital experience. I know this can be stressful, and I'll make this as easy as possible.\n\n" +
	"To help us act quickly, please share a short but detailed description in one message. It helps to include:\n\n" +
	"- When it happened (date/time)\n" +
	"- Service or department (e.g., Emergency, Specialist Clinic, Surgery, Laboratory, Pharmacy, Ward)\n" +
	"- Who was involved (doctor, nurse, receptionist, etc.)\n" +
	"- What happened (the specific issue)\n" +
	"- How it affected you (e.g., stress, missed work, pain, extra cost)\n\n" +
	"Share whatever you remember, and we'll fill in the rest together."

// Advance processes one user message against the current state,
// mutating the state in place and returning the assistant reply.
func (e *Engine) Advance(ctx context.Context, st *State, text string) (*TurnResult, error) {
	ctx, span := tracer.Start(ctx, "dialogue.advance")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", st.SessionID),
		attribute.String("dialogue.phase", string(st.Phase)),
	)

	started := e.now()
	logger := e.logger.WithSession(st.SessionID)

	sanitized := SanitizeText(text)
	st.AppendTurn(RoleUser, text, started)

	var reply string
	switch st.Phase {
	case PhaseAwaitingClassification:
		reply = e.handleOpening(ctx, st, sanitized, logger)
	case PhaseCollecting:
		reply = e.handleCollecting(ctx, st, sanitized, logger)
	case PhaseDone:
		reply = "This conversation is already complete. Thank you again for your feedback."
	default:
		// FINALIZING never persists across turns; treat stray states
		// as collecting.
		reply = e.handleCollecting(ctx, st, sanitized, logger)
	}

	st.AppendTurn(RoleAssistant, reply, e.now())
	e.metrics.ObserveTurn(string(st.Phase), e.now().Sub(started).Seconds())

	return &TurnResult{Reply: reply, Completed: st.IsComplete}, nil
}

// handleOpening runs the greeting gate and classification for the
// first substantive message of a session.
func (e *Engine) handleOpening(ctx context.Context, st *State, text string, logger *logging.Logger) string {
	if isGreetingOrVague(text) {
		st.NeedsMoreInfo = true
		return detailNudge
	}

	classification, err := e.port.Classify(ctx, text)
	if err != nil {
		e.metrics.ObservePortFailure("classify")
		logger.Warn("classification failed, trying keyword fallback", "error", err.Error())
		classification = keywordClassify(text)
		if classification == nil {
			st.NeedsMoreInfo = true
			return restatePrompt
		}
	}

	e.applyClassification(st, classification, text)
	logger.Info("complaint classified",
		"domain", string(st.Record.Domain),
		"subcategory", string(st.Record.Subcategory),
	)

	st.Phase = PhaseCollecting
	st.MissingFields = e.nextFields(ctx, st)
	if len(st.MissingFields) == 0 {
		return e.finalize(st, logger)
	}
	return e.askNext(ctx, st)
}

// handleCollecting interprets a reply to the outstanding question and
// moves the conversation forward.
func (e *Engine) handleCollecting(ctx context.Context, st *State, text string, logger *logging.Logger) string {
	if st.CurrentQuestion == "" {
		// No question outstanding; recompute and ask.
		st.MissingFields = e.nextFields(ctx, st)
		if len(st.MissingFields) == 0 {
			return e.finalize(st, logger)
		}
		return e.askNext(ctx, st)
	}

	field := st.CurrentField
	intent := ClassifyIntent(text, e.isYesNoQuestion(field))
	if intent == IntentUnclear {
		intent = e.resolveUnclear(ctx, st, text, logger)
	}

	switch intent {
	case IntentSkip:
		return e.handleSkip(ctx, st, field, logger, false)

	case IntentClarify:
		// Re-ask without consuming an attempt.
		return fieldExplanation(field) + "\n\n" + st.CurrentQuestion

	case IntentAffirmative, IntentNegative:
		value := "true"
		if intent == IntentNegative {
			value = "false"
		}
		e.commitValue(st, field, value)
		return e.continueOrFinalize(ctx, st, logger, "")

	default:
		return e.handleAnswer(ctx, st, field, text, logger)
	}
}

// resolveUnclear delegates ambiguous replies to the port, degrading to
// ANSWER so the conversation keeps moving.
func (e *Engine) resolveUnclear(ctx context.Context, st *State, text string, logger *logging.Logger) Intent {
	resolved, err := e.port.ClassifyIntent(ctx, st.CurrentQuestion, text)
	if err != nil {
		e.metrics.ObservePortFailure("classify_intent")
		logger.Warn("intent classification failed, treating as answer", "error", err.Error())
		return IntentAnswer
	}
	switch resolved {
	case nlu.IntentSkip:
		return IntentSkip
	case nlu.IntentClarify:
		return IntentClarify
	default:
		return IntentAnswer
	}
}

func (e *Engine) handleSkip(ctx context.Context, st *State, field string, logger *logging.Logger, forced bool) string {
	st.Record.SetUnknown(field)
	st.Suppress(field)
	st.ClearQuestion()
	e.metrics.ObserveSkip(field, forced)
	logger.Info("field skipped", "field", field, "forced", forced)

	ack := "No worries, we'll skip that and move on."
	if forced {
		ack = "That's alright, let's move on."
	}
	return e.continueOrFinalize(ctx, st, logger, ack)
}

// continueOrFinalize recomputes the missing-field list and either asks
// the next question or closes out the conversation. prefix, when set,
// is prepended to the reply.
func (e *Engine) continueOrFinalize(ctx context.Context, st *State, logger *logging.Logger, prefix string) string {
	st.MissingFields = e.nextFields(ctx, st)
	var reply string
	if len(st.MissingFields) == 0 {
		reply = e.finalize(st, logger)
	} else {
		reply = e.askNext(ctx, st)
	}
	if prefix != "" {
		return prefix + " " + reply
	}
	return reply
}

// finalize computes urgency, freezes the record, and emits the closing
// message.
func (e *Engine) finalize(st *State, logger *logging.Logger) string {
	st.Phase = PhaseFinalizing
	st.ClearQuestion()
	st.MissingFields = nil

	st.Record.Urgency = ComputeUrgency(&st.Record)
	st.Record.NeedsHumanInvestigation = true
	st.IsComplete = true
	st.Phase = PhaseDone

	e.metrics.ObserveCompletion(string(st.Record.Urgency))
	logger.Info("complaint finalized",
		"urgency", string(st.Record.Urgency),
		"questions_asked", st.QuestionsAsked,
	)

	if st.Record.Contact.WantsContact != nil && *st.Record.Contact.WantsContact {
		return "Thank you for taking the time to share this with us. Your complaint has been recorded and will be reviewed by our feedback team, and we will follow up with you using the contact details you provided."
	}
	return "Thank you for taking the time to share this with us. Your complaint has been recorded and will be reviewed by our feedback team. We appreciate you helping us improve our care."
}

// applyClassification merges the classification result into the
// record, normalizing enumerated values it can and defaulting the
// location.
func (e *Engine) applyClassification(st *State, c *nlu.Classification, text string) {
	st.Record.Domain = c.Domain
	st.Record.Subcategory = c.Subcategory
	if c.Description != "" {
		st.Record.Description = c.Description
	} else {
		st.Record.Description = text
	}

	for path, raw := range c.Extracted {
		value := raw
		if mappings := complaint.MappingsForField(path); mappings != nil {
			if canonical := complaint.MapToCanonical(raw, mappings, false); canonical != "" {
				value = canonical
			}
		}
		_ = st.Record.SetValue(path, value)
	}

	if st.Record.Event.Location == "" && e.defaultLocation != "" {
		st.Record.Event.Location = e.defaultLocation
	}
}

func (e *Engine) isYesNoQuestion(field string) bool {
	def, ok := complaint.FieldDefinitionFor(field)
	return ok && def.YesNo
}

// commitValue writes a validated value and performs the bookkeeping
// atomically: field removal, attempt reset, question cleared.
func (e *Engine) commitValue(st *State, field, value string) {
	// The description is append-only.
	if field == complaint.FieldDescription && st.Record.Description != "" && value != complaint.Unknown {
		value = st.Record.Description + " " + value
	}
	if err := st.Record.SetValue(field, value); err != nil {
		// Unparseable boolean answers should not commit.
		return
	}
	if def, ok := complaint.FieldDefinitionFor(field); ok && !def.YesNo && field != complaint.FieldDescription && !isContactField(field) {
		st.Record.AppendDetail(def.Label, value)
	}
	st.RemoveMissing(field)
	st.ResetAttempts(field)
	st.ClearQuestion()
}

// isGreetingOrVague gates pure greetings and contentless openers
// before spending a classification call.
func isGreetingOrVague(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return true
	}
	greetings := []string{
		"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
		"i need help", "can you help me", "help", "i want to complain",
		"i have a complaint", "i want to give feedback",
	}
	trimmed := strings.TrimRight(normalized, ".!?")
	for _, g := range greetings {
		if trimmed == g {
			return true
		}
	}
	// Very short messages with no complaint topic carry nothing to
	// classify.
	if len(strings.Fields(normalized)) < 3 && keywordClassify(normalized) == nil {
		return true
	}
	return false
}

// keywordSubcategories backs the deterministic classification
// fallback. First hit wins.
var keywordSubcategories = []struct {
	keyword string
	sub     complaint.Subcategory
}{
	{"wait", complaint.SubWaitTime},
	{"queue", complaint.SubWaitTime},
	{"bill", complaint.SubBilling},
	{"charge", complaint.SubBilling},
	{"payment", complaint.SubBilling},
	{"refund", complaint.SubBilling},
	{"appointment", complaint.SubAppointment},
	{"reschedul", complaint.SubAppointment},
	{"booking", complaint.SubAppointment},
	{"toilet", complaint.SubFacilities},
	{"signage", complaint.SubFacilities},
	{"facility", complaint.SubFacilities},
	{"facilities", complaint.SubFacilities},
	{"clean", complaint.SubFacilities},
	{"lift", complaint.SubFacilities},
	{"medication", complaint.SubMedication},
	{"medicine", complaint.SubMedication},
	{"prescri", complaint.SubMedication},
	{"drug", complaint.SubMedication},
	{"diagnos", complaint.SubDiagnosis},
	{"surgery", complaint.SubProcedure},
	{"operation", complaint.SubProcedure},
	{"procedure", complaint.SubProcedure},
	{"unsafe", complaint.SubSafety},
	{"safety", complaint.SubSafety},
	{"fell", complaint.SubSafety},
	{"injur", complaint.SubSafety},
	{"follow up", complaint.SubFollowUp},
	{"follow-up", complaint.SubFollowUp},
	{"rude", complaint.SubAttitude},
	{"attitude", complaint.SubAttitude},
	{"dismissive", complaint.SubAttitude},
	{"disrespect", complaint.SubRespect},
	{"unprofessional", complaint.SubProfessionalism},
	{"communicat", complaint.SubCommunication},
	{"didn't explain", complaint.SubCommunication},
	{"no one told", complaint.SubCommunication},
	{"paperwork", complaint.SubAdminProcess},
	{"form", complaint.SubAdminProcess},
	{"admin", complaint.SubAdminProcess},
	{"registration", complaint.SubAdminProcess},
}

// keywordClassify is the deterministic fallback when the port cannot
// classify. Returns nil when no keyword matches.
func keywordClassify(text string) *nlu.Classification {
	lower := strings.ToLower(text)
	for _, entry := range keywordSubcategories {
		if strings.Contains(lower, entry.keyword) {
			return &nlu.Classification{
				Domain:      complaint.DomainOf(entry.sub),
				Subcategory: entry.sub,
				Description: strings.TrimSpace(text),
			}
		}
	}
	return nil
}

// conversationContext summarizes the record for question generation.
func conversationContext(st *State) string {
	return fmt.Sprintf("Complaint type: %s (%s)\n%s",
		st.Record.Subcategory, st.Record.Domain, nlu.KnownFieldSummary(&st.Record))
}
