package nlu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

var tracer = otel.Tracer("nlu")

const classifyPrompt = `You are a hospital complaint intake specialist. Analyze this complaint, classify it, and extract any specific details mentioned.

Available Domains:
- CLINICAL: Issues with medical care, diagnosis, treatment, medication, procedures
- MANAGEMENT: Issues with wait times, billing, appointments, facilities, admin processes
- RELATIONSHIP: Issues with staff communication, attitude, respect, professionalism

Available Subcategories:
MANAGEMENT: WAIT_TIME, BILLING, APPOINTMENT, FACILITIES, ADMIN_PROCESS
RELATIONSHIP: COMMUNICATION, ATTITUDE, RESPECT, PROFESSIONALISM
CLINICAL: MEDICATION, DIAGNOSIS, PROCEDURE, SAFETY, FOLLOW_UP

User Complaint:
"%s"

IMPORTANT: Extract any specific details already mentioned (dates, amounts, names, locations, etc.)

Respond ONLY with JSON:
{
  "domain": "CLINICAL" | "MANAGEMENT" | "RELATIONSHIP",
  "subcategory": "<subcategory>",
  "description": "<brief summary>",
  "extractedFields": {
    "eventDate": "<if date mentioned>",
    "eventLocation": "<if location mentioned>",
    "typeOfCare": "<if service or department mentioned>",
    "billingAmount": "<if amount mentioned>",
    "insuranceStatus": "<if insurance mentioned>",
    "medicationName": "<if medication mentioned>",
    "staffRole": "<if staff role mentioned>"
  }
}

Only include extractedFields that were explicitly mentioned. Omit fields not mentioned.`

const selectFieldsPrompt = `You are a hospital complaint intake specialist deciding what still needs to be asked.

Complaint Type: %s (%s)

Information Already Collected:
%s

Candidate fields that could still be asked:
%s

Be SMART and CONTEXT-AWARE:
- If the description already covers a candidate field, drop it
- Avoid asking for non-essential fields
- Keep the list as short as possible

Respond ONLY with a JSON array of field names taken from the candidate list, in the order they should be asked: ["field1", "field2"] or [] if nothing more is needed.`

const generateQuestionPrompt = `You are a kind hospital complaint intake assistant. Write ONE short, empathetic question to collect this field from the user.

Field: %s (%s)
Conversation so far:
%s

Respond ONLY with the question text, nothing else.`

const extractValuePrompt = `You are extracting structured information from a user's response.

Question asked: "%s"
Field to extract: %s
User's response: "%s"

Extract the value for this field. If the user says "I don't know" or provides no useful info, respond with "UNKNOWN".

Respond ONLY with the extracted value, nothing else.`

const judgeValidityPrompt = `You are validating a user's answer during hospital complaint intake.

Question asked: "%s"
User's answer: "%s"

What we know so far:
%s

CRITICAL VALIDATION CHECKS:
1. INVALID DATA CHECK - Is the data nonsensical or impossible? (impossible dates, negative amounts, gibberish)
2. CONTRADICTION CHECK - Did the user give the WRONG TYPE of data? (a date when asked for a location, a number when asked for a name)
3. VAGUE CHECK - Is the answer too unspecific to act on? (uncertainty like "nurse i think" is fine; the role is still clear)

Respond with JSON:
{
  "hasContradiction": true/false,
  "isVague": true/false,
  "isInvalid": true/false,
  "clarificationQuestion": "The specific follow-up question to ask, or null if all checks pass"
}`

const classifyIntentPrompt = `A user was asked the following question during hospital complaint intake:

"%s"

They replied:

"%s"

Decide what the reply is. Respond with EXACTLY one word:
- ANSWER if the reply attempts to answer the question
- CLARIFY if the reply asks what the question means
- SKIP if the reply declines or cannot answer`

const extractContactPrompt = `Extract contact information from this user response. Extract whatever is available.

User response: "%s"

Extract these fields (mark as null if not found):
- name: Full name
- email: Email address
- isPatient: Are they the patient? (true/false, null if not mentioned)
- wantsContact: Do they want to be contacted? (true/false, null if not mentioned)

Respond ONLY with JSON:
{
  "name": "...",
  "email": "...",
  "isPatient": true/false/null,
  "wantsContact": true/false/null
}`

// LLMPort implements Port over an LLMClient.
type LLMPort struct {
	client LLMClient
	logger *logging.Logger
}

// NewLLMPort creates the language-understanding port. Panics if client
// is nil since nothing downstream can work without it.
func NewLLMPort(client LLMClient, logger *logging.Logger) *LLMPort {
	if client == nil {
		panic("nlu: LLMPort requires an LLM client")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMPort{client: client, logger: logger}
}

// classificationWire mirrors the JSON shape the model is asked for.
type classificationWire struct {
	Domain          string            `json:"domain"`
	Subcategory     string            `json:"subcategory"`
	Description     string            `json:"description"`
	ExtractedFields map[string]string `json:"extractedFields"`
}

// extractedFieldPaths maps the classification payload keys to record
// field paths.
var extractedFieldPaths = map[string]string{
	"eventDate":       complaint.FieldEventDate,
	"eventLocation":   complaint.FieldEventLocation,
	"typeOfCare":      complaint.FieldTypeOfCare,
	"billingAmount":   complaint.FieldBillingAmount,
	"insuranceStatus": complaint.FieldInsuranceStatus,
	"medicationName":  complaint.FieldMedicationName,
	"staffRole":       complaint.FieldPeopleRole,
}

// Classify assigns domain and subcategory to the opening narrative.
func (p *LLMPort) Classify(ctx context.Context, text string) (*Classification, error) {
	ctx, span := tracer.Start(ctx, "nlu.classify")
	defer span.End()

	resp, err := p.complete(ctx, fmt.Sprintf(classifyPrompt, text), 400)
	if err != nil {
		return nil, err
	}

	payload, ok := extractJSONObject(resp)
	if !ok {
		return nil, errors.New("nlu: no JSON object in classification response")
	}

	var wire classificationWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("nlu: decode classification: %w", err)
	}

	sub := complaint.Subcategory(strings.ToUpper(strings.TrimSpace(wire.Subcategory)))
	if _, ok := complaint.RequiredFieldsBySubcategory[sub]; !ok {
		return nil, fmt.Errorf("nlu: unrecognized subcategory %q", wire.Subcategory)
	}
	span.SetAttributes(attribute.String("complaint.subcategory", string(sub)))

	result := &Classification{
		Domain:      complaint.DomainOf(sub),
		Subcategory: sub,
		Description: strings.TrimSpace(wire.Description),
		Extracted:   map[string]string{},
	}
	for key, value := range wire.ExtractedFields {
		path, known := extractedFieldPaths[key]
		value = strings.TrimSpace(value)
		if !known || value == "" || strings.EqualFold(value, "null") {
			continue
		}
		result.Extracted[path] = value
	}
	return result, nil
}

// SelectMissingFields asks the model which candidate fields are still
// worth asking. The caller intersects the result with its own ordered
// candidate list, so extra or reordered entries are harmless.
func (p *LLMPort) SelectMissingFields(ctx context.Context, rec *complaint.Record, candidates []string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "nlu.select_missing_fields")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates.count", len(candidates)))

	prompt := fmt.Sprintf(selectFieldsPrompt,
		rec.Subcategory, rec.Domain,
		KnownFieldSummary(rec),
		strings.Join(candidates, "\n"),
	)
	resp, err := p.complete(ctx, prompt, 200)
	if err != nil {
		return nil, err
	}

	payload, ok := extractJSONArray(resp)
	if !ok {
		return nil, errors.New("nlu: no JSON array in field selection response")
	}

	var fields []string
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("nlu: decode field selection: %w", err)
	}
	return fields, nil
}

// GenerateQuestion produces a short user-facing question for a field.
func (p *LLMPort) GenerateQuestion(ctx context.Context, fieldPath, conversationContext string) (string, error) {
	ctx, span := tracer.Start(ctx, "nlu.generate_question")
	defer span.End()
	span.SetAttributes(attribute.String("field.path", fieldPath))

	label := fieldPath
	if def, ok := complaint.FieldDefinitionFor(fieldPath); ok {
		label = def.Label
	}
	resp, err := p.complete(ctx, fmt.Sprintf(generateQuestionPrompt, fieldPath, label, conversationContext), 120)
	if err != nil {
		return "", err
	}
	question := strings.TrimSpace(strings.Trim(resp, "\""))
	if question == "" {
		return "", errors.New("nlu: empty generated question")
	}
	return question, nil
}

// ExtractValue pulls the answer to a question out of a reply.
func (p *LLMPort) ExtractValue(ctx context.Context, question, fieldPath, reply string) (string, error) {
	ctx, span := tracer.Start(ctx, "nlu.extract_value")
	defer span.End()
	span.SetAttributes(attribute.String("field.path", fieldPath))

	resp, err := p.complete(ctx, fmt.Sprintf(extractValuePrompt, question, fieldPath, reply), 100)
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(strings.Trim(resp, "\""))
	if value == "" || strings.EqualFold(value, ValueUnknown) {
		return ValueUnknown, nil
	}
	return value, nil
}

// judgementWire mirrors the JSON shape the model is asked for.
type judgementWire struct {
	HasContradiction      bool   `json:"hasContradiction"`
	IsVague               bool   `json:"isVague"`
	IsInvalid             bool   `json:"isInvalid"`
	ClarificationQuestion string `json:"clarificationQuestion"`
}

// JudgeValidity checks an extracted answer for contradiction,
// vagueness, or invalidity.
func (p *LLMPort) JudgeValidity(ctx context.Context, question, reply, recordContext string) (*Judgement, error) {
	ctx, span := tracer.Start(ctx, "nlu.judge_validity")
	defer span.End()

	resp, err := p.complete(ctx, fmt.Sprintf(judgeValidityPrompt, question, reply, recordContext), 200)
	if err != nil {
		return nil, err
	}

	payload, ok := extractJSONObject(resp)
	if !ok {
		return nil, errors.New("nlu: no JSON object in validity response")
	}

	var wire judgementWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("nlu: decode validity judgement: %w", err)
	}

	clarification := strings.TrimSpace(wire.ClarificationQuestion)
	if strings.EqualFold(clarification, "null") {
		clarification = ""
	}
	return &Judgement{
		Contradiction: wire.HasContradiction,
		Vague:         wire.IsVague,
		Invalid:       wire.IsInvalid,
		Clarification: clarification,
	}, nil
}

// ClassifyIntent resolves an ambiguous short reply. Unrecognized model
// output is coerced to ANSWER so the conversation keeps moving.
func (p *LLMPort) ClassifyIntent(ctx context.Context, question, reply string) (string, error) {
	ctx, span := tracer.Start(ctx, "nlu.classify_intent")
	defer span.End()

	resp, err := p.complete(ctx, fmt.Sprintf(classifyIntentPrompt, question, reply), 10)
	if err != nil {
		return "", err
	}

	switch intent := strings.ToUpper(strings.TrimSpace(resp)); intent {
	case IntentAnswer, IntentClarify, IntentSkip:
		return intent, nil
	default:
		p.logger.Warn("unrecognized intent from model, treating as answer", "intent", resp)
		return IntentAnswer, nil
	}
}

// contactWire uses any-typed booleans because models emit null, "null",
// true and "true" interchangeably.
type contactWire struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsPatient    any    `json:"isPatient"`
	WantsContact any    `json:"wantsContact"`
}

// ExtractContact pulls any bundled contact details out of a reply.
func (p *LLMPort) ExtractContact(ctx context.Context, reply string) (*ContactDetails, error) {
	ctx, span := tracer.Start(ctx, "nlu.extract_contact")
	defer span.End()

	resp, err := p.complete(ctx, fmt.Sprintf(extractContactPrompt, reply), 150)
	if err != nil {
		return nil, err
	}

	payload, ok := extractJSONObject(resp)
	if !ok {
		return nil, errors.New("nlu: no JSON object in contact response")
	}

	var wire contactWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, fmt.Errorf("nlu: decode contact details: %w", err)
	}

	details := &ContactDetails{}
	if name := cleanWireString(wire.Name); name != "" {
		details.Name = name
	}
	if email := cleanWireString(wire.Email); email != "" {
		details.Email = email
	}
	details.IsPatient = wireBool(wire.IsPatient)
	details.WantsContact = wireBool(wire.WantsContact)
	return details, nil
}

func (p *LLMPort) complete(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	resp, err := p.client.Complete(ctx, LLMRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// KnownFieldSummary renders the record's populated fields for prompts.
func KnownFieldSummary(rec *complaint.Record) string {
	paths := []string{
		complaint.FieldDescription,
		complaint.FieldEventDate,
		complaint.FieldEventLocation,
		complaint.FieldTypeOfCare,
		complaint.FieldBillingAmount,
		complaint.FieldInsuranceStatus,
		complaint.FieldMedicationName,
		complaint.FieldPeopleRole,
		complaint.FieldImpact,
	}
	var b strings.Builder
	for _, path := range paths {
		if value := rec.Value(path); value != "" {
			fmt.Fprintf(&b, "%s: %s\n", path, value)
		}
	}
	if b.Len() == 0 {
		return "Only basic complaint classification"
	}
	return strings.TrimRight(b.String(), "\n")
}

// LLMs often wrap JSON in prose or code fences; take the outermost
// object or array.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func extractJSONArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func cleanWireString(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

func wireBool(v any) *bool {
	switch value := v.(type) {
	case bool:
		b := value
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "yes":
			b := true
			return &b
		case "false", "no":
			b := false
			return &b
		}
	}
	return nil
}
