package complaint

// FieldDefinition describes one askable slot: how to prompt for it,
// how to explain it when the user is confused, and how it behaves.
type FieldDefinition struct {
	Path        string
	Label       string
	Prompt      string
	Explanation string
	Examples    string
	YesNo       bool
	Enumerated  bool
}

// FieldDefinitions is the full table of askable fields.
var FieldDefinitions = map[string]FieldDefinition{
	FieldEventDate: {
		Path:        FieldEventDate,
		Label:       "date",
		Prompt:      "When did this happen?",
		Explanation: "I'm asking when this happened - the date of your appointment or when the issue occurred. You can say it however is easiest for you, like \"yesterday\", \"June 24\", or \"last Tuesday\".",
		Examples:    "yesterday, June 24, 2 weeks ago, last Tuesday",
	},
	FieldEventLocation: {
		Path:        FieldEventLocation,
		Label:       "location",
		Prompt:      "Where in the hospital did this happen?",
		Explanation: "I'm asking where this happened. You can say the department, ward, clinic, or area of the hospital.",
		Examples:    "Emergency Department, Ward A, Cardiology Clinic, Waiting Area",
	},
	FieldTypeOfCare: {
		Path:        FieldTypeOfCare,
		Label:       "type of care",
		Prompt:      "Which service or department were you visiting?",
		Explanation: "I understand you need clarification. I'm asking which service or department you visited. You can reply with the number or the name of the service. If you're not sure, that's completely fine - just give your best guess or we can move on.",
		Examples:    "Emergency Department, Specialist Clinic, Surgery, Laboratory, Pharmacy, Ward",
		Enumerated:  true,
	},
	FieldBillingAmount: {
		Path:        FieldBillingAmount,
		Label:       "billed amount",
		Prompt:      "What was the amount on the bill or charge?",
		Explanation: "Of course. I'm asking about the dollar amount on your bill or charge. If you don't have the bill handy or don't remember the exact amount, no worries - we can skip this.",
		Examples:    "$50, $1200, approx $300-400",
	},
	FieldInsuranceStatus: {
		Path:        FieldInsuranceStatus,
		Label:       "insurance status",
		Prompt:      "What kind of insurance coverage do you have, if any?",
		Explanation: "I'm happy to explain. Health insurance is the coverage that helps pay for medical costs. This could be employer insurance, government programs, private insurance, or no insurance. If you don't have this information or prefer not to answer, that's perfectly okay.",
		Examples:    "employer insurance, government coverage, private insurance, no insurance",
		Enumerated:  true,
	},
	FieldMedicationName: {
		Path:        FieldMedicationName,
		Label:       "medication",
		Prompt:      "What was the name of the medication involved?",
		Explanation: "I'm asking for the name of the medication involved. If you don't remember the exact name, you can describe it (like \"the blood pressure pill\" or \"the painkiller\") or we can skip this.",
		Examples:    "Aspirin, the heart medication, the painkiller I was prescribed",
	},
	FieldPeopleRole: {
		Path:        FieldPeopleRole,
		Label:       "staff role",
		Prompt:      "Who were you dealing with - for example a doctor, nurse, or receptionist?",
		Explanation: "I'm asking who you were dealing with - for example: doctor, nurse, receptionist, billing staff. Just describe them in your own words.",
		Examples:    "doctor, nurse, receptionist, nurse at front desk, cardiologist",
	},
	FieldImpact: {
		Path:        FieldImpact,
		Label:       "impact",
		Prompt:      "How has this situation affected you?",
		Explanation: "I'm asking how this situation affected you. For example: did it cause pain, stress, financial burden, delayed treatment, or other consequences? Share what feels relevant to you.",
		Examples:    "stress, physical pain, missed work, extra cost, emotional distress",
		Enumerated:  true,
	},
	FieldDescription: {
		Path:        FieldDescription,
		Label:       "details",
		Prompt:      "Could you tell me a little more about what happened?",
		Explanation: "I'm asking for a short description of what happened, in your own words.",
		Examples:    "the nurse dismissed my concerns, the ward was not cleaned",
	},
	FieldWantsContact: {
		Path:        FieldWantsContact,
		Label:       "follow-up preference",
		Prompt:      "Would you like our team to follow up with you about this complaint? (yes/no)",
		Explanation: "I'm asking if you'd like our team to follow up with you about this complaint. No worries if you prefer not to be contacted.",
		Examples:    "yes, no",
		YesNo:       true,
	},
	FieldContactName: {
		Path:        FieldContactName,
		Label:       "name",
		Prompt:      "What name should we have on file for the follow-up?",
		Explanation: "What name should we have on file? Just your first and last name is fine.",
		Examples:    "John Smith, Mary Johnson",
	},
	FieldContactEmail: {
		Path:        FieldContactEmail,
		Label:       "email",
		Prompt:      "What email address can we reach you at?",
		Explanation: "What email address can we reach you at? We'll use this to follow up.",
		Examples:    "john@email.com, mary.j@example.org",
	},
	FieldIsPatient: {
		Path:        FieldIsPatient,
		Label:       "patient or representative",
		Prompt:      "Are you the patient, or are you submitting this for someone else? (yes if you are the patient)",
		Explanation: "Are you the patient, or are you submitting this on behalf of someone else?",
		Examples:    "yes, no, I'm submitting for my mother",
		YesNo:       true,
	},
}

// RequiredFieldsBySubcategory lists the situational fields each
// complaint type needs before the record is considered complete.
var RequiredFieldsBySubcategory = map[Subcategory][]string{
	// MANAGEMENT
	SubWaitTime:     {FieldEventDate, FieldEventLocation, FieldTypeOfCare},
	SubBilling:      {FieldBillingAmount, FieldInsuranceStatus},
	SubAppointment:  {FieldEventDate, FieldTypeOfCare},
	SubFacilities:   {FieldEventLocation, FieldDescription},
	SubAdminProcess: {FieldDescription},

	// RELATIONSHIP
	SubCommunication:   {FieldPeopleRole, FieldDescription},
	SubAttitude:        {FieldPeopleRole, FieldDescription},
	SubRespect:         {FieldPeopleRole, FieldDescription},
	SubProfessionalism: {FieldPeopleRole, FieldDescription},

	// CLINICAL
	SubMedication: {FieldEventDate, FieldMedicationName, FieldImpact},
	SubDiagnosis:  {FieldEventDate, FieldTypeOfCare, FieldImpact},
	SubProcedure:  {FieldEventDate, FieldTypeOfCare, FieldDescription},
	SubSafety:     {FieldEventDate, FieldEventLocation, FieldDescription, FieldImpact},
	SubFollowUp:   {FieldEventDate, FieldTypeOfCare, FieldDescription},
}

// excludedFieldsBySubcategory maps a subcategory to fields that are
// never relevant to it, regardless of what a model suggests.
var excludedFieldsBySubcategory = map[Subcategory][]string{
	SubFacilities:   {FieldTypeOfCare, FieldPeopleRole, FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName},
	SubAdminProcess: {FieldTypeOfCare, FieldMedicationName},
	SubWaitTime:     {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName},
	SubAppointment:  {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName},
	SubBilling:      {FieldMedicationName, FieldPeopleRole},

	SubCommunication:   {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName, FieldTypeOfCare},
	SubAttitude:        {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName, FieldTypeOfCare},
	SubRespect:         {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName, FieldTypeOfCare},
	SubProfessionalism: {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName, FieldTypeOfCare},

	SubMedication: {FieldBillingAmount, FieldInsuranceStatus},
	SubDiagnosis:  {FieldBillingAmount, FieldInsuranceStatus, FieldMedicationName},
	SubProcedure:  {FieldBillingAmount, FieldInsuranceStatus},
	SubSafety:     {FieldBillingAmount, FieldInsuranceStatus},
	SubFollowUp:   {FieldBillingAmount, FieldInsuranceStatus},
}

// FieldExcluded reports whether a field can never be relevant to the
// given subcategory.
func FieldExcluded(sub Subcategory, path string) bool {
	for _, excluded := range excludedFieldsBySubcategory[sub] {
		if excluded == path {
			return true
		}
	}
	return false
}

// ContactFields are asked only after every situational field is
// resolved, and name/email only after an explicit opt-in.
var ContactFields = []string{FieldWantsContact, FieldContactName, FieldContactEmail}

// FieldDefinitionFor looks up a field definition, reporting whether
// the path is known.
func FieldDefinitionFor(path string) (FieldDefinition, bool) {
	def, ok := FieldDefinitions[path]
	return def, ok
}
