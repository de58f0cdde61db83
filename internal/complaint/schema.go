// Package complaint defines the structured complaint record built up
// over a conversation, its field-path addressing scheme, and the
// canonical value tables used to normalize free-text answers.
package complaint

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain is the top-level complaint classification.
type Domain string

const (
	DomainClinical     Domain = "CLINICAL"
	DomainManagement   Domain = "MANAGEMENT"
	DomainRelationship Domain = "RELATIONSHIP"
)

// Subcategory refines a domain into a concrete complaint type.
type Subcategory string

const (
	// MANAGEMENT
	SubWaitTime     Subcategory = "WAIT_TIME"
	SubBilling      Subcategory = "BILLING"
	SubAppointment  Subcategory = "APPOINTMENT"
	SubFacilities   Subcategory = "FACILITIES"
	SubAdminProcess Subcategory = "ADMIN_PROCESS"

	// RELATIONSHIP
	SubCommunication   Subcategory = "COMMUNICATION"
	SubAttitude        Subcategory = "ATTITUDE"
	SubRespect         Subcategory = "RESPECT"
	SubProfessionalism Subcategory = "PROFESSIONALISM"

	// CLINICAL
	SubMedication Subcategory = "MEDICATION"
	SubDiagnosis  Subcategory = "DIAGNOSIS"
	SubProcedure  Subcategory = "PROCEDURE"
	SubSafety     Subcategory = "SAFETY"
	SubFollowUp   Subcategory = "FOLLOW_UP"
)

// DomainOf returns the domain a subcategory belongs to.
func DomainOf(sub Subcategory) Domain {
	switch sub {
	case SubWaitTime, SubBilling, SubAppointment, SubFacilities, SubAdminProcess:
		return DomainManagement
	case SubCommunication, SubAttitude, SubRespect, SubProfessionalism:
		return DomainRelationship
	default:
		return DomainClinical
	}
}

// UrgencyLevel is the coarse triage score computed at finalization.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "LOW"
	UrgencyMedium UrgencyLevel = "MEDIUM"
	UrgencyHigh   UrgencyLevel = "HIGH"
)

// Unknown marks a field the user was asked about and explicitly could
// not or would not answer. It is distinct from an absent field, which
// was never asked.
const Unknown = "unknown"

// Field paths address individual slots in the record.
const (
	FieldEventDate       = "event.date"
	FieldEventLocation   = "event.location"
	FieldTypeOfCare      = "typeOfCare"
	FieldBillingAmount   = "billing.amount"
	FieldInsuranceStatus = "billing.insuranceStatus"
	FieldMedicationName  = "medication.name"
	FieldPeopleRole      = "people.role"
	FieldImpact          = "impact"
	FieldDescription     = "description"
	FieldWantsContact    = "contactDetails.wantsContact"
	FieldContactName     = "contactDetails.name"
	FieldContactEmail    = "contactDetails.email"
	FieldIsPatient       = "contactDetails.isPatient"
)

// Event holds when and where the complaint happened.
type Event struct {
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
}

// Billing holds charge-related details.
type Billing struct {
	Amount          string `json:"amount,omitempty"`
	InsuranceStatus string `json:"insuranceStatus,omitempty"`
}

// Medication holds the medication involved, if any.
type Medication struct {
	Name string `json:"name,omitempty"`
}

// People holds who the complainant dealt with.
type People struct {
	Role string `json:"role,omitempty"`
}

// Contact holds the complainant's follow-up details. WantsContact and
// IsPatient are pointers so "not yet asked" is distinguishable from a
// "no" answer.
type Contact struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	IsPatient    *bool  `json:"isPatient,omitempty"`
	WantsContact *bool  `json:"wantsContact,omitempty"`
}

// Record is the partial structured complaint, built incrementally one
// field per turn.
type Record struct {
	Domain      Domain      `json:"domain,omitempty"`
	Subcategory Subcategory `json:"subcategory,omitempty"`
	Description string      `json:"description,omitempty"`

	Event      Event      `json:"event"`
	TypeOfCare string     `json:"typeOfCare,omitempty"`
	Billing    Billing    `json:"billing"`
	Medication Medication `json:"medication"`
	People     People     `json:"people"`
	Impact     []string   `json:"impact,omitempty"`
	Contact    Contact    `json:"contactDetails"`

	Urgency                 UrgencyLevel `json:"urgencyLevel,omitempty"`
	NeedsHumanInvestigation bool         `json:"needsHumanInvestigation"`
}

// Value returns the stored value at a field path, or "" if absent.
// Boolean fields render as "true"/"false"; impact renders as a
// comma-joined list.
func (r *Record) Value(path string) string {
	switch path {
	case FieldEventDate:
		return r.Event.Date
	case FieldEventLocation:
		return r.Event.Location
	case FieldTypeOfCare:
		return r.TypeOfCare
	case FieldBillingAmount:
		return r.Billing.Amount
	case FieldInsuranceStatus:
		return r.Billing.InsuranceStatus
	case FieldMedicationName:
		return r.Medication.Name
	case FieldPeopleRole:
		return r.People.Role
	case FieldDescription:
		return r.Description
	case FieldImpact:
		return strings.Join(r.Impact, ", ")
	case FieldContactName:
		return r.Contact.Name
	case FieldContactEmail:
		return r.Contact.Email
	case FieldWantsContact:
		if r.Contact.WantsContact == nil {
			return ""
		}
		return strconv.FormatBool(*r.Contact.WantsContact)
	case FieldIsPatient:
		if r.Contact.IsPatient == nil {
			return ""
		}
		return strconv.FormatBool(*r.Contact.IsPatient)
	}
	return ""
}

// Known reports whether a field holds any value, including the unknown
// sentinel. A known field is never asked again.
func (r *Record) Known(path string) bool {
	return r.Value(path) != ""
}

// SetValue writes a normalized value at a field path. Boolean fields
// accept "true"/"false" (and yes/no); impact values are appended
// without duplication.
func (r *Record) SetValue(path, value string) error {
	switch path {
	case FieldEventDate:
		r.Event.Date = value
	case FieldEventLocation:
		r.Event.Location = value
	case FieldTypeOfCare:
		r.TypeOfCare = value
	case FieldBillingAmount:
		r.Billing.Amount = value
	case FieldInsuranceStatus:
		r.Billing.InsuranceStatus = value
	case FieldMedicationName:
		r.Medication.Name = value
	case FieldPeopleRole:
		r.People.Role = value
	case FieldDescription:
		r.Description = value
	case FieldImpact:
		r.addImpact(value)
	case FieldContactName:
		r.Contact.Name = value
	case FieldContactEmail:
		r.Contact.Email = value
	case FieldWantsContact:
		b, err := parseBoolValue(value)
		if err != nil {
			return fmt.Errorf("complaint: set %s: %w", path, err)
		}
		r.Contact.WantsContact = &b
	case FieldIsPatient:
		b, err := parseBoolValue(value)
		if err != nil {
			return fmt.Errorf("complaint: set %s: %w", path, err)
		}
		r.Contact.IsPatient = &b
	default:
		return fmt.Errorf("complaint: unknown field path %q", path)
	}
	return nil
}

// SetUnknown marks a field as asked-and-unanswerable. Boolean contact
// fields default to false rather than carrying the sentinel.
func (r *Record) SetUnknown(path string) {
	switch path {
	case FieldWantsContact:
		f := false
		r.Contact.WantsContact = &f
	case FieldIsPatient:
		f := false
		r.Contact.IsPatient = &f
	case FieldImpact:
		if len(r.Impact) == 0 {
			r.Impact = []string{Unknown}
		}
	default:
		_ = r.SetValue(path, Unknown)
	}
}

func (r *Record) addImpact(value string) {
	for _, existing := range r.Impact {
		if strings.EqualFold(existing, value) {
			return
		}
	}
	// A real impact supersedes a prior skip.
	if len(r.Impact) == 1 && r.Impact[0] == Unknown && value != Unknown {
		r.Impact = nil
	}
	r.Impact = append(r.Impact, value)
}

// AppendDetail adds a bracketed annotation to the description so the
// final narrative carries every resolved field.
func (r *Record) AppendDetail(label, value string) {
	if value == "" || value == Unknown {
		return
	}
	note := fmt.Sprintf("[%s: %s]", label, value)
	if r.Description == "" {
		r.Description = note
		return
	}
	r.Description = r.Description + " " + note
}

func parseBoolValue(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y":
		return true, nil
	case "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean value: %q", value)
}
