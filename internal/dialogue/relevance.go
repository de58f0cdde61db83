package dialogue

import (
	"context"
	"sort"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

// fieldPriority orders candidate fields: impact first, then temporal
// and contextual fields, then category-specific details.
var fieldPriority = map[string]int{
	complaint.FieldImpact:          0,
	complaint.FieldEventDate:       1,
	complaint.FieldEventLocation:   2,
	complaint.FieldTypeOfCare:      3,
	complaint.FieldMedicationName:  4,
	complaint.FieldPeopleRole:      5,
	complaint.FieldBillingAmount:   6,
	complaint.FieldInsuranceStatus: 7,
	complaint.FieldDescription:     8,
}

// nextFields computes the minimal ordered set of fields still worth
// asking. An empty result forces finalization.
func (e *Engine) nextFields(ctx context.Context, st *State) []string {
	if st.QuestionsAsked >= e.maxQuestions {
		return nil
	}

	candidates := situationalCandidates(st)
	if len(candidates) > 0 {
		selected, err := e.port.SelectMissingFields(ctx, &st.Record, candidates)
		if err != nil {
			// Degrade by asking nothing rather than guessing; an
			// incomplete record beats a stalled conversation.
			e.metrics.ObservePortFailure("select_missing_fields")
			e.logger.WithSession(st.SessionID).Warn("missing-field selection failed, finalizing", "error", err.Error())
			return nil
		}
		kept := intersect(candidates, selected)
		if len(kept) > 0 {
			return capFields(kept, e.maxQuestions-st.QuestionsAsked)
		}
	}

	return capFields(contactCandidates(st), e.maxQuestions-st.QuestionsAsked)
}

// situationalCandidates applies the three deterministic filters in
// order: category exclusion, already-known exclusion, attempt
// suppression.
func situationalCandidates(st *State) []string {
	required := complaint.RequiredFieldsBySubcategory[st.Record.Subcategory]
	var out []string
	for _, field := range required {
		if complaint.FieldExcluded(st.Record.Subcategory, field) {
			continue
		}
		if st.Record.Known(field) {
			continue
		}
		if st.Attempts(field) >= 1 {
			continue
		}
		out = append(out, field)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

// contactCandidates gates the follow-up fields behind the explicit
// opt-in: first the wants-contact decision itself, then name and
// email only when the answer was yes.
func contactCandidates(st *State) []string {
	wants := st.Record.Contact.WantsContact
	if wants == nil {
		if st.Attempts(complaint.FieldWantsContact) >= 1 {
			return nil
		}
		return []string{complaint.FieldWantsContact}
	}
	if !*wants {
		return nil
	}

	var out []string
	for _, field := range []string{complaint.FieldContactName, complaint.FieldContactEmail} {
		if st.Record.Known(field) || st.Attempts(field) >= 1 {
			continue
		}
		out = append(out, field)
	}
	return out
}

func priorityOf(field string) int {
	if p, ok := fieldPriority[field]; ok {
		return p
	}
	return len(fieldPriority)
}

// intersect keeps candidates, in their existing order, that also
// appear in the selected list.
func intersect(candidates, selected []string) []string {
	keep := make(map[string]bool, len(selected))
	for _, f := range selected {
		keep[f] = true
	}
	var out []string
	for _, f := range candidates {
		if keep[f] {
			out = append(out, f)
		}
	}
	return out
}

func capFields(fields []string, budget int) []string {
	if budget < 0 {
		budget = 0
	}
	if len(fields) > budget {
		return fields[:budget]
	}
	return fields
}
