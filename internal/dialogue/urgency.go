package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carebridge/complaint-intake/internal/complaint"
)

const (
	impactSafety   = "Safety risk or harm"
	impactPhysical = "Physical symptoms worsened or new symptoms"
)

var urgencyAmountPattern = regexp.MustCompile(`\d+`)

// billingEscalationThreshold is the billed amount at or above which a
// billing dispute is treated as medium urgency.
const billingEscalationThreshold = 1000

// ComputeUrgency applies the deterministic triage rules, evaluated in
// order from most to least severe.
func ComputeUrgency(rec *complaint.Record) complaint.UrgencyLevel {
	if rec.Subcategory == complaint.SubSafety || hasImpact(rec, impactSafety) {
		return complaint.UrgencyHigh
	}
	if rec.Domain == complaint.DomainClinical && hasImpact(rec, impactPhysical) {
		return complaint.UrgencyHigh
	}

	level := complaint.UrgencyLow
	if rec.Subcategory == complaint.SubMedication {
		level = complaint.UrgencyMedium
	}
	if billedAmount(rec) >= billingEscalationThreshold {
		level = complaint.UrgencyMedium
	}

	// Emergency care raises the stakes one step.
	if rec.TypeOfCare == "Emergency Department" {
		if level == complaint.UrgencyLow {
			level = complaint.UrgencyMedium
		} else {
			level = complaint.UrgencyHigh
		}
	}
	return level
}

func hasImpact(rec *complaint.Record, canonical string) bool {
	for _, impact := range rec.Impact {
		if strings.EqualFold(impact, canonical) {
			return true
		}
	}
	return false
}

func billedAmount(rec *complaint.Record) int {
	raw := strings.ReplaceAll(rec.Billing.Amount, ",", "")
	if raw == "" || raw == complaint.Unknown {
		return 0
	}
	m := urgencyAmountPattern.FindString(raw)
	if m == "" {
		return 0
	}
	amount, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return amount
}
