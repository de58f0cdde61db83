package dialogue

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"day beyond 31", "32 Jan 2025", false},
		{"february 30th", "30 Feb 2024", false},
		{"day 90", "90 jun 2030", false},
		{"far future year", "12 Jun 2060", false},
		{"year 2300", "12 Jun 2300", false},
		{"year 5000", "12 Jun 5000", false},
		{"unparsed phrasing with bad year", "sometime in 2300", false},
		{"valid past date", "24 Jun 2025", true},
		{"relative phrasing", "yesterday afternoon", true},
		{"valid iso date", "2025-11-02", true},
		{"leap day allowed", "29 Feb 2024", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateDate(tt.input, testNow)
			if res.Valid != tt.valid {
				t.Errorf("ValidateDate(%q).Valid = %v, want %v (%s)", tt.input, res.Valid, tt.valid, res.Message)
			}
			if !res.Valid && res.Message == "" {
				t.Error("invalid result must carry a message")
			}
		})
	}
}

func TestValidateDateRejectsNearFuture(t *testing.T) {
	tenDaysOut := testNow.AddDate(0, 0, 10).Format("2 Jan 2006")
	if res := ValidateDate(tenDaysOut, testNow); res.Valid {
		t.Errorf("expected %q to be rejected as future", tenDaysOut)
	}

	// A couple of days out is tolerated for scheduling phrasing.
	twoDaysOut := testNow.AddDate(0, 0, 2).Format("2 Jan 2006")
	if res := ValidateDate(twoDaysOut, testNow); !res.Valid {
		t.Errorf("expected %q to pass, got %s", twoDaysOut, res.Message)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"-50", false},
		{"120", true},
		{"$300", true},
		{"about 40 dollars", true},
		{"no idea", true},
	}
	for _, tt := range tests {
		res := ValidateAmount(tt.input)
		if res.Valid != tt.valid {
			t.Errorf("ValidateAmount(%q).Valid = %v, want %v", tt.input, res.Valid, tt.valid)
		}
	}
}
