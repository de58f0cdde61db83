package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationResult reports whether a reply passed the deterministic
// checks, with a user-facing message when it did not.
type ValidationResult struct {
	Valid   bool
	Message string
}

var (
	dayPattern    = regexp.MustCompile(`\b(\d{1,3})\b`)
	shortDay      = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearPattern   = regexp.MustCompile(`\b([1-9]\d{3})\b`)
	amountPattern = regexp.MustCompile(`-?\d+`)
)

// Months with their maximum day. February allows 29 for leap-year
// tolerance.
var monthMaxDays = []struct {
	name string
	max  int
}{
	{"january", 31}, {"february", 29}, {"march", 31}, {"april", 30},
	{"may", 31}, {"june", 30}, {"july", 31}, {"august", 31},
	{"september", 30}, {"october", 31}, {"november", 30}, {"december", 31},
	{"jan", 31}, {"feb", 29}, {"mar", 31}, {"apr", 30},
	{"jun", 30}, {"jul", 31}, {"aug", 31},
	{"sep", 30}, {"oct", 31}, {"nov", 30}, {"dec", 31},
}

var dateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"02/01/2006",
	"2 Jan",
	"January 2",
	"Jan 2",
}

// ValidateDate rejects dates with impossible day numbers, days beyond
// the named month's maximum, dates more than 3 days in the future, and
// years beyond 2050. Anything it cannot parse passes through for the
// contextual tier to judge.
func ValidateDate(input string, now time.Time) ValidationResult {
	lower := strings.ToLower(input)

	if m := dayPattern.FindStringSubmatch(input); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day > 31 || day < 1 {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("I'm sorry, \"%d\" doesn't look like a valid day - days go from 1 to 31. Could you try again with the correct date? (For example: \"June 24\" or \"24 Jun 2025\")", day),
			}
		}
	}

	for _, month := range monthMaxDays {
		if !strings.Contains(lower, month.name) {
			continue
		}
		if m := shortDay.FindStringSubmatch(input); m != nil {
			day, _ := strconv.Atoi(m[1])
			if day > month.max {
				return ValidationResult{
					Valid:   false,
					Message: fmt.Sprintf("I'm sorry, %s only has %d days. Could you try again with the correct date?", capitalize(month.name), month.max),
				}
			}
		}
		break
	}

	// Complaints are about past events; allow a small tolerance for
	// scheduling phrasing.
	if parsed, ok := parseDate(input, now); ok {
		if parsed.Sub(now) > 3*24*time.Hour {
			return ValidationResult{
				Valid:   false,
				Message: "That date seems to be in the future. Could you share when this actually happened? (e.g., \"12 Jun 2025\")",
			}
		}
	}

	if m := yearPattern.FindStringSubmatch(input); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year > 2050 {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("I'm sorry, the year %d seems incorrect. Could you double-check and provide the date again?", year),
			}
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateAmount rejects negative amounts.
func ValidateAmount(input string) ValidationResult {
	if m := amountPattern.FindString(input); m != "" {
		if amount, err := strconv.Atoi(m); err == nil && amount < 0 {
			return ValidationResult{
				Valid:   false,
				Message: "I'm sorry, the amount can't be negative. Could you provide the billing amount again?",
			}
		}
	}
	return ValidationResult{Valid: true}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseDate(input string, now time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(input)
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		// Layouts without a year parse into year 0; assume the
		// current year.
		if parsed.Year() == 0 {
			parsed = parsed.AddDate(now.Year(), 0, 0)
		}
		return parsed, true
	}
	return time.Time{}, false
}
