// Package validation checks the portal forms before anything is sent to the backend.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var digitsRegex = regexp.MustCompile(`^[0-9]+$`)
var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// leading number the same way a browser parseFloat reads it, trailing text is ignored
var numberPrefixRegex = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

const phoneDigits int = 10
const minPolicyNumberLength int = 5

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"01/02/2006",
	"2006/01/02",
}

func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// Phone accepts exactly ten digits and nothing else.
func Phone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return false
	}
	if !digitsRegex.MatchString(phone) {
		return false
	}
	return len(phone) == phoneDigits
}

func HasInvalidPhoneCharacters(phone string) bool {
	if phone == "" {
		return false
	}
	return nonDigitRegex.MatchString(phone)
}

// Amount accepts strictly positive numbers.
func Amount(amount string) bool {
	num, ok := ParseAmount(amount)
	return ok && num > 0
}

// ParseAmount reads the number at the start of the value.
func ParseAmount(amount string) (float64, bool) {
	match := numberPrefixRegex.FindString(amount)
	if match == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(match), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

func Date(date string) bool {
	_, ok := ParseDate(date)
	return ok
}

// ParseDate parses the date formats produced by date inputs and by the backend.
func ParseDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, date)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func PolicyNumber(policyNumber string) bool {
	return len([]rune(strings.TrimSpace(policyNumber))) >= minPolicyNumberLength
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}
