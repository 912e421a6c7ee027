package validation

import (
	"fmt"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Rule lists the checks applied to one form field.
type Rule struct {
	Required  bool
	Email     bool
	Phone     bool
	Amount    bool
	Date      bool
	MinLength int
}

// Rules keeps the fields in the order they are declared, which is the order errors are reported in.
type Rules struct {
	*orderedmap.OrderedMap[string, Rule]
}

func NewRules() Rules {
	return Rules{orderedmap.New[string, Rule]()}
}

// Add sets the rule of a field and returns the rules so that calls can be chained.
func (r Rules) Add(field string, rule Rule) Rules {
	r.Set(field, rule)
	return r
}

// Errors maps each invalid field to its first error message, in the order of the rules.
type Errors struct {
	*orderedmap.OrderedMap[string, string]
}

func NewErrors() Errors {
	return Errors{orderedmap.New[string, string]()}
}

func (e Errors) Valid() bool {
	return e.OrderedMap == nil || e.Len() == 0
}

// Field returns the error message for a field or an empty string.
func (e Errors) Field(field string) string {
	if e.OrderedMap == nil {
		return ""
	}
	msg, _ := e.Get(field)
	return msg
}

func (e Errors) Fields() []string {
	output := []string{}
	if e.OrderedMap == nil {
		return output
	}
	for pair := e.Oldest(); pair != nil; pair = pair.Next() {
		output = append(output, pair.Key)
	}
	return output
}

func (e Errors) Error() string {
	if e.Valid() {
		return "the form is valid"
	}
	first := e.Oldest()
	if e.Len() == 1 {
		return first.Value
	}
	return fmt.Sprintf("%s (and %d more)", first.Value, e.Len()-1)
}

// ValidateForm checks every field that has a rule and keeps only the first failure of each field.
func ValidateForm(values map[string]string, rules Rules) Errors {
	errors := NewErrors()
	for pair := rules.Oldest(); pair != nil; pair = pair.Next() {
		if msg := validateField(pair.Key, values[pair.Key], pair.Value); msg != "" {
			errors.Set(pair.Key, msg)
		}
	}
	return errors
}

func validateField(field, value string, rule Rule) string {
	if rule.Required && !Required(value) {
		return fmt.Sprintf("%s is required", field)
	}
	if value != "" && rule.Email && !Email(value) {
		return "Invalid email address"
	}
	if value != "" && rule.Phone {
		if HasInvalidPhoneCharacters(value) {
			return "Phone number can only contain numbers (0-9)"
		}
		if !Phone(value) {
			length := utf8.RuneCountInString(value)
			if length != phoneDigits {
				return fmt.Sprintf("Phone number must contain exactly %d digits (currently %d)", phoneDigits, length)
			}
			return fmt.Sprintf("Phone number must contain exactly %d digits", phoneDigits)
		}
	}
	if value != "" && rule.Amount && !Amount(value) {
		return "Invalid amount"
	}
	if value != "" && rule.Date && !Date(value) {
		return "Invalid date"
	}
	if value != "" && rule.MinLength > 0 && utf8.RuneCountInString(value) < rule.MinLength {
		return fmt.Sprintf("Minimum length is %d characters", rule.MinLength)
	}
	return ""
}
