package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	e164Pattern      = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	displaySeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")
)

// PhoneNumberE164 is an immutable E.164 phone number value object.
type PhoneNumberE164 struct {
	value string
}

// NewPhoneNumberE164 validates and constructs an E.164 number:
// a leading + followed by 2 to 15 digits, no separators.
func NewPhoneNumberE164(phone string) (PhoneNumberE164, error) {
	cleaned := strings.TrimSpace(phone)
	if !e164Pattern.MatchString(cleaned) {
		return PhoneNumberE164{}, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, phone)
	}
	return PhoneNumberE164{value: cleaned}, nil
}

// PhoneNumberE164Unchecked constructs the value object without validation.
// Reserved for rehydrating rows that were validated when written.
func PhoneNumberE164Unchecked(phone string) PhoneNumberE164 {
	return PhoneNumberE164{value: phone}
}

func (p PhoneNumberE164) String() string { return p.value }

func (p PhoneNumberE164) IsZero() bool { return p.value == "" }

func (p PhoneNumberE164) Equals(other PhoneNumberE164) bool { return p.value == other.value }

// Formatted renders Brazilian mobile numbers as "+55 11 99999-9999";
// other numbers are returned as-is.
func (p PhoneNumberE164) Formatted() string {
	if strings.HasPrefix(p.value, "+55") && len(p.value) == 14 {
		return fmt.Sprintf("+55 %s %s-%s", p.value[3:5], p.value[5:10], p.value[10:])
	}
	return p.value
}

// NormalizeDisplayNumber strips the separators Meta uses in display phone
// numbers (spaces, dashes, parentheses) into the canonical stored form.
// It does not validate: display values come from the remote platform and are
// stored as reported.
func NormalizeDisplayNumber(display string) string {
	return displaySeparator.Replace(display)
}
