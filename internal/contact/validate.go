package contact

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	// Approximate local@domain.tld shape; TLDs longer than four characters
	// are rejected.
	emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
)

const minMessageLength = 10

// ValidateName accepts 2 to 50 ASCII letters or whitespace.
func ValidateName(value string) bool {
	return namePattern.MatchString(value)
}

func ValidateEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// ValidateMessage accepts messages of at least ten characters once trimmed.
// Length is counted in UTF-16 code units, as the browser counts it, so a
// character outside the BMP counts twice.
func ValidateMessage(value string) bool {
	return len(utf16.Encode([]rune(strings.TrimSpace(value)))) >= minMessageLength
}

// Validate dispatches to the validator of field.
func Validate(field Field, value string) bool {
	switch field {
	case FieldName:
		return ValidateName(value)
	case FieldEmail:
		return ValidateEmail(value)
	case FieldMessage:
		return ValidateMessage(value)
	}
	return false
}
