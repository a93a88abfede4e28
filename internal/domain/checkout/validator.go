package checkout

import (
	"regexp"
	"strings"
	"unicode"
)

// Fields is the mutable checkout form state. Card fields are opaque strings
// checked for shape only; nothing here ever reaches a payment processor.
type Fields struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CardNumber      string `json:"card_number"`
	CardExpiry      string `json:"card_expiry"`
	CardCVC         string `json:"card_cvc"`
	ConsentAccepted bool   `json:"consent_accepted"`
}

// FieldError identifies the single most relevant invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Code
}

// A shape check only, no RFC 5322 ambitions.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks fields in a fixed priority order and returns the first
// failure, or nil when submission may proceed. Pure: no clock, network,
// or storage access.
func Validate(f Fields) *FieldError {
	if len(strings.TrimSpace(f.Name)) < 2 {
		return &FieldError{Field: "name", Code: "name_too_short", Message: "Please enter your full name."}
	}

	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		return &FieldError{Field: "email", Code: "email_malformed", Message: "Please enter a valid email address."}
	}

	if len(strings.TrimSpace(f.Phone)) < 7 {
		return &FieldError{Field: "phone", Code: "phone_too_short", Message: "Please enter a valid phone number."}
	}

	if !f.ConsentAccepted {
		return &FieldError{Field: "consent", Code: "consent_missing", Message: "Please accept the salon policies to continue."}
	}

	digits := stripSpaces(f.CardNumber)
	if len(digits) < 12 || !allDigits(digits) {
		return &FieldError{Field: "card_number", Code: "card_number_invalid", Message: "Please check the card number."}
	}

	if len(strings.TrimSpace(f.CardExpiry)) < 4 {
		return &FieldError{Field: "card_expiry", Code: "card_expiry_invalid", Message: "Please check the card expiry."}
	}

	if len(strings.TrimSpace(f.CardCVC)) < 3 {
		return &FieldError{Field: "card_cvc", Code: "card_cvc_invalid", Message: "Please check the card security code."}
	}

	return nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
