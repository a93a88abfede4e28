package discount

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type AmountType string

const (
	// AmountFixed deducts a fixed number of cents, capped at the price.
	AmountFixed AmountType = "fixed-amount"
	// AmountPercent deducts a percentage of the price, capped at the price.
	AmountPercent AmountType = "percentage"
)

var (
	ErrEmptyCode          = errors.New("empty gift code")
	ErrProgramDisabled    = errors.New("gift program disabled")
	ErrUnknownCode        = errors.New("unknown gift code")
	ErrNoRemainingBalance = errors.New("gift code has no remaining balance")
)

// ProgramConfig is the tenant's discount configuration, supplied wholesale
// by the caller. The engine never mutates or persists it.
type ProgramConfig struct {
	Enabled     bool
	AmountType  AmountType
	AmountValue int64
	Codes       []string
	IssuedCodes []string
}

// Applied is a successfully validated discount for the current service price.
type Applied struct {
	Code        string `json:"code"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

// Apply validates a gift code against the program and computes the capped
// discount for the given service price. Idempotent: the same inputs always
// yield the same result.
func Apply(code string, program ProgramConfig, servicePriceCents int64) (*Applied, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrEmptyCode
	}

	if !program.Enabled {
		return nil, ErrProgramDisabled
	}

	if !codeKnown(normalized, program) {
		return nil, ErrUnknownCode
	}

	var raw int64
	switch program.AmountType {
	case AmountPercent:
		raw = int64(math.Round(float64(servicePriceCents) * float64(program.AmountValue) / 100))
	default:
		raw = program.AmountValue
	}

	amount := raw
	if amount > servicePriceCents {
		amount = servicePriceCents
	}
	if amount <= 0 {
		return nil, ErrNoRemainingBalance
	}

	return &Applied{
		Code:        normalized,
		AmountCents: amount,
		Description: describe(program.AmountType, program.AmountValue, amount),
	}, nil
}

// AmountDue is the price after discount, floored at zero.
func AmountDue(servicePriceCents int64, applied *Applied) int64 {
	if applied == nil {
		return servicePriceCents
	}
	due := servicePriceCents - applied.AmountCents
	if due < 0 {
		due = 0
	}
	return due
}

func codeKnown(normalized string, program ProgramConfig) bool {
	for _, c := range program.Codes {
		if strings.ToUpper(strings.TrimSpace(c)) == normalized {
			return true
		}
	}
	for _, c := range program.IssuedCodes {
		if strings.ToUpper(strings.TrimSpace(c)) == normalized {
			return true
		}
	}
	return false
}

func describe(amountType AmountType, value int64, appliedCents int64) string {
	if amountType == AmountPercent {
		return fmt.Sprintf("%d%% off (%s)", value, FormatCents(appliedCents))
	}
	return fmt.Sprintf("%s applied", FormatCents(appliedCents))
}

func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
