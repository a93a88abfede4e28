package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		Name:            "Dana Reyes",
		Email:           "dana@example.com",
		Phone:           "555 0123 987",
		CardNumber:      "4242 4242 4242 4242",
		CardExpiry:      "12/29",
		CardCVC:         "123",
		ConsentAccepted: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Fields)
		wantCode string
	}{
		{
			name:   "all fields valid",
			mutate: func(f *Fields) {},
		},
		{
			name:     "name too short",
			mutate:   func(f *Fields) { f.Name = " D " },
			wantCode: "name_too_short",
		},
		{
			name:     "email without domain",
			mutate:   func(f *Fields) { f.Email = "dana@" },
			wantCode: "email_malformed",
		},
		{
			name:     "email without tld",
			mutate:   func(f *Fields) { f.Email = "dana@example" },
			wantCode: "email_malformed",
		},
		{
			name:     "phone too short",
			mutate:   func(f *Fields) { f.Phone = "12345" },
			wantCode: "phone_too_short",
		},
		{
			name:     "consent unchecked",
			mutate:   func(f *Fields) { f.ConsentAccepted = false },
			wantCode: "consent_missing",
		},
		{
			name:     "card number too short after stripping spaces",
			mutate:   func(f *Fields) { f.CardNumber = "4242 4242 42" },
			wantCode: "card_number_invalid",
		},
		{
			name:     "card number with letters",
			mutate:   func(f *Fields) { f.CardNumber = "4242 4242 4242 42ab" },
			wantCode: "card_number_invalid",
		},
		{
			name:     "expiry too short",
			mutate:   func(f *Fields) { f.CardExpiry = "12" },
			wantCode: "card_expiry_invalid",
		},
		{
			name:     "cvc too short",
			mutate:   func(f *Fields) { f.CardCVC = "12" },
			wantCode: "card_cvc_invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			err := Validate(f)
			if tt.wantCode == "" {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantCode, err.Code)
			}
		})
	}
}

// Consent is checked before the card fields, so a missing consent wins even
// when the payment block is also broken.
func TestValidate_PriorityOrder(t *testing.T) {
	f := validFields()
	f.ConsentAccepted = false
	f.CardNumber = "1"
	f.CardCVC = ""

	err := Validate(f)
	require.NotNil(t, err)
	assert.Equal(t, "consent_missing", err.Code)

	// and name outranks everything
	f.Name = ""
	err = Validate(f)
	require.NotNil(t, err)
	assert.Equal(t, "name_too_short", err.Code)
}
