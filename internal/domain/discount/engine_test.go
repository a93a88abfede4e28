package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledProgram(amountType AmountType, value int64, codes ...string) ProgramConfig {
	return ProgramConfig{
		Enabled:     true,
		AmountType:  amountType,
		AmountValue: value,
		Codes:       codes,
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		program    ProgramConfig
		priceCents int64
		wantAmount int64
		wantErr    error
	}{
		{
			name:       "fixed amount gift card",
			code:       "SPA20",
			program:    enabledProgram(AmountFixed, 2000, "SPA20"),
			priceCents: 12000,
			wantAmount: 2000,
		},
		{
			name:       "percentage over 100 capped at price",
			code:       "MEGA",
			program:    enabledProgram(AmountPercent, 150, "MEGA"),
			priceCents: 5000,
			wantAmount: 5000,
		},
		{
			name:       "fixed amount above price capped at price",
			code:       "BIG",
			program:    enabledProgram(AmountFixed, 9000, "BIG"),
			priceCents: 4500,
			wantAmount: 4500,
		},
		{
			name:       "code is normalized before lookup",
			code:       "  spa20  ",
			program:    enabledProgram(AmountFixed, 2000, "SPA20"),
			priceCents: 12000,
			wantAmount: 2000,
		},
		{
			name:       "empty code",
			code:       "   ",
			program:    enabledProgram(AmountFixed, 2000, "SPA20"),
			priceCents: 12000,
			wantErr:    ErrEmptyCode,
		},
		{
			name:       "program disabled",
			code:       "SPA20",
			program:    ProgramConfig{Enabled: false, AmountType: AmountFixed, AmountValue: 2000, Codes: []string{"SPA20"}},
			priceCents: 12000,
			wantErr:    ErrProgramDisabled,
		},
		{
			name:       "unknown code",
			code:       "WELCOME120",
			program:    enabledProgram(AmountFixed, 2000, "SPA20"),
			priceCents: 12000,
			wantErr:    ErrUnknownCode,
		},
		{
			name:       "zero value yields no remaining balance",
			code:       "SPA20",
			program:    enabledProgram(AmountFixed, 0, "SPA20"),
			priceCents: 12000,
			wantErr:    ErrNoRemainingBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := Apply(tt.code, tt.program, tt.priceCents)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, applied)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, applied)
			assert.Equal(t, tt.wantAmount, applied.AmountCents)
			assert.Greater(t, applied.AmountCents, int64(0))
			assert.LessOrEqual(t, applied.AmountCents, tt.priceCents)
		})
	}
}

func TestApply_LedgerCodes(t *testing.T) {
	program := ProgramConfig{
		Enabled:     true,
		AmountType:  AmountFixed,
		AmountValue: 2000,
		IssuedCodes: []string{"gift-a1b2"},
	}

	applied, err := Apply("GIFT-A1B2", program, 12000)
	require.NoError(t, err)
	assert.Equal(t, "GIFT-A1B2", applied.Code)
}

func TestApply_Idempotent(t *testing.T) {
	program := enabledProgram(AmountPercent, 25, "QUARTER")

	first, err1 := Apply("QUARTER", program, 7999)
	second, err2 := Apply("QUARTER", program, 7999)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestApply_Descriptions(t *testing.T) {
	fixed, err := Apply("SPA20", enabledProgram(AmountFixed, 2000, "SPA20"), 12000)
	require.NoError(t, err)
	assert.Equal(t, "$20.00 applied", fixed.Description)

	pct, err := Apply("HALF", enabledProgram(AmountPercent, 50, "HALF"), 12000)
	require.NoError(t, err)
	assert.Equal(t, "50% off ($60.00)", pct.Description)
}

func TestAmountDue(t *testing.T) {
	// $120.00 service with a $20.00 gift card
	applied, err := Apply("SPA20", enabledProgram(AmountFixed, 2000, "SPA20"), 12000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), AmountDue(12000, applied))

	// 150% gift card fully covers a $50.00 service
	capped, err := Apply("MEGA", enabledProgram(AmountPercent, 150, "MEGA"), 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), AmountDue(5000, capped))

	assert.Equal(t, int64(5000), AmountDue(5000, nil))
}
