package flow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/spa-scheduler/internal/domain/checkout"
	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
)

var (
	testService = SelectedService{ID: 10, Name: "Deep Tissue Massage", DurationMin: 60, PriceCents: 12000}
	testSlot    = SelectedSlot{
		ID:        uuid.New(),
		StaffID:   1,
		StaffName: "Ava",
		Start:     time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
	}
)

func sessionAtCheckout(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.SelectService(testService))
	require.NoError(t, s.SelectSlot(testSlot))
	return s
}

func TestSession_HappyPath(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StepCatalog, s.Step)

	require.NoError(t, s.SelectService(testService))
	assert.Equal(t, StepAvailability, s.Step)
	assert.Equal(t, uint(0), s.StaffFilter)

	require.NoError(t, s.SetStaffFilter(1))
	require.NoError(t, s.SelectSlot(testSlot))
	assert.Equal(t, StepCheckout, s.Step)

	require.NoError(t, s.Complete(Confirmation{
		BookingReference: "ref-1",
		Start:            testSlot.Start,
		CustomerEmail:    "dana@example.com",
	}))
	assert.Equal(t, StepConfirmation, s.Step)
	require.NotNil(t, s.Confirmation)
	assert.Equal(t, "dana@example.com", s.Confirmation.CustomerEmail)
}

// No sequence of actions can skip a step: every action other than the one
// legal for the current step is rejected.
func TestSession_IllegalTransitions(t *testing.T) {
	s := NewSession()

	assert.ErrorIs(t, s.SelectSlot(testSlot), ErrIllegalTransition)
	assert.ErrorIs(t, s.SetFields(checkout.Fields{}), ErrIllegalTransition)
	assert.ErrorIs(t, s.Complete(Confirmation{}), ErrIllegalTransition)
	assert.ErrorIs(t, s.Back(), ErrIllegalTransition)
	assert.ErrorIs(t, s.ApplyDiscount(discount.Applied{}), ErrIllegalTransition)
	assert.Equal(t, StepCatalog, s.Step, "failed transitions must not move the step")

	require.NoError(t, s.SelectService(testService))
	assert.ErrorIs(t, s.SelectService(testService), ErrIllegalTransition)
	assert.ErrorIs(t, s.Complete(Confirmation{}), ErrIllegalTransition)
	assert.Equal(t, StepAvailability, s.Step)
}

func TestSession_SelectServiceClearsPriorState(t *testing.T) {
	s := sessionAtCheckout(t)
	require.NoError(t, s.ApplyDiscount(discount.Applied{Code: "SPA20", AmountCents: 2000}))

	// back to catalog, then a new selection must start clean
	require.NoError(t, s.Back())
	require.NoError(t, s.Back())
	require.NoError(t, s.SelectService(testService))

	assert.Nil(t, s.Slot)
	assert.Nil(t, s.Discount)
	assert.Equal(t, uint(0), s.StaffFilter)
}

func TestSession_SelectSlotClearsDiscount(t *testing.T) {
	s := sessionAtCheckout(t)
	require.NoError(t, s.ApplyDiscount(discount.Applied{Code: "SPA20", AmountCents: 2000}))

	require.NoError(t, s.Back())
	require.NoError(t, s.SelectSlot(testSlot))

	assert.Nil(t, s.Discount, "discount must be re-applied after slot changes")
}

func TestSession_BackFromCheckoutKeepsService(t *testing.T) {
	s := sessionAtCheckout(t)

	require.NoError(t, s.Back())

	assert.Equal(t, StepAvailability, s.Step)
	assert.Nil(t, s.Slot)
	require.NotNil(t, s.Service)
	assert.Equal(t, testService.ID, s.Service.ID)
}

// After a reset, re-running the same selections behaves exactly like a
// first-time flow: no residual discount or field values leak across sessions.
func TestSession_ResetCompleteness(t *testing.T) {
	s := sessionAtCheckout(t)
	require.NoError(t, s.ApplyDiscount(discount.Applied{Code: "SPA20", AmountCents: 2000}))
	require.NoError(t, s.SetFields(checkout.Fields{Name: "Dana", Email: "dana@example.com"}))
	require.NoError(t, s.Complete(Confirmation{BookingReference: "ref-1"}))

	s.Reset()
	assert.Equal(t, *NewSession(), *s)

	// same selections again reproduce a first-time flow
	require.NoError(t, s.SelectService(testService))
	require.NoError(t, s.SelectSlot(testSlot))

	fresh := sessionAtCheckout(t)
	assert.Equal(t, *fresh, *s)
	assert.Equal(t, int64(12000), s.AmountDue())
}

func TestSession_AmountDue(t *testing.T) {
	s := NewSession()
	assert.Equal(t, int64(0), s.AmountDue())

	s = sessionAtCheckout(t)
	assert.Equal(t, int64(12000), s.AmountDue())

	require.NoError(t, s.ApplyDiscount(discount.Applied{Code: "SPA20", AmountCents: 2000}))
	assert.Equal(t, int64(10000), s.AmountDue())

	require.NoError(t, s.ApplyDiscount(discount.Applied{Code: "MEGA", AmountCents: 12000}))
	assert.Equal(t, int64(0), s.AmountDue())
}
