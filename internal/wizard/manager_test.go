package wizard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/spa-scheduler/internal/consent"
	"github.com/glowdesk/spa-scheduler/internal/domain/checkout"
	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
	"github.com/glowdesk/spa-scheduler/internal/domain/flow"
	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/models"
	ucbooking "github.com/glowdesk/spa-scheduler/internal/usecase/booking"
)

// ======================================================
// TEST DOUBLES
// ======================================================

type stubProvider struct {
	windows []schedule.RawWindow
	err     error
}

func (p *stubProvider) Windows(
	_ context.Context,
	_ *models.Salon,
	_ *models.Service,
	_ time.Time,
	_ int,
) ([]schedule.RawWindow, error) {
	return p.windows, p.err
}

type stubCreator struct {
	mu     sync.Mutex
	calls  []ucbooking.CreateBookingInput
	result *models.Booking
	err    error

	// when set, Execute blocks until the channel is closed
	gate chan struct{}
}

func (c *stubCreator) Execute(_ context.Context, in ucbooking.CreateBookingInput) (*models.Booking, error) {
	c.mu.Lock()
	c.calls = append(c.calls, in)
	err := c.err
	result := c.result
	c.mu.Unlock()

	if c.gate != nil {
		<-c.gate
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *stubCreator) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// ======================================================
// FIXTURES
// ======================================================

func testSalon() *models.Salon {
	return &models.Salon{Timezone: "UTC"}
}

func testService() *models.Service {
	return &models.Service{
		Name:        "Deep Tissue Massage",
		PriceCents:  12000,
		DurationMin: 60,
		Staff: []models.StaffMember{
			{Name: "Ana"},
		},
	}
}

func testRoster(svc *models.Service) []schedule.StaffInfo {
	roster := make([]schedule.StaffInfo, 0, len(svc.Staff))
	for _, m := range svc.Staff {
		roster = append(roster, schedule.StaffInfo{ID: m.ID, Name: m.Name})
	}
	return roster
}

func validFields() checkout.Fields {
	return checkout.Fields{
		Name:            "Jordan Reyes",
		Email:           "jordan@example.com",
		Phone:           "5551234567",
		CardNumber:      "4242 4242 4242 4242",
		CardExpiry:      "12/27",
		CardCVC:         "123",
		ConsentAccepted: true,
	}
}

// advanceToCheckout drives a fresh session up to the checkout step and
// returns the manager, token, and creator stub.
func advanceToCheckout(t *testing.T, creator *stubCreator, rec *consent.Recorder) (*Manager, string) {
	t.Helper()

	svc := testService()
	svc.ID = 3
	svc.Staff[0].ID = 5

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	provider := &stubProvider{windows: []schedule.RawWindow{
		{StaffID: 5, Start: start, End: start.Add(2 * time.Hour)},
	}}

	if rec == nil {
		rec = consent.NewRecorder(nil)
	}
	m := NewManager(provider, creator, rec, 14, time.Hour)
	token := m.Start(testSalon())

	require.NoError(t, m.SelectService(context.Background(), token, svc, testRoster(svc)))

	view, err := m.View(token)
	require.NoError(t, err)
	require.NotEmpty(t, view.Days)
	require.NotEmpty(t, view.Days[0].Slots)

	require.NoError(t, m.SelectSlot(token, view.Days[0].Slots[0].ID))
	return m, token
}

// ======================================================
// FLOW
// ======================================================

func TestManager_FullFlowToConfirmation(t *testing.T) {
	creator := &stubCreator{result: &models.Booking{
		Reference: "ref-123",
		StartTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Customer:  models.Customer{Email: "jordan@example.com"},
	}}
	m, token := advanceToCheckout(t, creator, nil)

	require.NoError(t, m.SetFields(token, validFields()))

	conf, err := m.Submit(context.Background(), token, "policy text", consent.ClientContext{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-123", conf.BookingReference)
	assert.Equal(t, "jordan@example.com", conf.CustomerEmail)

	view, err := m.View(token)
	require.NoError(t, err)
	assert.Equal(t, flow.StepConfirmation, view.Step)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "ref-123", view.Confirmation.BookingReference)

	require.Len(t, creator.calls, 1)
	in := creator.calls[0]
	assert.Equal(t, uint(3), in.ServiceID)
	assert.Equal(t, uint(5), in.StaffID)
	assert.Equal(t, "Jordan Reyes", in.CustomerName)
	assert.Equal(t, consent.Fingerprint("policy text"), in.Consent.PolicyFingerprint)
	assert.Equal(t, "203.0.113.9", in.Consent.IPAddress)
}

func TestManager_SessionNotFound(t *testing.T) {
	m := NewManager(&stubProvider{}, &stubCreator{}, consent.NewRecorder(nil), 14, time.Hour)

	_, err := m.View("no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = m.Back("no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_ProviderFailureLeavesSessionOnCatalog(t *testing.T) {
	provider := &stubProvider{err: errors.New("working hours store down")}
	m := NewManager(provider, &stubCreator{}, consent.NewRecorder(nil), 14, time.Hour)
	token := m.Start(testSalon())

	err := m.SelectService(context.Background(), token, testService(), nil)
	require.Error(t, err)

	view, err := m.View(token)
	require.NoError(t, err)
	assert.Equal(t, flow.StepCatalog, view.Step)
	assert.Nil(t, view.Service)
}

func TestManager_StaffFilterNarrowsView(t *testing.T) {
	svc := testService()
	svc.ID = 3
	svc.Staff = []models.StaffMember{{Name: "Ana"}, {Name: "Bea"}}
	svc.Staff[0].ID = 5
	svc.Staff[1].ID = 6

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	provider := &stubProvider{windows: []schedule.RawWindow{
		{StaffID: 5, Start: start, End: start.Add(time.Hour)},
		{StaffID: 6, Start: start, End: start.Add(time.Hour)},
	}}

	m := NewManager(provider, &stubCreator{}, consent.NewRecorder(nil), 14, time.Hour)
	token := m.Start(testSalon())
	require.NoError(t, m.SelectService(context.Background(), token, svc, testRoster(svc)))

	require.NoError(t, m.SetStaffFilter(token, 6))

	view, err := m.View(token)
	require.NoError(t, err)
	require.Len(t, view.Days, 1)
	require.Len(t, view.Days[0].Slots, 1)
	assert.Equal(t, uint(6), view.Days[0].Slots[0].StaffID)
	assert.Equal(t, "Bea", view.Days[0].Slots[0].StaffName)
}

func TestManager_SelectUnknownSlot(t *testing.T) {
	svc := testService()
	svc.Staff[0].ID = 5

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	provider := &stubProvider{windows: []schedule.RawWindow{
		{StaffID: 5, Start: start, End: start.Add(time.Hour)},
	}}

	m := NewManager(provider, &stubCreator{}, consent.NewRecorder(nil), 14, time.Hour)
	token := m.Start(testSalon())
	require.NoError(t, m.SelectService(context.Background(), token, svc, testRoster(svc)))

	err := m.SelectSlot(token, schedule.SlotID(99, start))
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// ======================================================
// DISCOUNTS
// ======================================================

func TestManager_ApplyDiscountOnCheckout(t *testing.T) {
	m, token := advanceToCheckout(t, &stubCreator{}, nil)

	program := discount.ProgramConfig{
		Enabled:     true,
		AmountType:  discount.AmountFixed,
		AmountValue: 2000,
		Codes:       []string{"SPRING20"},
	}

	applied, err := m.ApplyDiscount(token, "spring20", program)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), applied.AmountCents)

	view, err := m.View(token)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), view.AmountDue)

	require.NoError(t, m.ClearDiscount(token))
	view, err = m.View(token)
	require.NoError(t, err)
	assert.Nil(t, view.Discount)
	assert.Equal(t, int64(12000), view.AmountDue)
}

func TestManager_ApplyDiscountOutsideCheckout(t *testing.T) {
	m := NewManager(&stubProvider{}, &stubCreator{}, consent.NewRecorder(nil), 14, time.Hour)
	token := m.Start(testSalon())

	_, err := m.ApplyDiscount(token, "SPRING20", discount.ProgramConfig{Enabled: true})
	assert.ErrorIs(t, err, flow.ErrIllegalTransition)
}

// ======================================================
// SUBMISSION
// ======================================================

func TestManager_SubmitRejectsInvalidFieldsWithoutConsent(t *testing.T) {
	var fingerprints atomic.Int32
	rec := consent.NewRecorder(func(text string) string {
		fingerprints.Add(1)
		return consent.Fingerprint(text)
	})

	creator := &stubCreator{}
	m, token := advanceToCheckout(t, creator, rec)

	f := validFields()
	f.ConsentAccepted = false
	f.CardNumber = "1"
	require.NoError(t, m.SetFields(token, f))

	_, err := m.Submit(context.Background(), token, "policy", consent.ClientContext{})
	require.Error(t, err)

	var ferr *checkout.FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "consent_missing", ferr.Code)

	assert.Empty(t, creator.calls, "collaborator must not run on validation failure")
	assert.Equal(t, int32(0), fingerprints.Load(), "no consent record on validation failure")

	view, viewErr := m.View(token)
	require.NoError(t, viewErr)
	assert.Equal(t, flow.StepCheckout, view.Step)
}

func TestManager_SubmitFailureStaysOnCheckoutForRetry(t *testing.T) {
	var fingerprints atomic.Int32
	rec := consent.NewRecorder(func(text string) string {
		fingerprints.Add(1)
		return consent.Fingerprint(text)
	})

	creator := &stubCreator{err: errors.New("database unavailable")}
	m, token := advanceToCheckout(t, creator, rec)
	require.NoError(t, m.SetFields(token, validFields()))

	_, err := m.Submit(context.Background(), token, "policy", consent.ClientContext{})
	require.Error(t, err)

	view, viewErr := m.View(token)
	require.NoError(t, viewErr)
	assert.Equal(t, flow.StepCheckout, view.Step)
	assert.NotEmpty(t, view.Notice)
	assert.Nil(t, view.Confirmation)

	// retry succeeds and produces a fresh consent record
	creator.err = nil
	creator.result = &models.Booking{
		Reference: "ref-retry",
		StartTime: time.Now().UTC(),
		Customer:  models.Customer{Email: "jordan@example.com"},
	}

	conf, err := m.Submit(context.Background(), token, "policy", consent.ClientContext{})
	require.NoError(t, err)
	assert.Equal(t, "ref-retry", conf.BookingReference)

	require.Len(t, creator.calls, 2)
	assert.Equal(t, "Jordan Reyes", creator.calls[1].CustomerName, "fields survive the failed attempt")
	assert.Equal(t, int32(2), fingerprints.Load(), "one consent record per passing attempt")
}

func TestManager_SubmitRejectsConcurrentActions(t *testing.T) {
	gate := make(chan struct{})
	creator := &stubCreator{
		gate: gate,
		result: &models.Booking{
			Reference: "ref-slow",
			StartTime: time.Now().UTC(),
			Customer:  models.Customer{Email: "jordan@example.com"},
		},
	}
	m, token := advanceToCheckout(t, creator, nil)
	require.NoError(t, m.SetFields(token, validFields()))

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), token, "policy", consent.ClientContext{})
		done <- err
	}()

	// wait until the collaborator call is pending
	require.Eventually(t, func() bool {
		return creator.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, m.Back(token), ErrSubmissionInProgress)
	assert.ErrorIs(t, m.Reset(token), ErrSubmissionInProgress)
	assert.ErrorIs(t, m.SetFields(token, validFields()), ErrSubmissionInProgress)

	_, err := m.Submit(context.Background(), token, "policy", consent.ClientContext{})
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(gate)
	require.NoError(t, <-done)

	view, err := m.View(token)
	require.NoError(t, err)
	assert.Equal(t, flow.StepConfirmation, view.Step)
}

func TestManager_ResetReturnsToCleanCatalog(t *testing.T) {
	m, token := advanceToCheckout(t, &stubCreator{}, nil)
	require.NoError(t, m.SetFields(token, validFields()))

	require.NoError(t, m.Reset(token))

	view, err := m.View(token)
	require.NoError(t, err)
	assert.Equal(t, flow.StepCatalog, view.Step)
	assert.Nil(t, view.Service)
	assert.Nil(t, view.Slot)
	assert.Nil(t, view.Discount)
	assert.Empty(t, view.Days)
}
