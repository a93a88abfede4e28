package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/spa-scheduler/internal/availability"
	"github.com/glowdesk/spa-scheduler/internal/consent"
	"github.com/glowdesk/spa-scheduler/internal/domain/checkout"
	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
	"github.com/glowdesk/spa-scheduler/internal/domain/flow"
	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/metrics"
	"github.com/glowdesk/spa-scheduler/internal/models"
	ucbooking "github.com/glowdesk/spa-scheduler/internal/usecase/booking"
)

var (
	ErrSessionNotFound      = errors.New("flow session not found")
	ErrSlotNotFound         = errors.New("slot not found in current availability")
	ErrSubmissionInProgress = errors.New("submission in progress")
)

// BookingCreator is the external booking-creation collaborator. It is called
// exactly once per submission that passes validation.
type BookingCreator interface {
	Execute(ctx context.Context, in ucbooking.CreateBookingInput) (*models.Booking, error)
}

// session is one customer's wizard. The embedded mutex serializes every
// action on it; no state is shared between sessions.
type session struct {
	mu sync.Mutex

	flow    *flow.Session
	salon   *models.Salon
	service *models.Service
	roster  []schedule.StaffInfo
	slots   []schedule.Slot

	submitting bool
	touched    time.Time
}

// Manager owns the live wizard sessions and wires the pure components
// (expander, grouper, discount engine, validator, consent recorder) to the
// availability provider and the booking-creation collaborator.
type Manager struct {
	provider availability.Provider
	creator  BookingCreator
	recorder *consent.Recorder

	horizonDays int
	sessionTTL  time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewManager(
	provider availability.Provider,
	creator BookingCreator,
	recorder *consent.Recorder,
	horizonDays int,
	sessionTTL time.Duration,
) *Manager {
	if horizonDays <= 0 {
		horizonDays = 14
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &Manager{
		provider:    provider,
		creator:     creator,
		recorder:    recorder,
		horizonDays: horizonDays,
		sessionTTL:  sessionTTL,
		sessions:    make(map[string]*session),
	}
}

// ======================================================
// SESSION LIFECYCLE
// ======================================================

func (m *Manager) Start(salon *models.Salon) string {
	token := uuid.NewString()

	m.mu.Lock()
	m.sessions[token] = &session{
		flow:    flow.NewSession(),
		salon:   salon,
		touched: time.Now(),
	}
	m.mu.Unlock()

	metrics.RecordFlowStarted()
	return token
}

func (m *Manager) get(token string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Janitor drops sessions idle longer than the TTL. Run it once from main.
func (m *Manager) Janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.sessionTTL)
			m.mu.Lock()
			for token, s := range m.sessions {
				s.mu.Lock()
				stale := s.touched.Before(cutoff) && !s.submitting
				s.mu.Unlock()
				if stale {
					delete(m.sessions, token)
				}
			}
			m.mu.Unlock()
		}
	}
}

// ======================================================
// RENDERING
// ======================================================

// View is the state snapshot returned to the wizard client. Card fields are
// never echoed back.
type View struct {
	Step         flow.Step             `json:"step"`
	Service      *flow.SelectedService `json:"service"`
	StaffFilter  uint                  `json:"staff_filter"`
	Staff        []schedule.StaffInfo  `json:"staff"`
	Days         []schedule.DayGroup   `json:"days"`
	Slot         *flow.SelectedSlot    `json:"slot"`
	Discount     *discount.Applied     `json:"discount"`
	AmountDue    int64                 `json:"amount_due_cents"`
	Notice       string                `json:"notice,omitempty"`
	Confirmation *flow.Confirmation    `json:"confirmation"`
}

// View renders the current wizard state. Slots are grouped per calendar day
// in the salon's timezone, honoring the staff filter.
func (m *Manager) View(token string) (*View, error) {
	s, err := m.get(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := &View{
		Step:         s.flow.Step,
		Service:      s.flow.Service,
		StaffFilter:  s.flow.StaffFilter,
		Slot:         s.flow.Slot,
		Discount:     s.flow.Discount,
		AmountDue:    s.flow.AmountDue(),
		Notice:       s.flow.Notice,
		Confirmation: s.flow.Confirmation,
	}

	if s.flow.Step == flow.StepAvailability {
		v.Staff = s.roster
		visible := schedule.FilterByStaff(s.slots, s.flow.StaffFilter)
		v.Days = schedule.GroupByDay(visible, s.salon.Timezone)
	}
	return v, nil
}

// Salon returns the salon snapshot the session was started against.
func (m *Manager) Salon(token string) (*models.Salon, error) {
	s, err := m.get(token)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.salon, nil
}

// ======================================================
// TRANSITIONS
// ======================================================

// SelectService expands availability for the chosen service and moves the
// wizard to the availability step. The provider is consulted before the
// transition so a provider failure leaves the session untouched.
func (m *Manager) SelectService(
	ctx context.Context,
	token string,
	svc *models.Service,
	roster []schedule.StaffInfo,
) error {

	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}

	horizonStart := time.Now().UTC()
	windows, err := m.provider.Windows(ctx, s.salon, svc, horizonStart, m.horizonDays)
	if err != nil {
		return err
	}

	if err := s.flow.SelectService(flow.SelectedService{
		ID:          svc.ID,
		Name:        svc.Name,
		DurationMin: svc.DurationMin,
		PriceCents:  svc.PriceCents,
	}); err != nil {
		return err
	}

	s.service = svc
	s.roster = roster
	s.slots = schedule.Expand(
		schedule.ServiceInfo{
			ID:            svc.ID,
			DurationMin:   svc.DurationMin,
			EligibleStaff: svc.EligibleStaffIDs(),
		},
		windows,
		roster,
		s.salon.Timezone,
		horizonStart,
	)
	s.touch()

	metrics.RecordTransition("select_service")
	return nil
}

func (m *Manager) SetStaffFilter(token string, staffID uint) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}

	if err := s.flow.SetStaffFilter(staffID); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (m *Manager) SelectSlot(token string, slotID uuid.UUID) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}

	var chosen *schedule.Slot
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			chosen = &s.slots[i]
			break
		}
	}
	if chosen == nil {
		return ErrSlotNotFound
	}

	if err := s.flow.SelectSlot(flow.SelectedSlot{
		ID:        chosen.ID,
		StaffID:   chosen.StaffID,
		StaffName: chosen.StaffName,
		Start:     chosen.Start,
		End:       chosen.End,
	}); err != nil {
		return err
	}
	s.touch()

	metrics.RecordTransition("select_slot")
	return nil
}

func (m *Manager) ApplyDiscount(
	token string,
	code string,
	program discount.ProgramConfig,
) (*discount.Applied, error) {

	s, err := m.get(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return nil, ErrSubmissionInProgress
	}
	if s.flow.Step != flow.StepCheckout || s.flow.Service == nil {
		return nil, flow.ErrIllegalTransition
	}

	applied, err := discount.Apply(code, program, s.flow.Service.PriceCents)
	if err != nil {
		metrics.RecordDiscountRejected(rejectionReason(err))
		return nil, err
	}

	if err := s.flow.ApplyDiscount(*applied); err != nil {
		return nil, err
	}
	s.touch()

	metrics.RecordDiscountApplied(string(program.AmountType))
	return applied, nil
}

func (m *Manager) ClearDiscount(token string) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}
	s.touch()
	return s.flow.ClearDiscount()
}

func (m *Manager) SetFields(token string, f checkout.Fields) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}
	s.touch()
	return s.flow.SetFields(f)
}

func (m *Manager) Back(token string) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}

	if err := s.flow.Back(); err != nil {
		return err
	}
	if s.flow.Step == flow.StepCatalog {
		s.service = nil
		s.slots = nil
		s.roster = nil
	}
	s.touch()

	metrics.RecordTransition("back")
	return nil
}

func (m *Manager) Reset(token string) error {
	s, err := m.get(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}

	s.flow.Reset()
	s.service = nil
	s.slots = nil
	s.roster = nil
	s.touch()

	metrics.RecordTransition("reset")
	return nil
}

// ======================================================
// SUBMISSION
// ======================================================

// Submit validates the checkout fields, generates a fresh consent record,
// and calls the booking-creation collaborator. While the call is pending the
// session rejects every other action; on collaborator failure the session
// stays on checkout with all fields intact for a retry.
func (m *Manager) Submit(
	ctx context.Context,
	token string,
	policyText string,
	cc consent.ClientContext,
) (*flow.Confirmation, error) {

	s, err := m.get(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if s.flow.Step != flow.StepCheckout || s.flow.Service == nil || s.flow.Slot == nil {
		s.mu.Unlock()
		return nil, flow.ErrIllegalTransition
	}

	if ferr := checkout.Validate(s.flow.Fields); ferr != nil {
		s.mu.Unlock()
		metrics.RecordSubmission("validation_failed")
		return nil, ferr
	}

	// consent is recorded only after validation passes, once per attempt
	rec := m.recorder.Record(policyText, time.Now().UTC(), cc)
	metrics.RecordConsent()

	in := ucbooking.CreateBookingInput{
		SalonID:       s.salon.ID,
		ServiceID:     s.flow.Service.ID,
		StaffID:       s.flow.Slot.StaffID,
		Start:         s.flow.Slot.Start,
		End:           s.flow.Slot.End,
		CustomerName:  s.flow.Fields.Name,
		CustomerPhone: s.flow.Fields.Phone,
		CustomerEmail: s.flow.Fields.Email,
		PaymentMethod: "card",
		Consent:       rec,
	}
	if s.flow.Discount != nil {
		code := s.flow.Discount.Code
		in.DiscountCode = &code
		in.DiscountCents = s.flow.Discount.AmountCents
	}

	s.submitting = true
	s.mu.Unlock()

	b, err := m.creator.Execute(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.touch()

	if err != nil {
		s.flow.Notice = "We could not complete your booking. Please try again."
		metrics.RecordSubmission("failed")
		return nil, err
	}

	conf := flow.Confirmation{
		BookingReference: b.Reference,
		Start:            b.StartTime,
		CustomerEmail:    b.Customer.Email,
	}
	if err := s.flow.Complete(conf); err != nil {
		return nil, err
	}

	metrics.RecordSubmission("confirmed")
	return &conf, nil
}

func (s *session) touch() {
	s.touched = time.Now()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, discount.ErrEmptyCode):
		return "empty_code"
	case errors.Is(err, discount.ErrProgramDisabled):
		return "program_disabled"
	case errors.Is(err, discount.ErrUnknownCode):
		return "unknown_code"
	case errors.Is(err, discount.ErrNoRemainingBalance):
		return "no_remaining_balance"
	default:
		return "other"
	}
}
