package flow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/spa-scheduler/internal/domain/checkout"
	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
)

// ErrIllegalTransition is returned when an action is not legal from the
// session's current step. Steps are never skipped: catalog → checkout in one
// move is impossible by construction.
var ErrIllegalTransition = errors.New("illegal flow transition")

type SelectedService struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
}

type SelectedSlot struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type Confirmation struct {
	BookingReference string    `json:"booking_reference"`
	Start            time.Time `json:"start"`
	CustomerEmail    string    `json:"customer_email"`
}

// Session is the in-progress booking selection: exactly one step is active,
// and every transition clears the state the next step must not inherit.
// Not safe for concurrent use; the owning manager serializes access.
type Session struct {
	Step         Step              `json:"step"`
	Service      *SelectedService  `json:"service"`
	StaffFilter  uint              `json:"staff_filter"`
	Slot         *SelectedSlot     `json:"slot"`
	Discount     *discount.Applied `json:"discount"`
	Fields       checkout.Fields   `json:"fields"`
	Notice       string            `json:"notice"`
	Confirmation *Confirmation     `json:"confirmation"`
}

func NewSession() *Session {
	return &Session{Step: StepCatalog}
}

// SelectService moves catalog → availability, resetting the staff filter to
// "any" and clearing any prior slot, discount, and notice.
func (s *Session) SelectService(svc SelectedService) error {
	if s.Step != StepCatalog {
		return ErrIllegalTransition
	}

	s.Step = StepAvailability
	s.Service = &svc
	s.StaffFilter = 0
	s.Slot = nil
	s.Discount = nil
	s.Notice = ""
	return nil
}

// SetStaffFilter narrows availability to one staff member (0 = any). Only
// meaningful while choosing a slot.
func (s *Session) SetStaffFilter(staffID uint) error {
	if s.Step != StepAvailability {
		return ErrIllegalTransition
	}
	s.StaffFilter = staffID
	return nil
}

// SelectSlot moves availability → checkout. The discount is cleared even
// though the price is unchanged, forcing re-application over stale state.
func (s *Session) SelectSlot(slot SelectedSlot) error {
	if s.Step != StepAvailability {
		return ErrIllegalTransition
	}

	s.Step = StepCheckout
	s.Slot = &slot
	s.Discount = nil
	s.Notice = ""
	return nil
}

// Back steps availability → catalog (discarding the service) or
// checkout → availability (discarding the slot, keeping the service).
func (s *Session) Back() error {
	switch s.Step {
	case StepAvailability:
		s.Step = StepCatalog
		s.Service = nil
		s.StaffFilter = 0
		s.Notice = ""
		return nil
	case StepCheckout:
		s.Step = StepAvailability
		s.Slot = nil
		s.Discount = nil
		s.Notice = ""
		return nil
	default:
		return ErrIllegalTransition
	}
}

func (s *Session) ApplyDiscount(d discount.Applied) error {
	if s.Step != StepCheckout {
		return ErrIllegalTransition
	}
	s.Discount = &d
	s.Notice = ""
	return nil
}

func (s *Session) ClearDiscount() error {
	if s.Step != StepCheckout {
		return ErrIllegalTransition
	}
	s.Discount = nil
	return nil
}

func (s *Session) SetFields(f checkout.Fields) error {
	if s.Step != StepCheckout {
		return ErrIllegalTransition
	}
	s.Fields = f
	return nil
}

// Complete moves checkout → confirmation after a successful booking call.
func (s *Session) Complete(conf Confirmation) error {
	if s.Step != StepCheckout {
		return ErrIllegalTransition
	}
	s.Step = StepConfirmation
	s.Confirmation = &conf
	s.Notice = ""
	return nil
}

// Reset returns to a clean catalog state. Unconditional: after a reset the
// session is indistinguishable from a fresh one.
func (s *Session) Reset() {
	*s = Session{Step: StepCatalog}
}

// AmountDue is the list price minus any applied discount, never negative.
func (s *Session) AmountDue() int64 {
	if s.Service == nil {
		return 0
	}
	return discount.AmountDue(s.Service.PriceCents, s.Discount)
}
