package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/spa-scheduler/internal/audit"
	"github.com/glowdesk/spa-scheduler/internal/consent"
	domain "github.com/glowdesk/spa-scheduler/internal/domain/booking"
	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	SalonID   uint
	ServiceID uint
	StaffID   uint

	Start time.Time
	End   time.Time

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PaymentMethod string
	DiscountCode  *string
	DiscountCents int64

	Consent consent.Record
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCreateBooking(
	repo domain.Repository,
	audit audit.Sink,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Salon
	// --------------------------------------------------
	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Minimum advance, in the salon's timezone
	// --------------------------------------------------
	minAdvance := salon.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(salon.Timezone)
	if in.Start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 3. Service
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	end := in.End
	if end.IsZero() {
		end = in.Start.Add(time.Duration(svc.DurationMin) * time.Minute)
	}

	// --------------------------------------------------
	// 4. Customer (get or create)
	// --------------------------------------------------
	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.SalonID,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Booking
	// --------------------------------------------------
	b := &models.Booking{
		Reference:     uuid.NewString(),
		SalonID:       in.SalonID,
		StaffID:       in.StaffID,
		CustomerID:    customer.ID,
		ServiceID:     svc.ID,
		StartTime:     in.Start,
		EndTime:       end,
		Status:        string(domain.InitialStatus()),
		PaymentMethod: in.PaymentMethod,
		DiscountCode:  in.DiscountCode,
		DiscountCents: in.DiscountCents,
		Notes:         in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Consent record, bound to the booking
	// --------------------------------------------------
	rec := &models.ConsentRecord{
		SalonID:           in.SalonID,
		BookingID:         &b.ID,
		PolicyFingerprint: in.Consent.PolicyFingerprint,
		AcceptedAt:        in.Consent.AcceptedAt,
		IPAddress:         in.Consent.IPAddress,
		UserAgent:         in.Consent.UserAgent,
	}
	if err := uc.repo.SaveConsentRecord(ctx, rec); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Gift ledger
	// --------------------------------------------------
	if in.DiscountCode != nil {
		// best effort: the code may live only in the configured list
		_ = uc.repo.MarkCodeRedeemed(ctx, in.SalonID, *in.DiscountCode, now)
	}

	// --------------------------------------------------
	// 8. Audit
	// --------------------------------------------------
	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			SalonID:  in.SalonID,
			Action:   "booking_created",
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{
				"reference":          b.Reference,
				"policy_fingerprint": rec.PolicyFingerprint,
			},
		})
	}

	b.Customer = *customer
	b.Service = *svc
	return b, nil
}
