package booking

import (
	"context"

	"github.com/glowdesk/spa-scheduler/internal/audit"
	domain "github.com/glowdesk/spa-scheduler/internal/domain/booking"
	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

type CancelBooking struct {
	repo  domain.Repository
	audit audit.Sink
}

func NewCancelBooking(
	repo domain.Repository,
	audit audit.Sink,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	salonID uint,
	userID uint,
	bookingID uint,
) (*models.Booking, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingForSalon(ctx, bookingID, salonID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	now := timezone.NowIn(salon.Timezone)
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			SalonID:  salonID,
			UserID:   &userID,
			Action:   "booking_cancelled",
			Entity:   "booking",
			EntityID: &b.ID,
		})
	}

	return b, nil
}
