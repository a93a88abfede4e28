package booking

import (
	"context"
	"time"

	"github.com/glowdesk/spa-scheduler/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Booking (create) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Consent --------
	SaveConsentRecord(
		ctx context.Context,
		rec *models.ConsentRecord,
	) error

	// -------- Gift ledger --------
	MarkCodeRedeemed(
		ctx context.Context,
		salonID uint,
		code string,
		at time.Time,
	) error

	// -------- Booking (state change) --------
	GetBookingForSalon(
		ctx context.Context,
		bookingID uint,
		salonID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Listings --------
	ListBookingsForPeriod(
		ctx context.Context,
		salonID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
