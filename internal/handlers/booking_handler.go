package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/httpresp"
	"github.com/glowdesk/spa-scheduler/internal/middleware"
	ucbooking "github.com/glowdesk/spa-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	cancelUC     *ucbooking.CancelBooking
	completeUC   *ucbooking.CompleteBooking
	listByDateUC *ucbooking.ListBookingsByDate
}

func NewBookingHandler(
	cancelUC *ucbooking.CancelBooking,
	completeUC *ucbooking.CompleteBooking,
	listByDateUC *ucbooking.ListBookingsByDate,
) *BookingHandler {
	return &BookingHandler{
		cancelUC:     cancelUC,
		completeUC:   completeUC,
		listByDateUC: listByDateUC,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	bookings, err := h.listByDateUC.Execute(c.Request.Context(), salonID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.cancelUC.Execute(c.Request.Context(), salonID, userID, uint(id))
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *BookingHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	b, err := h.completeUC.Execute(c.Request.Context(), salonID, userID, uint(id))
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// ERRORS
// ======================================================

func (h *BookingHandler) writeBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "booking_not_found"):
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "Booking is not in a state that allows this.")
	default:
		httperr.Internal(c, "internal_error", "Could not update the booking.")
	}
}
