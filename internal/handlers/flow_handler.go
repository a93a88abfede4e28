package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/consent"
	"github.com/glowdesk/spa-scheduler/internal/domain/checkout"
	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
	"github.com/glowdesk/spa-scheduler/internal/domain/flow"
	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/wizard"
)

// ======================================================
// HANDLER
// ======================================================

type FlowHandler struct {
	db      *gorm.DB
	manager *wizard.Manager
}

func NewFlowHandler(db *gorm.DB, manager *wizard.Manager) *FlowHandler {
	return &FlowHandler{db: db, manager: manager}
}

// ======================================================
// REQUESTS
// ======================================================

type SelectServiceRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

type StaffFilterRequest struct {
	StaffID uint `json:"staff_id"`
}

type SelectSlotRequest struct {
	SlotID string `json:"slot_id" binding:"required"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

type CheckoutFieldsRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CardNumber      string `json:"card_number"`
	CardExpiry      string `json:"card_expiry"`
	CardCVC         string `json:"card_cvc"`
	ConsentAccepted bool   `json:"consent_accepted"`
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *FlowHandler) Start(c *gin.Context) {
	slug := c.Param("slug")

	var salon models.Salon
	if err := h.db.Where("slug = ?", slug).First(&salon).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}

	token := h.manager.Start(&salon)

	var services []models.Service
	h.db.
		Preload("Staff", "active = ?", true).
		Where("salon_id = ? AND active = ?", salon.ID, true).
		Order("category ASC, name ASC").
		Find(&services)

	c.JSON(http.StatusCreated, gin.H{
		"token":    token,
		"salon":    gin.H{"name": salon.Name, "slug": salon.Slug, "timezone": salon.Timezone},
		"services": services,
	})
}

func (h *FlowHandler) View(c *gin.Context) {
	view, err := h.manager.View(c.Param("token"))
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *FlowHandler) SelectService(c *gin.Context) {
	token := c.Param("token")

	var req SelectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	salon, err := h.manager.Salon(token)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}

	var svc models.Service
	if err := h.db.
		Preload("Staff", "active = ?", true).
		Where("id = ? AND salon_id = ? AND active = ?", req.ServiceID, salon.ID, true).
		First(&svc).Error; err != nil {

		httperr.BadRequest(c, "service_not_found", "Service not found.")
		return
	}

	roster := make([]schedule.StaffInfo, 0, len(svc.Staff))
	for _, m := range svc.Staff {
		roster = append(roster, schedule.StaffInfo{ID: m.ID, Name: m.Name, Color: m.Color})
	}

	if err := h.manager.SelectService(c.Request.Context(), token, &svc, roster); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) SetStaffFilter(c *gin.Context) {
	token := c.Param("token")

	var req StaffFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if err := h.manager.SetStaffFilter(token, req.StaffID); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) SelectSlot(c *gin.Context) {
	token := c.Param("token")

	var req SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid slot id.")
		return
	}

	if err := h.manager.SelectSlot(token, slotID); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) ApplyDiscount(c *gin.Context) {
	token := c.Param("token")

	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	salon, err := h.manager.Salon(token)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}

	program, err := h.loadProgram(salon.ID)
	if err != nil {
		httperr.Internal(c, "gift_program_error", "Could not load the gift program.")
		return
	}

	if _, err := h.manager.ApplyDiscount(token, req.Code, program); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) ClearDiscount(c *gin.Context) {
	token := c.Param("token")
	if err := h.manager.ClearDiscount(token); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) SetCheckoutFields(c *gin.Context) {
	token := c.Param("token")

	var req CheckoutFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	fields := checkout.Fields{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		CardNumber:      req.CardNumber,
		CardExpiry:      req.CardExpiry,
		CardCVC:         req.CardCVC,
		ConsentAccepted: req.ConsentAccepted,
	}

	if err := h.manager.SetFields(token, fields); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) Submit(c *gin.Context) {
	token := c.Param("token")

	salon, err := h.manager.Salon(token)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}

	cc := consent.ClientContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	if _, err := h.manager.Submit(c.Request.Context(), token, salon.PolicyText(), cc); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) Back(c *gin.Context) {
	token := c.Param("token")
	if err := h.manager.Back(token); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

func (h *FlowHandler) Reset(c *gin.Context) {
	token := c.Param("token")
	if err := h.manager.Reset(token); err != nil {
		h.writeFlowError(c, err)
		return
	}
	h.view(c, token)
}

// ======================================================
// POLICIES
// ======================================================

func (h *FlowHandler) Policies(c *gin.Context) {
	slug := c.Param("slug")

	var salon models.Salon
	if err := h.db.Where("slug = ?", slug).First(&salon).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cancellation_policy": salon.CancellationPolicy,
		"no_show_policy":      salon.NoShowPolicy,
		"refund_policy":       salon.RefundPolicy,
		"cash_policy":         salon.CashPolicy,
	})
}

// ======================================================
// HELPERS
// ======================================================

func (h *FlowHandler) view(c *gin.Context, token string) {
	view, err := h.manager.View(token)
	if err != nil {
		h.writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// loadProgram merges the configured code list with unredeemed ledger codes.
func (h *FlowHandler) loadProgram(salonID uint) (discount.ProgramConfig, error) {
	var program models.GiftProgram
	if err := h.db.Where("salon_id = ?", salonID).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return discount.ProgramConfig{}, nil
		}
		return discount.ProgramConfig{}, err
	}

	var issued []string
	h.db.Model(&models.GiftCodeLedgerEntry{}).
		Where("salon_id = ?", salonID).
		Pluck("code", &issued)

	return discount.ProgramConfig{
		Enabled:     program.Enabled,
		AmountType:  discount.AmountType(program.AmountType),
		AmountValue: program.AmountValue,
		Codes:       program.CodeList(),
		IssuedCodes: issued,
	}, nil
}

func (h *FlowHandler) writeFlowError(c *gin.Context, err error) {
	var ferr *checkout.FieldError
	if errors.As(err, &ferr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": ferr.Code,
			"field":      ferr.Field,
			"message":    ferr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		httperr.NotFound(c, "session_not_found", "Booking session not found or expired.")
	case errors.Is(err, wizard.ErrSubmissionInProgress):
		httperr.Conflict(c, "submission_in_progress", "A submission is already in progress.")
	case errors.Is(err, wizard.ErrSlotNotFound):
		httperr.BadRequest(c, "slot_not_found", "That slot is no longer available.")
	case errors.Is(err, flow.ErrIllegalTransition):
		httperr.Conflict(c, "illegal_transition", "That action is not available at this step.")
	case errors.Is(err, discount.ErrEmptyCode):
		httperr.BadRequest(c, "empty_code", "Please enter a gift code.")
	case errors.Is(err, discount.ErrProgramDisabled):
		httperr.BadRequest(c, "gift_program_disabled", "Gift codes are not accepted here.")
	case errors.Is(err, discount.ErrUnknownCode):
		httperr.BadRequest(c, "unknown_code", "That gift code is not recognized.")
	case errors.Is(err, discount.ErrNoRemainingBalance):
		httperr.BadRequest(c, "no_remaining_balance", "That gift code has no remaining balance.")
	default:
		if code := httperr.BusinessCode(err); code != "" {
			httperr.BadRequest(c, code, "Your booking could not be completed.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong. Please try again.")
	}
}
