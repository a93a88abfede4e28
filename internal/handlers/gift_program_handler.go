package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/domain/discount"
	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/middleware"
	"github.com/glowdesk/spa-scheduler/internal/models"
)

type GiftProgramHandler struct {
	db *gorm.DB
}

func NewGiftProgramHandler(db *gorm.DB) *GiftProgramHandler {
	return &GiftProgramHandler{db: db}
}

// --------- Requests ---------

type UpdateGiftProgramRequest struct {
	Enabled     *bool   `json:"enabled"`
	AmountType  *string `json:"amount_type"`
	AmountValue *int64  `json:"amount_value"`
	Codes       *string `json:"codes"`
}

type IssueGiftCodeRequest struct {
	Code string `json:"code" binding:"required"`
	Note string `json:"note"`
}

// --------- Handlers ---------

func (h *GiftProgramHandler) Get(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var program models.GiftProgram
	if err := h.db.Where("salon_id = ?", salonID).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusOK, models.GiftProgram{SalonID: salonID})
			return
		}
		httperr.Internal(c, "failed_to_get_gift_program", "Could not load the gift program.")
		return
	}

	c.JSON(http.StatusOK, program)
}

func (h *GiftProgramHandler) Update(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req UpdateGiftProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var program models.GiftProgram
	err := h.db.Where("salon_id = ?", salonID).First(&program).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "failed_to_get_gift_program", "Could not load the gift program.")
		return
	}
	program.SalonID = salonID

	if req.Enabled != nil {
		program.Enabled = *req.Enabled
	}

	if req.AmountType != nil {
		t := discount.AmountType(*req.AmountType)
		if t != discount.AmountFixed && t != discount.AmountPercent {
			httperr.BadRequest(c, "invalid_amount_type", "Amount type must be fixed-amount or percentage.")
			return
		}
		program.AmountType = string(t)
	}

	if req.AmountValue != nil {
		if *req.AmountValue < 0 {
			httperr.BadRequest(c, "invalid_amount_value", "Amount value must be zero or positive.")
			return
		}
		program.AmountValue = *req.AmountValue
	}

	if req.Codes != nil {
		program.Codes = strings.ToUpper(*req.Codes)
	}

	if err := h.db.Save(&program).Error; err != nil {
		httperr.Internal(c, "failed_to_update_gift_program", "Could not save the gift program.")
		return
	}

	c.JSON(http.StatusOK, program)
}

// IssueCode appends a single code to the redemption ledger.
func (h *GiftProgramHandler) IssueCode(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	var req IssueGiftCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		httperr.BadRequest(c, "empty_code", "Code must not be empty.")
		return
	}

	var count int64
	h.db.Model(&models.GiftCodeLedgerEntry{}).
		Where("salon_id = ? AND UPPER(code) = ?", salonID, code).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "code_already_issued", "That code has already been issued.")
		return
	}

	entry := models.GiftCodeLedgerEntry{
		SalonID: salonID,
		Code:    code,
		Note:    req.Note,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_issue_code", "Could not issue the code.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *GiftProgramHandler) ListLedger(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	q := h.db.Where("salon_id = ?", salonID)

	redeemedStr := strings.TrimSpace(c.Query("redeemed"))
	if redeemedStr == "true" {
		q = q.Where("redeemed = ?", true)
	} else if redeemedStr == "false" {
		q = q.Where("redeemed = ?", false)
	}

	var entries []models.GiftCodeLedgerEntry
	if err := q.
		Order("created_at DESC").
		Find(&entries).Error; err != nil {

		httperr.Internal(c, "failed_to_list_codes", "Could not list issued codes.")
		return
	}

	c.JSON(http.StatusOK, entries)
}
