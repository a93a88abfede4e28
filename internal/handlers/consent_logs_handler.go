package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/httperr"
	"github.com/glowdesk/spa-scheduler/internal/middleware"
	"github.com/glowdesk/spa-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ConsentLogsHandler struct {
	db *gorm.DB
}

func NewConsentLogsHandler(db *gorm.DB) *ConsentLogsHandler {
	return &ConsentLogsHandler{db: db}
}

func (h *ConsentLogsHandler) List(c *gin.Context) {
	salonID := c.MustGet(middleware.ContextSalonID).(uint)

	fingerprint := c.Query("fingerprint")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	var salon models.Salon
	if err := h.db.First(&salon, salonID).Error; err != nil {
		httperr.Internal(c, "salon_not_found", "Salon not found.")
		return
	}

	q := h.db.
		Model(&models.ConsentRecord{}).
		Where("salon_id = ?", salonID)

	if fingerprint != "" {
		q = q.Where("policy_fingerprint = ?", fingerprint)
	}

	if fromStr != "" {
		if from, err := parseDateInSalon(&salon, fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := parseDateInSalon(&salon, toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "consent_count_failed", "Could not count consent records.")
		return
	}

	var records []models.ConsentRecord
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {

		httperr.Internal(c, "consent_list_failed", "Could not list consent records.")
		return
	}

	c.JSON(200, gin.H{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"records": records,
	})
}
