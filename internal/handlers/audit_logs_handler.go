package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/models"
)

// ======================================================
// HANDLER (superadmin)
// ======================================================

type AuditLogsHandler struct {
	db       *gorm.DB
	timezone string
}

func NewAuditLogsHandler(db *gorm.DB, timezone string) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, timezone: timezone}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if userID, ok := optionalQueryID(c, "user_id"); !ok {
		return
	} else if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	if clientID, ok := optionalQueryID(c, "client_id"); !ok {
		return
	} else if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	if fromStr != "" {
		from, err := parseDateIn(h.timezone, fromStr)
		if err != nil {
			httperr.FromError(c, errInvalidDate)
			return
		}
		q = q.Where("created_at >= ?", from)
	}

	if toStr != "" {
		to, err := parseDateIn(h.timezone, toStr)
		if err != nil {
			httperr.FromError(c, errInvalidDate)
			return
		}
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	// --------------------------------------------------
	// Total + page
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count audit logs")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
