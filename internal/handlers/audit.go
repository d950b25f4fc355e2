package handlers

import (
	"time"

	"ajopay/internal/services/audit"
	"ajopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler exposes the audit trail to admin callers.
type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

func (h *AuditHandler) QueryEvents(c *fiber.Ctx) error {
	filter := audit.Filter{
		Category: c.Query("category"),
		Action:   c.Query("action"),
		Limit:    c.QueryInt("limit", 50),
	}
	if userID := c.QueryInt("user_id", 0); userID > 0 {
		filter.UserID = uint(userID)
	}
	if sinceStr := c.Query("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return response.BadRequest(c, "since must be RFC3339")
		}
		filter.Since = since
	}

	events, err := h.auditService.QueryEvents(c.Context(), filter)
	if err != nil {
		return response.ServerError(c, "failed to query audit events")
	}

	return response.Success(c, "audit events retrieved", fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

func (h *AuditHandler) GetStatistics(c *fiber.Ctx) error {
	since := time.Now().AddDate(0, 0, -7)
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return response.BadRequest(c, "since must be RFC3339")
		}
		since = parsed
	}

	stats, err := h.auditService.GetStatistics(c.Context(), since)
	if err != nil {
		return response.ServerError(c, "failed to compute audit statistics")
	}

	return response.Success(c, "audit statistics retrieved", fiber.Map{
		"statistics": stats,
		"since":      since,
	})
}
