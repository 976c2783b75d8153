package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// AuditHandler handles audit log endpoints, admin-only.
type AuditHandler struct {
	store port.AuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store port.AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// Register sets up audit routes on a protected group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/admin/audit", h.ListLogs, middleware.RequireRole(service.ActionViewAudit))
}

// ListLogs returns audit logs with optional filtering.
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	limitStr := c.Query("limit", "100")
	limit, _ := strconv.Atoi(limitStr)
	action := c.Query("action", "")

	logs, err := h.store.ListAuditLogs(c.Context(), limit, action)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
