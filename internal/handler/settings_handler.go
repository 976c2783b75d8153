package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// SettingsHandler handles the authenticated user's account settings.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Register sets up settings routes on a protected group.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("/users/me/settings", h.Get)
	router.Patch("/users/me/settings", h.Update)
}

// Get returns the current user's settings, creating defaults on first read.
func (h *SettingsHandler) Get(c fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	settings, err := h.settings.Get(c.Context(), user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}

// Update applies a partial settings update.
func (h *SettingsHandler) Update(c fiber.Ctx) error {
	var patch service.SettingsPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user := middleware.GetCurrentUser(c)
	updated, err := h.settings.Update(c.Context(), user.ID, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}
