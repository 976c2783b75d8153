package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// SalaryHandler handles salary report endpoints and the statistics view.
type SalaryHandler struct {
	salaries *service.SalaryService
}

// NewSalaryHandler creates a new salary handler.
func NewSalaryHandler(salaries *service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaries: salaries}
}

// Register sets up the public read routes.
func (h *SalaryHandler) Register(router fiber.Router) {
	// statistics must be registered before :id so the path is not
	// captured as an id
	router.Get("/salaries/statistics", h.Statistics)
	router.Get("/salaries/:id", h.Get)
	router.Get("/companies/:id/salaries", h.ListByCompany)
}

// RegisterProtected sets up the reporter mutation routes.
func (h *SalaryHandler) RegisterProtected(router fiber.Router) {
	salaries := router.Group("/salaries")
	salaries.Post("/", h.Create)
	salaries.Patch("/:id", h.Update)
	salaries.Delete("/:id", h.Delete)
}

// Create records a new salary report.
func (h *SalaryHandler) Create(c fiber.Ctx) error {
	var sal domain.Salary
	if err := c.Bind().JSON(&sal); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	created, err := h.salaries.Create(c.Context(), middleware.GetCurrentUser(c), &sal)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get returns one salary report.
func (h *SalaryHandler) Get(c fiber.Ctx) error {
	sal, err := h.salaries.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sal)
}

// ListByCompany returns a page of a company's salary reports, optionally
// narrowed by a position substring.
func (h *SalaryHandler) ListByCompany(c fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	salaries, err := h.salaries.ListByCompany(c.Context(), c.Params("id"), c.Query("position"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"salaries": salaries, "count": len(salaries)})
}

// Update applies a reporter edit.
func (h *SalaryHandler) Update(c fiber.Ctx) error {
	var patch domain.SalaryPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	updated, err := h.salaries.Update(c.Context(), middleware.GetCurrentUser(c), c.Params("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// Delete removes a salary report.
func (h *SalaryHandler) Delete(c fiber.Ctx) error {
	if err := h.salaries.Delete(c.Context(), middleware.GetCurrentUser(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "salary deleted"})
}

// Statistics aggregates the salary amounts matching the filters.
func (h *SalaryHandler) Statistics(c fiber.Ctx) error {
	filter := port.SalaryFilter{
		CompanyID: c.Query("company_id"),
		Position:  c.Query("position"),
	}
	stats, err := h.salaries.Statistics(c.Context(), filter)
	if err != nil {
		// an empty result set is not a missing resource; answer 200 with
		// an explicit marker
		if errors.Is(err, port.ErrNoSalaryData) {
			return c.JSON(fiber.Map{"error": "No salary data found"})
		}
		return fail(c, err)
	}
	return c.JSON(stats)
}
