package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// CompanyHandler handles company endpoints. Reads are open to any
// authenticated user; mutations require the admin role.
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Register sets up the public read routes.
func (h *CompanyHandler) Register(router fiber.Router) {
	companies := router.Group("/companies")
	companies.Get("/", h.List)
	companies.Get("/:id", h.Get)
}

// RegisterProtected sets up the admin-only mutation routes.
func (h *CompanyHandler) RegisterProtected(router fiber.Router) {
	manage := middleware.RequireRole(service.ActionManageCompanies)
	companies := router.Group("/companies")
	companies.Post("/", h.Create, manage)
	companies.Patch("/:id", h.Update, manage)
	companies.Delete("/:id", h.Delete, manage)
}

// List returns a page of companies.
func (h *CompanyHandler) List(c fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	companies, err := h.companies.List(c.Context(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"companies": companies, "count": len(companies)})
}

// Get returns one company.
func (h *CompanyHandler) Get(c fiber.Ctx) error {
	company, err := h.companies.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

// Create registers a new company profile.
func (h *CompanyHandler) Create(c fiber.Ctx) error {
	var company domain.Company
	if err := c.Bind().JSON(&company); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	created, err := h.companies.Create(c.Context(), &company)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update applies a partial update to a company.
func (h *CompanyHandler) Update(c fiber.Ctx) error {
	var patch domain.CompanyPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	updated, err := h.companies.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// Delete removes a company.
func (h *CompanyHandler) Delete(c fiber.Ctx) error {
	if err := h.companies.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "company deleted"})
}
