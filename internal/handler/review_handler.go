package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// ReviewHandler handles review submission, listing, author edits, and the
// moderator queue.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Register sets up the public read routes.
func (h *ReviewHandler) Register(router fiber.Router) {
	router.Get("/reviews/:id", h.Get)
	router.Get("/companies/:id/reviews", h.ListByCompany)
}

// RegisterProtected sets up submission, author edits, and the moderator
// queue.
func (h *ReviewHandler) RegisterProtected(router fiber.Router) {
	reviews := router.Group("/reviews")
	reviews.Post("/", h.Create)
	reviews.Patch("/:id", h.Update)
	reviews.Delete("/:id", h.Delete)

	moderate := middleware.RequireRole(service.ActionModerateReviews)
	moderation := router.Group("/moderation")
	moderation.Get("/reviews", h.Queue, moderate)
	moderation.Patch("/reviews/:id", h.Moderate, moderate)
	moderation.Get("/reviews/:id/history", h.History, moderate)
}

// Create submits a review for moderation.
func (h *ReviewHandler) Create(c fiber.Ctx) error {
	var review domain.Review
	if err := c.Bind().JSON(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	created, err := h.reviews.Create(c.Context(), middleware.GetCurrentUser(c), &review)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get returns one review.
func (h *ReviewHandler) Get(c fiber.Ctx) error {
	review, err := h.reviews.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

// ListByCompany returns a page of a company's reviews, optionally filtered by
// status.
func (h *ReviewHandler) ListByCompany(c fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	status := domain.ReviewStatus(c.Query("status"))
	reviews, err := h.reviews.ListByCompany(c.Context(), c.Params("id"), status, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews, "count": len(reviews)})
}

// Update applies an author edit.
func (h *ReviewHandler) Update(c fiber.Ctx) error {
	var patch domain.ReviewPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	updated, err := h.reviews.Update(c.Context(), middleware.GetCurrentUser(c), c.Params("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// Delete removes a review.
func (h *ReviewHandler) Delete(c fiber.Ctx) error {
	if err := h.reviews.Delete(c.Context(), middleware.GetCurrentUser(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "review deleted"})
}

// Queue returns the moderation queue, pending reviews by default.
func (h *ReviewHandler) Queue(c fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return fail(c, err)
	}
	status := domain.ReviewStatus(c.Query("status"))
	reviews, err := h.reviews.Queue(c.Context(), status, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews, "count": len(reviews)})
}

// Moderate applies a moderator decision to a review.
func (h *ReviewHandler) Moderate(c fiber.Ctx) error {
	var body struct {
		Status domain.ReviewStatus `json:"status"`
		Note   string              `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	updated, err := h.reviews.Moderate(c.Context(), middleware.GetCurrentUser(c), c.Params("id"), body.Status, body.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// History returns the moderation trail of one review.
func (h *ReviewHandler) History(c fiber.Ctx) error {
	logs, err := h.reviews.ModerationHistory(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
}
