package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// AuthHandler handles registration, login, the token lifecycle, and the
// Google OAuth flow.
type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

// Register sets up the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.RegisterUser)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Get("/google/login", h.GoogleLogin)
	auth.Get("/google/callback", h.GoogleCallback)
}

// RegisterProtected sets up the auth routes that need a valid access token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Get("/me", h.Me)
	auth.Post("/logout", h.Logout)
}

// RegisterUser creates a password account and returns its first token pair.
func (h *AuthHandler) RegisterUser(c fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.Bind().JSON(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.authService.Register(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	pair, err := h.authService.IssueTokenPair(c.Context(), user)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": pair,
	})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.authService.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return fail(c, err)
	}
	pair, err := h.authService.IssueTokenPair(c.Context(), user)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(pair)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token is required"})
	}

	pair, err := h.authService.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(pair)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.JSON(user)
}

// Logout revokes the authenticated user's refresh token.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	h.authService.Logout(c.Context(), user.ID)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// GoogleLogin redirects to Google's consent screen.
func (h *AuthHandler) GoogleLogin(c fiber.Ctx) error {
	url, _, err := h.authService.GoogleLoginURL()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Redirect().To(url)
}

// GoogleCallback completes the OAuth flow and redirects to the frontend with
// the token pair in the fragment-free query, matching what the SPA expects.
func (h *AuthHandler) GoogleCallback(c fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing authorization code"})
	}

	_, pair, err := h.authService.GoogleCallback(c.Context(), code)
	if err != nil {
		return fail(c, err)
	}

	if h.frontendURL != "" {
		redirectURL := h.frontendURL + "/auth/callback?access_token=" + pair.AccessToken + "&refresh_token=" + pair.RefreshToken
		return c.Redirect().To(redirectURL)
	}
	return c.JSON(pair)
}
