package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/service"
)

// RequireAuth validates the request's access token and injects the resolved
// user into Fiber locals. The Authorization header is checked first; the
// ?token= query param is a fallback for clients that cannot set headers.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		var token string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}

		user, err := auth.CurrentUser(c.Context(), token)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, port.ErrTokenExpired) {
				msg = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": msg,
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRole gates a route on the role policy for action. It must run after
// RequireAuth.
func RequireRole(action service.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}
		if !service.RoleAllowed(user.Role, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": port.ErrForbidden.Error(),
			})
		}
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from Fiber locals, or nil on
// unauthenticated routes.
func GetCurrentUser(c fiber.Ctx) *domain.User {
	u, ok := c.Locals("user").(*domain.User)
	if !ok {
		return nil
	}
	return u
}
