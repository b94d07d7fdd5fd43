package server

import (
	"context"
	"errors"
	"strings"

	"campfire/internal/middleware"
	"campfire/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Authenticate is the app-level identity gate. Requests without an
// Authorization header pass through anonymously. Requests carrying a
// bearer token are validated against the token service: success binds
// the caller's user ID to fiber Locals and the request's UserContext,
// failure short-circuits with 401. Identity lives only in the request;
// no global ever carries it.
func (s *Server) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			middleware.AuthRejections.WithLabelValues("bad_header").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid Authorization header format"))
		}

		user, err := s.tokenService.Validate(c.Context(), parts[1])
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) {
				switch appErr.Code {
				case models.CodeTokenMalformed, models.CodeTokenExpired, models.CodeTokenUnknownSubject:
					middleware.AuthRejections.WithLabelValues(strings.ToLower(appErr.Code)).Inc()
					return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
				}
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		c.Locals("userID", user.ID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireAuth guards route groups that need an authenticated caller. It
// relies on Authenticate having already bound the identity.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userID").(uint); !ok {
			middleware.AuthRejections.WithLabelValues("missing_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		return c.Next()
	}
}

// AdminRequired rejects callers without the site-wide admin role with 403.
// Must be placed after RequireAuth so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}
