// Package middleware provides authentication, logging, rate limiting and tracing middleware.
package middleware

import (
	"context"

	"askly/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LocalsUserID is the fiber locals key holding the authenticated subject.
const LocalsUserID = "userID"

// TokenVerifier turns a session token into the subject it was issued for.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthRequired rejects requests without a valid session token.
//
// The Authorization header carries the raw token with no scheme prefix.
// On failure the chain stops with 401 before any later handler runs.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			return models.RespondWithAppError(c, models.NewAuthTokenInvalidError())
		}

		subject, err := verifier.Verify(token)
		if err != nil {
			return models.RespondWithAppError(c, models.NewAuthTokenInvalidError())
		}

		c.Locals(LocalsUserID, subject)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, subject))

		return c.Next()
	}
}

// UserID returns the subject stored by AuthRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// UserIDFromContext returns the subject stored by AuthRequired in a request context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
