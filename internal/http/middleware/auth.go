package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weshare/internal/model"
)

// UserLocalKey stores the authenticated *model.User in Fiber's context locals.
const UserLocalKey = "user"

// Authenticator resolves the user behind an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

// AuthEventRecorder counts authentication outcomes. May be nil.
type AuthEventRecorder interface {
	RecordAuthEvent(event string)
}

// Authenticate reads "Authorization: Bearer <token>" and stores the resolved user.
// Missing or rejected tokens leave the request anonymous; protected handlers decide.
func Authenticate(auth Authenticator, rec AuthEventRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return c.Next()
		}

		u, err := auth.Authenticate(c.UserContext(), raw)
		if err != nil {
			if rec != nil {
				rec.RecordAuthEvent("token_rejected")
			}
			return c.Next()
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, model.TokenTypeBearer) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, model.TokenTypeBearer))
}

// BearerToken exposes the raw access token of the request, or "".
func BearerToken(c *fiber.Ctx) string {
	return bearerToken(c.Get(fiber.HeaderAuthorization))
}
