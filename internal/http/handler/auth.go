package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"weshare/internal/http/middleware"
	"weshare/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a local account.
func Signup(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SignupInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.Signup(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": u.ID, "email": u.Email, "user_name": u.Name})
	}
}

func CheckDuplicateEmail(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.CheckDuplicateEmail(c.UserContext(), c.Query("email")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"duplicate": false})
	}
}

func CheckDuplicateName(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.CheckDuplicateName(c.UserContext(), c.Query("name")); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"duplicate": false})
	}
}

// Login returns the access token in the body and the refresh token as an HttpOnly cookie.
func Login(svc service.AuthService, cookie RefreshCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password, time.Now())
		if err != nil {
			return serviceError(c, err)
		}
		cookie.set(c, res.RefreshToken)
		return c.JSON(res)
	}
}

// ReissueToken rotates the token pair using the refresh token cookie.
func ReissueToken(svc service.AuthService, cookie RefreshCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ReissueToken(c.UserContext(), cookie.read(c), time.Now())
		if err != nil {
			return serviceError(c, err)
		}
		cookie.set(c, res.RefreshToken)
		return c.JSON(res)
	}
}

func Logout(svc service.AuthService, cookie RefreshCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := middleware.BearerToken(c)
		if raw == "" {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", service.ErrInvalidToken.Error())
		}
		if err := svc.Logout(c.UserContext(), raw); err != nil {
			return serviceError(c, err)
		}
		cookie.clear(c)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// OAuthCallback completes the provider redirect. A first login registers the
// account and answers 201 without tokens; later logins behave like Login.
func OAuthCallback(svc service.ExternalLoginService, cookie RefreshCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Login(c.UserContext(), c.Params("provider"), c.Query("code"), time.Now())
		if err != nil {
			return serviceError(c, err)
		}
		if res.Registered {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registered": true})
		}
		cookie.set(c, res.Tokens.RefreshToken)
		return c.JSON(res.Tokens)
	}
}
