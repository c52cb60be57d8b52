package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"weshare/internal/config"
	"weshare/internal/http/middleware"
	"weshare/internal/model"
)

func unauthorized(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

// currentUser returns the authenticated user or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *model.User {
	return middleware.CurrentUser(c)
}

// viewerID is 0 for anonymous requests.
func viewerID(c *fiber.Ctx) int64 {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

func pathID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx, name string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid "+name)
}

// queryInt parses an optional integer query parameter.
func queryInt(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// queryList accepts both repeated keys and comma separated values.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// RefreshCookie writes the refresh token as an HttpOnly cookie.
type RefreshCookie struct {
	config.CookieConfig
	TTL time.Duration
}

func (rc RefreshCookie) name() string {
	if rc.Name == "" {
		return "Refresh-Token"
	}
	return rc.Name
}

func (rc RefreshCookie) set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     rc.name(),
		Value:    token,
		Path:     rc.Path,
		Domain:   rc.Domain,
		MaxAge:   int(rc.TTL.Seconds()),
		Secure:   rc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (rc RefreshCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     rc.name(),
		Path:     rc.Path,
		Domain:   rc.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   rc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (rc RefreshCookie) read(c *fiber.Ctx) string {
	return c.Cookies(rc.name())
}
