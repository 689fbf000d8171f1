package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

// sessionID reads the session cookie, minting one on first contact so the
// cart survives page reloads.
func sessionID(c *fiber.Ctx) string {
	id := c.Cookies(sessionCookie)
	if id != "" {
		return id
	}

	id = uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return id
}
