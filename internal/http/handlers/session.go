package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"gadgetshelf/internal/validate"
)

const sessionCookie = "sid"

// SessionID makes sure every visitor carries a sid cookie and exposes it
// in Locals for the handlers and the access log.
func SessionID(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The cookie value aliases a request buffer that fasthttp reuses.
		sid, ok := validate.ID(utils.CopyString(c.Cookies(sessionCookie)))
		if !ok {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				SameSite: "Lax",
				Expires:  time.Now().Add(ttl),
			})
		}
		c.Locals("sid", sid)
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("sid").(string)
	return sid
}

// clipboard stands in for the browser clipboard during one request; the
// copied text goes back to the page, which writes it to navigator.clipboard.
type clipboard struct {
	text string
}

func (b *clipboard) Copy(_ context.Context, text string) error {
	b.text = text
	return nil
}
