package middleware

import (
	"muster/config"
	"muster/internal/logger"
	"muster/internal/services"

	"github.com/gofiber/fiber/v2"
)

const SessionCookie = "muster_session"

type Middleware struct {
	sessions *services.SessionService
	config   config.Config
	log      logger.Logger
}

func New(sessions *services.SessionService, config config.Config) Middleware {
	return Middleware{
		sessions: sessions,
		config:   config,
		log:      logger.New("middleware"),
	}
}

// RequireAdmin gates admin routes on a valid session cookie and stores the
// session under the "admin" local for downstream handlers.
func (m Middleware) RequireAdmin(c *fiber.Ctx) error {
	session, ok := m.Session(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Not authorized"})
	}

	c.Locals("admin", session)
	return c.Next()
}

// Session resolves the request's session cookie, if any.
func (m Middleware) Session(c *fiber.Ctx) (services.AdminSession, bool) {
	id := c.Cookies(SessionCookie)
	if id == "" {
		return services.AdminSession{}, false
	}

	session, found, err := m.sessions.Get(c.Context(), id)
	if err != nil {
		m.log.Function("Session").Er("failed to load session", err)
		return services.AdminSession{}, false
	}

	return session, found
}

// SetSessionCookie issues the session cookie with the configured TTL.
func (m Middleware) SetSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// ClearSession destroys the stored session and expires the cookie.
func (m Middleware) ClearSession(c *fiber.Ctx) {
	if id := c.Cookies(SessionCookie); id != "" {
		if err := m.sessions.Destroy(c.Context(), id); err != nil {
			m.log.Function("ClearSession").Er("failed to destroy session", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
