package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"redline/internal/db"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	store *session.Store
	db    *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{store: store, db: db}
}

// RequireAuth ensures the user is authenticated, responding 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	c.Locals("user", user)
	return c.Next()
}
