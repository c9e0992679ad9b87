package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsKey = "session"

var ErrNoSession = errors.New("no authenticated session")

// Context carries the authenticated caller's identity for one request. It is
// derived once from the verified JWT and passed explicitly; handlers never
// re-derive identity ad hoc.
type Context struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (s *Context) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

// Middleware hydrates the session context from JWT claims. It must run after
// the JWT guard, which stores the verified token under the "user" local.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess, err := fromToken(c); err == nil {
			c.Locals(localsKey, sess)
		}
		return c.Next()
	}
}

// FromCtx returns the request's session context.
func FromCtx(c *fiber.Ctx) (*Context, error) {
	if sess, ok := c.Locals(localsKey).(*Context); ok {
		return sess, nil
	}
	// Routes guarded by JWT but not by Middleware still resolve.
	return fromToken(c)
}

func fromToken(c *fiber.Ctx) (*Context, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Context{UserID: userID, Email: email, Role: role}, nil
}
