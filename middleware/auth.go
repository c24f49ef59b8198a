package middleware

import (
	"time"

	apperr "tutor-marketplace/errors"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TOKEN_KEY    string = "identity"
	IDENTITY_KEY string = "caller"
)

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	ID        primitive.ObjectID
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// Guard bundles the middleware chain every protected route runs.
type Guard struct {
	authorize fiber.Handler
	identify  fiber.Handler
}

func NewGuard(secret string, revoker Revoker) *Guard {
	return &Guard{
		authorize: Authorize(secret),
		identify:  Identify(revoker),
	}
}

// Protect prefixes handlers with token verification and identity extraction.
func (g *Guard) Protect(handlers ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{g.authorize, g.identify}, handlers...)
}

func Authorize(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		ContextKey:   TOKEN_KEY,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return apperr.RaiseUnauthorizedError(c, "Missing or malformed JWT")
	}
	return apperr.RaiseUnauthorizedError(c, "Invalid or expired JWT")
}

// Identify turns the verified token claims into an Identity and rejects
// revoked tokens.
func Identify(revoker Revoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(TOKEN_KEY).(*jwt.Token)
		if !ok {
			return apperr.RaiseUnauthorizedError(c, "Missing or malformed JWT")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperr.RaiseUnauthorizedError(c, "Invalid or expired JWT")
		}

		rawID, _ := claims["id"].(string)
		id, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			return apperr.RaiseUnauthorizedError(c, "Invalid or expired JWT")
		}
		role, _ := claims["role"].(string)
		jti, _ := claims["jti"].(string)

		identity := Identity{ID: id, Role: model.Role(role), TokenID: jti}
		if exp, ok := claims["exp"].(float64); ok {
			identity.ExpiresAt = time.Unix(int64(exp), 0)
		}

		if jti != "" && revoker != nil {
			revoked, err := revoker.IsRevoked(c.UserContext(), jti)
			if err != nil {
				return apperr.Raise(c, apperr.Persistence("failed to check token", err))
			}
			if revoked {
				return apperr.RaiseUnauthorizedError(c, "Token has been revoked")
			}
		}

		c.Locals(IDENTITY_KEY, identity)
		return c.Next()
	}
}

// Caller returns the identity set by Identify.
func Caller(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(IDENTITY_KEY).(Identity)
	return identity, ok
}

// RequireRole must run after Identify.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Caller(c)
		if !ok {
			return apperr.RaiseUnauthorizedError(c, "Not authenticated")
		}
		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}
		return apperr.Raise(c, apperr.Forbidden("Access denied"))
	}
}
