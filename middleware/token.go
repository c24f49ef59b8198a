package middleware

import (
	"time"

	"tutor-marketplace/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// IssueToken signs an HS256 token carrying the user's id and role.
func IssueToken(secret string, user *model.User, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["id"] = user.Id.Hex()
	claims["role"] = string(user.Role)
	claims["jti"] = uuid.NewString()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}
