package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/gema-arena-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalUsername = "username"
)

var errInvalidSubject = errors.New("invalid subject")

// JWTProtected validates HMAC-signed bearer tokens and exposes the caller identity
// through fiber locals.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		scheme, tokenString, found := strings.Cut(authorization, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(strings.TrimSpace(tokenString), claims, keyFunc)
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		userID, err := subjectFromClaims(claims)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserRole, roleFromClaims(claims))
		if username, ok := claims["username"].(string); ok {
			c.Locals(LocalUsername, username)
		}

		return c.Next()
	}
}

func subjectFromClaims(claims jwt.MapClaims) (uint, error) {
	for _, key := range []string{"sub", "user_id", "id"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			if v > 0 {
				return uint(v), nil
			}
		case string:
			if parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil && parsed > 0 {
				return uint(parsed), nil
			}
		}
	}
	return 0, errInvalidSubject
}

func roleFromClaims(claims jwt.MapClaims) string {
	switch v := claims["role"].(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, item := range roles {
			if role, ok := item.(string); ok && strings.TrimSpace(role) != "" {
				return strings.ToLower(strings.TrimSpace(role))
			}
		}
	}
	return ""
}

// UserID returns the authenticated user id, or zero for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		return id
	}
	return 0
}

// UserRole returns the lowercased role of the authenticated user.
func UserRole(c *fiber.Ctx) string {
	if role, ok := c.Locals(LocalUserRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(role))
	}
	return ""
}
