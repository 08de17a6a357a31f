package middleware

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return []byte(secret)
}

// Protected validates the bearer token and stores userID and role in the
// request locals for downstream handlers.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtSecret(),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken := c.Locals("user")
			token, ok := userToken.(*jwt.Token)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token claims",
				})
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid user ID in token",
				})
			}

			role, err := extractRole(claims)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid role in token",
				})
			}

			c.Locals("userID", userID)
			c.Locals("role", role)
			return c.Next()
		},
	})
}

// RequireRole guards a route group to a single marketplace role. Must run
// after Protected().
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("role").(models.UserRole)
		if !ok || current != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":    "FORBIDDEN",
				"message": fmt.Sprintf("This action requires the %s role", role),
			})
		}
		return c.Next()
	}
}

// ParseToken verifies a raw JWT string and returns the embedded identity.
// The websocket handler uses this because the upgrade request carries the
// token as a query parameter rather than a bearer header.
func ParseToken(raw string) (uint, models.UserRole, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	userID, err := extractUserID(claims)
	if err != nil {
		return 0, "", err
	}
	role, err := extractRole(claims)
	if err != nil {
		return 0, "", err
	}
	return userID, role, nil
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// extractRole reads and validates the role claim.
func extractRole(claims jwt.MapClaims) (models.UserRole, error) {
	roleVal, ok := claims["role"].(string)
	if !ok {
		return "", fmt.Errorf("no role found in claims")
	}
	role := models.UserRole(roleVal)
	if !models.ValidRole(role) {
		return "", fmt.Errorf("unknown role: %s", roleVal)
	}
	return role, nil
}

// jwtError handles JWT errors
func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    "UNAUTHORIZED",
		"message": "Invalid or expired token",
	})
}
