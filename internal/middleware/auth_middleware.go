package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleHR    = "HR"
	RolePI    = "PI"
	RoleAdmin = "ADMIN"
)

const (
	localUsername = "username"
	localRole     = "role"
	localProjects = "projects"
)

// Auth verifies the bearer token with secret and stores its claims in c.Locals.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		// 1. Token from the Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		// 2. Parse and validate
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return key, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		// 3. Claims into the context for the handlers
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token claims"})
		}
		username, _ := claims["username"].(string)
		if username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token has no username"})
		}
		role, _ := claims["role"].(string)

		c.Locals(localUsername, username)
		c.Locals(localRole, strings.ToUpper(role))
		c.Locals(localProjects, projectClaims(claims))

		return c.Next()
	}
}

// projectClaims reads "projects" as a list, falling back to a single "projectCode".
func projectClaims(claims jwt.MapClaims) []string {
	var codes []string
	if list, ok := claims["projects"].([]interface{}); ok {
		for _, item := range list {
			if code, ok := item.(string); ok && code != "" {
				codes = append(codes, code)
			}
		}
	}
	if len(codes) == 0 {
		if code, ok := claims["projectCode"].(string); ok && code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(localUsername).(string)
	return username
}

func Projects(c *fiber.Ctx) []string {
	projects, _ := c.Locals(localProjects).([]string)
	return projects
}
