package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"examprep/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var (
	errMissingToken = errors.New("Missing or invalid Authorization header")
	errBadFormat    = errors.New("Invalid Authorization header format")
	errBadToken     = errors.New("Invalid or expired token")
	errBadPayload   = errors.New("Invalid token payload")
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, name, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"role":   role,
		"email":  email,
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// bearerUserID extracts the user id from a "Bearer <jwt>" header.
func bearerUserID(authHeader string) (uint, error) {
	if authHeader == "" {
		return 0, errMissingToken
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, errBadFormat
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, errBadToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errBadPayload
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, errBadPayload
	}
	return uint(userID), nil
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	userID, err := bearerUserID(c.Get("Authorization"))
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}
	c.Locals("userId", userID)
	return c.Next()
}

// OptionalJWTMiddleware sets userId when a valid token is present and lets anonymous
// viewers through otherwise. A malformed token is still rejected.
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}
	userID, err := bearerUserID(authHeader)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, err.Error(), nil)
	}
	c.Locals("userId", userID)
	return c.Next()
}

// ServiceTokenMiddleware guards the internal collaborator routes with a shared bearer token.
func ServiceTokenMiddleware(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Internal API is disabled!", nil)
		}
		got := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid service token!", nil)
		}
		return c.Next()
	}
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
