package auth

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"campus-finance/app/config"
	"campus-finance/app/database"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginAPI authenticates a finance office user and issues a JWT, both in
// the response body and as a cookie.
func LoginAPI(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := database.GetUserByEmail(config.GetDB(), req.Email)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Login lookup failed: %v", err)
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive || !CheckPasswordHash(req.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := GenerateJWT(user.ID, user.Email, user.FirstName, user.LastName, user.Role)
	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
		},
	})
}

// LogoutAPI clears the session cookie.
func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// AuthMiddleware validates the JWT from the Authorization header or the
// session cookie and stores the claims for downstream handlers.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("jwt_token")
	if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired session")
	}

	c.Locals("claims", claims)
	return c.Next()
}

// CurrentUserID returns the authenticated user's id, or "" when the
// request is unauthenticated.
func CurrentUserID(c *fiber.Ctx) string {
	if claims, ok := c.Locals("claims").(*JWTClaims); ok {
		return claims.UserID
	}
	return ""
}
