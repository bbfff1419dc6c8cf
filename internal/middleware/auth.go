package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shortr-be/internal/jwt"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID    = "user_id"
	ContextEmail     = "email"
	ContextFirstName = "first_name"
	ContextLastName  = "last_name"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token claims in the request context.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or invalid authorization token",
			})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware stores claims from a valid bearer token when one is
// present but lets unauthenticated requests through untouched.
func OptionalAuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtService); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context, or nil for
// anonymous requests.
func UserID(c *gin.Context) *string {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	id := v.(string)
	return &id
}

func bearerClaims(c *gin.Context, jwtService *jwt.JWTService) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}

	claims, err := jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextFirstName, claims.FirstName)
	c.Set(ContextLastName, claims.LastName)
}
