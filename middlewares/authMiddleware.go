package middlewares

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// identityFromRequest resolves the caller's identity from the auth_token
// cookie or a Bearer Authorization header and returns the token claims.
func identityFromRequest(c *gin.Context) (userID, role string, err error) {
	tokenString := ""
	if cookie, cookieErr := c.Cookie("auth_token"); cookieErr == nil && cookie != "" {
		tokenString = cookie
	} else if authHeader := c.Request.Header.Get("Authorization"); authHeader != "" {
		tokenString = authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}
	}
	if tokenString == "" {
		return "", "", fmt.Errorf("no authorization token provided")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", "", fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid authorization token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	userID, _ = claims["user_id"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("invalid token claims")
	}
	return userID, role, nil
}

// AuthMiddleware requires an authenticated caller and stores its identity
// in the request context as "user_id" and "role".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := identityFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's identity when a valid token
// is present but lets anonymous requests through. Used on issue creation,
// where the owner is optional.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, err := identityFromRequest(c); err == nil {
			c.Set("user_id", userID)
			c.Set("role", role)
		}
		c.Next()
	}
}
