package middleware

import (
	"net/http"
	"strings"

	"sakuranet-billing/utils"
	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func tokenFromHeader(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func userFromToken(tokenString string) (db.User, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return utils.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return db.User{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return db.User{}, false
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return db.User{}, false
	}

	var user db.User
	db.DB.First(&user, uint(sub))
	if user.ID == 0 {
		return db.User{}, false
	}
	return user, true
}

func RequireAuth(c *gin.Context) {
	tokenString := tokenFromHeader(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	user, ok := userFromToken(tokenString)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.Set("user", user)
	c.Next()
}

func AdminAuth(c *gin.Context) {
	tokenString := tokenFromHeader(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	user, ok := userFromToken(tokenString)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	if user.Role != db.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	c.Set("user", user)
	c.Next()
}
