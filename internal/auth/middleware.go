package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carbon-track/footprint-backend/internal/users"
)

const (
	userIDKey = "auth.userID"
	roleKey   = "auth.role"
)

// RequireAuth validates the bearer token and stores the caller's identity on
// the context.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		claims, err := s.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		id, _ := primitive.ObjectIDFromHex(claims.UserID)
		c.Set(userIDKey, id)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only admin and super admin callers. Must run after
// RequireAuth.
func (s *Service) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentRole(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Admin role required."})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.GetHeader("x-auth-token")
}

// CurrentUserID returns the authenticated caller's ID.
func CurrentUserID(c *gin.Context) primitive.ObjectID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(primitive.ObjectID); ok {
			return id
		}
	}
	return primitive.NilObjectID
}

// CurrentRole returns the authenticated caller's role.
func CurrentRole(c *gin.Context) users.Role {
	if v, ok := c.Get(roleKey); ok {
		if role, ok := v.(users.Role); ok {
			return role
		}
	}
	return users.RoleUser
}
