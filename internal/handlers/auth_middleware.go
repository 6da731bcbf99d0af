package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-hub/course-service/internal/auth"
	"github.com/campus-hub/course-service/internal/models"
	"github.com/campus-hub/course-service/internal/policy"
)

// JWTAuthMiddleware authenticates requests from the Authorization
// header using locally issued tokens.
type JWTAuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewJWTAuthMiddleware(tokens *auth.TokenManager) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{tokens: tokens}
}

// AuthMiddleware requires a valid bearer token and sets the actor in
// the request context.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.parseBearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing or invalid bearer token",
			})
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the actor when a valid token is present
// and continues anonymously otherwise. Used on public catalog reads
// where a student viewer gets enrollment flags.
func (m *JWTAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.parseBearer(c); ok {
			setActor(c, claims)
		}
		c.Next()
	}
}

// RequireRoleMiddleware checks that the authenticated actor has one of
// the required roles. Must run after AuthMiddleware.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid user role format",
			})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

func (m *JWTAuthMiddleware) parseBearer(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return nil, false
	}

	claims, err := m.tokens.Parse(tokenParts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setActor(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_role", claims.Role)
	c.Set("actor", &policy.Actor{ID: claims.UserID, Role: claims.Role})
}

// ActorFromContext returns the authenticated actor, or nil for an
// anonymous request.
func ActorFromContext(c *gin.Context) *policy.Actor {
	if v, exists := c.Get("actor"); exists {
		if actor, ok := v.(*policy.Actor); ok {
			return actor
		}
	}
	return nil
}
