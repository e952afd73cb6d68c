package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"meditation-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ginUserIDKey = "user_id"
	ginRolesKey  = "user_roles"
)

// TokenVerifier проверяет строку токена и возвращает claims.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// Auth проверяет Bearer JWT и кладет userID и роли в контекст gin и запроса.
// Для WebSocket допускается токен в query-параметре access_token:
// браузерный WebSocket API не умеет ставить заголовки.
func Auth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			log.Debug("Authorization token missing or malformed", zap.String("path", c.Request.URL.Path))
			abortWithError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Missing or malformed authorization token")
			return
		}

		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				abortWithError(c, http.StatusUnauthorized, models.ErrCodeTokenExpired, "Token has expired")
			case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
				abortWithError(c, http.StatusUnauthorized, models.ErrCodeTokenInvalid, "Token is invalid or malformed")
			default:
				log.Error("Unexpected token verification error", zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error during token verification")
			}
			return
		}

		c.Set(ginUserIDKey, claims.UserID)
		c.Set(ginRolesKey, claims.Roles)
		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из ролей. Ставится после Auth.
func RequireRole(logger *zap.Logger, roles ...string) gin.HandlerFunc {
	log := logger.Named("RequireRole")
	return func(c *gin.Context) {
		userRoles := GetRoles(c)
		for _, role := range roles {
			if models.HasRole(userRoles, role) {
				c.Next()
				return
			}
		}
		userID, _ := GetUserID(c)
		log.Warn("User does not have required role",
			zap.String("userID", userID.String()),
			zap.Strings("userRoles", userRoles),
			zap.Strings("requiredRoles", roles),
		)
		abortWithError(c, http.StatusForbidden, models.ErrCodeForbidden, "Insufficient permissions")
	}
}

// GetUserID возвращает userID, выставленный Auth.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ginUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// GetRoles возвращает роли, выставленные Auth.
func GetRoles(c *gin.Context) []string {
	value, exists := c.Get(ginRolesKey)
	if !exists {
		return nil
	}
	roles, _ := value.([]string)
	return roles
}

func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := c.Query("access_token"); token != "" && isWebSocketUpgrade(c.Request) {
		return token, true
	}
	return "", false
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Code: code, Message: message})
}
