package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/service/domain"
)

const userContextKey = "currentUser"

// RequireAuth resolves the Authorization bearer token to a user and
// stores it on the request context. Absent or unknown tokens get 401.
func RequireAuth(auth domain.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(401, gin.H{
				"error": "Missing or malformed Authorization header",
			})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			ctx.AbortWithStatusJSON(401, gin.H{
				"error": "Missing bearer token",
			})
			return
		}

		user, err := auth.ResolveToken(ctx.Request.Context(), token)
		if err != nil {
			ctx.AbortWithStatusJSON(401, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

func currentUser(ctx *gin.Context) *model.User {
	user, _ := ctx.MustGet(userContextKey).(*model.User)
	return user
}

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
