package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/service"
)

// writeServiceError translates service sentinel errors into HTTP
// responses. Unknown errors become a generic 500 so implementation
// details never leak to the caller.
func writeServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(404, gin.H{
			"error": "Resource not found",
		})
	case errors.Is(err, service.ErrInvalid):
		ctx.JSON(400, gin.H{
			"error": "Invalid request",
		})
	case errors.Is(err, service.ErrConflict):
		ctx.JSON(409, gin.H{
			"error": "Request conflicts with current state",
		})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(403, gin.H{
			"error": "Not allowed",
		})
	case errors.Is(err, service.ErrUnavailable):
		ctx.JSON(503, gin.H{
			"error": "Upstream service unavailable, please try again later",
		})
	default:
		ctx.JSON(500, gin.H{
			"error":   "Internal server error",
			"message": "Something went wrong, please try again later",
		})
	}
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid path parameter",
			"detail": name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(val), true
}

func int64Param(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid path parameter",
			"detail": name + " must be an integer",
		})
		return 0, false
	}
	return val, true
}
