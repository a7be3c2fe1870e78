package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/service/domain"
)

type PoolHandler struct {
	pool domain.PoolService
}

func NewPoolHandler(pool domain.PoolService) *PoolHandler {
	return &PoolHandler{
		pool: pool,
	}
}

func (h *PoolHandler) HandleAddMovie(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	entry, err := h.pool.AddMovie(ctx.Request.Context(), groupID, movieID, user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(201, gin.H{
		"message":  "Movie added to pool",
		"movie_id": entry.MovieID,
		"position": entry.Position,
	})
}

func (h *PoolHandler) HandleRemoveMovie(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.pool.RemoveMovie(ctx.Request.Context(), groupID, movieID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Movie removed from pool",
	})
}

func (h *PoolHandler) HandleListPool(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}

	movies, err := h.pool.ListPool(ctx.Request.Context(), groupID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	ctx.JSON(200, out)
}
