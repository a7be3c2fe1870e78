package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/service/domain"
)

type UserHandler struct {
	users domain.UserService
}

func NewUserHandler(users domain.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

type UpdateProfileRequest struct {
	Bio               *string  `json:"bio"`
	FavoriteGenres    []string `json:"favorite_genres"`
	FavoriteActors    []string `json:"favorite_actors"`
	FavoriteDirectors []string `json:"favorite_directors"`
	FavoriteMovieID   *int64   `json:"favorite_movie_id"`
}

func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user := currentUser(ctx)
	ctx.JSON(200, toUserResponse(user))
}

func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toUserResponse(user))
}

func (h *UserHandler) HandleUpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}
	user := currentUser(ctx)

	updated, err := h.users.UpdateProfile(ctx.Request.Context(), user.ID, domain.ProfileUpdate{
		Bio:               req.Bio,
		FavoriteGenres:    req.FavoriteGenres,
		FavoriteActors:    req.FavoriteActors,
		FavoriteDirectors: req.FavoriteDirectors,
		FavoriteMovieID:   req.FavoriteMovieID,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toUserResponse(updated))
}

func (h *UserHandler) HandleAddToWatchlist(ctx *gin.Context) {
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.users.AddToWatchlist(ctx.Request.Context(), user.ID, movieID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(201, gin.H{
		"message": "Movie added to watchlist",
	})
}

func (h *UserHandler) HandleRemoveFromWatchlist(ctx *gin.Context) {
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.users.RemoveFromWatchlist(ctx.Request.Context(), user.ID, movieID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{
		"message": "Movie removed from watchlist",
	})
}

func (h *UserHandler) HandleWatchlist(ctx *gin.Context) {
	user := currentUser(ctx)
	movies, err := h.users.Watchlist(ctx.Request.Context(), user.ID)
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

func (h *UserHandler) HandleMarkWatched(ctx *gin.Context) {
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.users.MarkWatched(ctx.Request.Context(), user.ID, movieID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(201, gin.H{
		"message": "Movie marked as watched",
	})
}

func (h *UserHandler) HandleWatched(ctx *gin.Context) {
	user := currentUser(ctx)
	movies, err := h.users.Watched(ctx.Request.Context(), user.ID)
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
