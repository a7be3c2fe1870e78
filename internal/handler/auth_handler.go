package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/service/domain"
)

type AuthHandler struct {
	auth domain.AuthService
}

func NewAuthHandler(auth domain.AuthService) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID                uint             `json:"id"`
	Username          string           `json:"username"`
	Email             string           `json:"email"`
	Status            model.UserStatus `json:"status"`
	Bio               string           `json:"bio,omitempty"`
	FavoriteGenres    []string         `json:"favorite_genres,omitempty"`
	FavoriteActors    []string         `json:"favorite_actors,omitempty"`
	FavoriteDirectors []string         `json:"favorite_directors,omitempty"`
	FavoriteMovieID   *int64           `json:"favorite_movie_id,omitempty"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		Status:            user.Status,
		Bio:               user.Bio,
		FavoriteGenres:    user.FavoriteGenres,
		FavoriteActors:    user.FavoriteActors,
		FavoriteDirectors: user.FavoriteDirectors,
		FavoriteMovieID:   user.FavoriteMovieID,
	}
}

func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	user, err := h.auth.Register(ctx.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(201, toUserResponse(user))
}

func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	user, token, err := h.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			ctx.JSON(401, gin.H{
				"error": "Invalid username or password",
			})
			return
		}
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	user := currentUser(ctx)
	if err := h.auth.Logout(ctx.Request.Context(), user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{
		"message": "Logged out",
	})
}
