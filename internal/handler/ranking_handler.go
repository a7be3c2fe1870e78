package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/service/domain"
)

type RankingHandler struct {
	rankings domain.RankingService
}

func NewRankingHandler(rankings domain.RankingService) *RankingHandler {
	return &RankingHandler{
		rankings: rankings,
	}
}

type RankedMovieRequest struct {
	MovieID int64 `json:"movie_id" binding:"required"`
	Rank    int   `json:"rank" binding:"required,min=1"`
}

type SubmitRankingsRequest struct {
	GroupID  uint                 `json:"group_id" binding:"required"`
	Rankings []RankedMovieRequest `json:"rankings" binding:"required,min=1"`
}

type RankingResultResponse struct {
	GroupID      uint      `json:"group_id"`
	MovieID      int64     `json:"movie_id"`
	AverageRank  float64   `json:"average_rank"`
	Submitters   int       `json:"submitters"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// HandleSubmitRankings accepts a user's complete preference list over the
// group's pool. The authenticated caller must match the path user id.
func (h *RankingHandler) HandleSubmitRankings(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "userId")
	if !ok {
		return
	}
	user := currentUser(ctx)
	if user.ID != userID {
		ctx.JSON(403, gin.H{
			"error": "Not allowed",
		})
		return
	}

	var req SubmitRankingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}

	items := make([]domain.RankedMovie, 0, len(req.Rankings))
	for _, r := range req.Rankings {
		items = append(items, domain.RankedMovie{
			MovieID: r.MovieID,
			Rank:    r.Rank,
		})
	}

	if err := h.rankings.SubmitRankings(ctx.Request.Context(), userID, req.GroupID, items); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Rankings submitted",
		"count":   len(items),
	})
}

func (h *RankingHandler) HandleCalculateResult(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	result, err := h.rankings.CalculateResult(ctx.Request.Context(), groupID, user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, RankingResultResponse{
		GroupID:      result.GroupID,
		MovieID:      result.MovieID,
		AverageRank:  result.AverageRank,
		Submitters:   result.Submitters,
		CalculatedAt: result.CalculatedAt,
	})
}

func (h *RankingHandler) HandleLatestResult(ctx *gin.Context) {
	raw := ctx.Query("groupId")
	groupID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid query parameter",
			"detail": "groupId must be a positive integer",
		})
		return
	}

	result, err := h.rankings.LatestResult(ctx.Request.Context(), uint(groupID))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, RankingResultResponse{
		GroupID:      result.GroupID,
		MovieID:      result.MovieID,
		AverageRank:  result.AverageRank,
		Submitters:   result.Submitters,
		CalculatedAt: result.CalculatedAt,
	})
}
