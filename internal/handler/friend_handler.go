package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/service/domain"
)

type FriendHandler struct {
	friends domain.FriendService
}

func NewFriendHandler(friends domain.FriendService) *FriendHandler {
	return &FriendHandler{
		friends: friends,
	}
}

type FriendRequestResponse struct {
	ID          uint       `json:"id"`
	SenderID    uint       `json:"sender_id"`
	ReceiverID  uint       `json:"receiver_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Accepted    bool       `json:"accepted"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func toFriendRequestResponses(reqs []model.FriendRequest) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, FriendRequestResponse{
			ID:          r.ID,
			SenderID:    r.SenderID,
			ReceiverID:  r.ReceiverID,
			CreatedAt:   r.CreatedAt,
			Accepted:    r.Accepted,
			RespondedAt: r.RespondedAt,
		})
	}
	return out
}

func (h *FriendHandler) HandleSendRequest(ctx *gin.Context) {
	receiverID, ok := uintParam(ctx, "receiverId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	req, err := h.friends.SendRequest(ctx.Request.Context(), user.ID, receiverID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(201, gin.H{
		"message":    "Friend request sent",
		"request_id": req.ID,
	})
}

func (h *FriendHandler) HandleAcceptRequest(ctx *gin.Context) {
	requestID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.friends.AcceptRequest(ctx.Request.Context(), requestID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Friend request accepted",
	})
}

func (h *FriendHandler) HandleRejectRequest(ctx *gin.Context) {
	requestID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.friends.RejectRequest(ctx.Request.Context(), requestID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Friend request rejected",
	})
}

func (h *FriendHandler) HandlePendingSent(ctx *gin.Context) {
	user := currentUser(ctx)
	reqs, err := h.friends.PendingSent(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toFriendRequestResponses(reqs))
}

func (h *FriendHandler) HandlePendingReceived(ctx *gin.Context) {
	user := currentUser(ctx)
	reqs, err := h.friends.PendingReceived(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toFriendRequestResponses(reqs))
}

func (h *FriendHandler) HandleListFriends(ctx *gin.Context) {
	user := currentUser(ctx)
	friends, err := h.friends.ListFriends(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	out := make([]UserResponse, 0, len(friends))
	for i := range friends {
		out = append(out, toUserResponse(&friends[i]))
	}
	ctx.JSON(200, out)
}

func (h *FriendHandler) HandleRemoveFriend(ctx *gin.Context) {
	friendID, ok := uintParam(ctx, "friendId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.friends.RemoveFriend(ctx.Request.Context(), user.ID, friendID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Friend removed",
	})
}
