package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/service/domain"
)

type GroupHandler struct {
	groups domain.GroupService
}

func NewGroupHandler(groups domain.GroupService) *GroupHandler {
	return &GroupHandler{
		groups: groups,
	}
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type GroupResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	CreatorID uint             `json:"creator_id"`
	Phase     model.GroupPhase `json:"phase"`
	MemberIDs []uint           `json:"member_ids,omitempty"`
}

type InvitationResponse struct {
	ID          uint       `json:"id"`
	GroupID     uint       `json:"group_id"`
	SenderID    uint       `json:"sender_id"`
	ReceiverID  uint       `json:"receiver_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Accepted    bool       `json:"accepted"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func toInvitationResponses(invs []model.GroupInvitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, InvitationResponse{
			ID:          inv.ID,
			GroupID:     inv.GroupID,
			SenderID:    inv.SenderID,
			ReceiverID:  inv.ReceiverID,
			CreatedAt:   inv.CreatedAt,
			Accepted:    inv.Accepted,
			RespondedAt: inv.RespondedAt,
		})
	}
	return out
}

func (h *GroupHandler) HandleCreateGroup(ctx *gin.Context) {
	var req CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{
			"error":  "Invalid request format",
			"detail": err.Error(),
		})
		return
	}
	user := currentUser(ctx)

	group, err := h.groups.CreateGroup(ctx.Request.Context(), req.Name, user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(201, GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		CreatorID: group.CreatorID,
		Phase:     group.Phase,
		MemberIDs: []uint{user.ID},
	})
}

func (h *GroupHandler) HandleGetGroup(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}

	group, memberIDs, err := h.groups.GetGroup(ctx.Request.Context(), groupID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, GroupResponse{
		ID:        group.ID,
		Name:      group.Name,
		CreatorID: group.CreatorID,
		Phase:     group.Phase,
		MemberIDs: memberIDs,
	})
}

func (h *GroupHandler) HandleListGroups(ctx *gin.Context) {
	user := currentUser(ctx)
	groups, err := h.groups.ListGroupsForUser(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupResponse{
			ID:        g.ID,
			Name:      g.Name,
			CreatorID: g.CreatorID,
			Phase:     g.Phase,
		})
	}
	ctx.JSON(200, out)
}

func (h *GroupHandler) HandleDeleteGroup(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.groups.DeleteGroup(ctx.Request.Context(), groupID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Group deleted",
	})
}

func (h *GroupHandler) HandleStartVoting(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.groups.StartVoting(ctx.Request.Context(), groupID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Voting started",
		"phase":   model.PhaseVoting,
	})
}

func (h *GroupHandler) HandleInvite(ctx *gin.Context) {
	groupID, ok := uintParam(ctx, "groupId")
	if !ok {
		return
	}
	receiverID, ok := uintParam(ctx, "receiverId")
	if !ok {
		return
	}
	user := currentUser(ctx)

	inv, err := h.groups.Invite(ctx.Request.Context(), groupID, user.ID, receiverID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(201, gin.H{
		"message":       "Invitation sent",
		"invitation_id": inv.ID,
	})
}

func (h *GroupHandler) HandleAcceptInvitation(ctx *gin.Context) {
	invitationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.groups.AcceptInvitation(ctx.Request.Context(), invitationID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Invitation accepted",
	})
}

func (h *GroupHandler) HandleRejectInvitation(ctx *gin.Context) {
	invitationID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	user := currentUser(ctx)

	if err := h.groups.RejectInvitation(ctx.Request.Context(), invitationID, user.ID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, gin.H{
		"message": "Invitation rejected",
	})
}

func (h *GroupHandler) HandleInvitationsSent(ctx *gin.Context) {
	user := currentUser(ctx)
	invs, err := h.groups.PendingInvitationsSent(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toInvitationResponses(invs))
}

func (h *GroupHandler) HandleInvitationsReceived(ctx *gin.Context) {
	user := currentUser(ctx)
	invs, err := h.groups.PendingInvitationsReceived(ctx.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.JSON(200, toInvitationResponses(invs))
}
