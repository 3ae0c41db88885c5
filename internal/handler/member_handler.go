package handler

import (
	"net/http"
	"time"

	"sprintdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberHandler struct {
	membership *service.MembershipService
}

func NewMemberHandler(membership *service.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// MemberResponse includes removed members; Deleted distinguishes them. The
// full history is what succession order is computed from.
type MemberResponse struct {
	UserID   string `json:"user_id"`
	JoinedAt string `json:"joined_at"`
	Deleted  bool   `json:"deleted"`
}

// List returns the project's membership history to any member.
func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.membership.ListMembers(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = MemberResponse{
			UserID:   m.UserID.String(),
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
			Deleted:  m.Deleted,
		}
	}
	c.JSON(http.StatusOK, response)
}

// Add lets the owner add a user to the project.
func (h *MemberHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	newUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	membership, err := h.membership.AddMember(c.Request.Context(), projectID, newUserID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MemberResponse{
		UserID:   membership.UserID.String(),
		JoinedAt: membership.JoinedAt.Format(time.RFC3339),
		Deleted:  membership.Deleted,
	})
}

// Remove soft-deletes a member's row. The owner cannot be removed this way.
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.membership.RemoveMember(c.Request.Context(), projectID, memberID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
