package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/identity"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

// maxUserInfoIDs bounds one profile lookup request.
const maxUserInfoIDs = 500

type UserHandler struct {
	provider identity.Provider
}

func NewUserHandler(provider identity.Provider) *UserHandler {
	return &UserHandler{provider: provider}
}

type UserInfoRequest struct {
	UserIDs []string `json:"userIds"`
}

// Info resolves user ids to display profiles
// POST /api/users/info
func (h *UserHandler) Info(c *gin.Context) {
	var req UserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.UserIDs) == 0 {
		response.BadRequest(c, "Valid user IDs are required")
		return
	}
	if len(req.UserIDs) > maxUserInfoIDs {
		response.BadRequest(c, "Too many user IDs")
		return
	}

	profiles, err := h.provider.GetProfiles(c.Request.Context(), req.UserIDs)
	if err != nil {
		response.ServerError(c, "Failed to fetch user information", err)
		return
	}

	response.Success(c, profiles)
}
