package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboard}
}

// GetStats returns dashboard statistics
// GET /api/admin/dashboard
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var req services.DashboardStatsRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.dashboardService.GetStats(c.Request.Context(), &req)
	if err != nil {
		response.ServerError(c, "Failed to load dashboard", err)
		return
	}

	response.Success(c, resp)
}
