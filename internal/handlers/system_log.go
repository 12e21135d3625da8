package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/services"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

type SystemLogHandler struct {
	systemLogService *services.SystemLogService
	retentionDays    int
}

func NewSystemLogHandler(logs *services.SystemLogService, retentionDays int) *SystemLogHandler {
	return &SystemLogHandler{
		systemLogService: logs,
		retentionDays:    retentionDays,
	}
}

type CleanupRequest struct {
	RetentionDays *int `json:"retentionDays" validate:"omitempty,gte=1"`
}

// List returns paginated audit entries
// GET /api/admin/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.systemLogService.List(c.Request.Context(), &req)
	if err != nil {
		response.ServerError(c, "Failed to fetch system logs", err)
		return
	}

	response.Success(c, resp)
}

// GetModules lists the modules present in the log
// GET /api/admin/system-logs/modules
func (h *SystemLogHandler) GetModules(c *gin.Context) {
	modules, err := h.systemLogService.GetModules(c.Request.Context())
	if err != nil {
		response.ServerError(c, "Failed to fetch modules", err)
		return
	}
	response.Success(c, gin.H{"modules": modules})
}

// Cleanup deletes entries older than the retention period
// POST /api/admin/system-logs/cleanup
func (h *SystemLogHandler) Cleanup(c *gin.Context) {
	var req CleanupRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	days := h.retentionDays
	if req.RetentionDays != nil {
		days = *req.RetentionDays
	}

	deleted, err := h.systemLogService.CleanupOldLogs(c.Request.Context(), days)
	if err != nil {
		response.ServerError(c, "Failed to clean up system logs", err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted, "retentionDays": days})
}
