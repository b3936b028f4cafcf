package admin

import (
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard 后台首页统计
func (h *Handler) GetDashboard(c *gin.Context) {
	overview, err := h.DashboardService.Overview(c.Query("refresh") == "1")
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, overview)
}
