package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/service"
)

// AdminHandler 负责管理后台的统计接口，路由上需挂载 AdminAuthMiddleware。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats 返回用户、聊天、埋点总数以及最近动态。
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, "AdminStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Events 返回最新的埋点原始记录。
func (h *AdminHandler) Events(c *gin.Context) {
	events, err := h.adminService.Events(c.Request.Context())
	if err != nil {
		respondError(c, "AdminEvents", err)
		return
	}
	c.JSON(http.StatusOK, events)
}
