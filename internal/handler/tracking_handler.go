package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neuvera-go/internal/middleware"
	"neuvera-go/internal/model"
	"neuvera-go/internal/service"
)

// TrackingHandler 接收前端与像素上报的埋点。
type TrackingHandler struct {
	trackingService service.TrackingService
}

func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// Track 保存一条埋点。携带有效 token 时记录 user_id。
func (h *TrackingHandler) Track(c *gin.Context) {
	var req model.TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Track", err)
		return
	}

	var userID *string
	if user, ok := middleware.CurrentUser(c); ok {
		id := user.ID
		userID = &id
	}

	res, err := h.trackingService.Track(c.Request.Context(), req, c.ClientIP(), userID)
	if err != nil {
		respondError(c, "Track", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
