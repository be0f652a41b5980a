package http

import (
	statService "anoa.com/learnify/internal/modules/stat/service"
	"anoa.com/learnify/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Data(c, stats)
}
