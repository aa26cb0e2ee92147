package api

import (
	"net/http"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HomeHandler 首页聚合视图接口
type HomeHandler struct {
	homeService *service.HomeService
	logger      *logrus.Logger
}

// NewHomeHandler 创建 HomeHandler 实例
func NewHomeHandler(homeService *service.HomeService, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{homeService: homeService, logger: logger}
}

// GetHomeData GET /api/home 最近板块快照 + 最新大盘统计
func (h *HomeHandler) GetHomeData(c *gin.Context) {
	itemBlocks, err := h.homeService.FindRecentItemBlocks(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询首页板块数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	statistics, err := h.homeService.FindLatestStatistics(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询首页统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itemBlocks": itemBlocks,
		"statistics": statistics,
	})
}

// GetItemBlocks GET /api/itemblocks 最近板块快照
func (h *HomeHandler) GetItemBlocks(c *gin.Context) {
	itemBlocks, err := h.homeService.FindRecentItemBlocks(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询板块数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, itemBlocks)
}

// GetStatistics GET /api/statistics 最新大盘统计
func (h *HomeHandler) GetStatistics(c *gin.Context) {
	statistics, err := h.homeService.FindLatestStatistics(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, statistics)
}
