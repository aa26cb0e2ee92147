package api

import (
	"net/http"
	"strconv"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ItemBlockAnalysisHandler 板块分析接口
type ItemBlockAnalysisHandler struct {
	itemBlockService *service.ItemBlockService
	logger           *logrus.Logger
}

// NewItemBlockAnalysisHandler 创建 ItemBlockAnalysisHandler 实例
func NewItemBlockAnalysisHandler(itemBlockService *service.ItemBlockService, logger *logrus.Logger) *ItemBlockAnalysisHandler {
	return &ItemBlockAnalysisHandler{itemBlockService: itemBlockService, logger: logger}
}

// GetOverview GET /api/item-block/analysis/overview 数据总览
func (h *ItemBlockAnalysisHandler) GetOverview(c *gin.Context) {
	overview, err := h.itemBlockService.Overview(c.Request.Context())
	if err != nil {
		h.logger.Errorf("获取数据总览失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if overview == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetHotRiseFall GET /api/item-block/analysis/hot-rise-fall 热门物品涨跌幅分析
func (h *ItemBlockAnalysisHandler) GetHotRiseFall(c *gin.Context) {
	analysis, err := h.itemBlockService.AnalyzeHotRiseFall(c.Request.Context())
	if err != nil {
		h.logger.Errorf("获取热门涨跌幅分析失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetItemTypeRiseFall GET /api/item-block/analysis/item-type-rise-fall/:level 物品类型涨跌幅分析
func (h *ItemBlockAnalysisHandler) GetItemTypeRiseFall(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < 1 || level > 3 {
		c.Status(http.StatusBadRequest)
		return
	}

	analysis, err := h.itemBlockService.AnalyzeTypeRiseFall(c.Request.Context(), level)
	if err != nil {
		h.logger.Errorf("获取物品类型涨跌幅分析失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetIndexAnalysis GET /api/item-block/analysis/index-analysis/:category 指数分析
func (h *ItemBlockAnalysisHandler) GetIndexAnalysis(c *gin.Context) {
	analysis, err := h.itemBlockService.AnalyzeIndex(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.logger.Errorf("获取指数分析失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if analysis == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetItemPriceTrend GET /api/item-block/analysis/trend/:itemName 物品价格趋势（最近7天）
func (h *ItemBlockAnalysisHandler) GetItemPriceTrend(c *gin.Context) {
	trend, err := h.itemBlockService.GetPriceTrend(c.Request.Context(), c.Param("itemName"))
	if err != nil {
		h.logger.Errorf("获取价格趋势失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if trend == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, trend)
}
