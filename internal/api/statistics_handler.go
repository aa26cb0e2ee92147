package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/crawler"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatisticsHandler 大盘统计查询与分析接口
type StatisticsHandler struct {
	statisticsService *service.StatisticsService
	crawler           *crawler.StatisticsCrawler
	logger            *logrus.Logger
}

// NewStatisticsHandler 创建 StatisticsHandler 实例
func NewStatisticsHandler(statisticsService *service.StatisticsService, cr *crawler.StatisticsCrawler, logger *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, crawler: cr, logger: logger}
}

// GetLatest GET /api/summary/latest
func (h *StatisticsHandler) GetLatest(c *gin.Context) {
	latest, err := h.statisticsService.GetLatest(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询最新统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if latest == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// GetList GET /api/summary/list?page=0&size=10
func (h *StatisticsHandler) GetList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	snaps, total, err := h.statisticsService.FindAll(c.Request.Context(), page, size)
	if err != nil {
		h.logger.Errorf("分页查询统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content":       snaps,
		"totalElements": total,
		"page":          page,
		"size":          size,
	})
}

// GetByTimeRange GET /api/summary/range?startTime=...&endTime=...
func (h *StatisticsHandler) GetByTimeRange(c *gin.Context) {
	start, err1 := time.ParseInLocation(timeLayout, c.Query("startTime"), time.Local)
	end, err2 := time.ParseInLocation(timeLayout, c.Query("endTime"), time.Local)
	if err1 != nil || err2 != nil {
		h.logger.Errorf("解析时间参数失败: start=%v, end=%v", err1, err2)
		c.Status(http.StatusBadRequest)
		return
	}

	snaps, err := h.statisticsService.FindByTimeRange(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Errorf("时间范围查询统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// GetCount GET /api/summary/count
func (h *StatisticsHandler) GetCount(c *gin.Context) {
	count, err := h.statisticsService.Count(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询统计数据总数失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, count)
}

// ManualCrawl POST /api/summary/crawl 手动触发一轮抓取（同步执行）
func (h *StatisticsHandler) ManualCrawl(c *gin.Context) {
	h.logger.Info("手动触发大盘统计数据抓取")
	if err := h.crawler.Crawl(c.Request.Context()); err != nil {
		h.logger.Errorf("手动触发抓取失败: %v", err)
		c.String(http.StatusInternalServerError, "抓取失败: %v", err)
		return
	}
	c.String(http.StatusOK, "数据抓取已触发")
}

// GetProStatistics GET /api/summary/pro-stats/:days 专业统计数据包
func (h *StatisticsHandler) GetProStatistics(c *gin.Context) {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	proStats, err := h.statisticsService.GetProStatistics(c.Request.Context(), days)
	if err != nil {
		h.logger.Errorf("获取专业统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, proStats)
}

// GetStatisticsByPeriod GET /api/summary/pro-stats/period?startTime=&endTime=&interval=hourly
func (h *StatisticsHandler) GetStatisticsByPeriod(c *gin.Context) {
	var start, end *time.Time
	if v := c.Query("startTime"); v != "" {
		t, err := time.ParseInLocation(timeLayout, v, time.Local)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		start = &t
	}
	if v := c.Query("endTime"); v != "" {
		t, err := time.ParseInLocation(timeLayout, v, time.Local)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		end = &t
	}
	interval := c.DefaultQuery("interval", "hourly")

	periodData, err := h.statisticsService.GetStatisticsByPeriod(c.Request.Context(), start, end, interval)
	if err != nil {
		h.logger.Errorf("获取周期统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, periodData)
}

// DeleteAll DELETE /api/summary/all 清空统计序列（谨慎使用）
func (h *StatisticsHandler) DeleteAll(c *gin.Context) {
	count, err := h.statisticsService.DeleteAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("删除统计数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("已删除 %d 条记录", count))
}
