package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/crawler"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// timeLayout range 接口的时间参数格式
const timeLayout = "2006-01-02T15:04:05"

// ItemBlockHandler 板块快照查询与运维接口
type ItemBlockHandler struct {
	itemBlockService *service.ItemBlockService
	repo             repository.ItemBlockRepository
	crawler          *crawler.ItemBlockCrawler
	logger           *logrus.Logger
}

// NewItemBlockHandler 创建 ItemBlockHandler 实例
func NewItemBlockHandler(itemBlockService *service.ItemBlockService, repo repository.ItemBlockRepository, cr *crawler.ItemBlockCrawler, logger *logrus.Logger) *ItemBlockHandler {
	return &ItemBlockHandler{itemBlockService: itemBlockService, repo: repo, crawler: cr, logger: logger}
}

// GetLatest GET /api/item-block/latest
func (h *ItemBlockHandler) GetLatest(c *gin.Context) {
	latest, err := h.repo.Latest(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询最新ItemBlock失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if latest == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// GetList GET /api/item-block/list?page=0&size=10
func (h *ItemBlockHandler) GetList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	snaps, total, err := h.repo.Page(c.Request.Context(), page, size)
	if err != nil {
		h.logger.Errorf("分页查询ItemBlock失败: %v", err)
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

// GetByTimeRange GET /api/item-block/range?startTime=...&endTime=...
func (h *ItemBlockHandler) GetByTimeRange(c *gin.Context) {
	start, err1 := time.ParseInLocation(timeLayout, c.Query("startTime"), time.Local)
	end, err2 := time.ParseInLocation(timeLayout, c.Query("endTime"), time.Local)
	if err1 != nil || err2 != nil {
		h.logger.Errorf("解析时间参数失败: start=%v, end=%v", err1, err2)
		c.Status(http.StatusBadRequest)
		return
	}

	snaps, err := h.repo.RangeByTime(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Errorf("时间范围查询ItemBlock失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// GetBySuccess GET /api/item-block/success?success=true
func (h *ItemBlockHandler) GetBySuccess(c *gin.Context) {
	success, err := strconv.ParseBool(c.DefaultQuery("success", "true"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	snaps, err := h.repo.FindBySuccess(c.Request.Context(), success)
	if err != nil {
		h.logger.Errorf("按成功状态查询ItemBlock失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// GetCount GET /api/item-block/count
func (h *ItemBlockHandler) GetCount(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		h.logger.Errorf("查询ItemBlock总数失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, count)
}

// ManualCrawl POST /api/item-block/crawl 手动触发一轮抓取（同步执行）
func (h *ItemBlockHandler) ManualCrawl(c *gin.Context) {
	h.logger.Info("手动触发ItemBlock数据抓取")
	if err := h.crawler.Crawl(c.Request.Context()); err != nil {
		h.logger.Errorf("手动触发ItemBlock抓取失败: %v", err)
		c.String(http.StatusInternalServerError, "抓取失败: %v", err)
		return
	}
	c.String(http.StatusOK, "ItemBlock数据抓取已触发")
}

// GetLatestCategory GET /api/item-block/category/:categoryName
func (h *ItemBlockHandler) GetLatestCategory(c *gin.Context) {
	latest, err := h.repo.Latest(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	data := latest.ParseData()
	if data == nil {
		c.Status(http.StatusNotFound)
		return
	}

	categoryName := c.Param("categoryName")
	category := data.CategoryByKey(categoryName)
	if category == nil {
		c.String(http.StatusBadRequest, "不支持的分类名称: %s", categoryName)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetLatestCategoryList GET /api/item-block/category/:categoryName/:listType
func (h *ItemBlockHandler) GetLatestCategoryList(c *gin.Context) {
	latest, err := h.repo.Latest(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	data := latest.ParseData()
	if data == nil {
		c.Status(http.StatusNotFound)
		return
	}

	categoryName := c.Param("categoryName")
	category := data.CategoryByKey(categoryName)
	if category == nil {
		c.String(http.StatusBadRequest, "不支持的分类名称: %s", categoryName)
		return
	}

	listType := c.Param("listType")
	switch strings.ToLower(listType) {
	case "default", "defaultlist":
		c.JSON(http.StatusOK, category.DefaultList)
	case "top", "toplist":
		c.JSON(http.StatusOK, category.TopList)
	case "bottom", "bottomlist":
		c.JSON(http.StatusOK, category.BottomList)
	default:
		c.String(http.StatusBadRequest, "不支持的列表类型: %s", listType)
	}
}

// DeleteAll DELETE /api/item-block/all 清空板块快照序列（谨慎使用）
func (h *ItemBlockHandler) DeleteAll(c *gin.Context) {
	count, err := h.repo.DeleteAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("删除ItemBlock数据失败: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("已删除 %d 条ItemBlock记录", count))
}
