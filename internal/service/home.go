package service

import (
	"context"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"
)

// recentItemBlockLimit 首页展示的板块快照条数
const recentItemBlockLimit = 10

// HomeService 首页聚合视图：最近的板块快照 + 最新的大盘统计
type HomeService struct {
	itemBlocks repository.ItemBlockRepository
	statistics repository.StatisticsRepository
}

// NewHomeService 创建 HomeService 实例
func NewHomeService(itemBlocks repository.ItemBlockRepository, statistics repository.StatisticsRepository) *HomeService {
	return &HomeService{itemBlocks: itemBlocks, statistics: statistics}
}

// FindRecentItemBlocks 最近的板块快照（最多10条，按抓取时间降序）
func (s *HomeService) FindRecentItemBlocks(ctx context.Context) ([]*model.ItemBlockSnapshot, error) {
	return s.itemBlocks.LatestN(ctx, recentItemBlockLimit)
}

// FindLatestStatistics 最新的大盘统计；序列为空返回 nil
func (s *HomeService) FindLatestStatistics(ctx context.Context) (*model.StatisticsSnapshot, error) {
	return s.statistics.Latest(ctx)
}
