package service

import (
	"context"
	"sort"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"

	"github.com/sirupsen/logrus"
)

// maxProStatisticsDays 专业统计窗口上限，防止过大查询
const maxProStatisticsDays = 90

// IndexPoint 市场指数趋势点
type IndexPoint struct {
	Date      string  `json:"date"`
	Index     float64 `json:"index"`
	DiffRatio float64 `json:"diffRatio"`
}

// TurnoverPoint 今昨成交额对比点
type TurnoverPoint struct {
	Date      string  `json:"date"`
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
}

// AddNumPoint 今昨新增数量对比点（计数保持上游原样字符串）
type AddNumPoint struct {
	Date      string `json:"date"`
	Today     string `json:"today"`
	Yesterday string `json:"yesterday"`
}

// DailyTurnoverPoint 按自然日聚合的成交额（同日多条快照取平均，不求和）
type DailyTurnoverPoint struct {
	Date      string  `json:"date"`
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
}

// ProOverview 专业统计概览：窗口内时间最晚一条快照的指标，外加窗口内今日成交额总和
type ProOverview struct {
	LatestIndex   float64 `json:"latestIndex"`
	SurviveNum    string  `json:"surviveNum"`
	HoldersNum    string  `json:"holdersNum"`
	RiseFallType  string  `json:"riseFallType"`
	RiseFallDays  int     `json:"riseFallDays"`
	TotalTurnover float64 `json:"totalTurnover"`
}

// ProStatistics 专业统计数据包（一次性给前端的图表数据）
type ProStatistics struct {
	MarketIndexTrend  []IndexPoint         `json:"marketIndexTrend"`
	TurnoverData      []TurnoverPoint      `json:"turnoverData"`
	DailyTurnoverData []DailyTurnoverPoint `json:"dailyTurnoverData"`
	AddNumData        []AddNumPoint        `json:"addNumData"`
	Overview          *ProOverview         `json:"overview,omitempty"`
}

// PeriodIndexAnalysis 时间段内指数分析
type PeriodIndexAnalysis struct {
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
	Avg         float64 `json:"avg"`
	Change      float64 `json:"change"`      // max - min
	ChangeRatio float64 `json:"changeRatio"` // change / min * 100；min<=0 时为 0
}

// PeriodTurnoverAnalysis 时间段内成交额分析（只统计带今日子记录的快照）
type PeriodTurnoverAnalysis struct {
	Total float64 `json:"total"`
	Avg   float64 `json:"avg"`
}

// PeriodStatistics 时间段统计分析
type PeriodStatistics struct {
	IndexAnalysis    PeriodIndexAnalysis    `json:"indexAnalysis"`
	TurnoverAnalysis PeriodTurnoverAnalysis `json:"turnoverAnalysis"`
}

// StatisticsService 大盘统计的读侧分析与查询封装
type StatisticsService struct {
	repo   repository.StatisticsRepository
	logger *logrus.Logger
}

// NewStatisticsService 创建 StatisticsService 实例
func NewStatisticsService(repo repository.StatisticsRepository, logger *logrus.Logger) *StatisticsService {
	return &StatisticsService{repo: repo, logger: logger}
}

// GetLatest 最新的统计快照；序列为空返回 nil
func (s *StatisticsService) GetLatest(ctx context.Context) (*model.StatisticsSnapshot, error) {
	return s.repo.Latest(ctx)
}

// FindByTimeRange 时间范围查询
func (s *StatisticsService) FindByTimeRange(ctx context.Context, start, end time.Time) ([]*model.StatisticsSnapshot, error) {
	return s.repo.RangeByTime(ctx, start, end)
}

// FindAll 分页查询（按抓取时间降序）
func (s *StatisticsService) FindAll(ctx context.Context, page, size int) ([]*model.StatisticsSnapshot, int64, error) {
	return s.repo.Page(ctx, page, size)
}

// Count 总记录数
func (s *StatisticsService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// DeleteAll 清空序列，返回删除条数
func (s *StatisticsService) DeleteAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}

// GetProStatistics 专业统计数据包：取最早 days 条快照（升序）构建三组平行序列、
// 按日聚合的成交额均值，以及概览。days 上限 90。
func (s *StatisticsService) GetProStatistics(ctx context.Context, days int) (*ProStatistics, error) {
	if days > maxProStatisticsDays {
		days = maxProStatisticsDays
	}
	if days <= 0 {
		days = 1
	}

	snaps, err := s.repo.OldestN(ctx, days)
	if err != nil {
		return nil, err
	}

	result := &ProStatistics{
		MarketIndexTrend:  make([]IndexPoint, 0, len(snaps)),
		TurnoverData:      make([]TurnoverPoint, 0, len(snaps)),
		DailyTurnoverData: []DailyTurnoverPoint{},
		AddNumData:        make([]AddNumPoint, 0, len(snaps)),
	}

	type dailyAcc struct {
		today     float64
		yesterday float64
		count     int
	}
	daily := make(map[string]*dailyAcc)

	for _, snap := range snaps {
		date := snap.CaptureTime.Format("2006-01-02 15:04:05")
		dayKey := snap.CaptureTime.Format("2006-01-02")

		result.MarketIndexTrend = append(result.MarketIndexTrend, IndexPoint{
			Date:      date,
			Index:     snap.BroadMarketIndex,
			DiffRatio: snap.DiffYesterdayRatio,
		})

		todayTurnover, yesterdayTurnover := 0.0, 0.0
		todayAddNum, yesterdayAddNum := "0", "0"
		if today := snap.ParseToday(); today != nil {
			todayTurnover = today.Turnover
			todayAddNum = today.AddNum
		}
		if yesterday := snap.ParseYesterday(); yesterday != nil {
			yesterdayTurnover = yesterday.Turnover
			yesterdayAddNum = yesterday.AddNum
		}

		result.TurnoverData = append(result.TurnoverData, TurnoverPoint{
			Date: date, Today: todayTurnover, Yesterday: yesterdayTurnover,
		})
		result.AddNumData = append(result.AddNumData, AddNumPoint{
			Date: date, Today: todayAddNum, Yesterday: yesterdayAddNum,
		})

		acc, ok := daily[dayKey]
		if !ok {
			acc = &dailyAcc{}
			daily[dayKey] = acc
		}
		acc.today += todayTurnover
		acc.yesterday += yesterdayTurnover
		acc.count++
	}

	for dayKey, acc := range daily {
		point := DailyTurnoverPoint{Date: dayKey}
		if acc.count > 0 {
			point.Today = acc.today / float64(acc.count)
			point.Yesterday = acc.yesterday / float64(acc.count)
		}
		result.DailyTurnoverData = append(result.DailyTurnoverData, point)
	}
	sort.Slice(result.DailyTurnoverData, func(i, j int) bool {
		return result.DailyTurnoverData[i].Date < result.DailyTurnoverData[j].Date
	})

	if len(snaps) > 0 {
		latest := snaps[len(snaps)-1]
		overview := &ProOverview{
			LatestIndex:  latest.BroadMarketIndex,
			SurviveNum:   latest.SurviveNum,
			HoldersNum:   latest.HoldersNum,
			RiseFallType: latest.RiseFallType,
			RiseFallDays: latest.RiseFallDays,
		}
		// 概览里的总成交额是窗口内求和（与按日均值刻意不同口径）
		for _, snap := range snaps {
			if today := snap.ParseToday(); today != nil {
				overview.TotalTurnover += today.Turnover
			}
		}
		result.Overview = overview
	}

	return result, nil
}

// GetStatisticsByPeriod 时间段统计分析。
// start/end 缺省为最近7天；interval 仅作为前向兼容参数接收，目前不改变聚合粒度。
func (s *StatisticsService) GetStatisticsByPeriod(ctx context.Context, startTime, endTime *time.Time, interval string) (*PeriodStatistics, error) {
	_ = interval // 预留参数，见接口文档

	end := time.Now()
	if endTime != nil {
		end = *endTime
	}
	start := end.AddDate(0, 0, -7)
	if startTime != nil {
		start = *startTime
	}

	snaps, err := s.repo.RangeByTime(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := &PeriodStatistics{}

	if len(snaps) > 0 {
		max, min, sum := snaps[0].BroadMarketIndex, snaps[0].BroadMarketIndex, 0.0
		for _, snap := range snaps {
			if snap.BroadMarketIndex > max {
				max = snap.BroadMarketIndex
			}
			if snap.BroadMarketIndex < min {
				min = snap.BroadMarketIndex
			}
			sum += snap.BroadMarketIndex
		}
		result.IndexAnalysis = PeriodIndexAnalysis{
			Max:    max,
			Min:    min,
			Avg:    sum / float64(len(snaps)),
			Change: max - min,
		}
		if min > 0 {
			result.IndexAnalysis.ChangeRatio = (max - min) / min * 100
		}
	}

	turnoverTotal, turnoverCount := 0.0, 0
	for _, snap := range snaps {
		if today := snap.ParseToday(); today != nil {
			turnoverTotal += today.Turnover
			turnoverCount++
		}
	}
	result.TurnoverAnalysis.Total = turnoverTotal
	if turnoverCount > 0 {
		result.TurnoverAnalysis.Avg = turnoverTotal / float64(turnoverCount)
	}

	return result, nil
}
