package service

import (
	"context"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"

	"github.com/sirupsen/logrus"
)

// ItemBlockOverview 数据总览。
// 涨跌幅第一名取自热门榜单首位（归一化阶段保证 topList 降序、bottomList 升序）；
// 榜单为空时对应字段省略。
type ItemBlockOverview struct {
	CreateTime       time.Time            `json:"createTime"`
	HotItemsCount    int                  `json:"hotItemsCount"`
	Level1ItemsCount int                  `json:"level1ItemsCount"`
	Level2ItemsCount int                  `json:"level2ItemsCount"`
	Level3ItemsCount int                  `json:"level3ItemsCount"`
	TotalItemsCount  int                  `json:"totalItemsCount"`
	TopRisingItem    *model.ItemBlockItem `json:"topRisingItem,omitempty"`
	TopFallingItem   *model.ItemBlockItem `json:"topFallingItem,omitempty"`
}

// HotRiseFallAnalysis 热门分类涨跌幅统计。
// 空榜单整段省略而非填零，让“无数据”与“涨跌为零”可区分。
type HotRiseFallAnalysis struct {
	TopListAvgRate    *float64 `json:"topListAvgRate,omitempty"`
	TopListMaxRate    *float64 `json:"topListMaxRate,omitempty"`
	TopItemsCount     *int     `json:"topItemsCount,omitempty"`
	BottomListAvgRate *float64 `json:"bottomListAvgRate,omitempty"`
	BottomListMinRate *float64 `json:"bottomListMinRate,omitempty"`
	BottomItemsCount  *int     `json:"bottomItemsCount,omitempty"`
}

// TypeRiseFallAnalysis 物品类型涨跌幅统计（基于 defaultList）
type TypeRiseFallAnalysis struct {
	NameToRateMap     map[string]float64 `json:"nameToRateMap"`
	AvgRiseFallRate   float64            `json:"avgRiseFallRate"`
	RisingItemsCount  int                `json:"risingItemsCount"`
	FallingItemsCount int                `json:"fallingItemsCount"`
	TotalItemsCount   int                `json:"totalItemsCount"`
}

// IndexAnalysis 分类指数统计（基于 defaultList）
type IndexAnalysis struct {
	NameToIndexMap  map[string]float64 `json:"nameToIndexMap"`
	AvgIndex        float64            `json:"avgIndex"`
	MaxIndex        float64            `json:"maxIndex"`
	MinIndex        float64            `json:"minIndex"`
	TotalItemsCount int                `json:"totalItemsCount"`
}

// PriceTrend 单个物品最近7天的价格趋势。
// 三个数组与时间点一一对应；物品在某个快照中缺席时用 null 占位而非补零。
type PriceTrend struct {
	ItemName      string     `json:"itemName"`
	TimeLabels    []string   `json:"timeLabels"`
	IndexValues   []*float64 `json:"indexValues"`
	RiseFallRates []*float64 `json:"riseFallRates"`
}

// ItemBlockService 板块快照的读侧分析。
// 所有方法都是存储内容的纯函数：无内部状态，可重复调用、可并发调用。
type ItemBlockService struct {
	repo   repository.ItemBlockRepository
	logger *logrus.Logger
}

// NewItemBlockService 创建 ItemBlockService 实例
func NewItemBlockService(repo repository.ItemBlockRepository, logger *logrus.Logger) *ItemBlockService {
	return &ItemBlockService{repo: repo, logger: logger}
}

// GetLatest 最新的板块快照
func (s *ItemBlockService) GetLatest(ctx context.Context) (*model.ItemBlockSnapshot, error) {
	return s.repo.Latest(ctx)
}

// GetByTimeRange 时间范围内的板块快照
func (s *ItemBlockService) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*model.ItemBlockSnapshot, error) {
	return s.repo.RangeByTime(ctx, start, end)
}

// Overview 数据总览；没有可用数据时返回 nil
func (s *ItemBlockService) Overview(ctx context.Context) (*ItemBlockOverview, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	data := latest.ParseData()
	if data == nil {
		return nil, nil
	}

	overview := &ItemBlockOverview{
		CreateTime:       latest.CaptureTime,
		HotItemsCount:    data.Hot.CountItems(),
		Level1ItemsCount: data.ItemTypeLevel1.CountItems(),
		Level2ItemsCount: data.ItemTypeLevel2.CountItems(),
		Level3ItemsCount: data.ItemTypeLevel3.CountItems(),
	}
	overview.TotalItemsCount = overview.HotItemsCount + overview.Level1ItemsCount +
		overview.Level2ItemsCount + overview.Level3ItemsCount

	if data.Hot != nil && len(data.Hot.TopList) > 0 {
		item := data.Hot.TopList[0]
		overview.TopRisingItem = &item
	}
	if data.Hot != nil && len(data.Hot.BottomList) > 0 {
		item := data.Hot.BottomList[0]
		overview.TopFallingItem = &item
	}
	return overview, nil
}

// AnalyzeHotRiseFall 热门物品涨跌幅统计；热门分类缺失时返回 nil
func (s *ItemBlockService) AnalyzeHotRiseFall(ctx context.Context) (*HotRiseFallAnalysis, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	data := latest.ParseData()
	if data == nil || data.Hot == nil {
		return nil, nil
	}

	result := &HotRiseFallAnalysis{}

	if len(data.Hot.TopList) > 0 {
		sum, max := 0.0, data.Hot.TopList[0].RiseFallRate
		for _, item := range data.Hot.TopList {
			sum += item.RiseFallRate
			if item.RiseFallRate > max {
				max = item.RiseFallRate
			}
		}
		avg := sum / float64(len(data.Hot.TopList))
		count := len(data.Hot.TopList)
		result.TopListAvgRate = &avg
		result.TopListMaxRate = &max
		result.TopItemsCount = &count
	}

	if len(data.Hot.BottomList) > 0 {
		sum, min := 0.0, data.Hot.BottomList[0].RiseFallRate
		for _, item := range data.Hot.BottomList {
			sum += item.RiseFallRate
			if item.RiseFallRate < min {
				min = item.RiseFallRate
			}
		}
		avg := sum / float64(len(data.Hot.BottomList))
		count := len(data.Hot.BottomList)
		result.BottomListAvgRate = &avg
		result.BottomListMinRate = &min
		result.BottomItemsCount = &count
	}

	return result, nil
}

// AnalyzeTypeRiseFall 指定级别（1-3）物品类型的涨跌幅统计；级别越界或无数据返回 nil。
// 涨跌边界：涨跌率等于 0 计入上涨。
func (s *ItemBlockService) AnalyzeTypeRiseFall(ctx context.Context, level int) (*TypeRiseFallAnalysis, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	category := latest.ParseData().CategoryByLevel(level)
	if category == nil || len(category.DefaultList) == 0 {
		return nil, nil
	}

	items := category.DefaultList
	nameToRate := make(map[string]float64, len(items))
	sum := 0.0
	rising, falling := 0, 0
	for _, item := range items {
		// 名称重复时保留第一个
		if _, ok := nameToRate[item.Name]; !ok {
			nameToRate[item.Name] = item.RiseFallRate
		}
		sum += item.RiseFallRate
		if item.RiseFallRate >= 0 {
			rising++
		} else {
			falling++
		}
	}

	return &TypeRiseFallAnalysis{
		NameToRateMap:     nameToRate,
		AvgRiseFallRate:   sum / float64(len(items)),
		RisingItemsCount:  rising,
		FallingItemsCount: falling,
		TotalItemsCount:   len(items),
	}, nil
}

// AnalyzeIndex 指定分类的指数统计；未知分类或无数据返回 nil
func (s *ItemBlockService) AnalyzeIndex(ctx context.Context, categoryKey string) (*IndexAnalysis, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	category := latest.ParseData().CategoryByKey(categoryKey)
	if category == nil || len(category.DefaultList) == 0 {
		return nil, nil
	}

	items := category.DefaultList
	nameToIndex := make(map[string]float64, len(items))
	sum := 0.0
	max, min := items[0].Index, items[0].Index
	for _, item := range items {
		if _, ok := nameToIndex[item.Name]; !ok {
			nameToIndex[item.Name] = item.Index
		}
		sum += item.Index
		if item.Index > max {
			max = item.Index
		}
		if item.Index < min {
			min = item.Index
		}
	}

	return &IndexAnalysis{
		NameToIndexMap:  nameToIndex,
		AvgIndex:        sum / float64(len(items)),
		MaxIndex:        max,
		MinIndex:        min,
		TotalItemsCount: len(items),
	}, nil
}

// GetPriceTrend 指定物品最近7天的价格趋势；窗口内没有可用快照时返回 nil。
// 每个有效快照产生一个时间点，物品缺席的点用 null 占位，保持与时间轴一一对应。
func (s *ItemBlockService) GetPriceTrend(ctx context.Context, itemName string) (*PriceTrend, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	snaps, err := s.repo.RangeByTime(ctx, start, end)
	if err != nil {
		return nil, err
	}

	trend := &PriceTrend{
		ItemName:      itemName,
		TimeLabels:    []string{},
		IndexValues:   []*float64{},
		RiseFallRates: []*float64{},
	}
	for _, snap := range snaps {
		data := snap.ParseData()
		if data == nil {
			// 失败快照不参与分析
			continue
		}
		trend.TimeLabels = append(trend.TimeLabels, snap.CaptureTime.Format("2006-01-02 15:04:05"))
		if item := findItemByName(data, itemName); item != nil {
			index, rate := item.Index, item.RiseFallRate
			trend.IndexValues = append(trend.IndexValues, &index)
			trend.RiseFallRates = append(trend.RiseFallRates, &rate)
		} else {
			trend.IndexValues = append(trend.IndexValues, nil)
			trend.RiseFallRates = append(trend.RiseFallRates, nil)
		}
	}

	if len(trend.TimeLabels) == 0 {
		return nil, nil
	}
	return trend, nil
}

// findItemByName 按名称查找物品：分类顺序 hot → level1 → level2 → level3，
// 分类内按 defaultList → topList → bottomList，首个命中即返回
func findItemByName(data *model.ItemBlockData, itemName string) *model.ItemBlockItem {
	for _, category := range []*model.ItemBlockCategory{
		data.Hot, data.ItemTypeLevel1, data.ItemTypeLevel2, data.ItemTypeLevel3,
	} {
		if item := findItemInCategory(category, itemName); item != nil {
			return item
		}
	}
	return nil
}

func findItemInCategory(category *model.ItemBlockCategory, itemName string) *model.ItemBlockItem {
	if category == nil {
		return nil
	}
	for _, list := range [][]model.ItemBlockItem{category.DefaultList, category.TopList, category.BottomList} {
		for i := range list {
			if list[i].Name == itemName {
				return &list[i]
			}
		}
	}
	return nil
}
