package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ErrNoData 信封成功但 data 缺失
var ErrNoData = errors.New("响应中没有找到数据")

// StatisticsCrawler 大盘统计数据源的抓取器。
// 与 ItemBlockCrawler 的关键差异：上游失败时静默丢弃，不落任何记录（产品侧约定）。
type StatisticsCrawler struct {
	fetcher *Fetcher
	repo    repository.StatisticsRepository
	url     string
	logger  *logrus.Logger
}

// NewStatisticsCrawler 创建大盘统计抓取器
func NewStatisticsCrawler(fetcher *Fetcher, repo repository.StatisticsRepository, url string, logger *logrus.Logger) *StatisticsCrawler {
	return &StatisticsCrawler{fetcher: fetcher, repo: repo, url: url, logger: logger}
}

// Crawl 执行一次完整抓取，定时调度与手动触发共用
func (c *StatisticsCrawler) Crawl(ctx context.Context) error {
	c.logger.Info("开始抓取大盘统计数据...")

	raw, err := c.fetcher.Fetch(ctx, c.url)
	if err != nil {
		c.logger.Errorf("抓取大盘统计数据失败: %v", err)
		return err
	}

	snap, err := c.Normalize(raw)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			c.logger.Warn("响应中没有找到数据")
			return nil
		}
		c.logger.Errorf("处理统计数据时发生错误: %v", err)
		return err
	}

	if err := c.repo.Insert(ctx, snap); err != nil {
		c.logger.Errorf("保存统计数据时发生错误: %v", err)
		return err
	}

	c.logger.Infof("成功保存统计数据，ID: %s", snap.SnapshotUUID)
	return nil
}

// Normalize 将原始响应映射为快照。
// 上游失败返回 *UpstreamError 且不产生快照；计数字段统一存为不透明字符串。
func (c *StatisticsCrawler) Normalize(raw []byte) (*model.StatisticsSnapshot, error) {
	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.failed() {
		return nil, &UpstreamError{Success: env.Success, ErrorCode: env.ErrorCode, ErrorMsg: derefString(env.ErrorMsg)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNoData
	}

	tree, err := decodeTree(env.Data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	snap := &model.StatisticsSnapshot{
		SnapshotUUID:       uuid.NewString(),
		BroadMarketIndex:   getFloat(tree, "broadMarketIndex"),
		DiffYesterday:      getFloat(tree, "diffYesterday"),
		DiffYesterdayRatio: getFloat(tree, "diffYesterdayRatio"),
		SurviveNum:         getString(tree, "surviveNum"),
		HoldersNum:         getString(tree, "holdersNum"),
		RiseFallType:       getString(tree, "riseFallType"),
		RiseFallDays:       getInt(tree, "riseFallDays"),
	}

	history := parseHistoryList(getArray(tree, "historyMarketIndexList"))
	if buf, err := json.Marshal(history); err == nil {
		snap.HistoryMarketIndexList = datatypes.JSON(buf)
	}

	if obj := getObject(tree, "todayStatistics"); obj != nil {
		today := model.TodayStatistics{
			AddNum:           getString(obj, "addNum"),
			AddValuation:     getFloat(obj, "addValuation"),
			TradeNum:         getString(obj, "tradeNum"),
			Turnover:         getFloat(obj, "turnover"),
			AddNumRatio:      getFloat(obj, "addNumRatio"),
			AddAmountRatio:   getFloat(obj, "addAmountRatio"),
			TradeVolumeRatio: getFloat(obj, "tradeVolumeRatio"),
			TradeAmountRatio: getFloat(obj, "tradeAmountRatio"),
		}
		if buf, err := json.Marshal(today); err == nil {
			js := datatypes.JSON(buf)
			snap.TodayStatistics = &js
		}
	}
	if obj := getObject(tree, "yesterdayStatistics"); obj != nil {
		yesterday := model.YesterdayStatistics{
			AddNum:       getString(obj, "addNum"),
			AddValuation: getFloat(obj, "addValuation"),
			TradeNum:     getString(obj, "tradeNum"),
			Turnover:     getFloat(obj, "turnover"),
		}
		if buf, err := json.Marshal(yesterday); err == nil {
			js := datatypes.JSON(buf)
			snap.YesterdayStatistics = &js
		}
	}

	snap.CaptureTime = time.Now()
	return snap, nil
}

// parseHistoryList 过滤历史指数列表：
// 非数组的行整行丢弃；行内只保留真正的数字元素（不做字符串强转），逐元素过滤而非整行作废。
func parseHistoryList(arr []any) [][]float64 {
	rows := make([][]float64, 0, len(arr))
	for _, rv := range arr {
		pair, ok := rv.([]any)
		if !ok {
			continue
		}
		row := make([]float64, 0, len(pair))
		for _, e := range pair {
			if n, ok := e.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					row = append(row, f)
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
