package crawler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"
	"github.com/DavidHLP/CSGOSkinMetrics/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ItemBlockCrawler 板块数据源的抓取器：请求 → 归一化 → 落库。
// 上游失败时仍会落一条审计快照（与统计数据源刻意不同，见 StatisticsCrawler）。
type ItemBlockCrawler struct {
	fetcher *Fetcher
	repo    repository.ItemBlockRepository
	url     string
	logger  *logrus.Logger
}

// NewItemBlockCrawler 创建板块抓取器
func NewItemBlockCrawler(fetcher *Fetcher, repo repository.ItemBlockRepository, url string, logger *logrus.Logger) *ItemBlockCrawler {
	return &ItemBlockCrawler{fetcher: fetcher, repo: repo, url: url, logger: logger}
}

// Crawl 执行一次完整抓取。定时调度与手动触发共用同一路径，同步返回成败。
func (c *ItemBlockCrawler) Crawl(ctx context.Context) error {
	c.logger.Info("开始抓取ItemBlock数据...")

	raw, err := c.fetcher.Fetch(ctx, c.url)
	if err != nil {
		c.logger.Errorf("抓取ItemBlock数据失败: %v", err)
		return err
	}

	snap, err := c.Normalize(raw)
	if err != nil {
		c.logger.Errorf("解析ItemBlock响应失败: %v", err)
		return err
	}

	if err := c.repo.Insert(ctx, snap); err != nil {
		c.logger.Errorf("保存ItemBlock数据时发生错误: %v", err)
		return err
	}

	totalItems := 0
	if data := snap.ParseData(); data != nil {
		totalItems = data.Hot.CountItems() + data.ItemTypeLevel1.CountItems() +
			data.ItemTypeLevel2.CountItems() + data.ItemTypeLevel3.CountItems()
	}
	c.logger.Infof("成功保存ItemBlock数据，ID: %s, 包含 %d 个items", snap.SnapshotUUID, totalItems)
	return nil
}

// Normalize 将原始响应映射为快照。
// 上游失败时不短路丢弃：构建 success=false、分类为空的审计快照，并保留错误原文。
// 抓取时间取解析完成时刻，反映“观测到”的时间而非上游自身时钟。
func (c *ItemBlockCrawler) Normalize(raw []byte) (*model.ItemBlockSnapshot, error) {
	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	snap := &model.ItemBlockSnapshot{
		SnapshotUUID: uuid.NewString(),
		Success:      env.Success != nil && *env.Success,
		ErrorCode:    env.ErrorCode,
		ErrorMsg:     env.ErrorMsg,
		ErrorCodeStr: env.ErrorCodeStr,
	}

	if env.failed() {
		c.logger.Error((&UpstreamError{Success: env.Success, ErrorCode: env.ErrorCode, ErrorMsg: derefString(env.ErrorMsg)}).Error())
		if len(env.ErrorData) > 0 {
			snap.ErrorData = datatypes.JSON(env.ErrorData)
		}
		snap.CaptureTime = time.Now()
		return snap, nil
	}

	if data := c.parseData(env.Data); data != nil {
		if buf, err := json.Marshal(data); err == nil {
			js := datatypes.JSON(buf)
			snap.Data = &js
		}
	}
	snap.CaptureTime = time.Now()
	return snap, nil
}

// parseData 解析 data 下的四个分类；data 缺失或损坏返回 nil
func (c *ItemBlockCrawler) parseData(raw json.RawMessage) *model.ItemBlockData {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	tree, err := decodeTree(raw)
	if err != nil {
		c.logger.Errorf("解析ItemBlock数据时发生错误: %v", err)
		return nil
	}
	return &model.ItemBlockData{
		Hot:            c.parseCategory(getObject(tree, "hot")),
		ItemTypeLevel1: c.parseCategory(getObject(tree, "itemTypeLevel1")),
		ItemTypeLevel2: c.parseCategory(getObject(tree, "itemTypeLevel2")),
		ItemTypeLevel3: c.parseCategory(getObject(tree, "itemTypeLevel3")),
	}
}

// parseCategory 分类整体缺失返回 nil，与空榜单区分
func (c *ItemBlockCrawler) parseCategory(obj map[string]any) *model.ItemBlockCategory {
	if obj == nil {
		return nil
	}
	return &model.ItemBlockCategory{
		DefaultList: c.parseItemList(getArray(obj, "defaultList")),
		TopList:     c.parseItemList(getArray(obj, "topList")),
		BottomList:  c.parseItemList(getArray(obj, "bottomList")),
	}
}

// parseItemList 逐项解析榜单；单项损坏只跳过该项并记日志，残缺数据好过没有数据
func (c *ItemBlockCrawler) parseItemList(arr []any) []model.ItemBlockItem {
	items := make([]model.ItemBlockItem, 0, len(arr))
	for _, v := range arr {
		obj, ok := v.(map[string]any)
		if !ok {
			c.logger.Warnf("跳过非法榜单项: %v", v)
			continue
		}
		name := getString(obj, "name")
		if name == "" {
			c.logger.Warnf("跳过缺少名称的榜单项: %v", obj)
			continue
		}
		items = append(items, model.ItemBlockItem{
			Type:         getString(obj, "type"),
			Name:         name,
			Level:        getInt(obj, "level"),
			TypeVal:      getString(obj, "typeVal"),
			Index:        getFloat(obj, "index"),
			RiseFallRate: getFloat(obj, "riseFallRate"),
			RiseFallDiff: getFloat(obj, "riseFallDiff"),
		})
	}
	return items
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
