package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// TodayStatistics 今日统计子记录。
// addNum/tradeNum 上游可能返回数字或字符串，入库统一为不透明字符串，避免精度丢失。
type TodayStatistics struct {
	AddNum           string  `json:"addNum"`           // 新增数量
	AddValuation     float64 `json:"addValuation"`     // 新增估值
	TradeNum         string  `json:"tradeNum"`         // 交易数量
	Turnover         float64 `json:"turnover"`         // 成交额
	AddNumRatio      float64 `json:"addNumRatio"`      // 新增数量比率
	AddAmountRatio   float64 `json:"addAmountRatio"`   // 新增金额比率
	TradeVolumeRatio float64 `json:"tradeVolumeRatio"` // 交易量比率
	TradeAmountRatio float64 `json:"tradeAmountRatio"` // 交易金额比率
}

// YesterdayStatistics 昨日统计子记录（无比率字段）
type YesterdayStatistics struct {
	AddNum       string  `json:"addNum"`       // 新增数量
	AddValuation float64 `json:"addValuation"` // 新增估值
	TradeNum     string  `json:"tradeNum"`     // 交易数量
	Turnover     float64 `json:"turnover"`     // 成交额
}

// StatisticsSnapshot 一次大盘指数观测的落库记录。
// 与 ItemBlockSnapshot 不同：上游失败时不落库（产品侧约定，勿统一）。
type StatisticsSnapshot struct {
	ID                     uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"-"`
	SnapshotUUID           string          `gorm:"column:snapshot_uuid;type:varchar(64);uniqueIndex;not null;comment:快照全局唯一ID" json:"id"`
	CaptureTime            time.Time       `gorm:"column:capture_time;type:timestamp;not null;index;comment:抓取时间" json:"createTime"`
	BroadMarketIndex       float64         `gorm:"column:broad_market_index;type:numeric(18,6);not null;comment:大盘指数" json:"broadMarketIndex"`
	DiffYesterday          float64         `gorm:"column:diff_yesterday;type:numeric(18,6);comment:较昨日差值" json:"diffYesterday"`
	DiffYesterdayRatio     float64         `gorm:"column:diff_yesterday_ratio;type:numeric(10,4);comment:较昨日差值比率" json:"diffYesterdayRatio"`
	SurviveNum             string          `gorm:"column:survive_num;type:varchar(32);comment:存活数量（上游原样字符串）" json:"surviveNum"`
	HoldersNum             string          `gorm:"column:holders_num;type:varchar(32);comment:持有者数量（上游原样字符串）" json:"holdersNum"`
	RiseFallType           string          `gorm:"column:rise_fall_type;type:varchar(16);comment:涨跌类型" json:"riseFallType"`
	RiseFallDays           int             `gorm:"column:rise_fall_days;type:int;comment:连续涨跌天数" json:"riseFallDays"`
	HistoryMarketIndexList datatypes.JSON  `gorm:"column:history_market_index_list;type:jsonb;comment:历史指数列表 [[时间戳,指数],...]" json:"historyMarketIndexList"`
	TodayStatistics        *datatypes.JSON `gorm:"column:today_statistics;type:jsonb;comment:今日统计" json:"todayStatistics,omitempty"`
	YesterdayStatistics    *datatypes.JSON `gorm:"column:yesterday_statistics;type:jsonb;comment:昨日统计" json:"yesterdayStatistics,omitempty"`
}

func (StatisticsSnapshot) TableName() string { return "statistics_snapshots" }

// ParseHistory 反序列化历史指数列表；缺失或损坏返回空切片
func (s *StatisticsSnapshot) ParseHistory() [][]float64 {
	if s == nil || len(s.HistoryMarketIndexList) == 0 {
		return [][]float64{}
	}
	var list [][]float64
	if err := json.Unmarshal(s.HistoryMarketIndexList, &list); err != nil {
		return [][]float64{}
	}
	return list
}

// ParseToday 反序列化今日统计；缺失返回 nil（区分“无数据”与零值）
func (s *StatisticsSnapshot) ParseToday() *TodayStatistics {
	if s == nil || s.TodayStatistics == nil || len(*s.TodayStatistics) == 0 {
		return nil
	}
	var t TodayStatistics
	if err := json.Unmarshal(*s.TodayStatistics, &t); err != nil {
		return nil
	}
	return &t
}

// ParseYesterday 反序列化昨日统计；缺失返回 nil
func (s *StatisticsSnapshot) ParseYesterday() *YesterdayStatistics {
	if s == nil || s.YesterdayStatistics == nil || len(*s.YesterdayStatistics) == 0 {
		return nil
	}
	var y YesterdayStatistics
	if err := json.Unmarshal(*s.YesterdayStatistics, &y); err != nil {
		return nil
	}
	return &y
}
