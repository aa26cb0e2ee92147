package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ItemBlockItem 单个物品/板块指数观测项（入库后不可变）
type ItemBlockItem struct {
	Type         string  `json:"type"`         // 指标类型：HOT / ITEM_TYPE
	Name         string  `json:"name"`         // 名称
	Level        int     `json:"level"`        // 级别：0-3
	TypeVal      string  `json:"typeVal"`      // 类型值（上游主键串）
	Index        float64 `json:"index"`        // 指数
	RiseFallRate float64 `json:"riseFallRate"` // 涨跌率（带符号百分比）
	RiseFallDiff float64 `json:"riseFallDiff"` // 涨跌差值
}

// ItemBlockCategory 一个分类下的三个榜单。
// 任一榜单可为空切片；分类整体缺失用 *ItemBlockCategory == nil 表达。
type ItemBlockCategory struct {
	DefaultList []ItemBlockItem `json:"defaultList"` // 默认列表（未排序目录）
	TopList     []ItemBlockItem `json:"topList"`     // 涨幅榜（按涨幅降序）
	BottomList  []ItemBlockItem `json:"bottomList"`  // 跌幅榜（按跌幅升序）
}

// CountItems 统计分类下三个榜单的项目总数
func (c *ItemBlockCategory) CountItems() int {
	if c == nil {
		return 0
	}
	return len(c.DefaultList) + len(c.TopList) + len(c.BottomList)
}

// ItemBlockData 四个可选分类；nil 表示上游未返回该分类
type ItemBlockData struct {
	Hot            *ItemBlockCategory `json:"hot,omitempty"`
	ItemTypeLevel1 *ItemBlockCategory `json:"itemTypeLevel1,omitempty"`
	ItemTypeLevel2 *ItemBlockCategory `json:"itemTypeLevel2,omitempty"`
	ItemTypeLevel3 *ItemBlockCategory `json:"itemTypeLevel3,omitempty"`
}

// CategoryByKey 按分类名取分类，支持 level1/itemtypelevel1 等别名；未知返回 nil
func (d *ItemBlockData) CategoryByKey(key string) *ItemBlockCategory {
	if d == nil {
		return nil
	}
	switch strings.ToLower(key) {
	case "hot":
		return d.Hot
	case "level1", "itemtypelevel1":
		return d.ItemTypeLevel1
	case "level2", "itemtypelevel2":
		return d.ItemTypeLevel2
	case "level3", "itemtypelevel3":
		return d.ItemTypeLevel3
	default:
		return nil
	}
}

// CategoryByLevel 按级别取物品类型分类（1-3）；越界返回 nil
func (d *ItemBlockData) CategoryByLevel(level int) *ItemBlockCategory {
	if d == nil {
		return nil
	}
	switch level {
	case 1:
		return d.ItemTypeLevel1
	case 2:
		return d.ItemTypeLevel2
	case 3:
		return d.ItemTypeLevel3
	default:
		return nil
	}
}

// ItemBlockSnapshot 一次抓取事件的落库记录。
// 上游失败时 success=false、data 为空，但仍保留原始错误响应用于审计排查。
type ItemBlockSnapshot struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"-"`
	SnapshotUUID string          `gorm:"column:snapshot_uuid;type:varchar(64);uniqueIndex;not null;comment:快照全局唯一ID" json:"id"`
	CaptureTime  time.Time       `gorm:"column:capture_time;type:timestamp;not null;index;comment:抓取时间（解析完成时刻，非上游时钟）" json:"createTime"`
	Success      bool            `gorm:"column:success;type:boolean;not null;comment:上游是否成功" json:"success"`
	ErrorCode    *int            `gorm:"column:error_code;type:int;comment:上游错误码" json:"errorCode,omitempty"`
	ErrorMsg     *string         `gorm:"column:error_msg;type:varchar(512);comment:上游错误信息" json:"errorMsg,omitempty"`
	ErrorCodeStr *string         `gorm:"column:error_code_str;type:varchar(64);comment:上游错误码字符串" json:"errorCodeStr,omitempty"`
	ErrorData    datatypes.JSON  `gorm:"column:error_data;type:jsonb;comment:失败时保留的原始响应" json:"errorData,omitempty"`
	Data         *datatypes.JSON `gorm:"column:data;type:jsonb;comment:解析后的分类数据" json:"data,omitempty"`
}

func (ItemBlockSnapshot) TableName() string { return "item_block_snapshots" }

// ParseData 反序列化 data 列；失败快照（data 为空）返回 nil
func (s *ItemBlockSnapshot) ParseData() *ItemBlockData {
	if s == nil || s.Data == nil || len(*s.Data) == 0 {
		return nil
	}
	var d ItemBlockData
	if err := json.Unmarshal(*s.Data, &d); err != nil {
		return nil
	}
	return &d
}
