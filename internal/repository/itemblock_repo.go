package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"

	"gorm.io/gorm"
)

// ItemBlockRepository 板块快照序列存储。
// 只追加：无更新操作，仅插入与整体清空。
type ItemBlockRepository interface {
	// Insert 追加一条快照
	Insert(ctx context.Context, snap *model.ItemBlockSnapshot) error
	// Latest 最新一条快照；序列为空返回 nil
	Latest(ctx context.Context) (*model.ItemBlockSnapshot, error)
	// LatestN 最新 n 条，按抓取时间降序
	LatestN(ctx context.Context, n int) ([]*model.ItemBlockSnapshot, error)
	// RangeByTime 时间范围查询，按抓取时间升序
	RangeByTime(ctx context.Context, start, end time.Time) ([]*model.ItemBlockSnapshot, error)
	// FindBySuccess 按成功状态过滤
	FindBySuccess(ctx context.Context, success bool) ([]*model.ItemBlockSnapshot, error)
	// Count 总记录数
	Count(ctx context.Context) (int64, error)
	// Page 分页查询（按抓取时间降序），返回当页记录与总数
	Page(ctx context.Context, page, size int) ([]*model.ItemBlockSnapshot, int64, error)
	// DeleteAll 清空序列，返回删除前的记录数
	DeleteAll(ctx context.Context) (int64, error)
}

type itemBlockRepository struct {
	db *gorm.DB
}

// NewItemBlockRepository 创建 ItemBlockRepository 实例
func NewItemBlockRepository(db *gorm.DB) ItemBlockRepository {
	return &itemBlockRepository{db: db}
}

func (r *itemBlockRepository) Insert(ctx context.Context, snap *model.ItemBlockSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

func (r *itemBlockRepository) Latest(ctx context.Context) (*model.ItemBlockSnapshot, error) {
	var snap model.ItemBlockSnapshot
	err := r.db.WithContext(ctx).
		Order("capture_time DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *itemBlockRepository) LatestN(ctx context.Context, n int) ([]*model.ItemBlockSnapshot, error) {
	if n <= 0 {
		n = 10
	}
	var snaps []*model.ItemBlockSnapshot
	if err := r.db.WithContext(ctx).
		Order("capture_time DESC").
		Limit(n).
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *itemBlockRepository) RangeByTime(ctx context.Context, start, end time.Time) ([]*model.ItemBlockSnapshot, error) {
	var snaps []*model.ItemBlockSnapshot
	if err := r.db.WithContext(ctx).
		Where("capture_time BETWEEN ? AND ?", start, end).
		Order("capture_time ASC").
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *itemBlockRepository) FindBySuccess(ctx context.Context, success bool) ([]*model.ItemBlockSnapshot, error) {
	var snaps []*model.ItemBlockSnapshot
	if err := r.db.WithContext(ctx).
		Where("success = ?", success).
		Order("capture_time DESC").
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *itemBlockRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ItemBlockSnapshot{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *itemBlockRepository) Page(ctx context.Context, page, size int) ([]*model.ItemBlockSnapshot, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	db := r.db.WithContext(ctx).Model(&model.ItemBlockSnapshot{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var snaps []*model.ItemBlockSnapshot
	if err := db.
		Order("capture_time DESC").
		Offset(page * size).
		Limit(size).
		Find(&snaps).Error; err != nil {
		return nil, 0, err
	}
	return snaps, total, nil
}

func (r *itemBlockRepository) DeleteAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ItemBlockSnapshot{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.ItemBlockSnapshot{}).Error; err != nil {
		return 0, err
	}
	return total, nil
}
