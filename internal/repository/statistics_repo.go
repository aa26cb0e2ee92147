package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DavidHLP/CSGOSkinMetrics/internal/model"

	"gorm.io/gorm"
)

// StatisticsRepository 大盘统计快照序列存储（只追加）
type StatisticsRepository interface {
	// Insert 追加一条快照
	Insert(ctx context.Context, snap *model.StatisticsSnapshot) error
	// Latest 最新一条快照；序列为空返回 nil
	Latest(ctx context.Context) (*model.StatisticsSnapshot, error)
	// LatestN 最新 n 条，按抓取时间降序
	LatestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error)
	// OldestN 最早 n 条，按抓取时间升序（专业统计窗口用）
	OldestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error)
	// RangeByTime 时间范围查询，按抓取时间升序
	RangeByTime(ctx context.Context, start, end time.Time) ([]*model.StatisticsSnapshot, error)
	// Count 总记录数
	Count(ctx context.Context) (int64, error)
	// Page 分页查询（按抓取时间降序），返回当页记录与总数
	Page(ctx context.Context, page, size int) ([]*model.StatisticsSnapshot, int64, error)
	// DeleteAll 清空序列，返回删除前的记录数
	DeleteAll(ctx context.Context) (int64, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository 创建 StatisticsRepository 实例
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) Insert(ctx context.Context, snap *model.StatisticsSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

func (r *statisticsRepository) Latest(ctx context.Context) (*model.StatisticsSnapshot, error) {
	var snap model.StatisticsSnapshot
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

func (r *statisticsRepository) LatestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error) {
	if n <= 0 {
		n = 10
	}
	var snaps []*model.StatisticsSnapshot
	if err := r.db.WithContext(ctx).
		Order("capture_time DESC").
		Limit(n).
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *statisticsRepository) OldestN(ctx context.Context, n int) ([]*model.StatisticsSnapshot, error) {
	if n <= 0 {
		n = 10
	}
	var snaps []*model.StatisticsSnapshot
	if err := r.db.WithContext(ctx).
		Order("capture_time ASC").
		Limit(n).
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *statisticsRepository) RangeByTime(ctx context.Context, start, end time.Time) ([]*model.StatisticsSnapshot, error) {
	var snaps []*model.StatisticsSnapshot
	if err := r.db.WithContext(ctx).
		Where("capture_time BETWEEN ? AND ?", start, end).
		Order("capture_time ASC").
		Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *statisticsRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.StatisticsSnapshot{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *statisticsRepository) Page(ctx context.Context, page, size int) ([]*model.StatisticsSnapshot, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	db := r.db.WithContext(ctx).Model(&model.StatisticsSnapshot{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var snaps []*model.StatisticsSnapshot
	if err := db.
		Order("capture_time DESC").
		Offset(page * size).
		Limit(size).
		Find(&snaps).Error; err != nil {
		return nil, 0, err
	}
	return snaps, total, nil
}

func (r *statisticsRepository) DeleteAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.StatisticsSnapshot{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.StatisticsSnapshot{}).Error; err != nil {
		return 0, err
	}
	return total, nil
}
