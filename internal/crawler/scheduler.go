package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// tickFunc 单个数据源的一轮抓取
type tickFunc func(ctx context.Context) error

// Scheduler 按固定周期驱动两个数据源的抓取流水线。
// 每个数据源一个独立定时协程：一个源的慢请求或失败不会影响另一个源的节奏；
// 单轮失败只记日志，下一轮照常触发（不重试、不退避）。
type Scheduler struct {
	itemBlock  *ItemBlockCrawler
	statistics *StatisticsCrawler
	interval   time.Duration
	logger     *logrus.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewScheduler 创建调度器
func NewScheduler(itemBlock *ItemBlockCrawler, statistics *StatisticsCrawler, interval time.Duration, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		itemBlock:  itemBlock,
		statistics: statistics,
		interval:   interval,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start 启动两个数据源的定时抓取；重复调用无效果
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Infof("定时抓取已启动，周期 %v", s.interval)
	s.wg.Add(2)
	go s.runLoop("item-block", s.itemBlock.Crawl)
	go s.runLoop("statistics", s.statistics.Crawl)
}

// Stop 取消所有抓取协程并等待退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.running = false
	s.logger.Info("定时抓取已停止")
}

// runLoop 单个数据源的定时循环：启动立即执行一轮，之后按固定周期触发
func (s *Scheduler) runLoop(source string, tick tickFunc) {
	defer s.wg.Done()

	s.safeTick(source, tick)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.safeTick(source, tick)
		}
	}
}

// safeTick 执行一轮并吞掉panic：任何一轮的异常都不能阻断后续调度
func (s *Scheduler) safeTick(source string, tick tickFunc) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("source", source).Errorf("抓取协程panic已恢复: %v", r)
		}
	}()
	if err := tick(s.ctx); err != nil {
		s.logger.WithField("source", source).Errorf("本轮抓取失败: %v", err)
	}
}
